package handlers

import (
	"github.com/gin-gonic/gin"

	"gudang/internal/core/apperror"
	"gudang/internal/domain/reports"
	"gudang/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// Movements handles GET /reports/movements?from=...&to=...
func (h *ReportsHandler) Movements(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		h.Error(c, apperror.NewValidation("from and to are required"))
		return
	}

	fromDate, err := dto.ParseDate("from", from)
	if err != nil {
		h.Error(c, err)
		return
	}
	toDate, err := dto.ParseDate("to", to)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetStockMovement(c.Request.Context(), reports.MovementReportFilter{
		FromDate: fromDate,
		ToDate:   toDate,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// Balance handles GET /reports/balance[?asOf=...&excludeZero=true].
func (h *ReportsHandler) Balance(c *gin.Context) {
	filter := reports.BalanceReportFilter{
		ExcludeZero: c.Query("excludeZero") == "true",
	}

	if raw := c.Query("asOf"); raw != "" {
		asOf, err := dto.ParseDate("asOf", raw)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.AsOfDate = &asOf
	}

	report, err := h.service.GetStockBalance(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}
