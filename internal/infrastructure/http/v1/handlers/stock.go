package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"gudang/internal/core/apperror"
	"gudang/internal/domain/inventory"
)

// StockHandler handles stock query endpoints.
type StockHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *inventory.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Summary handles GET /stock: remaining quantity per stock key.
func (h *StockHandler) Summary(c *gin.Context) {
	items, err := h.service.StockSummary(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// Query handles GET /stock/query?name=...&unit=...[&asOf=seq]: one
// key's remaining quantity, optionally as of a history position.
func (h *StockHandler) Query(c *gin.Context) {
	key := inventory.StockKey{
		Name: c.Query("name"),
		Unit: c.Query("unit"),
	}
	if key.Name == "" || key.Unit == "" {
		h.Error(c, apperror.NewValidation("name and unit are required"))
		return
	}

	var asOf *int64
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid asOf").WithDetail("value", raw))
			return
		}
		asOf = &parsed
	}

	remaining, err := h.service.QueryStock(c.Request.Context(), key, asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"name":  key.Name,
		"unit":  key.Unit,
		"stock": remaining,
	})
}
