package handlers

import (
	"github.com/gin-gonic/gin"

	"gudang/internal/core/appctx"
	"gudang/internal/domain/cashcount"
	"gudang/internal/infrastructure/http/v1/dto"
)

// CashCountHandler handles cash opname endpoints.
type CashCountHandler struct {
	*BaseHandler
	service *cashcount.Service
}

// NewCashCountHandler creates a new cash count handler.
func NewCashCountHandler(base *BaseHandler, service *cashcount.Service) *CashCountHandler {
	return &CashCountHandler{BaseHandler: base, service: service}
}

// List handles GET /cash-opname.
func (h *CashCountHandler) List(c *gin.Context) {
	opnames, err := h.service.ListOpnames(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOpnames(opnames))
}

// Denominations handles GET /cash-opname/denominations: the circulating
// bills and coins the count form offers.
func (h *CashCountHandler) Denominations(c *gin.Context) {
	h.OK(c, cashcount.Denominations)
}

// Create handles POST /cash-opname.
func (h *CashCountHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateOpnameRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput(appctx.RecorderName(ctx))
	if err != nil {
		h.Error(c, err)
		return
	}

	opname, err := h.service.SubmitOpname(ctx, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromOpname(opname))
}

// Delete handles DELETE /cash-opname/:id.
func (h *CashCountHandler) Delete(c *gin.Context) {
	opnameID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOpname(c.Request.Context(), opnameID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
