package handlers

import (
	"github.com/gin-gonic/gin"

	"gudang/internal/core/appctx"
	"gudang/internal/domain/inventory"
	"gudang/internal/infrastructure/http/v1/dto"
)

// GoodsOutHandler handles outgoing nota (FIFO allocation) endpoints.
type GoodsOutHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewGoodsOutHandler creates a new goods-out handler.
func NewGoodsOutHandler(base *BaseHandler, service *inventory.Service) *GoodsOutHandler {
	return &GoodsOutHandler{BaseHandler: base, service: service}
}

// List handles GET /goods-out.
func (h *GoodsOutHandler) List(c *gin.Context) {
	txs, err := h.service.ListOutgoingTransactions(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, txs)
}

// Create handles POST /goods-out: validates the whole request and, if
// satisfiable, allocates FIFO. 422 INSUFFICIENT_STOCK rejects the whole
// request and writes nothing.
func (h *GoodsOutHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateGoodsOutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tx, err := h.service.SubmitOutgoingTransaction(ctx, req.ToInput(appctx.RecorderName(ctx)))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, tx)
}

// Delete handles DELETE /goods-out/:id: removes the transaction and all
// its allocations, which restores the consumed stock exactly.
func (h *GoodsOutHandler) Delete(c *gin.Context) {
	txID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOutgoingTransaction(c.Request.Context(), txID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
