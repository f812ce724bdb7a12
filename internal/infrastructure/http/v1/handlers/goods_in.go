package handlers

import (
	"github.com/gin-gonic/gin"

	"gudang/internal/core/appctx"
	"gudang/internal/domain/inventory"
	"gudang/internal/infrastructure/http/v1/dto"
)

// GoodsInHandler handles incoming nota (receiving record) endpoints.
type GoodsInHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewGoodsInHandler creates a new goods-in handler.
func NewGoodsInHandler(base *BaseHandler, service *inventory.Service) *GoodsInHandler {
	return &GoodsInHandler{BaseHandler: base, service: service}
}

// List handles GET /goods-in: all notas newest-first with lock flags.
func (h *GoodsInHandler) List(c *gin.Context) {
	records, err := h.service.ListReceivingRecords(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, records)
}

// Create handles POST /goods-in.
func (h *GoodsInHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SaveGoodsInRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput(appctx.RecorderName(ctx))
	if err != nil {
		h.Error(c, err)
		return
	}

	rec, err := h.service.SubmitReceivingRecord(ctx, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, rec)
}

// Update handles PUT /goods-in/:id. Rejected with LOCKED_RECORD when
// any allocation references the nota's batches.
func (h *GoodsInHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	recordID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.SaveGoodsInRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput(appctx.RecorderName(ctx))
	if err != nil {
		h.Error(c, err)
		return
	}

	rec, err := h.service.UpdateReceivingRecord(ctx, recordID, input)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}

// Delete handles DELETE /goods-in/:id.
func (h *GoodsInHandler) Delete(c *gin.Context) {
	recordID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteReceivingRecord(c.Request.Context(), recordID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
