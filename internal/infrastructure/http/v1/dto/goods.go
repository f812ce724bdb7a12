package dto

import (
	"gudang/internal/core/types"
	"gudang/internal/domain/inventory"
)

// GoodsInLineRequest is one batch line of an incoming nota.
type GoodsInLineRequest struct {
	Name     string `json:"name" binding:"required"`
	Unit     string `json:"unit" binding:"required"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

// SaveGoodsInRequest creates or replaces an incoming nota.
type SaveGoodsInRequest struct {
	Date     string               `json:"date" binding:"required"`
	Supplier string               `json:"supplier" binding:"required"`
	Items    []GoodsInLineRequest `json:"items"`
}

// ToInput maps the request to the engine's input, stamping the recorder.
func (r SaveGoodsInRequest) ToInput(recordedBy string) (inventory.ReceivingRecordInput, error) {
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return inventory.ReceivingRecordInput{}, err
	}

	input := inventory.ReceivingRecordInput{
		Date:       date,
		Supplier:   r.Supplier,
		RecordedBy: recordedBy,
		Items:      make([]inventory.ReceivingItemInput, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		input.Items = append(input.Items, inventory.ReceivingItemInput{
			Name:     item.Name,
			Unit:     item.Unit,
			Quantity: item.Quantity,
			Price:    types.Rupiah(item.Price),
		})
	}
	return input, nil
}

// GoodsOutLineRequest is one requested outgoing line.
type GoodsOutLineRequest struct {
	Name     string `json:"name" binding:"required"`
	Unit     string `json:"unit" binding:"required"`
	Quantity int64  `json:"quantity"`
}

// CreateGoodsOutRequest submits an outgoing nota for FIFO allocation.
type CreateGoodsOutRequest struct {
	Destination string                `json:"destination" binding:"required"`
	Kind        string                `json:"kind" binding:"required"`
	Lines       []GoodsOutLineRequest `json:"lines"`
}

// ToInput maps the request to the engine's input, stamping the recorder.
func (r CreateGoodsOutRequest) ToInput(recordedBy string) inventory.OutgoingTransactionInput {
	input := inventory.OutgoingTransactionInput{
		Destination: r.Destination,
		Kind:        inventory.TransactionKind(r.Kind),
		RecordedBy:  recordedBy,
		Lines:       make([]inventory.RequestLine, 0, len(r.Lines)),
	}
	for _, line := range r.Lines {
		input.Lines = append(input.Lines, inventory.RequestLine{
			StockKey: inventory.StockKey{Name: line.Name, Unit: line.Unit},
			Quantity: line.Quantity,
		})
	}
	return input
}
