// Package inventory implements the FIFO inventory allocation engine:
// a ledger of priced stock batches received in dated notas, FIFO
// allocation of outgoing stock against those batches, and the
// referential lock that freezes any nota whose goods have been issued.
package inventory

import (
	"context"
	"time"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
)

// StockKey identifies a fungible stock line: the pair (item name, unit
// of measure). Two items with the same name but different units are
// different stock.
type StockKey struct {
	Name string `db:"name" json:"name"`
	Unit string `db:"unit" json:"unit"`
}

// String renders the key for logs and error details.
func (k StockKey) String() string {
	return k.Name + " (" + k.Unit + ")"
}

// BatchLine is one priced, dated quantity of stock inside a receiving
// record. Immutable once any allocation references it; until then it is
// replaced wholesale together with its owning record.
type BatchLine struct {
	ID id.ID `db:"line_id" json:"lineId"`

	StockKey

	// Quantity is the original received quantity (positive, in units).
	Quantity int64 `db:"quantity" json:"quantity"`

	// UnitPrice is this batch's own price. Allocations copy it at
	// allocation time; it is never recomputed.
	UnitPrice types.Rupiah `db:"unit_price" json:"unitPrice"`
}

// Value returns quantity × unit price.
func (b BatchLine) Value() types.Money {
	return b.UnitPrice.Mul(b.Quantity)
}

// ReceivingRecord is a supplier nota: an ordered collection of batches
// received together. Seq is the receipt-order axis: strictly monotonic,
// assigned by the store, shared with outgoing transactions so as-of
// cutoffs order the whole history. Receipt date is display only and
// never breaks ties.
type ReceivingRecord struct {
	ID  id.ID `db:"id" json:"id"`
	Seq int64 `db:"seq" json:"seq"`

	// Number is the human-readable nota number (e.g. NM-2026-00001).
	Number string `db:"number" json:"number"`

	Date       time.Time `db:"date" json:"date"`
	Supplier   string    `db:"supplier" json:"supplier"`
	RecordedBy string    `db:"recorded_by" json:"recordedBy"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Lines []BatchLine `db:"-" json:"lines"`
}

// NewReceivingRecord creates a receiving record with a generated ID.
// Seq and Number are stamped by the engine on submission.
func NewReceivingRecord(date time.Time, supplier, recordedBy string) *ReceivingRecord {
	now := time.Now().UTC()
	return &ReceivingRecord{
		ID:         id.New(),
		Date:       date,
		Supplier:   supplier,
		RecordedBy: recordedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
		Lines:      make([]BatchLine, 0),
	}
}

// AddLine appends a batch to the record.
func (r *ReceivingRecord) AddLine(key StockKey, quantity int64, unitPrice types.Rupiah) {
	r.Lines = append(r.Lines, BatchLine{
		ID:        id.New(),
		StockKey:  key,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
}

// TotalValue sums line values for display.
func (r *ReceivingRecord) TotalValue() types.Money {
	total := types.ZeroMoney()
	for _, line := range r.Lines {
		total = total.Add(line.Value())
	}
	return total
}

// Validate checks record invariants.
func (r *ReceivingRecord) Validate(ctx context.Context) error {
	if r.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if r.Supplier == "" {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplier")
	}
	if len(r.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}
	for i, line := range r.Lines {
		if line.Name == "" || line.Unit == "" {
			return apperror.NewValidation("item name and unit are required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}

// TransactionKind classifies an outgoing transaction.
type TransactionKind string

const (
	// KindSale: goods leave as a sale (Penjualan).
	KindSale TransactionKind = "sale"
	// KindInternalUse: goods are consumed internally (Pemakaian Internal).
	KindInternalUse TransactionKind = "internal_use"
)

// Valid reports whether the kind is one of the known values.
func (k TransactionKind) Valid() bool {
	return k == KindSale || k == KindInternalUse
}

// AllocationLine records quantity consumed from one specific batch by
// one outgoing transaction, at that batch's frozen price. It carries a
// value copy of the price, never a reference back to the batch, so a
// historical allocation can never change.
type AllocationLine struct {
	ID id.ID `db:"line_id" json:"transactionItemId"`

	StockKey

	// Quantity consumed from the source batch (positive).
	Quantity int64 `db:"quantity" json:"quantity"`

	// UnitPrice copied from the source batch at allocation time.
	UnitPrice types.Rupiah `db:"unit_price" json:"unitPrice"`

	// Source reference: weak link, used for lookup and lock
	// computation only, never for lifetime.
	SourceRecordID id.ID `db:"source_record_id" json:"sourceRecordId"`
	SourceBatchID  id.ID `db:"source_batch_id" json:"sourceBatchId"`
}

// Cost returns quantity × frozen unit price.
func (a AllocationLine) Cost() types.Money {
	return a.UnitPrice.Mul(a.Quantity)
}

// OutgoingTransaction is an outgoing nota: the allocations produced by
// one validated request. Created atomically by the allocator; deleted
// wholesale, which restores exactly the stock it consumed because
// remaining stock is always computed, never stored.
type OutgoingTransaction struct {
	ID  id.ID `db:"id" json:"id"`
	Seq int64 `db:"seq" json:"seq"`

	Destination string          `db:"destination" json:"destination"`
	Kind        TransactionKind `db:"kind" json:"kind"`
	RecordedBy  string          `db:"recorded_by" json:"recordedBy"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Lines []AllocationLine `db:"-" json:"lines"`
}

// TotalCost is the realized FIFO cost: the sum of per-split
// price × quantity, not latest price × total quantity.
func (t *OutgoingTransaction) TotalCost() types.Money {
	total := types.ZeroMoney()
	for _, line := range t.Lines {
		total = total.Add(line.Cost())
	}
	return total
}

// RequestLine is one requested outgoing line before allocation.
type RequestLine struct {
	StockKey
	Quantity int64 `json:"quantity"`
}
