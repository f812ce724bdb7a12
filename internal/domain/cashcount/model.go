// Package cashcount implements end-of-day cash opname: counting the
// physical drawer by denomination and reconciling it against what the
// system says should be there.
package cashcount

import (
	"context"
	"time"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/core/types"
)

// DenominationKind distinguishes bills from coins for display grouping.
type DenominationKind string

const (
	KindBill DenominationKind = "bill"
	KindCoin DenominationKind = "coin"
)

// Denomination is one physical IDR note or coin value.
type Denomination struct {
	Value types.Rupiah     `json:"value"`
	Kind  DenominationKind `json:"kind"`
}

// Denominations is the full set of circulating IDR cash, largest first.
var Denominations = []Denomination{
	{100_000, KindBill},
	{50_000, KindBill},
	{20_000, KindBill},
	{10_000, KindBill},
	{5_000, KindBill},
	{2_000, KindBill},
	{1_000, KindBill},
	{500, KindCoin},
	{200, KindCoin},
	{100, KindCoin},
}

// KnownDenomination reports whether the value is a circulating
// denomination.
func KnownDenomination(value types.Rupiah) bool {
	for _, d := range Denominations {
		if d.Value == value {
			return true
		}
	}
	return false
}

// DenominationCount is the counted quantity of one denomination.
type DenominationCount struct {
	Value types.Rupiah `db:"value" json:"value"`
	Count int64        `db:"count" json:"count"`
}

// Subtotal returns value × count.
func (d DenominationCount) Subtotal() types.Money {
	return d.Value.Mul(d.Count)
}

// Opname is one completed cash count. The drawer inputs (starting cash,
// system sales, non-cash sales) are captured as entered; everything
// else is derived and recomputed on read, never stored.
type Opname struct {
	ID     id.ID  `db:"id" json:"id"`
	Number string `db:"number" json:"number"`

	Date       time.Time `db:"date" json:"date"`
	RecordedBy string    `db:"recorded_by" json:"recordedBy"`

	// StartingCash is the float the drawer opened with (Modal Awal).
	StartingCash types.Rupiah `db:"starting_cash" json:"startingCash"`
	// SystemSales is total sales per the system for the period.
	SystemSales types.Rupiah `db:"system_sales" json:"systemSales"`
	// NonCashSales is the QRIS/transfer portion of system sales.
	NonCashSales types.Rupiah `db:"non_cash_sales" json:"nonCashSales"`

	Counts []DenominationCount `db:"-" json:"counts"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewOpname creates an opname with a generated ID.
func NewOpname(date time.Time, recordedBy string) *Opname {
	return &Opname{
		ID:         id.New(),
		Date:       date,
		RecordedBy: recordedBy,
		CreatedAt:  time.Now().UTC(),
		Counts:     make([]DenominationCount, 0),
	}
}

// TotalPhysical sums the counted cash.
func (o *Opname) TotalPhysical() types.Money {
	total := types.ZeroMoney()
	for _, c := range o.Counts {
		total = total.Add(c.Subtotal())
	}
	return total
}

// CashSales is the cash portion of system sales.
func (o *Opname) CashSales() types.Money {
	return types.NewMoneyFromRupiah(o.SystemSales - o.NonCashSales)
}

// ExpectedInDrawer is what the drawer should hold: starting float plus
// cash sales.
func (o *Opname) ExpectedInDrawer() types.Money {
	return types.NewMoneyFromRupiah(o.StartingCash).Add(o.CashSales())
}

// Difference is physical minus expected. Positive means surplus,
// negative means the drawer is short.
func (o *Opname) Difference() types.Money {
	return o.TotalPhysical().Sub(o.ExpectedInDrawer())
}

// Verdict values.
const (
	VerdictBalanced = "balanced"
	VerdictSurplus  = "surplus"
	VerdictShort    = "short"
)

// Verdict classifies the difference.
func (o *Opname) Verdict() string {
	diff := o.Difference()
	switch {
	case diff.IsPositive():
		return VerdictSurplus
	case diff.IsNegative():
		return VerdictShort
	default:
		return VerdictBalanced
	}
}

// Validate checks opname invariants.
func (o *Opname) Validate(ctx context.Context) error {
	if o.Date.IsZero() {
		return apperror.NewValidation("date is required").WithDetail("field", "date")
	}
	if o.StartingCash.IsNegative() || o.SystemSales.IsNegative() || o.NonCashSales.IsNegative() {
		return apperror.NewValidation("amounts must not be negative")
	}
	if o.NonCashSales > o.SystemSales {
		return apperror.NewValidation("non-cash sales cannot exceed system sales").
			WithDetail("field", "nonCashSales")
	}

	seen := make(map[types.Rupiah]struct{}, len(o.Counts))
	for i, c := range o.Counts {
		if !KnownDenomination(c.Value) {
			return apperror.NewValidation("unknown denomination").
				WithDetail("field", "counts").
				WithDetail("lineNo", i+1).
				WithDetail("value", int64(c.Value))
		}
		if c.Count < 0 {
			return apperror.NewValidation("count must not be negative").
				WithDetail("field", "counts").
				WithDetail("lineNo", i+1)
		}
		if _, dup := seen[c.Value]; dup {
			return apperror.NewValidation("duplicate denomination").
				WithDetail("field", "counts").
				WithDetail("lineNo", i+1)
		}
		seen[c.Value] = struct{}{}
	}
	return nil
}
