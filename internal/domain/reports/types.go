// Package reports provides report generation over the inventory ledger.
// Every report is a pure fold over the full history; nothing here is
// stored or cached.
package reports

import (
	"time"

	"gudang/internal/core/types"
)

// --- Stock Movement Report ---

// MovementReportFilter defines the period for the movement report.
type MovementReportFilter struct {
	// Period (required, inclusive)
	FromDate time.Time
	ToDate   time.Time
}

// MovementReportItem is one stock key's in/out totals for the period.
type MovementReportItem struct {
	Name string `json:"name"`
	Unit string `json:"unit"`

	// Incoming goods within the period, valued at each batch's own price.
	QtyIn   int64       `json:"qtyIn"`
	ValueIn types.Money `json:"valueIn"`

	// Outgoing goods within the period, valued at the frozen prices the
	// allocations carry, so the report is a true FIFO cost of goods.
	QtyOut   int64       `json:"qtyOut"`
	ValueOut types.Money `json:"valueOut"`

	// EndingQty is remaining stock as of the period end.
	EndingQty int64 `json:"endingQty"`
}

// MovementReport is the full period movement report.
type MovementReport struct {
	FromDate time.Time            `json:"fromDate"`
	ToDate   time.Time            `json:"toDate"`
	Items    []MovementReportItem `json:"items"`

	TotalInValue  types.Money `json:"totalInValue"`
	TotalOutValue types.Money `json:"totalOutValue"`
}

// --- Stock Balance Report ---

// BalanceReportFilter defines filter for the stock balance report.
type BalanceReportFilter struct {
	// AsOfDate - report date (defaults to now)
	AsOfDate *time.Time

	// ExcludeZero drops keys with no remaining stock.
	ExcludeZero bool
}

// BalanceReportItem is one stock key's remaining quantity and value.
type BalanceReportItem struct {
	Name string `json:"name"`
	Unit string `json:"unit"`

	Quantity int64 `json:"quantity"`

	// TotalValue is the FIFO valuation of the remaining stock: each
	// surviving batch remainder at its own frozen price.
	TotalValue types.Money `json:"totalValue"`
}

// BalanceReport is the full stock balance report.
type BalanceReport struct {
	AsOfDate time.Time           `json:"asOfDate"`
	Items    []BalanceReportItem `json:"items"`

	TotalValue types.Money `json:"totalValue"`
}
