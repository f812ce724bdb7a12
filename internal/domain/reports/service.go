package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gudang/internal/core/apperror"
	"gudang/internal/core/types"
	"gudang/internal/domain/inventory"
)

// HistoryProvider supplies the full inventory history to fold over.
// Implemented by inventory.Service.
type HistoryProvider interface {
	History(ctx context.Context) ([]inventory.ReceivingRecord, []inventory.OutgoingTransaction, error)
}

// Service provides report generation operations.
type Service struct {
	history HistoryProvider
}

// NewService creates a new reports service.
func NewService(history HistoryProvider) *Service {
	return &Service{history: history}
}

// GetStockMovement generates the period movement report: per stock key,
// goods in and goods out within the period with their values, plus the
// remaining quantity as of the period end. Receiving records enter by
// their nota date; outgoing transactions by when they were recorded.
func (s *Service) GetStockMovement(ctx context.Context, filter MovementReportFilter) (*MovementReport, error) {
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		return nil, apperror.NewValidation("fromDate and toDate are required")
	}
	if filter.FromDate.After(filter.ToDate) {
		return nil, apperror.NewValidation("fromDate must be before toDate")
	}

	records, txs, err := s.history.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	// Dates are inclusive by calendar day.
	start := startOfDay(filter.FromDate)
	endExclusive := startOfDay(filter.ToDate).AddDate(0, 0, 1)

	type accum struct {
		qtyIn, qtyOut    int64
		valueIn          types.Money
		valueOut         types.Money
		endingIn, endOut int64
	}
	acc := make(map[inventory.StockKey]*accum)
	get := func(key inventory.StockKey) *accum {
		a, ok := acc[key]
		if !ok {
			a = &accum{valueIn: types.ZeroMoney(), valueOut: types.ZeroMoney()}
			acc[key] = a
		}
		return a
	}

	for _, rec := range records {
		if rec.Date.Before(endExclusive) {
			inPeriod := !rec.Date.Before(start)
			for _, line := range rec.Lines {
				a := get(line.StockKey)
				a.endingIn += line.Quantity
				if inPeriod {
					a.qtyIn += line.Quantity
					a.valueIn = a.valueIn.Add(line.Value())
				}
			}
		}
	}
	for _, tx := range txs {
		if tx.CreatedAt.Before(endExclusive) {
			inPeriod := !tx.CreatedAt.Before(start)
			for _, line := range tx.Lines {
				a := get(line.StockKey)
				a.endOut += line.Quantity
				if inPeriod {
					a.qtyOut += line.Quantity
					a.valueOut = a.valueOut.Add(line.Cost())
				}
			}
		}
	}

	report := &MovementReport{
		FromDate:      filter.FromDate,
		ToDate:        filter.ToDate,
		Items:         make([]MovementReportItem, 0, len(acc)),
		TotalInValue:  types.ZeroMoney(),
		TotalOutValue: types.ZeroMoney(),
	}
	for key, a := range acc {
		if a.qtyIn == 0 && a.qtyOut == 0 {
			// No movement within the period; key only had prior history.
			continue
		}
		report.Items = append(report.Items, MovementReportItem{
			Name:      key.Name,
			Unit:      key.Unit,
			QtyIn:     a.qtyIn,
			ValueIn:   a.valueIn,
			QtyOut:    a.qtyOut,
			ValueOut:  a.valueOut,
			EndingQty: a.endingIn - a.endOut,
		})
		report.TotalInValue = report.TotalInValue.Add(a.valueIn)
		report.TotalOutValue = report.TotalOutValue.Add(a.valueOut)
	}

	sort.Slice(report.Items, func(i, j int) bool {
		if report.Items[i].Name != report.Items[j].Name {
			return report.Items[i].Name < report.Items[j].Name
		}
		return report.Items[i].Unit < report.Items[j].Unit
	})

	return report, nil
}

// GetStockBalance generates the stock balance report as of a date: per
// stock key, remaining quantity and its FIFO valuation. Each surviving
// batch remainder is valued at that batch's own price, so the total is
// what the stock on hand actually cost.
func (s *Service) GetStockBalance(ctx context.Context, filter BalanceReportFilter) (*BalanceReport, error) {
	if filter.AsOfDate == nil {
		now := time.Now()
		filter.AsOfDate = &now
	}

	records, txs, err := s.history.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	endExclusive := startOfDay(*filter.AsOfDate).AddDate(0, 0, 1)

	// Consumption per batch from transactions up to the report date.
	consumed := make(map[string]int64)
	for _, tx := range txs {
		if !tx.CreatedAt.Before(endExclusive) {
			continue
		}
		for _, line := range tx.Lines {
			consumed[line.SourceBatchID.String()] += line.Quantity
		}
	}

	type accum struct {
		quantity int64
		value    types.Money
	}
	acc := make(map[inventory.StockKey]*accum)

	for _, rec := range records {
		if !rec.Date.Before(endExclusive) {
			continue
		}
		for _, line := range rec.Lines {
			remaining := line.Quantity - consumed[line.ID.String()]
			if remaining < 0 {
				remaining = 0
			}
			a, ok := acc[line.StockKey]
			if !ok {
				a = &accum{value: types.ZeroMoney()}
				acc[line.StockKey] = a
			}
			a.quantity += remaining
			a.value = a.value.Add(line.UnitPrice.Mul(remaining))
		}
	}

	report := &BalanceReport{
		AsOfDate:   *filter.AsOfDate,
		Items:      make([]BalanceReportItem, 0, len(acc)),
		TotalValue: types.ZeroMoney(),
	}
	for key, a := range acc {
		if filter.ExcludeZero && a.quantity == 0 {
			continue
		}
		report.Items = append(report.Items, BalanceReportItem{
			Name:       key.Name,
			Unit:       key.Unit,
			Quantity:   a.quantity,
			TotalValue: a.value,
		})
		report.TotalValue = report.TotalValue.Add(a.value)
	}

	sort.Slice(report.Items, func(i, j int) bool {
		if report.Items[i].Name != report.Items[j].Name {
			return report.Items[i].Name < report.Items[j].Name
		}
		return report.Items[i].Unit < report.Items[j].Unit
	})

	return report, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
