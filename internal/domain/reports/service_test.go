package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/core/apperror"
	"gudang/internal/core/numerator"
	"gudang/internal/core/types"
	"gudang/internal/domain/inventory"
	"gudang/internal/domain/reports"
	"gudang/internal/infrastructure/storage/memory"
)

var tiket = inventory.StockKey{Name: "Tiket Dewasa", Unit: "Pcs"}

// fixture builds a ledger with two receipts on known dates and one
// issue recorded now: 10@1000 received Aug 1, 5@2000 received Aug 15,
// 12 issued today (FIFO: 10@1000 + 2@2000).
func fixture(t *testing.T) (*reports.Service, *inventory.Service) {
	t.Helper()
	inv := inventory.NewService(memory.NewStore(), numerator.NewMemory())
	ctx := context.Background()

	_, err := inv.SubmitReceivingRecord(ctx, inventory.ReceivingRecordInput{
		Date:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Supplier: "Toko A",
		Items: []inventory.ReceivingItemInput{
			{Name: tiket.Name, Unit: tiket.Unit, Quantity: 10, Price: 1000},
		},
	})
	require.NoError(t, err)

	_, err = inv.SubmitReceivingRecord(ctx, inventory.ReceivingRecordInput{
		Date:     time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Supplier: "Toko B",
		Items: []inventory.ReceivingItemInput{
			{Name: tiket.Name, Unit: tiket.Unit, Quantity: 5, Price: 2000},
		},
	})
	require.NoError(t, err)

	_, err = inv.SubmitOutgoingTransaction(ctx, inventory.OutgoingTransactionInput{
		Destination: "Loket Utama",
		Kind:        inventory.KindSale,
		Lines:       []inventory.RequestLine{{StockKey: tiket, Quantity: 12}},
	})
	require.NoError(t, err)

	return reports.NewService(inv), inv
}

func TestStockMovementFullPeriod(t *testing.T) {
	svc, _ := fixture(t)

	report, err := svc.GetStockMovement(context.Background(), reports.MovementReportFilter{
		FromDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Now().UTC(),
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)

	item := report.Items[0]
	assert.Equal(t, tiket.Name, item.Name)
	assert.Equal(t, int64(15), item.QtyIn)
	assert.True(t, item.ValueIn.Equal(types.MustMoney("20000")))
	assert.Equal(t, int64(12), item.QtyOut)
	// FIFO cost: 10 at 1000 plus 2 at 2000, not 12 at any single price.
	assert.True(t, item.ValueOut.Equal(types.MustMoney("14000")))
	assert.Equal(t, int64(3), item.EndingQty)

	assert.True(t, report.TotalInValue.Equal(types.MustMoney("20000")))
	assert.True(t, report.TotalOutValue.Equal(types.MustMoney("14000")))
}

func TestStockMovementPartialPeriod(t *testing.T) {
	svc, _ := fixture(t)

	// Only the second receipt falls in the window; the issue was
	// recorded after it ends.
	report, err := svc.GetStockMovement(context.Background(), reports.MovementReportFilter{
		FromDate: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)

	item := report.Items[0]
	assert.Equal(t, int64(5), item.QtyIn)
	assert.True(t, item.ValueIn.Equal(types.MustMoney("10000")))
	assert.Equal(t, int64(0), item.QtyOut)
	assert.Equal(t, int64(15), item.EndingQty, "ending stock as of Aug 20 ignores the later issue")
}

func TestStockMovementEmptyPeriod(t *testing.T) {
	svc, _ := fixture(t)

	report, err := svc.GetStockMovement(context.Background(), reports.MovementReportFilter{
		FromDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, report.Items)
	assert.True(t, report.TotalInValue.IsZero())
	assert.True(t, report.TotalOutValue.IsZero())
}

func TestStockMovementValidation(t *testing.T) {
	svc, _ := fixture(t)
	ctx := context.Background()

	_, err := svc.GetStockMovement(ctx, reports.MovementReportFilter{})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.GetStockMovement(ctx, reports.MovementReportFilter{
		FromDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestStockBalanceFIFOValuation(t *testing.T) {
	svc, _ := fixture(t)

	report, err := svc.GetStockBalance(context.Background(), reports.BalanceReportFilter{})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)

	item := report.Items[0]
	assert.Equal(t, int64(3), item.Quantity)
	// The surviving 3 units are all from the 2000 batch.
	assert.True(t, item.TotalValue.Equal(types.MustMoney("6000")))
	assert.True(t, report.TotalValue.Equal(types.MustMoney("6000")))
}

func TestStockBalanceAsOfDate(t *testing.T) {
	svc, _ := fixture(t)

	asOf := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	report, err := svc.GetStockBalance(context.Background(), reports.BalanceReportFilter{AsOfDate: &asOf})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)

	// Only the first receipt existed by Aug 10.
	item := report.Items[0]
	assert.Equal(t, int64(10), item.Quantity)
	assert.True(t, item.TotalValue.Equal(types.MustMoney("10000")))
}

func TestStockBalanceExcludeZero(t *testing.T) {
	inv := inventory.NewService(memory.NewStore(), numerator.NewMemory())
	ctx := context.Background()

	_, err := inv.SubmitReceivingRecord(ctx, inventory.ReceivingRecordInput{
		Date:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Supplier: "Toko A",
		Items: []inventory.ReceivingItemInput{
			{Name: tiket.Name, Unit: tiket.Unit, Quantity: 5, Price: 1000},
		},
	})
	require.NoError(t, err)
	_, err = inv.SubmitOutgoingTransaction(ctx, inventory.OutgoingTransactionInput{
		Destination: "Loket Utama",
		Kind:        inventory.KindInternalUse,
		Lines:       []inventory.RequestLine{{StockKey: tiket, Quantity: 5}},
	})
	require.NoError(t, err)

	svc := reports.NewService(inv)

	report, err := svc.GetStockBalance(ctx, reports.BalanceReportFilter{ExcludeZero: true})
	require.NoError(t, err)
	assert.Empty(t, report.Items)

	report, err = svc.GetStockBalance(ctx, reports.BalanceReportFilter{})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, int64(0), report.Items[0].Quantity)
}
