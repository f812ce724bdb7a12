package inventory_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/core/apperror"
	"gudang/internal/core/numerator"
	"gudang/internal/core/types"
	"gudang/internal/domain/inventory"
	"gudang/internal/infrastructure/storage/memory"
)

var (
	tiketDewasa = inventory.StockKey{Name: "Tiket Dewasa", Unit: "Pcs"}
	airMineral  = inventory.StockKey{Name: "Air Mineral", Unit: "Botol"}
)

func newTestService() *inventory.Service {
	return inventory.NewService(memory.NewStore(), numerator.NewMemory())
}

func receive(t *testing.T, svc *inventory.Service, key inventory.StockKey, qty int64, price types.Rupiah) *inventory.ReceivingRecord {
	t.Helper()
	rec, err := svc.SubmitReceivingRecord(context.Background(), inventory.ReceivingRecordInput{
		Date:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Supplier:   "Toko Sumber Rejeki",
		RecordedBy: "budi",
		Items: []inventory.ReceivingItemInput{
			{Name: key.Name, Unit: key.Unit, Quantity: qty, Price: price},
		},
	})
	require.NoError(t, err)
	return rec
}

func issue(t *testing.T, svc *inventory.Service, lines ...inventory.RequestLine) *inventory.OutgoingTransaction {
	t.Helper()
	tx, err := svc.SubmitOutgoingTransaction(context.Background(), inventory.OutgoingTransactionInput{
		Destination: "Loket Utama",
		Kind:        inventory.KindSale,
		RecordedBy:  "budi",
		Lines:       lines,
	})
	require.NoError(t, err)
	return tx
}

func TestSubmitReceivingRecordAssignsNumberAndSeq(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first := receive(t, svc, tiketDewasa, 10, 5000)
	second := receive(t, svc, airMineral, 20, 3000)

	assert.Equal(t, "NM-2026-00001", first.Number)
	assert.Equal(t, "NM-2026-00002", second.Number)
	assert.Less(t, first.Seq, second.Seq, "seq must be strictly monotonic")

	got, err := svc.QueryStock(ctx, tiketDewasa, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got)
}

func TestFIFOAllocationAcrossRecords(t *testing.T) {
	svc := newTestService()

	a := receive(t, svc, tiketDewasa, 10, 100)
	b := receive(t, svc, tiketDewasa, 10, 200)

	tx := issue(t, svc, inventory.RequestLine{StockKey: tiketDewasa, Quantity: 15})

	require.Len(t, tx.Lines, 2)
	assert.Equal(t, a.ID, tx.Lines[0].SourceRecordID)
	assert.Equal(t, int64(10), tx.Lines[0].Quantity)
	assert.Equal(t, types.Rupiah(100), tx.Lines[0].UnitPrice)
	assert.Equal(t, b.ID, tx.Lines[1].SourceRecordID)
	assert.Equal(t, int64(5), tx.Lines[1].Quantity)
	assert.Equal(t, types.Rupiah(200), tx.Lines[1].UnitPrice)

	assert.True(t, tx.TotalCost().Equal(types.MustMoney("1500")))
}

func TestInsufficientStockRejectsWholeRequest(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	receive(t, svc, tiketDewasa, 100, 1000)
	receive(t, svc, airMineral, 3, 3000)

	_, err := svc.SubmitOutgoingTransaction(ctx, inventory.OutgoingTransactionInput{
		Destination: "Loket Utama",
		Kind:        inventory.KindSale,
		RecordedBy:  "budi",
		Lines: []inventory.RequestLine{
			{StockKey: tiketDewasa, Quantity: 10}, // satisfiable on its own
			{StockKey: airMineral, Quantity: 5},   // exceeds stock
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing may have been written, not even for the satisfiable line.
	txs, err := svc.ListOutgoingTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)

	got, err := svc.QueryStock(ctx, tiketDewasa, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got)
}

func TestDeleteTransactionRestoresStockAndLocks(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	rec := receive(t, svc, tiketDewasa, 10, 100)
	tx := issue(t, svc, inventory.RequestLine{StockKey: tiketDewasa, Quantity: 7})

	got, err := svc.QueryStock(ctx, tiketDewasa, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)

	locked, err := svc.IsRecordLocked(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, locked)

	require.NoError(t, svc.DeleteOutgoingTransaction(ctx, tx.ID))

	got, err = svc.QueryStock(ctx, tiketDewasa, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got, "deletion must restore stock exactly")

	locked, err = svc.IsRecordLocked(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, locked, "deletion must release the lock")

	// The record is editable again.
	_, err = svc.UpdateReceivingRecord(ctx, rec.ID, inventory.ReceivingRecordInput{
		Date:       rec.Date,
		Supplier:   rec.Supplier,
		RecordedBy: rec.RecordedBy,
		Items: []inventory.ReceivingItemInput{
			{Name: tiketDewasa.Name, Unit: tiketDewasa.Unit, Quantity: 12, Price: 100},
		},
	})
	require.NoError(t, err)
}

func TestLockedRecordRejectsUpdateAndDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	rec := receive(t, svc, tiketDewasa, 10, 100)
	issue(t, svc, inventory.RequestLine{StockKey: tiketDewasa, Quantity: 1})

	_, err := svc.UpdateReceivingRecord(ctx, rec.ID, inventory.ReceivingRecordInput{
		Date:       rec.Date,
		Supplier:   rec.Supplier,
		RecordedBy: rec.RecordedBy,
		Items: []inventory.ReceivingItemInput{
			{Name: tiketDewasa.Name, Unit: tiketDewasa.Unit, Quantity: 99, Price: 100},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsLockedRecord(err))

	err = svc.DeleteReceivingRecord(ctx, rec.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsLockedRecord(err))
}

func TestLockSurvivesUnrelatedChanges(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	rec := receive(t, svc, tiketDewasa, 10, 100)
	issue(t, svc, inventory.RequestLine{StockKey: tiketDewasa, Quantity: 1})

	// Churn unrelated records.
	other := receive(t, svc, airMineral, 5, 3000)
	require.NoError(t, svc.DeleteReceivingRecord(ctx, other.ID))

	locked, err := svc.IsRecordLocked(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestUpdatePreservesIdentity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	rec := receive(t, svc, tiketDewasa, 10, 100)

	updated, err := svc.UpdateReceivingRecord(ctx, rec.ID, inventory.ReceivingRecordInput{
		Date:       rec.Date.AddDate(0, 0, 1),
		Supplier:   "Toko Baru",
		RecordedBy: "siti",
		Items: []inventory.ReceivingItemInput{
			{Name: airMineral.Name, Unit: airMineral.Unit, Quantity: 40, Price: 2500},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, rec.Seq, updated.Seq)
	assert.Equal(t, rec.Number, updated.Number)
	assert.Equal(t, "Toko Baru", updated.Supplier)

	// Old contents are gone, new contents count.
	got, err := svc.QueryStock(ctx, tiketDewasa, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
	got, err = svc.QueryStock(ctx, airMineral, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(40), got)
}

func TestQueryStockAsOfCutoff(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first := receive(t, svc, tiketDewasa, 10, 100)
	tx := issue(t, svc, inventory.RequestLine{StockKey: tiketDewasa, Quantity: 6})
	receive(t, svc, tiketDewasa, 20, 150)

	asOf := first.Seq
	got, err := svc.QueryStock(ctx, tiketDewasa, &asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got)

	asOf = tx.Seq
	got, err = svc.QueryStock(ctx, tiketDewasa, &asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)

	got, err = svc.QueryStock(ctx, tiketDewasa, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(24), got)
}

func TestReadsAreIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	rec := receive(t, svc, tiketDewasa, 10, 100)
	issue(t, svc, inventory.RequestLine{StockKey: tiketDewasa, Quantity: 4})

	for i := 0; i < 5; i++ {
		got, err := svc.QueryStock(ctx, tiketDewasa, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(6), got)

		locked, err := svc.IsRecordLocked(ctx, rec.ID)
		require.NoError(t, err)
		assert.True(t, locked)
	}
}

func TestStockNeverNegative(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	receive(t, svc, tiketDewasa, 5, 100)
	issue(t, svc, inventory.RequestLine{StockKey: tiketDewasa, Quantity: 5})

	// Stock is exactly zero; any further draw must be rejected.
	_, err := svc.SubmitOutgoingTransaction(ctx, inventory.OutgoingTransactionInput{
		Destination: "Loket Utama",
		Kind:        inventory.KindSale,
		RecordedBy:  "budi",
		Lines:       []inventory.RequestLine{{StockKey: tiketDewasa, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	got, err := svc.QueryStock(ctx, tiketDewasa, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestUnknownStockKeyHasZeroStock(t *testing.T) {
	svc := newTestService()

	got, err := svc.QueryStock(context.Background(), inventory.StockKey{Name: "Tidak Ada", Unit: "Pcs"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestSubmitOutgoingTransactionValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	receive(t, svc, tiketDewasa, 10, 100)

	tests := []struct {
		name  string
		input inventory.OutgoingTransactionInput
	}{
		{
			name: "missing destination",
			input: inventory.OutgoingTransactionInput{
				Kind:  inventory.KindSale,
				Lines: []inventory.RequestLine{{StockKey: tiketDewasa, Quantity: 1}},
			},
		},
		{
			name: "unknown kind",
			input: inventory.OutgoingTransactionInput{
				Destination: "Loket Utama",
				Kind:        "giveaway",
				Lines:       []inventory.RequestLine{{StockKey: tiketDewasa, Quantity: 1}},
			},
		},
		{
			name: "no lines",
			input: inventory.OutgoingTransactionInput{
				Destination: "Loket Utama",
				Kind:        inventory.KindSale,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitOutgoingTransaction(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		})
	}
}

func TestStockSummary(t *testing.T) {
	svc := newTestService()

	receive(t, svc, tiketDewasa, 10, 5000)
	receive(t, svc, tiketDewasa, 5, 6000)
	receive(t, svc, airMineral, 20, 3000)
	issue(t, svc, inventory.RequestLine{StockKey: tiketDewasa, Quantity: 4})

	items, err := svc.StockSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Sorted by name.
	assert.Equal(t, airMineral, items[0].StockKey)
	assert.Equal(t, int64(20), items[0].Remaining)

	assert.Equal(t, tiketDewasa, items[1].StockKey)
	assert.Equal(t, int64(11), items[1].Remaining)
	assert.Equal(t, types.Rupiah(6000), items[1].LatestPrice, "summary shows the newest batch price")
}

func TestListReceivingRecordsNewestFirstWithLockFlags(t *testing.T) {
	svc := newTestService()

	a := receive(t, svc, tiketDewasa, 10, 100)
	b := receive(t, svc, airMineral, 5, 3000)
	issue(t, svc, inventory.RequestLine{StockKey: tiketDewasa, Quantity: 1})

	views, err := svc.ListReceivingRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, b.ID, views[0].ID)
	assert.False(t, views[0].Locked)
	assert.Equal(t, a.ID, views[1].ID)
	assert.True(t, views[1].Locked)
}

func TestEndToEndScenario(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a := receive(t, svc, tiketDewasa, 100, 1000)
	b := receive(t, svc, tiketDewasa, 50, 1200)

	tx := issue(t, svc, inventory.RequestLine{StockKey: tiketDewasa, Quantity: 120})

	require.Len(t, tx.Lines, 2)
	assert.Equal(t, a.ID, tx.Lines[0].SourceRecordID)
	assert.Equal(t, int64(100), tx.Lines[0].Quantity)
	assert.Equal(t, types.Rupiah(1000), tx.Lines[0].UnitPrice)
	assert.Equal(t, b.ID, tx.Lines[1].SourceRecordID)
	assert.Equal(t, int64(20), tx.Lines[1].Quantity)
	assert.Equal(t, types.Rupiah(1200), tx.Lines[1].UnitPrice)

	got, err := svc.QueryStock(ctx, tiketDewasa, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(30), got)

	for _, rec := range []*inventory.ReceivingRecord{a, b} {
		locked, err := svc.IsRecordLocked(ctx, rec.ID)
		require.NoError(t, err)
		assert.True(t, locked)
	}
}

func TestReceivingRecordValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.SubmitReceivingRecord(ctx, inventory.ReceivingRecordInput{
		Date:       time.Now(),
		Supplier:   "Toko",
		RecordedBy: "budi",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.SubmitReceivingRecord(ctx, inventory.ReceivingRecordInput{
		Date:       time.Now(),
		Supplier:   "Toko",
		RecordedBy: "budi",
		Items: []inventory.ReceivingItemInput{
			{Name: "Tiket", Unit: "Pcs", Quantity: -3, Price: 100},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestNotaNumberFormat(t *testing.T) {
	svc := newTestService()

	rec := receive(t, svc, tiketDewasa, 1, 100)
	parts := strings.Split(rec.Number, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "NM", parts[0])
	assert.Equal(t, "2026", parts[1])
	assert.Len(t, parts[2], 5)
}
