package cashcount_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/core/apperror"
	"gudang/internal/core/numerator"
	"gudang/internal/core/types"
	"gudang/internal/domain/cashcount"
	"gudang/internal/infrastructure/storage/memory"
)

func newTestService() *cashcount.Service {
	return cashcount.NewService(memory.NewOpnameRepo(), numerator.NewMemory())
}

func TestSubmitOpnameReconciliation(t *testing.T) {
	svc := newTestService()

	// Drawer opened with 500k float; system sold 1.2M of which 300k was
	// QRIS. Counted cash comes to 1.38M: 20k short.
	opname, err := svc.SubmitOpname(context.Background(), cashcount.OpnameInput{
		Date:         time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		RecordedBy:   "siti",
		StartingCash: 500_000,
		SystemSales:  1_200_000,
		NonCashSales: 300_000,
		Counts: []cashcount.CountInput{
			{Value: 100_000, Count: 12},
			{Value: 50_000, Count: 3},
			{Value: 10_000, Count: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "OP-2026-00001", opname.Number)
	assert.True(t, opname.TotalPhysical().Equal(types.MustMoney("1380000")))
	assert.True(t, opname.CashSales().Equal(types.MustMoney("900000")))
	assert.True(t, opname.ExpectedInDrawer().Equal(types.MustMoney("1400000")))
	assert.True(t, opname.Difference().Equal(types.MustMoney("-20000")))
	assert.Equal(t, cashcount.VerdictShort, opname.Verdict())
}

func TestOpnameVerdicts(t *testing.T) {
	tests := []struct {
		name    string
		counts  []cashcount.CountInput
		verdict string
	}{
		{"balanced", []cashcount.CountInput{{Value: 100_000, Count: 5}}, cashcount.VerdictBalanced},
		{"surplus", []cashcount.CountInput{{Value: 100_000, Count: 5}, {Value: 500, Count: 1}}, cashcount.VerdictSurplus},
		{"short", []cashcount.CountInput{{Value: 100_000, Count: 4}}, cashcount.VerdictShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			opname, err := svc.SubmitOpname(context.Background(), cashcount.OpnameInput{
				Date:         time.Now(),
				StartingCash: 200_000,
				SystemSales:  300_000,
				Counts:       tt.counts,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.verdict, opname.Verdict())
		})
	}
}

func TestSubmitOpnameDropsZeroCounts(t *testing.T) {
	svc := newTestService()

	opname, err := svc.SubmitOpname(context.Background(), cashcount.OpnameInput{
		Date: time.Now(),
		Counts: []cashcount.CountInput{
			{Value: 100_000, Count: 0},
			{Value: 50_000, Count: 2},
			{Value: 200, Count: 0},
		},
	})
	require.NoError(t, err)
	require.Len(t, opname.Counts, 1)
	assert.Equal(t, types.Rupiah(50_000), opname.Counts[0].Value)
}

func TestSubmitOpnameValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input cashcount.OpnameInput
	}{
		{
			name:  "missing date",
			input: cashcount.OpnameInput{},
		},
		{
			name: "unknown denomination",
			input: cashcount.OpnameInput{
				Date:   time.Now(),
				Counts: []cashcount.CountInput{{Value: 75_000, Count: 1}},
			},
		},
		{
			name: "negative count",
			input: cashcount.OpnameInput{
				Date:   time.Now(),
				Counts: []cashcount.CountInput{{Value: 100_000, Count: -1}},
			},
		},
		{
			name: "duplicate denomination",
			input: cashcount.OpnameInput{
				Date: time.Now(),
				Counts: []cashcount.CountInput{
					{Value: 100_000, Count: 1},
					{Value: 100_000, Count: 2},
				},
			},
		},
		{
			name: "non-cash exceeds system sales",
			input: cashcount.OpnameInput{
				Date:         time.Now(),
				SystemSales:  100_000,
				NonCashSales: 150_000,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitOpname(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		})
	}
}

func TestListOpnamesNewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	older, err := svc.SubmitOpname(ctx, cashcount.OpnameInput{
		Date: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	newer, err := svc.SubmitOpname(ctx, cashcount.OpnameInput{
		Date: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	opnames, err := svc.ListOpnames(ctx)
	require.NoError(t, err)
	require.Len(t, opnames, 2)
	assert.Equal(t, newer.ID, opnames[0].ID)
	assert.Equal(t, older.ID, opnames[1].ID)
}

func TestDeleteOpname(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	opname, err := svc.SubmitOpname(ctx, cashcount.OpnameInput{Date: time.Now()})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOpname(ctx, opname.ID))

	_, err = svc.GetOpname(ctx, opname.ID)
	assert.True(t, apperror.IsNotFound(err))

	err = svc.DeleteOpname(ctx, opname.ID)
	assert.True(t, apperror.IsNotFound(err))
}
