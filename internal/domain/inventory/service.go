package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/core/numerator"
	"gudang/internal/core/types"
	"gudang/pkg/logger"
)

// NotaNumberPrefix is the numbering prefix for receiving notas.
const NotaNumberPrefix = "NM"

// Service is the engine facade. All mutations run under one exclusive
// lock: validate-then-allocate is a check-then-act sequence, and two
// in-flight submissions validating against the same remaining snapshot
// could jointly overdraw a batch. Reads take the lock too so they never
// observe a half-applied mutation.
type Service struct {
	mu        sync.Mutex
	store     Store
	numerator numerator.Generator
}

// NewService creates the inventory engine over a store.
func NewService(store Store, gen numerator.Generator) *Service {
	return &Service{
		store:     store,
		numerator: gen,
	}
}

// ReceivingItemInput is one batch line of a submitted nota.
type ReceivingItemInput struct {
	Name     string
	Unit     string
	Quantity int64
	Price    types.Rupiah
}

// ReceivingRecordInput is a submitted receiving nota.
type ReceivingRecordInput struct {
	Date       time.Time
	Supplier   string
	RecordedBy string
	Items      []ReceivingItemInput
}

// SubmitReceivingRecord absorbs a full nota into the batch ledger.
func (s *Service) SubmitReceivingRecord(ctx context.Context, input ReceivingRecordInput) (*ReceivingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := NewReceivingRecord(input.Date, input.Supplier, input.RecordedBy)
	for _, item := range input.Items {
		rec.AddLine(StockKey{Name: item.Name, Unit: item.Unit}, item.Quantity, item.Price)
	}

	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	seq, err := s.store.NextSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("next seq: %w", err)
	}
	rec.Seq = seq

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(NotaNumberPrefix), rec.Date)
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	rec.Number = number

	if err := s.store.AppendReceivingRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("append receiving record: %w", err)
	}

	logger.Info(ctx, "receiving record created",
		"id", rec.ID,
		"number", rec.Number,
		"seq", rec.Seq,
		"supplier", rec.Supplier,
		"lines", len(rec.Lines))

	return rec, nil
}

// UpdateReceivingRecord replaces a nota's contents wholesale. Rejected
// in full with LOCKED_RECORD when any of the nota's batches is already
// referenced by an allocation; the lock is re-checked here, at the
// moment of mutation, never trusted from an earlier read.
func (s *Service) UpdateReceivingRecord(ctx context.Context, recordID id.ID, input ReceivingRecordInput) (*ReceivingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.GetReceivingRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	txs, err := s.store.OutgoingTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if IsLocked(recordID, txs) {
		return nil, apperror.NewLockedRecord(recordID)
	}

	rec := NewReceivingRecord(input.Date, input.Supplier, input.RecordedBy)
	// Identity survives the edit; only contents are replaced.
	rec.ID = existing.ID
	rec.Seq = existing.Seq
	rec.Number = existing.Number
	rec.CreatedAt = existing.CreatedAt
	for _, item := range input.Items {
		rec.AddLine(StockKey{Name: item.Name, Unit: item.Unit}, item.Quantity, item.Price)
	}

	if err := rec.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.store.ReplaceReceivingRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("replace receiving record: %w", err)
	}

	logger.Info(ctx, "receiving record updated",
		"id", rec.ID,
		"number", rec.Number,
		"lines", len(rec.Lines))

	return rec, nil
}

// DeleteReceivingRecord destroys a nota wholesale, only while unlocked.
func (s *Service) DeleteReceivingRecord(ctx context.Context, recordID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetReceivingRecord(ctx, recordID); err != nil {
		return err
	}

	txs, err := s.store.OutgoingTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	if IsLocked(recordID, txs) {
		return apperror.NewLockedRecord(recordID)
	}

	if err := s.store.DeleteReceivingRecord(ctx, recordID); err != nil {
		return fmt.Errorf("delete receiving record: %w", err)
	}

	logger.Info(ctx, "receiving record deleted", "id", recordID)
	return nil
}

// OutgoingTransactionInput is a submitted outgoing nota before allocation.
type OutgoingTransactionInput struct {
	Destination string
	Kind        TransactionKind
	RecordedBy  string
	Lines       []RequestLine
}

// SubmitOutgoingTransaction validates the whole request and, if every
// line is satisfiable, consumes stock FIFO and appends one transaction
// owning all produced allocations. On any failure nothing is written.
func (s *Service) SubmitOutgoingTransaction(ctx context.Context, input OutgoingTransactionInput) (*OutgoingTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Destination == "" {
		return nil, apperror.NewValidation("destination is required").
			WithDetail("field", "destination")
	}
	if !input.Kind.Valid() {
		return nil, apperror.NewValidation("unknown transaction kind").
			WithDetail("field", "kind").
			WithDetail("value", string(input.Kind))
	}

	records, err := s.store.ReceivingRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	txs, err := s.store.OutgoingTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	if err := validateRequest(records, txs, input.Lines); err != nil {
		return nil, err
	}

	allocations, err := allocate(records, txs, input.Lines)
	if err != nil {
		// Validator and allocator disagreed; surface the defect.
		logger.Error(ctx, "allocation consistency violation",
			"destination", input.Destination,
			"error", err)
		return nil, err
	}

	seq, err := s.store.NextSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("next seq: %w", err)
	}

	tx := &OutgoingTransaction{
		ID:          id.New(),
		Seq:         seq,
		Destination: input.Destination,
		Kind:        input.Kind,
		RecordedBy:  input.RecordedBy,
		CreatedAt:   time.Now().UTC(),
		Lines:       allocations,
	}

	if err := s.store.AppendOutgoingTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("append outgoing transaction: %w", err)
	}

	logger.Info(ctx, "outgoing transaction created",
		"id", tx.ID,
		"seq", tx.Seq,
		"destination", tx.Destination,
		"kind", tx.Kind,
		"allocations", len(tx.Lines))

	return tx, nil
}

// DeleteOutgoingTransaction removes a transaction and its allocations
// wholesale. Unconditional: always succeeds when the id exists. Stock
// and lock answers revert implicitly because both are computed.
func (s *Service) DeleteOutgoingTransaction(ctx context.Context, txID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetOutgoingTransaction(ctx, txID); err != nil {
		return err
	}

	if err := s.store.DeleteOutgoingTransaction(ctx, txID); err != nil {
		return fmt.Errorf("delete outgoing transaction: %w", err)
	}

	logger.Info(ctx, "outgoing transaction deleted", "id", txID)
	return nil
}

// QueryStock returns remaining quantity for a stock key, optionally as
// of a sequence cutoff (nil means now).
func (s *Service) QueryStock(ctx context.Context, key StockKey, asOf *int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.ReceivingRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("load records: %w", err)
	}
	txs, err := s.store.OutgoingTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load transactions: %w", err)
	}

	return Remaining(records, txs, key, asOf), nil
}

// IsRecordLocked reports whether the receiving record may no longer be
// edited or deleted.
func (s *Service) IsRecordLocked(ctx context.Context, recordID id.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetReceivingRecord(ctx, recordID); err != nil {
		return false, err
	}

	txs, err := s.store.OutgoingTransactions(ctx)
	if err != nil {
		return false, fmt.Errorf("load transactions: %w", err)
	}

	return IsLocked(recordID, txs), nil
}

// StockItem is one row of the stock summary used by the goods-out lookup.
type StockItem struct {
	StockKey
	Remaining int64 `json:"stock"`
	// LatestPrice is the unit price of the newest batch for the key,
	// shown in the lookup UI. Allocations never use it; they carry
	// their own source batch's price.
	LatestPrice types.Rupiah `json:"price"`
}

// StockSummary returns remaining quantity per stock key, sorted by name
// then unit.
func (s *Service) StockSummary(ctx context.Context) ([]StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.ReceivingRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	txs, err := s.store.OutgoingTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	items := make([]StockItem, 0)
	for key := range StockKeys(records) {
		item := StockItem{
			StockKey:  key,
			Remaining: Remaining(records, txs, key, nil),
		}
		if refs := BatchesForKey(records, key); len(refs) > 0 {
			item.LatestPrice = refs[len(refs)-1].Batch.UnitPrice
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Unit < items[j].Unit
	})

	return items, nil
}

// ListReceivingRecords returns all notas newest-first with lock flags.
func (s *Service) ListReceivingRecords(ctx context.Context) ([]ReceivingRecordView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.ReceivingRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	txs, err := s.store.OutgoingTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	locked := ReferencedRecords(txs)

	views := make([]ReceivingRecordView, 0, len(records))
	for i := range records {
		_, isLocked := locked[records[i].ID]
		views = append(views, ReceivingRecordView{
			ReceivingRecord: records[i],
			Locked:          isLocked,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Seq > views[j].Seq })

	return views, nil
}

// ReceivingRecordView is a nota plus its computed lock flag.
type ReceivingRecordView struct {
	ReceivingRecord
	Locked bool `json:"locked"`
}

// ListOutgoingTransactions returns all outgoing notas newest-first.
func (s *Service) ListOutgoingTransactions(ctx context.Context) ([]OutgoingTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.store.OutgoingTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Seq > txs[j].Seq })
	return txs, nil
}

// History returns the full ledger (records and transactions) for report
// builders, which fold it without further store access.
func (s *Service) History(ctx context.Context) ([]ReceivingRecord, []OutgoingTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.ReceivingRecords(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load records: %w", err)
	}
	txs, err := s.store.OutgoingTransactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load transactions: %w", err)
	}
	return records, txs, nil
}
