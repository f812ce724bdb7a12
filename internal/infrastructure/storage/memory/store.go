// Package memory provides in-memory storage adapters. This is the
// canonical store for the inventory engine: the single-writer, in-memory
// history model the engine computes over. The postgres package offers
// the same contracts durably.
package memory

import (
	"context"
	"sync"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain/inventory"
)

// Store implements inventory.Store over process memory.
type Store struct {
	mu      sync.RWMutex
	seq     int64
	records map[id.ID]*inventory.ReceivingRecord
	txs     map[id.ID]*inventory.OutgoingTransaction
}

// NewStore creates an empty in-memory ledger store.
func NewStore() *Store {
	return &Store{
		records: make(map[id.ID]*inventory.ReceivingRecord),
		txs:     make(map[id.ID]*inventory.OutgoingTransaction),
	}
}

var _ inventory.Store = (*Store)(nil)

// NextSeq implements inventory.Store.
func (s *Store) NextSeq(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

// ReceivingRecords implements inventory.Store.
func (s *Store) ReceivingRecords(_ context.Context) ([]inventory.ReceivingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]inventory.ReceivingRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *copyRecord(rec))
	}
	return out, nil
}

// GetReceivingRecord implements inventory.Store.
func (s *Store) GetReceivingRecord(_ context.Context, recordID id.ID) (*inventory.ReceivingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[recordID]
	if !ok {
		return nil, apperror.NewNotFound("receiving record", recordID)
	}
	return copyRecord(rec), nil
}

// AppendReceivingRecord implements inventory.Store.
func (s *Store) AppendReceivingRecord(_ context.Context, rec *inventory.ReceivingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return apperror.NewDuplicate("receiving record", "id", rec.ID.String())
	}
	s.records[rec.ID] = copyRecord(rec)
	return nil
}

// ReplaceReceivingRecord implements inventory.Store.
func (s *Store) ReplaceReceivingRecord(_ context.Context, rec *inventory.ReceivingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ID]; !ok {
		return apperror.NewNotFound("receiving record", rec.ID)
	}
	s.records[rec.ID] = copyRecord(rec)
	return nil
}

// DeleteReceivingRecord implements inventory.Store.
func (s *Store) DeleteReceivingRecord(_ context.Context, recordID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[recordID]; !ok {
		return apperror.NewNotFound("receiving record", recordID)
	}
	delete(s.records, recordID)
	return nil
}

// OutgoingTransactions implements inventory.Store.
func (s *Store) OutgoingTransactions(_ context.Context) ([]inventory.OutgoingTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]inventory.OutgoingTransaction, 0, len(s.txs))
	for _, tx := range s.txs {
		out = append(out, *copyTransaction(tx))
	}
	return out, nil
}

// GetOutgoingTransaction implements inventory.Store.
func (s *Store) GetOutgoingTransaction(_ context.Context, txID id.ID) (*inventory.OutgoingTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.txs[txID]
	if !ok {
		return nil, apperror.NewNotFound("outgoing transaction", txID)
	}
	return copyTransaction(tx), nil
}

// AppendOutgoingTransaction implements inventory.Store.
func (s *Store) AppendOutgoingTransaction(_ context.Context, tx *inventory.OutgoingTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.txs[tx.ID]; exists {
		return apperror.NewDuplicate("outgoing transaction", "id", tx.ID.String())
	}
	s.txs[tx.ID] = copyTransaction(tx)
	return nil
}

// DeleteOutgoingTransaction implements inventory.Store.
func (s *Store) DeleteOutgoingTransaction(_ context.Context, txID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txs[txID]; !ok {
		return apperror.NewNotFound("outgoing transaction", txID)
	}
	delete(s.txs, txID)
	return nil
}

// copyRecord deep-copies a record so callers never alias stored lines.
func copyRecord(rec *inventory.ReceivingRecord) *inventory.ReceivingRecord {
	cp := *rec
	cp.Lines = make([]inventory.BatchLine, len(rec.Lines))
	copy(cp.Lines, rec.Lines)
	return &cp
}

func copyTransaction(tx *inventory.OutgoingTransaction) *inventory.OutgoingTransaction {
	cp := *tx
	cp.Lines = make([]inventory.AllocationLine, len(tx.Lines))
	copy(cp.Lines, tx.Lines)
	return &cp
}
