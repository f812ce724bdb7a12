package inventory

import (
	"context"

	"gudang/internal/core/id"
)

// Store supplies the engine with the combined receiving-record and
// outgoing-transaction history and persists mutations. The engine never
// asks the store for derived state (remaining stock, lock flags); it
// recomputes those from the history on every query.
//
// Implementations: memory.Store (canonical, the in-memory model the
// engine is specified over) and postgres.Store (durable adapter).
type Store interface {
	// NextSeq returns the next value of the single strictly monotonic
	// sequence shared by receiving records and outgoing transactions.
	// This sequence, not wall-clock time, is the receipt-order and
	// as-of-cutoff axis.
	NextSeq(ctx context.Context) (int64, error)

	// ReceivingRecords returns the full set of receiving records with lines.
	ReceivingRecords(ctx context.Context) ([]ReceivingRecord, error)

	// GetReceivingRecord returns one record with lines, or NOT_FOUND.
	GetReceivingRecord(ctx context.Context, recordID id.ID) (*ReceivingRecord, error)

	// AppendReceivingRecord stores a new record and its lines atomically.
	AppendReceivingRecord(ctx context.Context, rec *ReceivingRecord) error

	// ReplaceReceivingRecord overwrites an existing record and its lines
	// atomically, preserving identity (ID, Seq, Number).
	ReplaceReceivingRecord(ctx context.Context, rec *ReceivingRecord) error

	// DeleteReceivingRecord removes a record and its lines wholesale.
	DeleteReceivingRecord(ctx context.Context, recordID id.ID) error

	// OutgoingTransactions returns the full set of outgoing transactions with lines.
	OutgoingTransactions(ctx context.Context) ([]OutgoingTransaction, error)

	// GetOutgoingTransaction returns one transaction with lines, or NOT_FOUND.
	GetOutgoingTransaction(ctx context.Context, txID id.ID) (*OutgoingTransaction, error)

	// AppendOutgoingTransaction stores a new transaction and all its
	// allocations as a single atomic append.
	AppendOutgoingTransaction(ctx context.Context, tx *OutgoingTransaction) error

	// DeleteOutgoingTransaction removes a transaction and its
	// allocations wholesale. No compensating write to batches exists:
	// remaining stock is computed, so deletion restores it exactly.
	DeleteOutgoingTransaction(ctx context.Context, txID id.ID) error
}
