package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"gudang/internal/core/apperror"
	"gudang/internal/core/id"
	"gudang/internal/domain/inventory"
)

const (
	receivingRecordsTable     = "receiving_records"
	receivingLinesTable       = "receiving_lines"
	outgoingTransactionsTable = "outgoing_transactions"
	outgoingLinesTable        = "outgoing_lines"
)

// Store implements inventory.Store over PostgreSQL. Multi-table writes
// (header plus lines) run in one transaction so the history is never
// observed half-written.
type Store struct {
	pool    *Pool
	builder squirrel.StatementBuilderType
}

// NewStore creates the durable ledger store.
func NewStore(pool *Pool) *Store {
	return &Store{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ inventory.Store = (*Store)(nil)

// NextSeq implements inventory.Store via the shared ledger sequence.
func (s *Store) NextSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.pool.QueryRow(ctx, "SELECT nextval('ledger_seq')").Scan(&seq); err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return seq, nil
}

type receivingLineRow struct {
	RecordID id.ID `db:"record_id"`
	inventory.BatchLine
}

// ReceivingRecords implements inventory.Store.
func (s *Store) ReceivingRecords(ctx context.Context) ([]inventory.ReceivingRecord, error) {
	sql, args, err := s.builder.
		Select("id", "seq", "number", "date", "supplier", "recorded_by", "created_at", "updated_at").
		From(receivingRecordsTable).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []inventory.ReceivingRecord
	if err := pgxscan.Select(ctx, s.pool, &records, sql, args...); err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}

	sql, args, err = s.builder.
		Select("record_id", "line_id", "name", "unit", "quantity", "unit_price").
		From(receivingLinesTable).
		OrderBy("record_id", "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []receivingLineRow
	if err := pgxscan.Select(ctx, s.pool, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select lines: %w", err)
	}

	byRecord := make(map[id.ID][]inventory.BatchLine, len(records))
	for _, line := range lines {
		byRecord[line.RecordID] = append(byRecord[line.RecordID], line.BatchLine)
	}
	for i := range records {
		records[i].Lines = byRecord[records[i].ID]
	}
	return records, nil
}

// GetReceivingRecord implements inventory.Store.
func (s *Store) GetReceivingRecord(ctx context.Context, recordID id.ID) (*inventory.ReceivingRecord, error) {
	sql, args, err := s.builder.
		Select("id", "seq", "number", "date", "supplier", "recorded_by", "created_at", "updated_at").
		From(receivingRecordsTable).
		Where(squirrel.Eq{"id": recordID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec inventory.ReceivingRecord
	if err := pgxscan.Get(ctx, s.pool, &rec, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("receiving record", recordID)
		}
		return nil, fmt.Errorf("get record: %w", err)
	}

	sql, args, err = s.builder.
		Select("line_id", "name", "unit", "quantity", "unit_price").
		From(receivingLinesTable).
		Where(squirrel.Eq{"record_id": recordID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, s.pool, &rec.Lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return &rec, nil
}

// AppendReceivingRecord implements inventory.Store.
func (s *Store) AppendReceivingRecord(ctx context.Context, rec *inventory.ReceivingRecord) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		sql, args, err := s.builder.
			Insert(receivingRecordsTable).
			Columns("id", "seq", "number", "date", "supplier", "recorded_by", "created_at", "updated_at").
			Values(rec.ID, rec.Seq, rec.Number, rec.Date, rec.Supplier, rec.RecordedBy, rec.CreatedAt, rec.UpdatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		return s.insertReceivingLines(ctx, tx, rec)
	})
}

// ReplaceReceivingRecord implements inventory.Store.
func (s *Store) ReplaceReceivingRecord(ctx context.Context, rec *inventory.ReceivingRecord) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		sql, args, err := s.builder.
			Update(receivingRecordsTable).
			Set("date", rec.Date).
			Set("supplier", rec.Supplier).
			Set("recorded_by", rec.RecordedBy).
			Set("updated_at", rec.UpdatedAt).
			Where(squirrel.Eq{"id": rec.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NewNotFound("receiving record", rec.ID)
		}

		if _, err := tx.Exec(ctx, "DELETE FROM "+receivingLinesTable+" WHERE record_id = $1", rec.ID); err != nil {
			return fmt.Errorf("delete old lines: %w", err)
		}
		return s.insertReceivingLines(ctx, tx, rec)
	})
}

// DeleteReceivingRecord implements inventory.Store. Lines cascade.
func (s *Store) DeleteReceivingRecord(ctx context.Context, recordID id.ID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM "+receivingRecordsTable+" WHERE id = $1", recordID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("receiving record", recordID)
	}
	return nil
}

func (s *Store) insertReceivingLines(ctx context.Context, tx pgx.Tx, rec *inventory.ReceivingRecord) error {
	if len(rec.Lines) == 0 {
		return nil
	}
	q := s.builder.
		Insert(receivingLinesTable).
		Columns("line_id", "record_id", "line_no", "name", "unit", "quantity", "unit_price")
	for i, line := range rec.Lines {
		q = q.Values(line.ID, rec.ID, i+1, line.Name, line.Unit, line.Quantity, line.UnitPrice)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}
	return nil
}

type outgoingLineRow struct {
	TransactionID id.ID `db:"transaction_id"`
	inventory.AllocationLine
}

// OutgoingTransactions implements inventory.Store.
func (s *Store) OutgoingTransactions(ctx context.Context) ([]inventory.OutgoingTransaction, error) {
	sql, args, err := s.builder.
		Select("id", "seq", "destination", "kind", "recorded_by", "created_at").
		From(outgoingTransactionsTable).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var txs []inventory.OutgoingTransaction
	if err := pgxscan.Select(ctx, s.pool, &txs, sql, args...); err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}

	sql, args, err = s.builder.
		Select("transaction_id", "line_id", "name", "unit", "quantity", "unit_price", "source_record_id", "source_batch_id").
		From(outgoingLinesTable).
		OrderBy("transaction_id", "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []outgoingLineRow
	if err := pgxscan.Select(ctx, s.pool, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select lines: %w", err)
	}

	byTx := make(map[id.ID][]inventory.AllocationLine, len(txs))
	for _, line := range lines {
		byTx[line.TransactionID] = append(byTx[line.TransactionID], line.AllocationLine)
	}
	for i := range txs {
		txs[i].Lines = byTx[txs[i].ID]
	}
	return txs, nil
}

// GetOutgoingTransaction implements inventory.Store.
func (s *Store) GetOutgoingTransaction(ctx context.Context, txID id.ID) (*inventory.OutgoingTransaction, error) {
	sql, args, err := s.builder.
		Select("id", "seq", "destination", "kind", "recorded_by", "created_at").
		From(outgoingTransactionsTable).
		Where(squirrel.Eq{"id": txID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var tx inventory.OutgoingTransaction
	if err := pgxscan.Get(ctx, s.pool, &tx, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("outgoing transaction", txID)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	sql, args, err = s.builder.
		Select("line_id", "name", "unit", "quantity", "unit_price", "source_record_id", "source_batch_id").
		From(outgoingLinesTable).
		Where(squirrel.Eq{"transaction_id": txID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, s.pool, &tx.Lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return &tx, nil
}

// AppendOutgoingTransaction implements inventory.Store.
func (s *Store) AppendOutgoingTransaction(ctx context.Context, txn *inventory.OutgoingTransaction) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		sql, args, err := s.builder.
			Insert(outgoingTransactionsTable).
			Columns("id", "seq", "destination", "kind", "recorded_by", "created_at").
			Values(txn.ID, txn.Seq, txn.Destination, txn.Kind, txn.RecordedBy, txn.CreatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		if len(txn.Lines) == 0 {
			return nil
		}
		q := s.builder.
			Insert(outgoingLinesTable).
			Columns("line_id", "transaction_id", "line_no", "name", "unit", "quantity", "unit_price", "source_record_id", "source_batch_id")
		for i, line := range txn.Lines {
			q = q.Values(line.ID, txn.ID, i+1, line.Name, line.Unit, line.Quantity, line.UnitPrice, line.SourceRecordID, line.SourceBatchID)
		}
		sql, args, err = q.ToSql()
		if err != nil {
			return fmt.Errorf("build insert lines: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert lines: %w", err)
		}
		return nil
	})
}

// DeleteOutgoingTransaction implements inventory.Store. Lines cascade.
func (s *Store) DeleteOutgoingTransaction(ctx context.Context, txID id.ID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM "+outgoingTransactionsTable+" WHERE id = $1", txID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("outgoing transaction", txID)
	}
	return nil
}

// MaxNumberValue returns the highest assigned counter for a number
// prefix and year, used to reseed the in-process numerator on start.
func (s *Store) MaxNumberValue(ctx context.Context, table, prefix string, year int) (int64, error) {
	pattern := fmt.Sprintf("%s-%d-%%", prefix, year)
	var max int64
	err := s.pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(CAST(SPLIT_PART(number, '-', 3) AS BIGINT)), 0) FROM "+table+" WHERE number LIKE $1",
		pattern,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max number value: %w", err)
	}
	return max, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
