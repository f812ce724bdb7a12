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
	"gudang/internal/domain/cashcount"
)

const (
	opnamesTable      = "cash_opnames"
	opnameCountsTable = "opname_counts"
)

// OpnameRepo implements cashcount.OpnameRepository over PostgreSQL.
type OpnameRepo struct {
	pool    *Pool
	builder squirrel.StatementBuilderType
}

// NewOpnameRepo creates the durable opname repository.
func NewOpnameRepo(pool *Pool) *OpnameRepo {
	return &OpnameRepo{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ cashcount.OpnameRepository = (*OpnameRepo)(nil)

const opnameColumns = "id, number, date, recorded_by, starting_cash, system_sales, non_cash_sales, created_at"

// Create implements cashcount.OpnameRepository.
func (r *OpnameRepo) Create(ctx context.Context, opname *cashcount.Opname) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := r.builder.
		Insert(opnamesTable).
		Columns("id", "number", "date", "recorded_by", "starting_cash", "system_sales", "non_cash_sales", "created_at").
		Values(opname.ID, opname.Number, opname.Date, opname.RecordedBy,
			opname.StartingCash, opname.SystemSales, opname.NonCashSales, opname.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert opname: %w", err)
	}

	if len(opname.Counts) > 0 {
		q := r.builder.
			Insert(opnameCountsTable).
			Columns("opname_id", "value", "count")
		for _, c := range opname.Counts {
			q = q.Values(opname.ID, c.Value, c.Count)
		}
		sql, args, err = q.ToSql()
		if err != nil {
			return fmt.Errorf("build insert counts: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert counts: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID implements cashcount.OpnameRepository.
func (r *OpnameRepo) GetByID(ctx context.Context, opnameID id.ID) (*cashcount.Opname, error) {
	var opname cashcount.Opname
	err := pgxscan.Get(ctx, r.pool, &opname,
		"SELECT "+opnameColumns+" FROM "+opnamesTable+" WHERE id = $1", opnameID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("cash opname", opnameID)
		}
		return nil, fmt.Errorf("get opname: %w", err)
	}

	err = pgxscan.Select(ctx, r.pool, &opname.Counts,
		"SELECT value, count FROM "+opnameCountsTable+" WHERE opname_id = $1 ORDER BY value DESC", opnameID)
	if err != nil {
		return nil, fmt.Errorf("get counts: %w", err)
	}
	return &opname, nil
}

type opnameCountRow struct {
	OpnameID id.ID `db:"opname_id"`
	cashcount.DenominationCount
}

// List implements cashcount.OpnameRepository.
func (r *OpnameRepo) List(ctx context.Context) ([]cashcount.Opname, error) {
	var opnames []cashcount.Opname
	err := pgxscan.Select(ctx, r.pool, &opnames,
		"SELECT "+opnameColumns+" FROM "+opnamesTable+" ORDER BY date DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list opnames: %w", err)
	}

	var rows []opnameCountRow
	err = pgxscan.Select(ctx, r.pool, &rows,
		"SELECT opname_id, value, count FROM "+opnameCountsTable+" ORDER BY value DESC")
	if err != nil {
		return nil, fmt.Errorf("list counts: %w", err)
	}

	byOpname := make(map[id.ID][]cashcount.DenominationCount, len(opnames))
	for _, row := range rows {
		byOpname[row.OpnameID] = append(byOpname[row.OpnameID], row.DenominationCount)
	}
	for i := range opnames {
		opnames[i].Counts = byOpname[opnames[i].ID]
	}
	return opnames, nil
}

// Delete implements cashcount.OpnameRepository. Counts cascade.
func (r *OpnameRepo) Delete(ctx context.Context, opnameID id.ID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM "+opnamesTable+" WHERE id = $1", opnameID)
	if err != nil {
		return fmt.Errorf("delete opname: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("cash opname", opnameID)
	}
	return nil
}
