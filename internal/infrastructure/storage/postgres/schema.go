package postgres

import (
	"context"
	"fmt"
)

// schema is the full DDL, idempotent so it can run on every start.
// The shared ledger_seq sequence is the receipt-order axis for both
// receiving records and outgoing transactions.
const schema = `
CREATE SEQUENCE IF NOT EXISTS ledger_seq;

CREATE TABLE IF NOT EXISTS receiving_records (
    id          UUID PRIMARY KEY,
    seq         BIGINT NOT NULL UNIQUE,
    number      TEXT NOT NULL,
    date        TIMESTAMPTZ NOT NULL,
    supplier    TEXT NOT NULL,
    recorded_by TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS receiving_lines (
    line_id    UUID PRIMARY KEY,
    record_id  UUID NOT NULL REFERENCES receiving_records(id) ON DELETE CASCADE,
    line_no    INT NOT NULL,
    name       TEXT NOT NULL,
    unit       TEXT NOT NULL,
    quantity   BIGINT NOT NULL,
    unit_price BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_receiving_lines_record ON receiving_lines(record_id);

CREATE TABLE IF NOT EXISTS outgoing_transactions (
    id          UUID PRIMARY KEY,
    seq         BIGINT NOT NULL UNIQUE,
    destination TEXT NOT NULL,
    kind        TEXT NOT NULL,
    recorded_by TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS outgoing_lines (
    line_id          UUID PRIMARY KEY,
    transaction_id   UUID NOT NULL REFERENCES outgoing_transactions(id) ON DELETE CASCADE,
    line_no          INT NOT NULL,
    name             TEXT NOT NULL,
    unit             TEXT NOT NULL,
    quantity         BIGINT NOT NULL,
    unit_price       BIGINT NOT NULL,
    source_record_id UUID NOT NULL,
    source_batch_id  UUID NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outgoing_lines_tx ON outgoing_lines(transaction_id);
CREATE INDEX IF NOT EXISTS idx_outgoing_lines_source ON outgoing_lines(source_record_id);

CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    name          TEXT NOT NULL,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS cash_opnames (
    id             UUID PRIMARY KEY,
    number         TEXT NOT NULL,
    date           TIMESTAMPTZ NOT NULL,
    recorded_by    TEXT NOT NULL DEFAULT '',
    starting_cash  BIGINT NOT NULL,
    system_sales   BIGINT NOT NULL,
    non_cash_sales BIGINT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS opname_counts (
    opname_id UUID NOT NULL REFERENCES cash_opnames(id) ON DELETE CASCADE,
    value     BIGINT NOT NULL,
    count     BIGINT NOT NULL,
    PRIMARY KEY (opname_id, value)
);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
