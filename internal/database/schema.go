package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema creates the tables used by the transaction and matching stores.
// Transactions keep a surrogate seq key: identical source rows derive the
// same id and are all stored.
const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
    seq          BIGSERIAL PRIMARY KEY,
    id           UUID NOT NULL,
    date         DATE NOT NULL,
    posted_at    TIMESTAMPTZ,
    description  TEXT NOT NULL DEFAULT '',
    merchant     TEXT NOT NULL DEFAULT '',
    amount       BIGINT NOT NULL CHECK (amount >= 0),
    direction    TEXT NOT NULL CHECK (direction IN ('inflow', 'outflow')),
    category     TEXT NOT NULL DEFAULT '',
    account      TEXT NOT NULL DEFAULT '',
    is_pending   BOOLEAN NOT NULL DEFAULT FALSE,
    external_id  TEXT NOT NULL DEFAULT '',
    balance      BIGINT,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ,
    deleted_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_transactions_id ON transactions(id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account);

CREATE TABLE IF NOT EXISTS merchant_aliases (
    id          BIGSERIAL PRIMARY KEY,
    raw_pattern TEXT NOT NULL,
    merchant    TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}

	return nil
}
