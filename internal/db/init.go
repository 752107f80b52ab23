package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    subject_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    login_medium TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS expense_categories (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    icon TEXT NOT NULL DEFAULT '',
    created_on TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS expense_types (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    created_on TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS expenses (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    type_id UUID NOT NULL REFERENCES expense_types(id),
    category_id UUID NOT NULL REFERENCES expense_categories(id),
    amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
    description TEXT NOT NULL DEFAULT '',
    expense_date TIMESTAMPTZ NOT NULL,
    need_or_want TEXT NOT NULL CHECK (need_or_want IN ('need', 'want')),
    could_have_saved DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (could_have_saved >= 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS earnings (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
    type TEXT NOT NULL CHECK (type IN ('salary', 'freelance', 'others')),
    title TEXT NOT NULL,
    created_on TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS savings (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
    type TEXT NOT NULL CHECK (type IN ('add', 'withdraw')),
    category TEXT NOT NULL CHECK (category IN ('fixed', 'topup')),
    title TEXT NOT NULL,
    created_on TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses (user_id, expense_date DESC);
CREATE INDEX IF NOT EXISTS idx_expenses_user_category ON expenses (user_id, category_id);
CREATE INDEX IF NOT EXISTS idx_expenses_user_type ON expenses (user_id, type_id);
CREATE INDEX IF NOT EXISTS idx_expenses_user_need ON expenses (user_id, need_or_want);
CREATE INDEX IF NOT EXISTS idx_earnings_user_created ON earnings (user_id, created_on DESC);
CREATE INDEX IF NOT EXISTS idx_earnings_user_type ON earnings (user_id, type);
CREATE INDEX IF NOT EXISTS idx_savings_user_created ON savings (user_id, created_on DESC);
CREATE INDEX IF NOT EXISTS idx_savings_user_type ON savings (user_id, type);
CREATE INDEX IF NOT EXISTS idx_savings_user_category ON savings (user_id, category);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
