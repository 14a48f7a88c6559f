package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore keeps balances in a single gateway_balances table:
//
//	CREATE TABLE gateway_balances (
//	    code    TEXT PRIMARY KEY,
//	    balance NUMERIC NOT NULL DEFAULT 0
//	);
//
// Snapshot is a no-op since every mutation is already durable.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed store.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Balance returns the recorded balance for the account code.
func (s *PostgresStore) Balance(ctx context.Context, code string) (decimal.Decimal, error) {
	var raw string
	err := s.db.QueryRow(ctx, `SELECT balance::text FROM gateway_balances WHERE code = $1`, code).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance for %s: %w", code, err)
	}
	return balance, nil
}

// Exists reports whether a balance record is present for the account code.
func (s *PostgresStore) Exists(ctx context.Context, code string) (bool, error) {
	var found bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM gateway_balances WHERE code = $1)`, code).Scan(&found)
	if err != nil {
		return false, err
	}
	return found, nil
}

// Credit adds amount to the account balance, creating the record when absent.
func (s *PostgresStore) Credit(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.apply(ctx, code, amount)
}

// Debit subtracts amount from the account balance, creating the record when absent.
func (s *PostgresStore) Debit(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.apply(ctx, code, amount.Neg())
}

func (s *PostgresStore) apply(ctx context.Context, code string, delta decimal.Decimal) (decimal.Decimal, error) {
	const query = `
        INSERT INTO gateway_balances (code, balance) VALUES ($1, $2)
        ON CONFLICT (code) DO UPDATE SET balance = gateway_balances.balance + EXCLUDED.balance
        RETURNING balance::text`
	var raw string
	if err := s.db.QueryRow(ctx, query, code, delta.String()).Scan(&raw); err != nil {
		return decimal.Zero, err
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance for %s: %w", code, err)
	}
	return balance, nil
}

// Snapshot is satisfied by the database's own durability.
func (s *PostgresStore) Snapshot(context.Context) error {
	return nil
}
