package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner runs fn inside a single database transaction.
type TxRunner func(ctx context.Context, fn func(q Querier) error) error

// NewTxRunner returns a TxRunner that commits when fn succeeds and rolls back
// otherwise.
func NewTxRunner(db TxBeginner) TxRunner {
	return func(ctx context.Context, fn func(q Querier) error) error {
		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

		if err := fn(New(tx)); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}
}
