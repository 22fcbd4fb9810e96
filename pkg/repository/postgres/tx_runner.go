package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TxRunner implements repository.TxRunner over a pooled *sqlx.DB: it
// opens one transaction per call, commits when fn returns nil, and
// rolls back (surfacing fn's error) otherwise.
type TxRunner struct {
	db *sqlx.DB
}

// NewTxRunner wraps db.
func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
