// Package postgres implements pkg/repository's ports over jmoiron/sqlx
// and jackc/pgx/v5/stdlib. Every method takes an explicit sqlx.ExtContext
// so the same code runs against a pooled *sqlx.DB or a *sqlx.Tx opened by
// pkg/repository.TxRunner.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

const uniqueViolationCode = "23505"

// translate maps a raw database error to a domain sentinel where one
// applies, wrapping with the calling operation's name otherwise.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
