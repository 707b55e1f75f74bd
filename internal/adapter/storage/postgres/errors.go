package postgres

import (
	"errors"
	"fmt"

	"mexared-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapError wraps err with op, translating lock_timeout expiry into the
// ledger's lock timeout error.
func mapError(op string, err error) error {
	if pgCode(err) == pgLockNotAvailable {
		return apperror.ErrLockTimeout(fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
