package dbx

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// ErrUniqueViolation marks a transaction that failed on a unique constraint.
var ErrUniqueViolation = errors.New("unique constraint violation")

// IsUniqueViolation reports whether err (or anything it wraps) is a
// PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func classify(err error) error {
	if err == nil || errors.Is(err, ErrUniqueViolation) || !IsUniqueViolation(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
}
