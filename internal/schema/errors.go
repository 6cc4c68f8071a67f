package schema

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// The error taxonomy is exactly the engine's constraint-violation classes.
// A violated constraint rejects the offending statement atomically; no
// partial row is persisted and no retry happens at this layer.
var (
	ErrUniqueViolation     = errors.New("unique constraint violated")
	ErrCheckViolation      = errors.New("check constraint violated")
	ErrNotNullViolation    = errors.New("not-null constraint violated")
	ErrForeignKeyViolation = errors.New("foreign key constraint violated")
)

// SQLSTATE class 23 (integrity constraint violation) codes.
const (
	codeForeignKey = "23503"
	codeNotNull    = "23502"
	codeUnique     = "23505"
	codeCheck      = "23514"
)

// Classify wraps a driver error with the matching constraint sentinel so
// callers can branch with errors.Is. Non-constraint errors pass through
// unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	// Both the sentinel and the driver error stay in the chain, so callers
	// can branch on the class and still inspect the constraint name.
	switch pgErr.Code {
	case codeUnique:
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	case codeCheck:
		return fmt.Errorf("%w: %w", ErrCheckViolation, err)
	case codeNotNull:
		return fmt.Errorf("%w: %w", ErrNotNullViolation, err)
	case codeForeignKey:
		return fmt.Errorf("%w: %w", ErrForeignKeyViolation, err)
	}
	return err
}

// IsConstraint reports whether the given constraint name triggered err.
func IsConstraint(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName == constraintName
	}
	return false
}
