package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{"unique", "23505", ErrUniqueViolation},
		{"check", "23514", ErrCheckViolation},
		{"not null", "23502", ErrNotNullViolation},
		{"foreign key", "23503", ErrForeignKeyViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tt.code, ConstraintName: "users_username_key"}
			got := Classify(fmt.Errorf("create: %w", pgErr))
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, Classify(nil))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, Classify(plain))

	// Unrelated SQLSTATE classes are not constraint violations.
	other := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, other, Classify(other))
}

func TestIsConstraint(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	wrapped := Classify(fmt.Errorf("create: %w", pgErr))

	assert.True(t, IsConstraint(wrapped, "users_username_key"))
	assert.False(t, IsConstraint(wrapped, "consent_log_user_id_fkey"))
	assert.False(t, IsConstraint(errors.New("nope"), "users_username_key"))
}
