package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		column string
		want   bool
	}{
		{"nil", nil, "email", false},
		{"other error", errors.New("boom"), "email", false},
		{"sqlite match", errors.New("constraint failed: UNIQUE constraint failed: families.join_code (2067)"), "join_code", true},
		{"sqlite other column", errors.New("UNIQUE constraint failed: users.email"), "id", false},
		{"postgres by constraint", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, "email", true},
		{"postgres by detail", &pgconn.PgError{Code: "23505", ConstraintName: "idx_families_join_code", Detail: "Key (join_code)=(ABC123) already exists."}, "join_code", true},
		{"postgres wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey", Detail: "Key (id)=(u1) already exists."}), "id", true},
		{"postgres other code", &pgconn.PgError{Code: "23503", ConstraintName: "users_family_id_fkey"}, "family_id", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isUniqueViolation(tt.err, tt.column))
		})
	}
}
