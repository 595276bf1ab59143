package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapWriteError(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "statements_user_hash_active_uidx"})
	assert.ErrorIs(t, mapWriteError(dup, "statement s1"), apperrors.ErrDuplicate)

	other := &pgconn.PgError{Code: "23503"}
	err := mapWriteError(other, "expense e1")
	assert.NotErrorIs(t, err, apperrors.ErrDuplicate)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr), "the driver error stays reachable")
}

func TestMapReadError(t *testing.T) {
	assert.ErrorIs(t, mapReadError(pgx.ErrNoRows, "statement s1"), apperrors.ErrNotFound)

	boom := errors.New("conn closed")
	err := mapReadError(boom, "statement s1")
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, err, boom)
}

func TestTableFor(t *testing.T) {
	for kind, want := range map[domain.LedgerKind]string{
		domain.KindIncome:   "incomes",
		domain.KindExpense:  "expenses",
		domain.KindTransfer: "transfers",
	} {
		got, err := tableFor(kind)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := tableFor("expenses; DROP TABLE statements")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
