package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over incomes, expenses and transfers.
// Soft-deleted rows are never returned or counted.
type LedgerReader interface {
	// FindActiveByReference returns active rows of kind owned by userID with the
	// exact reference number. Rows attributed to excludeStatementID are ignored.
	FindActiveByReference(ctx context.Context, kind domain.LedgerKind, userID string, referenceNo string, excludeStatementID string) ([]domain.LedgerEntry, error)

	// FindActiveByAmountAndDateRange returns active rows of kind owned by userID with
	// exactly amount and a date in [from, to], oldest first. Rows attributed to
	// excludeStatementID are ignored.
	FindActiveByAmountAndDateRange(ctx context.Context, kind domain.LedgerKind, userID string, amount decimal.Decimal, from, to time.Time, excludeStatementID string) ([]domain.LedgerEntry, error)

	// CountActiveByStatement counts the active rows attributed to a statement.
	CountActiveByStatement(ctx context.Context, userID string, statementID string) (domain.LedgerCounts, error)

	// SumActiveByStatement totals the active incomes and expenses attributed to a statement.
	SumActiveByStatement(ctx context.Context, userID string, statementID string) (income decimal.Decimal, expense decimal.Decimal, err error)
}

// LedgerWriter defines write operations over incomes, expenses and transfers.
type LedgerWriter interface {
	SaveIncome(ctx context.Context, income domain.Income) error
	SaveExpense(ctx context.Context, expense domain.Expense) error
	SaveTransfer(ctx context.Context, transfer domain.Transfer) error

	// SoftDeleteEntry tombstones one row.
	SoftDeleteEntry(ctx context.Context, kind domain.LedgerKind, id string, userID string, now time.Time) error

	// SoftDeleteByStatement tombstones every active row attributed to a statement
	// and returns how many rows of each kind were affected.
	SoftDeleteByStatement(ctx context.Context, userID string, statementID string, now time.Time) (domain.LedgerCounts, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
