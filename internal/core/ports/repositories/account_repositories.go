package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an active account owned by userID.
	FindAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves the active account of userID carrying accountNo.
	FindAccountByNumber(ctx context.Context, userID string, accountNo string) (*domain.Account, error)

	// ListAccountsByUser returns every active account of userID.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountBalance overwrites the running balance of an account.
	UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// SnapshotRepositoryFacade persists account balance snapshots.
type SnapshotRepositoryFacade interface {
	// UpsertSnapshot inserts the snapshot or, when one exists for the same
	// (AccountID, SnapshotDate), updates its closing balance and statement.
	UpsertSnapshot(ctx context.Context, snapshot domain.AccountBalanceSnapshot) error

	// ListSnapshotsByAccount returns the snapshots of an account ordered by date.
	ListSnapshotsByAccount(ctx context.Context, accountID string) ([]domain.AccountBalanceSnapshot, error)
}

// CreditCardReader defines read operations for credit cards.
type CreditCardReader interface {
	FindCreditCardByID(ctx context.Context, userID string, cardID string) (*domain.UserCreditCard, error)
}

// CreditCardWriter defines write operations for credit cards.
type CreditCardWriter interface {
	SaveCreditCard(ctx context.Context, card domain.UserCreditCard) error

	// UpdateCreditCardBalance writes CurrentBalance, CreditLimit, NextPaymentAmount and NextPaymentDate.
	UpdateCreditCardBalance(ctx context.Context, card domain.UserCreditCard) error
}

// CreditCardRepositoryFacade combines the credit card interfaces.
type CreditCardRepositoryFacade interface {
	CreditCardReader
	CreditCardWriter
}
