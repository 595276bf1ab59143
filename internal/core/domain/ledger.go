package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind distinguishes the three persisted ledger entities.
type LedgerKind string

const (
	KindIncome   LedgerKind = "income"
	KindExpense  LedgerKind = "expense"
	KindTransfer LedgerKind = "transfer"
)

// ExpenseType is the needs/wants budgeting label.
type ExpenseType string

const (
	Needs ExpenseType = "needs"
	Wants ExpenseType = "wants"
)

// TransferDirection records whether a neutralized transfer left or entered the account.
type TransferDirection string

const (
	TransferIn  TransferDirection = "in"
	TransferOut TransferDirection = "out"
)

// LedgerEntry holds the columns shared by incomes, expenses and transfers.
// Amount is always non-negative; the kind implies direction.
type LedgerEntry struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userID"`
	AccountID   *string         `json:"accountID,omitempty"`
	StatementID string          `json:"statementID"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ReferenceNo string          `json:"referenceNo,omitempty"`
	IsDeleted   bool            `json:"isDeleted"`
	AuditFields
}

// Income is money received.
type Income struct {
	LedgerEntry
	Payer string `json:"payer,omitempty"`
}

// Expense is money spent. ExpenseType is nil only for legacy rows; the importer always sets it.
type Expense struct {
	LedgerEntry
	ExpenseType *ExpenseType `json:"expenseType,omitempty"`
	Seller      string       `json:"seller,omitempty"`
	Location    string       `json:"location,omitempty"`
}

// Transfer is a neutralized movement between the user's own accounts.
type Transfer struct {
	LedgerEntry
	TransferType TransferType      `json:"transferType"`
	Direction    TransferDirection `json:"direction"`
}

// LedgerCounts is the number of active rows attributed to a statement, per kind.
type LedgerCounts struct {
	Incomes   int `json:"incomes"`
	Expenses  int `json:"expenses"`
	Transfers int `json:"transfers"`
}

// Total returns the number of rows across all kinds.
func (c LedgerCounts) Total() int {
	return c.Incomes + c.Expenses + c.Transfers
}
