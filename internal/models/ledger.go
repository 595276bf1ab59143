package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry holds the columns shared by incomes, expenses and transfers.
type LedgerEntry struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	AccountID   *string         `db:"account_id"` // Nullable
	StatementID string          `db:"statement_id"`
	Amount      decimal.Decimal `db:"amount"`
	TxnDate     time.Time       `db:"txn_date"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	ReferenceNo string          `db:"reference_no"`
	IsDeleted   bool            `db:"is_deleted"`
	AuditFields
}

// Income is a row of incomes.
type Income struct {
	LedgerEntry
	Payer string `db:"payer"`
}

// Expense is a row of expenses.
type Expense struct {
	LedgerEntry
	ExpenseType *string `db:"expense_type"` // Nullable
	Seller      string  `db:"seller"`
	Location    string  `db:"location"`
}

// Transfer is a row of transfers.
type Transfer struct {
	LedgerEntry
	TransferType string `db:"transfer_type"`
	Direction    string `db:"direction"`
}
