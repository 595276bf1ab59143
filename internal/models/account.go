package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	UserID         string          `db:"user_id"`
	AccountNo      string          `db:"account_no"`
	AccountName    string          `db:"account_name"`
	AccountType    string          `db:"account_type"`
	AccountSubtype string          `db:"account_subtype"`
	Balance        decimal.Decimal `db:"account_balance"`
	CardID         *string         `db:"card_id"` // Nullable FK -> user_credit_cards
	IsDeleted      bool            `db:"is_deleted"`
	AuditFields
}

// AccountBalanceSnapshot is a row of account_balance_snapshots.
type AccountBalanceSnapshot struct {
	SnapshotID     string          `db:"snapshot_id"`
	AccountID      string          `db:"account_id"`
	StatementID    string          `db:"statement_id"`
	SnapshotDate   time.Time       `db:"snapshot_date"`
	ClosingBalance decimal.Decimal `db:"closing_balance"`
	AuditFields
}

// UserCreditCard is a row of user_credit_cards.
type UserCreditCard struct {
	CardID            string           `db:"card_id"`
	UserID            string           `db:"user_id"`
	CardName          string           `db:"card_name"`
	CardBrand         string           `db:"card_brand"`
	CreditLimit       *decimal.Decimal `db:"credit_limit"`
	CurrentBalance    decimal.Decimal  `db:"current_balance"`
	NextPaymentAmount *decimal.Decimal `db:"next_payment_amount"`
	NextPaymentDate   *time.Time       `db:"next_payment_date"`
	IsDeleted         bool             `db:"is_deleted"`
	AuditFields
}
