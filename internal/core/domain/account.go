package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the kind of financial account a statement belongs to.
type AccountType string

const (
	AccountSavings    AccountType = "savings"
	AccountCurrent    AccountType = "current"
	AccountCredit     AccountType = "credit"
	AccountEWallet    AccountType = "ewallet"
	AccountInvestment AccountType = "investment"
	AccountCash       AccountType = "cash"
)

// Account represents a user's bank, card or wallet account.
// Balance mirrors the latest imported statement closing balance.
type Account struct {
	AccountID      string          `json:"accountID"`
	UserID         string          `json:"userID"`
	AccountNo      string          `json:"accountNo"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	AccountSubtype string          `json:"accountSubtype"`
	Balance        decimal.Decimal `json:"balance"`
	CardID         *string         `json:"cardID,omitempty"` // Linked credit card, nullable
	IsDeleted      bool            `json:"isDeleted"`
	AuditFields
}

// AccountBalanceSnapshot records the closing balance of an account at a statement period end.
// (AccountID, SnapshotDate) is unique.
type AccountBalanceSnapshot struct {
	SnapshotID     string          `json:"snapshotID"`
	AccountID      string          `json:"accountID"`
	StatementID    string          `json:"statementID"`
	SnapshotDate   time.Time       `json:"snapshotDate"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	AuditFields
}

// UserCreditCard is the card entity a credit card statement updates.
type UserCreditCard struct {
	CardID            string           `json:"cardID"`
	UserID            string           `json:"userID"`
	CardName          string           `json:"cardName"`
	CardBrand         string           `json:"cardBrand"`
	CreditLimit       *decimal.Decimal `json:"creditLimit,omitempty"`
	CurrentBalance    decimal.Decimal  `json:"currentBalance"`
	NextPaymentAmount *decimal.Decimal `json:"nextPaymentAmount,omitempty"`
	NextPaymentDate   *time.Time       `json:"nextPaymentDate,omitempty"`
	IsDeleted         bool             `json:"isDeleted"`
	AuditFields
}
