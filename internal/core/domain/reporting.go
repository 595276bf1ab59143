package domain

import "github.com/shopspring/decimal"

// ReconciliationReport compares the statement's declared balances with the persisted ledger.
// It is advisory and never persisted.
type ReconciliationReport struct {
	ExtractedOpening  decimal.Decimal `json:"extractedOpening"`
	ExtractedClosing  decimal.Decimal `json:"extractedClosing"`
	CalculatedClosing decimal.Decimal `json:"calculatedClosing"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	Difference        decimal.Decimal `json:"difference"`
	Matches           bool            `json:"matches"`
}

// ImportSummary counts what the ledger importer did with one extraction result.
type ImportSummary struct {
	Incomes              int `json:"incomes"`
	Expenses             int `json:"expenses"`
	Transfers            int `json:"transfers"`
	DuplicatesRemoved    int `json:"duplicatesRemoved"`
	NeutralizedTransfers int `json:"neutralizedTransfers"`
	Skipped              int `json:"skipped"`
	ReimportedRowsVoided int `json:"reimportedRowsVoided"`
}

// ProcessResult is returned by preview, process, rescan and confirm.
type ProcessResult struct {
	Success          bool                   `json:"success"`
	StatementID      string                 `json:"statementID"`
	ProcessingStatus ProcessingStatus       `json:"processingStatus"`
	FromCache        bool                   `json:"fromCache"`
	Summary          *ImportSummary         `json:"summary,omitempty"`
	StatementPeriod  StatementPeriod        `json:"statementPeriod"`
	OpeningBalance   *decimal.Decimal       `json:"openingBalance"`
	ClosingBalance   *decimal.Decimal       `json:"closingBalance"`
	AccountID        string                 `json:"accountID,omitempty"`
	Transactions     []ExtractedTransaction `json:"transactions,omitempty"`
	Errors           []string               `json:"errors,omitempty"`
	Reconciliation   *ReconciliationReport  `json:"reconciliation,omitempty"`
}
