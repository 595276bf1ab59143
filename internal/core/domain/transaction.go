package domain

import "github.com/shopspring/decimal"

// TransactionType indicates the direction of an extracted statement line.
type TransactionType string

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

// TransferType labels a transfer as between the user's own accounts or to another party.
type TransferType string

const (
	IntraPerson TransferType = "intra_person"
	InterPerson TransferType = "inter_person"
)

// ExtractedTransaction is one statement line after boundary normalization.
// Date is kept as the raw ISO string; the importer parses it.
type ExtractedTransaction struct {
	Date         string           `json:"date"`
	Description  string           `json:"description"`
	Amount       *decimal.Decimal `json:"amount"`
	Type         TransactionType  `json:"type"`
	Category     string           `json:"category,omitempty"`
	TransferType *TransferType    `json:"transfer_type,omitempty"`
	Reference    string           `json:"reference,omitempty"`
	Location     string           `json:"location,omitempty"`
	Counterparty string           `json:"counterparty,omitempty"`
}

// SignAgrees reports whether the amount sign matches the type:
// credit must be positive and debit negative.
func (t ExtractedTransaction) SignAgrees() bool {
	if t.Amount == nil {
		return false
	}
	switch t.Type {
	case Credit:
		return t.Amount.IsPositive()
	case Debit:
		return t.Amount.IsNegative()
	default:
		return false
	}
}
