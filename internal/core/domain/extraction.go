package domain

import "github.com/shopspring/decimal"

// StatementPeriod holds ISO dates (YYYY-MM-DD). Nil means not declared.
type StatementPeriod struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// AccountInfo is the account header printed on a statement.
type AccountInfo struct {
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountType   string `json:"account_type,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	CardBrand     string `json:"card_brand,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// UserInfo is the account holder block printed on a statement.
type UserInfo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// CreditCardTerms are the card-specific figures of a credit card statement.
type CreditCardTerms struct {
	CreditLimit        *decimal.Decimal `json:"credit_limit,omitempty"`
	AvailableCredit    *decimal.Decimal `json:"available_credit,omitempty"`
	CurrentBalance     *decimal.Decimal `json:"current_balance,omitempty"`
	OutstandingBalance *decimal.Decimal `json:"outstanding_balance,omitempty"`
	TotalAmountDue     *decimal.Decimal `json:"total_amount_due,omitempty"`
	MinimumPayment     *decimal.Decimal `json:"minimum_payment,omitempty"`
	PaymentDueDate     string           `json:"payment_due_date,omitempty"`
}

// CreditCardSummary is the normalized view of CreditCardTerms with fallbacks applied.
type CreditCardSummary struct {
	CreditLimit        *decimal.Decimal `json:"credit_limit"`
	AvailableCredit    *decimal.Decimal `json:"available_credit"`
	CurrentBalance     *decimal.Decimal `json:"current_balance"`
	OutstandingBalance *decimal.Decimal `json:"outstanding_balance"`
	TotalAmountDue     *decimal.Decimal `json:"total_amount_due"`
	MinimumPayment     *decimal.Decimal `json:"minimum_payment"`
}

// CreditFacility is a repeatable facility row of a credit report, keyed by (FacilityNumber, BankName).
type CreditFacility struct {
	FacilityNumber string           `json:"facility_number"`
	BankName       string           `json:"bank_name"`
	FacilityType   string           `json:"facility_type,omitempty"`
	Limit          *decimal.Decimal `json:"limit,omitempty"`
	Outstanding    *decimal.Decimal `json:"outstanding,omitempty"`
}

// CreditApplication is a repeatable application row, keyed by (ApplicationDate, ApplicationType, Amount).
type CreditApplication struct {
	ApplicationDate string           `json:"application_date"`
	ApplicationType string           `json:"application_type"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Status          string           `json:"status,omitempty"`
}

// PageExtraction is the normalized output of the extraction collaborator for one page.
type PageExtraction struct {
	StatementPeriod *StatementPeriod       `json:"statement_period,omitempty"`
	AccountInfo     *AccountInfo           `json:"account_info,omitempty"`
	UserInfo        *UserInfo              `json:"user_info,omitempty"`
	OpeningBalance  *decimal.Decimal       `json:"opening_balance,omitempty"`
	ClosingBalance  *decimal.Decimal       `json:"closing_balance,omitempty"`
	Transactions    []ExtractedTransaction `json:"transactions"`
	CreditCardTerms *CreditCardTerms       `json:"credit_card_terms,omitempty"`
	Facilities      []CreditFacility       `json:"facilities,omitempty"`
	Applications    []CreditApplication    `json:"applications,omitempty"`
}

// ExtractionResult is the document-level merge of all pages. It is cached on the statement.
type ExtractionResult struct {
	StatementPeriod   StatementPeriod        `json:"statement_period"`
	AccountInfo       *AccountInfo           `json:"account_info,omitempty"`
	UserInfo          *UserInfo              `json:"user_info,omitempty"`
	OpeningBalance    *decimal.Decimal       `json:"opening_balance"`
	ClosingBalance    *decimal.Decimal       `json:"closing_balance"`
	Transactions      []ExtractedTransaction `json:"transactions"`
	CreditCardTerms   *CreditCardTerms       `json:"credit_card_terms,omitempty"`
	CreditCardSummary *CreditCardSummary     `json:"credit_card_summary,omitempty"`
	Facilities        []CreditFacility       `json:"facilities,omitempty"`
	Applications      []CreditApplication    `json:"applications,omitempty"`
	PageCount         int                    `json:"page_count"`
	Errors            []string               `json:"errors"`
}
