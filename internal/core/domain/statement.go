package domain

import "time"

// StatementType is the declared kind of an uploaded document.
type StatementType string

const (
	StatementTypeBank       StatementType = "bank"
	StatementTypeCreditCard StatementType = "credit_card"
	StatementTypeEWallet    StatementType = "ewallet"
	StatementTypeReceipt    StatementType = "receipt"
)

// IsValid reports whether t is a known statement type.
func (t StatementType) IsValid() bool {
	switch t {
	case StatementTypeBank, StatementTypeCreditCard, StatementTypeEWallet, StatementTypeReceipt:
		return true
	}
	return false
}

// IsProcessable reports whether the ingestion pipeline accepts this type.
func (t StatementType) IsProcessable() bool {
	return t == StatementTypeBank || t == StatementTypeCreditCard || t == StatementTypeEWallet
}

// ProcessingStatus is the lifecycle state of a statement.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusExtracting ProcessingStatus = "extracting"
	StatusExtracted  ProcessingStatus = "extracted"
	StatusImported   ProcessingStatus = "imported"
	StatusFailed     ProcessingStatus = "failed"
)

// Statement is one uploaded financial document.
// ExtractedData is non-nil only once an extraction has succeeded; a statement may
// later move to failed (import failure) while keeping it.
type Statement struct {
	StatementID      string            `json:"statementID"`
	UserID           string            `json:"userID"`
	StatementType    StatementType     `json:"statementType"`
	StatementURL     string            `json:"statementURL"`
	DisplayName      string            `json:"displayName"`
	ContentType      string            `json:"contentType"`
	FileHash         string            `json:"fileHash"`
	PeriodStart      *time.Time        `json:"periodStart,omitempty"`
	PeriodEnd        *time.Time        `json:"periodEnd,omitempty"`
	ExtractedData    *ExtractionResult `json:"extractedData,omitempty"`
	ProcessingStatus ProcessingStatus  `json:"processingStatus"`
	ProcessingError  *string           `json:"processingError,omitempty"`
	LastProcessed    *time.Time        `json:"lastProcessed,omitempty"`
	IsDeleted        bool              `json:"isDeleted"`
	AuditFields
}

// HasCache reports whether an extraction payload is cached on the statement.
func (s Statement) HasCache() bool {
	return s.ExtractedData != nil
}

// Page is one renderable page of a statement file handed to the extraction collaborator.
type Page struct {
	Number   int
	MIMEType string
	Data     []byte
}
