package models

import "time"

// Statement is a row of the statements table. ExtractedData is the raw JSONB payload.
type Statement struct {
	StatementID      string     `db:"statement_id"`
	UserID           string     `db:"user_id"`
	StatementType    string     `db:"statement_type"`
	StatementURL     string     `db:"statement_url"`
	DisplayName      string     `db:"display_name"`
	ContentType      string     `db:"content_type"`
	FileHash         string     `db:"file_hash"`
	PeriodStart      *time.Time `db:"period_start"`
	PeriodEnd        *time.Time `db:"period_end"`
	ExtractedData    []byte     `db:"extracted_data"` // Nullable JSONB
	ProcessingStatus string     `db:"processing_status"`
	ProcessingError  *string    `db:"processing_error"`
	LastProcessed    *time.Time `db:"last_processed"`
	IsDeleted        bool       `db:"is_deleted"`
	AuditFields
}
