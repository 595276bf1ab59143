package dto

import "github.com/SscSPs/mma_statements/internal/core/domain"

// UploadStatementForm holds the non-file fields of a multipart statement upload.
type UploadStatementForm struct {
	StatementType string `form:"statement_type" binding:"required"`
	DisplayName   string `form:"display_name" binding:"max=255"`
}

// PreviewParams are the query parameters of the preview endpoint.
type PreviewParams struct {
	ForceRefresh bool `form:"force_refresh"`
}

// ProcessParams are the query parameters of the process endpoint.
type ProcessParams struct {
	ForceReimport bool `form:"force_reimport"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	// StatementID names the existing statement when an upload is a duplicate.
	StatementID string `json:"statementID,omitempty"`
}

// ReconciliationResponse wraps the possibly absent reconciliation report.
type ReconciliationResponse struct {
	StatementID    string                       `json:"statementID"`
	Reconciliation *domain.ReconciliationReport `json:"reconciliation"`
}
