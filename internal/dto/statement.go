package dto

import (
	"time"

	"github.com/SscSPs/mma_statements/internal/core/domain"
)

// UploadStatementRequest defines the data needed to register an uploaded statement file.
type UploadStatementRequest struct {
	StatementType domain.StatementType `validate:"required"`
	DisplayName   string
	ContentType   string `validate:"required"`
	Content       []byte `validate:"required"`
}

// StatementResponse defines the data returned for a statement.
// The cached extraction payload is not returned here; preview exposes it.
type StatementResponse struct {
	StatementID      string                  `json:"statementID"`
	StatementType    domain.StatementType    `json:"statementType"`
	DisplayName      string                  `json:"displayName"`
	ContentType      string                  `json:"contentType"`
	FileHash         string                  `json:"fileHash"`
	PeriodStart      *time.Time              `json:"periodStart,omitempty"`
	PeriodEnd        *time.Time              `json:"periodEnd,omitempty"`
	ProcessingStatus domain.ProcessingStatus `json:"processingStatus"`
	ProcessingError  *string                 `json:"processingError,omitempty"`
	LastProcessed    *time.Time              `json:"lastProcessed,omitempty"`
	HasExtraction    bool                    `json:"hasExtraction"`
	CreatedAt        time.Time               `json:"createdAt"`
	CreatedBy        string                  `json:"createdBy"`
	LastUpdatedAt    time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy    string                  `json:"lastUpdatedBy"`
}

// ListStatementsParams defines query parameters for listing statements.
type ListStatementsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListStatementsResponse wraps a page of statements and the token for the next page.
type ListStatementsResponse struct {
	Statements []StatementResponse `json:"statements"`
	NextToken  *string             `json:"nextToken,omitempty"`
}

// ToStatementResponse converts a domain.Statement to StatementResponse DTO
func ToStatementResponse(s *domain.Statement) StatementResponse {
	return StatementResponse{
		StatementID:      s.StatementID,
		StatementType:    s.StatementType,
		DisplayName:      s.DisplayName,
		ContentType:      s.ContentType,
		FileHash:         s.FileHash,
		PeriodStart:      s.PeriodStart,
		PeriodEnd:        s.PeriodEnd,
		ProcessingStatus: s.ProcessingStatus,
		ProcessingError:  s.ProcessingError,
		LastProcessed:    s.LastProcessed,
		HasExtraction:    s.HasCache(),
		CreatedAt:        s.CreatedAt,
		CreatedBy:        s.CreatedBy,
		LastUpdatedAt:    s.LastUpdatedAt,
		LastUpdatedBy:    s.LastUpdatedBy,
	}
}

// ToListStatementResponse converts a slice of domain.Statement to response DTOs
func ToListStatementResponse(statements []domain.Statement) []StatementResponse {
	res := make([]StatementResponse, len(statements))
	for i, s := range statements {
		res[i] = ToStatementResponse(&s)
	}
	return res
}
