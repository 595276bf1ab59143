package services

import (
	"context"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/dto"
)

// StatementReaderSvc defines read operations for statements
type StatementReaderSvc interface {
	// GetStatement retrieves a statement owned by userID.
	GetStatement(ctx context.Context, userID string, statementID string) (*domain.Statement, error)

	// ListStatements returns a page of statements, newest first, and the token of the next page.
	ListStatements(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Statement, *string, error)
}

// StatementWriterSvc defines write operations for statements
type StatementWriterSvc interface {
	// Upload stores the file and creates a pending statement. An active
	// statement with the same content returns apperrors.ErrDuplicate.
	Upload(ctx context.Context, userID string, req dto.UploadStatementRequest) (*domain.Statement, error)
}

// StatementProcessorSvc drives the extraction and import lifecycle of a statement
type StatementProcessorSvc interface {
	// Preview extracts (or returns the cached extraction of) a statement without importing it.
	Preview(ctx context.Context, userID string, statementID string, forceRefresh bool) (*domain.ProcessResult, error)

	// Process extracts when needed, imports the ledger rows and reconciles.
	Process(ctx context.Context, userID string, statementID string, forceReimport bool) (*domain.ProcessResult, error)

	// Rescan is Process with forceReimport set.
	Rescan(ctx context.Context, userID string, statementID string) (*domain.ProcessResult, error)

	// ConfirmImport imports an already extracted statement. Without a cached
	// extraction it returns apperrors.ErrValidation.
	ConfirmImport(ctx context.Context, userID string, statementID string) (*domain.ProcessResult, error)
}

// StatementReconcilerSvc reports on the consistency of imported rows
type StatementReconcilerSvc interface {
	// Reconcile recomputes the report from persisted rows. The report is nil when
	// the statement lacks an opening or closing balance.
	Reconcile(ctx context.Context, userID string, statementID string) (*domain.ReconciliationReport, error)
}

// StatementSvcFacade combines all statement-related service interfaces
type StatementSvcFacade interface {
	StatementReaderSvc
	StatementWriterSvc
	StatementProcessorSvc
	StatementReconcilerSvc
}
