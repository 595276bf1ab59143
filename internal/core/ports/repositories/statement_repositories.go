package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mma_statements/internal/core/domain"
)

// StatementCursor is the keyset position of the last statement of a page.
// Statements are listed newest first.
type StatementCursor struct {
	CreatedAt   time.Time
	StatementID string
}

// StatementReader defines read operations for statements
type StatementReader interface {
	// FindStatementByID retrieves an active statement owned by userID.
	FindStatementByID(ctx context.Context, userID string, statementID string) (*domain.Statement, error)

	// FindActiveStatementByHash retrieves the active statement of userID with the given file hash.
	FindActiveStatementByHash(ctx context.Context, userID string, fileHash string) (*domain.Statement, error)

	// ListStatements returns up to limit statements created before the cursor (all when nil).
	ListStatements(ctx context.Context, userID string, limit int, after *StatementCursor) ([]domain.Statement, error)

	// FindStatementByIDForUpdate is FindStatementByID that also locks the row
	// until the surrounding transaction ends.
	FindStatementByIDForUpdate(ctx context.Context, userID string, statementID string) (*domain.Statement, error)
}

// StatementWriter defines write operations and lifecycle transitions for statements
type StatementWriter interface {
	// SaveStatement persists a new statement.
	SaveStatement(ctx context.Context, statement domain.Statement) error

	// BeginExtraction moves the statement to extracting in one conditional write.
	// Unless force is set the write also requires that no extraction is cached;
	// started is false when a cached extraction made the transition unnecessary.
	// It returns apperrors.ErrConcurrentProcessing when the statement is already
	// extracting and apperrors.ErrNotFound when it does not exist.
	BeginExtraction(ctx context.Context, userID string, statementID string, force bool, now time.Time) (started bool, err error)

	// MarkExtracted caches the extraction result, stores the declared period
	// and moves the statement to extracted.
	MarkExtracted(ctx context.Context, statementID string, result *domain.ExtractionResult, periodStart, periodEnd *time.Time, now time.Time) error

	// MarkFailed moves the statement to failed with errText. The cached payload is
	// dropped unless keepCache is set.
	MarkFailed(ctx context.Context, statementID string, errText string, keepCache bool, now time.Time) error

	// MarkImported moves the statement to imported.
	MarkImported(ctx context.Context, statementID string, now time.Time) error
}

// StatementRepositoryFacade combines all statement-related repository interfaces
type StatementRepositoryFacade interface {
	StatementReader
	StatementWriter
}
