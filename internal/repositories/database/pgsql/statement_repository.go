package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	"github.com/SscSPs/mma_statements/internal/models"
	"github.com/SscSPs/mma_statements/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const statementColumns = `statement_id, user_id, statement_type, statement_url, display_name, content_type, file_hash,
	period_start, period_end, extracted_data, processing_status, processing_error, last_processed, is_deleted,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxStatementRepository struct {
	BaseRepository
}

func newPgxStatementRepository(base BaseRepository) *PgxStatementRepository {
	return &PgxStatementRepository{BaseRepository: base}
}

var _ portsrepo.StatementRepositoryFacade = (*PgxStatementRepository)(nil)

func scanStatement(row pgx.Row) (*domain.Statement, error) {
	var m models.Statement
	err := row.Scan(
		&m.StatementID,
		&m.UserID,
		&m.StatementType,
		&m.StatementURL,
		&m.DisplayName,
		&m.ContentType,
		&m.FileHash,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.ExtractedData,
		&m.ProcessingStatus,
		&m.ProcessingError,
		&m.LastProcessed,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d, err := mapping.ToDomainStatement(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveStatement inserts a new statement. The partial unique index on
// (user_id, file_hash) of active rows reports a duplicate upload.
func (r *PgxStatementRepository) SaveStatement(ctx context.Context, statement domain.Statement) error {
	m, err := mapping.ToModelStatement(statement)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = r.db(ctx).Exec(ctx, query,
		m.StatementID,
		m.UserID,
		m.StatementType,
		m.StatementURL,
		m.DisplayName,
		m.ContentType,
		m.FileHash,
		m.PeriodStart,
		m.PeriodEnd,
		m.ExtractedData,
		m.ProcessingStatus,
		m.ProcessingError,
		m.LastProcessed,
		m.IsDeleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "statement "+m.StatementID)
	}
	return nil
}

func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, userID string, statementID string) (*domain.Statement, error) {
	query := `SELECT ` + statementColumns + ` FROM statements WHERE statement_id = $1 AND user_id = $2 AND is_deleted = FALSE;`
	stmt, err := scanStatement(r.db(ctx).QueryRow(ctx, query, statementID, userID))
	if err != nil {
		return nil, mapReadError(err, "statement "+statementID)
	}
	return stmt, nil
}

// FindStatementByIDForUpdate must be called inside WithinTx.
func (r *PgxStatementRepository) FindStatementByIDForUpdate(ctx context.Context, userID string, statementID string) (*domain.Statement, error) {
	query := `SELECT ` + statementColumns + ` FROM statements WHERE statement_id = $1 AND user_id = $2 AND is_deleted = FALSE FOR UPDATE;`
	stmt, err := scanStatement(r.db(ctx).QueryRow(ctx, query, statementID, userID))
	if err != nil {
		return nil, mapReadError(err, "statement "+statementID)
	}
	return stmt, nil
}

func (r *PgxStatementRepository) FindActiveStatementByHash(ctx context.Context, userID string, fileHash string) (*domain.Statement, error) {
	query := `SELECT ` + statementColumns + ` FROM statements WHERE user_id = $1 AND file_hash = $2 AND is_deleted = FALSE;`
	stmt, err := scanStatement(r.db(ctx).QueryRow(ctx, query, userID, fileHash))
	if err != nil {
		return nil, mapReadError(err, "statement with hash "+fileHash)
	}
	return stmt, nil
}

func (r *PgxStatementRepository) ListStatements(ctx context.Context, userID string, limit int, after *portsrepo.StatementCursor) ([]domain.Statement, error) {
	var (
		afterTime *time.Time
		afterID   string
	)
	if after != nil {
		afterTime = &after.CreatedAt
		afterID = after.StatementID
	}

	query := `
		SELECT ` + statementColumns + `
		FROM statements
		WHERE user_id = $1 AND is_deleted = FALSE
		  AND ($2::timestamptz IS NULL OR (created_at, statement_id) < ($2, $3))
		ORDER BY created_at DESC, statement_id DESC
		LIMIT $4;
	`
	rows, err := r.db(ctx).Query(ctx, query, userID, afterTime, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	defer rows.Close()

	statements := []domain.Statement{}
	for rows.Next() {
		stmt, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement row: %w", err)
		}
		statements = append(statements, *stmt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement rows: %w", err)
	}
	return statements, nil
}

// BeginExtraction claims the statement with one conditional UPDATE. When no row
// changes, a follow-up read tells apart a missing row, a concurrent extraction
// and a cache that made the claim unnecessary.
func (r *PgxStatementRepository) BeginExtraction(ctx context.Context, userID string, statementID string, force bool, now time.Time) (bool, error) {
	query := `
		UPDATE statements
		SET processing_status = 'extracting', processing_error = NULL, last_updated_at = $4, last_updated_by = $2
		WHERE statement_id = $1 AND user_id = $2 AND is_deleted = FALSE
		  AND processing_status <> 'extracting'
		  AND ($3 OR extracted_data IS NULL);
	`
	tag, err := r.db(ctx).Exec(ctx, query, statementID, userID, force, now)
	if err != nil {
		return false, fmt.Errorf("failed to claim statement %s: %w", statementID, err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var (
		status    string
		hasCached bool
	)
	err = r.db(ctx).QueryRow(ctx,
		`SELECT processing_status, extracted_data IS NOT NULL FROM statements WHERE statement_id = $1 AND user_id = $2 AND is_deleted = FALSE;`,
		statementID, userID,
	).Scan(&status, &hasCached)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("%w: statement %s", apperrors.ErrNotFound, statementID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to read statement %s: %w", statementID, err)
	}
	if domain.ProcessingStatus(status) == domain.StatusExtracting {
		return false, fmt.Errorf("%w: statement %s", apperrors.ErrConcurrentProcessing, statementID)
	}
	return false, nil
}

func (r *PgxStatementRepository) MarkExtracted(ctx context.Context, statementID string, result *domain.ExtractionResult, periodStart, periodEnd *time.Time, now time.Time) error {
	data, err := mapping.MarshalExtraction(result)
	if err != nil {
		return err
	}
	query := `
		UPDATE statements
		SET processing_status = 'extracted', processing_error = NULL, extracted_data = $2,
		    period_start = $3, period_end = $4, last_processed = $5, last_updated_at = $5
		WHERE statement_id = $1 AND is_deleted = FALSE;
	`
	return r.exec(ctx, statementID, query, statementID, data, periodStart, periodEnd, now)
}

func (r *PgxStatementRepository) MarkFailed(ctx context.Context, statementID string, errText string, keepCache bool, now time.Time) error {
	query := `
		UPDATE statements
		SET processing_status = 'failed', processing_error = $2,
		    extracted_data = CASE WHEN $3 THEN extracted_data ELSE NULL END,
		    last_processed = $4, last_updated_at = $4
		WHERE statement_id = $1 AND is_deleted = FALSE;
	`
	return r.exec(ctx, statementID, query, statementID, errText, keepCache, now)
}

func (r *PgxStatementRepository) MarkImported(ctx context.Context, statementID string, now time.Time) error {
	query := `
		UPDATE statements
		SET processing_status = 'imported', processing_error = NULL, last_processed = $2, last_updated_at = $2
		WHERE statement_id = $1 AND is_deleted = FALSE;
	`
	return r.exec(ctx, statementID, query, statementID, now)
}

func (r *PgxStatementRepository) exec(ctx context.Context, statementID string, query string, args ...any) error {
	tag, err := r.db(ctx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update statement %s: %w", statementID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: statement %s", apperrors.ErrNotFound, statementID)
	}
	return nil
}
