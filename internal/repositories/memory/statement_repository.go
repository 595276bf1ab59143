package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
)

// StatementRepository implements portsrepo.StatementRepositoryFacade.
type StatementRepository struct {
	store *Store
}

var _ portsrepo.StatementRepositoryFacade = (*StatementRepository)(nil)

func (r *StatementRepository) SaveStatement(ctx context.Context, statement domain.Statement) error {
	defer r.store.write(ctx)()

	if _, ok := r.store.statements[statement.StatementID]; ok {
		return fmt.Errorf("%w: statement %s", apperrors.ErrDuplicate, statement.StatementID)
	}
	for _, s := range r.store.statements {
		if !s.IsDeleted && s.UserID == statement.UserID && s.FileHash == statement.FileHash {
			return fmt.Errorf("%w: statement with hash %s", apperrors.ErrDuplicate, statement.FileHash)
		}
	}
	r.store.statements[statement.StatementID] = statement
	return nil
}

func (r *StatementRepository) FindStatementByID(ctx context.Context, userID string, statementID string) (*domain.Statement, error) {
	defer r.store.read(ctx)()
	return r.find(userID, statementID)
}

// FindStatementByIDForUpdate relies on WithinTx holding the store lock.
func (r *StatementRepository) FindStatementByIDForUpdate(ctx context.Context, userID string, statementID string) (*domain.Statement, error) {
	return r.FindStatementByID(ctx, userID, statementID)
}

func (r *StatementRepository) find(userID, statementID string) (*domain.Statement, error) {
	s, ok := r.store.statements[statementID]
	if !ok || s.IsDeleted || s.UserID != userID {
		return nil, fmt.Errorf("%w: statement %s", apperrors.ErrNotFound, statementID)
	}
	return &s, nil
}

func (r *StatementRepository) FindActiveStatementByHash(ctx context.Context, userID string, fileHash string) (*domain.Statement, error) {
	defer r.store.read(ctx)()
	for _, s := range r.store.statements {
		if !s.IsDeleted && s.UserID == userID && s.FileHash == fileHash {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%w: statement with hash %s", apperrors.ErrNotFound, fileHash)
}

func (r *StatementRepository) ListStatements(ctx context.Context, userID string, limit int, after *portsrepo.StatementCursor) ([]domain.Statement, error) {
	defer r.store.read(ctx)()

	var out []domain.Statement
	for _, s := range r.store.statements {
		if s.IsDeleted || s.UserID != userID {
			continue
		}
		if after != nil && !before(s, *after) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].StatementID > out[j].StatementID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// before reports whether s sorts after the cursor in newest-first order.
func before(s domain.Statement, c portsrepo.StatementCursor) bool {
	if s.CreatedAt.Equal(c.CreatedAt) {
		return s.StatementID < c.StatementID
	}
	return s.CreatedAt.Before(c.CreatedAt)
}

func (r *StatementRepository) BeginExtraction(ctx context.Context, userID string, statementID string, force bool, now time.Time) (bool, error) {
	defer r.store.write(ctx)()

	s, err := r.find(userID, statementID)
	if err != nil {
		return false, err
	}
	if s.ProcessingStatus == domain.StatusExtracting {
		return false, fmt.Errorf("%w: statement %s", apperrors.ErrConcurrentProcessing, statementID)
	}
	if !force && s.HasCache() {
		return false, nil
	}
	s.ProcessingStatus = domain.StatusExtracting
	s.ProcessingError = nil
	s.LastUpdatedAt = now
	r.store.statements[statementID] = *s
	return true, nil
}

func (r *StatementRepository) MarkExtracted(ctx context.Context, statementID string, result *domain.ExtractionResult, periodStart, periodEnd *time.Time, now time.Time) error {
	return r.update(ctx, statementID, func(s *domain.Statement) {
		s.ProcessingStatus = domain.StatusExtracted
		s.ProcessingError = nil
		s.ExtractedData = result
		s.PeriodStart = periodStart
		s.PeriodEnd = periodEnd
		s.LastProcessed = &now
		s.LastUpdatedAt = now
	})
}

func (r *StatementRepository) MarkFailed(ctx context.Context, statementID string, errText string, keepCache bool, now time.Time) error {
	return r.update(ctx, statementID, func(s *domain.Statement) {
		s.ProcessingStatus = domain.StatusFailed
		s.ProcessingError = &errText
		if !keepCache {
			s.ExtractedData = nil
		}
		s.LastProcessed = &now
		s.LastUpdatedAt = now
	})
}

func (r *StatementRepository) MarkImported(ctx context.Context, statementID string, now time.Time) error {
	return r.update(ctx, statementID, func(s *domain.Statement) {
		s.ProcessingStatus = domain.StatusImported
		s.ProcessingError = nil
		s.LastProcessed = &now
		s.LastUpdatedAt = now
	})
}

func (r *StatementRepository) update(ctx context.Context, statementID string, apply func(*domain.Statement)) error {
	defer r.store.write(ctx)()

	s, ok := r.store.statements[statementID]
	if !ok || s.IsDeleted {
		return fmt.Errorf("%w: statement %s", apperrors.ErrNotFound, statementID)
	}
	apply(&s)
	r.store.statements[statementID] = s
	return nil
}
