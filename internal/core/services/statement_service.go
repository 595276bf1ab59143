package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/core/extraction"
	"github.com/SscSPs/mma_statements/internal/core/ports"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_statements/internal/core/ports/services"
	"github.com/SscSPs/mma_statements/internal/dto"
	"github.com/SscSPs/mma_statements/internal/utils"
	"github.com/SscSPs/mma_statements/internal/utils/pagination"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	eventStatementProcessed = "statement_processed"
)

// PageSplitter turns a stored statement file into the pages handed to the extractor.
type PageSplitter func(contentType string, data []byte) ([]domain.Page, error)

// SinglePage hands the whole file to the extractor as one page.
func SinglePage(contentType string, data []byte) ([]domain.Page, error) {
	if len(data) == 0 {
		return nil, errors.New("statement file is empty")
	}
	return []domain.Page{{Number: 1, MIMEType: contentType, Data: data}}, nil
}

// StatementService drives statements through pending, extracting, extracted,
// imported and failed.
//
// The extracting state is the per-statement lock: BeginExtraction claims it
// atomically and a second request observing it is rejected, never queued.
// Import runs in one transaction holding the statement row.
type StatementService struct {
	BaseService
	statements     portsrepo.StatementRepositoryFacade
	txManager      portsrepo.TransactionManager
	extractor      ports.Extractor
	files          ports.FileStore
	importer       *LedgerImporter
	reconciler     *BalanceReconciler
	tracker        ports.EventTracker
	splitPages     PageSplitter
	validate       *validator.Validate
	maxUploadBytes int
}

// StatementServiceOption is a functional option for configuring StatementService
type StatementServiceOption func(*StatementService)

// WithEventTracker sets the analytics sink.
func WithEventTracker(tracker ports.EventTracker) StatementServiceOption {
	return func(s *StatementService) {
		s.tracker = tracker
	}
}

// WithPageSplitter replaces SinglePage.
func WithPageSplitter(splitter PageSplitter) StatementServiceOption {
	return func(s *StatementService) {
		if splitter != nil {
			s.splitPages = splitter
		}
	}
}

// WithMaxUploadBytes rejects larger uploads. Zero disables the check.
func WithMaxUploadBytes(n int) StatementServiceOption {
	return func(s *StatementService) {
		s.maxUploadBytes = n
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) StatementServiceOption {
	return func(s *StatementService) {
		s.now = now
	}
}

// NewStatementService creates a new StatementService with the given dependencies
func NewStatementService(
	repos portsrepo.RepositoryProvider,
	extractor ports.Extractor,
	files ports.FileStore,
	importer *LedgerImporter,
	reconciler *BalanceReconciler,
	opts ...StatementServiceOption,
) *StatementService {
	s := &StatementService{
		statements: repos.StatementRepo,
		txManager:  repos.TxManager,
		extractor:  extractor,
		files:      files,
		importer:   importer,
		reconciler: reconciler,
		splitPages: SinglePage,
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	// Collaborators share the clock so audit stamps agree within one request.
	importer.now = s.now
	importer.duplicates.now = s.now
	reconciler.now = s.now
	return s
}

var _ portssvc.StatementSvcFacade = (*StatementService)(nil)

// Upload stores the file and creates a pending statement. When the owner already
// has an active statement with identical content, that statement is returned
// together with apperrors.ErrDuplicate.
func (s *StatementService) Upload(ctx context.Context, userID string, req dto.UploadStatementRequest) (*domain.Statement, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !req.StatementType.IsValid() {
		return nil, fmt.Errorf("%w: unknown statement type %q", apperrors.ErrValidation, req.StatementType)
	}
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("%w: file is empty", apperrors.ErrValidation)
	}
	if s.maxUploadBytes > 0 && len(req.Content) > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", apperrors.ErrValidation, s.maxUploadBytes)
	}

	hash := utils.HashContent(req.Content)
	existing, err := s.statements.FindActiveStatementByHash(ctx, userID, hash)
	if err == nil {
		s.LogInfo(ctx, "Statement already uploaded", slog.String("statement_id", existing.StatementID))
		return existing, fmt.Errorf("%w: statement %s has the same content", apperrors.ErrDuplicate, existing.StatementID)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate upload: %w", err)
	}

	now := s.Now()
	statementID := uuid.NewString()
	key := fmt.Sprintf("%s/%s%s", userID, statementID, strings.ToLower(path.Ext(req.DisplayName)))
	location, err := s.files.Put(ctx, key, req.ContentType, req.Content)
	if err != nil {
		s.LogError(ctx, err, "Failed to store statement file", slog.String("statement_id", statementID))
		return nil, fmt.Errorf("failed to store statement file: %w", err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = path.Base(key)
	}
	stmt := domain.Statement{
		StatementID:      statementID,
		UserID:           userID,
		StatementType:    req.StatementType,
		StatementURL:     location,
		DisplayName:      displayName,
		ContentType:      req.ContentType,
		FileHash:         hash,
		ProcessingStatus: domain.StatusPending,
		AuditFields:      domain.NewAuditFields(userID, now),
	}
	if err := s.statements.SaveStatement(ctx, stmt); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race with a concurrent upload of the same file.
			if winner, findErr := s.statements.FindActiveStatementByHash(ctx, userID, hash); findErr == nil {
				return winner, err
			}
		}
		return nil, fmt.Errorf("failed to save statement: %w", err)
	}

	s.LogInfo(ctx, "Statement uploaded",
		slog.String("statement_id", statementID),
		slog.String("statement_type", string(stmt.StatementType)),
		slog.Int("bytes", len(req.Content)),
	)
	return &stmt, nil
}

// GetStatement retrieves a statement owned by userID.
func (s *StatementService) GetStatement(ctx context.Context, userID string, statementID string) (*domain.Statement, error) {
	stmt, err := s.statements.FindStatementByID(ctx, userID, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get statement %s: %w", statementID, err)
	}
	return stmt, nil
}

// ListStatements returns a page of the owner's statements, newest first.
func (s *StatementService) ListStatements(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Statement, *string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var cursor *portsrepo.StatementCursor
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &portsrepo.StatementCursor{CreatedAt: createdAt, StatementID: id}
	}

	// Ask for one extra row to learn whether another page exists.
	statements, err := s.statements.ListStatements(ctx, userID, limit+1, cursor)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list statements: %w", err)
	}

	var next *string
	if len(statements) > limit {
		statements = statements[:limit]
		last := statements[len(statements)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.StatementID)
		next = &token
	}
	return statements, next, nil
}

// Preview returns the statement's extraction without importing it. The cached
// extraction is returned unless forceRefresh is set.
func (s *StatementService) Preview(ctx context.Context, userID string, statementID string, forceRefresh bool) (*domain.ProcessResult, error) {
	stmt, err := s.loadProcessable(ctx, userID, statementID)
	if err != nil {
		return nil, err
	}

	result, fromCache, err := s.ensureExtraction(ctx, stmt, forceRefresh)
	if err != nil {
		return nil, err
	}

	res := newProcessResult(stmt, result, fromCache)
	res.Transactions = result.Transactions
	return res, nil
}

// Process imports the statement, extracting it first when nothing is cached.
// It never re-invokes the extractor when a cached extraction exists.
func (s *StatementService) Process(ctx context.Context, userID string, statementID string, forceReimport bool) (*domain.ProcessResult, error) {
	stmt, err := s.loadProcessable(ctx, userID, statementID)
	if err != nil {
		return nil, err
	}

	result, fromCache, err := s.ensureExtraction(ctx, stmt, false)
	if err != nil {
		return nil, err
	}
	return s.importCached(ctx, stmt, result, fromCache, forceReimport)
}

// Rescan is Process with forceReimport set.
func (s *StatementService) Rescan(ctx context.Context, userID string, statementID string) (*domain.ProcessResult, error) {
	return s.Process(ctx, userID, statementID, true)
}

// ConfirmImport imports a statement that has already been previewed.
func (s *StatementService) ConfirmImport(ctx context.Context, userID string, statementID string) (*domain.ProcessResult, error) {
	stmt, err := s.loadProcessable(ctx, userID, statementID)
	if err != nil {
		return nil, err
	}
	if !stmt.HasCache() {
		return nil, fmt.Errorf("%w: statement %s has no extraction to confirm, preview it first", apperrors.ErrValidation, statementID)
	}
	return s.importCached(ctx, stmt, stmt.ExtractedData, true, false)
}

// Reconcile recomputes the reconciliation report from persisted rows.
func (s *StatementService) Reconcile(ctx context.Context, userID string, statementID string) (*domain.ReconciliationReport, error) {
	stmt, err := s.GetStatement(ctx, userID, statementID)
	if err != nil {
		return nil, err
	}
	return s.reconciler.Reconcile(ctx, stmt)
}

func (s *StatementService) loadProcessable(ctx context.Context, userID, statementID string) (*domain.Statement, error) {
	stmt, err := s.GetStatement(ctx, userID, statementID)
	if err != nil {
		return nil, err
	}
	if !stmt.StatementType.IsProcessable() {
		return nil, fmt.Errorf("%w: %s statements cannot be processed, only bank, credit_card and ewallet", apperrors.ErrUnsupportedStatement, stmt.StatementType)
	}
	if stmt.ProcessingStatus == domain.StatusExtracting {
		return nil, fmt.Errorf("%w: statement %s", apperrors.ErrConcurrentProcessing, statementID)
	}
	return stmt, nil
}

// ensureExtraction returns the cached extraction, or extracts and caches it.
// On return stmt reflects the persisted state.
func (s *StatementService) ensureExtraction(ctx context.Context, stmt *domain.Statement, force bool) (*domain.ExtractionResult, bool, error) {
	if stmt.HasCache() && !force {
		s.LogDebug(ctx, "Using cached extraction", slog.String("statement_id", stmt.StatementID))
		return stmt.ExtractedData, true, nil
	}

	started, err := s.statements.BeginExtraction(ctx, stmt.UserID, stmt.StatementID, force, s.Now())
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin extraction of statement %s: %w", stmt.StatementID, err)
	}
	if !started {
		// Another request cached an extraction between our read and the claim.
		fresh, err := s.GetStatement(ctx, stmt.UserID, stmt.StatementID)
		if err != nil {
			return nil, false, err
		}
		if !fresh.HasCache() {
			return nil, false, fmt.Errorf("%w: statement %s was not claimed and has no cached extraction", apperrors.ErrConcurrentProcessing, stmt.StatementID)
		}
		*stmt = *fresh
		return stmt.ExtractedData, true, nil
	}
	s.LogInfo(ctx, "Statement extraction started",
		slog.String("statement_id", stmt.StatementID),
		slog.String("from_status", string(stmt.ProcessingStatus)),
		slog.Bool("force_refresh", force),
	)

	result, err := s.extract(ctx, stmt)
	if err != nil {
		now := s.Now()
		errText := err.Error()
		if markErr := s.statements.MarkFailed(ctx, stmt.StatementID, errText, false, now); markErr != nil {
			s.LogError(ctx, markErr, "Failed to record extraction failure", slog.String("statement_id", stmt.StatementID))
		}
		stmt.ProcessingStatus = domain.StatusFailed
		stmt.ProcessingError = &errText
		stmt.ExtractedData = nil
		stmt.LastProcessed = &now
		s.LogWarn(ctx, "Statement extraction failed", slog.String("statement_id", stmt.StatementID), slog.String("error", errText))
		return nil, false, err
	}

	now := s.Now()
	periodStart := parsePeriodDate(result.StatementPeriod.StartDate)
	periodEnd := parsePeriodDate(result.StatementPeriod.EndDate)
	if periodEnd == nil {
		periodEnd = stmt.PeriodEnd
	}
	if periodStart == nil {
		periodStart = stmt.PeriodStart
	}
	if err := s.statements.MarkExtracted(ctx, stmt.StatementID, result, periodStart, periodEnd, now); err != nil {
		return nil, false, fmt.Errorf("failed to cache extraction of statement %s: %w", stmt.StatementID, err)
	}
	stmt.ProcessingStatus = domain.StatusExtracted
	stmt.ProcessingError = nil
	stmt.ExtractedData = result
	stmt.PeriodStart = periodStart
	stmt.PeriodEnd = periodEnd
	stmt.LastProcessed = &now

	s.LogInfo(ctx, "Statement extracted",
		slog.String("statement_id", stmt.StatementID),
		slog.Int("pages", result.PageCount),
		slog.Int("transactions", len(result.Transactions)),
		slog.Int("page_errors", len(result.Errors)),
	)
	return result, false, nil
}

// extract runs the extractor page by page. A failing page is recorded and the
// remaining pages still count; only a statement with no usable page fails.
func (s *StatementService) extract(ctx context.Context, stmt *domain.Statement) (*domain.ExtractionResult, error) {
	data, err := s.files.Get(ctx, stmt.StatementURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read statement file: %v", apperrors.ErrExtractionFailed, err)
	}
	pages, err := s.splitPages(stmt.ContentType, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExtractionFailed, err)
	}

	extracted := make([]*domain.PageExtraction, len(pages))
	var pageErrors []string
	succeeded := 0
	for i, page := range pages {
		pe, err := s.extractor.ExtractPage(ctx, page)
		if err != nil {
			msg := fmt.Sprintf("page %d: %v", page.Number, err)
			pageErrors = append(pageErrors, msg)
			s.LogWarn(ctx, "Page extraction failed", slog.String("statement_id", stmt.StatementID), slog.Int("page", page.Number), slog.String("error", err.Error()))
			continue
		}
		extracted[i] = pe
		succeeded++
	}
	if succeeded == 0 {
		return nil, fmt.Errorf("%w: no page could be extracted: %s", apperrors.ErrExtractionFailed, strings.Join(pageErrors, "; "))
	}
	return extraction.Merge(extracted, pageErrors), nil
}

// importCached runs the importer and the transition to imported in one
// transaction, then reconciles.
func (s *StatementService) importCached(ctx context.Context, stmt *domain.Statement, result *domain.ExtractionResult, fromCache, forceReimport bool) (*domain.ProcessResult, error) {
	var outcome *ImportOutcome
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.statements.FindStatementByIDForUpdate(ctx, stmt.UserID, stmt.StatementID)
		if err != nil {
			return err
		}
		if locked.ProcessingStatus == domain.StatusExtracting {
			return fmt.Errorf("%w: statement %s", apperrors.ErrConcurrentProcessing, stmt.StatementID)
		}

		outcome, err = s.importer.Import(ctx, locked, result, ImportOptions{
			ForceReimport: forceReimport,
			AllowRevisit:  fromCache && locked.ProcessingStatus == domain.StatusImported,
		})
		if err != nil {
			return err
		}
		if outcome.Revisited {
			return nil
		}
		return s.statements.MarkImported(ctx, stmt.StatementID, s.Now())
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrConcurrentProcessing) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		errText := err.Error()
		if markErr := s.statements.MarkFailed(ctx, stmt.StatementID, errText, true, s.Now()); markErr != nil {
			s.LogError(ctx, markErr, "Failed to record import failure", slog.String("statement_id", stmt.StatementID))
		}
		s.LogError(ctx, err, "Statement import failed", slog.String("statement_id", stmt.StatementID))
		return nil, fmt.Errorf("failed to import statement %s: %w", stmt.StatementID, err)
	}

	stmt.ProcessingStatus = domain.StatusImported
	stmt.ProcessingError = nil
	res := newProcessResult(stmt, result, fromCache)
	if !outcome.Revisited {
		summary := outcome.Summary
		res.Summary = &summary
	}
	if outcome.Account != nil {
		res.AccountID = outcome.Account.AccountID
	}

	report, err := s.reconciler.Reconcile(ctx, stmt)
	if err != nil {
		// Advisory only.
		s.LogError(ctx, err, "Reconciliation failed", slog.String("statement_id", stmt.StatementID))
	}
	res.Reconciliation = report

	s.track(stmt, outcome, report)
	return res, nil
}

func (s *StatementService) track(stmt *domain.Statement, outcome *ImportOutcome, report *domain.ReconciliationReport) {
	if s.tracker == nil {
		return
	}
	props := map[string]any{
		"statement_id":   stmt.StatementID,
		"statement_type": string(stmt.StatementType),
		"revisited":      outcome.Revisited,
		"incomes":        outcome.Summary.Incomes,
		"expenses":       outcome.Summary.Expenses,
		"transfers":      outcome.Summary.Transfers,
		"duplicates":     outcome.Summary.DuplicatesRemoved,
		"skipped":        outcome.Summary.Skipped,
	}
	if report != nil {
		props["reconciled"] = report.Matches
	}
	s.tracker.Enqueue(stmt.UserID, eventStatementProcessed, props)
}

func newProcessResult(stmt *domain.Statement, result *domain.ExtractionResult, fromCache bool) *domain.ProcessResult {
	return &domain.ProcessResult{
		Success:          true,
		StatementID:      stmt.StatementID,
		ProcessingStatus: stmt.ProcessingStatus,
		FromCache:        fromCache,
		StatementPeriod:  result.StatementPeriod,
		OpeningBalance:   result.OpeningBalance,
		ClosingBalance:   result.ClosingBalance,
		Errors:           result.Errors,
	}
}

func parsePeriodDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := extraction.ParseDate(*s)
	if !ok {
		return nil
	}
	return &t
}
