package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/classification"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	"github.com/SscSPs/mma_statements/internal/dto"
	"github.com/SscSPs/mma_statements/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testUser = "user-1"

var fixedNow = time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

// scriptedExtractor returns a canned extraction per page number and counts calls.
type scriptedExtractor struct {
	mu    sync.Mutex
	pages map[int]*domain.PageExtraction
	fail  map[int]error
	calls int
}

func (e *scriptedExtractor) ExtractPage(_ context.Context, page domain.Page) (*domain.PageExtraction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if err := e.fail[page.Number]; err != nil {
		return nil, err
	}
	pe, ok := e.pages[page.Number]
	if !ok {
		return nil, fmt.Errorf("no script for page %d", page.Number)
	}
	return pe, nil
}

func (e *scriptedExtractor) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

type mapFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (f *mapFileStore) Put(_ context.Context, key string, _ string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[key] = data
	return "mem://" + key, nil
}

func (f *mapFileStore) Get(_ context.Context, location string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[location[len("mem://"):]]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return data, nil
}

type MockEventTracker struct {
	mock.Mock
}

func (m *MockEventTracker) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}

// formFeedPages splits test files on \f, one page per chunk.
func formFeedPages(contentType string, data []byte) ([]domain.Page, error) {
	var pages []domain.Page
	for i, chunk := range bytes.Split(data, []byte("\f")) {
		pages = append(pages, domain.Page{Number: i + 1, MIMEType: contentType, Data: chunk})
	}
	return pages, nil
}

// failingLedger breaks expense inserts to exercise the import failure path.
type failingLedger struct {
	portsrepo.LedgerRepositoryFacade
}

func (failingLedger) SaveExpense(context.Context, domain.Expense) error {
	return errors.New("connection reset")
}

// unclaimedStatements reports that the extraction claim changed nothing.
type unclaimedStatements struct {
	portsrepo.StatementRepositoryFacade
}

func (unclaimedStatements) BeginExtraction(context.Context, string, string, bool, time.Time) (bool, error) {
	return false, nil
}

type StatementServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	repos     portsrepo.RepositoryProvider
	extractor *scriptedExtractor
	files     *mapFileStore
	tracker   *MockEventTracker
	service   *StatementService
}

func (s *StatementServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.repos = memory.NewRepositoryProvider(s.store)
	s.extractor = &scriptedExtractor{pages: map[int]*domain.PageExtraction{}, fail: map[int]error{}}
	s.files = &mapFileStore{files: map[string][]byte{}}
	s.tracker = new(MockEventTracker)
	s.service = s.newService(s.repos)
}

func (s *StatementServiceTestSuite) newService(repos portsrepo.RepositoryProvider) *StatementService {
	classifier, err := classification.NewDefault()
	s.Require().NoError(err)
	duplicates := NewDuplicateResolver(repos.LedgerRepo)
	return NewStatementService(
		repos,
		s.extractor,
		s.files,
		NewLedgerImporter(repos, classifier, duplicates),
		NewBalanceReconciler(repos.LedgerRepo, decimal.Zero),
		WithEventTracker(s.tracker),
		WithPageSplitter(formFeedPages),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func (s *StatementServiceTestSuite) TearDownTest() {
	s.tracker.AssertExpectations(s.T())
}

func TestStatementServiceSuite(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}

func d(v string) *decimal.Decimal {
	x := decimal.RequireFromString(v)
	return &x
}

func sp(v string) *string { return &v }

func txn(date, desc, amount string, typ domain.TransactionType) domain.ExtractedTransaction {
	return domain.ExtractedTransaction{Date: date, Description: desc, Amount: d(amount), Type: typ}
}

func (s *StatementServiceTestSuite) upload(content string) *domain.Statement {
	stmt, err := s.service.Upload(s.ctx, testUser, dto.UploadStatementRequest{
		StatementType: domain.StatementTypeBank,
		DisplayName:   "statement.pdf",
		ContentType:   "application/pdf",
		Content:       []byte(content),
	})
	s.Require().NoError(err)
	return stmt
}

// scriptTwoPages: opening 500, salary +100, two debits of 150 and 30, closing 420.
func (s *StatementServiceTestSuite) scriptTwoPages() {
	s.extractor.pages[1] = &domain.PageExtraction{
		StatementPeriod: &domain.StatementPeriod{StartDate: sp("2025-01-01"), EndDate: sp("2025-01-31")},
		AccountInfo:     &domain.AccountInfo{AccountNumber: "1234567890", AccountName: "Maybank Savings", AccountType: "savings"},
		OpeningBalance:  d("500"),
		Transactions: []domain.ExtractedTransaction{
			txn("2025-01-05", "SALARY ACME SDN BHD", "100", domain.Credit),
			txn("2025-01-10", "GRAB FOOD 1234 KL", "-150", domain.Debit),
		},
	}
	s.extractor.pages[2] = &domain.PageExtraction{
		ClosingBalance: d("420"),
		Transactions: []domain.ExtractedTransaction{
			txn("2025-01-20", "TNB ELECTRIC BILL", "-30", domain.Debit),
		},
	}
}

func (s *StatementServiceTestSuite) expectProcessedEvent() {
	s.tracker.On("Enqueue", testUser, eventStatementProcessed, mock.Anything).Once()
}

func (s *StatementServiceTestSuite) TestUpload_DuplicateContentReturnsExisting() {
	first := s.upload("p1\fp2")

	again, err := s.service.Upload(s.ctx, testUser, dto.UploadStatementRequest{
		StatementType: domain.StatementTypeBank,
		ContentType:   "application/pdf",
		Content:       []byte("p1\fp2"),
	})
	s.Require().ErrorIs(err, apperrors.ErrDuplicate)
	s.Require().NotNil(again)
	s.Equal(first.StatementID, again.StatementID)
	s.Equal(domain.StatusPending, first.ProcessingStatus)
}

func (s *StatementServiceTestSuite) TestUpload_RejectsUnknownType() {
	_, err := s.service.Upload(s.ctx, testUser, dto.UploadStatementRequest{
		StatementType: "payslip",
		ContentType:   "application/pdf",
		Content:       []byte("x"),
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StatementServiceTestSuite) TestPreview_ReceiptUnsupported() {
	stmt, err := s.service.Upload(s.ctx, testUser, dto.UploadStatementRequest{
		StatementType: domain.StatementTypeReceipt,
		ContentType:   "image/jpeg",
		Content:       []byte("receipt"),
	})
	s.Require().NoError(err)

	_, err = s.service.Preview(s.ctx, testUser, stmt.StatementID, false)
	s.ErrorIs(err, apperrors.ErrUnsupportedStatement)
	s.Equal(0, s.extractor.Calls())
}

func (s *StatementServiceTestSuite) TestPreview_TwiceUsesCache() {
	s.scriptTwoPages()
	stmt := s.upload("p1\fp2")

	first, err := s.service.Preview(s.ctx, testUser, stmt.StatementID, false)
	s.Require().NoError(err)
	s.False(first.FromCache)
	s.Equal(domain.StatusExtracted, first.ProcessingStatus)
	s.Len(first.Transactions, 3)
	s.Nil(first.Summary)
	s.Equal(2, s.extractor.Calls())

	second, err := s.service.Preview(s.ctx, testUser, stmt.StatementID, false)
	s.Require().NoError(err)
	s.True(second.FromCache)
	s.Len(second.Transactions, 3)
	s.Equal(2, s.extractor.Calls(), "cached preview must not call the extractor")

	_, err = s.service.Preview(s.ctx, testUser, stmt.StatementID, true)
	s.Require().NoError(err)
	s.Equal(4, s.extractor.Calls())
}

func (s *StatementServiceTestSuite) TestProcess_TwoPageStatementEndToEnd() {
	s.scriptTwoPages()
	s.expectProcessedEvent()
	stmt := s.upload("p1\fp2")

	res, err := s.service.Process(s.ctx, testUser, stmt.StatementID, false)
	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal(domain.StatusImported, res.ProcessingStatus)
	s.Require().NotNil(res.Summary)
	s.Equal(1, res.Summary.Incomes)
	s.Equal(2, res.Summary.Expenses)
	s.Equal(0, res.Summary.Skipped)
	s.True(d("500").Equal(*res.OpeningBalance))
	s.True(d("420").Equal(*res.ClosingBalance))

	s.Require().NotNil(res.Reconciliation)
	s.True(res.Reconciliation.Matches)
	s.True(res.Reconciliation.Difference.IsZero())

	s.Require().NotEmpty(res.AccountID)
	account, err := s.repos.AccountRepo.FindAccountByID(s.ctx, testUser, res.AccountID)
	s.Require().NoError(err)
	s.True(d("420").Equal(account.Balance))
	s.Equal(domain.AccountSavings, account.AccountType)

	snaps, err := s.repos.SnapshotRepo.ListSnapshotsByAccount(s.ctx, res.AccountID)
	s.Require().NoError(err)
	s.Require().Len(snaps, 1)
	s.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), snaps[0].SnapshotDate)

	saved, err := s.service.GetStatement(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Equal(domain.StatusImported, saved.ProcessingStatus)
	s.Require().NotNil(saved.PeriodEnd)
}

func (s *StatementServiceTestSuite) TestProcess_RevisitOfImportedStatementOnlyReconciles() {
	s.scriptTwoPages()
	s.expectProcessedEvent()
	s.expectProcessedEvent()
	stmt := s.upload("p1\fp2")

	_, err := s.service.Process(s.ctx, testUser, stmt.StatementID, false)
	s.Require().NoError(err)

	again, err := s.service.Process(s.ctx, testUser, stmt.StatementID, false)
	s.Require().NoError(err)
	s.True(again.FromCache)
	s.Nil(again.Summary)
	s.Require().NotNil(again.Reconciliation)
	s.True(again.Reconciliation.Matches)
	s.Equal(2, s.extractor.Calls())

	counts, err := s.repos.LedgerRepo.CountActiveByStatement(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Equal(3, counts.Total())
}

func (s *StatementServiceTestSuite) TestProcess_ConflictAfterRefreshUnlessForced() {
	s.scriptTwoPages()
	s.expectProcessedEvent()
	s.expectProcessedEvent()
	stmt := s.upload("p1\fp2")

	_, err := s.service.Process(s.ctx, testUser, stmt.StatementID, false)
	s.Require().NoError(err)

	// A refreshed preview leaves the statement extracted with rows still attached.
	_, err = s.service.Preview(s.ctx, testUser, stmt.StatementID, true)
	s.Require().NoError(err)

	_, err = s.service.Process(s.ctx, testUser, stmt.StatementID, false)
	s.Require().ErrorIs(err, apperrors.ErrConflict)

	res, err := s.service.Rescan(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Require().NotNil(res.Summary)
	s.Equal(3, res.Summary.ReimportedRowsVoided)
	s.Equal(0, res.Summary.DuplicatesRemoved, "voided rows are not duplicates")

	counts, err := s.repos.LedgerRepo.CountActiveByStatement(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Equal(3, counts.Total())
}

func (s *StatementServiceTestSuite) TestPreview_RejectsWhileExtracting() {
	stmt := s.upload("p1")
	started, err := s.repos.StatementRepo.BeginExtraction(s.ctx, testUser, stmt.StatementID, false, fixedNow)
	s.Require().NoError(err)
	s.Require().True(started)

	_, err = s.service.Preview(s.ctx, testUser, stmt.StatementID, false)
	s.ErrorIs(err, apperrors.ErrConcurrentProcessing)
	_, err = s.service.Process(s.ctx, testUser, stmt.StatementID, false)
	s.ErrorIs(err, apperrors.ErrConcurrentProcessing)
	s.Equal(0, s.extractor.Calls())
}

func (s *StatementServiceTestSuite) TestProcess_RemovesCrossStatementDuplicate() {
	s.expectProcessedEvent()
	s.expectProcessedEvent()
	info := &domain.AccountInfo{AccountNumber: "1234567890", AccountType: "savings"}

	s.extractor.pages[1] = &domain.PageExtraction{
		AccountInfo:  info,
		Transactions: []domain.ExtractedTransaction{txn("2025-01-10", "GRAB FOOD 1234 KL", "-45.90", domain.Debit)},
	}
	first := s.upload("statement-a")
	_, err := s.service.Process(s.ctx, testUser, first.StatementID, false)
	s.Require().NoError(err)

	s.extractor.pages[1] = &domain.PageExtraction{
		AccountInfo:  info,
		Transactions: []domain.ExtractedTransaction{txn("2025-01-11", "Grab Food 1234 KL Malaysia", "-45.90", domain.Debit)},
	}
	second := s.upload("statement-b")
	res, err := s.service.Process(s.ctx, testUser, second.StatementID, false)
	s.Require().NoError(err)
	s.Equal(1, res.Summary.DuplicatesRemoved)
	s.Equal(1, res.Summary.Expenses)

	ledger := s.repos.LedgerRepo.(*memory.LedgerRepository)
	active := 0
	for _, e := range ledger.Expenses() {
		if e.IsDeleted {
			s.Equal(first.StatementID, e.StatementID)
			continue
		}
		active++
		s.Equal(second.StatementID, e.StatementID)
		s.Equal("Dining", e.Category)
	}
	s.Equal(1, active)
}

func (s *StatementServiceTestSuite) TestProcess_ReconciliationMismatchIsReported() {
	s.expectProcessedEvent()
	s.extractor.pages[1] = &domain.PageExtraction{
		StatementPeriod: &domain.StatementPeriod{StartDate: sp("2025-01-01"), EndDate: sp("2025-01-31")},
		OpeningBalance:  d("1000"),
		ClosingBalance:  d("1150"),
		Transactions: []domain.ExtractedTransaction{
			txn("2025-01-03", "SALARY", "500", domain.Credit),
			txn("2025-01-04", "RENT JANUARY", "-300", domain.Debit),
		},
	}
	stmt := s.upload("mismatch")

	res, err := s.service.Process(s.ctx, testUser, stmt.StatementID, false)
	s.Require().NoError(err)
	s.Require().NotNil(res.Reconciliation)
	s.False(res.Reconciliation.Matches)
	s.True(decimal.NewFromInt(1200).Equal(res.Reconciliation.CalculatedClosing))
	s.True(decimal.NewFromInt(-50).Equal(res.Reconciliation.Difference))

	report, err := s.service.Reconcile(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Equal(res.Reconciliation, report)
}

func (s *StatementServiceTestSuite) TestPreview_PartialPageFailureIsRecorded() {
	s.scriptTwoPages()
	s.extractor.fail[2] = errors.New("model timeout")
	stmt := s.upload("p1\fp2")

	res, err := s.service.Preview(s.ctx, testUser, stmt.StatementID, false)
	s.Require().NoError(err)
	s.Len(res.Transactions, 2)
	s.Require().Len(res.Errors, 1)
	s.Contains(res.Errors[0], "page 2")
	s.Nil(res.ClosingBalance)
}

func (s *StatementServiceTestSuite) TestPreview_AllPagesFailMarksFailed() {
	s.extractor.fail[1] = errors.New("model timeout")
	stmt := s.upload("only-page")

	_, err := s.service.Preview(s.ctx, testUser, stmt.StatementID, false)
	s.Require().ErrorIs(err, apperrors.ErrExtractionFailed)

	saved, err := s.service.GetStatement(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, saved.ProcessingStatus)
	s.False(saved.HasCache())
	s.Require().NotNil(saved.ProcessingError)
}

func (s *StatementServiceTestSuite) TestPreview_RecoversAfterAllPagesFailed() {
	s.scriptTwoPages()
	s.extractor.fail[1] = errors.New("model timeout")
	s.extractor.fail[2] = errors.New("model timeout")
	stmt := s.upload("p1\fp2")

	_, err := s.service.Preview(s.ctx, testUser, stmt.StatementID, false)
	s.Require().ErrorIs(err, apperrors.ErrExtractionFailed)
	saved, err := s.service.GetStatement(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, saved.ProcessingStatus)
	s.Equal(2, s.extractor.Calls())

	delete(s.extractor.fail, 1)
	delete(s.extractor.fail, 2)

	res, err := s.service.Preview(s.ctx, testUser, stmt.StatementID, false)
	s.Require().NoError(err)
	s.False(res.FromCache)
	s.Equal(domain.StatusExtracted, res.ProcessingStatus)
	s.Len(res.Transactions, 3)
	s.Empty(res.Errors)
	s.Equal(4, s.extractor.Calls())

	saved, err = s.service.GetStatement(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Equal(domain.StatusExtracted, saved.ProcessingStatus)
	s.True(saved.HasCache())
	s.Nil(saved.ProcessingError)
}

func (s *StatementServiceTestSuite) TestPreview_UnclaimedWithoutCacheIsConcurrent() {
	repos := s.repos
	repos.StatementRepo = unclaimedStatements{StatementRepositoryFacade: s.repos.StatementRepo}
	service := s.newService(repos)
	stmt := s.upload("p1")

	res, err := service.Preview(s.ctx, testUser, stmt.StatementID, false)
	s.Require().ErrorIs(err, apperrors.ErrConcurrentProcessing)
	s.Nil(res)
	s.Equal(0, s.extractor.Calls())

	_, err = service.Process(s.ctx, testUser, stmt.StatementID, false)
	s.ErrorIs(err, apperrors.ErrConcurrentProcessing)
}

func (s *StatementServiceTestSuite) TestProcess_BalanceRowsInsideTransactionList() {
	s.expectProcessedEvent()
	s.extractor.pages[1] = &domain.PageExtraction{
		AccountInfo: &domain.AccountInfo{AccountNumber: "1234567890", AccountName: "Maybank Savings", AccountType: "savings"},
		Transactions: []domain.ExtractedTransaction{
			txn("2025-01-01", "PREVIOUS BALANCE", "500", ""),
			txn("2025-01-05", "SALARY ACME SDN BHD", "100", domain.Credit),
			txn("2025-01-10", "GRAB FOOD 1234 KL", "-150", domain.Debit),
		},
	}
	s.extractor.pages[2] = &domain.PageExtraction{
		Transactions: []domain.ExtractedTransaction{
			txn("2025-01-20", "TNB ELECTRIC BILL", "-30", domain.Debit),
			txn("2025-01-31", "CLOSING BALANCE", "420", ""),
		},
	}
	stmt := s.upload("p1\fp2")

	preview, err := s.service.Preview(s.ctx, testUser, stmt.StatementID, false)
	s.Require().NoError(err)
	s.Len(preview.Transactions, 3)
	s.Require().NotNil(preview.OpeningBalance)
	s.True(d("500").Equal(*preview.OpeningBalance))

	res, err := s.service.ConfirmImport(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Require().NotNil(res.Summary)
	s.Equal(1, res.Summary.Incomes)
	s.Equal(2, res.Summary.Expenses)
	s.Equal(0, res.Summary.Skipped)
	s.True(d("500").Equal(*res.OpeningBalance))
	s.True(d("420").Equal(*res.ClosingBalance))
	s.Require().NotNil(res.Reconciliation)
	s.True(res.Reconciliation.Matches)
	s.True(res.Reconciliation.Difference.IsZero())

	counts, err := s.repos.LedgerRepo.CountActiveByStatement(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Equal(3, counts.Total())
}

func (s *StatementServiceTestSuite) TestProcess_ImportFailureKeepsCacheAndRollsBack() {
	s.scriptTwoPages()
	broken := s.repos
	broken.LedgerRepo = failingLedger{LedgerRepositoryFacade: s.repos.LedgerRepo}
	service := s.newService(broken)
	stmt := s.upload("p1\fp2")

	_, err := service.Process(s.ctx, testUser, stmt.StatementID, false)
	s.Require().Error(err)

	saved, err := s.service.GetStatement(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, saved.ProcessingStatus)
	s.True(saved.HasCache(), "import failure keeps the extraction")

	counts, err := s.repos.LedgerRepo.CountActiveByStatement(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.Equal(0, counts.Total(), "the income saved before the failure is rolled back")

	accounts, err := s.repos.AccountRepo.ListAccountsByUser(s.ctx, testUser)
	s.Require().NoError(err)
	s.Empty(accounts)

	// Confirming from the kept cache succeeds without another extraction.
	s.expectProcessedEvent()
	res, err := s.service.ConfirmImport(s.ctx, testUser, stmt.StatementID)
	s.Require().NoError(err)
	s.True(res.FromCache)
	s.Equal(3, res.Summary.Incomes+res.Summary.Expenses)
	s.Equal(2, s.extractor.Calls())
}

func (s *StatementServiceTestSuite) TestConfirmImport_RequiresCache() {
	stmt := s.upload("p1")
	_, err := s.service.ConfirmImport(s.ctx, testUser, stmt.StatementID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StatementServiceTestSuite) TestGetStatement_OtherOwnerNotFound() {
	stmt := s.upload("p1")
	_, err := s.service.GetStatement(s.ctx, "user-2", stmt.StatementID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StatementServiceTestSuite) TestListStatements_Pagination() {
	for i := 0; i < 3; i++ {
		now := fixedNow.Add(time.Duration(i) * time.Minute)
		svc := s.newService(s.repos)
		svc.now = func() time.Time { return now }
		_, err := svc.Upload(s.ctx, testUser, dto.UploadStatementRequest{
			StatementType: domain.StatementTypeBank,
			ContentType:   "application/pdf",
			Content:       []byte(fmt.Sprintf("file-%d", i)),
		})
		s.Require().NoError(err)
	}

	page, next, err := s.service.ListStatements(s.ctx, testUser, 2, nil)
	s.Require().NoError(err)
	s.Len(page, 2)
	s.Require().NotNil(next)

	rest, next, err := s.service.ListStatements(s.ctx, testUser, 2, next)
	s.Require().NoError(err)
	s.Len(rest, 1)
	s.Nil(next)

	bad := "not-a-token"
	_, _, err = s.service.ListStatements(s.ctx, testUser, 2, &bad)
	s.ErrorIs(err, apperrors.ErrValidation)
}
