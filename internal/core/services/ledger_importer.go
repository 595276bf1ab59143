package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/classification"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/core/extraction"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Longest values stored on a ledger row, in runes.
const (
	maxDescriptionLen = 255
	maxCategoryLen    = 64
	maxReferenceLen   = 128
	maxPartyLen       = 255
)

// ImportOptions controls the re-import guard of LedgerImporter.Import.
type ImportOptions struct {
	// ForceReimport voids the rows previously imported from the statement first.
	ForceReimport bool
	// AllowRevisit turns the "already imported" conflict into a no-op. It is set
	// for cache-hit revisits of an imported statement, which only reconcile.
	AllowRevisit bool
}

// ImportOutcome is what LedgerImporter.Import did.
type ImportOutcome struct {
	Summary   domain.ImportSummary
	Account   *domain.Account
	Revisited bool
}

// importRow is the part of an extracted transaction that must be present for import.
type importRow struct {
	Date        string           `validate:"required"`
	Description string           `validate:"required"`
	Amount      *decimal.Decimal `validate:"required"`
}

// LedgerImporter turns a cached extraction into income, expense and transfer rows
// and keeps the owning account, its snapshots and its credit card current.
// It must run inside a transaction.
type LedgerImporter struct {
	BaseService
	accounts   portsrepo.AccountRepositoryFacade
	snapshots  portsrepo.SnapshotRepositoryFacade
	cards      portsrepo.CreditCardRepositoryFacade
	ledger     portsrepo.LedgerRepositoryFacade
	classifier *classification.Classifier
	duplicates *DuplicateResolver
	validate   *validator.Validate
}

// NewLedgerImporter creates a LedgerImporter.
func NewLedgerImporter(repos portsrepo.RepositoryProvider, classifier *classification.Classifier, duplicates *DuplicateResolver) *LedgerImporter {
	return &LedgerImporter{
		accounts:   repos.AccountRepo,
		snapshots:  repos.SnapshotRepo,
		cards:      repos.CreditCardRepo,
		ledger:     repos.LedgerRepo,
		classifier: classifier,
		duplicates: duplicates,
		validate:   validator.New(),
	}
}

// Import creates ledger rows for result on behalf of stmt. When the statement
// already has active rows it returns apperrors.ErrConflict, unless opts allows a
// revisit or forces a re-import.
func (i *LedgerImporter) Import(ctx context.Context, stmt *domain.Statement, result *domain.ExtractionResult, opts ImportOptions) (*ImportOutcome, error) {
	logger := i.GetLogger(ctx).With(slog.String("statement_id", stmt.StatementID))
	now := i.Now()
	outcome := &ImportOutcome{}

	existing, err := i.ledger.CountActiveByStatement(ctx, stmt.UserID, stmt.StatementID)
	if err != nil {
		return nil, fmt.Errorf("failed to count existing rows: %w", err)
	}
	if existing.Total() > 0 {
		switch {
		case opts.ForceReimport:
			voided, err := i.ledger.SoftDeleteByStatement(ctx, stmt.UserID, stmt.StatementID, now)
			if err != nil {
				return nil, fmt.Errorf("failed to void previous import: %w", err)
			}
			outcome.Summary.ReimportedRowsVoided = voided.Total()
			logger.Info("Voided rows of previous import", slog.Int("rows", voided.Total()))
		case opts.AllowRevisit:
			outcome.Revisited = true
			logger.Info("Statement already imported, skipping row creation", slog.Int("existing_rows", existing.Total()))
			return outcome, nil
		default:
			return nil, fmt.Errorf("%w: %d rows already imported from this statement; use force_reimport to replace them",
				apperrors.ErrConflict, existing.Total())
		}
	}

	account, err := i.resolveAccount(ctx, stmt, result, now)
	if err != nil {
		return nil, err
	}
	outcome.Account = account

	ownAccounts, err := i.accounts.ListAccountsByUser(ctx, stmt.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	var accountID *string
	if account != nil {
		id := account.AccountID
		accountID = &id
	}

	for idx, txn := range result.Transactions {
		if err := i.importOne(ctx, logger, stmt, accountID, ownAccounts, idx, txn, now, &outcome.Summary); err != nil {
			return nil, err
		}
	}

	if err := i.updateBalances(ctx, logger, stmt, result, account, now); err != nil {
		return nil, err
	}

	logger.Info("Statement rows imported",
		slog.Int("incomes", outcome.Summary.Incomes),
		slog.Int("expenses", outcome.Summary.Expenses),
		slog.Int("transfers", outcome.Summary.Transfers),
		slog.Int("duplicates_removed", outcome.Summary.DuplicatesRemoved),
		slog.Int("skipped", outcome.Summary.Skipped),
	)
	return outcome, nil
}

func (i *LedgerImporter) importOne(
	ctx context.Context,
	logger *slog.Logger,
	stmt *domain.Statement,
	accountID *string,
	ownAccounts []domain.Account,
	idx int,
	txn domain.ExtractedTransaction,
	now time.Time,
	summary *domain.ImportSummary,
) error {
	skip := func(reason string) {
		summary.Skipped++
		logger.Warn("Skipped transaction", slog.Int("index", idx), slog.String("reason", reason), slog.String("description", txn.Description))
	}

	if err := i.validate.Struct(importRow{Date: txn.Date, Description: strings.TrimSpace(txn.Description), Amount: txn.Amount}); err != nil {
		skip("missing required field")
		return nil
	}
	if txn.Amount.IsZero() {
		skip("zero amount")
		return nil
	}
	date, ok := extraction.ParseDate(txn.Date)
	if !ok {
		skip("unparsable date")
		return nil
	}

	entry := domain.LedgerEntry{
		UserID:      stmt.UserID,
		AccountID:   accountID,
		StatementID: stmt.StatementID,
		Amount:      txn.Amount.Abs(),
		Date:        date,
		Description: truncate(strings.TrimSpace(txn.Description), maxDescriptionLen),
		ReferenceNo: truncate(strings.TrimSpace(txn.Reference), maxReferenceLen),
		AuditFields: domain.NewAuditFields(stmt.UserID, now),
	}

	transfer := i.classifier.TransferType(txn.Description, txn.TransferType, ownAccounts)
	if transfer != nil && *transfer == domain.IntraPerson {
		entry.ID = uuid.NewString()
		entry.Category = txn.Category
		if entry.Category == "" || entry.Category == classification.DefaultCategory {
			entry.Category = classification.TransferCategory
		}
		entry.Category = truncate(entry.Category, maxCategoryLen)
		direction := domain.TransferIn
		if txn.Amount.IsNegative() {
			direction = domain.TransferOut
		}
		if err := i.ledger.SaveTransfer(ctx, domain.Transfer{LedgerEntry: entry, TransferType: domain.IntraPerson, Direction: direction}); err != nil {
			return fmt.Errorf("failed to save transfer: %w", err)
		}
		summary.Transfers++
		summary.NeutralizedTransfers++
		logger.Info("Neutralized own-account transfer", slog.String("description", entry.Description), slog.String("amount", entry.Amount.String()))
		return nil
	}

	if !txn.SignAgrees() {
		skip(fmt.Sprintf("type %q disagrees with amount sign", txn.Type))
		return nil
	}

	kind := domain.KindExpense
	if txn.Type == domain.Credit {
		kind = domain.KindIncome
	}
	removed, err := i.duplicates.FindAndRemove(ctx, DuplicateCandidate{
		Kind:        kind,
		UserID:      stmt.UserID,
		StatementID: stmt.StatementID,
		AccountID:   accountID,
		Amount:      entry.Amount,
		Date:        date,
		Description: entry.Description,
		ReferenceNo: entry.ReferenceNo,
	})
	if err != nil {
		return err
	}
	if removed {
		summary.DuplicatesRemoved++
	}

	entry.ID = uuid.NewString()
	if kind == domain.KindIncome {
		entry.Category = txn.Category
		if entry.Category == "" {
			entry.Category = i.classifier.IncomeCategory(txn.Description)
		}
		entry.Category = truncate(entry.Category, maxCategoryLen)
		if err := i.ledger.SaveIncome(ctx, domain.Income{LedgerEntry: entry, Payer: truncate(txn.Counterparty, maxPartyLen)}); err != nil {
			return fmt.Errorf("failed to save income: %w", err)
		}
		summary.Incomes++
		return nil
	}

	entry.Category = txn.Category
	if entry.Category == "" {
		entry.Category = i.classifier.Category(txn.Description)
	}
	entry.Category = truncate(entry.Category, maxCategoryLen)
	expenseType := i.classifier.ExpenseType(entry.Category, entry.Description, &entry.Amount)
	if expenseType == nil {
		// Transfer vocabulary that is not an own-account move is still spending.
		needs := domain.Needs
		expenseType = &needs
	}
	if err := i.ledger.SaveExpense(ctx, domain.Expense{
		LedgerEntry: entry,
		ExpenseType: expenseType,
		Seller:      truncate(txn.Counterparty, maxPartyLen),
		Location:    truncate(txn.Location, maxPartyLen),
	}); err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	summary.Expenses++
	return nil
}

// resolveAccount finds the statement's account by number or creates it. A
// statement without an account number is imported without an account.
func (i *LedgerImporter) resolveAccount(ctx context.Context, stmt *domain.Statement, result *domain.ExtractionResult, now time.Time) (*domain.Account, error) {
	info := result.AccountInfo
	if info == nil || strings.TrimSpace(info.AccountNumber) == "" {
		i.LogWarn(ctx, "Statement has no account number, rows are not attached to an account", slog.String("statement_id", stmt.StatementID))
		return nil, nil
	}
	accountNo := strings.TrimSpace(info.AccountNumber)

	existing, err := i.accounts.FindAccountByNumber(ctx, stmt.UserID, accountNo)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account %s: %w", accountNo, err)
	}

	printedType := info.AccountType
	if printedType == "" {
		printedType = classification.DefaultAccountType(stmt.StatementType)
	}
	accountType, subtype := classification.MapAccountType(printedType)
	if stmt.StatementType == domain.StatementTypeCreditCard {
		accountType = domain.AccountCredit
	}
	name := strings.TrimSpace(info.AccountName)
	if name == "" {
		label := printedType
		if label == "" {
			label = string(accountType)
		}
		name = fmt.Sprintf("%s Account", label)
	}

	account := domain.Account{
		AccountID:      uuid.NewString(),
		UserID:         stmt.UserID,
		AccountNo:      accountNo,
		AccountName:    name,
		AccountType:    accountType,
		AccountSubtype: subtype,
		Balance:        decimal.Zero,
		AuditFields:    domain.NewAuditFields(stmt.UserID, now),
	}

	if accountType == domain.AccountCredit {
		card := domain.UserCreditCard{
			CardID:         uuid.NewString(),
			UserID:         stmt.UserID,
			CardName:       name,
			CardBrand:      classification.CardBrand(info.CardBrand, name, printedType),
			CurrentBalance: decimal.Zero,
			AuditFields:    domain.NewAuditFields(stmt.UserID, now),
		}
		if result.CreditCardSummary != nil && result.CreditCardSummary.CreditLimit != nil {
			limit := result.CreditCardSummary.CreditLimit.Abs()
			card.CreditLimit = &limit
		}
		if err := i.cards.SaveCreditCard(ctx, card); err != nil {
			return nil, fmt.Errorf("failed to create credit card for account %s: %w", accountNo, err)
		}
		account.CardID = &card.CardID
	}

	if err := i.accounts.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", accountNo, err)
	}
	i.LogInfo(ctx, "Created account from statement",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(account.AccountType)),
		slog.String("account_subtype", account.AccountSubtype),
	)
	return &account, nil
}

func (i *LedgerImporter) updateBalances(ctx context.Context, logger *slog.Logger, stmt *domain.Statement, result *domain.ExtractionResult, account *domain.Account, now time.Time) error {
	if account == nil || result.ClosingBalance == nil {
		return nil
	}
	closing := result.ClosingBalance.Abs()

	if err := i.accounts.UpdateAccountBalance(ctx, account.AccountID, closing, stmt.UserID, now); err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	account.Balance = closing

	if stmt.PeriodEnd != nil {
		err := i.snapshots.UpsertSnapshot(ctx, domain.AccountBalanceSnapshot{
			SnapshotID:     uuid.NewString(),
			AccountID:      account.AccountID,
			StatementID:    stmt.StatementID,
			SnapshotDate:   *stmt.PeriodEnd,
			ClosingBalance: closing,
			AuditFields:    domain.NewAuditFields(stmt.UserID, now),
		})
		if err != nil {
			return fmt.Errorf("failed to upsert balance snapshot: %w", err)
		}
	}

	if account.CardID == nil {
		return nil
	}
	card, err := i.cards.FindCreditCardByID(ctx, stmt.UserID, *account.CardID)
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Linked credit card not found", slog.String("card_id", *account.CardID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load credit card %s: %w", *account.CardID, err)
	}

	applyCardTerms(card, result, closing)
	card.LastUpdatedAt = now
	card.LastUpdatedBy = stmt.UserID
	if err := i.cards.UpdateCreditCardBalance(ctx, *card); err != nil {
		return fmt.Errorf("failed to update credit card %s: %w", card.CardID, err)
	}
	logger.Info("Updated credit card from statement", slog.String("card_id", card.CardID), slog.String("current_balance", card.CurrentBalance.String()))
	return nil
}

// applyCardTerms copies the statement figures onto card. The minimum payment is
// the next payment amount; without one the total due (or outstanding) is used.
func applyCardTerms(card *domain.UserCreditCard, result *domain.ExtractionResult, closing decimal.Decimal) {
	card.CurrentBalance = closing

	var nextAmount *decimal.Decimal
	if terms := result.CreditCardTerms; terms != nil {
		if due, ok := extraction.ParseDate(terms.PaymentDueDate); ok {
			card.NextPaymentDate = &due
		}
		if terms.MinimumPayment != nil && !terms.MinimumPayment.IsZero() {
			v := terms.MinimumPayment.Abs()
			nextAmount = &v
		}
	}
	if summary := result.CreditCardSummary; summary != nil {
		if nextAmount == nil {
			for _, candidate := range []*decimal.Decimal{summary.TotalAmountDue, summary.OutstandingBalance} {
				if candidate != nil && !candidate.IsZero() {
					v := candidate.Abs()
					nextAmount = &v
					break
				}
			}
		}
		if summary.CreditLimit != nil {
			limit := summary.CreditLimit.Abs()
			card.CreditLimit = &limit
		}
	}
	if nextAmount != nil {
		card.NextPaymentAmount = nextAmount
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
