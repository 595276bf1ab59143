package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// LedgerRepository implements portsrepo.LedgerRepositoryFacade over the
// incomes, expenses and transfers tables.
type LedgerRepository struct {
	store *Store
}

var _ portsrepo.LedgerRepositoryFacade = (*LedgerRepository)(nil)

func (r *LedgerRepository) SaveIncome(ctx context.Context, income domain.Income) error {
	defer r.store.write(ctx)()
	if _, ok := r.store.incomes[income.ID]; ok {
		return fmt.Errorf("%w: income %s", apperrors.ErrDuplicate, income.ID)
	}
	r.store.incomes[income.ID] = income
	return nil
}

func (r *LedgerRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	defer r.store.write(ctx)()
	if _, ok := r.store.expenses[expense.ID]; ok {
		return fmt.Errorf("%w: expense %s", apperrors.ErrDuplicate, expense.ID)
	}
	r.store.expenses[expense.ID] = expense
	return nil
}

func (r *LedgerRepository) SaveTransfer(ctx context.Context, transfer domain.Transfer) error {
	defer r.store.write(ctx)()
	if _, ok := r.store.transfers[transfer.ID]; ok {
		return fmt.Errorf("%w: transfer %s", apperrors.ErrDuplicate, transfer.ID)
	}
	r.store.transfers[transfer.ID] = transfer
	return nil
}

// entries returns copies of the shared columns of every row of kind.
func (r *LedgerRepository) entries(kind domain.LedgerKind) []domain.LedgerEntry {
	var out []domain.LedgerEntry
	switch kind {
	case domain.KindIncome:
		for _, e := range r.store.incomes {
			out = append(out, e.LedgerEntry)
		}
	case domain.KindExpense:
		for _, e := range r.store.expenses {
			out = append(out, e.LedgerEntry)
		}
	case domain.KindTransfer:
		for _, e := range r.store.transfers {
			out = append(out, e.LedgerEntry)
		}
	}
	return out
}

func (r *LedgerRepository) FindActiveByReference(ctx context.Context, kind domain.LedgerKind, userID string, referenceNo string, excludeStatementID string) ([]domain.LedgerEntry, error) {
	defer r.store.read(ctx)()

	var out []domain.LedgerEntry
	for _, e := range r.entries(kind) {
		if e.IsDeleted || e.UserID != userID || e.StatementID == excludeStatementID {
			continue
		}
		if e.ReferenceNo != "" && e.ReferenceNo == referenceNo {
			out = append(out, e)
		}
	}
	sortOldestFirst(out)
	return out, nil
}

func (r *LedgerRepository) FindActiveByAmountAndDateRange(ctx context.Context, kind domain.LedgerKind, userID string, amount decimal.Decimal, from, to time.Time, excludeStatementID string) ([]domain.LedgerEntry, error) {
	defer r.store.read(ctx)()

	var out []domain.LedgerEntry
	for _, e := range r.entries(kind) {
		if e.IsDeleted || e.UserID != userID || e.StatementID == excludeStatementID {
			continue
		}
		if !e.Amount.Equal(amount) || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	sortOldestFirst(out)
	return out, nil
}

func sortOldestFirst(entries []domain.LedgerEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

func (r *LedgerRepository) CountActiveByStatement(ctx context.Context, userID string, statementID string) (domain.LedgerCounts, error) {
	defer r.store.read(ctx)()

	count := func(kind domain.LedgerKind) int {
		n := 0
		for _, e := range r.entries(kind) {
			if !e.IsDeleted && e.UserID == userID && e.StatementID == statementID {
				n++
			}
		}
		return n
	}
	return domain.LedgerCounts{
		Incomes:   count(domain.KindIncome),
		Expenses:  count(domain.KindExpense),
		Transfers: count(domain.KindTransfer),
	}, nil
}

func (r *LedgerRepository) SumActiveByStatement(ctx context.Context, userID string, statementID string) (decimal.Decimal, decimal.Decimal, error) {
	defer r.store.read(ctx)()

	sum := func(kind domain.LedgerKind) decimal.Decimal {
		total := decimal.Zero
		for _, e := range r.entries(kind) {
			if !e.IsDeleted && e.UserID == userID && e.StatementID == statementID {
				total = total.Add(e.Amount)
			}
		}
		return total
	}
	return sum(domain.KindIncome), sum(domain.KindExpense), nil
}

func (r *LedgerRepository) SoftDeleteEntry(ctx context.Context, kind domain.LedgerKind, id string, userID string, now time.Time) error {
	defer r.store.write(ctx)()

	notFound := fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
	switch kind {
	case domain.KindIncome:
		e, ok := r.store.incomes[id]
		if !ok || e.IsDeleted || e.UserID != userID {
			return notFound
		}
		tombstone(&e.LedgerEntry, userID, now)
		r.store.incomes[id] = e
	case domain.KindExpense:
		e, ok := r.store.expenses[id]
		if !ok || e.IsDeleted || e.UserID != userID {
			return notFound
		}
		tombstone(&e.LedgerEntry, userID, now)
		r.store.expenses[id] = e
	case domain.KindTransfer:
		e, ok := r.store.transfers[id]
		if !ok || e.IsDeleted || e.UserID != userID {
			return notFound
		}
		tombstone(&e.LedgerEntry, userID, now)
		r.store.transfers[id] = e
	default:
		return fmt.Errorf("%w: unknown ledger kind %q", apperrors.ErrValidation, kind)
	}
	return nil
}

func (r *LedgerRepository) SoftDeleteByStatement(ctx context.Context, userID string, statementID string, now time.Time) (domain.LedgerCounts, error) {
	defer r.store.write(ctx)()

	var counts domain.LedgerCounts
	for id, e := range r.store.incomes {
		if !e.IsDeleted && e.UserID == userID && e.StatementID == statementID {
			tombstone(&e.LedgerEntry, userID, now)
			r.store.incomes[id] = e
			counts.Incomes++
		}
	}
	for id, e := range r.store.expenses {
		if !e.IsDeleted && e.UserID == userID && e.StatementID == statementID {
			tombstone(&e.LedgerEntry, userID, now)
			r.store.expenses[id] = e
			counts.Expenses++
		}
	}
	for id, e := range r.store.transfers {
		if !e.IsDeleted && e.UserID == userID && e.StatementID == statementID {
			tombstone(&e.LedgerEntry, userID, now)
			r.store.transfers[id] = e
			counts.Transfers++
		}
	}
	return counts, nil
}

func tombstone(e *domain.LedgerEntry, userID string, now time.Time) {
	e.IsDeleted = true
	e.LastUpdatedAt = now
	e.LastUpdatedBy = userID
}

// Expenses returns every expense row including soft-deleted ones, for inspection in tests.
func (r *LedgerRepository) Expenses() []domain.Expense {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Expense, 0, len(r.store.expenses))
	for _, e := range r.store.expenses {
		out = append(out, e)
	}
	return out
}

// Incomes returns every income row including soft-deleted ones.
func (r *LedgerRepository) Incomes() []domain.Income {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Income, 0, len(r.store.incomes))
	for _, e := range r.store.incomes {
		out = append(out, e)
	}
	return out
}

// Transfers returns every transfer row including soft-deleted ones.
func (r *LedgerRepository) Transfers() []domain.Transfer {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Transfer, 0, len(r.store.transfers))
	for _, e := range r.store.transfers {
		out = append(out, e)
	}
	return out
}
