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

// AccountRepository implements portsrepo.AccountRepositoryFacade.
type AccountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	defer r.store.write(ctx)()

	if _, ok := r.store.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	if account.AccountNo != "" {
		for _, a := range r.store.accounts {
			if !a.IsDeleted && a.UserID == account.UserID && a.AccountNo == account.AccountNo {
				return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, account.AccountNo)
			}
		}
	}
	r.store.accounts[account.AccountID] = account
	return nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	defer r.store.read(ctx)()

	a, ok := r.store.accounts[accountID]
	if !ok || a.IsDeleted || a.UserID != userID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &a, nil
}

func (r *AccountRepository) FindAccountByNumber(ctx context.Context, userID string, accountNo string) (*domain.Account, error) {
	defer r.store.read(ctx)()

	for _, a := range r.store.accounts {
		if !a.IsDeleted && a.UserID == userID && a.AccountNo == accountNo {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: account number %s", apperrors.ErrNotFound, accountNo)
}

func (r *AccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	defer r.store.read(ctx)()

	var out []domain.Account
	for _, a := range r.store.accounts {
		if !a.IsDeleted && a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *AccountRepository) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	defer r.store.write(ctx)()

	a, ok := r.store.accounts[accountID]
	if !ok || a.IsDeleted {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	a.Balance = balance
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
	r.store.accounts[accountID] = a
	return nil
}

// SnapshotRepository implements portsrepo.SnapshotRepositoryFacade.
type SnapshotRepository struct {
	store *Store
}

var _ portsrepo.SnapshotRepositoryFacade = (*SnapshotRepository)(nil)

func (r *SnapshotRepository) UpsertSnapshot(ctx context.Context, snapshot domain.AccountBalanceSnapshot) error {
	defer r.store.write(ctx)()

	for id, existing := range r.store.snapshots {
		if existing.AccountID == snapshot.AccountID && existing.SnapshotDate.Equal(snapshot.SnapshotDate) {
			existing.ClosingBalance = snapshot.ClosingBalance
			existing.StatementID = snapshot.StatementID
			existing.LastUpdatedAt = snapshot.LastUpdatedAt
			existing.LastUpdatedBy = snapshot.LastUpdatedBy
			r.store.snapshots[id] = existing
			return nil
		}
	}
	r.store.snapshots[snapshot.SnapshotID] = snapshot
	return nil
}

func (r *SnapshotRepository) ListSnapshotsByAccount(ctx context.Context, accountID string) ([]domain.AccountBalanceSnapshot, error) {
	defer r.store.read(ctx)()

	var out []domain.AccountBalanceSnapshot
	for _, s := range r.store.snapshots {
		if s.AccountID == accountID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SnapshotDate.Before(out[j].SnapshotDate) })
	return out, nil
}

// CreditCardRepository implements portsrepo.CreditCardRepositoryFacade.
type CreditCardRepository struct {
	store *Store
}

var _ portsrepo.CreditCardRepositoryFacade = (*CreditCardRepository)(nil)

func (r *CreditCardRepository) SaveCreditCard(ctx context.Context, card domain.UserCreditCard) error {
	defer r.store.write(ctx)()

	if _, ok := r.store.cards[card.CardID]; ok {
		return fmt.Errorf("%w: credit card %s", apperrors.ErrDuplicate, card.CardID)
	}
	r.store.cards[card.CardID] = card
	return nil
}

func (r *CreditCardRepository) FindCreditCardByID(ctx context.Context, userID string, cardID string) (*domain.UserCreditCard, error) {
	defer r.store.read(ctx)()

	c, ok := r.store.cards[cardID]
	if !ok || c.IsDeleted || c.UserID != userID {
		return nil, fmt.Errorf("%w: credit card %s", apperrors.ErrNotFound, cardID)
	}
	return &c, nil
}

func (r *CreditCardRepository) UpdateCreditCardBalance(ctx context.Context, card domain.UserCreditCard) error {
	defer r.store.write(ctx)()

	c, ok := r.store.cards[card.CardID]
	if !ok || c.IsDeleted {
		return fmt.Errorf("%w: credit card %s", apperrors.ErrNotFound, card.CardID)
	}
	c.CurrentBalance = card.CurrentBalance
	c.CreditLimit = card.CreditLimit
	c.NextPaymentAmount = card.NextPaymentAmount
	c.NextPaymentDate = card.NextPaymentDate
	c.LastUpdatedAt = card.LastUpdatedAt
	c.LastUpdatedBy = card.LastUpdatedBy
	r.store.cards[card.CardID] = c
	return nil
}
