// Package memory implements the repository ports in process memory. It backs
// STORAGE_DRIVER=memory and the pipeline tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
)

type txKey struct{}

// Store holds every table. A transaction holds the write lock for its whole
// duration and restores a snapshot when it fails.
type Store struct {
	mu sync.RWMutex

	statements map[string]domain.Statement
	accounts   map[string]domain.Account
	snapshots  map[string]domain.AccountBalanceSnapshot
	cards      map[string]domain.UserCreditCard
	incomes    map[string]domain.Income
	expenses   map[string]domain.Expense
	transfers  map[string]domain.Transfer
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		statements: map[string]domain.Statement{},
		accounts:   map[string]domain.Account{},
		snapshots:  map[string]domain.AccountBalanceSnapshot{},
		cards:      map[string]domain.UserCreditCard{},
		incomes:    map[string]domain.Income{},
		expenses:   map[string]domain.Expense{},
		transfers:  map[string]domain.Transfer{},
	}
}

// NewRepositoryProvider wires every repository to one store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		StatementRepo:  &StatementRepository{store: store},
		AccountRepo:    &AccountRepository{store: store},
		SnapshotRepo:   &SnapshotRepository{store: store},
		CreditCardRepo: &CreditCardRepository{store: store},
		LedgerRepo:     &LedgerRepository{store: store},
		TxManager:      store,
	}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// WithinTx implements portsrepo.TransactionManager.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(saved)
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// read and write return the unlock func; inside a transaction the lock is already held.
func (s *Store) read(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type storeSnapshot struct {
	statements map[string]domain.Statement
	accounts   map[string]domain.Account
	snapshots  map[string]domain.AccountBalanceSnapshot
	cards      map[string]domain.UserCreditCard
	incomes    map[string]domain.Income
	expenses   map[string]domain.Expense
	transfers  map[string]domain.Transfer
}

// Rows are stored by value and replaced on update, so shallow map copies suffice.
func (s *Store) snapshot() storeSnapshot {
	return storeSnapshot{
		statements: maps.Clone(s.statements),
		accounts:   maps.Clone(s.accounts),
		snapshots:  maps.Clone(s.snapshots),
		cards:      maps.Clone(s.cards),
		incomes:    maps.Clone(s.incomes),
		expenses:   maps.Clone(s.expenses),
		transfers:  maps.Clone(s.transfers),
	}
}

func (s *Store) restore(saved storeSnapshot) {
	s.statements = saved.statements
	s.accounts = saved.accounts
	s.snapshots = saved.snapshots
	s.cards = saved.cards
	s.incomes = saved.incomes
	s.expenses = saved.expenses
	s.transfers = saved.transfers
}
