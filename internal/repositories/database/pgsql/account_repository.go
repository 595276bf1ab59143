package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	"github.com/SscSPs/mma_statements/internal/models"
	"github.com/SscSPs/mma_statements/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, user_id, account_no, account_name, account_type, account_subtype, account_balance,
	card_id, is_deleted, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(base BaseRepository) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: base}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.AccountNo,
		&m.AccountName,
		&m.AccountType,
		&m.AccountSubtype,
		&m.Balance,
		&m.CardID,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.AccountNo,
		m.AccountName,
		m.AccountType,
		m.AccountSubtype,
		m.Balance,
		m.CardID,
		m.IsDeleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "account "+m.AccountNo)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND user_id = $2 AND is_deleted = FALSE;`
	acc, err := scanAccount(r.db(ctx).QueryRow(ctx, query, accountID, userID))
	if err != nil {
		return nil, mapReadError(err, "account "+accountID)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, userID string, accountNo string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND account_no = $2 AND is_deleted = FALSE;`
	acc, err := scanAccount(r.db(ctx).QueryRow(ctx, query, userID, accountNo))
	if err != nil {
		return nil, mapReadError(err, "account number "+accountNo)
	}
	return &acc, nil
}

func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND is_deleted = FALSE ORDER BY created_at;`
	rows, err := r.db(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET account_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND is_deleted = FALSE;
	`
	tag, err := r.db(ctx).Exec(ctx, query, accountID, balance, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

type PgxSnapshotRepository struct {
	BaseRepository
}

func newPgxSnapshotRepository(base BaseRepository) *PgxSnapshotRepository {
	return &PgxSnapshotRepository{BaseRepository: base}
}

var _ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)

func (r *PgxSnapshotRepository) UpsertSnapshot(ctx context.Context, snapshot domain.AccountBalanceSnapshot) error {
	m := mapping.ToModelSnapshot(snapshot)
	query := `
		INSERT INTO account_balance_snapshots (snapshot_id, account_id, statement_id, snapshot_date, closing_balance,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (account_id, snapshot_date) DO UPDATE
		SET closing_balance = EXCLUDED.closing_balance,
		    statement_id = EXCLUDED.statement_id,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.SnapshotID,
		m.AccountID,
		m.StatementID,
		m.SnapshotDate,
		m.ClosingBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot for account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *PgxSnapshotRepository) ListSnapshotsByAccount(ctx context.Context, accountID string) ([]domain.AccountBalanceSnapshot, error) {
	query := `
		SELECT snapshot_id, account_id, statement_id, snapshot_date, closing_balance,
			created_at, created_by, last_updated_at, last_updated_by
		FROM account_balance_snapshots
		WHERE account_id = $1
		ORDER BY snapshot_date;
	`
	rows, err := r.db(ctx).Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for account %s: %w", accountID, err)
	}
	defer rows.Close()

	snapshots := []domain.AccountBalanceSnapshot{}
	for rows.Next() {
		var m models.AccountBalanceSnapshot
		if err := rows.Scan(
			&m.SnapshotID,
			&m.AccountID,
			&m.StatementID,
			&m.SnapshotDate,
			&m.ClosingBalance,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, mapping.ToDomainSnapshot(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return snapshots, nil
}

type PgxCreditCardRepository struct {
	BaseRepository
}

func newPgxCreditCardRepository(base BaseRepository) *PgxCreditCardRepository {
	return &PgxCreditCardRepository{BaseRepository: base}
}

var _ portsrepo.CreditCardRepositoryFacade = (*PgxCreditCardRepository)(nil)

func (r *PgxCreditCardRepository) SaveCreditCard(ctx context.Context, card domain.UserCreditCard) error {
	m := mapping.ToModelCreditCard(card)
	query := `
		INSERT INTO user_credit_cards (card_id, user_id, card_name, card_brand, credit_limit, current_balance,
			next_payment_amount, next_payment_date, is_deleted, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.CardID,
		m.UserID,
		m.CardName,
		m.CardBrand,
		m.CreditLimit,
		m.CurrentBalance,
		m.NextPaymentAmount,
		m.NextPaymentDate,
		m.IsDeleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "credit card "+m.CardID)
	}
	return nil
}

func (r *PgxCreditCardRepository) FindCreditCardByID(ctx context.Context, userID string, cardID string) (*domain.UserCreditCard, error) {
	query := `
		SELECT card_id, user_id, card_name, card_brand, credit_limit, current_balance,
			next_payment_amount, next_payment_date, is_deleted, created_at, created_by, last_updated_at, last_updated_by
		FROM user_credit_cards
		WHERE card_id = $1 AND user_id = $2 AND is_deleted = FALSE;
	`
	var m models.UserCreditCard
	err := r.db(ctx).QueryRow(ctx, query, cardID, userID).Scan(
		&m.CardID,
		&m.UserID,
		&m.CardName,
		&m.CardBrand,
		&m.CreditLimit,
		&m.CurrentBalance,
		&m.NextPaymentAmount,
		&m.NextPaymentDate,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapReadError(err, "credit card "+cardID)
	}
	card := mapping.ToDomainCreditCard(m)
	return &card, nil
}

func (r *PgxCreditCardRepository) UpdateCreditCardBalance(ctx context.Context, card domain.UserCreditCard) error {
	m := mapping.ToModelCreditCard(card)
	query := `
		UPDATE user_credit_cards
		SET current_balance = $2, credit_limit = $3, next_payment_amount = $4, next_payment_date = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE card_id = $1 AND is_deleted = FALSE;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.CardID,
		m.CurrentBalance,
		m.CreditLimit,
		m.NextPaymentAmount,
		m.NextPaymentDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update credit card %s: %w", m.CardID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: credit card %s", apperrors.ErrNotFound, m.CardID)
	}
	return nil
}
