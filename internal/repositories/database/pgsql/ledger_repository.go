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

// ledgerTables maps each kind to its table. Table names are never taken from input.
var ledgerTables = map[domain.LedgerKind]string{
	domain.KindIncome:   "incomes",
	domain.KindExpense:  "expenses",
	domain.KindTransfer: "transfers",
}

const ledgerColumns = `id, user_id, account_id, statement_id, amount, txn_date, description, category, reference_no,
	is_deleted, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(base BaseRepository) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: base}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func tableFor(kind domain.LedgerKind) (string, error) {
	table, ok := ledgerTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown ledger kind %q", apperrors.ErrValidation, kind)
	}
	return table, nil
}

func ledgerArgs(m models.LedgerEntry) []any {
	return []any{
		m.ID,
		m.UserID,
		m.AccountID,
		m.StatementID,
		m.Amount,
		m.TxnDate,
		m.Description,
		m.Category,
		m.ReferenceNo,
		m.IsDeleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func (r *PgxLedgerRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.AccountID,
			&m.StatementID,
			&m.Amount,
			&m.TxnDate,
			&m.Description,
			&m.Category,
			&m.ReferenceNo,
			&m.IsDeleted,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return entries, nil
}

func (r *PgxLedgerRepository) FindActiveByReference(ctx context.Context, kind domain.LedgerKind, userID string, referenceNo string, excludeStatementID string) ([]domain.LedgerEntry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + ledgerColumns + ` FROM ` + table + `
		WHERE user_id = $1 AND reference_no = $2 AND statement_id <> $3 AND is_deleted = FALSE
		ORDER BY txn_date, created_at;
	`
	return r.queryEntries(ctx, query, userID, referenceNo, excludeStatementID)
}

func (r *PgxLedgerRepository) FindActiveByAmountAndDateRange(ctx context.Context, kind domain.LedgerKind, userID string, amount decimal.Decimal, from, to time.Time, excludeStatementID string) ([]domain.LedgerEntry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + ledgerColumns + ` FROM ` + table + `
		WHERE user_id = $1 AND amount = $2 AND txn_date BETWEEN $3 AND $4
		  AND statement_id <> $5 AND is_deleted = FALSE
		ORDER BY txn_date, created_at;
	`
	return r.queryEntries(ctx, query, userID, amount, from, to, excludeStatementID)
}

func (r *PgxLedgerRepository) CountActiveByStatement(ctx context.Context, userID string, statementID string) (domain.LedgerCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM incomes WHERE user_id = $1 AND statement_id = $2 AND is_deleted = FALSE),
			(SELECT COUNT(*) FROM expenses WHERE user_id = $1 AND statement_id = $2 AND is_deleted = FALSE),
			(SELECT COUNT(*) FROM transfers WHERE user_id = $1 AND statement_id = $2 AND is_deleted = FALSE);
	`
	var counts domain.LedgerCounts
	err := r.db(ctx).QueryRow(ctx, query, userID, statementID).Scan(&counts.Incomes, &counts.Expenses, &counts.Transfers)
	if err != nil {
		return domain.LedgerCounts{}, fmt.Errorf("failed to count ledger rows of statement %s: %w", statementID, err)
	}
	return counts, nil
}

func (r *PgxLedgerRepository) SumActiveByStatement(ctx context.Context, userID string, statementID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(amount) FROM incomes WHERE user_id = $1 AND statement_id = $2 AND is_deleted = FALSE), 0),
			COALESCE((SELECT SUM(amount) FROM expenses WHERE user_id = $1 AND statement_id = $2 AND is_deleted = FALSE), 0);
	`
	var income, expense decimal.Decimal
	if err := r.db(ctx).QueryRow(ctx, query, userID, statementID).Scan(&income, &expense); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum ledger rows of statement %s: %w", statementID, err)
	}
	return income, expense, nil
}

func (r *PgxLedgerRepository) SaveIncome(ctx context.Context, income domain.Income) error {
	m := mapping.ToModelIncome(income)
	query := `
		INSERT INTO incomes (` + ledgerColumns + `, payer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	if _, err := r.db(ctx).Exec(ctx, query, append(ledgerArgs(m.LedgerEntry), m.Payer)...); err != nil {
		return mapWriteError(err, "income "+m.ID)
	}
	return nil
}

func (r *PgxLedgerRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (` + ledgerColumns + `, expense_type, seller, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	args := append(ledgerArgs(m.LedgerEntry), m.ExpenseType, m.Seller, m.Location)
	if _, err := r.db(ctx).Exec(ctx, query, args...); err != nil {
		return mapWriteError(err, "expense "+m.ID)
	}
	return nil
}

func (r *PgxLedgerRepository) SaveTransfer(ctx context.Context, transfer domain.Transfer) error {
	m := mapping.ToModelTransfer(transfer)
	query := `
		INSERT INTO transfers (` + ledgerColumns + `, transfer_type, direction)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	args := append(ledgerArgs(m.LedgerEntry), m.TransferType, m.Direction)
	if _, err := r.db(ctx).Exec(ctx, query, args...); err != nil {
		return mapWriteError(err, "transfer "+m.ID)
	}
	return nil
}

func (r *PgxLedgerRepository) SoftDeleteEntry(ctx context.Context, kind domain.LedgerKind, id string, userID string, now time.Time) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	query := `
		UPDATE ` + table + `
		SET is_deleted = TRUE, last_updated_at = $3, last_updated_by = $2
		WHERE id = $1 AND user_id = $2 AND is_deleted = FALSE;
	`
	tag, err := r.db(ctx).Exec(ctx, query, id, userID, now)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
	}
	return nil
}

// SoftDeleteByStatement tombstones the three tables in one batch.
func (r *PgxLedgerRepository) SoftDeleteByStatement(ctx context.Context, userID string, statementID string, now time.Time) (domain.LedgerCounts, error) {
	batch := &pgx.Batch{}
	for _, kind := range []domain.LedgerKind{domain.KindIncome, domain.KindExpense, domain.KindTransfer} {
		batch.Queue(`
			UPDATE `+ledgerTables[kind]+`
			SET is_deleted = TRUE, last_updated_at = $3, last_updated_by = $1
			WHERE user_id = $1 AND statement_id = $2 AND is_deleted = FALSE;
		`, userID, statementID, now)
	}

	results, err := r.sendBatch(ctx, batch)
	if err != nil {
		return domain.LedgerCounts{}, fmt.Errorf("failed to void ledger rows of statement %s: %w", statementID, err)
	}
	return domain.LedgerCounts{Incomes: results[0], Expenses: results[1], Transfers: results[2]}, nil
}

func (r *PgxLedgerRepository) sendBatch(ctx context.Context, batch *pgx.Batch) ([]int, error) {
	var br pgx.BatchResults
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		br = tx.SendBatch(ctx, batch)
	} else {
		br = r.Pool.SendBatch(ctx, batch)
	}
	defer br.Close()

	affected := make([]int, 0, batch.Len())
	for range batch.Len() {
		tag, err := br.Exec()
		if err != nil {
			return nil, err
		}
		affected = append(affected, int(tag.RowsAffected()))
	}
	return affected, nil
}
