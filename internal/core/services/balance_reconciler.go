package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	"github.com/SscSPs/mma_statements/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// BalanceReconciler compares a statement's declared balances with the incomes and
// expenses actually persisted for it. A mismatch is reported, never raised.
type BalanceReconciler struct {
	BaseService
	ledger    portsrepo.LedgerReader
	tolerance decimal.Decimal
}

// NewBalanceReconciler creates a reconciler. A non-positive tolerance uses accounting.DefaultTolerance.
func NewBalanceReconciler(ledger portsrepo.LedgerReader, tolerance decimal.Decimal) *BalanceReconciler {
	if !tolerance.IsPositive() {
		tolerance = accounting.DefaultTolerance
	}
	return &BalanceReconciler{ledger: ledger, tolerance: tolerance}
}

// Reconcile returns nil when the cached extraction lacks an opening or closing balance.
func (r *BalanceReconciler) Reconcile(ctx context.Context, stmt *domain.Statement) (*domain.ReconciliationReport, error) {
	if stmt.ExtractedData == nil || stmt.ExtractedData.OpeningBalance == nil || stmt.ExtractedData.ClosingBalance == nil {
		r.LogInfo(ctx, "Skipping reconciliation, balances not available", slog.String("statement_id", stmt.StatementID))
		return nil, nil
	}

	income, expense, err := r.ledger.SumActiveByStatement(ctx, stmt.UserID, stmt.StatementID)
	if err != nil {
		return nil, fmt.Errorf("failed to total rows of statement %s: %w", stmt.StatementID, err)
	}

	report := accounting.ReconcileBalances(*stmt.ExtractedData.OpeningBalance, *stmt.ExtractedData.ClosingBalance, income, expense, r.tolerance)
	attrs := []any{
		slog.String("statement_id", stmt.StatementID),
		slog.String("opening", report.ExtractedOpening.String()),
		slog.String("closing", report.ExtractedClosing.String()),
		slog.String("calculated_closing", report.CalculatedClosing.String()),
		slog.String("total_income", report.TotalIncome.String()),
		slog.String("total_expenses", report.TotalExpenses.String()),
		slog.String("difference", report.Difference.String()),
	}
	if report.Matches {
		r.LogInfo(ctx, "Balance reconciliation matched", attrs...)
	} else {
		r.LogWarn(ctx, "Balance reconciliation mismatch", attrs...)
	}
	return &report, nil
}
