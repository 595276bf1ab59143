package accounting

import (
	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultTolerance is the largest absolute difference still considered a match.
var DefaultTolerance = decimal.RequireFromString("0.01")

// reportPrecision is the number of decimals every reported figure is rounded to.
const reportPrecision = 2

// CalculateClosingBalance returns opening + income - expense.
func CalculateClosingBalance(opening, income, expense decimal.Decimal) decimal.Decimal {
	return opening.Add(income).Sub(expense)
}

// ReconcileBalances builds a report comparing the declared closing balance with
// the one implied by the posted totals. Difference is closing - calculated.
func ReconcileBalances(opening, closing, income, expense, tolerance decimal.Decimal) domain.ReconciliationReport {
	calculated := CalculateClosingBalance(opening, income, expense)
	diff := closing.Sub(calculated)
	return domain.ReconciliationReport{
		ExtractedOpening:  opening.Round(reportPrecision),
		ExtractedClosing:  closing.Round(reportPrecision),
		CalculatedClosing: calculated.Round(reportPrecision),
		TotalIncome:       income.Round(reportPrecision),
		TotalExpenses:     expense.Round(reportPrecision),
		Difference:        diff.Round(reportPrecision),
		Matches:           diff.Abs().LessThanOrEqual(tolerance),
	}
}
