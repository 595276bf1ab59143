package extraction

import (
	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BuildCreditCardSummary normalizes card terms, falling back to the statement
// closing balance where the terms are silent:
//
//	current_balance    = current_balance, else closing
//	outstanding        = outstanding_balance, else total_amount_due, else current, else closing
//	available_credit   = available_credit, else max(limit - current, 0)
//	total_amount_due   = total_amount_due, else outstanding
func BuildCreditCardSummary(terms *domain.CreditCardTerms, closing *decimal.Decimal) *domain.CreditCardSummary {
	if terms == nil {
		return nil
	}
	s := &domain.CreditCardSummary{
		CreditLimit:     copyDec(terms.CreditLimit),
		AvailableCredit: copyDec(terms.AvailableCredit),
		CurrentBalance:  copyDec(terms.CurrentBalance),
		MinimumPayment:  copyDec(terms.MinimumPayment),
	}
	if s.CurrentBalance == nil {
		s.CurrentBalance = copyDec(closing)
	}
	s.OutstandingBalance = firstNonZero(terms.OutstandingBalance, terms.TotalAmountDue, s.CurrentBalance, closing)

	if s.AvailableCredit == nil && s.CreditLimit != nil && s.CurrentBalance != nil {
		avail := decimal.Max(s.CreditLimit.Sub(*s.CurrentBalance), decimal.Zero)
		s.AvailableCredit = &avail
	}
	s.TotalAmountDue = firstNonZero(terms.TotalAmountDue, s.OutstandingBalance)
	return s
}

// firstNonZero returns a copy of the first candidate that is present and non-zero.
// When every present candidate is zero, the last present one is returned.
func firstNonZero(candidates ...*decimal.Decimal) *decimal.Decimal {
	var last *decimal.Decimal
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if !c.IsZero() {
			return copyDec(c)
		}
		last = c
	}
	return copyDec(last)
}

func copyDec(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
