package extraction

import (
	"fmt"
	"time"

	"github.com/SscSPs/mma_statements/internal/core/domain"
)

// Field precedence when merging pages, in document order:
//
//	statement_period.start_date  first page that declares it, else earliest transaction date
//	statement_period.end_date    first page that declares it, else latest transaction date
//	account_info                 first page that supplies it
//	user_info                    first page that supplies it
//	credit_card_terms            first page that supplies it
//	opening_balance              first non-nil value (zero is a value)
//	closing_balance              last non-nil value
//	transactions                 concatenated in page order, balance rows routed out first
//	facilities, applications     concatenated, de-duplicated by natural key, first wins

// Merge combines page extractions into one document-level result. Nil pages
// (pages whose extraction failed) are skipped; pageErrors are carried into Errors.
func Merge(pages []*domain.PageExtraction, pageErrors []string) *domain.ExtractionResult {
	res := &domain.ExtractionResult{
		Transactions: []domain.ExtractedTransaction{},
		PageCount:    len(pages),
		Errors:       append([]string{}, pageErrors...),
	}

	seenFacilities := map[string]bool{}
	seenApplications := map[string]bool{}

	for _, src := range pages {
		if src == nil {
			continue
		}
		page := *src
		RouteBalanceRows(&page)
		if page.StatementPeriod != nil {
			res.StatementPeriod.StartDate = firstWins(res.StatementPeriod.StartDate, page.StatementPeriod.StartDate)
			res.StatementPeriod.EndDate = firstWins(res.StatementPeriod.EndDate, page.StatementPeriod.EndDate)
		}
		res.AccountInfo = firstWins(res.AccountInfo, page.AccountInfo)
		res.UserInfo = firstWins(res.UserInfo, page.UserInfo)
		res.CreditCardTerms = firstWins(res.CreditCardTerms, page.CreditCardTerms)
		res.OpeningBalance = firstWins(res.OpeningBalance, page.OpeningBalance)
		res.ClosingBalance = lastWins(res.ClosingBalance, page.ClosingBalance)

		res.Transactions = append(res.Transactions, page.Transactions...)

		for _, f := range page.Facilities {
			key := f.FacilityNumber + "\x00" + f.BankName
			if seenFacilities[key] {
				continue
			}
			seenFacilities[key] = true
			res.Facilities = append(res.Facilities, f)
		}
		for _, a := range page.Applications {
			key := applicationKey(a)
			if seenApplications[key] {
				continue
			}
			seenApplications[key] = true
			res.Applications = append(res.Applications, a)
		}
	}

	fillPeriodFromTransactions(res)
	res.CreditCardSummary = BuildCreditCardSummary(res.CreditCardTerms, res.ClosingBalance)
	return res
}

func applicationKey(a domain.CreditApplication) string {
	amt := ""
	if a.Amount != nil {
		amt = a.Amount.String()
	}
	return fmt.Sprintf("%s\x00%s\x00%s", a.ApplicationDate, a.ApplicationType, amt)
}

// fillPeriodFromTransactions sets only the missing side of the period from
// the earliest and latest parsable transaction dates.
func fillPeriodFromTransactions(res *domain.ExtractionResult) {
	if res.StatementPeriod.StartDate != nil && res.StatementPeriod.EndDate != nil {
		return
	}
	var minT, maxT time.Time
	var minSet, maxSet bool
	for _, txn := range res.Transactions {
		t, ok := ParseDate(txn.Date)
		if !ok {
			continue
		}
		if !minSet || t.Before(minT) {
			minT, minSet = t, true
		}
		if !maxSet || t.After(maxT) {
			maxT, maxSet = t, true
		}
	}
	if res.StatementPeriod.StartDate == nil && minSet {
		start := minT.Format(DateLayouts[0])
		res.StatementPeriod.StartDate = &start
	}
	if res.StatementPeriod.EndDate == nil && maxSet {
		end := maxT.Format(DateLayouts[0])
		res.StatementPeriod.EndDate = &end
	}
}

func firstWins[T any](current, next *T) *T {
	if current != nil {
		return current
	}
	return next
}

func lastWins[T any](current, next *T) *T {
	if next != nil {
		return next
	}
	return current
}
