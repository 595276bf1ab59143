// Package extraction validates collaborator page payloads and merges pages into
// one document-level result.
package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/utils/amount"
)

// ErrMalformedPage is returned when a page payload is not a JSON object or array.
var ErrMalformedPage = errors.New("malformed page payload")

// DateLayouts are the accepted transaction and due-date formats, tried in order.
var DateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

// ParseDate parses s with the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CleanModelJSON strips markdown fences and surrounding prose from a model response.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return strings.Trim(s, "`")
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	if end := strings.LastIndex(s, closer); end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

// DecodePage turns one raw collaborator response into a PageExtraction. Every
// field is optional; amounts go through the amount normalizer and balance lines
// left among the transactions are moved to the page balances.
func DecodePage(raw []byte) (*domain.PageExtraction, error) {
	clean := CleanModelJSON(string(raw))
	dec := json.NewDecoder(bytes.NewReader([]byte(clean)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}

	var obj map[string]any
	switch t := v.(type) {
	case map[string]any:
		obj = t
	case []any:
		obj = map[string]any{"transactions": t}
	default:
		return nil, fmt.Errorf("%w: top level is %T", ErrMalformedPage, v)
	}
	return pageFromMap(obj), nil
}

func pageFromMap(obj map[string]any) *domain.PageExtraction {
	page := &domain.PageExtraction{Transactions: []domain.ExtractedTransaction{}}

	if m, ok := obj["statement_period"].(map[string]any); ok {
		period := domain.StatementPeriod{
			StartDate: optText(m["start_date"]),
			EndDate:   optText(m["end_date"]),
		}
		if period.StartDate != nil || period.EndDate != nil {
			page.StatementPeriod = &period
		}
	}

	if m, ok := obj["account_info"].(map[string]any); ok {
		info := domain.AccountInfo{
			AccountName:   text(m["account_name"]),
			AccountNumber: text(firstPresent(m, "account_number", "account_no")),
			AccountType:   text(m["account_type"]),
			BankName:      text(firstPresent(m, "bank_name", "bank")),
			CardBrand:     text(m["card_brand"]),
			Currency:      text(m["currency"]),
		}
		if info != (domain.AccountInfo{}) {
			page.AccountInfo = &info
		}
	}

	if m, ok := obj["user_info"].(map[string]any); ok {
		info := domain.UserInfo{Name: text(m["name"]), Address: text(m["address"])}
		if info != (domain.UserInfo{}) {
			page.UserInfo = &info
		}
	}

	// Balances may be nested under "balances" or given at the top level.
	balances, _ := obj["balances"].(map[string]any)
	page.OpeningBalance = amount.Ptr(firstPresent(balances, "opening_balance"))
	if page.OpeningBalance == nil {
		page.OpeningBalance = amount.Ptr(obj["opening_balance"])
	}
	page.ClosingBalance = amount.Ptr(firstPresent(balances, "closing_balance"))
	if page.ClosingBalance == nil {
		page.ClosingBalance = amount.Ptr(obj["closing_balance"])
	}

	if list, ok := obj["transactions"].([]any); ok {
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			page.Transactions = append(page.Transactions, transactionFromMap(m))
		}
	}

	if m, ok := obj["credit_card_terms"].(map[string]any); ok {
		page.CreditCardTerms = creditTermsFromMap(m)
	}

	if list, ok := obj["facilities"].([]any); ok {
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				page.Facilities = append(page.Facilities, domain.CreditFacility{
					FacilityNumber: text(firstPresent(m, "facility_number", "no")),
					BankName:       text(firstPresent(m, "bank_name", "bank")),
					FacilityType:   text(m["facility_type"]),
					Limit:          amount.Ptr(m["limit"]),
					Outstanding:    amount.Ptr(m["outstanding"]),
				})
			}
		}
	}
	if list, ok := obj["applications"].([]any); ok {
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				page.Applications = append(page.Applications, domain.CreditApplication{
					ApplicationDate: text(m["application_date"]),
					ApplicationType: text(m["application_type"]),
					Amount:          amount.Ptr(m["amount"]),
					Status:          text(m["status"]),
				})
			}
		}
	}

	RouteBalanceRows(page)
	return page
}

func transactionFromMap(m map[string]any) domain.ExtractedTransaction {
	txn := domain.ExtractedTransaction{
		Date:         text(firstPresent(m, "date", "transaction_date")),
		Description:  text(m["description"]),
		Amount:       amount.Ptr(m["amount"]),
		Type:         parseType(text(m["type"])),
		Category:     text(m["category"]),
		Reference:    text(firstPresent(m, "reference", "reference_no", "reference_number")),
		Location:     text(m["location"]),
		Counterparty: text(firstPresent(m, "counterparty", "payer", "seller", "merchant")),
	}
	switch domain.TransferType(strings.ToLower(text(m["transfer_type"]))) {
	case domain.IntraPerson:
		tt := domain.IntraPerson
		txn.TransferType = &tt
	case domain.InterPerson:
		tt := domain.InterPerson
		txn.TransferType = &tt
	}
	if txn.Type == "" && txn.Amount != nil {
		if txn.Amount.IsNegative() {
			txn.Type = domain.Debit
		} else {
			txn.Type = domain.Credit
		}
	}
	return txn
}

func creditTermsFromMap(m map[string]any) *domain.CreditCardTerms {
	return &domain.CreditCardTerms{
		CreditLimit:        amount.Ptr(m["credit_limit"]),
		AvailableCredit:    amount.Ptr(m["available_credit"]),
		CurrentBalance:     amount.Ptr(m["current_balance"]),
		OutstandingBalance: amount.Ptr(m["outstanding_balance"]),
		TotalAmountDue:     amount.Ptr(firstPresent(m, "total_amount_due", "total_due")),
		MinimumPayment:     amount.Ptr(firstPresent(m, "minimum_payment", "minimum_payment_amount")),
		PaymentDueDate:     text(firstPresent(m, "payment_due_date", "due_date")),
	}
}

func parseType(s string) domain.TransactionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit", "cr":
		return domain.Credit
	case "debit", "dr":
		return domain.Debit
	}
	return ""
}

// firstPresent returns the first non-nil value among keys. m may be nil.
func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func optText(v any) *string {
	s := text(v)
	if s == "" {
		return nil
	}
	return &s
}
