package extraction_test

import (
	"testing"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/core/extraction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func str(s string) *string {
	return &s
}

func assertDec(t *testing.T, want string, got *decimal.Decimal) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, decimal.RequireFromString(want).Equal(*got), "got %s want %s", got, want)
}

func TestCleanModelJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extraction.CleanModelJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1,2]`, extraction.CleanModelJSON("Here you go: [1,2] hope it helps"))
	assert.Equal(t, `{"a":{"b":2}}`, extraction.CleanModelJSON(`  {"a":{"b":2}}  `))
}

func TestDecodePage(t *testing.T) {
	raw := "```json\n" + `{
		"statement_period": {"start_date": "2025-01-01", "end_date": null},
		"account_info": {"account_name": "Maybank Savings", "account_number": 11223344},
		"balances": {"opening_balance": null, "closing_balance": "1,200.00 CR"},
		"transactions": [
			{"date": "2025-01-02", "description": "PREVIOUS BALANCE", "amount": "500.00"},
			{"date": "2025-01-03", "description": "Salary", "amount": "3,000.00", "type": "credit", "reference": "REF1"},
			{"date": "2025-01-04", "description": "TNB", "amount": "85.10 DR"},
			{"date": "2025-01-05", "description": "Tabung Haji", "amount": -100, "type": "debit", "transfer_type": "intra_person"},
			"not an object"
		]
	}` + "\n```"

	page, err := extraction.DecodePage([]byte(raw))
	require.NoError(t, err)

	require.NotNil(t, page.StatementPeriod)
	assert.Equal(t, "2025-01-01", *page.StatementPeriod.StartDate)
	assert.Nil(t, page.StatementPeriod.EndDate)
	require.NotNil(t, page.AccountInfo)
	assert.Equal(t, "11223344", page.AccountInfo.AccountNumber)

	assertDec(t, "500", page.OpeningBalance)
	assertDec(t, "1200", page.ClosingBalance)

	require.Len(t, page.Transactions, 3)
	assert.Equal(t, "Salary", page.Transactions[0].Description)
	assert.Equal(t, domain.Credit, page.Transactions[0].Type)
	assert.Equal(t, "REF1", page.Transactions[0].Reference)

	assert.Equal(t, domain.Debit, page.Transactions[1].Type, "type inferred from sign")
	assertDec(t, "-85.10", page.Transactions[1].Amount)

	require.NotNil(t, page.Transactions[2].TransferType)
	assert.Equal(t, domain.IntraPerson, *page.Transactions[2].TransferType)
	for _, txn := range page.Transactions {
		assert.False(t, extraction.IsBalanceRow(txn.Description))
	}
}

func TestDecodePage_TopLevelArray(t *testing.T) {
	page, err := extraction.DecodePage([]byte(`[{"date":"2025-02-01","description":"Coffee","amount":-4.5}]`))
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, domain.Debit, page.Transactions[0].Type)
}

func TestDecodePage_Malformed(t *testing.T) {
	_, err := extraction.DecodePage([]byte("I could not read this page"))
	assert.ErrorIs(t, err, extraction.ErrMalformedPage)

	_, err = extraction.DecodePage([]byte(`"just a string"`))
	assert.ErrorIs(t, err, extraction.ErrMalformedPage)
}

func TestRouteBalanceRows_DeclaredBalanceWins(t *testing.T) {
	page := &domain.PageExtraction{
		OpeningBalance: dec("10"),
		Transactions: []domain.ExtractedTransaction{
			{Description: "Balance B/F", Amount: dec("999")},
			{Description: "Balance C/F", Amount: dec("50")},
			{Description: "Closing balance", Amount: dec("60")},
			{Description: "Lunch", Amount: dec("-5")},
		},
	}
	extraction.RouteBalanceRows(page)
	assertDec(t, "10", page.OpeningBalance)
	assertDec(t, "60", page.ClosingBalance)
	require.Len(t, page.Transactions, 1)
}

func TestMerge_BalancePrecedence(t *testing.T) {
	pages := []*domain.PageExtraction{
		{OpeningBalance: nil, ClosingBalance: dec("100")},
		{OpeningBalance: dec("0.0"), ClosingBalance: dec("200")},
	}
	res := extraction.Merge(pages, nil)
	assertDec(t, "0", res.OpeningBalance)
	assertDec(t, "200", res.ClosingBalance)
	assert.Equal(t, 2, res.PageCount)
	assert.NotNil(t, res.Errors)
}

func TestMerge_FirstWinsAndConcatenation(t *testing.T) {
	pages := []*domain.PageExtraction{
		{
			AccountInfo:  &domain.AccountInfo{AccountName: "First"},
			Transactions: []domain.ExtractedTransaction{{Description: "A"}, {Description: "B"}},
		},
		nil,
		{
			StatementPeriod: &domain.StatementPeriod{StartDate: str("2025-03-01")},
			AccountInfo:     &domain.AccountInfo{AccountName: "Second"},
			UserInfo:        &domain.UserInfo{Name: "Aisyah"},
			Transactions:    []domain.ExtractedTransaction{{Description: "C"}},
		},
	}
	res := extraction.Merge(pages, []string{"page 2: timeout"})
	assert.Equal(t, "First", res.AccountInfo.AccountName)
	assert.Equal(t, "Aisyah", res.UserInfo.Name)
	require.Len(t, res.Transactions, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{res.Transactions[0].Description, res.Transactions[1].Description, res.Transactions[2].Description})
	assert.Equal(t, []string{"page 2: timeout"}, res.Errors)
	assert.Equal(t, "2025-03-01", *res.StatementPeriod.StartDate)
}

func TestMerge_PeriodFallbackFillsMissingSideOnly(t *testing.T) {
	pages := []*domain.PageExtraction{
		{
			StatementPeriod: &domain.StatementPeriod{StartDate: str("2025-01-01")},
			Transactions: []domain.ExtractedTransaction{
				{Date: "2025-01-15"}, {Date: "2025-01-03"}, {Date: "garbage"}, {Date: "28/01/2025"},
			},
		},
	}
	res := extraction.Merge(pages, nil)
	assert.Equal(t, "2025-01-01", *res.StatementPeriod.StartDate)
	assert.Equal(t, "2025-01-28", *res.StatementPeriod.EndDate)

	empty := extraction.Merge([]*domain.PageExtraction{{}}, nil)
	assert.Nil(t, empty.StatementPeriod.StartDate)
	assert.Nil(t, empty.StatementPeriod.EndDate)
}

func TestMerge_NaturalKeyDedup(t *testing.T) {
	pages := []*domain.PageExtraction{
		{
			Facilities:   []domain.CreditFacility{{FacilityNumber: "1", BankName: "CIMB", FacilityType: "first"}},
			Applications: []domain.CreditApplication{{ApplicationDate: "2025-01-01", ApplicationType: "loan", Amount: dec("1000")}},
		},
		{
			Facilities: []domain.CreditFacility{
				{FacilityNumber: "1", BankName: "CIMB", FacilityType: "repeat"},
				{FacilityNumber: "1", BankName: "RHB"},
			},
			Applications: []domain.CreditApplication{
				{ApplicationDate: "2025-01-01", ApplicationType: "loan", Amount: dec("1000.00")},
				{ApplicationDate: "2025-01-01", ApplicationType: "loan", Amount: dec("2000")},
			},
		},
	}
	res := extraction.Merge(pages, nil)
	require.Len(t, res.Facilities, 2)
	assert.Equal(t, "first", res.Facilities[0].FacilityType)
	assert.Len(t, res.Applications, 2, "1000 and 1000.00 share a key")
}

func TestBuildCreditCardSummary(t *testing.T) {
	assert.Nil(t, extraction.BuildCreditCardSummary(nil, dec("1")))

	s := extraction.BuildCreditCardSummary(&domain.CreditCardTerms{CreditLimit: dec("5000")}, dec("1200"))
	assertDec(t, "1200", s.CurrentBalance)
	assertDec(t, "1200", s.OutstandingBalance)
	assertDec(t, "3800", s.AvailableCredit)
	assertDec(t, "1200", s.TotalAmountDue)

	over := extraction.BuildCreditCardSummary(&domain.CreditCardTerms{
		CreditLimit:    dec("1000"),
		CurrentBalance: dec("1500"),
		TotalAmountDue: dec("1400"),
	}, nil)
	assertDec(t, "0", over.AvailableCredit)
	assertDec(t, "1400", over.OutstandingBalance)
	assertDec(t, "1400", over.TotalAmountDue)
}

func TestMerge_TwoPageStatementWithBalanceRows(t *testing.T) {
	page1, err := extraction.DecodePage([]byte(`{"transactions":[
		{"date":"2025-01-01","description":"PREVIOUS BALANCE","amount":"500.00"},
		{"date":"2025-01-02","description":"Salary","amount":"100.00","type":"credit"},
		{"date":"2025-01-03","description":"Groceries","amount":"-50.00","type":"debit"}
	]}`))
	require.NoError(t, err)
	page2, err := extraction.DecodePage([]byte(`{"transactions":[
		{"date":"2025-01-20","description":"Rent","amount":"-130.00","type":"debit"},
		{"date":"2025-01-31","description":"CLOSING BALANCE","amount":"420.00"}
	]}`))
	require.NoError(t, err)

	res := extraction.Merge([]*domain.PageExtraction{page1, page2}, nil)
	require.Len(t, res.Transactions, 3)
	assertDec(t, "500", res.OpeningBalance)
	assertDec(t, "420", res.ClosingBalance)
	assert.Equal(t, "2025-01-02", *res.StatementPeriod.StartDate)
	assert.Equal(t, "2025-01-20", *res.StatementPeriod.EndDate)
}

func TestMerge_RoutesBalanceRowsFromUndecodedPages(t *testing.T) {
	page1 := &domain.PageExtraction{Transactions: []domain.ExtractedTransaction{
		{Date: "2025-01-01", Description: "PREVIOUS BALANCE", Amount: dec("500")},
		{Date: "2025-01-02", Description: "Salary", Amount: dec("100"), Type: domain.Credit},
	}}
	page2 := &domain.PageExtraction{Transactions: []domain.ExtractedTransaction{
		{Date: "2025-01-20", Description: "Rent", Amount: dec("-180"), Type: domain.Debit},
		{Date: "2025-01-31", Description: "Closing Balance", Amount: dec("420")},
	}}

	res := extraction.Merge([]*domain.PageExtraction{page1, page2}, nil)
	require.Len(t, res.Transactions, 2)
	for _, txn := range res.Transactions {
		assert.False(t, extraction.IsBalanceRow(txn.Description), txn.Description)
	}
	assertDec(t, "500", res.OpeningBalance)
	assertDec(t, "420", res.ClosingBalance)

	// Inputs are left as the extractor returned them.
	assert.Len(t, page1.Transactions, 2)
	assert.Nil(t, page1.OpeningBalance)

	again := extraction.Merge([]*domain.PageExtraction{page1, page2}, nil)
	assert.Equal(t, res.Transactions, again.Transactions)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-04-30", "30/04/2025", "30-04-2025"} {
		d, ok := extraction.ParseDate(in)
		require.True(t, ok, in)
		assert.Equal(t, "2025-04-30", d.Format("2006-01-02"))
	}
	_, ok := extraction.ParseDate("April 30")
	assert.False(t, ok)
}
