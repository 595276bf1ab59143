package classification_test

import (
	"testing"

	"github.com/SscSPs/mma_statements/internal/core/classification"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifier(t *testing.T, opts ...classification.Option) *classification.Classifier {
	t.Helper()
	c, err := classification.NewDefault(opts...)
	require.NoError(t, err)
	return c
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestCategory(t *testing.T) {
	c := newClassifier(t)
	tests := []struct {
		description string
		want        string
	}{
		{"GRAB FOOD DELIVERY KL", "Dining"}, // "grab food" beats "grab"
		{"Grab ride to KLCC", "Transportation"},
		{"TNB electricity", "Bills & Utilities"},
		{"Petronas Jalan Ampang", "Transportation"},
		{"99 Speedmart Cheras", "Groceries"},
		{"Café Kopitiam", "Dining"},
		{"Zzzz unknown merchant", classification.DefaultCategory},
		{"", classification.DefaultCategory},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Category(tt.description))
		})
	}
}

func TestIncomeCategory(t *testing.T) {
	c := newClassifier(t)
	assert.Equal(t, "Salary", c.IncomeCategory("ACME SDN BHD PAYROLL"))
	assert.Equal(t, "Transfer", c.IncomeCategory("Instant transfer from Ali"))
	assert.Equal(t, "Investments", c.IncomeCategory("Dividend ASNB"))
	assert.Equal(t, classification.DefaultCategory, c.IncomeCategory("Refund"))
}

func TestExpenseType(t *testing.T) {
	c := newClassifier(t)
	tests := []struct {
		name        string
		category    string
		description string
		amount      *decimal.Decimal
		want        *domain.ExpenseType
	}{
		{name: "savings scheme is excluded", description: "Tabung Haji deposit", amount: dec("200"), want: nil},
		{name: "auto save is excluded", description: "Auto-save to goal", amount: dec("20"), want: nil},
		{name: "transfer pair is excluded", description: "Transfer to own savings", amount: dec("20"), want: nil},
		{name: "large dining is wants", description: "Dinner at Fancy Bistro", amount: dec("120"), want: ptr(domain.Wants)},
		{name: "small unambiguous dining out is wants", description: "Bistro lunch", amount: dec("15"), want: ptr(domain.Wants)},
		{name: "small food court falls through to wants table", description: "Food court Pavilion", amount: dec("12"), want: ptr(domain.Wants)},
		{name: "shopping category is wants", category: "Shopping", description: "Uniqlo", amount: dec("10"), want: ptr(domain.Wants)},
		{name: "shopping keyword is wants", description: "Online marketplace order", amount: dec("10"), want: ptr(domain.Wants)},
		{name: "bill is needs", description: "TNB Bill Payment", amount: dec("85"), want: ptr(domain.Needs)},
		{name: "unknown defaults to needs", description: "Misc charge", amount: dec("5"), want: ptr(domain.Needs)},
		{name: "empty defaults to needs", want: ptr(domain.Needs)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ExpenseType(tt.category, tt.description, tt.amount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpenseType_DiningThreshold(t *testing.T) {
	c := newClassifier(t, classification.WithDiningThreshold(decimal.NewFromInt(200)))
	// "dine" is a dining keyword but not an unambiguous dining-out one.
	got := c.ExpenseType("", "Dine in", dec("120"))
	require.NotNil(t, got)
	assert.Equal(t, domain.Wants, *got) // still wants via the wants table
}

func TestTransferType(t *testing.T) {
	c := newClassifier(t)
	accounts := []domain.Account{
		{AccountName: "Maybank Premier", AccountNo: "1122334455"},
	}

	inter := domain.InterPerson
	assert.Equal(t, &inter, c.TransferType("Tabung Haji", &inter, nil), "extractor label is trusted")
	assert.Equal(t, ptr(domain.IntraPerson), c.TransferType("Tabung Haji", nil, nil))
	assert.Equal(t, ptr(domain.IntraPerson), c.TransferType("IBG to 1122334455", nil, accounts))
	assert.Equal(t, ptr(domain.IntraPerson), c.TransferType("Trf to MAYBANK PREMIER", nil, accounts))
	assert.Nil(t, c.TransferType("DuitNow transfer to Ahmad", nil, accounts))
	assert.Nil(t, c.TransferType("", nil, accounts))
}

func TestLooksLikeTransfer(t *testing.T) {
	c := newClassifier(t)
	assert.True(t, c.LooksLikeTransfer("Fund transfer"))
	assert.True(t, c.LooksLikeTransfer("Deposit into stash"))
	assert.False(t, c.LooksLikeTransfer("Deposit cheque"))
	assert.False(t, c.LooksLikeTransfer(""))
}

func TestParseTables(t *testing.T) {
	tables, err := classification.ParseTables([]byte(`
categories:
  - name: Pets
    keywords: [PET SHOP, Vet]
`))
	require.NoError(t, err)
	c := classification.New(tables)
	assert.Equal(t, "Pets", c.Category("Happy pet shop"))

	_, err = classification.ParseTables([]byte(`categories: []`))
	assert.Error(t, err)

	_, err = classification.ParseTables([]byte(`categories: [`))
	assert.Error(t, err)

	_, err = classification.LoadTables("/nonexistent/keywords.yaml")
	assert.Error(t, err)
}

func ptr[T any](v T) *T {
	return &v
}
