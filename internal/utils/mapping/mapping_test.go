package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementMapping_NilExtractionStaysNull(t *testing.T) {
	m, err := ToModelStatement(domain.Statement{StatementID: "s1", ProcessingStatus: domain.StatusPending})
	require.NoError(t, err)
	assert.Nil(t, m.ExtractedData)

	d, err := ToDomainStatement(m)
	require.NoError(t, err)
	assert.False(t, d.HasCache())
	assert.Equal(t, domain.StatusPending, d.ProcessingStatus)
}

func TestStatementMapping_KeepsZeroOpeningBalance(t *testing.T) {
	zero := decimal.Zero
	closing := decimal.RequireFromString("1234.56")
	start := "2025-01-01"
	m, err := ToModelStatement(domain.Statement{
		StatementID: "s1",
		ExtractedData: &domain.ExtractionResult{
			StatementPeriod: domain.StatementPeriod{StartDate: &start},
			OpeningBalance:  &zero,
			ClosingBalance:  &closing,
			Transactions:    []domain.ExtractedTransaction{},
			PageCount:       2,
			Errors:          []string{"page 2: timeout"},
		},
	})
	require.NoError(t, err)

	d, err := ToDomainStatement(m)
	require.NoError(t, err)
	require.True(t, d.HasCache())
	require.NotNil(t, d.ExtractedData.OpeningBalance, "a zero opening balance is a value, not a missing one")
	assert.True(t, d.ExtractedData.OpeningBalance.IsZero())
	assert.True(t, closing.Equal(*d.ExtractedData.ClosingBalance))
	assert.Nil(t, d.ExtractedData.StatementPeriod.EndDate)
	assert.Equal(t, []string{"page 2: timeout"}, d.ExtractedData.Errors)
}

func TestUnmarshalExtraction_Corrupt(t *testing.T) {
	_, err := ToDomainStatement(models.Statement{StatementID: "s1", ExtractedData: []byte("{not json")})
	assert.Error(t, err)
}

func TestToModelExpense_NilExpenseType(t *testing.T) {
	m := ToModelExpense(domain.Expense{LedgerEntry: domain.LedgerEntry{ID: "e1", Date: time.Now()}})
	assert.Nil(t, m.ExpenseType)

	wants := domain.Wants
	m = ToModelExpense(domain.Expense{ExpenseType: &wants})
	require.NotNil(t, m.ExpenseType)
	assert.Equal(t, "wants", *m.ExpenseType)
}
