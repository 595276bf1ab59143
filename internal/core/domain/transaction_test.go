package domain_test

import (
	"testing"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExtractedTransaction_SignAgrees(t *testing.T) {
	tests := []struct {
		name        string
		transaction domain.ExtractedTransaction
		want        bool
	}{
		{
			name:        "credit with positive amount",
			transaction: domain.ExtractedTransaction{Type: domain.Credit, Amount: decimalPtr(decimal.NewFromFloat(10.5))},
			want:        true,
		},
		{
			name:        "debit with negative amount",
			transaction: domain.ExtractedTransaction{Type: domain.Debit, Amount: decimalPtr(decimal.NewFromInt(-3))},
			want:        true,
		},
		{
			name:        "credit with negative amount",
			transaction: domain.ExtractedTransaction{Type: domain.Credit, Amount: decimalPtr(decimal.NewFromInt(-3))},
			want:        false,
		},
		{
			name:        "debit with zero amount",
			transaction: domain.ExtractedTransaction{Type: domain.Debit, Amount: decimalPtr(decimal.Zero)},
			want:        false,
		},
		{
			name:        "missing amount",
			transaction: domain.ExtractedTransaction{Type: domain.Credit},
			want:        false,
		},
		{
			name:        "unknown type",
			transaction: domain.ExtractedTransaction{Type: "refund", Amount: decimalPtr(decimal.NewFromInt(1))},
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.transaction.SignAgrees())
		})
	}
}

func TestStatementType_IsProcessable(t *testing.T) {
	assert.True(t, domain.StatementTypeBank.IsProcessable())
	assert.True(t, domain.StatementTypeCreditCard.IsProcessable())
	assert.True(t, domain.StatementTypeEWallet.IsProcessable())
	assert.False(t, domain.StatementTypeReceipt.IsProcessable())
	assert.True(t, domain.StatementTypeReceipt.IsValid())
	assert.False(t, domain.StatementType("payslip").IsValid())
}

func TestStatement_HasCache(t *testing.T) {
	s := domain.Statement{}
	assert.False(t, s.HasCache())
	s.ExtractedData = &domain.ExtractionResult{}
	assert.True(t, s.HasCache())
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
