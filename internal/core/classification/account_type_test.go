package classification_test

import (
	"testing"

	"github.com/SscSPs/mma_statements/internal/core/classification"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapAccountType(t *testing.T) {
	tests := []struct {
		in          string
		wantType    domain.AccountType
		wantSubtype string
	}{
		{"Maybank Savings Account-i Islamic", domain.AccountSavings, "Islamic Savings Account"},
		{"Junior Savings", domain.AccountSavings, "Junior Savings Account"},
		{"CIMB Current Account", domain.AccountCurrent, "CIMB Current Account"},
		{"CIMB Visa Platinum", domain.AccountCredit, "Platinum Credit Card"},
		{"Touch n Go eWallet", domain.AccountEWallet, "Touch n Go eWallet"},
		{"Unit Trust Portfolio", domain.AccountInvestment, "Unit Trust Portfolio"},
		{"Petty cash", domain.AccountCash, "Cash"},
		{"Mystery", domain.AccountSavings, "Mystery"},
		{"", domain.AccountSavings, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			gotType, gotSubtype := classification.MapAccountType(tt.in)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantSubtype, gotSubtype)
		})
	}
}

func TestCardBrand(t *testing.T) {
	assert.Equal(t, "Mastercard", classification.CardBrand("MasterCard World", "Visa Gold", ""))
	assert.Equal(t, "American Express", classification.CardBrand("", "Amex Platinum", ""))
	assert.Equal(t, "JCB", classification.CardBrand("", "", "JCB card"))
	assert.Equal(t, "UnionPay", classification.CardBrand("", "UnionPay Diamond", ""))
	assert.Equal(t, "Visa", classification.CardBrand("", "Rewards card", "credit"))
}
