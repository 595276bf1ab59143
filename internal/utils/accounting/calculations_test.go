package accounting_test

import (
	"testing"

	"github.com/SscSPs/mma_statements/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReconcileBalances(t *testing.T) {
	tests := []struct {
		name      string
		closing   string
		wantDiff  string
		wantMatch bool
	}{
		{"exact", "1200", "0", true},
		{"short by fifty", "1150", "-50", false},
		{"within tolerance", "1200.01", "0.01", true},
		{"just outside tolerance", "1199.98", "-0.02", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := accounting.ReconcileBalances(d("1000"), d(tt.closing), d("500"), d("300"), accounting.DefaultTolerance)
			assert.True(t, d("1200").Equal(r.CalculatedClosing))
			assert.True(t, d(tt.wantDiff).Equal(r.Difference), "difference %s", r.Difference)
			assert.Equal(t, tt.wantMatch, r.Matches)
			assert.True(t, d("500").Equal(r.TotalIncome))
			assert.True(t, d("300").Equal(r.TotalExpenses))
		})
	}
}

func TestReconcileBalances_RoundsFigures(t *testing.T) {
	r := accounting.ReconcileBalances(d("0.005"), d("10.004"), d("10"), d("0"), accounting.DefaultTolerance)
	assert.Equal(t, "0.01", r.ExtractedOpening.StringFixed(2))
	assert.Equal(t, "10.00", r.ExtractedClosing.StringFixed(2))
	assert.True(t, r.Matches)
}
