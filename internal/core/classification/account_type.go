package classification

import (
	"strings"

	"github.com/SscSPs/mma_statements/internal/core/domain"
)

var (
	islamicMarkers = []string{"islamic", "-i ", "shariah", "syariah"}
	savingsMarkers = []string{"savings", "simpanan", "tabungan", "saving"}
	currentMarkers = []string{"current", "checking", "semasa", "chequing"}
	creditMarkers  = []string{"credit card", "visa", "mastercard", "amex", "american express", "credit-card"}
	walletMarkers  = []string{"touch n go", "tng", "grabpay", "grab pay", "boost", "shopeepay", "shopee pay", "ewallet", "e-wallet", "wallet", "gcash"}
	investMarkers  = []string{"investment", "brokerage", "trading", "asb", "asn", "unit trust", "amanah saham", "mutual fund"}
	cashMarkers    = []string{"cash", "tunai", "physical cash"}
)

// cardTiers is checked in order; the first tier found names the subtype.
var cardTiers = []struct{ marker, subtype string }{
	{"world elite", "World Elite Credit Card"},
	{"signature", "Signature Credit Card"},
	{"platinum", "Platinum Credit Card"},
	{"gold", "Gold Credit Card"},
	{"classic", "Classic Credit Card"},
}

// MapAccountType maps the account type printed on a statement to an AccountType and subtype.
// Unknown or empty input maps to savings.
func MapAccountType(extracted string) (domain.AccountType, string) {
	extracted = strings.TrimSpace(extracted)
	if extracted == "" {
		return domain.AccountSavings, ""
	}
	lower := strings.ToLower(extracted)

	switch {
	case containsAny(lower, savingsMarkers):
		switch {
		case containsAny(lower, islamicMarkers):
			return domain.AccountSavings, "Islamic Savings Account"
		case containsAny(lower, []string{"junior", "kid", "child"}):
			return domain.AccountSavings, "Junior Savings Account"
		case containsAny(lower, []string{"premier", "premium", "privilege"}):
			return domain.AccountSavings, "Premier Savings Account"
		}
		return domain.AccountSavings, extracted
	case containsAny(lower, currentMarkers):
		if containsAny(lower, islamicMarkers) {
			return domain.AccountCurrent, "Islamic Current Account"
		}
		return domain.AccountCurrent, extracted
	case containsAny(lower, creditMarkers):
		for _, tier := range cardTiers {
			if strings.Contains(lower, tier.marker) {
				return domain.AccountCredit, tier.subtype
			}
		}
		return domain.AccountCredit, extracted
	case containsAny(lower, walletMarkers):
		return domain.AccountEWallet, extracted
	case containsAny(lower, investMarkers):
		return domain.AccountInvestment, extracted
	case containsAny(lower, cashMarkers):
		return domain.AccountCash, "Cash"
	}
	return domain.AccountSavings, extracted
}

// DefaultAccountType is the account type implied by a statement type when the
// statement itself does not print one.
func DefaultAccountType(t domain.StatementType) string {
	switch t {
	case domain.StatementTypeCreditCard:
		return "credit card"
	case domain.StatementTypeEWallet:
		return "ewallet"
	}
	return ""
}

// CardBrand detects the card network. An explicit brand wins over the account
// name and type; Visa is the fallback.
func CardBrand(explicit, accountName, accountType string) string {
	if b := brandOf(strings.ToLower(strings.TrimSpace(explicit))); b != "" {
		return b
	}
	if b := brandOf(strings.ToLower(accountName + " " + accountType)); b != "" {
		return b
	}
	return "Visa"
}

func brandOf(text string) string {
	switch {
	case text == "":
		return ""
	case strings.Contains(text, "visa"):
		return "Visa"
	case strings.Contains(text, "master"):
		return "Mastercard"
	case strings.Contains(text, "amex"), strings.Contains(text, "american express"):
		return "American Express"
	case strings.Contains(text, "jcb"):
		return "JCB"
	case strings.Contains(text, "union"):
		return "UnionPay"
	}
	return ""
}
