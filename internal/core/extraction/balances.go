package extraction

import (
	"strings"

	"github.com/SscSPs/mma_statements/internal/core/domain"
)

var (
	openingPhrases = []string{"PREVIOUS BALANCE", "OPENING BALANCE", "BALANCE B/F", "BALANCE BROUGHT FORWARD", "BAKI AWAL"}
	closingPhrases = []string{"CLOSING BALANCE", "STATEMENT BALANCE", "ENDING BALANCE", "BALANCE C/F", "BALANCE CARRIED FORWARD", "BAKI AKHIR"}
)

type balanceKind int

const (
	notBalance balanceKind = iota
	openingRow
	closingRow
)

func classifyBalanceRow(description string) balanceKind {
	d := strings.ToUpper(strings.Join(strings.Fields(description), " "))
	for _, p := range openingPhrases {
		if strings.Contains(d, p) {
			return openingRow
		}
	}
	for _, p := range closingPhrases {
		if strings.Contains(d, p) {
			return closingRow
		}
	}
	return notBalance
}

// IsBalanceRow reports whether description denotes an opening or closing balance line.
func IsBalanceRow(description string) bool {
	return classifyBalanceRow(description) != notBalance
}

// RouteBalanceRows removes balance lines from page.Transactions. The row amount
// fills the page's opening or closing balance only when the page did not declare
// one itself; the first opening row and the last closing row are used.
func RouteBalanceRows(page *domain.PageExtraction) {
	kept := make([]domain.ExtractedTransaction, 0, len(page.Transactions))
	declaredClosing := page.ClosingBalance != nil

	for _, txn := range page.Transactions {
		switch classifyBalanceRow(txn.Description) {
		case openingRow:
			if page.OpeningBalance == nil && txn.Amount != nil {
				v := *txn.Amount
				page.OpeningBalance = &v
			}
		case closingRow:
			if !declaredClosing && txn.Amount != nil {
				v := *txn.Amount
				page.ClosingBalance = &v
			}
		default:
			kept = append(kept, txn)
		}
	}
	page.Transactions = kept
}
