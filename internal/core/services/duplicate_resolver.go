package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// descriptionPrefixLen is how many leading characters of a description take part in matching.
const descriptionPrefixLen = 50

// DuplicateCandidate is an incoming income or expense about to be inserted.
type DuplicateCandidate struct {
	Kind        domain.LedgerKind
	UserID      string
	StatementID string
	AccountID   *string
	Amount      decimal.Decimal // non-negative
	Date        time.Time
	Description string
	ReferenceNo string
}

// DuplicateResolver soft-deletes an existing ledger row that a new statement row
// most likely repeats. It never prevents the new row from being inserted.
//
// Rows of the statement being imported are never considered: two identical
// purchases on one statement are both kept.
type DuplicateResolver struct {
	BaseService
	ledger     portsrepo.LedgerRepositoryFacade
	dateWindow time.Duration
}

// DuplicateResolverOption configures a DuplicateResolver.
type DuplicateResolverOption func(*DuplicateResolver)

// WithDateWindowDays sets how many days either side of the candidate date still match.
func WithDateWindowDays(days int) DuplicateResolverOption {
	return func(r *DuplicateResolver) {
		if days >= 0 {
			r.dateWindow = time.Duration(days) * 24 * time.Hour
		}
	}
}

// NewDuplicateResolver creates a resolver with a one-day window.
func NewDuplicateResolver(ledger portsrepo.LedgerRepositoryFacade, opts ...DuplicateResolverOption) *DuplicateResolver {
	r := &DuplicateResolver{ledger: ledger, dateWindow: 24 * time.Hour}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindAndRemove looks for a duplicate of c and soft-deletes the first one found.
// A reference number match wins; otherwise a row with the same amount, a date
// inside the window and either an overlapping description prefix or the same
// account is removed.
func (r *DuplicateResolver) FindAndRemove(ctx context.Context, c DuplicateCandidate) (bool, error) {
	if c.ReferenceNo != "" {
		byRef, err := r.ledger.FindActiveByReference(ctx, c.Kind, c.UserID, c.ReferenceNo, c.StatementID)
		if err != nil {
			return false, fmt.Errorf("failed to look up %s by reference: %w", c.Kind, err)
		}
		if len(byRef) > 0 {
			return true, r.remove(ctx, c, byRef[0], "reference")
		}
	}

	nearby, err := r.ledger.FindActiveByAmountAndDateRange(ctx, c.Kind, c.UserID, c.Amount,
		c.Date.Add(-r.dateWindow), c.Date.Add(r.dateWindow), c.StatementID)
	if err != nil {
		return false, fmt.Errorf("failed to look up %s by amount and date: %w", c.Kind, err)
	}

	want := descriptionKey(c.Description)
	for _, existing := range nearby {
		got := descriptionKey(existing.Description)
		if want != "" && got != "" && (strings.Contains(got, want) || strings.Contains(want, got)) {
			return true, r.remove(ctx, c, existing, "description")
		}
		if c.AccountID != nil && existing.AccountID != nil && *c.AccountID == *existing.AccountID {
			return true, r.remove(ctx, c, existing, "account")
		}
	}
	return false, nil
}

func (r *DuplicateResolver) remove(ctx context.Context, c DuplicateCandidate, existing domain.LedgerEntry, matchedBy string) error {
	if err := r.ledger.SoftDeleteEntry(ctx, c.Kind, existing.ID, c.UserID, r.Now()); err != nil {
		return fmt.Errorf("failed to remove duplicate %s %s: %w", c.Kind, existing.ID, err)
	}
	r.LogInfo(ctx, "Removed duplicate ledger row",
		slog.String("kind", string(c.Kind)),
		slog.String("removed_id", existing.ID),
		slog.String("removed_statement_id", existing.StatementID),
		slog.String("matched_by", matchedBy),
		slog.String("amount", existing.Amount.String()),
		slog.Time("date", existing.Date),
	)
	return nil
}

// descriptionKey is the case-folded, trimmed first descriptionPrefixLen characters of s.
func descriptionKey(s string) string {
	runes := []rune(s)
	if len(runes) > descriptionPrefixLen {
		runes = runes[:descriptionPrefixLen]
	}
	return strings.TrimSpace(cases.Fold().String(string(runes)))
}
