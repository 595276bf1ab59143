package repositories

import (
	"context"
)

// TransactionManager runs a unit of work atomically.
type TransactionManager interface {
	// WithinTx runs fn inside a transaction. Repository calls made with the ctx
	// handed to fn join that transaction. A non-nil error from fn rolls it back.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
