// Package ports holds the interfaces of the collaborators the statement
// pipeline drives but does not implement.
package ports

import (
	"context"

	"github.com/SscSPs/mma_statements/internal/core/domain"
)

// Extractor turns one statement page into a structured page extraction.
type Extractor interface {
	ExtractPage(ctx context.Context, page domain.Page) (*domain.PageExtraction, error)
}

// FileStore keeps uploaded statement files.
type FileStore interface {
	// Put stores data under key and returns the location recorded on the statement.
	Put(ctx context.Context, key string, contentType string, data []byte) (string, error)

	// Get returns the bytes previously stored at location.
	Get(ctx context.Context, location string) ([]byte, error)
}

// EventTracker records product analytics events. Implementations must not block.
type EventTracker interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
