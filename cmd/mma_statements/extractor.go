package main

import (
	"context"
	"fmt"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/domain"
)

// unavailableExtractor fails every page when no extraction collaborator is configured.
type unavailableExtractor struct{}

func (unavailableExtractor) ExtractPage(context.Context, domain.Page) (*domain.PageExtraction, error) {
	return nil, fmt.Errorf("%w: no extraction collaborator configured (set GEMINI_API_KEY)", apperrors.ErrExtractionFailed)
}
