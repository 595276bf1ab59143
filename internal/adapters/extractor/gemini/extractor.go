// Package gemini implements ports.Extractor with a Gemini vision model.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/core/extraction"
	"github.com/SscSPs/mma_statements/internal/core/ports"
	"github.com/SscSPs/mma_statements/internal/middleware"
	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

const defaultTimeout = 2 * time.Minute

const pagePrompt = `You are a financial statement parser. Read the attached statement page
(bank, credit card or e-wallet) and return ONE JSON object with these keys. Omit
or set to null anything the page does not show.

{
  "statement_period": {"start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD"},
  "account_info": {"account_name": "", "account_number": "", "account_type": "", "bank_name": "", "card_brand": "", "currency": ""},
  "user_info": {"name": "", "address": ""},
  "opening_balance": number,
  "closing_balance": number,
  "transactions": [
    {"date": "YYYY-MM-DD", "description": "", "amount": number, "type": "credit|debit",
     "category": "", "transfer_type": "intra_person|inter_person", "reference": "",
     "counterparty": "", "location": ""}
  ],
  "credit_card_terms": {"credit_limit": number, "available_credit": number, "current_balance": number,
    "outstanding_balance": number, "total_amount_due": number, "minimum_payment": number,
    "payment_due_date": "YYYY-MM-DD"}
}

Rules:
- amount is positive for money in (credit) and negative for money out (debit).
- Opening and closing balance lines are balances, not transactions.
- Only set transfer_type when the line clearly moves money between the holder's own accounts (intra_person) or to another person (inter_person).
- Return only raw JSON, no Markdown.`

// generator is the subset of *genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Extractor sends each page inline to the model and decodes the JSON answer.
type Extractor struct {
	models  generator
	model   string
	timeout time.Duration
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(e *Extractor) {
		if model != "" {
			e.model = model
		}
	}
}

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewExtractor creates a Gemini API client for apiKey.
func NewExtractor(ctx context.Context, apiKey string, opts ...Option) (*Extractor, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newExtractor(client.Models, opts...), nil
}

func newExtractor(models generator, opts ...Option) *Extractor {
	e := &Extractor{models: models, model: DefaultModel, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.Extractor = (*Extractor)(nil)

// ExtractPage implements ports.Extractor.
func (e *Extractor) ExtractPage(ctx context.Context, page domain.Page) (*domain.PageExtraction, error) {
	if len(page.Data) == 0 {
		return nil, fmt.Errorf("gemini: page %d is empty", page.Number)
	}
	mimeType := page.MIMEType
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: pagePrompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: page.Data}},
			},
		},
	}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	}

	start := time.Now()
	resp, err := e.models.GenerateContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content for page %d: %w", page.Number, err)
	}
	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("gemini: empty response for page %d", page.Number)
	}

	pe, err := extraction.DecodePage([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("gemini: page %d: %w", page.Number, err)
	}

	middleware.GetLoggerFromCtx(ctx).Debug("Page extracted",
		slog.Int("page", page.Number),
		slog.String("model", e.model),
		slog.Int("transactions", len(pe.Transactions)),
		slog.Duration("took", time.Since(start)),
	)
	return pe, nil
}
