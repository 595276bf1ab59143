package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/core/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	resp, _ := args.Get(0).(*genai.GenerateContentResponse)
	return resp, args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestExtractPage_DecodesFencedJSON(t *testing.T) {
	gen := new(MockGenerator)
	answer := "```json\n" + `{
		"statement_period": {"start_date": "2025-01-01", "end_date": "2025-01-31"},
		"account_info": {"account_number": "1234"},
		"transactions": [
			{"date": "2025-01-01", "description": "Opening Balance", "amount": "1,000.00"},
			{"date": "2025-01-05", "description": "GRAB FOOD", "amount": "(45.90)"}
		]
	}` + "\n```"
	gen.On("GenerateContent", mock.Anything, "gemini-test", mock.MatchedBy(func(c []*genai.Content) bool {
		return len(c) == 1 && len(c[0].Parts) == 2 && c[0].Parts[1].InlineData.MIMEType == "image/png"
	}), mock.Anything).Return(textResponse(answer), nil).Once()

	e := newExtractor(gen, WithModel("gemini-test"))
	pe, err := e.ExtractPage(context.Background(), domain.Page{Number: 1, MIMEType: "image/png", Data: []byte{0x89}})
	require.NoError(t, err)

	require.NotNil(t, pe.OpeningBalance)
	assert.Equal(t, "1000", pe.OpeningBalance.String())
	require.Len(t, pe.Transactions, 1)
	assert.Equal(t, "-45.9", pe.Transactions[0].Amount.String())
	assert.Equal(t, domain.Debit, pe.Transactions[0].Type)
	gen.AssertExpectations(t)
}

func TestExtractPage_Errors(t *testing.T) {
	t.Run("model error", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("GenerateContent", mock.Anything, DefaultModel, mock.Anything, mock.Anything).Return(nil, errors.New("quota")).Once()
		_, err := newExtractor(gen).ExtractPage(context.Background(), domain.Page{Number: 2, Data: []byte("x")})
		assert.ErrorContains(t, err, "page 2")
	})

	t.Run("malformed answer", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("GenerateContent", mock.Anything, DefaultModel, mock.Anything, mock.Anything).Return(textResponse("sorry, I cannot read this"), nil).Once()
		_, err := newExtractor(gen).ExtractPage(context.Background(), domain.Page{Number: 1, Data: []byte("x")})
		assert.ErrorIs(t, err, extraction.ErrMalformedPage)
	})

	t.Run("empty page", func(t *testing.T) {
		gen := new(MockGenerator)
		_, err := newExtractor(gen).ExtractPage(context.Background(), domain.Page{Number: 1})
		assert.Error(t, err)
		gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNewExtractor_RequiresKey(t *testing.T) {
	_, err := NewExtractor(context.Background(), "")
	assert.Error(t, err)
}
