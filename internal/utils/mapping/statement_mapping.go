package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/SscSPs/mma_statements/internal/models"
)

// MarshalExtraction encodes a cached extraction for the JSONB column. Nil stays NULL.
func MarshalExtraction(result *domain.ExtractionResult) ([]byte, error) {
	if result == nil {
		return nil, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode extracted data: %w", err)
	}
	return data, nil
}

// UnmarshalExtraction decodes the JSONB column. NULL or empty yields nil.
func UnmarshalExtraction(data []byte) (*domain.ExtractionResult, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var result domain.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode extracted data: %w", err)
	}
	return &result, nil
}

// ToModelStatement converts a domain Statement to a model Statement
func ToModelStatement(d domain.Statement) (models.Statement, error) {
	data, err := MarshalExtraction(d.ExtractedData)
	if err != nil {
		return models.Statement{}, err
	}
	return models.Statement{
		StatementID:      d.StatementID,
		UserID:           d.UserID,
		StatementType:    string(d.StatementType),
		StatementURL:     d.StatementURL,
		DisplayName:      d.DisplayName,
		ContentType:      d.ContentType,
		FileHash:         d.FileHash,
		PeriodStart:      d.PeriodStart,
		PeriodEnd:        d.PeriodEnd,
		ExtractedData:    data,
		ProcessingStatus: string(d.ProcessingStatus),
		ProcessingError:  d.ProcessingError,
		LastProcessed:    d.LastProcessed,
		IsDeleted:        d.IsDeleted,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainStatement converts a model Statement to a domain Statement
func ToDomainStatement(m models.Statement) (domain.Statement, error) {
	result, err := UnmarshalExtraction(m.ExtractedData)
	if err != nil {
		return domain.Statement{}, fmt.Errorf("statement %s: %w", m.StatementID, err)
	}
	return domain.Statement{
		StatementID:      m.StatementID,
		UserID:           m.UserID,
		StatementType:    domain.StatementType(m.StatementType),
		StatementURL:     m.StatementURL,
		DisplayName:      m.DisplayName,
		ContentType:      m.ContentType,
		FileHash:         m.FileHash,
		PeriodStart:      m.PeriodStart,
		PeriodEnd:        m.PeriodEnd,
		ExtractedData:    result,
		ProcessingStatus: domain.ProcessingStatus(m.ProcessingStatus),
		ProcessingError:  m.ProcessingError,
		LastProcessed:    m.LastProcessed,
		IsDeleted:        m.IsDeleted,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}, nil
}
