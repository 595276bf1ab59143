// Package pdf splits statement PDFs into single-page documents for extraction.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/SscSPs/mma_statements/internal/core/domain"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const mimeType = "application/pdf"

var disableConfigDir sync.Once

// newConfiguration returns a fresh configuration per call; pdfcpu writes to it
// while processing.
func newConfiguration() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// IsPDF reports whether the file is a PDF by content type or magic bytes.
func IsPDF(contentType string, data []byte) bool {
	if strings.EqualFold(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]), mimeType) {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// PageCount returns the number of pages in a PDF document.
func PageCount(data []byte) (int, error) {
	info, err := api.PDFInfo(bytes.NewReader(data), "statement.pdf", nil, newConfiguration())
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF info: %w", err)
	}
	return info.PageCount, nil
}

// SplitPages hands each page of a PDF to the extractor as its own single-page
// PDF. Images and other files are handed on whole as page 1.
func SplitPages(contentType string, data []byte) ([]domain.Page, error) {
	if len(data) == 0 {
		return nil, errors.New("statement file is empty")
	}
	if !IsPDF(contentType, data) {
		return []domain.Page{{Number: 1, MIMEType: contentType, Data: data}}, nil
	}

	count, err := PageCount(data)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("statement PDF has no pages")
	}
	if count == 1 {
		return []domain.Page{{Number: 1, MIMEType: mimeType, Data: data}}, nil
	}

	pages := make([]domain.Page, 0, count)
	for n := 1; n <= count; n++ {
		var buf bytes.Buffer
		if err := api.Trim(bytes.NewReader(data), &buf, []string{strconv.Itoa(n)}, newConfiguration()); err != nil {
			return nil, fmt.Errorf("failed to extract PDF page %d: %w", n, err)
		}
		pages = append(pages, domain.Page{Number: n, MIMEType: mimeType, Data: buf.Bytes()})
	}
	return pages, nil
}
