package classification

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var embeddedTables []byte

// CategoryRule maps a category name to the keywords that select it.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// TransferPair matches when the anchor and any companion both occur in the text.
type TransferPair struct {
	Anchor     string   `yaml:"anchor"`
	Companions []string `yaml:"companions"`
}

// Tables is the full set of keyword tables used by the Classifier.
type Tables struct {
	Categories          []CategoryRule `yaml:"categories"`
	IncomeCategories    []CategoryRule `yaml:"income_categories"`
	TransferKeywords    []string       `yaml:"transfer_keywords"`
	TransferPairs       []TransferPair `yaml:"transfer_pairs"`
	IntraPersonKeywords []string       `yaml:"intra_person_keywords"`
	ShoppingKeywords    []string       `yaml:"shopping_keywords"`
	DiningKeywords      []string       `yaml:"dining_keywords"`
	DiningOutKeywords   []string       `yaml:"dining_out_keywords"`
	WantsKeywords       []string       `yaml:"wants_keywords"`
	NeedsKeywords       []string       `yaml:"needs_keywords"`
}

// LoadTables reads keyword tables from path, or the embedded defaults when path is empty.
func LoadTables(path string) (*Tables, error) {
	data := embeddedTables
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read classifier tables %q: %w", path, err)
		}
		data = b
	}
	return ParseTables(data)
}

// ParseTables decodes and validates YAML keyword tables. Keywords are folded on load.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse classifier tables: %w", err)
	}
	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("classifier tables define no categories")
	}
	for i := range t.Categories {
		if strings.TrimSpace(t.Categories[i].Name) == "" {
			return nil, fmt.Errorf("category %d has no name", i)
		}
		t.Categories[i].Keywords = foldAll(t.Categories[i].Keywords)
	}
	for i := range t.IncomeCategories {
		t.IncomeCategories[i].Keywords = foldAll(t.IncomeCategories[i].Keywords)
	}
	for i := range t.TransferPairs {
		t.TransferPairs[i].Anchor = fold(t.TransferPairs[i].Anchor)
		t.TransferPairs[i].Companions = foldAll(t.TransferPairs[i].Companions)
	}
	t.TransferKeywords = foldAll(t.TransferKeywords)
	t.IntraPersonKeywords = foldAll(t.IntraPersonKeywords)
	t.ShoppingKeywords = foldAll(t.ShoppingKeywords)
	t.DiningKeywords = foldAll(t.DiningKeywords)
	t.DiningOutKeywords = foldAll(t.DiningOutKeywords)
	t.WantsKeywords = foldAll(t.WantsKeywords)
	t.NeedsKeywords = foldAll(t.NeedsKeywords)
	return &t, nil
}

func foldAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if f := fold(k); f != "" {
			out = append(out, f)
		}
	}
	return out
}
