package services

import (
	"fmt"

	"github.com/SscSPs/mma_statements/internal/core/classification"
	"github.com/SscSPs/mma_statements/internal/core/ports"
	portsrepo "github.com/SscSPs/mma_statements/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_statements/internal/core/ports/services"
	"github.com/SscSPs/mma_statements/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// tracker may be nil. opts are applied to the statement service after the config-derived ones.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	extractor ports.Extractor,
	files ports.FileStore,
	tracker ports.EventTracker,
	opts ...StatementServiceOption,
) (*portssvc.ServiceContainer, error) {
	classifier, err := newClassifier(cfg)
	if err != nil {
		return nil, err
	}

	duplicates := NewDuplicateResolver(repos.LedgerRepo, WithDateWindowDays(cfg.DuplicateDateWindowDays))
	importer := NewLedgerImporter(repos, classifier, duplicates)
	reconciler := NewBalanceReconciler(repos.LedgerRepo, cfg.ReconciliationTolerance)

	statementOpts := []StatementServiceOption{WithMaxUploadBytes(cfg.MaxUploadBytes)}
	if tracker != nil {
		statementOpts = append(statementOpts, WithEventTracker(tracker))
	}
	statementOpts = append(statementOpts, opts...)

	return &portssvc.ServiceContainer{
		Statement: NewStatementService(repos, extractor, files, importer, reconciler, statementOpts...),
	}, nil
}

func newClassifier(cfg *config.Config) (*classification.Classifier, error) {
	opts := []classification.Option{classification.WithDiningThreshold(cfg.DiningWantsThreshold)}
	if cfg.ClassifierRulesPath == "" {
		return classification.NewDefault(opts...)
	}
	tables, err := classification.LoadTables(cfg.ClassifierRulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier rules from %s: %w", cfg.ClassifierRulesPath, err)
	}
	return classification.New(tables, opts...), nil
}
