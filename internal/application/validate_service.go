package application

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/contractor-dev/contractor/internal/domain"
	"github.com/contractor-dev/contractor/internal/domain/diff"
	"github.com/contractor-dev/contractor/internal/domain/rules"
)

// ValidateService orchestrates the validation pipeline:
// config → scan → extract → store → rules → baseline diff → aggregate.
type ValidateService struct {
	scanner      domain.SourceScanner
	analyzer     domain.ContractAnalyzer
	configLoader domain.ConfigLoader
	baseline     domain.BaselineStore
	logger       *slog.Logger
}

// NewValidateService creates a ValidateService with all required adapters.
func NewValidateService(
	scanner domain.SourceScanner,
	analyzer domain.ContractAnalyzer,
	configLoader domain.ConfigLoader,
	baseline domain.BaselineStore,
	logger *slog.Logger,
) *ValidateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateService{
		scanner:      scanner,
		analyzer:     analyzer,
		configLoader: configLoader,
		baseline:     baseline,
		logger:       logger,
	}
}

// ValidationResult bundles the report with the store that produced it so
// callers can run lookups after the pass.
type ValidationResult struct {
	Report *domain.ValidationReport
	Store  *domain.ContractStore
	Config domain.ProjectConfig
}

// ValidateProject runs one full validation pass over rootPath. Only an
// unreadable root is fatal; every other failure degrades to a warning on
// the report.
func (s *ValidateService) ValidateProject(rootPath string) (*ValidationResult, error) {
	cfg, err := s.configLoader.Load(rootPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	scan, err := s.scanner.Scan(rootPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", rootPath, err)
	}

	now := time.Now()
	store := domain.NewContractStore()
	warnings := append([]string(nil), scan.Warnings...)

	// Replay the previous run's models into version history so the diff
	// engine has something to compare against.
	prior, err := s.baseline.Load(scan.RootPath)
	if err != nil {
		s.logger.Warn("baseline unreadable, diffing disabled for this run", "error", err)
		warnings = append(warnings, fmt.Sprintf("baseline unreadable: %v", err))
	} else if prior != nil {
		for _, c := range prior.Contracts {
			store.Seed(c, now)
		}
	}

	for _, relPath := range scan.Files {
		contracts, err := s.analyzer.AnalyzeFile(filepath.Join(scan.RootPath, relPath))
		if err != nil {
			s.logger.Warn("file skipped", "file", relPath, "error", err)
			warnings = append(warnings, fmt.Sprintf("file skipped %s: %v", relPath, err))
			continue
		}
		for _, c := range contracts {
			c.SourceFile = relPath
			store.Put(c, now)
		}
	}

	for _, c := range store.Contracts() {
		store.SetViolations(c, rules.Validate(c, now))

		// Diff only runs when this exact identity has prior versions; a
		// same-named contract in another file must never supply history.
		history := store.PriorVersions(c)
		if len(history) == 0 {
			continue
		}
		previous := history[len(history)-1]
		store.SetChangeset(c, diff.Compare(previous, c, now))
	}

	report := domain.BuildReport(store, uuid.NewString(), now)
	report.Warnings = warnings

	if err := s.saveBaseline(scan.RootPath, store, now); err != nil {
		s.logger.Warn("baseline not saved", "error", err)
		report.Warnings = append(report.Warnings, fmt.Sprintf("baseline not saved: %v", err))
	}

	return &ValidationResult{Report: report, Store: store, Config: cfg}, nil
}

func (s *ValidateService) saveBaseline(rootPath string, store *domain.ContractStore, now time.Time) error {
	return s.baseline.Save(&domain.Baseline{
		RootPath:  rootPath,
		SavedAt:   now.Format(time.RFC3339),
		Contracts: store.Contracts(),
	})
}
