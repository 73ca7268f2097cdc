// Package baseline persists the previous run's contract models so the
// next run can diff against them.
package baseline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/contractor-dev/contractor/internal/domain"
)

// Store is a file-based implementation of domain.BaselineStore.
type Store struct{}

// New creates a file-based baseline store.
func New() *Store {
	return &Store{}
}

// Load reads the baseline snapshot from disk. Returns (nil, nil) if no
// baseline exists yet - a first run is not an error.
func (s *Store) Load(rootPath string) (*domain.Baseline, error) {
	data, err := os.ReadFile(baselinePath(rootPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var b domain.Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Save writes the baseline snapshot, creating directories as needed.
func (s *Store) Save(b *domain.Baseline) error {
	dir := filepath.Dir(baselinePath(b.RootPath))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(baselinePath(b.RootPath), data, 0644)
}

// Invalidate removes the baseline file for the given root path.
func (s *Store) Invalidate(rootPath string) error {
	if err := os.Remove(baselinePath(rootPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func baselinePath(rootPath string) string {
	return filepath.Join(rootPath, ".contractor", "cache", "baseline.json")
}
