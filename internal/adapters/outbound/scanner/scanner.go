// Package scanner implements domain.SourceScanner by walking the
// filesystem, pruning ignored directories entirely rather than filtering
// their contents afterwards.
package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/contractor-dev/contractor/internal/domain"
)

// skipDirs are pruned unconditionally: dependency caches, VCS metadata,
// build output, coverage output.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"coverage":     true,
	".contractor":  true,
}

// FileScanner walks a source tree collecting candidate contract files.
type FileScanner struct {
	logger *slog.Logger
}

// New creates a FileScanner logging warnings to the given logger.
// A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *FileScanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileScanner{logger: logger}
}

// Scan enumerates candidate files under rootPath. An unreadable root is
// the only fatal condition; unreadable subtrees are skipped with a
// warning so one bad directory never aborts the scan.
func (s *FileScanner) Scan(rootPath string, cfg domain.ProjectConfig) (*domain.ScanResult, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("root path %s: %w", rootPath, err)
	}

	result := &domain.ScanResult{RootPath: absPath}

	err = filepath.WalkDir(absPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warning := fmt.Sprintf("skipping %s: %v", path, err)
			s.logger.Warn("scan warning", "path", path, "error", err)
			result.Warnings = append(result.Warnings, warning)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, relErr := filepath.Rel(absPath, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path != absPath && (skipDirs[d.Name()] || cfg.IsExcluded(relPath)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !cfg.MatchesExtension(d.Name()) || cfg.IsExcluded(relPath) {
			return nil
		}

		result.Files = append(result.Files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
