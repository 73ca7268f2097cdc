package domain

// SourceScanner enumerates candidate source files under a root path.
type SourceScanner interface {
	Scan(rootPath string, cfg ProjectConfig) (*ScanResult, error)
}

// ScanResult holds the outcome of one filesystem scan.
type ScanResult struct {
	RootPath string   `json:"root_path"`
	Files    []string `json:"files"`
	Warnings []string `json:"warnings,omitempty"`
}

// ContractAnalyzer extracts contract models from one source file.
type ContractAnalyzer interface {
	AnalyzeFile(path string) ([]Contract, error)
}

// ConfigLoader reads project configuration from the project root.
type ConfigLoader interface {
	Load(rootPath string) (ProjectConfig, error)
}

// BaselineStore persists the previous run's contract models so the next
// run can diff against them.
type BaselineStore interface {
	Load(rootPath string) (*Baseline, error)
	Save(baseline *Baseline) error
	Invalidate(rootPath string) error
}

// Baseline is the contract snapshot written at the end of a run.
type Baseline struct {
	RootPath  string     `json:"root_path"`
	SavedAt   string     `json:"saved_at"`
	Contracts []Contract `json:"contracts"`
}

// ReportHistory appends and loads report summaries for trend display.
type ReportHistory interface {
	Save(rootPath string, entry ReportEntry) error
	Load(rootPath string) ([]ReportEntry, error)
}

// ReportEntry is one historical report summary.
type ReportEntry struct {
	Timestamp  string  `json:"timestamp"`
	CommitHash string  `json:"commit_hash,omitempty"`
	Compliance float64 `json:"compliance"`
	Contracts  int     `json:"contracts"`
	Violations int     `json:"violations"`
	Breaking   int     `json:"breaking"`
}

// GitInfo exposes version-control metadata for the project root.
type GitInfo interface {
	IsGitRepo(rootPath string) bool
	CommitHash(rootPath string) (string, error)
}
