package domain

import (
	"fmt"
	"time"
)

// Contract is the versioned model of one structural declaration
// (interface, type alias, or class) extracted from source.
type Contract struct {
	Name       string           `json:"name"`
	Kind       string           `json:"kind"`
	Version    string           `json:"version"`
	SourceFile string           `json:"source_file"`
	Line       int              `json:"line"`
	Properties []PropertyModel  `json:"properties,omitempty"`
	Methods    []MethodModel    `json:"methods,omitempty"`
	Metadata   ContractMetadata `json:"metadata"`
}

const (
	KindInterface = "interface"
	KindTypeAlias = "type_alias"
	KindClass     = "class"
)

// DefaultVersion is assumed for contracts that carry no @version tag.
const DefaultVersion = "1.0.0"

// Identity is the stable key addressing one contract within a run.
type Identity struct {
	Name         string    `json:"name"`
	SourceFile   string    `json:"source_file"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// Key returns the lookup key used by the store and caches.
func (id Identity) Key() string {
	return id.Name + "@" + id.SourceFile
}

// IdentityOf derives the identity for an extracted contract.
func IdentityOf(c Contract, discoveredAt time.Time) Identity {
	return Identity{Name: c.Name, SourceFile: c.SourceFile, DiscoveredAt: discoveredAt}
}

// PropertyModel describes one property of a contract.
type PropertyModel struct {
	Name          string       `json:"name"`
	Type          string       `json:"type"`
	IsOptional    bool         `json:"is_optional"`
	IsReadonly    bool         `json:"is_readonly"`
	Documentation string       `json:"documentation,omitempty"`
	Constraints   []Constraint `json:"constraints,omitempty"`
	Version       string       `json:"version"`
	Deprecated    *Deprecation `json:"deprecated,omitempty"`
}

// MethodModel describes one method of a contract.
type MethodModel struct {
	Name          string           `json:"name"`
	Parameters    []ParameterModel `json:"parameters,omitempty"`
	ReturnType    string           `json:"return_type"`
	IsAsync       bool             `json:"is_async"`
	IsOptional    bool             `json:"is_optional"`
	Documentation string           `json:"documentation,omitempty"`
	Version       string           `json:"version"`
	SideEffects   []string         `json:"side_effects,omitempty"`
	Deprecated    *Deprecation     `json:"deprecated,omitempty"`
}

// ParameterModel describes one method parameter.
type ParameterModel struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsOptional   bool   `json:"is_optional"`
	DefaultValue string `json:"default_value,omitempty"`
}

// Deprecation marks a member as deprecated, optionally naming its replacement.
type Deprecation struct {
	Reason      string `json:"reason,omitempty"`
	Replacement string `json:"replacement,omitempty"`
}

// Constraint is a declared restriction on a property value.
type Constraint struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value,omitempty"`
}

const (
	ConstraintMin      = "min"
	ConstraintMax      = "max"
	ConstraintRequired = "required"
)

// ContractMetadata holds visibility, documentation, and lifecycle data
// derived from the declaration site.
type ContractMetadata struct {
	IsExported      bool                   `json:"is_exported"`
	IsPublic        bool                   `json:"is_public"`
	Documentation   string                 `json:"documentation,omitempty"`
	Tags            []string               `json:"tags,omitempty"`
	Stability       string                 `json:"stability"`
	BreakingChanges []BreakingChangeRecord `json:"breaking_changes,omitempty"`
}

const (
	StabilityStable       = "stable"
	StabilityBeta         = "beta"
	StabilityExperimental = "experimental"
	StabilityDeprecated   = "deprecated"
)

// BreakingChangeRecord is one classified difference between two versions
// of the same contract, or a change declared via an @breaking tag.
type BreakingChangeRecord struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Impact      string    `json:"impact"`
	Migration   string    `json:"migration,omitempty"`
	Version     string    `json:"version"`
	DetectedAt  time.Time `json:"detected_at"`
}

const (
	ChangePropertyAdded          = "property_added"
	ChangePropertyRemoved        = "property_removed"
	ChangePropertyTypeChanged    = "property_type_changed"
	ChangeMethodAdded            = "method_added"
	ChangeMethodRemoved          = "method_removed"
	ChangeMethodSignatureChanged = "method_signature_changed"
)

const (
	ImpactLow      = "low"
	ImpactHigh     = "high"
	ImpactCritical = "critical"
)

// Violation is one detected deviation from a compliance rule. Violations
// are derived fresh each validation pass and never stored on the contract.
type Violation struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	Severity     string       `json:"severity"`
	ContractName string       `json:"contract_name"`
	Description  string       `json:"description"`
	Location     string       `json:"location"`
	Suggestion   string       `json:"suggestion"`
	Impact       ImpactVector `json:"impact"`
	Examples     []string     `json:"examples,omitempty"`
	DetectedAt   time.Time    `json:"detected_at"`
}

const (
	ViolationDocumentation  = "documentation"
	ViolationVersioning     = "versioning"
	ViolationStability      = "stability"
	ViolationBreakingChange = "breaking_change"
	ViolationCompatibility  = "compatibility"
)

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SeverityRank orders severities for sorting and compliance math.
func SeverityRank(severity string) int {
	switch severity {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ImpactVector scores a violation on four compatibility axes, each 0.0–1.0.
type ImpactVector struct {
	BackwardCompatibility float64 `json:"backward_compatibility"`
	ForwardCompatibility  float64 `json:"forward_compatibility"`
	Stability             float64 `json:"stability"`
	Usability             float64 `json:"usability"`
}

// Changeset is the structured diff between two versions of one contract.
type Changeset struct {
	ContractName  string                 `json:"contract_name"`
	Changes       []BreakingChangeRecord `json:"changes,omitempty"`
	Additions     []string               `json:"additions,omitempty"`
	Removals      []string               `json:"removals,omitempty"`
	Modifications []string               `json:"modifications,omitempty"`
}

// HasCritical reports whether any change in the set carries critical impact.
func (c Changeset) HasCritical() bool {
	for _, ch := range c.Changes {
		if ch.Impact == ImpactCritical {
			return true
		}
	}
	return false
}

// HasHigh reports whether any change in the set carries high impact.
func (c Changeset) HasHigh() bool {
	for _, ch := range c.Changes {
		if ch.Impact == ImpactHigh {
			return true
		}
	}
	return false
}

// ValidationReport is the aggregate output of one validation pass.
type ValidationReport struct {
	RunID                string              `json:"run_id"`
	Timestamp            time.Time           `json:"timestamp"`
	CommitHash           string              `json:"commit_hash,omitempty"`
	ContractCount        int                 `json:"contract_count"`
	OverallCompliance    float64             `json:"overall_compliance"`
	ViolationsByType     map[string]int      `json:"violations_by_type"`
	ViolationsBySeverity map[string]int      `json:"violations_by_severity"`
	TopViolations        []Violation         `json:"top_violations"`
	CompatibilityMatrix  CompatibilityMatrix `json:"compatibility_matrix"`
	Recommendations      Recommendations     `json:"recommendations"`
	Versioning           VersioningStrategy  `json:"versioning"`
	Warnings             []string            `json:"warnings,omitempty"`
}

// CompatibilityMatrix summarizes compatibility posture across all contracts.
type CompatibilityMatrix struct {
	BackwardCompatible int `json:"backward_compatible"`
	ForwardCompatible  int `json:"forward_compatible"`
	BreakingChanges    int `json:"breaking_changes"`
}

// Recommendations groups advice by urgency tier.
type Recommendations struct {
	Immediate []string `json:"immediate"`
	ShortTerm []string `json:"short_term"`
	LongTerm  []string `json:"long_term"`
}

// VersioningStrategy is the semver advice derived from observed changesets.
type VersioningStrategy struct {
	CurrentVersion     string `json:"current_version"`
	RecommendedVersion string `json:"recommended_version"`
	NextVersion        string `json:"next_version"`
	Rationale          string `json:"rationale"`
}

// Location renders a file:line reference for violations and rendering.
func Location(file string, line int) string {
	return fmt.Sprintf("%s:%d", file, line)
}
