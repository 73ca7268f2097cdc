// Package rules implements the five compliance rule families applied to
// each contract model. Families are pure and order-independent; Validate
// simply concatenates their results.
package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/contractor-dev/contractor/internal/domain"
)

// Impact vectors are fixed literals per rule family so identical input
// always produces bit-identical scores.
var (
	impactDocumentation = domain.ImpactVector{BackwardCompatibility: 0.1, ForwardCompatibility: 0.1, Stability: 0.3, Usability: 0.8}
	impactVersioning    = domain.ImpactVector{BackwardCompatibility: 0.5, ForwardCompatibility: 0.5, Stability: 0.6, Usability: 0.4}
	impactStability     = domain.ImpactVector{BackwardCompatibility: 0.4, ForwardCompatibility: 0.3, Stability: 0.7, Usability: 0.5}
	impactBreaking      = domain.ImpactVector{BackwardCompatibility: 1.0, ForwardCompatibility: 0.8, Stability: 0.9, Usability: 0.7}
	impactCompatibility = domain.ImpactVector{BackwardCompatibility: 0.6, ForwardCompatibility: 0.4, Stability: 0.5, Usability: 0.6}
)

// knownTypos is the narrow, hardcoded misspelling check carried over from
// the surrounding tooling. Deliberately not expanded.
var knownTypos = []struct{ typo, correct string }{
	{"recieve", "receive"},
	{"seperate", "separate"},
}

// Validate applies all five rule families to one contract.
func Validate(c domain.Contract, detectedAt time.Time) []domain.Violation {
	var out []domain.Violation
	out = append(out, checkDocumentation(c, detectedAt)...)
	out = append(out, checkVersioning(c, detectedAt)...)
	out = append(out, checkStability(c, detectedAt)...)
	out = append(out, checkBreakingChanges(c, detectedAt)...)
	out = append(out, checkCompatibility(c, detectedAt)...)
	return out
}

// violation builds a violation with a deterministic ID derived from the
// rule type, contract, and subject.
func violation(c domain.Contract, vtype, subject, severity, description, suggestion string, impact domain.ImpactVector, detectedAt time.Time) domain.Violation {
	return domain.Violation{
		ID:           fmt.Sprintf("%s:%s:%s", vtype, c.Name, subject),
		Type:         vtype,
		Severity:     severity,
		ContractName: c.Name,
		Description:  description,
		Location:     domain.Location(c.SourceFile, c.Line),
		Suggestion:   suggestion,
		Impact:       impact,
		DetectedAt:   detectedAt,
	}
}

func checkDocumentation(c domain.Contract, detectedAt time.Time) []domain.Violation {
	var out []domain.Violation

	if c.Metadata.Documentation == "" {
		out = append(out, violation(c, domain.ViolationDocumentation, "contract",
			domain.SeverityMedium,
			fmt.Sprintf("contract %s has no documentation", c.Name),
			"add a doc comment above the declaration describing its purpose",
			impactDocumentation, detectedAt))
	} else {
		out = append(out, checkTypos(c, detectedAt)...)
	}

	for _, p := range c.Properties {
		if p.Documentation == "" {
			out = append(out, violation(c, domain.ViolationDocumentation, "property."+p.Name,
				domain.SeverityLow,
				fmt.Sprintf("property %s.%s has no documentation", c.Name, p.Name),
				fmt.Sprintf("document what %s holds and when it is set", p.Name),
				impactDocumentation, detectedAt))
		}
	}
	for _, m := range c.Methods {
		if m.Documentation == "" {
			out = append(out, violation(c, domain.ViolationDocumentation, "method."+m.Name,
				domain.SeverityLow,
				fmt.Sprintf("method %s.%s has no documentation", c.Name, m.Name),
				fmt.Sprintf("document the behavior and error cases of %s", m.Name),
				impactDocumentation, detectedAt))
		}
	}
	return out
}

func checkTypos(c domain.Contract, detectedAt time.Time) []domain.Violation {
	var out []domain.Violation
	lower := strings.ToLower(c.Metadata.Documentation)
	for _, t := range knownTypos {
		if strings.Contains(lower, t.typo) {
			v := violation(c, domain.ViolationDocumentation, "typo."+t.typo,
				domain.SeverityLow,
				fmt.Sprintf("documentation of %s contains misspelling %q", c.Name, t.typo),
				fmt.Sprintf("replace %q with %q", t.typo, t.correct),
				impactDocumentation, detectedAt)
			v.Examples = []string{t.typo + " -> " + t.correct}
			out = append(out, v)
		}
	}
	return out
}

func checkVersioning(c domain.Contract, detectedAt time.Time) []domain.Violation {
	if c.Version != "" && c.Version != domain.DefaultVersion {
		return nil
	}
	return []domain.Violation{violation(c, domain.ViolationVersioning, "version",
		domain.SeverityMedium,
		fmt.Sprintf("contract %s has no explicit version (still at default %s)", c.Name, domain.DefaultVersion),
		"declare an @version tag and bump it when the contract changes",
		impactVersioning, detectedAt)}
}

// checkStability requires experimental contracts to warn their consumers
// in prose, not just via the @experimental tag.
func checkStability(c domain.Contract, detectedAt time.Time) []domain.Violation {
	if c.Metadata.Stability != domain.StabilityExperimental {
		return nil
	}
	lower := strings.ToLower(c.Metadata.Documentation)
	if strings.Contains(lower, "warning") || strings.Contains(lower, "subject to change") {
		return nil
	}
	v := violation(c, domain.ViolationStability, "experimental",
		domain.SeverityMedium,
		fmt.Sprintf("experimental contract %s does not warn consumers", c.Name),
		"state explicitly that the contract is experimental and subject to change",
		impactStability, detectedAt)
	v.Examples = []string{"WARNING: experimental API, subject to change without notice"}
	return []domain.Violation{v}
}

func checkBreakingChanges(c domain.Contract, detectedAt time.Time) []domain.Violation {
	var out []domain.Violation
	for _, bc := range c.Metadata.BreakingChanges {
		if bc.Migration != "" {
			continue
		}
		out = append(out, violation(c, domain.ViolationBreakingChange, "breaking."+bc.Type,
			domain.SeverityCritical,
			fmt.Sprintf("breaking change %q on %s has no migration guide", bc.Type, c.Name),
			"supply migration text telling consumers how to adapt",
			impactBreaking, detectedAt))
	}
	return out
}

func checkCompatibility(c domain.Contract, detectedAt time.Time) []domain.Violation {
	var out []domain.Violation
	for _, p := range c.Properties {
		if p.Deprecated != nil && p.Deprecated.Replacement == "" {
			out = append(out, violation(c, domain.ViolationCompatibility, "property."+p.Name,
				domain.SeverityMedium,
				fmt.Sprintf("deprecated property %s.%s names no replacement", c.Name, p.Name),
				fmt.Sprintf("point consumers of %s at its replacement via @see", p.Name),
				impactCompatibility, detectedAt))
		}
	}
	for _, m := range c.Methods {
		if m.Deprecated != nil && m.Deprecated.Replacement == "" {
			out = append(out, violation(c, domain.ViolationCompatibility, "method."+m.Name,
				domain.SeverityMedium,
				fmt.Sprintf("deprecated method %s.%s names no replacement", c.Name, m.Name),
				fmt.Sprintf("point callers of %s at its replacement via @see", m.Name),
				impactCompatibility, detectedAt))
		}
	}
	return out
}
