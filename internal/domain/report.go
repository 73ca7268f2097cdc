package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const topViolationLimit = 10

// BuildReport aggregates the store's contracts, violation cache, and
// changesets into a validation report. The report is always produced,
// even for an empty store.
func BuildReport(store *ContractStore, runID string, timestamp time.Time) *ValidationReport {
	contracts := store.Contracts()
	violations := store.AllViolations()
	changesets := store.Changesets()

	report := &ValidationReport{
		RunID:                runID,
		Timestamp:            timestamp,
		ContractCount:        len(contracts),
		OverallCompliance:    overallCompliance(store, contracts),
		ViolationsByType:     countBy(violations, func(v Violation) string { return v.Type }),
		ViolationsBySeverity: countBy(violations, func(v Violation) string { return v.Severity }),
		TopViolations:        topViolations(violations),
		CompatibilityMatrix:  compatibilityMatrix(store, contracts, changesets),
		Versioning:           versioningStrategy(changesets),
	}
	report.Recommendations = recommendations(report, changesets)
	return report
}

// overallCompliance is the percentage of contracts free of critical and
// high violations. An empty store is fully compliant.
func overallCompliance(store *ContractStore, contracts []Contract) float64 {
	if len(contracts) == 0 {
		return 100
	}
	compliant := 0
	for _, c := range contracts {
		if noCriticalOrHigh(store.violationsOf(c)) {
			compliant++
		}
	}
	return math.Round(float64(compliant)/float64(len(contracts))*10000) / 100
}

func countBy(violations []Violation, key func(Violation) string) map[string]int {
	counts := make(map[string]int)
	for _, v := range violations {
		counts[key(v)]++
	}
	return counts
}

// topViolations sorts descending by severity rank, breaking ties by
// contract name then ID so output is reproducible, and truncates to 10.
func topViolations(violations []Violation) []Violation {
	sorted := make([]Violation, len(violations))
	copy(sorted, violations)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := SeverityRank(sorted[i].Severity), SeverityRank(sorted[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if sorted[i].ContractName != sorted[j].ContractName {
			return sorted[i].ContractName < sorted[j].ContractName
		}
		return sorted[i].ID < sorted[j].ID
	})
	if len(sorted) > topViolationLimit {
		sorted = sorted[:topViolationLimit]
	}
	return sorted
}

func compatibilityMatrix(store *ContractStore, contracts []Contract, changesets []Changeset) CompatibilityMatrix {
	matrix := CompatibilityMatrix{}
	for _, c := range contracts {
		if len(store.breakingOf(c)) == 0 {
			matrix.BackwardCompatible++
		}
		if c.Metadata.Stability == StabilityStable {
			matrix.ForwardCompatible++
		}
	}
	for _, cs := range changesets {
		matrix.BreakingChanges += len(cs.Changes)
	}
	return matrix
}

func versioningStrategy(changesets []Changeset) VersioningStrategy {
	strategy := VersioningStrategy{CurrentVersion: DefaultVersion}

	anyCritical, anyHigh := false, false
	for _, cs := range changesets {
		if cs.HasCritical() {
			anyCritical = true
		}
		if cs.HasHigh() {
			anyHigh = true
		}
	}

	switch {
	case anyCritical:
		strategy.RecommendedVersion = "2.0.0"
		strategy.Rationale = "critical breaking changes require a major version bump"
	case anyHigh:
		strategy.RecommendedVersion = "1.1.0"
		strategy.Rationale = "high-impact changes warrant a minor version bump"
	default:
		strategy.RecommendedVersion = "1.1.0"
		strategy.Rationale = "no breaking changes detected; a minor bump covers additions"
	}
	strategy.NextVersion = strategy.RecommendedVersion
	return strategy
}

func recommendations(report *ValidationReport, changesets []Changeset) Recommendations {
	rec := Recommendations{}

	criticalCount := report.ViolationsBySeverity[SeverityCritical]
	breaking := report.CompatibilityMatrix.BreakingChanges
	if criticalCount > 0 {
		rec.Immediate = append(rec.Immediate,
			fmt.Sprintf("Resolve %d critical violation(s) before the next release", criticalCount))
	}
	if breaking > 0 {
		rec.Immediate = append(rec.Immediate,
			fmt.Sprintf("Review %d breaking change(s) and publish migration guides", breaking))
	}

	rec.ShortTerm = append(rec.ShortTerm,
		"Document all public contracts and their members",
		"Adopt an explicit versioning strategy with @version tags",
		"Run contract validation in CI to catch regressions early",
	)
	rec.LongTerm = append(rec.LongTerm,
		"Establish a deprecation policy with replacement guidance",
		"Review contract stability tiers each release cycle",
	)
	return rec
}
