package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/contractor-dev/contractor/internal/domain"
)

var (
	tagRe       = regexp.MustCompile(`@([A-Za-z][A-Za-z0-9_-]*)`)
	versionRe   = regexp.MustCompile(`@version\s+(\S+)`)
	seeRe       = regexp.MustCompile(`@see\s+(\S+)`)
	useRe       = regexp.MustCompile(`(?i)\buse\s+([A-Za-z_$][A-Za-z0-9_$.]*)`)
	minRe       = regexp.MustCompile(`@min\s+(-?\d+(?:\.\d+)?)`)
	maxRe       = regexp.MustCompile(`@max\s+(-?\d+(?:\.\d+)?)`)
	breakingRe  = regexp.MustCompile(`@breaking\s+(.*)`)
	migrationRe = regexp.MustCompile(`@migration\s+(.*)`)
	effectRe    = regexp.MustCompile(`@sideeffect\s+(.*)`)
)

// resolveMetadata walks backward from the trigger line collecting the
// contiguous comment block, then derives version, stability, tags, and
// visibility for the contract.
func resolveMetadata(contract *domain.Contract, lines []string, triggerIdx int) {
	doc := precedingDoc(lines, triggerIdx)

	contract.Version = domain.DefaultVersion
	if m := versionRe.FindStringSubmatch(doc); m != nil {
		contract.Version = m[1]
	}

	meta := domain.ContractMetadata{
		Documentation: doc,
		Tags:          docTags(doc),
		Stability:     stabilityOf(doc),
	}

	declLine := lines[triggerIdx]
	meta.IsExported = strings.Contains(declLine, "export ")
	meta.IsPublic = meta.IsExported || reExported(lines, contract.Name)
	meta.BreakingChanges = declaredBreakingChanges(doc, contract.Version)

	contract.Metadata = meta
}

// precedingDoc collects contiguous comment lines immediately above the
// trigger and joins their text. Returns "" when the declaration is
// undocumented.
func precedingDoc(lines []string, triggerIdx int) string {
	var collected []string
	for i := triggerIdx - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !isCommentLine(line) {
			break
		}
		collected = append([]string{line}, collected...)
	}
	return joinDoc(collected)
}

// joinDoc strips comment markers and joins the remaining text.
func joinDoc(commentLines []string) string {
	var parts []string
	for _, line := range commentLines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}

func docTags(doc string) []string {
	matches := tagRe.FindAllStringSubmatch(doc, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// stabilityOf checks tags in priority order: experimental, beta,
// deprecated, then stable.
func stabilityOf(doc string) string {
	lower := strings.ToLower(doc)
	switch {
	case strings.Contains(lower, "@experimental"):
		return domain.StabilityExperimental
	case strings.Contains(lower, "@beta"):
		return domain.StabilityBeta
	case strings.Contains(lower, "@deprecated"):
		return domain.StabilityDeprecated
	default:
		return domain.StabilityStable
	}
}

// reExported checks for an export statement naming the declaration
// elsewhere in the file.
func reExported(lines []string, name string) bool {
	for _, line := range lines {
		if !strings.Contains(line, "export") {
			continue
		}
		if strings.Contains(line, "export { ") && strings.Contains(line, name) {
			return true
		}
		if strings.Contains(line, "export default "+name) {
			return true
		}
	}
	return false
}

// declaredBreakingChanges reads @breaking tags from the contract docs.
// A @migration tag in the same block supplies the migration text.
func declaredBreakingChanges(doc, version string) []domain.BreakingChangeRecord {
	matches := breakingRe.FindAllStringSubmatch(doc, -1)
	if len(matches) == 0 {
		return nil
	}
	migration := ""
	if m := migrationRe.FindStringSubmatch(doc); m != nil {
		migration = strings.TrimSpace(m[1])
	}
	records := make([]domain.BreakingChangeRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, domain.BreakingChangeRecord{
			Type:        domain.ChangeMethodSignatureChanged,
			Description: strings.TrimSpace(m[1]),
			Impact:      domain.ImpactCritical,
			Migration:   migration,
			Version:     version,
		})
	}
	return records
}

// applyMemberDoc fills a member's documentation, version override, and
// deprecation from its preceding comment block.
func applyMemberDoc(doc string, documentation, version *string, deprecated **domain.Deprecation) {
	if doc == "" {
		return
	}
	*documentation = doc
	if m := versionRe.FindStringSubmatch(doc); m != nil {
		*version = m[1]
	}
	lower := strings.ToLower(doc)
	if !strings.Contains(lower, "@deprecated") {
		return
	}
	dep := &domain.Deprecation{}
	if idx := strings.Index(lower, "@deprecated"); idx >= 0 {
		rest := doc[idx+len("@deprecated"):]
		if nl := strings.Index(rest, "\n"); nl >= 0 {
			rest = rest[:nl]
		}
		dep.Reason = strings.TrimSpace(rest)
	}
	if m := seeRe.FindStringSubmatch(doc); m != nil {
		dep.Replacement = m[1]
	} else if m := useRe.FindStringSubmatch(dep.Reason); m != nil {
		dep.Replacement = m[1]
	}
	*deprecated = dep
}

// parseConstraints reads @min/@max/@required tags from a member doc into
// the constraint variants.
func parseConstraints(doc string) []domain.Constraint {
	if doc == "" {
		return nil
	}
	var constraints []domain.Constraint
	if m := minRe.FindStringSubmatch(doc); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			constraints = append(constraints, domain.Constraint{Kind: domain.ConstraintMin, Value: v})
		}
	}
	if m := maxRe.FindStringSubmatch(doc); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			constraints = append(constraints, domain.Constraint{Kind: domain.ConstraintMax, Value: v})
		}
	}
	if strings.Contains(strings.ToLower(doc), "@required") {
		constraints = append(constraints, domain.Constraint{Kind: domain.ConstraintRequired})
	}
	return constraints
}

func parseSideEffects(doc string) []string {
	if doc == "" {
		return nil
	}
	matches := effectRe.FindAllStringSubmatch(doc, -1)
	if len(matches) == 0 {
		return nil
	}
	effects := make([]string, 0, len(matches))
	for _, m := range matches {
		effects = append(effects, strings.TrimSpace(m[1]))
	}
	return effects
}
