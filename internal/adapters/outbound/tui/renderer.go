package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/contractor-dev/contractor/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	infoStyle     = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	criticalStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

func complianceColor(pct float64) lipgloss.Color {
	switch {
	case pct >= 90:
		return success
	case pct >= 70:
		return warning
	default:
		return danger
	}
}

func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case domain.SeverityCritical:
		return criticalStyle
	case domain.SeverityHigh:
		return failStyle
	case domain.SeverityMedium:
		return warnStyle
	default:
		return infoStyle
	}
}

// RenderReport renders the full validation report for the terminal.
func RenderReport(report *domain.ValidationReport) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("contractor")
	subtitle := dimStyle.Render("Contract Compliance")
	pct := fmt.Sprintf("%.1f%% compliant", report.OverallCompliance)
	pctStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(complianceColor(report.OverallCompliance)).
		Render(pct)
	counts := dimStyle.Render(fmt.Sprintf("%d contracts", report.ContractCount))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + pctStyled + "\n" + counts))
	b.WriteString("\n\n")

	// ── Severity breakdown ──
	b.WriteString("  " + titleStyle.Render("Violations") + "\n")
	for _, sev := range []string{domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow} {
		count := report.ViolationsBySeverity[sev]
		line := fmt.Sprintf("  %-10s %d", sev, count)
		if count == 0 {
			b.WriteString(faintStyle.Render(line))
		} else {
			b.WriteString(severityStyle(sev).Render(line))
		}
		b.WriteString("\n")
	}

	// ── Top violations ──
	if len(report.TopViolations) > 0 {
		b.WriteString("\n  " + separatorLine + "\n\n")
		b.WriteString("  " + titleStyle.Render("Top violations") + "\n")
		for _, v := range report.TopViolations {
			tag := severityStyle(v.Severity).Render(strings.ToUpper(v.Severity))
			b.WriteString(fmt.Sprintf("  %s %s\n", tag, v.Description))
			b.WriteString("    " + dimStyle.Render(v.Location+" · "+v.Suggestion) + "\n")
		}
	}

	// ── Compatibility ──
	b.WriteString("\n  " + separatorLine + "\n\n")
	b.WriteString("  " + titleStyle.Render("Compatibility") + "\n")
	m := report.CompatibilityMatrix
	b.WriteString(fmt.Sprintf("  backward compatible  %s\n", passStyle.Render(fmt.Sprint(m.BackwardCompatible))))
	b.WriteString(fmt.Sprintf("  forward compatible   %s\n", passStyle.Render(fmt.Sprint(m.ForwardCompatible))))
	breakingStyled := passStyle.Render("0")
	if m.BreakingChanges > 0 {
		breakingStyled = failStyle.Render(fmt.Sprint(m.BreakingChanges))
	}
	b.WriteString(fmt.Sprintf("  breaking changes     %s\n", breakingStyled))

	// ── Recommendations ──
	b.WriteString("\n  " + titleStyle.Render("Recommendations") + "\n")
	renderTier(&b, "immediate", report.Recommendations.Immediate, failStyle)
	renderTier(&b, "short term", report.Recommendations.ShortTerm, warnStyle)
	renderTier(&b, "long term", report.Recommendations.LongTerm, dimStyle)

	// ── Versioning ──
	b.WriteString("\n  " + titleStyle.Render("Versioning") + "\n")
	b.WriteString(fmt.Sprintf("  %s → %s\n", report.Versioning.CurrentVersion,
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render(report.Versioning.RecommendedVersion)))
	b.WriteString("  " + dimStyle.Render(report.Versioning.Rationale) + "\n")

	if len(report.Warnings) > 0 {
		b.WriteString("\n  " + warnStyle.Render(fmt.Sprintf("%d warning(s) during scan", len(report.Warnings))) + "\n")
		for _, w := range report.Warnings {
			b.WriteString("  " + dimStyle.Render(w) + "\n")
		}
	}

	if report.ContractCount == 0 {
		b.WriteString("\n  " + dimStyle.Render("No contracts found - nothing to validate.") + "\n")
	}

	return b.String()
}

func renderTier(b *strings.Builder, label string, items []string, style lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	b.WriteString("  " + style.Render(label) + "\n")
	for _, item := range items {
		b.WriteString("    • " + item + "\n")
	}
}

// RenderContracts renders the contract listing.
func RenderContracts(contracts []domain.Contract) string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render(fmt.Sprintf("Contracts (%d)", len(contracts))) + "\n\n")
	for _, c := range contracts {
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			titleStyle.Render(c.Name),
			dimStyle.Render(c.Kind+" v"+c.Version),
			stabilityTag(c.Metadata.Stability)))
		b.WriteString("    " + faintStyle.Render(domain.Location(c.SourceFile, c.Line)) + "\n")
	}
	return b.String()
}

// RenderContract renders one contract with its violations and suggestions.
func RenderContract(c domain.Contract, violations []domain.Violation, suggestions []string) string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render(c.Name) + " " + dimStyle.Render(c.Kind+" v"+c.Version) + " " + stabilityTag(c.Metadata.Stability) + "\n")
	b.WriteString("  " + faintStyle.Render(domain.Location(c.SourceFile, c.Line)) + "\n\n")

	if len(c.Properties) > 0 {
		b.WriteString("  " + titleStyle.Render("Properties") + "\n")
		for _, p := range c.Properties {
			marker := " "
			if p.Deprecated != nil {
				marker = warnStyle.Render("⚠")
			}
			b.WriteString(fmt.Sprintf("  %s %s: %s\n", marker, p.Name, dimStyle.Render(p.Type)))
		}
	}
	if len(c.Methods) > 0 {
		b.WriteString("  " + titleStyle.Render("Methods") + "\n")
		for _, m := range c.Methods {
			b.WriteString(fmt.Sprintf("    %s(%d params): %s\n", m.Name, len(m.Parameters), dimStyle.Render(m.ReturnType)))
		}
	}

	if len(violations) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Violations") + "\n")
		for _, v := range violations {
			tag := severityStyle(v.Severity).Render(strings.ToUpper(v.Severity))
			b.WriteString(fmt.Sprintf("  %s %s\n", tag, v.Description))
		}
	}
	if len(suggestions) > 0 {
		b.WriteString("\n  " + titleStyle.Render("Suggestions") + "\n")
		for _, sg := range suggestions {
			b.WriteString("    • " + sg + "\n")
		}
	}
	return b.String()
}

// RenderChangeset renders the diff between two contract versions.
func RenderChangeset(cs domain.Changeset) string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Changes for "+cs.ContractName) + "\n\n")
	if len(cs.Changes) == 0 {
		b.WriteString("  " + dimStyle.Render("no changes against baseline") + "\n")
		return b.String()
	}
	for _, ch := range cs.Changes {
		style := passStyle
		if ch.Impact == domain.ImpactCritical {
			style = failStyle
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", style.Render(strings.ToUpper(ch.Impact)), ch.Description))
		if ch.Migration != "" {
			b.WriteString("    " + dimStyle.Render("migration: "+ch.Migration) + "\n")
		}
	}
	return b.String()
}

// RenderHistory renders the report trend, newest last.
func RenderHistory(entries []domain.ReportEntry) string {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render("Report history") + "\n\n")
	if len(entries) == 0 {
		b.WriteString("  " + dimStyle.Render("no history recorded yet") + "\n")
		return b.String()
	}
	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		pctStyled := lipgloss.NewStyle().
			Foreground(complianceColor(e.Compliance)).
			Render(fmt.Sprintf("%5.1f%%", e.Compliance))
		b.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
			dimStyle.Render(e.Timestamp),
			pctStyled,
			dimStyle.Render(fmt.Sprintf("%d contracts, %d violations", e.Contracts, e.Violations)),
			faintStyle.Render(hash)))
	}
	return b.String()
}

func stabilityTag(stability string) string {
	switch stability {
	case domain.StabilityExperimental:
		return warnStyle.Render("[experimental]")
	case domain.StabilityBeta:
		return infoStyle.Render("[beta]")
	case domain.StabilityDeprecated:
		return failStyle.Render("[deprecated]")
	default:
		return passStyle.Render("[stable]")
	}
}
