package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/contractor-dev/contractor/internal/adapters/outbound/baseline"
	"github.com/contractor-dev/contractor/internal/adapters/outbound/config"
	"github.com/contractor-dev/contractor/internal/adapters/outbound/extractor"
	"github.com/contractor-dev/contractor/internal/adapters/outbound/gitinfo"
	"github.com/contractor-dev/contractor/internal/adapters/outbound/history"
	"github.com/contractor-dev/contractor/internal/adapters/outbound/scanner"
	"github.com/contractor-dev/contractor/internal/adapters/outbound/tui"
	"github.com/contractor-dev/contractor/internal/application"
	"github.com/contractor-dev/contractor/internal/domain"
)

func newValidateService() *application.ValidateService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return application.NewValidateService(
		scanner.New(logger),
		extractor.New(),
		config.New(),
		baseline.New(),
		logger,
	)
}

func newValidateCmd() *cobra.Command {
	var (
		jsonOutput  bool
		ciMode      bool
		minPct      float64
		showHistory bool
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate all contracts under a source tree",
		Long:  "Extract every interface, type alias, and class, apply the compliance rules, diff against the previous run's baseline, and print the report.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			result, err := newValidateService().ValidateProject(absPath)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			report := result.Report

			// Attach git commit hash if available
			gi := gitinfo.New()
			if hash, err := gi.CommitHash(absPath); err == nil {
				report.CommitHash = hash
			}

			// Save to history
			hist := history.New()
			entry := domain.ReportEntry{
				Timestamp:  time.Now().Format(time.RFC3339),
				CommitHash: report.CommitHash,
				Compliance: report.OverallCompliance,
				Contracts:  report.ContractCount,
				Violations: totalViolations(report),
				Breaking:   report.CompatibilityMatrix.BreakingChanges,
			}
			_ = hist.Save(absPath, entry) // best-effort

			if showHistory {
				entries, err := hist.Load(absPath)
				if err != nil {
					return fmt.Errorf("loading history: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
				return nil
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			}

			if ciMode {
				floor := minPct
				if floor == 0 {
					floor = result.Config.MinCompliance
				}
				if report.OverallCompliance < floor {
					return fmt.Errorf("compliance %.1f%% is below minimum %.1f%%", report.OverallCompliance, floor)
				}
				if gateBreached(report, result.Config.FailOn) {
					return fmt.Errorf("%s violations present", result.Config.FailOn)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output report as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 below --min or on gated violations")
	cmd.Flags().Float64Var(&minPct, "min", 0, "Minimum compliance percentage for CI mode")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Show report history")

	return cmd
}

func totalViolations(report *domain.ValidationReport) int {
	total := 0
	for _, n := range report.ViolationsBySeverity {
		total += n
	}
	return total
}

func gateBreached(report *domain.ValidationReport, failOn string) bool {
	if report.ViolationsBySeverity[domain.SeverityCritical] > 0 {
		return true
	}
	return failOn == domain.SeverityHigh && report.ViolationsBySeverity[domain.SeverityHigh] > 0
}
