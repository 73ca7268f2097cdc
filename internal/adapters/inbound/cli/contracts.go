package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/contractor-dev/contractor/internal/adapters/outbound/tui"
)

func newContractsCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "contracts [name]",
		Short: "List extracted contracts or inspect one",
		Long:  "Without arguments, lists every contract found under the path. With a name, shows that contract's model, violations, and improvement suggestions.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			result, err := newValidateService().ValidateProject(absPath)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			store := result.Store

			if len(args) == 0 {
				contracts := store.Contracts()
				if jsonOutput {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(contracts)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderContracts(contracts))
				return nil
			}

			name := args[0]
			contract, ok := store.Get(name)
			if !ok {
				return fmt.Errorf("contract %q not found", name)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(contract)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderContract(contract, store.ViolationsFor(name), store.Suggest(name)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Project path")

	return cmd
}

func newDiffCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "diff <name>",
		Short: "Show the changeset for one contract against the baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			result, err := newValidateService().ValidateProject(absPath)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			name := args[0]
			if _, ok := result.Store.Get(name); !ok {
				return fmt.Errorf("contract %q not found", name)
			}

			cs := result.Store.ChangesetFor(name)
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cs)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderChangeset(cs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Project path")

	return cmd
}
