package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/contractor-dev/contractor/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the Contractor MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var rootPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start Contractor MCP server (stdio)",
		Long:  "Start the Contractor MCP server using stdio transport. This allows AI coding assistants to query contract models, violations, and breaking changes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootPath == "" {
				rootPath = "."
			}
			s := mcpadapter.NewContractorMCPServer(rootPath)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&rootPath, "path", "", "Project path (defaults to current working directory)")

	return cmd
}
