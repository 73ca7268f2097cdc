package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/contractor-dev/contractor/internal/adapters/outbound/baseline"
	"github.com/contractor-dev/contractor/internal/adapters/outbound/config"
	"github.com/contractor-dev/contractor/internal/adapters/outbound/extractor"
	"github.com/contractor-dev/contractor/internal/adapters/outbound/scanner"
	"github.com/contractor-dev/contractor/internal/application"
)

// registerTools registers all Contractor MCP tools on the given server.
func registerTools(s *server.MCPServer, rootPath string) {
	// 1. contractor_validate
	s.AddTool(
		mcplib.NewTool("contractor_validate",
			mcplib.WithDescription("Run a full contract validation pass and return the compliance report as JSON"),
		),
		handleValidate(rootPath),
	)

	// 2. contractor_get_contract
	s.AddTool(
		mcplib.NewTool("contractor_get_contract",
			mcplib.WithDescription("Return the extracted model of one contract"),
			mcplib.WithString("name",
				mcplib.Required(),
				mcplib.Description("Name of the contract to retrieve"),
			),
		),
		handleGetContract(rootPath),
	)

	// 3. contractor_get_violations
	s.AddTool(
		mcplib.NewTool("contractor_get_violations",
			mcplib.WithDescription("Return the violations detected for one contract"),
			mcplib.WithString("name",
				mcplib.Required(),
				mcplib.Description("Name of the contract"),
			),
		),
		handleGetViolations(rootPath),
	)

	// 4. contractor_get_breaking_changes
	s.AddTool(
		mcplib.NewTool("contractor_get_breaking_changes",
			mcplib.WithDescription("Return the breaking-change records for one contract, declared and diffed"),
			mcplib.WithString("name",
				mcplib.Required(),
				mcplib.Description("Name of the contract"),
			),
		),
		handleGetBreakingChanges(rootPath),
	)

	// 5. contractor_is_compliant
	s.AddTool(
		mcplib.NewTool("contractor_is_compliant",
			mcplib.WithDescription("Check whether a contract is free of critical and high violations"),
			mcplib.WithString("name",
				mcplib.Required(),
				mcplib.Description("Name of the contract"),
			),
		),
		handleIsCompliant(rootPath),
	)

	// 6. contractor_suggest
	s.AddTool(
		mcplib.NewTool("contractor_suggest",
			mcplib.WithDescription("Generate improvement suggestions for one contract based on its violations"),
			mcplib.WithString("name",
				mcplib.Required(),
				mcplib.Description("Name of the contract"),
			),
		),
		handleSuggest(rootPath),
	)

	// 7. contractor_top_critical
	s.AddTool(
		mcplib.NewTool("contractor_top_critical",
			mcplib.WithDescription("List the contracts with the most critical violations, sorted descending"),
			mcplib.WithNumber("limit", mcplib.Description("Maximum number of contracts to return (default 5)")),
		),
		handleTopCritical(rootPath),
	)
}

// newService creates the validate service with the standard adapter set.
func newService() *application.ValidateService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return application.NewValidateService(
		scanner.New(logger),
		extractor.New(),
		config.New(),
		baseline.New(),
		logger,
	)
}

func handleValidate(rootPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		result, err := newService().ValidateProject(rootPath)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(result.Report)
	}
}

func handleGetContract(rootPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		result, err := newService().ValidateProject(rootPath)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		contract, ok := result.Store.Get(name)
		if !ok {
			return errorResult(fmt.Sprintf("contract %q not found", name)), nil
		}
		return jsonResult(contract)
	}
}

func handleGetViolations(rootPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		result, err := newService().ValidateProject(rootPath)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(result.Store.ViolationsFor(name))
	}
}

func handleGetBreakingChanges(rootPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		result, err := newService().ValidateProject(rootPath)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(result.Store.BreakingChangesFor(name))
	}
}

func handleIsCompliant(rootPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		result, err := newService().ValidateProject(rootPath)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		if _, ok := result.Store.Get(name); !ok {
			return errorResult(fmt.Sprintf("contract %q not found", name)), nil
		}
		return jsonResult(map[string]bool{"compliant": result.Store.IsCompliant(name)})
	}
}

func handleSuggest(rootPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		result, err := newService().ValidateProject(rootPath)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		if _, ok := result.Store.Get(name); !ok {
			return errorResult(fmt.Sprintf("contract %q not found", name)), nil
		}
		return jsonResult(result.Store.Suggest(name))
	}
}

func handleTopCritical(rootPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		limit := 5
		if raw, ok := request.GetArguments()["limit"].(float64); ok && raw > 0 {
			limit = int(raw)
		}

		result, err := newService().ValidateProject(rootPath)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(result.Store.TopCritical(limit))
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
