package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerResources registers all Contractor MCP resources on the given server.
func registerResources(s *server.MCPServer, rootPath string) {
	// 1. contractor://report - current compliance report
	s.AddResource(
		mcplib.NewResource(
			"contractor://report",
			"Compliance Report",
			mcplib.WithResourceDescription("Current contract compliance report for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleReportResource(rootPath),
	)

	// 2. contractor://contracts - all extracted contract models
	s.AddResource(
		mcplib.NewResource(
			"contractor://contracts",
			"Contracts",
			mcplib.WithResourceDescription("All contract models extracted from the source tree"),
			mcplib.WithMIMEType("application/json"),
		),
		handleContractsResource(rootPath),
	)

	// 3. contractor://contracts/{name} - one contract model
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"contractor://contracts/{name}",
			"Contract",
			mcplib.WithTemplateDescription("Model, violations, and changeset for a specific contract"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleContractResource(rootPath),
	)
}

func handleReportResource(rootPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		result, err := newService().ValidateProject(rootPath)
		if err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		return jsonResource(request.Params.URI, result.Report)
	}
}

func handleContractsResource(rootPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		result, err := newService().ValidateProject(rootPath)
		if err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		return jsonResource(request.Params.URI, result.Store.Contracts())
	}
}

func handleContractResource(rootPath string) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		name := nameFromURI(request.Params.URI)
		if name == "" {
			return nil, fmt.Errorf("missing contract name in %s", request.Params.URI)
		}

		result, err := newService().ValidateProject(rootPath)
		if err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		contract, ok := result.Store.Get(name)
		if !ok {
			return nil, fmt.Errorf("contract %q not found", name)
		}

		payload := map[string]interface{}{
			"contract":   contract,
			"violations": result.Store.ViolationsFor(name),
			"changeset":  result.Store.ChangesetFor(name),
		}
		return jsonResource(request.Params.URI, payload)
	}
}

func nameFromURI(uri string) string {
	const prefix = "contractor://contracts/"
	if len(uri) <= len(prefix) {
		return ""
	}
	return uri[len(prefix):]
}

func jsonResource(uri string, v interface{}) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
