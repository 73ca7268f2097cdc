package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewContractorMCPServer creates an MCP server with all Contractor tools
// and resources registered. The rootPath is the source tree to validate.
func NewContractorMCPServer(rootPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"contractor",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, rootPath)
	registerResources(s, rootPath)

	return s
}
