// MCP Server for suppressaudit - lets LLM agents audit code for inline suppressions
package main

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"suppressaudit/logging"
)

const serverVersion = "1.0.0"

func newServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "suppressaudit",
		Version: serverVersion,
	}, nil)

	// Tool: scan_path - Audit a project directory
	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_path",
		Description: "Audit a project directory for inline suppressions of SonarQube findings (NOSONAR comments, @SuppressWarnings/@Suppress annotations, [SuppressMessage] attributes). Respects .gitignore. Set ref to only audit files changed vs a git branch. Returns a findings tree, or JSON with format=json.",
	}, handleScanPath)

	// Tool: scan_content - Audit a single buffer
	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_content",
		Description: "Audit source text that is not on disk (e.g. a proposed edit) for inline suppressions. Returns the findings as JSON with report and evidence lines.",
	}, handleScanContent)

	// Tool: extract_rules - Parse a directive payload
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_rules",
		Description: "Extract the SonarQube rule references (e.g. java:S1234, S106) named in the argument list of a suppression annotation or attribute.",
	}, handleExtractRules)

	// Tool: list_languages - Supported languages
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_languages",
		Description: "List the audited languages, their file extensions' language keys, and the rule repository findings are reported under.",
	}, handleListLanguages)

	// Tool: status - Verify MCP connection
	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Check suppressaudit MCP server status. Returns version and confirms local filesystem access is available.",
	}, handleStatus)

	return server
}

func main() {
	// stdout carries the protocol, so logs go to stderr as JSON
	logger, err := logging.Init(logging.Config{Level: os.Getenv("SUPPRESSAUDIT_LOG_LEVEL"), Format: "json"}, os.Stderr)
	if err != nil {
		logger, _ = logging.Init(logging.Config{Format: "json"}, os.Stderr)
		logger.Warn().Err(err).Msg("Ignoring SUPPRESSAUDIT_LOG_LEVEL")
	}

	// Run server on stdio
	if err := newServer().Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error().Err(err).Msg("Server error")
		os.Exit(1)
	}
}
