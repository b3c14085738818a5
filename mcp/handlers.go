package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"suppressaudit/render"
	"suppressaudit/scanner"
	"suppressaudit/suppress"
)

// Input types for tools
type ScanPathInput struct {
	Path      string   `json:"path" jsonschema:"Path to the project directory to audit"`
	Ref       string   `json:"ref,omitempty" jsonschema:"Only audit files changed vs this git branch/ref"`
	Languages []string `json:"languages,omitempty" jsonschema:"Only audit these language keys (see list_languages)"`
	Format    string   `json:"format,omitempty" jsonschema:"text (default) or json"`
}

type ScanContentInput struct {
	Content  string `json:"content" jsonschema:"Source text to audit"`
	Path     string `json:"path,omitempty" jsonschema:"File name, used to detect the language (e.g. src/Main.java)"`
	Language string `json:"language,omitempty" jsonschema:"Language key, overrides detection from path"`
}

type ExtractInput struct {
	Payload string `json:"payload" jsonschema:"Argument list of a suppression directive, e.g. \"java:S1234\", \"squid:S106\""`
}

// EmptyInput for tools that don't need parameters
type EmptyInput struct{}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Encode error: " + err.Error())
	}
	return textResult(string(data))
}

func handleScanPath(ctx context.Context, req *mcp.CallToolRequest, input ScanPathInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return errorResult("path is required"), nil, nil
	}
	absRoot, err := filepath.Abs(input.Path)
	if err != nil {
		return errorResult("Invalid path: " + err.Error()), nil, nil
	}
	for _, lang := range input.Languages {
		if !scanner.IsSupported(lang) {
			return errorResult(fmt.Sprintf("Unsupported language %q", lang)), nil, nil
		}
	}

	files, err := scanner.ScanFiles(absRoot, scanner.LoadGitignore(absRoot))
	if err != nil {
		return errorResult("Scan error: " + err.Error()), nil, nil
	}
	files = scanner.FilterLanguages(files, input.Languages)

	if input.Ref != "" {
		diffInfo, err := scanner.GitDiffInfo(ctx, absRoot, input.Ref)
		if err != nil {
			return errorResult("Git diff error: " + err.Error() + "\nMake sure '" + input.Ref + "' is a valid branch/ref"), nil, nil
		}
		files = scanner.FilterToChangedWithInfo(files, diffInfo)
	}

	report, err := scanner.NewAuditor(0, log.Logger, nil).Audit(ctx, absRoot, files)
	if err != nil {
		return errorResult("Audit error: " + err.Error()), nil, nil
	}
	report.DiffRef = input.Ref

	switch input.Format {
	case "json":
		return jsonResult(report), nil, nil
	case "", "text":
		var buf bytes.Buffer
		render.Text(&buf, report, render.Options{NoColor: true})
		return textResult(buf.String()), nil, nil
	default:
		return errorResult(fmt.Sprintf("Unknown format %q (want text or json)", input.Format)), nil, nil
	}
}

func handleScanContent(ctx context.Context, req *mcp.CallToolRequest, input ScanContentInput) (*mcp.CallToolResult, any, error) {
	lang := input.Language
	if lang == "" && input.Path != "" {
		lang = scanner.DetectLanguage(input.Path)
	}

	findings := suppress.FindSuppressions(input.Content)
	if lang == "" {
		// no repository to bind to, return the raw findings
		return jsonResult(findings), nil, nil
	}
	if !scanner.IsSupported(lang) {
		return errorResult(fmt.Sprintf("Unsupported language %q", lang)), nil, nil
	}
	return jsonResult(scanner.IssuesFor(input.Path, lang, findings)), nil, nil
}

func handleExtractRules(ctx context.Context, req *mcp.CallToolRequest, input ExtractInput) (*mcp.CallToolResult, any, error) {
	refs := suppress.ExtractRuleReferences(input.Payload)
	if len(refs) == 0 {
		return textResult("No rule references found"), nil, nil
	}
	return textResult(strings.Join(refs, "\n")), nil, nil
}

func handleListLanguages(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, any, error) {
	var sb strings.Builder
	for _, r := range scanner.Repositories() {
		fmt.Fprintf(&sb, "%-8s %-12s %s\n", r.Language, scanner.LangDisplay[r.Language], r.Key)
	}
	return textResult(sb.String()), nil, nil
}

func handleStatus(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, any, error) {
	cwd, _ := os.Getwd()
	home := os.Getenv("HOME")

	return textResult(fmt.Sprintf(`suppressaudit MCP server v%s
Status: connected
Local filesystem access: enabled
Working directory: %s
Home directory: %s

Available tools:
  scan_path      - Audit a project directory
  scan_content   - Audit a source buffer
  extract_rules  - Rule references in a directive payload
  list_languages - Supported languages and repositories`, serverVersion, cwd, home)), nil, nil
}
