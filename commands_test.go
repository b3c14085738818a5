package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suppressaudit/config"
	"suppressaudit/scanner"
)

const cartJava = `package shop;

public class Cart {
    int total; // NOSONAR
    @SuppressWarnings("java:S1234")
    void add() {}
}
`

const startupCs = `[SuppressMessage("SonarAnalyzer", "S1144")]
class Startup {}
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func sampleProject(t *testing.T) string {
	return writeProject(t, map[string]string{
		"src/shop/Cart.java": cartJava,
		"web/Startup.cs":     startupCs,
		"src/shop/Clean.py":  "print('clean')\n",
	})
}

// execute runs a fresh root command and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeReport(t *testing.T, out string) scanner.Report {
	t.Helper()
	var report scanner.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	return report
}

func TestScanText(t *testing.T) {
	root := sampleProject(t)
	out, _, err := execute(t, root, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "Files: 3 | Findings: 3 in 2 files")
	assert.Contains(t, out, "L4 BARE_MARKER")
	assert.Contains(t, out, "(reported on L3)")
	assert.Contains(t, out, "L5 ANNOTATION_GENERIC")
	assert.Contains(t, out, "L1 BRACKET_ATTRIBUTE")
}

func TestScanJSON(t *testing.T) {
	root := sampleProject(t)
	out, stderr, err := execute(t, root, "--format", "json")
	require.NoError(t, err)

	report := decodeReport(t, out)
	assert.Equal(t, root, report.Root)
	assert.Equal(t, 3, report.FilesScanned)
	require.Len(t, report.Issues, 3)

	// files in walk order, engine order within a file
	assert.Equal(t, "src/shop/Cart.java", filepath.ToSlash(report.Issues[0].Path))
	assert.Equal(t, 3, report.Issues[0].Line)
	assert.Equal(t, 4, report.Issues[0].EvidenceLine)
	assert.Equal(t, []string{"java:S1234"}, report.Issues[1].Rules)
	assert.Equal(t, "suppression-audit-cs", report.Issues[2].Repository)
	assert.Equal(t, []string{"S1144"}, report.Issues[2].Rules)

	assert.Contains(t, stderr, `"message":"Audit complete"`)
	assert.Contains(t, stderr, `"findings":3`)
}

func TestScanSarif(t *testing.T) {
	root := sampleProject(t)
	out, _, err := execute(t, root, "-f", "sarif")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "2.1.0"`)
	assert.Contains(t, out, `"ruleId": "suppression-audit-java:InlineSuppression"`)
}

func TestFailOnFindings(t *testing.T) {
	root := sampleProject(t)
	_, _, err := execute(t, root, "--fail-on-findings", "--format", "json")
	assert.ErrorIs(t, err, errFindings)

	clean := writeProject(t, map[string]string{"Main.java": "class Main {}\n"})
	_, _, err = execute(t, clean, "--fail-on-findings")
	assert.NoError(t, err)
}

func TestConfigFile(t *testing.T) {
	root := sampleProject(t)
	cfg := "languages: [cs]\nformat: json\nfail_on_findings: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, config.DefaultFile), []byte(cfg), 0o644))

	out, _, err := execute(t, root)
	assert.ErrorIs(t, err, errFindings)
	report := decodeReport(t, out)
	assert.Equal(t, 1, report.FilesScanned)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "cs", report.Issues[0].Language)
}

func TestFlagsOverrideConfig(t *testing.T) {
	root := sampleProject(t)
	cfgPath := filepath.Join(t.TempDir(), "audit.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("languages: [cs]\nformat: json\nfail_on_findings: true\n"), 0o644))

	out, _, err := execute(t, root, "--config", cfgPath, "--lang", "java", "--fail-on-findings=false")
	require.NoError(t, err)
	report := decodeReport(t, out)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, "java", report.Issues[0].Language)
}

func TestExcludePatterns(t *testing.T) {
	root := sampleProject(t)
	out, _, err := execute(t, root, "--format", "json", "--exclude", "web/")
	require.NoError(t, err)
	report := decodeReport(t, out)
	assert.Equal(t, 2, report.FilesScanned)
	assert.Len(t, report.Issues, 2)
}

func TestGitignoreRespected(t *testing.T) {
	root := sampleProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("src/\n"), 0o644))

	out, _, err := execute(t, root, "--format", "json")
	require.NoError(t, err)
	report := decodeReport(t, out)
	assert.Equal(t, 1, report.FilesScanned)
	assert.Len(t, report.Issues, 1)
}

func TestMetricsOut(t *testing.T) {
	root := sampleProject(t)
	path := filepath.Join(t.TempDir(), "audit.prom")
	_, _, err := execute(t, root, "--format", "json", "--metrics-out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `suppressaudit_findings_total{category="BARE_MARKER",language="java"} 1`)
	assert.Contains(t, string(data), "suppressaudit_files_scanned_total")
}

func TestScanErrors(t *testing.T) {
	root := sampleProject(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown language", []string{root, "--lang", "rust"}, `unsupported language "rust"`},
		{"unknown format", []string{root, "--format", "html"}, `unknown format "html"`},
		{"bad log level", []string{root, "--log-level", "loud"}, `invalid log level "loud"`},
		{"missing config", []string{root, "--config", filepath.Join(root, "nope.yaml")}, "read config"},
		{"not a directory", []string{filepath.Join(root, "web", "Startup.cs")}, "is not a directory"},
		{"interactive without terminal", []string{root, "--interactive"}, "requires a terminal"},
		{"too many args", []string{root, root}, "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDebugLogging(t *testing.T) {
	root := sampleProject(t)
	_, stderr, err := execute(t, root, "--format", "json", "--debug", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"message":"Starting audit"`)
	assert.Contains(t, stderr, `"message":"Found suppressions"`)
}

func TestLanguagesCmd(t *testing.T) {
	out, _, err := execute(t, "languages")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(scanner.SupportedLanguages))
	assert.Contains(t, out, "suppression-audit-kotlin")
	assert.Contains(t, out, "VB.NET")

	out, _, err = execute(t, "languages", "--json")
	require.NoError(t, err)
	var repos []scanner.Repository
	require.NoError(t, json.Unmarshal([]byte(out), &repos))
	assert.Equal(t, scanner.Repositories(), repos)
}

func TestExtractCmd(t *testing.T) {
	out, _, err := execute(t, "extract", `"java:S1234", "squid : S5678"`)
	require.NoError(t, err)
	assert.Equal(t, "java:S1234\nsquid:S5678\n", out)

	out, _, err = execute(t, "extract", "Major", "Code", "Smell,", "S1144")
	require.NoError(t, err)
	assert.Equal(t, "S1144\n", out)

	out, _, err = execute(t, "extract", `"unchecked"`)
	require.NoError(t, err)
	assert.Contains(t, out, "No rule references found")

	_, _, err = execute(t, "extract")
	assert.Error(t, err)
}

func TestRuleCmd(t *testing.T) {
	out, _, err := execute(t, "rule")
	require.NoError(t, err)
	assert.Contains(t, out, "Key:         InlineSuppression")
	assert.Contains(t, out, "Severity:    BLOCKER")
	assert.Contains(t, out, "Remediation: 30min")
	assert.Contains(t, out, "<p>")
}

func TestVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "1.2.3"

	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}
