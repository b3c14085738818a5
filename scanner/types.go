package scanner

import (
	"path/filepath"
	"strings"

	"suppressaudit/suppress"
)

// FileInfo represents a single source file selected for auditing.
type FileInfo struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Ext      string `json:"ext"`
	Language string `json:"language"`
	IsNew    bool   `json:"is_new,omitempty"`
	Added    int    `json:"added,omitempty"`
	Removed  int    `json:"removed,omitempty"`
}

// Issue is a suppression finding bound to the rule repository of its file's language.
type Issue struct {
	Path         string            `json:"path"`
	Language     string            `json:"language"`
	Repository   string            `json:"repository"`
	Rule         string            `json:"rule"`
	Line         int               `json:"line"`          // where the issue is reported
	EvidenceLine int               `json:"evidence_line"` // where the directive is
	Category     suppress.Category `json:"category"`
	Message      string            `json:"message"`
	Rules        []string          `json:"rules,omitempty"`
	Blanket      bool              `json:"blanket,omitempty"`
}

// Report is the result of auditing a project.
type Report struct {
	Root         string   `json:"root"`
	DiffRef      string   `json:"diff_ref,omitempty"`
	FilesScanned int      `json:"files_scanned"`
	Skipped      []string `json:"skipped,omitempty"` // unreadable files
	Issues       []Issue  `json:"issues"`
}

// CountByCategory tallies issues per directive family.
func (r *Report) CountByCategory() map[suppress.Category]int {
	counts := make(map[suppress.Category]int)
	for _, is := range r.Issues {
		counts[is.Category]++
	}
	return counts
}

// FilesWithIssues returns the number of distinct files carrying at least one issue.
func (r *Report) FilesWithIssues() int {
	seen := make(map[string]bool)
	for _, is := range r.Issues {
		seen[is.Path] = true
	}
	return len(seen)
}

// extToLang maps file extensions to the analyzer's language keys
var extToLang = map[string]string{
	".java":   "java",
	".cs":     "cs",
	".py":     "py",
	".js":     "js",
	".jsx":    "js",
	".mjs":    "js",
	".cjs":    "js",
	".ts":     "ts",
	".tsx":    "ts",
	".kt":     "kotlin",
	".kts":    "kotlin",
	".go":     "go",
	".php":    "php",
	".rb":     "ruby",
	".scala":  "scala",
	".sc":     "scala",
	".vb":     "vbnet",
	".xml":    "xml",
	".css":    "css",
	".scss":   "css",
	".less":   "css",
	".html":   "web",
	".htm":    "web",
	".xhtml":  "web",
	".cshtml": "web",
	".vbhtml": "web",
	".jsp":    "web",
	".c":      "c",
	".h":      "c",
	".cpp":    "cpp",
	".cc":     "cpp",
	".cxx":    "cpp",
	".hpp":    "cpp",
	".hh":     "cpp",
}

// DetectLanguage returns the language key for a file path, or "" when unsupported
func DetectLanguage(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	return extToLang[ext]
}

// LangDisplay maps language keys to display names
var LangDisplay = map[string]string{
	"java":   "Java",
	"cs":     "C#",
	"py":     "Python",
	"js":     "JavaScript",
	"ts":     "TypeScript",
	"kotlin": "Kotlin",
	"go":     "Go",
	"php":    "PHP",
	"ruby":   "Ruby",
	"scala":  "Scala",
	"vbnet":  "VB.NET",
	"xml":    "XML",
	"css":    "CSS",
	"web":    "HTML",
	"c":      "C",
	"cpp":    "C++",
}
