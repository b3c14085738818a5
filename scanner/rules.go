package scanner

import (
	"embed"
	"slices"
	"strings"
)

//go:embed rules/*.html
var ruleFiles embed.FS

// Every supported language gets its own repository holding the same rule,
// because a repository is bound to exactly one language on the platform.
const (
	RuleKey           = "InlineSuppression"
	RuleName          = "Inline suppression of static analysis findings is not allowed"
	Severity          = "BLOCKER"
	RuleType          = "VULNERABILITY"
	RemediationEffort = "30min"

	repositoryPrefix = "suppression-audit-"
)

// RuleTags are attached to the rule in every repository.
var RuleTags = []string{"security", "suppression", "audit", "compliance"}

// SupportedLanguages are the language keys files are audited for.
var SupportedLanguages = []string{
	"java", "cs", "py", "js", "ts", "kotlin", "go", "php",
	"ruby", "scala", "vbnet", "xml", "css", "web", "c", "cpp",
}

const defaultRuleDescription = "<p>Inline suppression of static analysis findings is not allowed. " +
	"Remove suppression comments, annotations, and attributes to ensure all " +
	"code is scanned by SonarQube.</p>"

// Repository is the per-language channel issues are reported through.
type Repository struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// IsSupported reports whether lang is one of SupportedLanguages.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, lang)
}

func RepositoryKey(lang string) string {
	return repositoryPrefix + lang
}

func RepositoryName(lang string) string {
	return "Inline Suppression Audit (" + lang + ")"
}

// Repositories describes the repository of every supported language.
func Repositories() []Repository {
	repos := make([]Repository, 0, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		repos = append(repos, Repository{
			Key:      RepositoryKey(lang),
			Name:     RepositoryName(lang),
			Language: lang,
		})
	}
	return repos
}

// RuleDescription returns the HTML description of the rule, falling back to
// a short built-in text if the bundled file cannot be read.
func RuleDescription() string {
	data, err := ruleFiles.ReadFile("rules/" + RuleKey + ".html")
	if err != nil || len(data) == 0 {
		return defaultRuleDescription
	}
	return strings.TrimSpace(string(data))
}
