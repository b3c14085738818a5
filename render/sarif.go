package render

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"suppressaudit/scanner"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
	toolName     = "suppressaudit"
)

type SarifMessage struct {
	Text string `json:"text"`
}

type SarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type SarifRegion struct {
	StartLine int `json:"startLine"`
}

type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
	Region           SarifRegion           `json:"region"`
}

type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

type SarifResult struct {
	RuleID     string          `json:"ruleId"`
	Level      string          `json:"level"`
	Message    SarifMessage    `json:"message"`
	Locations  []SarifLocation `json:"locations"`
	Properties SarifProperties `json:"properties"`
}

type SarifProperties struct {
	EvidenceLine int      `json:"evidenceLine"`
	Category     string   `json:"category"`
	Rules        []string `json:"suppressedRules,omitempty"`
	Blanket      bool     `json:"blanket,omitempty"`
}

type SarifRule struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	ShortDescription SarifMessage      `json:"shortDescription"`
	FullDescription  SarifMessage      `json:"fullDescription"`
	Properties       SarifRuleProperty `json:"properties"`
}

type SarifRuleProperty struct {
	Tags     []string `json:"tags"`
	Severity string   `json:"severity"`
	Type     string   `json:"type"`
}

type SarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []SarifRule `json:"rules"`
}

type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

type SarifAutomation struct {
	GUID string `json:"guid"`
}

type SarifRun struct {
	Tool              SarifTool       `json:"tool"`
	AutomationDetails SarifAutomation `json:"automationDetails"`
	Results           []SarifResult   `json:"results"`
}

type Sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SarifRun `json:"runs"`
}

func ruleID(repository string) string {
	return repository + ":" + scanner.RuleKey
}

// BuildSarif converts a report into a single-run SARIF 2.1.0 log. Only the
// repositories that produced results are listed as rules.
func BuildSarif(report *scanner.Report, version string) Sarif {
	var rules []SarifRule
	seen := make(map[string]bool)
	results := make([]SarifResult, 0, len(report.Issues))

	for _, is := range report.Issues {
		if !seen[is.Repository] {
			seen[is.Repository] = true
			rules = append(rules, SarifRule{
				ID:               ruleID(is.Repository),
				Name:             scanner.RuleName,
				ShortDescription: SarifMessage{Text: scanner.RuleName},
				FullDescription:  SarifMessage{Text: scanner.RepositoryName(is.Language)},
				Properties: SarifRuleProperty{
					Tags:     scanner.RuleTags,
					Severity: scanner.Severity,
					Type:     scanner.RuleType,
				},
			})
		}
		results = append(results, SarifResult{
			RuleID:  ruleID(is.Repository),
			Level:   "error",
			Message: SarifMessage{Text: is.Message},
			Locations: []SarifLocation{{
				PhysicalLocation: SarifPhysicalLocation{
					ArtifactLocation: SarifArtifactLocation{URI: filepath.ToSlash(is.Path), URIBaseID: "%SRCROOT%"},
					Region:           SarifRegion{StartLine: is.Line},
				},
			}},
			Properties: SarifProperties{
				EvidenceLine: is.EvidenceLine,
				Category:     string(is.Category),
				Rules:        is.Rules,
				Blanket:      is.Blanket,
			},
		})
	}
	if rules == nil {
		rules = []SarifRule{}
	}

	return Sarif{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []SarifRun{{
			Tool:              SarifTool{Driver: SarifDriver{Name: toolName, Version: version, Rules: rules}},
			AutomationDetails: SarifAutomation{GUID: uuid.NewString()},
			Results:           results,
		}},
	}
}

// SARIF writes the report as a SARIF 2.1.0 log.
func SARIF(w io.Writer, report *scanner.Report, version string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildSarif(report, version))
}
