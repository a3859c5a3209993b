package formatter

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tangolint/tangolint/internal/lints"
	tt "github.com/tangolint/tangolint/internal/types"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

const sarifSchema = "https://docs.oasis-open.org/sarif/sarif/v2.1.0/errata01/os/schemas/sarif-schema-2.1.0.json"

// sarifDocument is the root SARIF object.
type sarifDocument struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri"`
	Version        string      `json:"version"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	ShortDescription     sarifMessage       `json:"shortDescription"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
}

type sarifConfiguration struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
}

// sarifLevel maps our severities onto the three SARIF levels.
func sarifLevel(s tt.Severity) string {
	switch s {
	case tt.SeverityError:
		return "error"
	case tt.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// SARIF renders findings grouped by file path as a SARIF 2.1.0
// document with one run. The rule table comes from the registry, so
// reserved engine codes appear only in results.
func SARIF(byFile map[string][]tt.Issue) (string, error) {
	rules := make([]sarifRule, 0)
	for _, info := range lints.List() {
		rules = append(rules, sarifRule{
			ID:                   info.Code,
			ShortDescription:     sarifMessage{Text: info.Doc},
			DefaultConfiguration: sarifConfiguration{Level: sarifLevel(info.Severity)},
		})
	}

	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	results := make([]sarifResult, 0)
	for _, path := range paths {
		for _, issue := range byFile[path] {
			// SARIF regions are 1-based in both dimensions.
			line := issue.Line
			if line < 1 {
				line = 1
			}
			results = append(results, sarifResult{
				RuleID:  issue.Code,
				Level:   sarifLevel(issue.Severity),
				Message: sarifMessage{Text: issue.Message},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: path},
						Region:           sarifRegion{StartLine: line, StartColumn: issue.Column + 1},
					},
				}},
			})
		}
	}

	doc := sarifDocument{
		Version: "2.1.0",
		Schema:  sarifSchema,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           "tangolint",
				InformationURI: "https://github.com/tangolint/tangolint",
				Version:        Version,
				Rules:          rules,
			}},
			Results: results,
		}},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sarif document: %w", err)
	}
	return string(data), nil
}
