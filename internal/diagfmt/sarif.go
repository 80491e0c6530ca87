package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"scad/internal/diag"
)

// FileErrors pairs a source path with the diagnostics found in it.
type FileErrors struct {
	Path   string
	Errors []*diag.Error
}

// SarifRunMeta describes the tool block of a SARIF run.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	InvocationArgs []string
}

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string        `json:"id"`
	Name             string        `json:"name,omitempty"`
	ShortDescription *sarifMessage `json:"shortDescription,omitempty"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
}

// Sarif writes one minimal SARIF 2.1.0 run covering every file, for CI
// upload.
func Sarif(w io.Writer, files []FileErrors, meta SarifRunMeta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildSarifLog(files, meta))
}

func buildSarifLog(files []FileErrors, meta SarifRunMeta) sarifLog {
	name := meta.ToolName
	if name == "" {
		name = "scad"
	}

	results := make([]sarifResult, 0)
	codes := make(map[diag.Code]struct{})
	for _, fe := range files {
		for _, e := range fe.Errors {
			if e == nil {
				continue
			}
			codes[e.Code] = struct{}{}
			res := sarifResult{
				RuleID:  e.Code.ID(),
				Level:   sarifLevel(e.Severity),
				Message: sarifMessage{Text: e.Message},
			}
			if fe.Path != "" {
				phys := sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: fe.Path},
				}
				if e.Context.HasLocation() {
					region := &sarifRegion{
						StartLine:   e.Context.Line,
						StartColumn: e.Context.Column,
					}
					if e.Context.Length > 0 {
						region.EndColumn = e.Context.Column + e.Context.Length
					}
					phys.Region = region
				}
				res.Locations = []sarifLocation{{PhysicalLocation: phys}}
			}
			results = append(results, res)
		}
	}

	ruleIDs := make([]diag.Code, 0, len(codes))
	for c := range codes {
		ruleIDs = append(ruleIDs, c)
	}
	sort.Slice(ruleIDs, func(i, j int) bool { return ruleIDs[i] < ruleIDs[j] })
	rules := make([]sarifRule, len(ruleIDs))
	for i, c := range ruleIDs {
		rules[i] = sarifRule{
			ID:               c.ID(),
			Name:             c.String(),
			ShortDescription: &sarifMessage{Text: c.Title()},
		}
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           name,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          rules,
		}},
		Results: results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: true,
		}}
	}
	return sarifLog{Schema: sarifSchema, Version: "2.1.0", Runs: []sarifRun{run}}
}

// sarifLevel maps the five severities onto SARIF's three levels.
func sarifLevel(sev diag.Severity) string {
	switch {
	case sev >= diag.SevError:
		return "error"
	case sev == diag.SevWarning:
		return "warning"
	}
	return "note"
}
