package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// UnknownResource is reported when a finding names no affected resource.
const UnknownResource = "Unknown"

// Finding is a single Security Hub finding, reduced to the fields the
// mapper and the report read.
type Finding struct {
	ID          string     `json:"Id"`
	Type        string     `json:"Type,omitempty"`
	Types       []string   `json:"Types,omitempty"`
	Title       string     `json:"Title"`
	Description string     `json:"Description"`
	Severity    Severity   `json:"Severity"`
	Resources   []Resource `json:"Resources,omitempty"`
}

// Severity mirrors the ASFF severity block.
type Severity struct {
	Label string `json:"Label,omitempty"`
}

// Resource is one affected resource of a finding.
type Resource struct {
	Type string `json:"Type,omitempty"`
	ID   string `json:"Id,omitempty"`
}

// FindingType returns Type, falling back to the first entry of Types.
func (f Finding) FindingType() string {
	if f.Type != "" {
		return f.Type
	}
	if len(f.Types) > 0 {
		return f.Types[0]
	}
	return ""
}

type findingsExport struct {
	Findings []Finding `json:"Findings"`
}

// LoadFindings reads findings from a JSON file. Both the Security Hub export
// shape {"Findings": [...]} and a bare array are accepted.
func LoadFindings(path string) ([]Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	findings, err := DecodeFindings(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return findings, nil
}

// DecodeFindings decodes findings from r.
func DecodeFindings(r io.Reader) ([]Finding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var list []Finding
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var export findingsExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, err
	}
	return export.Findings, nil
}
