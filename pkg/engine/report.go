package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// MappedFinding is one finding as it appears under a control.
type MappedFinding struct {
	FindingID  string `json:"finding_id"`
	Title      string `json:"title"`
	Severity   string `json:"severity,omitempty"`
	ResourceID string `json:"resource_id"`
}

// ControlResult groups the findings mapped to a single control.
type ControlResult struct {
	ControlID   string          `json:"control_id"`
	Description string          `json:"description,omitempty"`
	Findings    []MappedFinding `json:"findings"`
}

// Summary holds report totals.
type Summary struct {
	Findings int `json:"findings"`
	Controls int `json:"controls"`
	Unmapped int `json:"unmapped"`
}

// Report is the per-control view of a set of findings for one framework.
type Report struct {
	Framework Framework       `json:"framework"`
	Controls  []ControlResult `json:"controls"`
	Unmapped  []MappedFinding `json:"unmapped"`
	total     int
}

// BuildReport maps every finding and groups the results by control.
func BuildReport(m *Mapper, findings []Finding) *Report {
	byControl := make(map[string][]MappedFinding)
	var unmapped []MappedFinding

	for _, f := range findings {
		entry := MappedFinding{
			FindingID:  f.ID,
			Title:      f.Title,
			Severity:   f.Severity.Label,
			ResourceID: m.ResourceID(f),
		}
		controls := m.MapFinding(f)
		if len(controls) == 0 {
			unmapped = appendUnique(unmapped, entry)
			continue
		}
		for _, id := range controls {
			byControl[id] = appendUnique(byControl[id], entry)
		}
	}

	r := &Report{
		Framework: m.Framework(),
		Controls:  make([]ControlResult, 0, len(byControl)),
		Unmapped:  sortFindings(unmapped),
		total:     len(findings),
	}
	for id, entries := range byControl {
		r.Controls = append(r.Controls, ControlResult{
			ControlID:   id,
			Description: m.ControlDescription(id),
			Findings:    sortFindings(entries),
		})
	}
	sort.Slice(r.Controls, func(i, j int) bool {
		return r.Controls[i].ControlID < r.Controls[j].ControlID
	})
	return r
}

// appendUnique skips entries already present for the same finding and resource.
func appendUnique(list []MappedFinding, f MappedFinding) []MappedFinding {
	for _, existing := range list {
		if existing.FindingID == f.FindingID && existing.ResourceID == f.ResourceID {
			return list
		}
	}
	return append(list, f)
}

func sortFindings(list []MappedFinding) []MappedFinding {
	if list == nil {
		return []MappedFinding{}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].FindingID != list[j].FindingID {
			return list[i].FindingID < list[j].FindingID
		}
		return list[i].ResourceID < list[j].ResourceID
	})
	return list
}

// Summary returns the report totals.
func (r *Report) Summary() Summary {
	return Summary{
		Findings: r.total,
		Controls: len(r.Controls),
		Unmapped: len(r.Unmapped),
	}
}

// RenderText writes a human readable report.
func (r *Report) RenderText(w io.Writer) error {
	var sb strings.Builder
	s := r.Summary()

	sb.WriteString(fmt.Sprintf("Compliance Mapping Report for %s:\n", r.Framework))
	sb.WriteString("--------------------------------------------------\n")

	for _, c := range r.Controls {
		if c.Description != "" {
			sb.WriteString(fmt.Sprintf("[%s] %s (%d findings)\n", c.ControlID, c.Description, len(c.Findings)))
		} else {
			sb.WriteString(fmt.Sprintf("[%s] (%d findings)\n", c.ControlID, len(c.Findings)))
		}
		for _, f := range c.Findings {
			sb.WriteString(fmt.Sprintf("  - %s%s on %s\n", severityPrefix(f.Severity), f.Title, f.ResourceID))
		}
		sb.WriteString("\n")
	}

	if len(r.Unmapped) > 0 {
		sb.WriteString(fmt.Sprintf("UNMAPPED: %d\n", len(r.Unmapped)))
		for _, f := range r.Unmapped {
			sb.WriteString(fmt.Sprintf("  - %s%s on %s\n", severityPrefix(f.Severity), f.Title, f.ResourceID))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Summary: %d Findings, %d Controls, %d Unmapped\n", s.Findings, s.Controls, s.Unmapped))
	_, err := io.WriteString(w, sb.String())
	return err
}

func severityPrefix(label string) string {
	if label == "" {
		return ""
	}
	return "[" + label + "] "
}

type reportJSON struct {
	*Report
	Summary Summary `json:"summary"`
}

// RenderJSON writes the report as indented JSON.
func (r *Report) RenderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reportJSON{Report: r, Summary: r.Summary()})
}
