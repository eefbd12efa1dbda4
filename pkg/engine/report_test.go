package engine

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFindings() []Finding {
	return []Finding{
		{
			ID:        "f-2",
			Type:      iamType,
			Title:     "IAM root user access key should not exist",
			Severity:  Severity{Label: "CRITICAL"},
			Resources: []Resource{{ID: "AWS::::Account:111122223333"}},
		},
		{
			ID:        "f-1",
			Type:      "Effects/Data Exposure",
			Title:     "S3 bucket should prohibit public read access",
			Resources: []Resource{{ID: "arn:aws:s3:::my-bucket"}},
		},
		{
			ID:    "f-3",
			Type:  "Software and Configuration Checks/AWS Security Best Practices",
			Title: "EC2 instance uses IMDSv1",
		},
	}
}

func TestBuildReport_GroupsByControl(t *testing.T) {
	m := NewMapperWithTable(Generic, testTable())

	r := BuildReport(m, reportFindings())

	ids := make([]string, 0, len(r.Controls))
	for _, c := range r.Controls {
		ids = append(ids, c.ControlID)
	}
	assert.Equal(t, []string{"CC6.1", "CC6.2", "CC6.3"}, ids)
	assert.Equal(t, "Logical access", r.Controls[0].Description)
	require.Len(t, r.Controls[2].Findings, 1)
	assert.Equal(t, "f-2", r.Controls[2].Findings[0].FindingID)
	assert.Equal(t, "AWS::::Account:111122223333", r.Controls[2].Findings[0].ResourceID)

	require.Len(t, r.Unmapped, 2)
	assert.Equal(t, "f-1", r.Unmapped[0].FindingID)
	assert.Equal(t, "f-3", r.Unmapped[1].FindingID)
	assert.Equal(t, UnknownResource, r.Unmapped[1].ResourceID)

	assert.Equal(t, Summary{Findings: 3, Controls: 3, Unmapped: 2}, r.Summary())
}

func TestBuildReport_DefaultControlLeavesNothingUnmapped(t *testing.T) {
	m := NewMapperWithTable(SOC2, SOC2.DefaultMappingTable())

	r := BuildReport(m, reportFindings())

	assert.Empty(t, r.Unmapped)
	var fallback *ControlResult
	for i := range r.Controls {
		if r.Controls[i].ControlID == "CC7.1" {
			fallback = &r.Controls[i]
		}
	}
	require.NotNil(t, fallback)
	assert.Equal(t, "f-3", fallback.Findings[0].FindingID)
}

func TestBuildReport_DeduplicatesFindings(t *testing.T) {
	m := NewMapperWithTable(Generic, testTable())
	f := reportFindings()[0]

	r := BuildReport(m, []Finding{f, f})

	for _, c := range r.Controls {
		assert.Len(t, c.Findings, 1, c.ControlID)
	}
	assert.Equal(t, 2, r.Summary().Findings)
}

func TestReport_RenderText(t *testing.T) {
	m := NewMapperWithTable(Generic, testTable())
	r := BuildReport(m, reportFindings())

	var buf bytes.Buffer
	require.NoError(t, r.RenderText(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Compliance Mapping Report for GENERIC:\n"))
	assert.Contains(t, out, "[CC6.1] Logical access (1 findings)\n")
	assert.Contains(t, out, "[CC6.2] (1 findings)\n")
	assert.Contains(t, out, "  - [CRITICAL] IAM root user access key should not exist on AWS::::Account:111122223333\n")
	assert.Contains(t, out, "UNMAPPED: 2\n")
	assert.Contains(t, out, "  - EC2 instance uses IMDSv1 on Unknown\n")
	assert.Contains(t, out, "Summary: 3 Findings, 3 Controls, 2 Unmapped\n")

	var again bytes.Buffer
	require.NoError(t, BuildReport(m, reportFindings()).RenderText(&again))
	assert.Equal(t, out, again.String())
}

func TestReport_RenderJSON(t *testing.T) {
	m := NewMapperWithTable(NIST80053, EmptyMappingTable())
	r := BuildReport(m, reportFindings()[:1])

	var buf bytes.Buffer
	require.NoError(t, r.RenderJSON(&buf))

	var decoded struct {
		Framework string          `json:"framework"`
		Controls  []ControlResult `json:"controls"`
		Unmapped  []MappedFinding `json:"unmapped"`
		Summary   Summary         `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "NIST800-53", decoded.Framework)
	require.Len(t, decoded.Controls, 1)
	assert.Equal(t, "SI-4", decoded.Controls[0].ControlID)
	assert.NotNil(t, decoded.Unmapped)
	assert.Equal(t, Summary{Findings: 1, Controls: 1, Unmapped: 0}, decoded.Summary)
}
