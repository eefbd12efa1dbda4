package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const findingsJSON = `{"Findings": [
  {
    "Id": "f-1",
    "Types": ["Software and Configuration Checks/Industry and Regulatory Standards/IAM.4"],
    "Title": "IAM root user access key should not exist",
    "Severity": {"Label": "CRITICAL"},
    "Resources": [{"Type": "AwsAccount", "Id": "AWS::::Account:111122223333"}]
  },
  {
    "Id": "f-2",
    "Types": ["Software and Configuration Checks/AWS Security Best Practices"],
    "Title": "EC2 instance uses IMDSv1"
  }
]}`

const customMappings = `{
  "type_mappings": {"IAM": ["X-1"]},
  "title_mappings": {"imdsv1": ["X-2"]},
  "control_descriptions": {"X-1": "custom access control"}
}`

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SECMAP_CONFIG", filepath.Join(dir, "config.yaml"))
	return dir
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMapCommand_DefaultSOC2Text(t *testing.T) {
	dir := setup(t)
	findings := write(t, dir, "findings.json", findingsJSON)

	out, err := run(t, "map", "--findings", findings)

	require.NoError(t, err)
	assert.Contains(t, out, "Compliance Mapping Report for SOC2:")
	assert.Contains(t, out, "[CC6.1]")
	assert.Contains(t, out, "[CC7.1]")
	assert.Contains(t, out, "EC2 instance uses IMDSv1 on Unknown")
	assert.Contains(t, out, "Summary: 2 Findings")
}

func TestMapCommand_CustomMappingsJSON(t *testing.T) {
	dir := setup(t)
	findings := write(t, dir, "findings.json", findingsJSON)
	mappings := write(t, dir, "custom.json", customMappings)

	out, err := run(t, "map", "-i", findings, "-f", "nist-800-53", "-m", mappings, "-o", "json")

	require.NoError(t, err)
	assert.Contains(t, out, `"framework": "NIST800-53"`)
	assert.Contains(t, out, `"control_id": "X-1"`)
	assert.Contains(t, out, `"control_id": "X-2"`)
	assert.NotContains(t, out, `"control_id": "SI-4"`)
}

func TestMapCommand_Errors(t *testing.T) {
	dir := setup(t)
	findings := write(t, dir, "findings.json", findingsJSON)

	_, err := run(t, "map")
	assert.Error(t, err)

	_, err = run(t, "map", "-i", findings, "-f", "HIPAA")
	assert.ErrorContains(t, err, "unknown framework")

	_, err = run(t, "map", "-i", findings, "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = run(t, "map", "-i", filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "error loading findings")
}

func TestResolveCommand(t *testing.T) {
	setup(t)

	out, err := run(t, "resolve", "-f", "SOC2", "--title", "rootless containers enabled")
	require.NoError(t, err)
	assert.Contains(t, out, "SOC2 controls: CC7.1\n")

	out, err = run(t, "resolve", "-f", "generic", "--title", "root")
	require.NoError(t, err)
	assert.Contains(t, out, "No GENERIC controls matched.")
}

func TestConfigCommands_MappingsUsedByMap(t *testing.T) {
	dir := setup(t)
	findings := write(t, dir, "findings.json", findingsJSON)
	mappings := write(t, dir, "custom.yaml", customMappings)

	out, err := run(t, "config", "set-mappings", "-f", "SOC2", "-p", mappings)
	require.NoError(t, err)
	assert.Contains(t, out, "Mappings file saved for SOC2")

	out, err = run(t, "config", "set-default", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Format=json")

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Mappings[soc2]: "+mappings)

	out, err = run(t, "map", "-i", findings)
	require.NoError(t, err)
	assert.Contains(t, out, `"control_id": "X-1"`)
}

func TestConfigSetMappings_RejectsInvalidFile(t *testing.T) {
	dir := setup(t)
	bad := write(t, dir, "bad.json", `{"type_mappings": {}}`)

	_, err := run(t, "config", "set-mappings", "-f", "SOC2", "-p", bad)

	assert.ErrorContains(t, err, "missing field title_mappings")
	_, statErr := os.Stat(filepath.Join(dir, "config.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigSetDefault_RejectsUnknownFormat(t *testing.T) {
	dir := setup(t)

	_, err := run(t, "config", "set-default", "-o", "xml")

	assert.ErrorContains(t, err, "unknown output format: xml")
	_, statErr := os.Stat(filepath.Join(dir, "config.yaml"))
	assert.True(t, os.IsNotExist(statErr))

	out, err := run(t, "config", "set-default", "-f", "soc2", "-o", "JSON")
	require.NoError(t, err)
	assert.Contains(t, out, "Framework=SOC2, Format=json")
}

func TestFrameworksCommand(t *testing.T) {
	setup(t)

	out, err := run(t, "frameworks")

	require.NoError(t, err)
	assert.Contains(t, out, "GENERIC")
	assert.Contains(t, out, "none")
	assert.Contains(t, out, "CC7.1")
	assert.Contains(t, out, "SI-4")
}
