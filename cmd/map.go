package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/secmap/pkg/config"
	"github.com/user/secmap/pkg/engine"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map a findings export to framework controls and print a report",
	Example: `  secmap map --findings findings.json --framework SOC2
  secmap map --findings findings.json --framework NIST800-53 --mappings nist.json --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		findingsPath, _ := cmd.Flags().GetString("findings")
		format, _ := cmd.Flags().GetString("format")

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if format == "" {
			format = cfg.OutputFormat
		}
		if format == "" {
			format = "text"
		}

		mapper, err := mapperFromFlags(cmd, cfg)
		if err != nil {
			return err
		}

		findings, err := engine.LoadFindings(findingsPath)
		if err != nil {
			return fmt.Errorf("error loading findings: %w", err)
		}
		logger.Debug().Int("findings", len(findings)).Str("path", findingsPath).Msg("loaded findings")

		if format, err = parseFormat(format); err != nil {
			return err
		}

		report := engine.BuildReport(mapper, findings)
		if format == "json" {
			return report.RenderJSON(cmd.OutOrStdout())
		}
		return report.RenderText(cmd.OutOrStdout())
	},
}

// parseFormat normalizes an output format name.
func parseFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "text", "json":
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

// mapperFromFlags builds a mapper from --framework and --mappings, falling
// back to the configured defaults.
func mapperFromFlags(cmd *cobra.Command, cfg *config.Config) (*engine.Mapper, error) {
	name, _ := cmd.Flags().GetString("framework")
	mappingsPath, _ := cmd.Flags().GetString("mappings")

	if name == "" {
		name = cfg.DefaultFramework
	}
	fw, err := engine.ParseFramework(name)
	if err != nil {
		return nil, err
	}
	if mappingsPath == "" {
		mappingsPath = cfg.GetMappingsPath(fw.String())
	}
	return engine.NewMapper(fw, mappingsPath, logger), nil
}

func addMapperFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("framework", "f", "", "Compliance framework (GENERIC, SOC2, NIST800-53)")
	cmd.Flags().StringP("mappings", "m", "", "Path to a JSON or YAML mappings file")
}

func init() {
	addMapperFlags(mapCmd)
	mapCmd.Flags().StringP("findings", "i", "", "Path to a Security Hub findings export")
	mapCmd.Flags().StringP("format", "o", "", "Output format (text, json)")
	_ = mapCmd.MarkFlagRequired("findings")
	rootCmd.AddCommand(mapCmd)
}
