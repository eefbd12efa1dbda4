package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/user/secmap/pkg/config"
	"github.com/user/secmap/pkg/engine"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (default framework, mappings files)",
}

var setMappingsCmd = &cobra.Command{
	Use:   "set-mappings",
	Short: "Set the mappings file used for a framework",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("framework")
		path, _ := cmd.Flags().GetString("path")

		if name == "" || path == "" {
			return fmt.Errorf("--framework and --path are required")
		}
		fw, err := engine.ParseFramework(name)
		if err != nil {
			return err
		}
		// validate up front; the mapper itself would silently fall back
		if _, err := engine.LoadMappingTable(path); err != nil {
			return err
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		cfg.SetMappingsPath(fw.String(), path)
		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mappings file saved for %s: %s\n", fw, path)
		return nil
	},
}

var setDefaultCmd = &cobra.Command{
	Use:   "set-default",
	Short: "Set the default framework and output format",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("framework")
		format, _ := cmd.Flags().GetString("format")

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		if name != "" {
			fw, err := engine.ParseFramework(name)
			if err != nil {
				return err
			}
			cfg.DefaultFramework = fw.String()
		}
		if format != "" {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			cfg.OutputFormat = f
		}
		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active configuration updated: Framework=%s, Format=%s\n", cfg.DefaultFramework, cfg.OutputFormat)
		return nil
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Default framework: %s\n", cfg.DefaultFramework)
		fmt.Fprintf(out, "Output format:     %s\n", cfg.OutputFormat)

		keys := make([]string, 0, len(cfg.Mappings))
		for k := range cfg.Mappings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) == 0 {
			fmt.Fprintln(out, "Mappings:          (built-in defaults)")
		}
		for _, k := range keys {
			fmt.Fprintf(out, "Mappings[%s]: %s\n", k, cfg.Mappings[k])
		}
		return nil
	},
}

func init() {
	setMappingsCmd.Flags().StringP("framework", "f", "", "Framework (GENERIC, SOC2, NIST800-53)")
	setMappingsCmd.Flags().StringP("path", "p", "", "Mappings file path")

	setDefaultCmd.Flags().StringP("framework", "f", "", "Framework (GENERIC, SOC2, NIST800-53)")
	setDefaultCmd.Flags().StringP("format", "o", "", "Output format (text, json)")

	configCmd.AddCommand(setMappingsCmd)
	configCmd.AddCommand(setDefaultCmd)
	configCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(configCmd)
}
