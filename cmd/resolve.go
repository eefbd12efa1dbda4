package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/secmap/pkg/config"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a single finding type and title to framework controls",
	Example: `  secmap resolve --type "Software and Configuration Checks/Industry and Regulatory Standards/IAM.4" \
    --title "IAM root user access key should not exist"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		findingType, _ := cmd.Flags().GetString("type")
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		mapper, err := mapperFromFlags(cmd, cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		controls := mapper.ResolveControls(findingType, title, description)
		if len(controls) == 0 {
			fmt.Fprintf(out, "No %s controls matched.\n", mapper.Framework())
			return nil
		}
		fmt.Fprintf(out, "%s controls: %s\n", mapper.Framework(), strings.Join(controls, ", "))
		for _, id := range controls {
			if desc := mapper.ControlDescription(id); desc != "" {
				fmt.Fprintf(out, "  %s: %s\n", id, desc)
			}
		}
		return nil
	},
}

func init() {
	addMapperFlags(resolveCmd)
	resolveCmd.Flags().StringP("type", "t", "", "Finding type")
	resolveCmd.Flags().String("title", "", "Finding title")
	resolveCmd.Flags().String("description", "", "Finding description")
	rootCmd.AddCommand(resolveCmd)
}
