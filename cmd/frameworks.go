package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/secmap/pkg/engine"
)

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List supported frameworks and their default controls",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, fw := range engine.Frameworks() {
			def, ok := fw.DefaultControl()
			if !ok {
				def = "none"
			}
			fmt.Fprintf(out, "%-12s default control: %-6s built-in controls: %d\n",
				fw, def, len(fw.DefaultMappingTable().Controls()))
		}
	},
}

func init() {
	rootCmd.AddCommand(frameworksCmd)
}
