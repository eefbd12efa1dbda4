package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/user/secmap/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "secmap",
	Short: "Map cloud security findings to compliance framework controls",
	Long: `secmap classifies Security Hub findings against compliance framework
controls (SOC2, NIST 800-53) using static type and title mappings, and
aggregates the results into a per-control report.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.Default(DebugMode)
	},
}

var (
	DebugMode bool
	logger    = zerolog.Nop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
}
