package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("teatime %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		fmt.Printf("backend: %s (%s)\n", cfg.Predict.BaseURL, cfg.BackendSource)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
