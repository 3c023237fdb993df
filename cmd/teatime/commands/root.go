package commands

import (
	"teatime/internal/config"
	"teatime/internal/logging"
	"teatime/internal/selection"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	backendURL string
	modeFlag   string
	cfg        *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "teatime",
	Short: "teatime is an interactive trend timeline with a prediction backend",
	Long: `teatime lays trending topics out on a time axis, lets you pick a period by clicking a peak
or dragging across monthly buckets, and sends that period with a prompt to a prediction backend.

Without a subcommand it serves the timeline as MCP tools over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(logging.Options{Verbose: verbose}); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(backendURL)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load configuration")
			return err
		}
		if modeFlag != "" {
			if cfg.Mode, err = selection.ParseMode(modeFlag); err != nil {
				return err
			}
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("backend", cfg.Predict.BaseURL).
			Str("backendSource", cfg.BackendSource).
			Msg("teatime starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP(cmd.Context())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url", "", "prediction backend base URL (overrides BACKEND_URL)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "selection mode: peak or bucket (overrides SELECTION_MODE)")
}
