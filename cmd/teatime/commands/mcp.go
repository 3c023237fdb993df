package commands

import (
	"context"

	"teatime/internal/mcp"
	"teatime/internal/predict"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the timeline as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP(cmd.Context())
	},
}

func runMCP(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctrl, err := newController()
	if err != nil {
		return err
	}
	journal, journalFile := openJournal(journalDir())
	defer saveJournal(journal, journalDir(), journalFile)
	ctrl.Subscribe(journal.Record)

	submitter := predict.NewSubmitter(predict.NewClient(cfg.Predict), nil)
	server := mcp.NewServer(ctrl, submitter, journal, mcp.Options{
		Version:     Version,
		BackendURL:  cfg.Predict.BaseURL,
		PredictPath: cfg.Predict.Path,
	})
	return server.Run(ctx)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
