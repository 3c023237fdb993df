package commands

import (
	"errors"
	"fmt"

	"teatime/internal/predict"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errSubmitFailed = errors.New("submission failed")

var (
	predictPrompt string
	predictSel    selectionFlags
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Select a period and send it with a prompt to the prediction backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}
		journal, journalFile := openJournal(journalDir())
		defer saveJournal(journal, journalDir(), journalFile)
		ctrl.Subscribe(journal.Record)

		if err := predictSel.apply(ctrl); err != nil {
			return err
		}

		submitter := predict.NewSubmitter(predict.NewClient(cfg.Predict), nil)
		ev := ctrl.Submit(predictPrompt)
		r := submitter.Submit(cmd.Context(), ev)
		journal.RecordResult(r)

		bold := color.New(color.Bold)
		if ev.Selection == nil {
			color.Yellow("No selection — submit will use full timeline range")
		}
		bold.Print("Submitted: ")
		fmt.Println(ev.Effective.String())

		if r.Kind == predict.KindError {
			color.Red("%s", r.Text)
			return errSubmitFailed
		}
		color.Green("%s", r.Text)
		if r.TopTrend != "" {
			bold.Print("Top trend: ")
			color.Cyan("%s", r.TopTrend)
		}
		if r.Message != "" {
			fmt.Println(r.Message)
		}
		return nil
	},
}

func init() {
	predictCmd.Flags().StringVarP(&predictPrompt, "prompt", "p", "", "prompt sent with the selected period")
	predictSel.register(predictCmd)
	rootCmd.AddCommand(predictCmd)
}
