package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"teatime/internal/selection"
	"teatime/internal/visuals"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	chartFormat string
	chartOut    string
	chartOpen   bool
	chartPrompt string
	chartSel    selectionFlags
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the timeline as SVG, an interactive HTML page or Mermaid",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}
		if err := chartSel.apply(ctrl); err != nil {
			return err
		}

		out := chartOut
		if out == "" && chartOpen {
			out = filepath.Join(cfg.CacheDir, "timeline."+chartFormat)
		}

		var w io.Writer = os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		if err := renderChart(w, ctrl); err != nil {
			return err
		}
		if out == "" {
			return nil
		}
		log.Info().Str("path", out).Str("format", chartFormat).Msg("Chart written")

		if chartOpen {
			return browser.OpenFile(out)
		}
		return nil
	},
}

func renderChart(w io.Writer, ctrl *selection.Controller) error {
	switch chartFormat {
	case "mermaid":
		chart := visuals.PeakMermaid(ctrl.Dataset())
		if ctrl.Mode() == selection.ModeBucket {
			chart = visuals.BucketMermaid(ctrl.Buckets())
		}
		_, err := fmt.Fprintln(w, chart)
		return err
	case "svg", "html":
		page, err := visuals.BuildPage(ctrl, "Trend Timeline", chartPrompt, cfg.Predict.BaseURL, cfg.Predict.Path)
		if err != nil {
			return err
		}
		if chartFormat == "svg" {
			_, err = io.WriteString(w, string(page.SVG))
			return err
		}
		return visuals.RenderHTML(w, page)
	}
	return fmt.Errorf("unknown format %q (want svg, html or mermaid)", chartFormat)
}

func init() {
	chartCmd.Flags().StringVarP(&chartFormat, "format", "f", "html", "output format: svg, html or mermaid")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "", "output file (default stdout)")
	chartCmd.Flags().BoolVar(&chartOpen, "open", false, "open the rendered file in the default browser")
	chartCmd.Flags().StringVar(&chartPrompt, "prompt", "", "pre-fill the prompt box of the HTML page")
	chartSel.register(chartCmd)
	rootCmd.AddCommand(chartCmd)
}
