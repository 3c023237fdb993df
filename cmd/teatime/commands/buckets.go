package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"teatime/internal/timeline"
	"teatime/internal/visuals"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var bucketsMermaid bool

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List the calendar buckets and their aggregated trend volume",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController()
		if err != nil {
			return err
		}
		buckets := ctrl.Buckets()
		if len(buckets) == 0 {
			fmt.Println("No buckets: the anchor month is after today.")
			return nil
		}

		if bucketsMermaid {
			fmt.Println(visuals.BucketMermaid(buckets))
			return nil
		}

		values := make([]float64, len(buckets))
		rows := make([][]string, 0, len(buckets))
		for i, b := range buckets {
			values[i] = b.Magnitude
			rows = append(rows, []string{
				strconv.Itoa(b.Index),
				b.Label,
				b.Window().StartTime().Format("2006-01-02"),
				b.Window().EndTime().Format("2006-01-02"),
				strconv.FormatFloat(b.Magnitude, 'f', 2, 64),
				strconv.Itoa(b.Count),
			})
		}
		if err := renderTable(os.Stdout, []string{"#", "Bucket", "From", "To", "Volume", "Trends"}, rows); err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(asciigraph.Plot(values,
			asciigraph.Height(8),
			asciigraph.SeriesColors(asciigraph.Green),
			asciigraph.Caption(fmt.Sprintf("volume per %d-month bucket, %s", cfg.BucketMonths, spanLabel(buckets)))))
		return nil
	},
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
	)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func spanLabel(buckets []timeline.Bucket) string {
	return timeline.Window{Start: buckets[0].Start, End: buckets[len(buckets)-1].End}.String()
}

func init() {
	bucketsCmd.Flags().BoolVar(&bucketsMermaid, "mermaid", false, "print a Mermaid chart instead of a table")
	rootCmd.AddCommand(bucketsCmd)
}
