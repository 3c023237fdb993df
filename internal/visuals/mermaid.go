package visuals

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"teatime/internal/timeline"
	"teatime/internal/trends"
)

// mermaidMaxBars is where xychart-beta labels start to overlap.
const mermaidMaxBars = 60

// BucketMermaid creates a Mermaid xychart-beta bar chart of aggregated bucket volume.
func BucketMermaid(buckets []timeline.Bucket) string {
	if len(buckets) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0

	// Keep the most recent buckets when the range is too wide for Mermaid's layout engine
	first := 0
	if len(buckets) > mermaidMaxBars {
		first = len(buckets) - mermaidMaxBars
	}
	for _, b := range buckets[first:] {
		labels = append(labels, fmt.Sprintf("\"%s\"", b.Label))
		values = append(values, fmt.Sprintf("%.2f", b.Magnitude))
		maxVal = math.Max(maxVal, b.Magnitude)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Trend Volume per Bucket\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Volume\" 0 --> %s\n", yCeiling(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// PeakMermaid creates a Mermaid xychart-beta bar chart with one bar per trend point.
func PeakMermaid(ds *trends.Dataset) string {
	if ds.Len() == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0.0
	for _, p := range ds.Points() {
		labels = append(labels, fmt.Sprintf("\"%s\"", p.Time().Format("2006-01")))
		values = append(values, fmt.Sprintf("%.2f", p.Magnitude))
		maxVal = math.Max(maxVal, p.Magnitude)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Trend Peaks\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Score\" 0 --> %s\n", yCeiling(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// yCeiling leaves 10% headroom above the tallest bar.
func yCeiling(maxVal float64) string {
	if maxVal <= 0 {
		return "1"
	}
	return strconv.FormatFloat(math.Ceil(maxVal*110)/100, 'f', -1, 64)
}
