package visuals

import (
	"fmt"
	"html"
	"io"
	"strings"

	"teatime/internal/timeline"
	"teatime/internal/trends"
)

const (
	peakBarWidth = 6
	bucketGap    = 2
)

const svgDefs = `<defs>
<linearGradient id="bgGrad" x1="0" x2="0" y1="0" y2="1"><stop offset="0%" stop-color="#f8fbff"/><stop offset="100%" stop-color="#eef6ff"/></linearGradient>
<linearGradient id="peakGrad" x1="0" x2="0" y1="0" y2="1"><stop offset="0%" stop-color="#2d8cf0"/><stop offset="100%" stop-color="#4aa6ff"/></linearGradient>
<filter id="softShadow" x="-50%" y="-50%" width="200%" height="200%"><feDropShadow dx="0" dy="2" stdDeviation="4" flood-opacity="0.12"/></filter>
</defs>
`

// RenderPeakSVG draws one bar per trend point on the continuous time axis. A non-nil anchor
// adds the selected-date marker.
func RenderPeakSVG(w io.Writer, s *timeline.Scale, ds *trends.Dataset, anchor *int64) error {
	var sb strings.Builder
	writeFrame(&sb, s)

	for i, p := range ds.Points() {
		bar := s.PeakBar(p, peakBarWidth)
		sb.WriteString(fmt.Sprintf(`<rect class="timeline-peak" data-index="%d" data-ts="%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" fill="url(#peakGrad)" stroke="rgba(255,255,255,0.15)" stroke-width="0.8" filter="url(#softShadow)">`,
			i, p.Timestamp, bar.X, bar.Y, bar.Width, bar.Height))
		sb.WriteString(fmt.Sprintf("<title>%s</title></rect>\n", html.EscapeString(timeline.TooltipText(p))))
	}

	if anchor != nil {
		x := s.XFor(*anchor)
		c := s.Canvas
		sb.WriteString(fmt.Sprintf(`<g id="selected-marker"><line x1="%.2f" x2="%.2f" y1="%.2f" y2="%.2f" stroke="#ff6b6b" stroke-width="1.5" stroke-dasharray="4 4"/>`,
			x, x, c.Padding.Top, c.Baseline()+2))
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="6" fill="#ff6b6b" stroke="#fff" stroke-width="1"/></g>`+"\n",
			x, c.Padding.Top+8))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderBucketSVG draws one equal-width bar per bucket. Buckets lo..hi are highlighted;
// pass -1 for both when nothing is selected.
func RenderBucketSVG(w io.Writer, s *timeline.Scale, buckets []timeline.Bucket, lo, hi int) error {
	if lo > hi {
		lo, hi = hi, lo
	}

	var sb strings.Builder
	writeFrame(&sb, s)

	n := len(buckets)
	for i, b := range buckets {
		bar := s.BucketBar(i, n, b.Magnitude, bucketGap)
		fill := "url(#peakGrad)"
		class := "timeline-bucket"
		if lo >= 0 && i >= lo && i <= hi {
			fill = "#ff6b6b"
			class += " selected"
		}
		sb.WriteString(fmt.Sprintf(`<rect class="%s" data-index="%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" fill="%s">`,
			class, i, bar.X, bar.Y, bar.Width, bar.Height, fill))
		sb.WriteString(fmt.Sprintf("<title>%s — volume %.2f (%d trends)</title></rect>\n", html.EscapeString(b.Label), b.Magnitude, b.Count))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeFrame opens the svg element and draws the background, baseline and year ticks.
func writeFrame(sb *strings.Builder, s *timeline.Scale) {
	c := s.Canvas
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" class="timeline-svg" viewBox="0 0 %g %g" preserveAspectRatio="xMidYMid meet">`+"\n", c.Width, c.Height))
	sb.WriteString(svgDefs)
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%g" height="%g" rx="8" fill="url(#bgGrad)"/>`+"\n", c.Width, c.Height))
	base := c.Baseline()
	sb.WriteString(fmt.Sprintf(`<line x1="%g" x2="%g" y1="%g" y2="%g" stroke="#d6e7ff" stroke-width="2"/>`+"\n",
		c.Padding.Left, c.Width-c.Padding.Right, base, base))

	for _, t := range s.YearTicks() {
		sb.WriteString(fmt.Sprintf(`<g class="year-tick"><line x1="%.2f" x2="%.2f" y1="%g" y2="%g" stroke="#cbdff7"/><text x="%.2f" y="%g" font-size="11" text-anchor="middle" fill="#4a6f9b">%d</text></g>`+"\n",
			t.X, t.X, base, base+10, t.X, c.Height-6, t.Year))
	}
}
