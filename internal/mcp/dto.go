package mcp

import (
	"teatime/internal/predict"
	"teatime/internal/selection"
	"teatime/internal/timeline"
)

// WindowOut is a time window in both ISO and millisecond form.
type WindowOut struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

func windowOut(w *timeline.Window) *WindowOut {
	if w == nil {
		return nil
	}
	return &WindowOut{
		Start:   predict.FormatISO(w.Start),
		End:     predict.FormatISO(w.End),
		StartMs: w.Start,
		EndMs:   w.End,
	}
}

// TooltipOut is the visible tooltip, if any.
type TooltipOut struct {
	Content string  `json:"content"`
	LeftPct float64 `json:"left_pct"`
	TopPct  float64 `json:"top_pct"`
}

// ViewOut is the controller state returned by every gesture tool.
type ViewOut struct {
	Mode      string      `json:"mode"`
	State     string      `json:"state"`
	Selection *WindowOut  `json:"selection,omitempty"`
	Submitted *WindowOut  `json:"submitted,omitempty"`
	FullSpan  WindowOut   `json:"full_span"`
	Anchor    string      `json:"anchor,omitempty"`
	Buckets   []int       `json:"buckets,omitempty"`
	Tooltip   *TooltipOut `json:"tooltip,omitempty"`
	// Hint tells the caller what to do when nothing is selected.
	Hint string `json:"hint,omitempty"`
}

func viewOut(v selection.View) ViewOut {
	out := ViewOut{
		Mode:      string(v.Mode),
		State:     v.State.String(),
		Selection: windowOut(v.Selection),
		Submitted: windowOut(v.Submitted),
		FullSpan:  *windowOut(&v.FullSpan),
	}
	if v.Anchor != nil {
		out.Anchor = predict.FormatISO(*v.Anchor)
	}
	if v.Buckets != nil {
		out.Buckets = []int{v.Buckets[0], v.Buckets[1]}
	}
	if v.Tooltip.Visible {
		out.Tooltip = &TooltipOut{Content: v.Tooltip.Content, LeftPct: v.Tooltip.LeftPct, TopPct: v.Tooltip.TopPct}
	}
	if v.Selection == nil {
		out.Hint = "No selection — submit will use full timeline range"
	}
	return out
}

// BucketOut is one bar of the bucket chart.
type BucketOut struct {
	Index     int     `json:"index"`
	Label     string  `json:"label"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Magnitude float64 `json:"magnitude"`
	Count     int     `json:"count"`
}

// ResultOut is the display slot after a submission.
type ResultOut struct {
	Type     string     `json:"type"`
	Text     string     `json:"text"`
	TopTrend string     `json:"top_trend,omitempty"`
	Message  string     `json:"message,omitempty"`
	Window   *WindowOut `json:"window,omitempty"`
	Seq      uint64     `json:"seq"`
}

func resultOut(r predict.Result) ResultOut {
	return ResultOut{
		Type:     string(r.Kind),
		Text:     r.Text,
		TopTrend: r.TopTrend,
		Message:  r.Message,
		Window:   windowOut(r.Window),
		Seq:      r.Seq,
	}
}
