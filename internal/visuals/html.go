package visuals

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"teatime/internal/selection"
	"teatime/internal/timeline"

	"github.com/evanw/esbuild/pkg/api"
)

//go:embed assets/timeline.js
var timelineScript string

// PageData is everything the interactive page needs.
type PageData struct {
	Title string
	// Prompt pre-fills the prompt box.
	Prompt string
	// BackendURL is compiled into the script as the fallback behind window.__BACKEND_URL__.
	BackendURL  string
	PredictPath string

	View    selection.View
	Canvas  timeline.Canvas
	Domain  timeline.Window
	Buckets []timeline.Bucket

	SVG template.HTML
}

// pageConfig is the JSON handed to the script.
type pageConfig struct {
	Mode          selection.Mode    `json:"mode"`
	Path          string            `json:"path"`
	Width         float64           `json:"width"`
	Height        float64           `json:"height"`
	PadLeft       float64           `json:"padLeft"`
	PadRight      float64           `json:"padRight"`
	PadTop        float64           `json:"padTop"`
	PadBottom     float64           `json:"padBottom"`
	DomainMin     int64             `json:"domainMin"`
	DomainMax     int64             `json:"domainMax"`
	SpanStart     int64             `json:"spanStart"`
	SpanEnd       int64             `json:"spanEnd"`
	HalfWidth     int64             `json:"halfWidth"`
	TooltipOffset float64           `json:"tooltipOffset"`
	Buckets       []timeline.Bucket `json:"buckets"`
	Selection     *timeline.Window  `json:"selection"`
	Anchor        *int64            `json:"anchor"`
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,sans-serif;margin:24px;color:#173a5e;background:#fff}
.timeline-card{position:relative;max-width:1000px}
.timeline-svg{width:100%;height:auto;display:block;cursor:crosshair}
.timeline-tooltip{position:absolute;transform:translate(-50%,-120%);background:#173a5e;color:#fff;padding:4px 8px;border-radius:4px;font-size:12px;pointer-events:none;white-space:nowrap}
.timeline-info{display:flex;justify-content:space-between;gap:16px;margin-top:12px;font-size:14px}
.timeline-result.error{color:#b42318}
.timeline-result.success{color:#155e75}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="timeline-card">
{{.SVG}}
<div id="timeline-tooltip" class="timeline-tooltip" hidden></div>
</div>
<div class="timeline-info">
<div>
<div id="timeline-selected"></div>
<div id="timeline-submitted"></div>
</div>
<div>
<input id="timeline-prompt" type="text" value="{{.Prompt}}" placeholder="Ask about this period">
<button id="timeline-reset" type="button">Reset</button>
<button id="timeline-submit" type="button">Submit</button>
</div>
</div>
<div id="timeline-result" class="timeline-result"></div>
<script type="application/json" id="timeline-config">{{.Config}}</script>
<script>{{.Script}}</script>
</body>
</html>
`))

// BuildScript minifies the interaction script and bakes in the build-time backend URL.
func BuildScript(backendURL string) (string, error) {
	define, err := json.Marshal(backendURL)
	if err != nil {
		return "", err
	}
	result := api.Transform(timelineScript, api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2017,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Define:            map[string]string{"BUILD_BACKEND_URL": string(define)},
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			msgs = append(msgs, m.Text)
		}
		return "", fmt.Errorf("failed to build timeline script: %s", strings.Join(msgs, "; "))
	}
	return string(result.Code), nil
}

// RenderHTML writes a self-contained interactive page.
func RenderHTML(w io.Writer, page PageData) error {
	if page.SVG == "" {
		return errors.New("page has no chart")
	}
	script, err := BuildScript(page.BackendURL)
	if err != nil {
		return err
	}

	c := page.Canvas
	cfg := pageConfig{
		Mode:          page.View.Mode,
		Path:          page.PredictPath,
		Width:         c.Width,
		Height:        c.Height,
		PadLeft:       c.Padding.Left,
		PadRight:      c.Padding.Right,
		PadTop:        c.Padding.Top,
		PadBottom:     c.Padding.Bottom,
		DomainMin:     page.Domain.Start,
		DomainMax:     page.Domain.End,
		SpanStart:     page.View.FullSpan.Start,
		SpanEnd:       page.View.FullSpan.End,
		HalfWidth:     timeline.PeakHalfWidth,
		TooltipOffset: timeline.TooltipOffset,
		Buckets:       page.Buckets,
		Selection:     page.View.Selection,
		Anchor:        page.View.Anchor,
	}
	if cfg.Buckets == nil {
		cfg.Buckets = []timeline.Bucket{}
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode page config: %w", err)
	}

	return pageTemplate.Execute(w, struct {
		PageData
		Config template.JS
		Script template.JS
	}{page, template.JS(cfgJSON), template.JS(script)})
}

// BuildPage renders the controller's current chart into a PageData.
func BuildPage(c *selection.Controller, title, prompt, backendURL, predictPath string) (PageData, error) {
	view := c.Snapshot()
	page := PageData{
		Title:       title,
		Prompt:      prompt,
		BackendURL:  backendURL,
		PredictPath: predictPath,
		View:        view,
	}

	var buf bytes.Buffer
	switch view.Mode {
	case selection.ModeBucket:
		s := c.BarScale()
		lo, hi := -1, -1
		if view.Buckets != nil {
			lo, hi = view.Buckets[0], view.Buckets[1]
		}
		page.Buckets = c.Buckets()
		page.Canvas = s.Canvas
		page.Domain = timeline.Window{Start: s.DomainMin, End: s.DomainMax}
		if err := RenderBucketSVG(&buf, s, page.Buckets, lo, hi); err != nil {
			return PageData{}, err
		}
	default:
		s := c.Scale()
		page.Canvas = s.Canvas
		page.Domain = timeline.Window{Start: s.DomainMin, End: s.DomainMax}
		if err := RenderPeakSVG(&buf, s, c.Dataset(), view.Anchor); err != nil {
			return PageData{}, err
		}
	}
	page.SVG = template.HTML(buf.String())
	return page, nil
}
