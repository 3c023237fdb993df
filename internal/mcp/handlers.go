package mcp

import (
	"bytes"
	"context"
	"fmt"

	"teatime/internal/predict"
	"teatime/internal/selection"
	"teatime/internal/timeline"
	"teatime/internal/trends"
	"teatime/internal/visuals"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type OverviewArgs struct{}

type OverviewResult struct {
	Points  int     `json:"points"`
	Buckets int     `json:"buckets"`
	Span    string  `json:"span"`
	View    ViewOut `json:"view"`
}

func (s *Server) handleOverview(ctx context.Context, req *mcpsdk.CallToolRequest, args OverviewArgs) (*mcpsdk.CallToolResult, OverviewResult, error) {
	span := s.ctrl.FullSpan()
	return nil, OverviewResult{
		Points:  s.ctrl.Dataset().Len(),
		Buckets: len(s.ctrl.Buckets()),
		Span:    span.String(),
		View:    viewOut(s.ctrl.Snapshot()),
	}, nil
}

type BucketsArgs struct{}

type BucketsResult struct {
	Buckets []BucketOut `json:"buckets"`
	Chart   string      `json:"chart"`
}

func (s *Server) handleBuckets(ctx context.Context, req *mcpsdk.CallToolRequest, args BucketsArgs) (*mcpsdk.CallToolResult, BucketsResult, error) {
	buckets := s.ctrl.Buckets()
	out := BucketsResult{Buckets: make([]BucketOut, 0, len(buckets)), Chart: visuals.BucketMermaid(buckets)}
	for _, b := range buckets {
		out.Buckets = append(out.Buckets, BucketOut{
			Index:     b.Index,
			Label:     b.Label,
			Start:     predict.FormatISO(b.Start),
			End:       predict.FormatISO(b.End),
			Magnitude: b.Magnitude,
			Count:     b.Count,
		})
	}
	return nil, out, nil
}

type ClickArgs struct {
	Date           string  `json:"date,omitempty" jsonschema:"Date to centre the window on, e.g. 2016-03-01"`
	X              float64 `json:"x,omitempty" jsonschema:"Click position in rendered pixels from the chart's left edge"`
	RenderedWidth  float64 `json:"rendered_width,omitempty" jsonschema:"Rendered chart width in pixels"`
	RenderedHeight float64 `json:"rendered_height,omitempty" jsonschema:"Rendered chart height in pixels"`
}

type ClickResult struct {
	Window WindowOut `json:"window"`
	View   ViewOut   `json:"view"`
}

func (s *Server) handleClick(ctx context.Context, req *mcpsdk.CallToolRequest, args ClickArgs) (*mcpsdk.CallToolResult, ClickResult, error) {
	var (
		w   timeline.Window
		err error
	)
	switch {
	case args.Date != "":
		t, perr := trends.ParseDate(args.Date)
		if perr != nil {
			return nil, ClickResult{}, fmt.Errorf("invalid date %q: %w", args.Date, perr)
		}
		w, err = s.ctrl.ClickAt(t.UnixMilli())
	case args.RenderedWidth > 0:
		w, err = s.ctrl.Click(args.X, viewport(args.RenderedWidth, args.RenderedHeight))
	default:
		return nil, ClickResult{}, fmt.Errorf("either 'date' or 'x' with 'rendered_width' is required")
	}
	if err != nil {
		return nil, ClickResult{}, err
	}
	return nil, ClickResult{Window: *windowOut(&w), View: viewOut(s.ctrl.Snapshot())}, nil
}

type DragArgs struct {
	Action string `json:"action" jsonschema:"One of: start, enter, up"`
	Bucket int    `json:"bucket,omitempty" jsonschema:"Bucket index for start and enter"`
}

func (s *Server) handleDrag(ctx context.Context, req *mcpsdk.CallToolRequest, args DragArgs) (*mcpsdk.CallToolResult, ViewOut, error) {
	var err error
	switch args.Action {
	case "start":
		err = s.ctrl.PointerDown(args.Bucket)
	case "enter":
		err = s.ctrl.PointerEnter(args.Bucket)
	case "up":
		s.ctrl.PointerUp()
	default:
		err = fmt.Errorf("unknown drag action %q (want start, enter or up)", args.Action)
	}
	if err != nil {
		return nil, ViewOut{}, err
	}
	return nil, viewOut(s.ctrl.Snapshot()), nil
}

type HoverArgs struct {
	Index          int     `json:"index,omitempty" jsonschema:"Point index in peak mode or bucket index in bucket mode"`
	X              float64 `json:"x,omitempty" jsonschema:"Pointer x in rendered pixels"`
	Y              float64 `json:"y,omitempty" jsonschema:"Pointer y in rendered pixels"`
	RenderedWidth  float64 `json:"rendered_width,omitempty"`
	RenderedHeight float64 `json:"rendered_height,omitempty"`
	Leave          bool    `json:"leave,omitempty" jsonschema:"Hide the tooltip instead"`
}

func (s *Server) handleHover(ctx context.Context, req *mcpsdk.CallToolRequest, args HoverArgs) (*mcpsdk.CallToolResult, ViewOut, error) {
	if args.Leave {
		s.ctrl.Leave()
		return nil, viewOut(s.ctrl.Snapshot()), nil
	}
	if _, err := s.ctrl.Hover(args.Index, args.X, args.Y, viewport(args.RenderedWidth, args.RenderedHeight)); err != nil {
		return nil, ViewOut{}, err
	}
	return nil, viewOut(s.ctrl.Snapshot()), nil
}

type ResetArgs struct{}

func (s *Server) handleReset(ctx context.Context, req *mcpsdk.CallToolRequest, args ResetArgs) (*mcpsdk.CallToolResult, ViewOut, error) {
	s.ctrl.Reset()
	return nil, viewOut(s.ctrl.Snapshot()), nil
}

type SubmitArgs struct {
	Prompt string `json:"prompt,omitempty" jsonschema:"Question to send with the selected window"`
}

type SubmitResult struct {
	Result ResultOut `json:"result"`
	View   ViewOut   `json:"view"`
}

func (s *Server) handleSubmit(ctx context.Context, req *mcpsdk.CallToolRequest, args SubmitArgs) (*mcpsdk.CallToolResult, SubmitResult, error) {
	ev := s.ctrl.Submit(args.Prompt)
	r := s.submitter.Submit(ctx, ev)
	if s.journal != nil {
		s.journal.RecordResult(r)
	}
	log.Info().Str("outcome", string(r.Kind)).Uint64("seq", r.Seq).Msg("Submission resolved")

	// The display slot may hold a later-resolving submission from another caller.
	shown, ok := s.submitter.Display().Result()
	if !ok {
		shown = r
	}
	return nil, SubmitResult{Result: resultOut(shown), View: viewOut(s.ctrl.Snapshot())}, nil
}

type RenderArgs struct {
	Format string `json:"format,omitempty" jsonschema:"svg, html or mermaid (default svg)"`
}

type RenderResult struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

func (s *Server) handleRender(ctx context.Context, req *mcpsdk.CallToolRequest, args RenderArgs) (*mcpsdk.CallToolResult, RenderResult, error) {
	format := args.Format
	if format == "" {
		format = "svg"
	}

	var content string
	switch format {
	case "mermaid":
		if s.ctrl.Mode() == selection.ModeBucket {
			content = visuals.BucketMermaid(s.ctrl.Buckets())
		} else {
			content = visuals.PeakMermaid(s.ctrl.Dataset())
		}
	case "svg", "html":
		page, err := visuals.BuildPage(s.ctrl, s.opts.Title, "", s.opts.BackendURL, s.opts.PredictPath)
		if err != nil {
			return nil, RenderResult{}, err
		}
		content = string(page.SVG)
		if format == "html" {
			var buf bytes.Buffer
			if err := visuals.RenderHTML(&buf, page); err != nil {
				return nil, RenderResult{}, err
			}
			content = buf.String()
		}
	default:
		return nil, RenderResult{}, fmt.Errorf("unknown format %q (want svg, html or mermaid)", format)
	}
	return nil, RenderResult{Format: format, Content: content}, nil
}

// viewport falls back to the logical canvas size when the caller gives no rendered size.
func viewport(w, h float64) timeline.Viewport {
	c := timeline.DefaultCanvas()
	if w <= 0 {
		w = c.Width
	}
	if h <= 0 {
		h = c.Height
	}
	return timeline.Viewport{RenderedWidth: w, RenderedHeight: h}
}
