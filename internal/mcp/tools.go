package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// enumSchema infers the input schema of T and restricts one property to the given values.
func enumSchema[T any](property string, values ...any) *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("schema for %T: %v", *new(T), err))
	}
	prop, ok := schema.Properties[property]
	if !ok {
		panic(fmt.Sprintf("schema for %T has no property %q", *new(T), property))
	}
	prop.Enum = values
	return schema
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "timeline_overview",
		Description: "Describe the loaded trend timeline: selection mode, point and bucket counts, the full span and the current selection state.",
	}, s.handleOverview)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "timeline_buckets",
		Description: "List the fixed-width calendar buckets with their aggregated trend volume, plus a Mermaid bar chart.",
	}, s.handleBuckets)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name: "timeline_click",
		Description: "Peak mode only. Select the window of 45 days either side of a date. Pass 'date' directly, " +
			"or a click position 'x' together with the rendered chart size to convert a pixel into a date.",
	}, s.handleClick)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name: "timeline_drag",
		Description: "Bucket mode only. Drive a drag gesture over the bucket bars: 'start' on a bucket, 'enter' further buckets, then 'up' to finish. " +
			"The selection always spans the lower through the higher bucket, whatever the drag direction.",
		InputSchema: enumSchema[DragArgs]("action", "start", "enter", "up"),
	}, s.handleDrag)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "timeline_hover",
		Description: "Show the tooltip for a mark (a point in peak mode, a bucket in bucket mode), or hide it with 'leave'. Hovering never changes the selection.",
	}, s.handleHover)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "timeline_reset",
		Description: "Clear the selection, the submitted range and the tooltip.",
	}, s.handleReset)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name: "timeline_submit",
		Description: "Send the prompt and the selected window to the prediction backend and wait for the answer. " +
			"Without a selection the request carries no date range and the full timeline span is reported as submitted.",
	}, s.handleSubmit)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "timeline_render",
		Description: "Render the current chart as 'svg', 'html' (interactive page) or 'mermaid'.",
		InputSchema: enumSchema[RenderArgs]("format", "svg", "html", "mermaid"),
	}, s.handleRender)
}
