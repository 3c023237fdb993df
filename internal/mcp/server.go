package mcp

import (
	"context"

	"teatime/internal/eventlog"
	"teatime/internal/predict"
	"teatime/internal/selection"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Options carries what the render and submit tools need beyond the controller.
type Options struct {
	Version     string
	BackendURL  string
	PredictPath string
	Title       string
}

// Server exposes one timeline session as MCP tools. Each tool call is one UI gesture.
type Server struct {
	ctrl      *selection.Controller
	submitter *predict.Submitter
	journal   *eventlog.Journal
	opts      Options

	sdk *mcpsdk.Server
}

// NewServer wires the controller, submitter and journal into an MCP server. journal may be nil.
func NewServer(ctrl *selection.Controller, submitter *predict.Submitter, journal *eventlog.Journal, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Title == "" {
		opts.Title = "Trend Timeline"
	}
	s := &Server{
		ctrl:      ctrl,
		submitter: submitter,
		journal:   journal,
		opts:      opts,
	}
	s.sdk = mcpsdk.NewServer(&mcpsdk.Implementation{Name: "teatime", Version: opts.Version}, nil)
	s.registerTools()
	return s
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Str("mode", string(s.ctrl.Mode())).Msg("MCP server listening on stdio")
	return s.sdk.Run(ctx, &mcpsdk.StdioTransport{})
}
