package predict

import (
	"context"
	"time"
)

// DefaultPath is the prediction endpoint. Older backends expose /api/submit instead.
const DefaultPath = "/api/predict"

// Client is the interface for talking to the prediction backend.
type Client interface {
	Predict(ctx context.Context, req Request) (*Response, error)
}

// Config holds the connection settings for the backend.
type Config struct {
	BaseURL string
	Path    string

	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration

	// Dedupe shares one in-flight request between identical concurrent payloads.
	Dedupe bool
}

// NewClient creates a backend client from cfg.
func NewClient(cfg Config) Client {
	return NewHTTPClient(cfg)
}
