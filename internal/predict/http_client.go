package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	cfg      Config
	endpoint string
	http     *http.Client
	group    singleflight.Group
}

// NewHTTPClient creates a client that POSTs JSON to cfg.BaseURL + cfg.Path.
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		cfg.Path = "/" + cfg.Path
	}
	return &HTTPClient{
		cfg:      cfg,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + cfg.Path,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Endpoint returns the resolved URL requests are sent to.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

func (c *HTTPClient) Predict(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	if !c.cfg.Dedupe {
		return c.post(ctx, body)
	}

	v, err, shared := c.group.Do(string(body), func() (interface{}, error) {
		return c.post(ctx, body)
	})
	if shared {
		log.Debug().Str("url", c.endpoint).Msg("Shared in-flight prediction request")
	}
	if err != nil {
		return nil, err
	}
	return v.(*Response), nil
}

func (c *HTTPClient) post(ctx context.Context, body []byte) (*Response, error) {
	log.Info().Str("url", c.endpoint).Msg("Requesting prediction from backend")
	log.Debug().RawJSON("payload", body).Msg("Prediction request details")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: c.endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Msg("Backend returned error status")
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	result, err := decodeResponse(raw)
	if err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	log.Debug().Str("topTrend", result.TopTrend).Msg("Prediction received")
	return result, nil
}
