package predict

import (
	"bytes"
	"encoding/json"
	"time"

	"teatime/internal/timeline"
)

// ISOLayout matches JavaScript's Date.toISOString: UTC with millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// DateRange is the optional window sent to the backend.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Request is the body of POST /api/predict. DateRange is omitted entirely when nil so the
// backend falls back to its whole corpus.
type Request struct {
	Prompt    string     `json:"prompt"`
	DateRange *DateRange `json:"date_range,omitempty"`
}

// Response is the backend's answer. Raw keeps the full body for display.
type Response struct {
	TopTrend string          `json:"top_trend"`
	Message  string          `json:"message"`
	Raw      json.RawMessage `json:"-"`
}

// decodeResponse fails only when body is not JSON. Fields are mapped best-effort: a body
// that is not an object leaves them empty, and non-string values keep their JSON text.
func decodeResponse(body []byte) (*Response, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	result := &Response{Raw: raw}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return result, nil
	}
	result.TopTrend = fieldText(fields["top_trend"])
	result.Message = fieldText(fields["message"])
	return result, nil
}

func fieldText(v json.RawMessage) string {
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}

// FormatISO renders ms as an ISO 8601 UTC timestamp.
func FormatISO(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(ISOLayout)
}

// BuildRequest assembles the outbound payload. A nil selection produces no date_range.
func BuildRequest(sel *timeline.Window, prompt string) Request {
	req := Request{Prompt: prompt}
	if sel != nil {
		req.DateRange = &DateRange{
			Start: FormatISO(sel.Start),
			End:   FormatISO(sel.End),
		}
	}
	return req
}
