package eventlog

import (
	"fmt"

	"teatime/internal/predict"
	"teatime/internal/selection"
)

// SubmitResolved marks the outcome of a submission. The other entry types mirror the
// controller's selection events.
const SubmitResolved selection.EventType = "SubmitResolved"

// Entry is a single recorded step of a timeline session.
type Entry struct {
	// SessionID groups the entries of one interactive session.
	SessionID string `json:"session"`
	// Seq orders entries within a session.
	Seq int64 `json:"seq"`
	// Type is the controller event type, or SubmitResolved.
	Type selection.EventType `json:"type"`
	// Timestamp is when the entry was recorded (Unix microseconds).
	Timestamp int64 `json:"ts"`

	// Start and End are the selected window in Unix milliseconds, if any.
	Start *int64 `json:"start,omitempty"`
	End   *int64 `json:"end,omitempty"`
	// EffectiveStart and EffectiveEnd are the window actually submitted.
	EffectiveStart *int64 `json:"effectiveStart,omitempty"`
	EffectiveEnd   *int64 `json:"effectiveEnd,omitempty"`

	Prompt  string  `json:"prompt,omitempty"`
	Buckets *[2]int `json:"buckets,omitempty"`

	// Outcome and Text describe a SubmitResolved entry.
	Outcome predict.Kind `json:"outcome,omitempty"`
	Text    string       `json:"text,omitempty"`
}

func (e Entry) identity() string {
	return fmt.Sprintf("%s|%d", e.SessionID, e.Seq)
}

func fromEvent(ev selection.Event) Entry {
	e := Entry{
		Type:    ev.Type,
		Prompt:  ev.Prompt,
		Buckets: ev.Buckets,
	}
	if ev.Selection != nil {
		s, en := ev.Selection.Start, ev.Selection.End
		e.Start, e.End = &s, &en
	}
	if ev.Effective != nil {
		s, en := ev.Effective.Start, ev.Effective.End
		e.EffectiveStart, e.EffectiveEnd = &s, &en
	}
	return e
}

func fromResult(r predict.Result) Entry {
	e := Entry{
		Type:    SubmitResolved,
		Outcome: r.Kind,
		Text:    r.Text,
	}
	if r.Window != nil {
		s, en := r.Window.Start, r.Window.End
		e.EffectiveStart, e.EffectiveEnd = &s, &en
	}
	return e
}
