package selection

import "teatime/internal/timeline"

// EventType identifies what the controller is announcing.
type EventType string

const (
	// SelectionChanged fires whenever the stored selection changes, including to nil.
	SelectionChanged EventType = "SelectionChanged"
	// SubmitRequested carries the selection and prompt to whoever performs the network call.
	SubmitRequested EventType = "SubmitRequested"
	// ResetRequested fires when the user clears the timeline.
	ResetRequested EventType = "ResetRequested"
)

// Event is emitted by the Controller after a transition.
type Event struct {
	Type EventType `json:"type"`
	// Selection is nil when nothing is selected.
	Selection *timeline.Window `json:"selection,omitempty"`
	// Effective is Selection or, when nil, the full span. Set on SubmitRequested.
	Effective *timeline.Window `json:"effective,omitempty"`
	// Prompt is set on SubmitRequested.
	Prompt string `json:"prompt,omitempty"`
	// Buckets holds the normalized [lo, hi] indices in bucket mode.
	Buckets *[2]int `json:"buckets,omitempty"`
}

// Handler receives controller events. Handlers run synchronously on the
// goroutine that triggered the transition and may read the controller, but must
// not start another transition from inside the call.
type Handler func(Event)
