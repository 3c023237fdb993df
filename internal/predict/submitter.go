package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"teatime/internal/selection"
	"teatime/internal/timeline"

	"github.com/rs/zerolog/log"
)

// Kind tells the display layer how to present a Result.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Result is what the display slot shows after a submission resolves.
type Result struct {
	Kind     Kind             `json:"type"`
	Text     string           `json:"text"`
	TopTrend string           `json:"top_trend,omitempty"`
	Message  string           `json:"message,omitempty"`
	Data     json.RawMessage  `json:"data,omitempty"`
	Window   *timeline.Window `json:"window,omitempty"`
	Seq      uint64           `json:"seq"`
	At       time.Time        `json:"at"`
}

// Display is the single shared result slot. The last submission to resolve wins.
type Display struct {
	mu       sync.Mutex
	result   *Result
	inFlight int
}

// Result returns the latest resolved result, if any.
func (d *Display) Result() (Result, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.result == nil {
		return Result{}, false
	}
	return *d.result, true
}

// Loading reports whether any submission is still in flight.
func (d *Display) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight > 0
}

func (d *Display) begin() {
	d.mu.Lock()
	d.inFlight++
	d.mu.Unlock()
}

func (d *Display) finish(r Result) {
	d.mu.Lock()
	d.inFlight--
	d.result = &r
	d.mu.Unlock()
}

// Submitter turns SubmitRequested events into backend calls and stores the outcome in a
// Display. It never returns errors: every failure becomes an error Result.
type Submitter struct {
	client  Client
	display *Display
	seq     atomic.Uint64
	wg      sync.WaitGroup
}

// NewSubmitter wires client to display.
func NewSubmitter(client Client, display *Display) *Submitter {
	if display == nil {
		display = &Display{}
	}
	return &Submitter{client: client, display: display}
}

// Display returns the result slot.
func (s *Submitter) Display() *Display { return s.display }

// Submit performs one request for ev and records the outcome.
func (s *Submitter) Submit(ctx context.Context, ev selection.Event) Result {
	seq := s.seq.Add(1)
	s.display.begin()
	r := s.run(ctx, ev, seq)
	s.display.finish(r)
	return r
}

// SubmitAsync starts Submit on its own goroutine. Overlapping calls are not cancelled
// or de-duplicated here.
func (s *Submitter) SubmitAsync(ctx context.Context, ev selection.Event) {
	seq := s.seq.Add(1)
	s.display.begin()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		r := s.run(ctx, ev, seq)
		s.display.finish(r)
	}()
}

// Wait blocks until every SubmitAsync call has resolved.
func (s *Submitter) Wait() {
	s.wg.Wait()
}

// Handler subscribes the submitter to a controller: SubmitRequested events are sent asynchronously.
func (s *Submitter) Handler(ctx context.Context) selection.Handler {
	return func(ev selection.Event) {
		if ev.Type == selection.SubmitRequested {
			s.SubmitAsync(ctx, ev)
		}
	}
}

func (s *Submitter) run(ctx context.Context, ev selection.Event, seq uint64) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Uint64("seq", seq).Msg("Submission panicked")
			r = errorResult(fmt.Errorf("submit failed: %v", p), ev, seq)
		}
	}()

	req := BuildRequest(ev.Selection, ev.Prompt)
	resp, err := s.client.Predict(ctx, req)
	if err != nil {
		log.Error().Err(err).Uint64("seq", seq).Msg("Submit error")
		return errorResult(err, ev, seq)
	}

	log.Info().Uint64("seq", seq).Str("topTrend", resp.TopTrend).Msg("Submitted successfully")
	return Result{
		Kind:     KindSuccess,
		Text:     "Submitted successfully.",
		TopTrend: resp.TopTrend,
		Message:  resp.Message,
		Data:     resp.Raw,
		Window:   ev.Effective,
		Seq:      seq,
		At:       time.Now(),
	}
}

func errorResult(err error, ev selection.Event, seq uint64) Result {
	text := err.Error()
	if text == "" {
		text = "Submit failed."
	}
	return Result{Kind: KindError, Text: text, Window: ev.Effective, Seq: seq, At: time.Now()}
}
