package selection

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"teatime/internal/timeline"
	"teatime/internal/trends"

	"github.com/rs/zerolog/log"
)

var (
	// ErrModeMismatch is returned for a gesture that the controller's mode does not support.
	ErrModeMismatch = errors.New("gesture not supported in this selection mode")
	// ErrBucketIndex is returned for a bucket index outside the bucket list.
	ErrBucketIndex = errors.New("bucket index out of range")
	// ErrPointIndex is returned for a hover on a mark that does not exist.
	ErrPointIndex = errors.New("point index out of range")
)

// Mode selects between the continuous peak chart and the bucketed bar chart.
type Mode string

const (
	ModePeak   Mode = "peak"
	ModeBucket Mode = "bucket"
)

// ParseMode validates a mode name. Empty means peak.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePeak, "":
		return ModePeak, nil
	case ModeBucket:
		return ModeBucket, nil
	}
	return "", fmt.Errorf("unknown selection mode %q (want %q or %q)", s, ModePeak, ModeBucket)
}

// State is the gesture state.
type State int

const (
	Idle State = iota
	Dragging
	Selected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Selected:
		return "selected"
	}
	return "unknown"
}

// MarshalText lets State render as its name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Options configure a Controller.
type Options struct {
	Mode         Mode
	Canvas       timeline.Canvas
	StartYear    int
	AnchorMonth  time.Month
	BucketMonths int
	Policy       timeline.FullSpanPolicy
	// Now is captured once. Zero means time.Now().
	Now time.Time
}

// Controller owns the selection state of one timeline. Every change goes through a named
// transition. Events are dispatched after the internal lock is released, one
// transition at a time.
type Controller struct {
	mu       sync.Mutex
	dispatch sync.Mutex

	opts     Options
	ds       *trends.Dataset
	now      time.Time
	span     timeline.Window
	buckets  []timeline.Bucket
	scale    *timeline.Scale
	barScale *timeline.Scale

	state     State
	dragFrom  int
	lo, hi    int
	anchorTS  int64
	selection *timeline.Window
	submitted *timeline.Window
	tooltip   timeline.Tooltip

	handlers []Handler
}

// NewController lays out ds and starts in Idle.
func NewController(ds *trends.Dataset, opts Options) *Controller {
	if opts.Mode == "" {
		opts.Mode = ModePeak
	}
	if opts.Canvas.Width == 0 {
		opts.Canvas = timeline.DefaultCanvas()
	}
	if opts.StartYear == 0 {
		opts.StartYear = timeline.DefaultStartYear
	}
	if opts.AnchorMonth == 0 {
		opts.AnchorMonth = time.January
	}
	if opts.BucketMonths <= 0 {
		opts.BucketMonths = timeline.DefaultBucketMonths
	}
	if opts.Policy == "" {
		opts.Policy = timeline.SpanIncludeEarlierData
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	if ds == nil {
		ds = trends.NewDataset(nil)
	}

	c := &Controller{opts: opts, ds: ds, now: now, dragFrom: -1, lo: -1, hi: -1}
	c.relayout()
	return c
}

func (c *Controller) relayout() {
	// The peak chart always opens on Jan 1. Only the bar chart follows the anchor month.
	forced := timeline.ForcedStart(c.opts.StartYear)
	if c.opts.Mode == ModeBucket {
		forced = time.Date(c.opts.StartYear, c.opts.AnchorMonth, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	}
	c.span = timeline.FullSpan(c.ds, forced, c.now.UnixMilli(), c.opts.Policy)
	c.scale = timeline.ScaleForDataset(c.opts.Canvas, c.ds, c.span)

	c.buckets = timeline.Bucketize(c.ds, c.opts.StartYear, c.opts.AnchorMonth, c.now, c.opts.BucketMonths)
	if n := len(c.buckets); n > 0 {
		c.barScale = timeline.NewScale(c.opts.Canvas, c.buckets[0].Start, c.buckets[n-1].End, timeline.MaxBucketMagnitude(c.buckets))
	} else {
		c.barScale = timeline.NewScale(c.opts.Canvas, c.span.Start, c.span.End, 0)
	}

	log.Debug().
		Str("mode", string(c.opts.Mode)).
		Int("points", c.ds.Len()).
		Int("buckets", len(c.buckets)).
		Str("span", c.span.String()).
		Msg("Timeline laid out")
}

// Subscribe registers h for all future events.
func (c *Controller) Subscribe(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// emitLocked delivers events to the subscribers and releases c.mu. It must be
// called with c.mu held. dispatch is taken before c.mu is released so
// concurrent transitions deliver their events in the order their state
// changes were made.
func (c *Controller) emitLocked(events ...Event) {
	c.dispatch.Lock()
	defer c.dispatch.Unlock()
	handlers := append([]Handler(nil), c.handlers...)
	c.mu.Unlock()

	for _, e := range events {
		for _, h := range handlers {
			h(e)
		}
	}
}

// Mode returns the controller's selection mode.
func (c *Controller) Mode() Mode { return c.opts.Mode }

// Dataset returns the immutable dataset.
func (c *Controller) Dataset() *trends.Dataset { return c.ds }

// Now returns the instant captured when the controller was built.
func (c *Controller) Now() time.Time { return c.now }

// FullSpan returns the fallback window.
func (c *Controller) FullSpan() timeline.Window { return c.span }

// Scale returns the peak chart scale.
func (c *Controller) Scale() *timeline.Scale { return c.scale }

// BarScale returns the bucket chart scale.
func (c *Controller) BarScale() *timeline.Scale { return c.barScale }

// Buckets returns a copy of the bucket list.
func (c *Controller) Buckets() []timeline.Bucket {
	out := make([]timeline.Bucket, len(c.buckets))
	copy(out, c.buckets)
	return out
}

// PointerDown starts a drag on bucket i.
func (c *Controller) PointerDown(i int) error {
	c.mu.Lock()
	if c.opts.Mode != ModeBucket {
		c.mu.Unlock()
		return ErrModeMismatch
	}
	if i < 0 || i >= len(c.buckets) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrBucketIndex, i, len(c.buckets))
	}
	c.state = Dragging
	c.dragFrom = i
	ev := c.setBucketRangeLocked(i, i)
	c.emitLocked(ev)
	return nil
}

// PointerDownAt starts a drag on the bucket under a rendered pixel.
func (c *Controller) PointerDownAt(px float64, vp timeline.Viewport) error {
	return c.PointerDown(c.barScale.BucketAtPixel(px, len(c.buckets), vp))
}

// PointerEnter extends an active drag to bucket j. Outside a drag it does nothing.
func (c *Controller) PointerEnter(j int) error {
	c.mu.Lock()
	if c.opts.Mode != ModeBucket {
		c.mu.Unlock()
		return ErrModeMismatch
	}
	if j < 0 || j >= len(c.buckets) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrBucketIndex, j, len(c.buckets))
	}
	if st := c.state; st != Dragging {
		c.mu.Unlock()
		log.Debug().Int("bucket", j).Str("state", st.String()).Msg("Ignoring pointer enter outside drag")
		return nil
	}
	ev := c.setBucketRangeLocked(c.dragFrom, j)
	c.emitLocked(ev)
	return nil
}

// PointerUp ends a drag wherever the pointer was released.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Dragging {
		return
	}
	c.state = Selected
	c.dragFrom = -1
	log.Debug().Int("lo", c.lo).Int("hi", c.hi).Msg("Drag finished")
}

func (c *Controller) setBucketRangeLocked(a, b int) Event {
	c.lo, c.hi = min(a, b), max(a, b)
	w := timeline.DeriveFromBucketDrag(c.lo, c.hi, c.buckets)
	c.selection = &w
	return Event{Type: SelectionChanged, Selection: c.copySelectionLocked(), Buckets: &[2]int{c.lo, c.hi}}
}

// Click selects the ±45 day window around the timestamp under a rendered pixel.
func (c *Controller) Click(px float64, vp timeline.Viewport) (timeline.Window, error) {
	if c.opts.Mode != ModePeak {
		return timeline.Window{}, ErrModeMismatch
	}
	return c.ClickAt(c.scale.TimestampAtPixel(px, vp))
}

// ClickAt selects the ±45 day window around ts.
func (c *Controller) ClickAt(ts int64) (timeline.Window, error) {
	c.mu.Lock()
	if c.opts.Mode != ModePeak {
		c.mu.Unlock()
		return timeline.Window{}, ErrModeMismatch
	}
	w := timeline.DeriveFromPointClick(ts)
	c.anchorTS = ts
	c.selection = &w
	c.state = Selected
	ev := Event{Type: SelectionChanged, Selection: c.copySelectionLocked()}
	c.emitLocked(ev)
	return w, nil
}

// Hover shows the tooltip for mark i (a point in peak mode, a bucket in bucket mode).
func (c *Controller) Hover(i int, px, py float64, vp timeline.Viewport) (timeline.Tooltip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.opts.Mode {
	case ModeBucket:
		if i < 0 || i >= len(c.buckets) {
			return timeline.Tooltip{}, fmt.Errorf("%w: %d", ErrBucketIndex, i)
		}
		b := c.buckets[i]
		tip := c.barScale.TooltipAt(i, trends.Point{Timestamp: b.Start, Label: b.Label, Magnitude: b.Magnitude}, px, py, vp)
		tip.Content = fmt.Sprintf("%s — volume %s (%d trends)", b.Label, strconv.FormatFloat(b.Magnitude, 'f', -1, 64), b.Count)
		c.tooltip = tip
	default:
		if i < 0 || i >= c.ds.Len() {
			return timeline.Tooltip{}, fmt.Errorf("%w: %d", ErrPointIndex, i)
		}
		c.tooltip = c.scale.TooltipAt(i, c.ds.At(i), px, py, vp)
	}
	return c.tooltip, nil
}

// Move follows the pointer with a visible tooltip.
func (c *Controller) Move(px, py float64, vp timeline.Viewport) timeline.Tooltip {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tooltip.Visible {
		return c.tooltip
	}
	x, y := c.scale.ToLogical(px, py, vp)
	c.tooltip.LeftPct = x / c.opts.Canvas.Width * 100
	c.tooltip.TopPct = (y - timeline.TooltipOffset) / c.opts.Canvas.Height * 100
	return c.tooltip
}

// Leave hides the tooltip.
func (c *Controller) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tooltip = timeline.Tooltip{}
}

// Reset returns to Idle and clears the selection, tooltip and submitted range.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state = Idle
	c.dragFrom, c.lo, c.hi = -1, -1, -1
	c.anchorTS = 0
	c.selection = nil
	c.submitted = nil
	c.tooltip = timeline.Tooltip{}
	c.emitLocked(Event{Type: ResetRequested}, Event{Type: SelectionChanged})
}

// Submit announces the current selection and prompt. With no selection the
// effective window is the full span, but Selection stays nil.
func (c *Controller) Submit(prompt string) Event {
	c.mu.Lock()
	effective := c.span
	if c.selection != nil {
		effective = *c.selection
	}
	c.submitted = &effective
	ev := Event{
		Type:      SubmitRequested,
		Selection: c.copySelectionLocked(),
		Effective: &effective,
		Prompt:    prompt,
	}
	if c.opts.Mode == ModeBucket && c.selection != nil {
		ev.Buckets = &[2]int{c.lo, c.hi}
	}
	log.Info().Str("effective", effective.String()).Bool("selected", ev.Selection != nil).Msg("Submit requested")
	c.emitLocked(ev)
	return ev
}

func (c *Controller) copySelectionLocked() *timeline.Window {
	if c.selection == nil {
		return nil
	}
	w := *c.selection
	return &w
}

// State returns the current gesture state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View is a point-in-time copy of the controller state for rendering.
type View struct {
	Mode      Mode             `json:"mode"`
	State     State            `json:"state"`
	Selection *timeline.Window `json:"selection,omitempty"`
	Submitted *timeline.Window `json:"submitted,omitempty"`
	FullSpan  timeline.Window  `json:"fullSpan"`
	Anchor    *int64           `json:"anchor,omitempty"`
	Buckets   *[2]int          `json:"buckets,omitempty"`
	Tooltip   timeline.Tooltip `json:"tooltip"`
}

// Snapshot returns the current View.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Mode:      c.opts.Mode,
		State:     c.state,
		Selection: c.copySelectionLocked(),
		FullSpan:  c.span,
		Tooltip:   c.tooltip,
	}
	if c.submitted != nil {
		s := *c.submitted
		v.Submitted = &s
	}
	if c.selection != nil {
		switch c.opts.Mode {
		case ModePeak:
			a := c.anchorTS
			v.Anchor = &a
		case ModeBucket:
			v.Buckets = &[2]int{c.lo, c.hi}
		}
	}
	return v
}
