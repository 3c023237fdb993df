package timeline

import (
	"fmt"
	"time"

	"teatime/internal/trends"
)

// DayMillis is one day as a fixed millisecond delta. No calendar adjustment is applied.
const DayMillis int64 = 24 * 60 * 60 * 1000

// PeakHalfWidth is the distance on each side of a clicked anchor date.
const PeakHalfWidth = 45 * DayMillis

// Window is a closed time range in Unix milliseconds with Start <= End.
type Window struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// NewWindow builds a window, rejecting inverted bounds.
func NewWindow(start, end int64) (Window, error) {
	if start > end {
		return Window{}, fmt.Errorf("window start %d is after end %d", start, end)
	}
	return Window{Start: start, End: end}, nil
}

// Contains reports whether ts lies in [Start, End].
func (w Window) Contains(ts int64) bool {
	return ts >= w.Start && ts <= w.End
}

// Duration returns End - Start in milliseconds.
func (w Window) Duration() int64 {
	return w.End - w.Start
}

// StartTime returns Start as a UTC time.
func (w Window) StartTime() time.Time { return time.UnixMilli(w.Start).UTC() }

// EndTime returns End as a UTC time.
func (w Window) EndTime() time.Time { return time.UnixMilli(w.End).UTC() }

func (w Window) String() string {
	return fmt.Sprintf("%s — %s", w.StartTime().Format("2006-01-02"), w.EndTime().Format("2006-01-02"))
}

// FullSpanPolicy names how the fallback window is computed when nothing is selected.
type FullSpanPolicy string

const (
	// SpanIncludeEarlierData starts at min(forced start, earliest point) and ends at the latest point.
	SpanIncludeEarlierData FullSpanPolicy = "include-earlier-data"
	// SpanFromForcedStart starts at the forced start verbatim and ends at now.
	SpanFromForcedStart FullSpanPolicy = "forced-start"
)

// ParseFullSpanPolicy validates a policy name.
func ParseFullSpanPolicy(s string) (FullSpanPolicy, error) {
	switch FullSpanPolicy(s) {
	case SpanIncludeEarlierData, SpanFromForcedStart:
		return FullSpanPolicy(s), nil
	case "":
		return SpanIncludeEarlierData, nil
	}
	return "", fmt.Errorf("unknown full span policy %q (want %q or %q)", s, SpanIncludeEarlierData, SpanFromForcedStart)
}

// DeriveFromBucketDrag returns the window from the lower bucket's start to the higher bucket's end.
// Argument order does not matter. Indices outside buckets panic: they can only come from a
// broken gesture handler.
func DeriveFromBucketDrag(startIndex, endIndex int, buckets []Bucket) Window {
	lo, hi := startIndex, endIndex
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 || hi >= len(buckets) {
		panic(fmt.Sprintf("timeline: bucket drag [%d, %d] outside %d buckets", startIndex, endIndex, len(buckets)))
	}
	return Window{Start: buckets[lo].Start, End: buckets[hi].End}
}

// DeriveFromPointClick returns the fixed ±45 day window around ts.
func DeriveFromPointClick(ts int64) Window {
	return Window{Start: ts - PeakHalfWidth, End: ts + PeakHalfWidth}
}

// FullSpan returns the window used when the user made no selection.
func FullSpan(ds *trends.Dataset, forcedStart, now int64, policy FullSpanPolicy) Window {
	if policy == SpanFromForcedStart {
		if now < forcedStart {
			now = forcedStart
		}
		return Window{Start: forcedStart, End: now}
	}

	minTS, maxTS, ok := ds.Bounds()
	if !ok {
		return Window{Start: forcedStart, End: max(forcedStart, now)}
	}
	return Window{Start: min(forcedStart, minTS), End: maxTS}
}

// DefaultStartYear is the first year the timeline shows when none is configured.
const DefaultStartYear = 2015

// ForcedStart returns Jan 1 of year, 00:00 UTC, in milliseconds.
func ForcedStart(year int) int64 {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
}
