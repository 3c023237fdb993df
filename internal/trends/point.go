package trends

import (
	"sort"
	"time"
)

// Point is a single trending-topic observation.
type Point struct {
	// Timestamp is the observation time in Unix milliseconds.
	Timestamp int64 `json:"ts" yaml:"ts"`
	// Label is the topic or title that trended.
	Label string `json:"label" yaml:"label"`
	// Magnitude is the trend score or volume. Never negative.
	Magnitude float64 `json:"magnitude" yaml:"magnitude"`
}

// Time returns the observation time in UTC.
func (p Point) Time() time.Time {
	return time.UnixMilli(p.Timestamp).UTC()
}

// Dataset is an immutable, timestamp-ordered collection of points.
type Dataset struct {
	points []Point
}

// NewDataset copies the points, clamps negative magnitudes to zero and sorts by timestamp.
// Ties keep their input order.
func NewDataset(points []Point) *Dataset {
	cp := make([]Point, len(points))
	copy(cp, points)
	for i := range cp {
		if cp[i].Magnitude < 0 {
			cp[i].Magnitude = 0
		}
	}
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].Timestamp < cp[j].Timestamp
	})
	return &Dataset{points: cp}
}

// Len returns the number of points.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.points)
}

// At returns the i-th point in timestamp order.
func (d *Dataset) At(i int) Point {
	return d.points[i]
}

// Points returns a copy of the ordered points.
func (d *Dataset) Points() []Point {
	if d == nil {
		return nil
	}
	out := make([]Point, len(d.points))
	copy(out, d.points)
	return out
}

// Bounds returns the earliest and latest timestamps. ok is false for an empty dataset.
func (d *Dataset) Bounds() (minTS, maxTS int64, ok bool) {
	if d.Len() == 0 {
		return 0, 0, false
	}
	return d.points[0].Timestamp, d.points[len(d.points)-1].Timestamp, true
}

// MaxMagnitude returns the largest magnitude, or 0 for an empty dataset.
func (d *Dataset) MaxMagnitude() float64 {
	maxMag := 0.0
	if d == nil {
		return maxMag
	}
	for _, p := range d.points {
		if p.Magnitude > maxMag {
			maxMag = p.Magnitude
		}
	}
	return maxMag
}

// SumBetween sums magnitudes of points with start <= ts <= end and reports how many matched.
func (d *Dataset) SumBetween(start, end int64) (float64, int) {
	if d.Len() == 0 || start > end {
		return 0, 0
	}
	lo := sort.Search(len(d.points), func(i int) bool {
		return d.points[i].Timestamp >= start
	})
	sum := 0.0
	n := 0
	for i := lo; i < len(d.points) && d.points[i].Timestamp <= end; i++ {
		sum += d.points[i].Magnitude
		n++
	}
	return sum, n
}
