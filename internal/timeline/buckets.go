package timeline

import (
	"fmt"
	"time"

	"teatime/internal/trends"
)

// DefaultBucketMonths is the bar width of the bucket chart.
const DefaultBucketMonths = 3

// Bucket is a fixed-width calendar window with the aggregated magnitude of the points inside it.
type Bucket struct {
	Index     int     `json:"index"`
	Start     int64   `json:"start"`
	End       int64   `json:"end"`
	Magnitude float64 `json:"magnitude"`
	Count     int     `json:"count"`
	Label     string  `json:"label"`
}

// Window returns the bucket's closed time range.
func (b Bucket) Window() Window {
	return Window{Start: b.Start, End: b.End}
}

// SnapToMonthStart normalizes t to 00:00 on the first of its month, UTC.
func SnapToMonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthSpan counts calendar months from the anchor month through now's month, both inclusive.
// It returns 0 when now precedes the anchor.
func MonthSpan(anchorYear int, anchorMonth time.Month, now time.Time) int {
	now = now.UTC()
	n := (now.Year()-anchorYear)*12 + int(now.Month()-anchorMonth) + 1
	if n < 0 {
		return 0
	}
	return n
}

// BucketCount returns ceil(totalMonths / widthMonths).
func BucketCount(totalMonths, widthMonths int) int {
	if totalMonths <= 0 || widthMonths <= 0 {
		return 0
	}
	return (totalMonths + widthMonths - 1) / widthMonths
}

// Bucketize tiles fixed-width windows from the anchor month through now and sums the dataset
// into them. A bucket ends one millisecond before the next one starts, so membership is
// inclusive on both ends without counting a point twice.
func Bucketize(ds *trends.Dataset, anchorYear int, anchorMonth time.Month, now time.Time, widthMonths int) []Bucket {
	if widthMonths <= 0 {
		widthMonths = DefaultBucketMonths
	}
	count := BucketCount(MonthSpan(anchorYear, anchorMonth, now), widthMonths)
	if count == 0 {
		return nil
	}

	anchor := time.Date(anchorYear, anchorMonth, 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]Bucket, 0, count)
	for i := 0; i < count; i++ {
		start := anchor.AddDate(0, i*widthMonths, 0)
		next := anchor.AddDate(0, (i+1)*widthMonths, 0)
		end := next.Add(-time.Millisecond)

		sum, n := ds.SumBetween(start.UnixMilli(), end.UnixMilli())
		buckets = append(buckets, Bucket{
			Index:     i,
			Start:     start.UnixMilli(),
			End:       end.UnixMilli(),
			Magnitude: sum,
			Count:     n,
			Label:     BucketLabel(start, widthMonths),
		})
	}
	return buckets
}

// BucketLabel renders "Apr 2016" for single-month buckets and "Apr–Jun 2016" otherwise.
func BucketLabel(start time.Time, widthMonths int) string {
	if widthMonths <= 1 {
		return start.Format("Jan 2006")
	}
	last := start.AddDate(0, widthMonths-1, 0)
	if last.Year() != start.Year() {
		return fmt.Sprintf("%s–%s", start.Format("Jan 2006"), last.Format("Jan 2006"))
	}
	return fmt.Sprintf("%s–%s", start.Format("Jan"), last.Format("Jan 2006"))
}

// FindBucketIndex returns the index of the bucket containing ts, or -1.
func FindBucketIndex(buckets []Bucket, ts int64) int {
	lo, hi := 0, len(buckets)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case ts < buckets[mid].Start:
			hi = mid - 1
		case ts > buckets[mid].End:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}

// MaxBucketMagnitude returns the largest aggregate in buckets.
func MaxBucketMagnitude(buckets []Bucket) float64 {
	m := 0.0
	for _, b := range buckets {
		if b.Magnitude > m {
			m = b.Magnitude
		}
	}
	return m
}
