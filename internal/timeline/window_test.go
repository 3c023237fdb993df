package timeline

import (
	"testing"
	"time"

	"teatime/internal/trends"
)

func ms(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func testBuckets() []Bucket {
	now := time.Date(2018, time.January, 15, 0, 0, 0, 0, time.UTC)
	return Bucketize(trends.NewDataset(nil), 2016, time.January, now, 3)
}

func TestDeriveFromBucketDrag_OrderIndependent(t *testing.T) {
	buckets := testBuckets()
	for i := range buckets {
		for j := range buckets {
			a := DeriveFromBucketDrag(i, j, buckets)
			b := DeriveFromBucketDrag(j, i, buckets)
			if a != b {
				t.Fatalf("DeriveFromBucketDrag(%d, %d) = %v, reversed = %v", i, j, a, b)
			}
		}
	}
}

func TestDeriveFromBucketDrag_Backwards(t *testing.T) {
	buckets := testBuckets()
	got := DeriveFromBucketDrag(5, 2, buckets)
	want := Window{Start: buckets[2].Start, End: buckets[5].End}
	if got != want {
		t.Errorf("DeriveFromBucketDrag(5, 2) = %v, want %v", got, want)
	}
	if fwd := DeriveFromBucketDrag(2, 5, buckets); fwd != got {
		t.Errorf("DeriveFromBucketDrag(2, 5) = %v, want %v", fwd, got)
	}
}

func TestDeriveFromBucketDrag_OutOfRangePanics(t *testing.T) {
	buckets := testBuckets()
	tests := []struct {
		name string
		i, j int
	}{
		{"Negative", -1, 2},
		{"PastEnd", 0, len(buckets)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("DeriveFromBucketDrag(%d, %d) did not panic", tt.i, tt.j)
				}
			}()
			DeriveFromBucketDrag(tt.i, tt.j, buckets)
		})
	}
}

func TestDeriveFromPointClick_NinetyDays(t *testing.T) {
	for _, ts := range []int64{0, ms(2019, 6, 15) + 12345, -ms(1990, 1, 1), 1} {
		w := DeriveFromPointClick(ts)
		if got := w.End - w.Start; got != 90*86400000 {
			t.Errorf("DeriveFromPointClick(%d) width = %d, want %d", ts, got, 90*86400000)
		}
		if w.Start != ts-45*86400000 {
			t.Errorf("DeriveFromPointClick(%d).Start = %d, want %d", ts, w.Start, ts-45*86400000)
		}
	}
}

func TestFullSpan(t *testing.T) {
	forced := ForcedStart(2015)
	now := ms(2026, 1, 1)
	early := trends.NewDataset([]trends.Point{
		{Timestamp: ms(2014, 6, 1)},
		{Timestamp: ms(2020, 3, 1)},
	})
	late := trends.NewDataset([]trends.Point{
		{Timestamp: ms(2016, 6, 1)},
		{Timestamp: ms(2020, 3, 1)},
	})

	tests := []struct {
		name   string
		ds     *trends.Dataset
		policy FullSpanPolicy
		want   Window
	}{
		{"IncludeEarlier_DataBeforeForced", early, SpanIncludeEarlierData, Window{ms(2014, 6, 1), ms(2020, 3, 1)}},
		{"IncludeEarlier_DataAfterForced", late, SpanIncludeEarlierData, Window{forced, ms(2020, 3, 1)}},
		{"ForcedStart_IgnoresEarlierData", early, SpanFromForcedStart, Window{forced, now}},
		{"IncludeEarlier_Empty", trends.NewDataset(nil), SpanIncludeEarlierData, Window{forced, now}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FullSpan(tt.ds, forced, now, tt.policy); got != tt.want {
				t.Errorf("FullSpan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFullSpanPolicy(t *testing.T) {
	if p, err := ParseFullSpanPolicy(""); err != nil || p != SpanIncludeEarlierData {
		t.Errorf("ParseFullSpanPolicy(\"\") = %q, %v", p, err)
	}
	if p, err := ParseFullSpanPolicy("forced-start"); err != nil || p != SpanFromForcedStart {
		t.Errorf("ParseFullSpanPolicy(forced-start) = %q, %v", p, err)
	}
	if _, err := ParseFullSpanPolicy("whatever"); err == nil {
		t.Errorf("ParseFullSpanPolicy(whatever) returned nil error")
	}
}

func TestNewWindow_RejectsInverted(t *testing.T) {
	if _, err := NewWindow(10, 5); err == nil {
		t.Errorf("NewWindow(10, 5) returned nil error")
	}
	w, err := NewWindow(5, 5)
	if err != nil || !w.Contains(5) || w.Contains(6) {
		t.Errorf("NewWindow(5, 5) = %v, %v", w, err)
	}
}
