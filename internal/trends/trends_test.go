package trends

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func ms(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func TestNewDataset_SortsAndCopies(t *testing.T) {
	in := []Point{
		{Timestamp: ms(2020, 5, 1), Label: "b", Magnitude: 2},
		{Timestamp: ms(2019, 1, 1), Label: "a", Magnitude: 1},
		{Timestamp: ms(2021, 1, 1), Label: "c", Magnitude: -3},
	}
	ds := NewDataset(in)
	in[0].Label = "mutated"

	got := ds.Points()
	wantOrder := []string{"a", "b", "c"}
	for i, w := range wantOrder {
		if got[i].Label != w {
			t.Errorf("Points()[%d].Label = %q, want %q", i, got[i].Label, w)
		}
	}
	if got[2].Magnitude != 0 {
		t.Errorf("negative magnitude = %v, want clamped to 0", got[2].Magnitude)
	}
}

func TestDataset_Bounds(t *testing.T) {
	var empty *Dataset
	if _, _, ok := empty.Bounds(); ok {
		t.Errorf("Bounds() on nil dataset reported ok")
	}

	ds := NewDataset([]Point{
		{Timestamp: 30},
		{Timestamp: 10},
		{Timestamp: 20},
	})
	lo, hi, ok := ds.Bounds()
	if !ok || lo != 10 || hi != 30 {
		t.Errorf("Bounds() = (%d, %d, %v), want (10, 30, true)", lo, hi, ok)
	}
}

func TestDataset_SumBetween(t *testing.T) {
	ds := NewDataset([]Point{
		{Timestamp: 10, Magnitude: 1},
		{Timestamp: 20, Magnitude: 2},
		{Timestamp: 30, Magnitude: 4},
		{Timestamp: 40, Magnitude: 8},
	})

	tests := []struct {
		name       string
		start, end int64
		wantSum    float64
		wantCount  int
	}{
		{"Inclusive", 20, 30, 6, 2},
		{"All", 0, 100, 15, 4},
		{"None", 41, 50, 0, 0},
		{"SinglePoint", 40, 40, 8, 1},
		{"Inverted", 30, 20, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, n := ds.SumBetween(tt.start, tt.end)
			if sum != tt.wantSum || n != tt.wantCount {
				t.Errorf("SumBetween(%d, %d) = (%v, %d), want (%v, %d)", tt.start, tt.end, sum, n, tt.wantSum, tt.wantCount)
			}
		})
	}
}

func TestReadCSV_PeakAndBackendShapes(t *testing.T) {
	peak := "date,topic,score\n2019-03-01,#AI,0.75\n2018-01-02,#Go,0.5\nnot-a-date,#Bad,1\n"
	points, err := ReadCSV(strings.NewReader(peak))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("ReadCSV() returned %d points, want 2", len(points))
	}
	if points[0].Label != "#AI" || points[0].Magnitude != 0.75 || points[0].Timestamp != ms(2019, 3, 1) {
		t.Errorf("ReadCSV()[0] = %+v", points[0])
	}

	backend := "date,rank,topic\n2020-07-04,1,Fireworks\n2020-07-04,4,Hotdogs\n"
	points, err = ReadCSV(strings.NewReader(backend))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if points[0].Magnitude != 1 || points[1].Magnitude != 0.25 {
		t.Errorf("rank magnitudes = %v, %v, want 1, 0.25", points[0].Magnitude, points[1].Magnitude)
	}
}

func TestReadCSV_MissingDateColumn(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("topic,score\nx,1\n")); err == nil {
		t.Errorf("ReadCSV() without date column returned nil error")
	}
}

func TestLoad_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "trends.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"date":"2017-02-01","title":"Volume","volume":120},{"ts":1500000000000,"label":"Native","magnitude":3}]`), 0644); err != nil {
		t.Fatal(err)
	}
	ds, err := Load(jsonPath)
	if err != nil {
		t.Fatalf("Load(json) error = %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Load(json) Len() = %d, want 2", ds.Len())
	}
	if got := ds.At(0); got.Label != "Volume" || got.Magnitude != 120 {
		t.Errorf("Load(json) At(0) = %+v, want Volume/120", got)
	}
	if got := ds.At(1); got.Timestamp != 1500000000000 || got.Label != "Native" || got.Magnitude != 3 {
		t.Errorf("Load(json) At(1) = %+v, want Native/3", got)
	}

	yamlPath := filepath.Join(dir, "trends.yaml")
	if err := os.WriteFile(yamlPath, []byte("- date: 2016-04-01\n  topic: '#Yaml'\n  score: 0.4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ds, err = Load(yamlPath)
	if err != nil {
		t.Fatalf("Load(yaml) error = %v", err)
	}
	if got := ds.At(0); got.Timestamp != ms(2016, 4, 1) || got.Label != "#Yaml" {
		t.Errorf("Load(yaml) At(0) = %+v", got)
	}

	txtPath := filepath.Join(dir, "trends.txt")
	if err := os.WriteFile(txtPath, []byte("2016-04-01 #Txt 1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(txtPath); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(txt) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"2016-04-01", ms(2016, 4, 1), false},
		{"2016-04-01T00:00:00Z", ms(2016, 4, 1), false},
		{"2016-04-01T02:00:00+02:00", ms(2016, 4, 1), false},
		{"April 1st", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got.UnixMilli() != tt.want {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got.UnixMilli(), tt.want)
		}
	}
}
