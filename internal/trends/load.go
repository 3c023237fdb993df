package trends

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for dataset files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// record is the on-disk shape. Both the peak ({date, topic, score}) and bar
// ({date, title, volume}) field sets are accepted, as is the native {ts, label, magnitude}.
type record struct {
	TS        int64    `json:"ts" yaml:"ts"`
	Date      string   `json:"date" yaml:"date"`
	Label     string   `json:"label" yaml:"label"`
	Topic     string   `json:"topic" yaml:"topic"`
	Title     string   `json:"title" yaml:"title"`
	Magnitude *float64 `json:"magnitude" yaml:"magnitude"`
	Score     *float64 `json:"score" yaml:"score"`
	Volume    *float64 `json:"volume" yaml:"volume"`
	Rank      int      `json:"rank" yaml:"rank"`
}

func (r record) toPoint() (Point, error) {
	ts := r.TS
	if ts == 0 {
		if r.Date == "" {
			return Point{}, fmt.Errorf("record has neither ts nor date")
		}
		t, err := ParseDate(r.Date)
		if err != nil {
			return Point{}, err
		}
		ts = t.UnixMilli()
	}

	label := firstNonEmpty(r.Label, r.Topic, r.Title)

	var mag float64
	switch {
	case r.Magnitude != nil:
		mag = *r.Magnitude
	case r.Score != nil:
		mag = *r.Score
	case r.Volume != nil:
		mag = *r.Volume
	case r.Rank > 0:
		mag = 1 / float64(r.Rank)
	}

	return Point{Timestamp: ts, Label: label, Magnitude: mag}, nil
}

// Load reads a dataset from a .csv, .json, .yaml or .yml file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	var points []Point
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		points, err = ReadCSV(f)
	case ".json":
		points, err = ReadJSON(f)
	case ".yaml", ".yml":
		points, err = ReadYAML(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("count", len(points)).Msg("Loaded trend dataset")
	return NewDataset(points), nil
}

// ReadCSV parses a headed CSV. Recognized columns: date, ts, topic, title, label,
// score, volume, magnitude, rank. Rows that fail to parse are skipped with a warning.
func ReadCSV(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["date"]; !ok {
		if _, ok := cols["ts"]; !ok {
			return nil, fmt.Errorf("csv header needs a date or ts column")
		}
	}

	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(row []string, name string) *float64 {
		s := get(row, name)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &v
	}

	var points []Point
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, err
		}

		rec := record{
			Date:      get(row, "date"),
			Label:     get(row, "label"),
			Topic:     get(row, "topic"),
			Title:     get(row, "title"),
			Magnitude: num(row, "magnitude"),
			Score:     num(row, "score"),
			Volume:    num(row, "volume"),
		}
		if s := get(row, "ts"); s != "" {
			rec.TS, _ = strconv.ParseInt(s, 10, 64)
		}
		if s := get(row, "rank"); s != "" {
			rec.Rank, _ = strconv.Atoi(s)
		}

		p, err := rec.toPoint()
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping invalid dataset row")
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

// ReadJSON parses a JSON array of records.
func ReadJSON(r io.Reader) ([]Point, error) {
	var recs []record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, err
	}
	return toPoints(recs)
}

// ReadYAML parses a YAML sequence of records.
func ReadYAML(r io.Reader) ([]Point, error) {
	var recs []record
	if err := yaml.NewDecoder(r).Decode(&recs); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return toPoints(recs)
}

func toPoints(recs []record) ([]Point, error) {
	points := make([]Point, 0, len(recs))
	for i, rec := range recs {
		p, err := rec.toPoint()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		points = append(points, p)
	}
	return points, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. Dates without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
