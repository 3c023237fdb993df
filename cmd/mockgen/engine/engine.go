package engine

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"teatime/internal/trends"
)

const dateLayout = "2006-01-02T15:04:05.000Z"

// Topics is the hashtag pool labels are drawn from, in order.
var Topics = []string{
	"#AI", "#ReactJS", "#OpenAI", "#WebDev", "#NodeJS",
	"#JavaScript", "#TechNews", "#AIChatbots", "#ReactNative", "#MachineLearning",
	"#DataScience", "#OpenSource", "#TypeScript", "#FrontEnd", "#BackEnd",
	"#CloudComputing", "#DevOps", "#CyberSecurity", "#AIRevolution", "#Blockchain",
	"#BigData", "#NLP", "#DeepLearning", "#Startups", "#Coding",
	"#Programming", "#Software", "#Innovation", "#TechTrends", "#GPT",
}

type GeneratorConfig struct {
	Count     int
	StartYear int
	EndYear   int
	MinScore  float64
	MaxScore  float64
	// Seed makes the output reproducible. Zero picks a time-based seed.
	Seed int64
}

// DefaultConfig is the stock example dataset: 30 peaks between 2015 and 2025.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{Count: 30, StartYear: 2015, EndYear: 2025, MinScore: 0.3, MaxScore: 1}
}

// sample is the on-disk shape, matching the {date, topic, score} peak records the loader reads.
type sample struct {
	Date  string  `json:"date"`
	Topic string  `json:"topic"`
	Score float64 `json:"score"`
}

// Generate draws cfg.Count points at uniformly random instants from Jan 1 of StartYear to
// Dec 31 of EndYear, sorted by time. Topics cycle through Topics; scores have two decimals.
func Generate(cfg GeneratorConfig) []trends.Point {
	def := DefaultConfig()
	if cfg.Count <= 0 {
		cfg.Count = def.Count
	}
	if cfg.StartYear == 0 {
		cfg.StartYear = def.StartYear
	}
	if cfg.EndYear < cfg.StartYear {
		cfg.EndYear = cfg.StartYear
	}
	if cfg.MaxScore <= cfg.MinScore {
		cfg.MinScore, cfg.MaxScore = def.MinScore, def.MaxScore
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	start := time.Date(cfg.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	end := time.Date(cfg.EndYear, time.December, 31, 0, 0, 0, 0, time.UTC).UnixMilli()

	points := make([]trends.Point, cfg.Count)
	for i := range points {
		ts := start + int64(rng.Float64()*float64(end-start))
		score := cfg.MinScore + rng.Float64()*(cfg.MaxScore-cfg.MinScore)
		points[i] = trends.Point{
			Timestamp: ts,
			Label:     Topics[i%len(Topics)],
			Magnitude: math.Round(score*100) / 100,
		}
	}
	sort.SliceStable(points, func(a, b int) bool { return points[a].Timestamp < points[b].Timestamp })
	return points
}

// Save writes <name>.json and <name>.csv into outDir and returns their paths.
func Save(outDir, name string, points []trends.Point) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	jsonPath := filepath.Join(outDir, name+".json")
	csvPath := filepath.Join(outDir, name+".csv")

	samples := make([]sample, len(points))
	for i, p := range points {
		samples[i] = sample{Date: p.Time().Format(dateLayout), Topic: p.Label, Score: p.Magnitude}
	}

	fj, err := os.Create(jsonPath)
	if err != nil {
		return nil, err
	}
	defer fj.Close()
	enc := json.NewEncoder(fj)
	enc.SetIndent("", "  ")
	if err := enc.Encode(samples); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	fc, err := os.Create(csvPath)
	if err != nil {
		return nil, err
	}
	defer fc.Close()
	bw := bufio.NewWriter(fc)
	cw := csv.NewWriter(bw)
	_ = cw.Write([]string{"date", "topic", "score"})
	for _, s := range samples {
		_ = cw.Write([]string{s.Date, s.Topic, strconv.FormatFloat(s.Score, 'f', 2, 64)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", csvPath, err)
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}

	return []string{jsonPath, csvPath}, nil
}
