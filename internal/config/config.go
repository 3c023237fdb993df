package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"teatime/internal/predict"
	"teatime/internal/selection"
	"teatime/internal/timeline"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultBackendURL is the last-resort backend address. Release builds may replace it with
// -ldflags "-X teatime/internal/config.DefaultBackendURL=https://...".
var DefaultBackendURL = "http://127.0.0.1:8000"

// BackendURLEnv is the environment variable consulted after the runtime override.
const BackendURLEnv = "BACKEND_URL"

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Predict predict.Config

	// BackendSource records which resolution step produced Predict.BaseURL.
	BackendSource string

	DataPath   string
	LogDir     string
	CacheDir   string
	TrendsFile string

	Mode         selection.Mode
	StartYear    int
	AnchorMonth  time.Month
	BucketMonths int
	SpanPolicy   timeline.FullSpanPolicy
}

// Load loads the configuration from .env files and environment variables. backendOverride
// is the runtime-injected backend URL (the --backend-url flag) and wins when set.
func Load(backendOverride string) (*AppConfig, error) {
	// 1. .env next to the binary
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. .env in the working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables")
	}

	// 3. Data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}
	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))
	cacheDir := filepath.Join(dataPath, "cache")

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	mode, err := selection.ParseMode(getEnv("SELECTION_MODE", string(selection.ModePeak)))
	if err != nil {
		return nil, err
	}
	policy, err := timeline.ParseFullSpanPolicy(getEnv("FULL_SPAN_POLICY", string(timeline.SpanIncludeEarlierData)))
	if err != nil {
		return nil, err
	}

	baseURL, source := ResolveBackendURL(backendOverride)

	cfg := &AppConfig{
		Predict: predict.Config{
			BaseURL: baseURL,
			Path:    getEnv("PREDICT_PATH", predict.DefaultPath),
			Timeout: time.Duration(getEnvInt("PREDICT_TIMEOUT_SECONDS", 0)) * time.Second,
			Dedupe:  getEnvBool("PREDICT_DEDUPE", false),
		},
		BackendSource: source,
		DataPath:      dataPath,
		LogDir:        logDir,
		CacheDir:      cacheDir,
		TrendsFile:    getEnv("TRENDS_FILE", ""),
		Mode:          mode,
		StartYear:     getEnvInt("TIMELINE_START_YEAR", timeline.DefaultStartYear),
		AnchorMonth:   time.Month(getEnvInt("TIMELINE_ANCHOR_MONTH", 1)),
		BucketMonths:  getEnvInt("BUCKET_MONTHS", timeline.DefaultBucketMonths),
		SpanPolicy:    policy,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ResolveBackendURL picks the backend base URL: the runtime override, then BACKEND_URL,
// then DefaultBackendURL. It also names the step that won.
func ResolveBackendURL(override string) (string, string) {
	if override != "" {
		return override, "runtime"
	}
	if v, ok := os.LookupEnv(BackendURLEnv); ok && v != "" {
		return v, "env"
	}
	return DefaultBackendURL, "default"
}

// Validate checks ranges that would otherwise produce an empty or nonsensical timeline.
func (c *AppConfig) Validate() error {
	if c.Predict.BaseURL == "" {
		return fmt.Errorf("backend URL cannot be empty")
	}
	if c.AnchorMonth < time.January || c.AnchorMonth > time.December {
		return fmt.Errorf("invalid anchor month %d (must be 1-12)", c.AnchorMonth)
	}
	if c.BucketMonths <= 0 {
		return fmt.Errorf("bucket width must be positive, got %d", c.BucketMonths)
	}
	if c.StartYear < 1970 || c.StartYear > 9999 {
		return fmt.Errorf("invalid start year %d", c.StartYear)
	}
	if c.Predict.Timeout < 0 {
		return fmt.Errorf("predict timeout cannot be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer setting")
	}
	return fallback
}
