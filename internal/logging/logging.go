package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the rotating log file written under the log directory.
const LogFileName = "teatime.log"

// Options controls the global logger.
type Options struct {
	Verbose bool
	// LogDir overrides LOGS_FOLDER. Empty falls back to the environment, then <exe dir>/logs.
	LogDir string
	// Console is where human-readable output goes. nil means os.Stderr.
	// The MCP server speaks JSON-RPC on stdout, so nothing may ever point this at os.Stdout there.
	Console io.Writer
	// NoFile disables the rotating file sink.
	NoFile bool
}

// Init initializes the global logger with a console sink and a rotating file.
func Init(opts Options) error {
	// Init runs before config.Load, so LOGS_FOLDER may still live in the binary's .env.
	exePath, exeErr := os.Executable()
	if exeErr == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(console),
	}

	if opts.NoFile {
		log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
		return nil
	}

	logDir := opts.LogDir
	if logDir == "" {
		logDir = os.Getenv("LOGS_FOLDER")
	}
	if logDir == "" {
		if exeErr == nil {
			logDir = filepath.Join(filepath.Dir(exePath), "logs")
		} else {
			logDir = "logs"
		}
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    8, // megabytes
		MaxBackups: 10,
		MaxAge:     90, // days
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter), fileWriter)
	log.Logger = zerolog.New(multi).
		With().
		Timestamp().
		Logger()
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
