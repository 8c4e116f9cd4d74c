package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	EnvLogLevel     = "LOG_LEVEL"
	DefaultLogLevel = slog.LevelInfo

	logFilePrefix = "webpage_analyzer_"
)

type Opts struct {
	ServiceName string
	Level       slog.Level
	AddSource   bool
	JSON        bool

	// Output defaults to os.Stdout
	Output io.Writer
	// FileDir enables a daily log file alongside Output when set
	FileDir string
}

// Setup builds the process logger and installs it as the slog default.
// The returned close func releases the log file, if any.
func Setup(o Opts) (*slog.Logger, func() error, error) {
	var handler slog.Handler

	out := o.Output
	if out == nil {
		out = os.Stdout
	}

	closeFn := func() error { return nil }
	if o.FileDir != "" {
		f, err := OpenDailyFile(o.FileDir, time.Now())
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(out, f)
		closeFn = f.Close
	}

	opts := &slog.HandlerOptions{
		Level:     o.Level,
		AddSource: o.AddSource,
	}

	if o.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	// Set service name to all log entries
	attrs := []slog.Attr{slog.String("service", o.ServiceName)}
	handler = handler.WithAttrs(attrs)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, closeFn, nil
}

func SetupFromEnv(serviceName string) *slog.Logger {
	logger, _, _ := Setup(Opts{
		ServiceName: serviceName,
		Level:       GetLogLevelFromEnv(),
		AddSource:   GetLogLevelFromEnv() <= slog.LevelDebug, // When debug, add source file/line info
		JSON:        true,
	})
	return logger
}

// DailyFileName returns the log file name for the day of t
func DailyFileName(t time.Time) string {
	return logFilePrefix + t.Format("20060102") + ".log"
}

// OpenDailyFile opens (or creates) the day's log file in dir for appending
func OpenDailyFile(dir string, t time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, DailyFileName(t))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func GetLogLevelFromEnv() slog.Level {
	levelStr := os.Getenv(EnvLogLevel)
	if levelStr == "" {
		return DefaultLogLevel
	}

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return DefaultLogLevel
	}
}
