package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/giygas/medicines-search/config"
)

type LoggingService struct {
	Logger *slog.Logger
	file   *RotatingLogger
}

var DefaultLoggingService *LoggingService

// Options controls where and how verbosely the app logs
type Options struct {
	Dir            string // Empty logs to the console only
	Env            config.Environment
	Level          string
	RetentionWeeks int
	MaxFileSize    int64
	Verbose        bool
}

// InitLogger initializes the global logger instance
func InitLogger(opts Options) {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: GetConsoleLogLevel(opts.Env, opts.Level, opts.Verbose),
	})

	service := &LoggingService{}
	handler := slog.Handler(consoleHandler)

	if opts.Dir != "" {
		rotating, err := OpenRotatingLogger(opts.Dir, opts.RetentionWeeks, opts.MaxFileSize)
		if err != nil {
			slog.New(consoleHandler).Error("Failed to open log file, logging to console only", "error", err)
		} else {
			service.file = rotating
			fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{
				Level: GetFileLogLevel(),
			})
			handler = &multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}
		}
	}

	service.Logger = slog.New(handler)
	DefaultLoggingService = service
	slog.SetDefault(service.Logger)
}

// InitDiscardLogger installs a logger that drops everything, used by tests
func InitDiscardLogger() {
	DefaultLoggingService = &LoggingService{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Close flushes and closes the log file, if any
func Close() error {
	if DefaultLoggingService == nil || DefaultLoggingService.file == nil {
		return nil
	}
	return DefaultLoggingService.file.Close()
}

// GetConsoleLogLevel picks the console level. Tests stay quiet unless verbose,
// everything else honours LOG_LEVEL and falls back to a per-environment default.
func GetConsoleLogLevel(env config.Environment, logLevel string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}

	if logLevel != "" {
		return parseLogLevel(logLevel)
	}

	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetFileLogLevel returns the file level, files always get everything
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultLogger returns the installed logger, slog's default before InitLogger
func DefaultLogger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.Default()
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	DefaultLogger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	DefaultLogger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	DefaultLogger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	DefaultLogger().Debug(msg, args...)
}
