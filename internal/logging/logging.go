// Package logging builds the zerolog logger shared by the CLI, the API
// client and the dashboard controller.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	// Out is the console destination. Nil means stderr.
	Out io.Writer
}

// DefaultLogConfig logs info and above to stderr and to a rotated file
// under ~/.config/tickerdash/logs.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "tickerdash", "logs", "tickerdash.log"),
		MaxSize:    20,
		MaxBackups: 5,
		MaxAge:     14,
	}
}

var levelTags = map[string]string{
	"debug": "\033[36mDBG\033[0m",
	"info":  "\033[32mINF\033[0m",
	"warn":  "\033[33mWRN\033[0m",
	"error": "\033[31mERR\033[0m",
}

func consoleSink(out io.Writer) io.Writer {
	if out == nil {
		out = os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		FormatLevel: func(i interface{}) string {
			name, _ := i.(string)
			if tag, ok := levelTags[name]; ok {
				return tag
			}
			return strings.ToUpper(name)
		},
	}
}

// fileSink returns nil when the log directory cannot be created; the
// dashboard still runs without a log file.
func fileSink(cfg LogConfig) io.Writer {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}
}

// NewLoggerWithConfig builds a timestamped logger writing to every sink
// enabled in cfg. With no sinks the logger discards everything.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var sinks []io.Writer
	if cfg.Console {
		sinks = append(sinks, consoleSink(cfg.Out))
	}
	if cfg.File && cfg.FilePath != "" {
		if f := fileSink(cfg); f != nil {
			sinks = append(sinks, f)
		}
	}

	var w io.Writer = io.Discard
	if len(sinks) == 1 {
		w = sinks[0]
	} else if len(sinks) > 1 {
		w = zerolog.MultiLevelWriter(sinks...)
	}
	return zerolog.New(w).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// ParseLevel accepts debug, info, warn and error. Anything else is info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl < zerolog.DebugLevel || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or a disabled logger.
// The API client prefers it over its own so command loggers carry through.
func FromContext(ctx context.Context) zerolog.Logger {
	return *zerolog.Ctx(ctx)
}

// WithSymbol scopes logger to one ticker.
func WithSymbol(logger zerolog.Logger, symbol string) zerolog.Logger {
	return logger.With().Str("symbol", symbol).Logger()
}

// ForRequest scopes logger to one backend call.
func ForRequest(logger zerolog.Logger, op, requestID string) zerolog.Logger {
	return logger.With().Str("op", op).Str("request_id", requestID).Logger()
}

// LogAPICall records a backend round trip at debug level.
func LogAPICall(logger zerolog.Logger, method, endpoint string, status int, took time.Duration, err error) {
	e := logger.Debug().Str("event", "api_call").
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", status).
		Dur("duration", took)
	if err != nil {
		e.Err(err).Msg("API call failed")
		return
	}
	e.Msg("API call completed")
}

// LogRefresh records one dashboard refresh. Failures are warnings so they
// show up at the default level.
func LogRefresh(logger zerolog.Logger, variant string, tickers int, took time.Duration, err error) {
	if err != nil {
		logger.Warn().Err(err).Str("event", "refresh").Str("variant", variant).
			Dur("duration", took).Msg("Dashboard refresh failed")
		return
	}
	logger.Info().Str("event", "refresh").Str("variant", variant).
		Int("tickers", tickers).Dur("duration", took).Msg("Dashboard refreshed")
}

// LogTransition records a controller state change.
func LogTransition(logger zerolog.Logger, from, to string) {
	logger.Debug().Str("event", "transition").Str("from", from).Str("to", to).Msg("Dashboard state changed")
}
