package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

type implLogger struct {
	logger *log.Logger
	level  string
}

// Options configures a Logger.
type Options struct {
	Level  string
	Format string // "text" or "json"
	Writer io.Writer
}

// New creates a new Logger instance writing text to stderr.
func New(level string) Logger {
	return NewWithOptions(Options{Level: level})
}

// NewWithOptions creates a Logger with an explicit format and destination.
// Logs go to stderr by default so stdout stays free for transcript output.
func NewWithOptions(opts Options) Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           log.DebugLevel,
	})
	if strings.EqualFold(opts.Format, "json") {
		l.SetFormatter(log.JSONFormatter)
	}

	return &implLogger{
		logger: l,
		level:  strings.ToLower(opts.Level),
	}
}

func (l *implLogger) shouldLog(level string) bool {
	levels := map[string]int{
		"debug": 0,
		"info":  1,
		"warn":  2,
		"error": 3,
	}

	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

// with attaches the run id carried by ctx, if any.
func (l *implLogger) with(ctx context.Context) *log.Logger {
	if id := RunID(ctx); id != "" {
		return l.logger.With("run", id)
	}
	return l.logger
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("debug") {
		l.with(ctx).Debugf(msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("info") {
		l.with(ctx).Infof(msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("warn") {
		l.with(ctx).Warnf(msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("error") {
		l.with(ctx).Errorf(msg, args...)
	}
}
