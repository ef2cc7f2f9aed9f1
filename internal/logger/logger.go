package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// maxSinkLines bounds the history kept in the UI sink.
const maxSinkLines = 100

// Sink receives human readable log lines. fyne's binding.StringList satisfies it.
type Sink interface {
	Append(value string) error
	Get() ([]string, error)
	Set(list []string) error
}

// AppLogger handles application logging to the console and an optional UI sink
type AppLogger struct {
	zl   zerolog.Logger
	sink Sink
	mu   *sync.Mutex
}

// NewAppLogger creates a logger writing to stdout at the given level ("debug", "info", ...).
func NewAppLogger(level string, sink Sink) (*AppLogger, error) {
	return NewAppLoggerTo(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}, level, sink)
}

// NewAppLoggerTo creates a logger writing to w.
func NewAppLoggerTo(w io.Writer, level string, sink Sink) (*AppLogger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}
	return &AppLogger{
		zl:   zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
		sink: sink,
		mu:   &sync.Mutex{},
	}, nil
}

// Nop returns a logger that discards everything.
func Nop() *AppLogger {
	return &AppLogger{zl: zerolog.Nop(), mu: &sync.Mutex{}}
}

// With returns a child logger tagged with a component name. The sink is shared.
func (l *AppLogger) With(component string) *AppLogger {
	return &AppLogger{
		zl:   l.zl.With().Str("component", component).Logger(),
		sink: l.sink,
		mu:   l.mu,
	}
}

// SetSink attaches a UI sink after construction.
func (l *AppLogger) SetSink(s Sink) {
	l.mu.Lock()
	l.sink = s
	l.mu.Unlock()
}

// Info logs an informational message
func (l *AppLogger) Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.zl.Info().Msg(msg)
	l.toSink("INFO", msg)
}

// Warn logs a recoverable problem
func (l *AppLogger) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.zl.Warn().Msg(msg)
	l.toSink("WARN", msg)
}

// Error logs an error message
func (l *AppLogger) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.zl.Error().Msg(msg)
	l.toSink("ERROR", msg)
}

// Debug logs to the console only (to keep UI clean)
func (l *AppLogger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *AppLogger) toSink(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sink == nil {
		return
	}

	timestamp := time.Now().Format("15:04:05")
	l.sink.Append(fmt.Sprintf("[%s] %s: %s", timestamp, level, msg))

	// Keep log size manageable
	list, _ := l.sink.Get()
	if len(list) > maxSinkLines {
		l.sink.Set(list[len(list)-maxSinkLines:])
	}
}
