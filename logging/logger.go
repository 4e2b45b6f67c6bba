package logging

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Logger fans records out to its sinks. A Logger is safe for concurrent
// use. Once its registry shuts down, every emission returns ErrLoggerClosed.
type Logger struct {
	name  string
	cfg   Config
	sinks []Sink
	now   func() time.Time

	mu     sync.RWMutex
	closed atomic.Bool
}

func newLogger(name string, cfg Config, now func() time.Time, sinks ...Sink) *Logger {
	return &Logger{
		name:  name,
		cfg:   cfg,
		sinks: sinks,
		now:   now,
	}
}

// Name returns the registry key of the logger.
func (l *Logger) Name() string { return l.name }

// Level returns the minimum severity the logger emits.
func (l *Logger) Level() Level { return l.cfg.Level }

// Config returns a copy of the configuration the logger was built with.
func (l *Logger) Config() Config { return l.cfg }

// Enabled reports whether a record at level would reach at least one sink.
func (l *Logger) Enabled(level Level) bool {
	for _, s := range l.sinks {
		if level >= s.Level() {
			return true
		}
	}
	return false
}

// Log writes msg at level to every sink that accepts it. Write failures of
// individual sinks are joined and returned; a failing sink does not stop
// delivery to the others.
func (l *Logger) Log(level Level, msg string) error {
	if l == nil {
		return ErrLoggerClosed
	}
	if l.closed.Load() {
		return ErrLoggerClosed
	}
	if !l.Enabled(level) {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	// Double-check after acquiring lock
	if l.closed.Load() {
		return ErrLoggerClosed
	}

	rec := Record{
		Time:    l.now(),
		Level:   level,
		Name:    l.name,
		Message: msg,
	}

	var errs error
	for _, s := range l.sinks {
		if level < s.Level() {
			continue
		}
		if err := s.Write(rec); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// Logf formats according to format and logs the result at level.
func (l *Logger) Logf(level Level, format string, args ...interface{}) error {
	if l == nil {
		return ErrLoggerClosed
	}
	if !l.Enabled(level) {
		// Log still reports a closed logger; formatting is skipped.
		return l.Log(level, emptyString)
	}
	return l.Log(level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(msg string) error    { return l.Log(DebugLevel, msg) }
func (l *Logger) Info(msg string) error     { return l.Log(InfoLevel, msg) }
func (l *Logger) Warning(msg string) error  { return l.Log(WarningLevel, msg) }
func (l *Logger) Error(msg string) error    { return l.Log(ErrorLevel, msg) }
func (l *Logger) Critical(msg string) error { return l.Log(CriticalLevel, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) error {
	return l.Logf(DebugLevel, format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) error {
	return l.Logf(InfoLevel, format, args...)
}

func (l *Logger) Warningf(format string, args ...interface{}) error {
	return l.Logf(WarningLevel, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) error {
	return l.Logf(ErrorLevel, format, args...)
}

func (l *Logger) Criticalf(format string, args ...interface{}) error {
	return l.Logf(CriticalLevel, format, args...)
}

// close marks the logger closed and closes every sink. It waits for
// emissions already holding the read lock, and continues past sink
// failures.
func (l *Logger) close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed.Swap(true) {
		return nil
	}

	var errs error
	for _, s := range l.sinks {
		if err := s.Close(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("closing %s sink of %q: %w", s.Name(), l.name, err))
		}
	}
	return errs
}
