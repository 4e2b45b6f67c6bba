package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Sink is a destination for rendered records.
type Sink interface {
	// Name identifies the sink in errors.
	Name() string
	// Level is the minimum severity the sink accepts.
	Level() Level
	// Write renders and writes rec.
	Write(rec Record) error
	// Close flushes and releases the sink.
	Close() error
}

type syncer interface {
	Sync() error
}

// consoleSink writes one line per record to a stream, unbuffered.
type consoleSink struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
	fmt   *formatter
}

func newConsoleSink(out io.Writer, level Level, f *formatter) *consoleSink {
	if out == nil {
		out = os.Stderr
	}
	return &consoleSink{out: out, level: level, fmt: f}
}

func (s *consoleSink) Name() string { return "console" }

func (s *consoleSink) Level() Level { return s.level }

func (s *consoleSink) Write(rec Record) error {
	line := s.fmt.format(rec)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.out.Write(line); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSinkWrite, s.Name(), err)
	}
	return nil
}

// Close syncs the stream but leaves it open; the stream belongs to the caller.
func (s *consoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sy, ok := s.out.(syncer); ok && s.out != os.Stderr && s.out != os.Stdout {
		return sy.Sync()
	}
	return nil
}
