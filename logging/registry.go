package logging

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Registry creates, caches and shuts down named loggers. The zero value is
// not usable; construct one with NewRegistry.
type Registry struct {
	console io.Writer
	now     func() time.Time
	diag    zerolog.Logger

	// lifecycle is held shared by Setup and exclusively by Shutdown.
	lifecycle sync.RWMutex

	mu      sync.RWMutex
	loggers map[string]*Logger
	group   singleflight.Group
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithConsoleWriter sets the stream console sinks write to. Defaults to
// os.Stderr.
func WithConsoleWriter(w io.Writer) RegistryOption {
	return func(r *Registry) {
		if w != nil {
			r.console = w
		}
	}
}

// WithClock sets the time source used to stamp records and schedule
// rotation.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithDiagnostics sets the logger that receives the registry's own events
// (creation, rotation, close failures). Defaults to zerolog.Nop().
func WithDiagnostics(l zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.diag = l
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		console: os.Stderr,
		now:     time.Now,
		diag:    zerolog.Nop(),
		loggers: make(map[string]*Logger),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type setupOptions struct {
	filePath   string
	configPath string
	level      *string
}

// SetupOption configures a logger created by Setup.
type SetupOption func(*setupOptions)

// WithFile adds a rotating file sink at path. Missing parent directories
// are created.
func WithFile(path string) SetupOption {
	return func(o *setupOptions) {
		o.filePath = path
	}
}

// WithConfigFile reads the [logger] section of the INI file at path.
func WithConfigFile(path string) SetupOption {
	return func(o *setupOptions) {
		o.configPath = path
	}
}

// WithLevel overrides the level from defaults and the configuration file.
// An unrecognised level resolves to INFO; an empty one is ignored.
func WithLevel(level string) SetupOption {
	return func(o *setupOptions) {
		if strings.TrimSpace(level) == emptyString {
			return
		}
		o.level = &level
	}
}

// Setup returns the logger registered under name, creating it on first use.
// Once a name is registered, later calls return the same *Logger and ignore
// their options until Shutdown. Concurrent calls for one name build a
// single logger. On error nothing is registered.
func (r *Registry) Setup(name string, opts ...SetupOption) (*Logger, error) {
	if name == emptyString {
		return nil, ErrEmptyName
	}

	r.lifecycle.RLock()
	defer r.lifecycle.RUnlock()

	if l, ok := r.Get(name); ok {
		return l, nil
	}

	v, err, _ := r.group.Do(name, func() (interface{}, error) {
		if l, ok := r.Get(name); ok {
			return l, nil
		}

		var o setupOptions
		for _, opt := range opts {
			opt(&o)
		}

		l, err := r.build(name, o)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.loggers[name] = l
		r.mu.Unlock()

		r.diag.Debug().
			Str("logger", name).
			Str("level", l.Level().String()).
			Str("file", o.filePath).
			Msg("logger created")
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Logger), nil
}

func (r *Registry) build(name string, o setupOptions) (*Logger, error) {
	var fc fileConfig
	if o.configPath != emptyString {
		var err error
		if fc, err = loadConfigFile(o.configPath); err != nil {
			return nil, err
		}
	}

	cfg := resolveConfig(DefaultConfig(), fc, o.level)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	f, err := newFormatter(cfg.MessageFormat, cfg.TimeFormat)
	if err != nil {
		return nil, err
	}

	sinks := []Sink{newConsoleSink(r.console, cfg.Level, f)}
	if o.filePath != emptyString {
		fs, err := newFileSink(filepath.Clean(o.filePath), cfg, f, r.now(), r.diag)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fs)
	}

	return newLogger(name, cfg, r.now, sinks...), nil
}

// Get returns the logger registered under name.
func (r *Registry) Get(name string) (*Logger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.loggers[name]
	return l, ok
}

// Names returns the registered logger names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shutdown closes every sink of every logger and empties the registry. It
// waits for in-flight Setup calls and emissions, keeps going when a sink
// fails to close, and returns those failures joined. Calling it on an empty
// registry is a no-op.
func (r *Registry) Shutdown() error {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	r.mu.Lock()
	loggers := r.loggers
	r.loggers = make(map[string]*Logger)
	r.mu.Unlock()

	names := make([]string, 0, len(loggers))
	for name := range loggers {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs error
	for _, name := range names {
		if err := loggers[name].close(); err != nil {
			r.diag.Warn().Err(err).Str("logger", name).Msg("failed to close logger")
			errs = errors.Join(errs, err)
		}
	}
	if len(names) > 0 {
		r.diag.Debug().Int("loggers", len(names)).Msg("registry shut down")
	}
	return errs
}
