package logging

import "errors"

const (
	emptyString = ""

	// DefaultMessageFormat renders timestamp, level, logger name and message.
	DefaultMessageFormat = "%(asctime)s [%(levelname)s] %(name)s: %(message)s"
	// DefaultTimeFormat is a strftime layout for the asctime placeholder.
	DefaultTimeFormat = "%Y-%m-%d %H:%M:%S"

	// RetainAll keeps every rotated archive.
	RetainAll = -1

	configSection = "logger"
	lockSuffix    = ".lock"
	noSizeCapMB   = 1 << 30
	megabyte      = 1024 * 1024
)

var (
	// ErrEmptyName is returned by Setup when no logger name is given.
	ErrEmptyName = errors.New("logger name is empty")
	// ErrConfigNotFound is returned by Setup when the configuration file
	// does not exist or cannot be read.
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrDirectoryCreation is returned by Setup when the parent directory of
	// the log file cannot be created.
	ErrDirectoryCreation = errors.New("cannot create log directory")
	// ErrInvalidConfig is returned by Setup when the configuration file is
	// malformed or resolves to an unusable value.
	ErrInvalidConfig = errors.New("invalid logger configuration")
	// ErrLogFileInUse is returned by Setup when another sink already holds
	// the log file.
	ErrLogFileInUse = errors.New("log file is in use")
	// ErrSinkWrite wraps a failure to write a record to a sink.
	ErrSinkWrite = errors.New("sink write failed")
	// ErrLoggerClosed is returned when emitting on a logger after Shutdown.
	ErrLoggerClosed = errors.New("logger is closed")
)

const (
	errMsgConfigInvalid = "Logging configuration is invalid."
)
