package logging

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Level is the severity of a record. Higher values are more severe.
type Level int8

const (
	DebugLevel    Level = 10
	InfoLevel     Level = 20
	WarningLevel  Level = 30
	ErrorLevel    Level = 40
	CriticalLevel Level = 50
)

// Levels lists every severity in ascending order.
var Levels = []Level{DebugLevel, InfoLevel, WarningLevel, ErrorLevel, CriticalLevel}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarningLevel:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRITICAL"
	default:
		return "Level " + strconv.Itoa(int(l))
	}
}

// ParseLevel maps a level name to a Level. The five canonical names are
// matched case-insensitively, and zerolog's vocabulary (trace, warn, fatal,
// panic, ...) is accepted as aliases. The boolean reports whether s was
// recognised.
func ParseLevel(s string) (Level, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "DEBUG":
		return DebugLevel, true
	case "INFO":
		return InfoLevel, true
	case "WARNING":
		return WarningLevel, true
	case "ERROR":
		return ErrorLevel, true
	case "CRITICAL":
		return CriticalLevel, true
	case emptyString:
		return InfoLevel, false
	}

	zl, err := parseLevel(strings.ToLower(name))
	if err != nil {
		return InfoLevel, false
	}
	return fromZerolog(zl)
}

// levelOrDefault resolves s, falling back to InfoLevel for anything
// unrecognised so that a malformed configuration never prevents logging.
func levelOrDefault(s string) Level {
	l, _ := ParseLevel(s)
	return l
}

// parseLevel parses a string log level into a zerolog.Level.
// Returns zerolog.NoLevel and an error if parsing fails.
func parseLevel(level string) (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, err
	}
	return l, nil
}

func fromZerolog(zl zerolog.Level) (Level, bool) {
	switch zl {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return DebugLevel, true
	case zerolog.InfoLevel:
		return InfoLevel, true
	case zerolog.WarnLevel:
		return WarningLevel, true
	case zerolog.ErrorLevel:
		return ErrorLevel, true
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return CriticalLevel, true
	default:
		return InfoLevel, false
	}
}

func (l Level) zerolog() zerolog.Level {
	switch {
	case l <= DebugLevel:
		return zerolog.DebugLevel
	case l <= InfoLevel:
		return zerolog.InfoLevel
	case l <= WarningLevel:
		return zerolog.WarnLevel
	case l <= ErrorLevel:
		return zerolog.ErrorLevel
	default:
		// FatalLevel is only a threshold here; events are built via WithLevel
		// so zerolog never exits the process.
		return zerolog.FatalLevel
	}
}
