package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// RotationUnit is the calendar unit at which a file sink rotates.
type RotationUnit string

const (
	RotateSecond   RotationUnit = "S"
	RotateMinute   RotationUnit = "M"
	RotateHour     RotationUnit = "H"
	RotateDay      RotationUnit = "D"
	RotateMidnight RotationUnit = "MIDNIGHT"
	// RotateMonday through RotateSunday rotate at midnight on that weekday.
	RotateMonday    RotationUnit = "W0"
	RotateTuesday   RotationUnit = "W1"
	RotateWednesday RotationUnit = "W2"
	RotateThursday  RotationUnit = "W3"
	RotateFriday    RotationUnit = "W4"
	RotateSaturday  RotationUnit = "W5"
	RotateSunday    RotationUnit = "W6"
)

// Config is the resolved configuration of one logger.
type Config struct {
	Level            Level        `validate:"oneof=10 20 30 40 50"`
	MessageFormat    string       `validate:"required"`
	TimeFormat       string       `validate:"required"`
	RotationUnit     RotationUnit `validate:"oneof=S M H D MIDNIGHT W0 W1 W2 W3 W4 W5 W6"`
	RotationInterval int          `validate:"gte=1"`
	// BackupCount is the number of archives kept. RetainAll keeps every
	// archive; a configuration file value of 0 also means RetainAll.
	BackupCount int `validate:"gte=-1"`
	// MaxSizeMB caps the active file size; zero disables the cap.
	MaxSizeMB int `validate:"gte=0"`
}

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		Level:            InfoLevel,
		MessageFormat:    DefaultMessageFormat,
		TimeFormat:       DefaultTimeFormat,
		RotationUnit:     RotateMidnight,
		RotationInterval: 1,
		BackupCount:      RetainAll,
	}
}

// fileConfig holds the values present in the [logger] section of a
// configuration file. Nil fields were absent.
type fileConfig struct {
	Level            *string
	MessageFormat    *string
	TimeFormat       *string
	RotationUnit     *string
	RotationInterval *int
	BackupCount      *int
	MaxSizeMB        *int
}

// resolveConfig merges defaults, file values and the explicit level, in
// increasing precedence.
func resolveConfig(base Config, file fileConfig, levelOverride *string) Config {
	cfg := base
	if file.Level != nil {
		cfg.Level = levelOrDefault(*file.Level)
	}
	if file.MessageFormat != nil {
		cfg.MessageFormat = *file.MessageFormat
	}
	if file.TimeFormat != nil {
		cfg.TimeFormat = *file.TimeFormat
	}
	if file.RotationUnit != nil {
		cfg.RotationUnit = RotationUnit(strings.ToUpper(strings.TrimSpace(*file.RotationUnit)))
	}
	if file.RotationInterval != nil {
		cfg.RotationInterval = *file.RotationInterval
	}
	if file.BackupCount != nil {
		cfg.BackupCount = *file.BackupCount
	}
	if file.MaxSizeMB != nil {
		cfg.MaxSizeMB = *file.MaxSizeMB
	}
	if levelOverride != nil {
		cfg.Level = levelOrDefault(*levelOverride)
	}
	return cfg
}

// loadConfigFile reads the [logger] section of an INI file. Values are
// taken verbatim so that format strings need no escaping.
func loadConfigFile(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return fc, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fc, fmt.Errorf("%w: %s: %w", ErrConfigNotFound, path, err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		Insensitive:         true,
	}, data)
	if err != nil {
		return fc, fmt.Errorf("%w: parsing %s: %w", ErrInvalidConfig, path, err)
	}

	if !file.HasSection(configSection) {
		return fc, nil
	}
	section := file.Section(configSection)

	str := func(key string) *string {
		if !section.HasKey(key) {
			return nil
		}
		v := section.Key(key).Value()
		return &v
	}
	num := func(key string, dst **int) error {
		raw := str(key)
		if raw == nil {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			return fmt.Errorf("%w: %s: %s must be an integer, got %q", ErrInvalidConfig, path, key, *raw)
		}
		*dst = &n
		return nil
	}

	fc.Level = str("level")
	fc.MessageFormat = str("format")
	fc.TimeFormat = str("date_format")
	fc.RotationUnit = str("rotation_when")

	if err := num("rotation_interval", &fc.RotationInterval); err != nil {
		return fc, err
	}
	if err := num("max_size_mb", &fc.MaxSizeMB); err != nil {
		return fc, err
	}
	if raw := str("backup_count"); raw != nil && strings.EqualFold(strings.TrimSpace(*raw), "unlimited") {
		n := RetainAll
		fc.BackupCount = &n
	} else if err := num("backup_count", &fc.BackupCount); err != nil {
		return fc, err
	}
	// 0 means unlimited history.
	if fc.BackupCount != nil && *fc.BackupCount == 0 {
		n := RetainAll
		fc.BackupCount = &n
	}

	return fc, nil
}
