package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/ncruces/go-strftime"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// archiveSuffix matches the part after "<file>." of a rotated archive:
// a timestamp and an optional collision counter.
var archiveSuffix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}(?:_\d{2}(?:-\d{2}(?:-\d{2})?)?)?)(?:\.(\d+))?$`)

// fileSink writes records to a file that is archived on calendar
// boundaries. The check-rotate-write sequence runs under one mutex.
type fileSink struct {
	mu     sync.Mutex
	path   string
	level  Level
	fmt    *formatter
	cfg    Config
	writer *lumberjack.Logger
	lock   *flock.Flock
	diag   zerolog.Logger

	rolloverAt time.Time
	size       int64
	closed     bool
}

func newFileSink(path string, cfg Config, f *formatter, now time.Time, diag zerolog.Logger) (*fileSink, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryCreation, dir, err)
	}

	lock := flock.New(path + lockSuffix)
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock log file %s: %w", path, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrLogFileInUse, path)
	}

	// An existing file continues the period it was last written in.
	start := now
	var size int64
	if info, err := os.Stat(path); err == nil {
		start = info.ModTime()
		size = info.Size()
	}

	// Create the file up front so it exists before the first record.
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	_ = file.Close()

	return &fileSink{
		path:  path,
		level: cfg.Level,
		fmt:   f,
		cfg:   cfg,
		// Size rotation is done here, not by lumberjack, so that every
		// archive follows one naming scheme and one retention budget.
		writer: &lumberjack.Logger{
			Filename:  path,
			MaxSize:   noSizeCapMB,
			LocalTime: true,
		},
		lock:       lock,
		diag:       diag,
		size:       size,
		rolloverAt: nextRollover(start, cfg.RotationUnit, cfg.RotationInterval),
	}, nil
}

func (s *fileSink) Name() string { return "file:" + s.path }

func (s *fileSink) Level() Level { return s.level }

// Write rotates first when rec falls on or after the rollover time, or when
// the line would push the active file past MaxSizeMB. A failed rotation does
// not drop the record: it is written to the active file and the rotation
// error is returned.
func (s *fileSink) Write(rec Record) error {
	line := s.fmt.format(rec)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: %s: %w", ErrSinkWrite, s.Name(), os.ErrClosed)
	}

	var err error
	switch {
	case !rec.Time.Before(s.rolloverAt):
		err = s.rotate(rec.Time)
	case s.exceedsCap(len(line)):
		// A size cut stays within the current period.
		err = s.archive(periodStart(s.rolloverAt, s.cfg.RotationUnit, s.cfg.RotationInterval))
	}
	var rotateErr error
	if err != nil {
		rotateErr = fmt.Errorf("%w: %s: rotate: %w", ErrSinkWrite, s.Name(), err)
	}

	n, err := s.writer.Write(line)
	s.size += int64(n)
	if err != nil {
		return errors.Join(fmt.Errorf("%w: %s: %w", ErrSinkWrite, s.Name(), err), rotateErr)
	}
	return rotateErr
}

func (s *fileSink) exceedsCap(n int) bool {
	if s.cfg.MaxSizeMB == 0 || s.size == 0 {
		return false
	}
	return s.size+int64(n) > int64(s.cfg.MaxSizeMB)*megabyte
}

func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return errors.Join(s.writer.Close(), s.lock.Unlock())
}

// rotate archives the active file and schedules the next rollover after now.
// The caller holds s.mu.
func (s *fileSink) rotate(now time.Time) error {
	ended := periodStart(s.rolloverAt, s.cfg.RotationUnit, s.cfg.RotationInterval)
	s.rolloverAt = nextRollover(now, s.cfg.RotationUnit, s.cfg.RotationInterval)
	return s.archive(ended)
}

// archive moves the active file to an archive stamped with the period start
// and prunes old archives. lumberjack reopens the path on the next write.
// The caller holds s.mu.
func (s *fileSink) archive(stamp time.Time) error {
	if err := s.writer.Close(); err != nil {
		return err
	}

	// An empty file is not archived.
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.Size() == 0 {
		return nil
	}

	dst := s.archiveName(stamp)
	if err := os.Rename(s.path, dst); err != nil {
		return err
	}
	s.size = 0
	s.diag.Debug().Str("file", s.path).Str("archive", dst).Msg("log file rotated")

	return s.prune()
}

// archiveName returns an unused archive path for a period starting at t.
func (s *fileSink) archiveName(t time.Time) string {
	base := s.path + "." + strftime.Format(suffixFormat(s.cfg.RotationUnit), t)
	name := base
	for i := 1; ; i++ {
		if _, err := os.Lstat(name); errors.Is(err, os.ErrNotExist) {
			return name
		}
		name = base + "." + strconv.Itoa(i)
	}
}

type archive struct {
	path  string
	stamp string
	seq   int
}

// archives lists rotated files of this sink, oldest first.
func (s *fileSink) archives() ([]archive, error) {
	dir := filepath.Dir(s.path)
	prefix := filepath.Base(s.path) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var found []archive
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		m := archiveSuffix.FindStringSubmatch(strings.TrimPrefix(e.Name(), prefix))
		if m == nil {
			continue
		}
		seq := 0
		if m[2] != emptyString {
			seq, _ = strconv.Atoi(m[2])
		}
		found = append(found, archive{path: filepath.Join(dir, e.Name()), stamp: m[1], seq: seq})
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].stamp != found[j].stamp {
			return found[i].stamp < found[j].stamp
		}
		return found[i].seq < found[j].seq
	})
	return found, nil
}

// prune deletes the oldest archives beyond the configured backup count.
// RetainAll and zero keep everything.
func (s *fileSink) prune() error {
	if s.cfg.BackupCount <= 0 {
		return nil
	}

	found, err := s.archives()
	if err != nil {
		return err
	}
	excess := len(found) - s.cfg.BackupCount
	var errs error
	for i := 0; i < excess; i++ {
		if err := os.Remove(found[i].path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = errors.Join(errs, err)
			continue
		}
		s.diag.Debug().Str("archive", found[i].path).Msg("log archive removed")
	}
	return errs
}

func suffixFormat(unit RotationUnit) string {
	switch unit {
	case RotateSecond:
		return "%Y-%m-%d_%H-%M-%S"
	case RotateMinute:
		return "%Y-%m-%d_%H-%M"
	case RotateHour:
		return "%Y-%m-%d_%H"
	default:
		return "%Y-%m-%d"
	}
}

// nextRollover returns the first rotation boundary strictly after t.
func nextRollover(t time.Time, unit RotationUnit, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch unit {
	case RotateSecond:
		return t.Add(time.Duration(interval) * time.Second)
	case RotateMinute:
		return t.Add(time.Duration(interval) * time.Minute)
	case RotateHour:
		return t.Add(time.Duration(interval) * time.Hour)
	case RotateDay:
		return t.Add(time.Duration(interval) * 24 * time.Hour)
	case RotateMidnight:
		return midnightAfter(t).AddDate(0, 0, interval-1)
	default:
		target, ok := weekdayOf(unit)
		if !ok {
			return midnightAfter(t).AddDate(0, 0, interval-1)
		}
		next := midnightAfter(t)
		// Wn rolls over at the midnight that ends weekday n.
		for next.AddDate(0, 0, -1).Weekday() != target {
			next = next.AddDate(0, 0, 1)
		}
		return next.AddDate(0, 0, 7*(interval-1))
	}
}

// periodStart is the inverse step of nextRollover: the start of the period
// that ends at rolloverAt.
func periodStart(rolloverAt time.Time, unit RotationUnit, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch unit {
	case RotateSecond:
		return rolloverAt.Add(-time.Duration(interval) * time.Second)
	case RotateMinute:
		return rolloverAt.Add(-time.Duration(interval) * time.Minute)
	case RotateHour:
		return rolloverAt.Add(-time.Duration(interval) * time.Hour)
	case RotateDay:
		return rolloverAt.Add(-time.Duration(interval) * 24 * time.Hour)
	case RotateMidnight:
		return rolloverAt.AddDate(0, 0, -interval)
	default:
		return rolloverAt.AddDate(0, 0, -7*interval)
	}
}

func midnightAfter(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// weekdayOf maps W0 (Monday) .. W6 (Sunday) to a time.Weekday.
func weekdayOf(unit RotationUnit) (time.Weekday, bool) {
	if len(unit) != 2 || unit[0] != 'W' || unit[1] < '0' || unit[1] > '6' {
		return 0, false
	}
	return time.Weekday((int(unit[1]-'0') + 1) % 7), true
}
