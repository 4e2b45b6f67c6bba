package logging

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Record is a single log message on its way to the sinks.
type Record struct {
	Time    time.Time
	Level   Level
	Name    string
	Message string
}

// placeholder matches an escaped percent or %(key)<flags><width><verb>,
// e.g. %(levelname)-8s. Escapes are matched first so that %%(name)s is a
// literal.
var placeholder = regexp.MustCompile(`%%|%\((\w+)\)([-+# 0]*\d*(?:\.\d+)?)([sdf])`)

var recordAttrs = map[string]bool{
	"asctime":   true,
	"created":   true,
	"msecs":     true,
	"levelname": true,
	"levelno":   true,
	"name":      true,
	"message":   true,
	"process":   true,
}

type segment struct {
	literal string
	attr    string
	verb    string
}

// formatter renders records. It is immutable once built.
type formatter struct {
	segments   []segment
	timeFormat string
}

func newFormatter(messageFormat, timeFormat string) (*formatter, error) {
	f := &formatter{timeFormat: timeFormat}

	matches := placeholder.FindAllStringSubmatchIndex(messageFormat, -1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			f.segments = append(f.segments, segment{literal: messageFormat[last:m[0]]})
		}
		last = m[1]
		if m[2] < 0 {
			f.segments = append(f.segments, segment{literal: "%"})
			continue
		}
		attr := messageFormat[m[2]:m[3]]
		if !recordAttrs[attr] {
			return nil, fmt.Errorf("%w: unknown format placeholder %q", ErrInvalidConfig, attr)
		}
		f.segments = append(f.segments, segment{
			attr: attr,
			verb: "%" + messageFormat[m[4]:m[5]] + messageFormat[m[6]:m[7]],
		})
	}
	if last < len(messageFormat) {
		f.segments = append(f.segments, segment{literal: messageFormat[last:]})
	}

	return f, nil
}

// format renders rec followed by a newline.
func (f *formatter) format(rec Record) []byte {
	var b strings.Builder
	for _, seg := range f.segments {
		if seg.attr == emptyString {
			b.WriteString(seg.literal)
			continue
		}
		fmt.Fprintf(&b, seg.verb, coerce(seg.verb, f.value(seg.attr, rec)))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func (f *formatter) value(attr string, rec Record) any {
	switch attr {
	case "asctime":
		return strftime.Format(f.timeFormat, rec.Time)
	case "created":
		return float64(rec.Time.UnixNano()) / float64(time.Second)
	case "msecs":
		return rec.Time.Nanosecond() / int(time.Millisecond)
	case "levelname":
		return rec.Level.String()
	case "levelno":
		return int(rec.Level)
	case "name":
		return rec.Name
	case "message":
		return rec.Message
	case "process":
		return os.Getpid()
	default:
		return emptyString
	}
}

// coerce adapts v to the verb so that e.g. %(levelno)s prints 20.
func coerce(verb string, v any) any {
	switch verb[len(verb)-1] {
	case 's':
		return fmt.Sprint(v)
	case 'd':
		if x, ok := v.(float64); ok {
			return int64(x)
		}
	case 'f':
		if x, ok := v.(int); ok {
			return float64(x)
		}
	}
	return v
}
