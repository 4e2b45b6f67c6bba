package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Zerolog returns a zerolog.Logger whose events are rendered through this
// logger's format and delivered to its sinks. Fields other than the level,
// message and timestamp are appended to the message as key=value pairs in
// key order. Use WithLevel(zerolog.FatalLevel) for CRITICAL records; Fatal()
// and Panic() keep their zerolog semantics and stop the caller.
//
// Example:
//
//	zl := logger.Zerolog()
//	zl.Info().Str("phase", "night").Int("round", 2).Msg("phase started")
func (l *Logger) Zerolog() zerolog.Logger {
	return zerolog.New(bridgeWriter{logger: l}).Level(l.minLevel().zerolog())
}

func (l *Logger) minLevel() Level {
	lowest := CriticalLevel
	for _, s := range l.sinks {
		if s.Level() < lowest {
			lowest = s.Level()
		}
	}
	return lowest
}

// bridgeWriter implements zerolog.LevelWriter on top of Logger.Log.
type bridgeWriter struct {
	logger *Logger
}

func (w bridgeWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

func (w bridgeWriter) WriteLevel(zl zerolog.Level, p []byte) (int, error) {
	fields := make(map[string]interface{})
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return 0, fmt.Errorf("decoding zerolog event: %w", err)
	}

	level, ok := fromZerolog(zl)
	if !ok {
		if name, _ := fields[zerolog.LevelFieldName].(string); name != emptyString {
			level = levelOrDefault(name)
		}
	}

	if err := w.logger.Log(level, eventMessage(fields)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func eventMessage(fields map[string]interface{}) string {
	msg, _ := fields[zerolog.MessageFieldName].(string)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		switch k {
		case zerolog.MessageFieldName, zerolog.LevelFieldName, zerolog.TimestampFieldName:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			appendPair(&b, k, v)
		case json.Number:
			appendPair(&b, k, v.String())
		default:
			enc, err := json.Marshal(v)
			if err != nil {
				appendPair(&b, k, fmt.Sprintf("%v", v))
				continue
			}
			appendRawPair(&b, k, string(enc))
		}
	}
	return b.String()
}

// appendPair writes " key=value", quoting value when it contains spaces,
// quotes or '='.
func appendPair(b *strings.Builder, key, value string) {
	if strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}
	appendRawPair(b, key, value)
}

func appendRawPair(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(value)
}
