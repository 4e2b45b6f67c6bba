package logging

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

const (
	maxDumpDepth    = 10
	maxDumpElements = 10
)

// Dump logs the contents of v at DEBUG, one record per line. Structs show
// their exported fields, maps their entries in key order, slices and arrays
// their first ten elements. Cycles and nesting deeper than ten levels are cut
// short. Nothing is rendered when DEBUG is disabled.
func (l *Logger) Dump(v interface{}) error {
	if l == nil {
		return ErrLoggerClosed
	}
	if !l.Enabled(DebugLevel) {
		return l.Log(DebugLevel, emptyString)
	}

	d := dumper{visited: make(map[uintptr]bool)}
	if v == nil {
		d.printf("Dump: <nil>")
	} else {
		d.value(reflect.ValueOf(v), emptyString, 0)
	}

	var errs error
	for _, line := range d.lines {
		if err := l.Log(DebugLevel, line); err != nil {
			errs = errors.Join(errs, err)
			if errors.Is(err, ErrLoggerClosed) {
				break
			}
		}
	}
	return errs
}

type dumper struct {
	lines   []string
	visited map[uintptr]bool
}

func (d *dumper) printf(format string, args ...interface{}) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}

func (d *dumper) value(val reflect.Value, prefix string, depth int) {
	if depth > maxDumpDepth {
		d.printf("%s: <max depth reached>", prefix)
		return
	}

	for val.Kind() == reflect.Interface || val.Kind() == reflect.Ptr {
		if val.IsNil() {
			d.printf("%s: <nil>", prefix)
			return
		}
		if val.Kind() == reflect.Ptr {
			ptr := val.Pointer()
			if d.visited[ptr] {
				d.printf("%s: <circular reference>", prefix)
				return
			}
			d.visited[ptr] = true
		}
		val = val.Elem()
	}
	if !val.IsValid() {
		d.printf("%s: <nil>", prefix)
		return
	}

	typ := val.Type()
	switch val.Kind() {
	case reflect.Struct:
		if prefix == emptyString {
			d.printf("Struct: %s", typ.Name())
		} else {
			d.printf("%s: %s {", prefix, typ.Name())
		}
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Name
			if prefix != emptyString {
				name = prefix + "." + name
			}
			d.value(val.Field(i), name, depth+1)
		}
		if prefix != emptyString {
			d.printf("%s: }", prefix)
		}

	case reflect.Map:
		d.printf("%s: map[%s]%s (len: %d) {", prefix, typ.Key(), typ.Elem(), val.Len())
		keys := val.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})
		for _, k := range keys {
			d.value(val.MapIndex(k), fmt.Sprintf("%s[%v]", prefix, k), depth+1)
		}
		d.printf("%s: }", prefix)

	case reflect.Slice, reflect.Array:
		d.printf("%s: %s (len: %d) {", prefix, typ, val.Len())
		for i := 0; i < val.Len() && i < maxDumpElements; i++ {
			d.value(val.Index(i), fmt.Sprintf("%s[%d]", prefix, i), depth+1)
		}
		if val.Len() > maxDumpElements {
			d.printf("%s: ... (%d more elements)", prefix, val.Len()-maxDumpElements)
		}
		d.printf("%s: }", prefix)

	default:
		if val.CanInterface() {
			d.printf("%s: %v", prefix, val.Interface())
		} else {
			d.printf("%s: %v", prefix, val)
		}
	}
}
