package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  Level
		known bool
	}{
		{"DEBUG", DebugLevel, true},
		{"info", InfoLevel, true},
		{"Warning", WarningLevel, true},
		{"ERROR", ErrorLevel, true},
		{"critical", CriticalLevel, true},
		{" error ", ErrorLevel, true},
		{"warn", WarningLevel, true},
		{"trace", DebugLevel, true},
		{"fatal", CriticalLevel, true},
		{"panic", CriticalLevel, true},
		{"", InfoLevel, false},
		{"NOT_A_LEVEL", InfoLevel, false},
		{"disabled", InfoLevel, false},
		{"100", InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, known := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
			assert.Equal(t, tt.want, levelOrDefault(tt.in))
		})
	}
}

func TestLevel_String(t *testing.T) {
	names := []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}
	require.Len(t, Levels, len(names))
	for i, l := range Levels {
		assert.Equal(t, names[i], l.String())
		parsed, ok := ParseLevel(l.String())
		assert.True(t, ok)
		assert.Equal(t, l, parsed)
	}
	assert.Equal(t, "Level 15", Level(15).String())
}

func TestLevel_Zerolog(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, DebugLevel.zerolog())
	assert.Equal(t, zerolog.InfoLevel, InfoLevel.zerolog())
	assert.Equal(t, zerolog.WarnLevel, WarningLevel.zerolog())
	assert.Equal(t, zerolog.ErrorLevel, ErrorLevel.zerolog())
	assert.Equal(t, zerolog.FatalLevel, CriticalLevel.zerolog())

	for _, l := range Levels {
		back, ok := fromZerolog(l.zerolog())
		assert.True(t, ok)
		assert.Equal(t, l, back)
	}
}

// A record reaches a sink iff its level is at or above the sink's level.
func TestLevelOrdering(t *testing.T) {
	for _, sinkLevel := range Levels {
		t.Run(sinkLevel.String(), func(t *testing.T) {
			var buf threadSafeBuffer
			reg := NewRegistry(WithConsoleWriter(&buf), WithClock(newFakeClock(testTime).Now))
			defer reg.Shutdown()

			log, err := reg.Setup("order", WithLevel(sinkLevel.String()))
			require.NoError(t, err)

			var want []string
			for _, recLevel := range Levels {
				require.NoError(t, log.Log(recLevel, recLevel.String()))
				if recLevel >= sinkLevel {
					want = append(want, "2026-10-18 09:30:15 ["+recLevel.String()+"] order: "+recLevel.String())
				}
				assert.Equal(t, recLevel >= sinkLevel, log.Enabled(recLevel))
			}
			assert.Equal(t, want, buf.Lines())
		})
	}
}
