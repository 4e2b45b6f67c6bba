package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_SinkWriteFailure(t *testing.T) {
	t.Run("console failure is returned", func(t *testing.T) {
		reg := NewRegistry(WithConsoleWriter(failingWriter{}), WithClock(newFakeClock(testTime).Now))
		defer reg.Shutdown()

		log, err := reg.Setup("broken")
		require.NoError(t, err)

		err = log.Info("lost")
		require.ErrorIs(t, err, ErrSinkWrite)
		assert.ErrorIs(t, err, errDiskFull)
		assert.Contains(t, err.Error(), "console")
	})

	t.Run("other sinks still receive the record", func(t *testing.T) {
		reg := NewRegistry(WithConsoleWriter(failingWriter{}), WithClock(newFakeClock(testTime).Now))
		defer reg.Shutdown()
		path := filepath.Join(t.TempDir(), "app.log")

		log, err := reg.Setup("half", WithFile(path))
		require.NoError(t, err)

		err = log.Error("saved")
		require.ErrorIs(t, err, ErrSinkWrite)
		assert.Equal(t, "2026-10-18 09:30:15 [ERROR] half: saved\n", readFile(t, path))
	})

	t.Run("filtered records do not touch sinks", func(t *testing.T) {
		reg := NewRegistry(WithConsoleWriter(failingWriter{}))
		defer reg.Shutdown()

		log, err := reg.Setup("quiet", WithLevel("CRITICAL"))
		require.NoError(t, err)
		assert.NoError(t, log.Error("below threshold"))
	})
}

func TestLogger_ConvenienceMethods(t *testing.T) {
	reg, buf, _ := newTestRegistry(t)
	log, err := reg.Setup("conv", WithLevel("debug"))
	require.NoError(t, err)

	require.NoError(t, log.Debug("d"))
	require.NoError(t, log.Info("i"))
	require.NoError(t, log.Warning("w"))
	require.NoError(t, log.Error("e"))
	require.NoError(t, log.Critical("c"))
	require.NoError(t, log.Debugf("%s-%d", "df", 1))
	require.NoError(t, log.Infof("%s-%d", "if", 2))
	require.NoError(t, log.Warningf("%s-%d", "wf", 3))
	require.NoError(t, log.Errorf("%s-%d", "ef", 4))
	require.NoError(t, log.Criticalf("%s-%d", "cf", 5))

	prefix := "2026-10-18 09:30:15 "
	assert.Equal(t, []string{
		prefix + "[DEBUG] conv: d",
		prefix + "[INFO] conv: i",
		prefix + "[WARNING] conv: w",
		prefix + "[ERROR] conv: e",
		prefix + "[CRITICAL] conv: c",
		prefix + "[DEBUG] conv: df-1",
		prefix + "[INFO] conv: if-2",
		prefix + "[WARNING] conv: wf-3",
		prefix + "[ERROR] conv: ef-4",
		prefix + "[CRITICAL] conv: cf-5",
	}, buf.Lines())
}

func TestLogger_Closed(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		var log *Logger
		assert.ErrorIs(t, log.Info("x"), ErrLoggerClosed)
		assert.ErrorIs(t, log.Infof("%d", 1), ErrLoggerClosed)
	})

	t.Run("after shutdown", func(t *testing.T) {
		reg, buf, _ := newTestRegistry(t)
		log, err := reg.Setup("closed")
		require.NoError(t, err)
		require.NoError(t, reg.Shutdown())

		assert.ErrorIs(t, log.Critical("x"), ErrLoggerClosed)
		assert.ErrorIs(t, log.Debugf("%d", 1), ErrLoggerClosed)
		assert.Empty(t, buf.Lines())
	})
}

func TestLogger_NoPropagation(t *testing.T) {
	reg, buf, _ := newTestRegistry(t)

	parent, err := reg.Setup("werewolf")
	require.NoError(t, err)
	child, err := reg.Setup("werewolf.game_master")
	require.NoError(t, err)

	require.NoError(t, child.Info("only once"))
	assert.Equal(t, []string{"2026-10-18 09:30:15 [INFO] werewolf.game_master: only once"}, buf.Lines())
	assert.NotSame(t, parent, child)
}
