package logging

import (
	"io"
	"path/filepath"
	"strconv"
	"testing"

	smerrors "github.com/Station-Manager/errors"
	"github.com/stretchr/testify/require"
)

// newBenchLogger returns a logger writing to io.Discard and, when withFile is
// set, to a rotating file under b.TempDir().
func newBenchLogger(b *testing.B, level string, withFile bool) *Logger {
	b.Helper()
	reg := NewRegistry(WithConsoleWriter(io.Discard))
	b.Cleanup(func() { _ = reg.Shutdown() })

	opts := []SetupOption{WithLevel(level)}
	if withFile {
		opts = append(opts, WithFile(filepath.Join(b.TempDir(), "bench.log")))
	}
	log, err := reg.Setup("bench", opts...)
	require.NoError(b, err)
	return log
}

func makeDetailedChain(depth int) error {
	if depth <= 0 {
		return nil
	}
	err := smerrors.New(smerrors.Op("op_0")).Msg("root cause message")
	for i := 1; i < depth; i++ {
		op := "op_" + strconv.Itoa(i)
		err = smerrors.New(smerrors.Op(op)).Err(err).Msg("wrapped message")
	}
	return err
}

func BenchmarkInfo_Console(b *testing.B) {
	log := newBenchLogger(b, "INFO", false)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = log.Info("hello")
	}
}

func BenchmarkInfof_File(b *testing.B) {
	log := newBenchLogger(b, "INFO", true)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = log.Infof("round=%d phase=%s", i, "night")
	}
}

func BenchmarkDebugf_Filtered(b *testing.B) {
	log := newBenchLogger(b, "WARNING", true)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = log.Debugf("round=%d", i)
	}
}

func BenchmarkZerolog_Fields(b *testing.B) {
	zl := newBenchLogger(b, "INFO", false).Zerolog()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		zl.Info().Str("k", "v").Int("n", i).Msg("hello")
	}
}

func BenchmarkException_DetailedChain6(b *testing.B) {
	log := newBenchLogger(b, "ERROR", false)
	err := makeDetailedChain(6)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = log.Exception(err, "oops")
	}
}

func BenchmarkParallel_InfoFile(b *testing.B) {
	log := newBenchLogger(b, "INFO", true)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = log.Info("hi")
		}
	})
}

func BenchmarkHighConcurrency(b *testing.B) {
	log := newBenchLogger(b, "INFO", true)
	b.ResetTimer()
	b.SetParallelism(100)
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_ = log.Infof("goroutine_id=%d data=benchmark", i)
			i++
		}
	})
}
