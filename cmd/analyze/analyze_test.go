package analyze

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
)

// TestMain verifies that Run's errgroup-based reader/processor goroutine
// pair leaves nothing behind once a test completes.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("testing.(*T).Run"),
		goleak.IgnoreTopFunction("runtime.gopark"),
	)
}

func writeRawFixture(t *testing.T, path string, samples int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	var buf [2]byte
	for i := 0; i < samples; i++ {
		v := int16(2000 * math.Sin(float64(i)*0.05))
		binary.LittleEndian.PutUint16(buf[:], uint16(v))
		_, err := f.Write(buf[:])
		require.NoError(t, err)
	}
}

func TestRunProducesCompressedOutputAndLeavesNoGoroutines(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.raw")
	outputPath := filepath.Join(dir, "out.qrst")
	writeRawFixture(t, inputPath, 5000)

	settings := &conf.Settings{}
	settings.Input.Path = inputPath
	settings.Input.Format = "raw"
	settings.Output.Compressed.Path = outputPath
	settings.Analyzer.NumOctaves = 7
	settings.Analyzer.N = 24

	require.NoError(t, Run(context.Background(), settings))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestRunReturnsErrorOnMissingInput(t *testing.T) {
	dir := t.TempDir()

	settings := &conf.Settings{}
	settings.Input.Path = filepath.Join(dir, "does-not-exist.raw")
	settings.Input.Format = "raw"
	settings.Output.Compressed.Path = filepath.Join(dir, "out.qrst")
	settings.Analyzer.NumOctaves = 7
	settings.Analyzer.N = 24

	err := Run(context.Background(), settings)
	require.Error(t, err)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in.raw")
	outputPath := filepath.Join(dir, "out.qrst")
	writeRawFixture(t, inputPath, 200000)

	settings := &conf.Settings{}
	settings.Input.Path = inputPath
	settings.Input.Format = "raw"
	settings.Output.Compressed.Path = outputPath
	settings.Analyzer.NumOctaves = 7
	settings.Analyzer.N = 24

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, settings)
	require.Error(t, err)
}
