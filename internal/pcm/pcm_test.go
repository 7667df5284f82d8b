package pcm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRoundTrip(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 1, -1, 32767, -32768, 12345, -12345}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatRaw, 0)
	require.NoError(t, err)
	for _, s := range samples {
		require.NoError(t, w.Write(s))
	}
	require.NoError(t, w.Close())

	r, err := NewReader(&buf, FormatRaw)
	require.NoError(t, err)

	for _, want := range samples {
		got, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = r.Next()
	require.Error(t, err)
}

func TestWAVRoundTrip(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 3000)
	for i := range samples {
		samples[i] = int16((i * 17) % 4000)
	}

	path := filepath.Join(t.TempDir(), "roundtrip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	w, err := NewWriter(f, FormatWAV, 44100)
	require.NoError(t, err)
	for _, s := range samples {
		require.NoError(t, w.Write(s))
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	r, err := NewReader(bytes.NewReader(data), FormatWAV)
	require.NoError(t, err)

	for i, want := range samples {
		got, err := r.Next()
		require.NoError(t, err, "sample %d", i)
		assert.Equal(t, want, got, "sample %d", i)
	}
}

func TestWAVRequiresSeekableStreams(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := NewWriter(&buf, FormatWAV, 44100)
	require.Error(t, err)
}

func TestReaderRejectsNonWAVInput(t *testing.T) {
	t.Parallel()

	_, err := NewReader(bytes.NewReader([]byte("not a wav file at all")), FormatWAV)
	require.Error(t, err)
}
