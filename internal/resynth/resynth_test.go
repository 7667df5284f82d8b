package resynth

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/qrstfmt"
)

func writeLE(buf *bytes.Buffer) func(int16) error {
	return func(s int16) error {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(s))
		_, err := buf.Write(b[:])
		return err
	}
}

func TestNewResynthesizerRejectsBadPlaybackSpeed(t *testing.T) {
	t.Parallel()

	_, err := NewResynthesizer(Config{PlaybackSpeed: 0})
	require.Error(t, err)
}

func TestApplyRecordRejectsUnsupportedChannel(t *testing.T) {
	t.Parallel()

	r, err := NewResynthesizer(DefaultConfig())
	require.NoError(t, err)

	err = r.ApplyRecord(qrstfmt.Record{Channel: 2, Octave: 5, Wavelength: 128, Amplitude: 10})
	require.Error(t, err)
	assert.True(t, qrsterrors.IsCategory(err, qrsterrors.CategoryUnknownOctaveOrChannel))
}

func TestApplyRecordRejectsOutOfRangeOctave(t *testing.T) {
	t.Parallel()

	r, err := NewResynthesizer(DefaultConfig())
	require.NoError(t, err)

	err = r.ApplyRecord(qrstfmt.Record{Channel: 1, Octave: 0, Wavelength: 128, Amplitude: 10})
	require.Error(t, err)

	err = r.ApplyRecord(qrstfmt.Record{Channel: 1, Octave: 16, Wavelength: 128, Amplitude: 10})
	require.Error(t, err)
}

func TestSilentOscillatorBankProducesZeroSamples(t *testing.T) {
	t.Parallel()

	r, err := NewResynthesizer(DefaultConfig())
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		assert.Equal(t, int16(0), r.Tick())
	}
}

func TestActiveOscillatorEventuallyProducesNonZeroSample(t *testing.T) {
	t.Parallel()

	r, err := NewResynthesizer(DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, r.ApplyRecord(qrstfmt.Record{Channel: 1, Octave: 8, Wavelength: 200, Amplitude: 200}))

	var sawNonZero bool
	for i := 0; i < 2000; i++ {
		if r.Tick() != 0 {
			sawNonZero = true
			break
		}
	}
	assert.True(t, sawNonZero, "an active oscillator should eventually produce audible output")
}

func TestFlushToSilenceTerminatesAndZerosOutput(t *testing.T) {
	t.Parallel()

	r, err := NewResynthesizer(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, r.ApplyRecord(qrstfmt.Record{Channel: 1, Octave: 3, Wavelength: 128, Amplitude: 255}))
	for i := 0; i < 50; i++ {
		r.Tick()
	}

	var samples []int16
	r.FlushToSilence(func(s int16) { samples = append(samples, s) })

	assert.True(t, r.allSilent())
	if len(samples) > 0 {
		assert.Equal(t, int16(0), samples[len(samples)-1])
	}
}

func TestRunReturnsNilOnCleanEndOfStream(t *testing.T) {
	t.Parallel()

	var encoded bytes.Buffer
	enc := qrstfmt.NewEncoder(&encoded)
	require.NoError(t, enc.Write(qrstfmt.Record{DeltaT: 10, Channel: 1, Octave: 5, Wavelength: 150, Amplitude: 100}))
	require.NoError(t, enc.Flush())

	r, err := NewResynthesizer(DefaultConfig())
	require.NoError(t, err)

	var pcm bytes.Buffer
	dec := qrstfmt.NewDecoder(&encoded)
	stats, err := Run(context.Background(), r, dec, writeLE(&pcm))
	require.NoError(t, err)
	assert.False(t, stats.Truncated)
	assert.Equal(t, 1, stats.RecordsApplied)
	assert.Positive(t, pcm.Len())
}

func TestRunSkipsZeroAmplitudeRecordsButAdvancesClock(t *testing.T) {
	t.Parallel()

	var encoded bytes.Buffer
	enc := qrstfmt.NewEncoder(&encoded)
	require.NoError(t, enc.Write(qrstfmt.Record{DeltaT: 8, Channel: 1, Octave: 6, Wavelength: 128, Amplitude: 0}))
	require.NoError(t, enc.Flush())

	r, err := NewResynthesizer(DefaultConfig())
	require.NoError(t, err)

	var pcm bytes.Buffer
	dec := qrstfmt.NewDecoder(&encoded)
	stats, err := Run(context.Background(), r, dec, writeLE(&pcm))
	require.NoError(t, err)

	assert.Zero(t, stats.RecordsApplied)
	// The 8 queued ticks still produce output samples (all silence).
	assert.Equal(t, 8*2, pcm.Len())
	assert.True(t, r.allSilent())
}

func TestRunFlushesOnTruncatedStream(t *testing.T) {
	t.Parallel()

	r, err := NewResynthesizer(DefaultConfig())
	require.NoError(t, err)

	// A lone 0xFF with nothing following is a truncated escape prefix.
	dec := qrstfmt.NewDecoder(bytes.NewReader([]byte{5, 0x11, 150, 100, 0xFF}))
	var pcm bytes.Buffer
	stats, err := Run(context.Background(), r, dec, writeLE(&pcm))
	require.NoError(t, err)
	assert.True(t, stats.Truncated)
	assert.Positive(t, pcm.Len())
}
