package qrstfmt

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	records := []Record{
		{DeltaT: 0, Channel: 1, Octave: 15, Wavelength: 200, Amplitude: 5},
		{DeltaT: 254, Channel: 1, Octave: 9, Wavelength: 64, Amplitude: 255},
		{DeltaT: 70000, Channel: 1, Octave: 3, Wavelength: 100, Amplitude: 42},
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, r := range records {
		require.NoError(t, enc.Write(r))
	}
	require.NoError(t, enc.Flush())

	dec := NewDecoder(&buf)
	var got []Record
	for {
		rec, err := dec.Next()
		if err != nil {
			assert.True(t, qrsterrors.IsCategory(err, qrsterrors.CategoryEndOfStream))
			break
		}
		got = append(got, rec)
	}

	require.Len(t, got, len(records))
	for i, want := range records {
		assert.Equal(t, want.DeltaT, got[i].DeltaT, "record %d delta", i)
		assert.Equal(t, want.Channel, got[i].Channel)
		assert.Equal(t, want.Octave, got[i].Octave)
		assert.Equal(t, want.Wavelength, got[i].Wavelength)
		assert.Equal(t, want.Amplitude, got[i].Amplitude)
	}
}

func TestDelta255SplitsIntoRepeatedUpdate(t *testing.T) {
	t.Parallel()

	// A literal delta byte of 0xFF would collide with the escape prefix, so
	// the encoder emits a repeated update at delta 0xFE followed by the same
	// update at delta 1. The total elapsed time is preserved.
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Write(Record{DeltaT: 255, Channel: 1, Octave: 1, Wavelength: 128, Amplitude: 1}))
	require.NoError(t, enc.Flush())

	dec := NewDecoder(&buf)

	first, err := dec.Next()
	require.NoError(t, err)
	second, err := dec.Next()
	require.NoError(t, err)

	assert.Equal(t, uint32(254), first.DeltaT)
	assert.Equal(t, uint32(1), second.DeltaT)
	assert.Equal(t, uint32(255), first.DeltaT+second.DeltaT)
	assert.Equal(t, first.Octave, second.Octave)
	assert.Equal(t, first.Wavelength, second.Wavelength)
	assert.Equal(t, first.Amplitude, second.Amplitude)

	_, err = dec.Next()
	require.Error(t, err)
	assert.True(t, qrsterrors.IsCategory(err, qrsterrors.CategoryEndOfStream))
}

func TestLongDelayProducesExpectedEscapeSequence(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Write(Record{DeltaT: 70000, Channel: 1, Octave: 2, Wavelength: 128, Amplitude: 10}))
	require.NoError(t, enc.Flush())

	// 70000 = 1*65536 + 17*256 + 112: one three-byte escape, one two-byte
	// escape, then the literal delta on the update record itself.
	assert.Equal(t, []byte{0xFF, 0xFF, 1, 0xFF, 17, 112, 0x12, 128, 10}, buf.Bytes())

	dec := NewDecoder(bytes.NewReader(buf.Bytes()))
	rec, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(70000), rec.DeltaT)

	_, err = dec.Next()
	require.Error(t, err)
	assert.True(t, qrsterrors.IsCategory(err, qrsterrors.CategoryEndOfStream))
}

func TestTruncatedRecordIsReported(t *testing.T) {
	t.Parallel()

	dec := NewDecoder(bytes.NewReader([]byte{10, 0x11}))
	_, err := dec.Next()
	require.Error(t, err)
	assert.True(t, qrsterrors.IsCategory(err, qrsterrors.CategoryTruncatedRecord))
}

func TestQuantizeAmplitudeNeverEmitsZeroForPositiveInput(t *testing.T) {
	t.Parallel()

	b := QuantizeAmplitude(500) // well under 1024, would floor to 0
	assert.Equal(t, uint8(1), b)

	assert.Equal(t, uint8(0), QuantizeAmplitude(0))
}

func TestCleanEOFAtRecordBoundary(t *testing.T) {
	t.Parallel()

	dec := NewDecoder(bytes.NewReader(nil))
	_, err := dec.Next()
	require.ErrorIs(t, err, io.EOF)
}
