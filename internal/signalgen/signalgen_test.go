package signalgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSweepRejectsNonPositiveSampleCount(t *testing.T) {
	t.Parallel()

	_, err := NewSweep(Config{SampleCount: 0})
	require.Error(t, err)
}

func TestSweepProducesExactSampleCount(t *testing.T) {
	t.Parallel()

	s, err := NewSweep(DefaultConfig(500))
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		_, err := s.Next()
		require.NoError(t, err)
	}
	_, err = s.Next()
	require.Error(t, err)
}

func TestSweepStaysWithinAmplitudeEnvelope(t *testing.T) {
	t.Parallel()

	s, err := NewSweep(DefaultConfig(2000))
	require.NoError(t, err)

	for i := 0; i < 2000; i++ {
		sample, err := s.Next()
		require.NoError(t, err)
		assert.LessOrEqual(t, sample, int16(DefaultOffset+DefaultAmplitude))
		assert.GreaterOrEqual(t, sample, int16(DefaultOffset-DefaultAmplitude))
	}
}

func TestResetReplaysIdenticalSequence(t *testing.T) {
	t.Parallel()

	s, err := NewSweep(DefaultConfig(300))
	require.NoError(t, err)

	var first []int16
	for i := 0; i < 300; i++ {
		v, err := s.Next()
		require.NoError(t, err)
		first = append(first, v)
	}

	s.Reset()
	for i := 0; i < 300; i++ {
		v, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, first[i], v)
	}
}
