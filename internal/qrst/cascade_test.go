package qrst

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
)

func TestEmittedWavelengthStaysInCanonicalRange(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(defaultConfig())
	require.NoError(t, err)

	for i := 0; i < 30000; i++ {
		v := int16(8000*math.Sin(float64(i)*0.21) + 3000*math.Sin(float64(i)*0.043))
		for _, r := range a.Process(v) {
			if r.Wavelength != 0 {
				assert.GreaterOrEqual(t, int(r.Wavelength), conf.WavelengthMin)
				assert.LessOrEqual(t, int(r.Wavelength), conf.WavelengthMax)
			} else {
				assert.Zero(t, r.Amplitude, "a no-signal report carries no amplitude")
			}
		}
	}
}

func TestNumAccumStaysBelowCadenceBetweenEmissions(t *testing.T) {
	t.Parallel()

	cfg := Config{NumOctaves: 7, N: conf.MinEmissionCadence}
	a, err := NewAnalyzer(cfg)
	require.NoError(t, err)

	for i := 0; i < 5000; i++ {
		a.Process(int16(6000 * math.Sin(float64(i)*0.3)))
		for octave := 0; octave < conf.NumOctavesTotal; octave++ {
			assert.Less(t, a.st.numAccum[octave], cfg.N)
		}
	}
}

func TestRecentDistanceStaysBounded(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(defaultConfig())
	require.NoError(t, err)

	for i := 0; i < 5000; i++ {
		a.Process(int16(9000 * math.Sin(float64(i)*0.7)))
		for octave := 0; octave < conf.NumOctavesTotal; octave++ {
			for _, pol := range [2]polarity{polarityPeaks, polarityTroughs} {
				assert.GreaterOrEqual(t, a.st.recentPTDistance[pol][octave], 0)
				assert.LessOrEqual(t, a.st.recentPTDistance[pol][octave], conf.WindowDepth+1)
			}
		}
	}
}

// A step between two DC levels settles back to silence once the transition
// has aged out of every active window.
func TestSquareTransitionSettlesToSilence(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(Config{NumOctaves: 7, N: conf.DefaultEmissionCadence})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		a.Process(-10000)
	}

	var tailReports []Report
	for i := 0; i < 10000; i++ {
		reports := a.Process(10000)
		if i >= 8000 {
			tailReports = append(tailReports, reports...)
		}
	}

	require.NotEmpty(t, tailReports)
	for _, r := range tailReports {
		if r.Octave >= conf.TopOctave-2 {
			assert.Zero(t, r.Amplitude, "high octaves must be silent long after the transition, got report %+v", r)
		}
	}
}

// A swept sine moving from a very short wavelength toward a much longer one
// must shift the detected energy from high octaves toward low octaves.
func TestSweptSineMigratesTowardLowerOctaves(t *testing.T) {
	t.Parallel()

	const sampleCount = 20000

	a, err := NewAnalyzer(defaultConfig())
	require.NoError(t, err)

	var angle float64
	weightedOctave := func(reports []Report) (float64, float64) {
		var sum, weight float64
		for _, r := range reports {
			if r.Amplitude > 0 {
				sum += float64(r.Octave) * float64(r.Amplitude)
				weight += float64(r.Amplitude)
			}
		}
		return sum, weight
	}

	var earlySum, earlyWeight, lateSum, lateWeight float64
	for i := 0; i < sampleCount; i++ {
		progress := float64(i) / float64(sampleCount)
		increment := (1-progress)*(math.Pi/2) + progress*(math.Pi/256)
		angle += increment
		sample := int16(2000 + 12000*math.Sin(angle))

		reports := a.Process(sample)
		sum, weight := weightedOctave(reports)
		if i < sampleCount/2 {
			earlySum += sum
			earlyWeight += weight
		} else {
			lateSum += sum
			lateWeight += weight
		}
	}

	require.Positive(t, earlyWeight, "the fast half of the sweep must be detected somewhere")
	require.Positive(t, lateWeight, "the slow half of the sweep must be detected somewhere")
	assert.Greater(t, earlySum/earlyWeight, lateSum/lateWeight,
		"detected energy must move toward lower octaves as the wavelength grows")
}
