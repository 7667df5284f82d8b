package qrst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
)

func TestCrossoverReduceNeverIncreasesAmplitude(t *testing.T) {
	t.Parallel()

	p := newCrossoverParams(conf.DefaultEmissionCadence)

	for w := conf.WavelengthMin; w <= conf.WavelengthMax; w++ {
		for _, amp := range []float64{0, 1, 50, 1000, 100000} {
			got := p.reduce(w, amp)
			assert.LessOrEqual(t, got, amp, "wavelength %d amplitude %f", w, amp)
			assert.GreaterOrEqual(t, got, 0.0, "wavelength %d amplitude %f", w, amp)
		}
	}
}

func TestCrossoverReduceIsIdentityAtDefaultCadence(t *testing.T) {
	t.Parallel()

	// At N=24 the truncated reduction comes out to zero for every canonical
	// wavelength, so enabling the flag changes nothing at default
	// parameters. This pins down the vestigial behavior rather than a
	// guessed-at "fixed" one.
	p := newCrossoverParams(conf.DefaultEmissionCadence)

	for w := conf.WavelengthMin; w <= conf.WavelengthMax; w++ {
		assert.Equal(t, 1000.0, p.reduce(w, 1000), "wavelength %d", w)
	}
}

func TestCrossoverDisabledByDefault(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(defaultConfig())
	require.NoError(t, err)
	assert.Nil(t, a.xover)

	a2, err := NewAnalyzer(Config{NumOctaves: 7, N: 24, EnableCrossoverReduction: true})
	require.NoError(t, err)
	assert.NotNil(t, a2.xover)
}
