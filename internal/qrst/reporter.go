// reporter.go wavelength/amplitude reporter: emission every N octave-local samples
package qrst

import (
	"math"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
)

// Report is one octave's (wavelength, amplitude) estimate, emitted when that
// octave's accumulator reaches the configured emission cadence N.
type Report struct {
	Octave     int
	Wavelength uint8
	Amplitude  int32
}

// maybeEmit counts the octave's sample counter down (wrapping from 0 to N-1)
// and increments its accumulated-update count; once that count reaches N, it
// normalizes the accumulated amplitude, computes the averaged wavelength in
// canonical octave units, resets the accumulators, and returns the report.
func (s *state) maybeEmit(octave int, cfg Config, xover *crossoverParams) (Report, bool) {
	if s.sampleCounter[octave] == 0 {
		s.sampleCounter[octave] = cfg.N - 1
	} else {
		s.sampleCounter[octave]--
	}

	s.numAccum[octave]++
	if s.numAccum[octave] < cfg.N {
		return Report{}, false
	}

	var wavelength int64
	if s.countPT[octave] > 0 && s.distanceTotal[octave] > 0 && s.ampAccum[octave] > 0 {
		wavelength = (int64(conf.WavelengthCenter) * s.distanceTotal[octave]) / (int64(conf.CycleDistanceAtCenter) * s.countPT[octave])
		switch {
		case wavelength > conf.WavelengthMax:
			wavelength = conf.WavelengthMax
		case wavelength < conf.WavelengthMin:
			wavelength = conf.WavelengthMin
		}
	} else {
		wavelength = 0
		s.ampAccum[octave] = 0
	}

	var amplitude float64
	if s.countPT[octave] > 0 {
		amplitude = s.ampAccum[octave] / float64(s.countPT[octave])
	} else {
		amplitude = s.ampAccum[octave]
	}

	scale := 1.0
	if octave != conf.TopOctave {
		scale = math.Pow(1.0/1.4, float64(conf.TopOctave-octave))
	}
	amplitude *= scale

	if cfg.EnableCrossoverReduction && xover != nil {
		amplitude = xover.reduce(int(wavelength), amplitude)
	}

	if amplitude < 1 {
		wavelength = conf.WavelengthCenter
		amplitude = 0
	}

	s.ampAccum[octave] = 0
	s.countPT[octave] = 0
	s.distanceTotal[octave] = 0
	s.numAccum[octave] = 0

	return Report{Octave: octave, Wavelength: uint8(wavelength), Amplitude: int32(amplitude)}, true
}
