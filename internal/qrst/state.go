// state.go ring buffer and per-octave accumulator state for the cascade
package qrst

import (
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
)

const (
	mostRecent     = conf.WindowSize - 1
	nextMostRecent = conf.WindowSize - 2
	delayedPtr     = 1
)

// polarity selects which side of the window the detector is scanning: peaks
// (the raw window) or troughs (the window mirrored by negation).
type polarity int

const (
	polarityPeaks   polarity = 0
	polarityTroughs polarity = 1
)

// state holds all mutable cascade state for one Analyzer instance: the
// filtered-sample windows and pending adjustment values for every
// (octave, track), plus the per-octave accumulators that feed the detector
// and the reporter. It is owned exclusively by a single Analyzer; running
// two Analyzers concurrently on separate streams shares nothing.
type state struct {
	filtered  [conf.NumOctavesTotal][conf.NumTracks][conf.WindowSize]int64
	adjPeak   [conf.NumOctavesTotal][conf.NumTracks][conf.WindowSize]int64
	adjTrough [conf.NumOctavesTotal][conf.NumTracks][conf.WindowSize]int64

	distanceTotal [conf.NumOctavesTotal]int64
	countPT       [conf.NumOctavesTotal]int64
	ampAccum      [conf.NumOctavesTotal]float64
	sampleCounter [conf.NumOctavesTotal]int
	numAccum      [conf.NumOctavesTotal]int

	recentPTDistance [2][conf.NumOctavesTotal]int
	recentPTAmp      [2][conf.NumOctavesTotal]float64

	bitRepr [conf.NumOctavesTotal]int64

	timeCounter   int64
	notFirst      bool
	initialSample int64
}

func newState() *state {
	s := &state{}
	for octave := 0; octave < conf.NumOctavesTotal; octave++ {
		s.bitRepr[octave] = 1 << uint(conf.TopOctave-octave)
	}
	return s
}

// resetWith fills every window with sample, zeroes every adjustment value
// and accumulator, sets the recent peak/trough distances to D+1, and
// restarts the time counter. Used both for the very first
// sample seen by an Analyzer and whenever the caller reconfigures N or
// numOctaves mid-stream.
func (s *state) resetWith(sample int64) {
	s.initialSample = sample
	s.timeCounter = 0
	for octave := 0; octave < conf.NumOctavesTotal; octave++ {
		for track := 0; track < conf.NumTracks; track++ {
			for i := 0; i < conf.WindowSize; i++ {
				s.filtered[octave][track][i] = sample
				s.adjPeak[octave][track][i] = 0
				s.adjTrough[octave][track][i] = 0
			}
		}
		s.distanceTotal[octave] = 0
		s.countPT[octave] = 0
		s.ampAccum[octave] = 0
		s.sampleCounter[octave] = 0
		s.numAccum[octave] = 0
		s.recentPTDistance[polarityPeaks][octave] = conf.WindowDepth + 1
		s.recentPTDistance[polarityTroughs][octave] = conf.WindowDepth + 1
		s.recentPTAmp[polarityPeaks][octave] = 0
		s.recentPTAmp[polarityTroughs][octave] = 0
	}
}

// shiftWindow discards the oldest sample in (octave, track) and makes room
// for a fresh tail write, shifting the two adjustment arrays in lockstep so
// that adjustments stay time-aligned with the samples they cancel. The new
// tail adjustment slot is zeroed; the caller fills the sample slot next.
func (s *state) shiftWindow(octave, track int) {
	for i := 0; i < conf.WindowSize-1; i++ {
		s.filtered[octave][track][i] = s.filtered[octave][track][i+1]
		s.adjPeak[octave][track][i] = s.adjPeak[octave][track][i+1]
		s.adjTrough[octave][track][i] = s.adjTrough[octave][track][i+1]
	}
	s.adjPeak[octave][track][mostRecent] = 0
	s.adjTrough[octave][track][mostRecent] = 0
}
