// cascade.go the per-sample top-down octave filtering pass
package qrst

import (
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
)

// advance runs one input sample through the octave cascade: it always
// updates octave 15, then walks every active lower octave top-down so that
// adjustment values written at octave k+1 are visible when octave k reads
// them within the same call. lowestOctave is the lowest active octave given
// the configured numOctaves. Each updated octave is then given a chance to
// emit, and advance returns every report produced on this tick.
func (s *state) advance(sample int64, lowestOctave int, cfg Config, xover *crossoverParams) []Report {
	s.timeCounter++
	if s.timeCounter > int64(1)<<uint(conf.TopOctave*4) {
		s.timeCounter = 0
	}

	var reports []Report
	for octave := conf.TopOctave; octave >= lowestOctave; octave-- {
		if octave != conf.TopOctave && s.timeCounter%s.bitRepr[octave] != 0 {
			continue
		}

		track, otherTrack := 0, 1
		if octave < conf.TopOctave {
			bit := (s.timeCounter / s.bitRepr[octave]) % 2
			if bit == 0 {
				track, otherTrack = 1, 0
			}
		}

		s.shiftWindow(octave, track)
		s.updateFilteredSample(octave, track, otherTrack, sample)
		s.runDetector(octave, track, otherTrack)

		if rep, ok := s.maybeEmit(octave, cfg, xover); ok {
			reports = append(reports, rep)
		}
	}
	return reports
}

// updateFilteredSample writes the newest tail sample for (octave, track)
// using the two-tap moving-average formula from the next-higher octave plus
// half the pending peak/trough adjustment values. Octave 15 simply takes the
// raw input sample.
func (s *state) updateFilteredSample(octave, track, otherTrack int, sample int64) {
	const scaleForAdjustment = 0.5

	switch {
	case octave == conf.TopOctave:
		s.filtered[octave][0][mostRecent] = sample

	case octave == conf.TopOctave-1:
		sum2 := s.filtered[octave+1][0][delayedPtr] + s.filtered[octave+1][0][delayedPtr+1]
		adjSum := s.adjPeak[octave+1][0][delayedPtr] + s.adjTrough[octave+1][0][delayedPtr+1]
		val := float64(sum2) + scaleForAdjustment*float64(adjSum)
		s.filtered[octave][track][mostRecent] = int64(val)

	default:
		sum4 := s.filtered[octave+1][0][delayedPtr] + s.filtered[octave+1][0][delayedPtr+1] +
			s.filtered[octave+1][1][delayedPtr] + s.filtered[octave+1][1][delayedPtr+1]
		adjSum := s.adjPeak[octave+1][track][delayedPtr] + s.adjTrough[octave+1][track][delayedPtr+1] +
			s.adjPeak[octave+1][otherTrack][delayedPtr] + s.adjTrough[octave+1][otherTrack][delayedPtr+1]
		val := float64(sum4)/2.0 + scaleForAdjustment*float64(adjSum)
		s.filtered[octave][track][mostRecent] = int64(val)
	}
}
