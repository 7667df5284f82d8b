// detector.go peak/trough detector and adjustment feedback
package qrst

import (
	"math"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
)

// match describes a detected peak-to-peak or trough-to-trough pattern at one
// of the candidate cycle distances {2,3,4}.
type match struct {
	distance   int
	largestGap float64
	lineValue  float64 // straight line value at the most recent sample, polarity-applied
}

// detectMatch scans the window for the first candidate distance d in
// {2,3,4} whose two endpoint samples (after applying the polarity sign) define
// a straight line that every other sample among the last d+3 lies strictly
// below, each by at least 1% of the largest gap. It returns a zero-distance
// match if none of the three distances survive. No aliasing check against
// the next-higher octave is made.
func (s *state) detectMatch(octave, track int, mult float64) match {
	var gaps [conf.WindowSize + 1]float64

	var best match
	for _, d := range [3]int{2, 3, 4} {
		if best.distance != 0 {
			break
		}

		numSamples := d + 3
		a := float64(s.filtered[octave][track][nextMostRecent]) * mult
		b := float64(s.filtered[octave][track][nextMostRecent-d]) * mult
		slope := (a - b) / float64(d)
		lineValueNow := a + slope

		distance := d
		largestGap := 0.0
		calcPos := 0

		start := mostRecent - numSamples + 1
		for sp := start; sp <= mostRecent; sp++ {
			if sp == nextMostRecent || sp == nextMostRecent-d {
				continue
			}
			gap := float64(s.filtered[octave][track][sp])*mult - (lineValueNow - slope*float64(mostRecent-sp))
			if gap >= 0 {
				distance = 0
				break
			}
			if math.Abs(gap) > largestGap {
				largestGap = math.Abs(gap)
			}
			calcPos++
			gaps[calcPos] = math.Abs(gap)
		}

		if distance != 0 {
			threshold := float64(int64(largestGap * 0.01))
			for cp := 1; cp <= calcPos; cp++ {
				if gaps[cp] < threshold {
					distance = 0
					break
				}
			}
		}

		if distance != 0 {
			best = match{distance: distance, largestGap: largestGap, lineValue: lineValueNow}
		}
	}
	return best
}

// runDetector executes the detector once for peaks and once for troughs
// (mirrored by negation) on the sample just written at (octave, track).
func (s *state) runDetector(octave, track, otherTrack int) {
	for _, pol := range [2]polarity{polarityPeaks, polarityTroughs} {
		mult := 1.0
		if pol == polarityTroughs {
			mult = -1.0
		}

		m := s.detectMatch(octave, track, mult)
		if m.distance != 0 {
			s.distanceTotal[octave] += int64(m.distance)
			s.countPT[octave]++
			s.ampAccum[octave] += m.largestGap

			s.applyAdjustment(octave, track, pol, mult, m)
			s.detectExtendedCycles(octave, track, pol, mult, m)

			s.recentPTAmp[pol][octave] = m.largestGap
			s.recentPTDistance[pol][octave] = 0
		}
		// Distances beyond D+1 are all equivalent to "too long ago", so the
		// counter saturates there instead of growing without bound.
		if s.recentPTDistance[pol][octave] <= conf.WindowDepth {
			s.recentPTDistance[pol][octave]++
		}
	}
}

// applyAdjustment writes the feedback values that the next-lower octave
// subtracts out. The multiplier is -mult at every position in the matched
// cycle, endpoints and interior samples alike.
func (s *state) applyAdjustment(octave, track int, pol polarity, mult float64, m match) {
	multiplier := -mult
	halfAmplitude := math.Abs(m.largestGap) / 2.0

	target := &s.adjPeak
	if pol == polarityTroughs {
		target = &s.adjTrough
	}

	for sp := nextMostRecent - m.distance; sp <= nextMostRecent; sp++ {
		newVal := halfAmplitude * multiplier
		cur := target[octave][track][sp]
		if cur == 0 {
			target[octave][track][sp] = int64(newVal)
		} else {
			target[octave][track][sp] = int64((float64(cur) + newVal) / 2.0)
		}
	}
}

// detectExtendedCycles folds in additional cycles found between this match
// and the previous match of the same polarity, when the two are close
// enough together to plausibly belong to the same extended wave train. It
// counts line crossings between the two cycle centers and derives an
// additional cycle count from them.
func (s *state) detectExtendedCycles(octave, track int, pol polarity, mult float64, m match) {
	distRecent := s.recentPTDistance[pol][octave]
	if !(distRecent-m.distance > 2 && distRecent < conf.WindowDepth) {
		return
	}

	halfAmpRecent := s.recentPTAmp[pol][octave] / 2.0
	centerRecent := (float64(s.filtered[octave][track][nextMostRecent]) - halfAmpRecent) * mult
	centerPrevious := (m.lineValue - halfAmpRecent) * mult
	slope := (centerRecent - centerPrevious) / float64(distRecent)

	crossings := 1
	dirNeeded := -1.0
	threshold := 0.2 * halfAmpRecent

	for offset := m.distance; offset <= distRecent; offset++ {
		sp := mostRecent - offset
		distFromLine := centerRecent - slope*float64(offset) - float64(s.filtered[octave][track][sp])*mult
		if distFromLine*dirNeeded > threshold {
			crossings++
			dirNeeded = -dirNeeded
		}
	}

	cycleCount := crossings / 2
	additional := distRecent - m.distance - 1

	s.distanceTotal[octave] += int64(additional)
	s.countPT[octave] += int64(cycleCount)
	s.ampAccum[octave] += m.largestGap * float64(cycleCount)

	s.recentPTDistance[pol][octave] = 0
	s.recentPTAmp[pol][octave] = 0
}
