// accumulator.go frequency-segment amplitude accumulator behind the TSV
// spectrum plot
package spectrogram

import (
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/qrst"
)

const (
	segmentsPerOctave          = 5
	frequencyWithinOctaveScale = 1.0 / 128.0
	plotOffsetPerTimeSegment   = 3
	plotScaleNumerator         = 80
	plotClampMax               = 100
)

// Config parameterizes an Accumulator.
type Config struct {
	// CyclesPerTimeSegment is the number of input samples each plotted
	// time column covers.
	CyclesPerTimeSegment int
}

// Validate rejects a non-positive CyclesPerTimeSegment.
func (c Config) Validate() error {
	if c.CyclesPerTimeSegment <= 0 {
		return qrsterrors.InvalidParameterError("cycles per time segment must be > 0")
	}
	return nil
}

// Accumulator consumes a stream of analyzer reports and builds a
// frequency-segment x time-segment amplitude table, later rendered as TSV
// for plotting.
type Accumulator struct {
	cfg Config

	table map[int][]int64

	lowestUsedSegment  int
	highestUsedSegment int
	highestAmplitude   int64

	timeSegment     int
	cyclesRemaining int
}

// NewAccumulator constructs an Accumulator.
func NewAccumulator(cfg Config) (*Accumulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Accumulator{
		cfg:               cfg,
		table:             make(map[int][]int64),
		lowestUsedSegment: highestAllowedFrequencySegment(),
		cyclesRemaining:   cfg.CyclesPerTimeSegment,
	}, nil
}

func highestAllowedFrequencySegment() int {
	return segmentsPerOctave * conf.TopOctave
}

// AddReport folds one analyzer report into the current time segment.
func (a *Accumulator) AddReport(r qrst.Report) {
	if r.Amplitude <= 0 {
		return
	}

	bitRepr := int64(1) << uint(conf.TopOctave-r.Octave)
	adjustedAmplitude := int64(r.Amplitude) * bitRepr

	frequencyWithinOctave := float64(r.Wavelength) * frequencyWithinOctaveScale
	switch {
	case frequencyWithinOctave > 1.0:
		frequencyWithinOctave = 1.0
	case frequencyWithinOctave < 0.0:
		frequencyWithinOctave = 0.0
	}
	segment := int(segmentsPerOctave * (float64(r.Octave) + frequencyWithinOctave))

	if segment < highestAllowedFrequencySegment() {
		a.ensureSegment(segment)
		a.table[segment][a.timeSegment] += adjustedAmplitude
		if a.table[segment][a.timeSegment] > a.highestAmplitude {
			a.highestAmplitude = a.table[segment][a.timeSegment]
		}
	}
	if segment > a.highestUsedSegment {
		a.highestUsedSegment = segment
	}
	if segment < a.lowestUsedSegment {
		a.lowestUsedSegment = segment
	}
}

func (a *Accumulator) ensureSegment(segment int) {
	row := a.table[segment]
	for len(row) <= a.timeSegment {
		row = append(row, 0)
	}
	a.table[segment] = row
}

// Tick advances the sample clock by one, rolling over to a new time segment
// every CyclesPerTimeSegment calls.
func (a *Accumulator) Tick() {
	if a.cyclesRemaining <= 0 {
		a.timeSegment++
		a.cyclesRemaining = a.cfg.CyclesPerTimeSegment
	}
	a.cyclesRemaining--
}
