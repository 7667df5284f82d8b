// resynth.go public QRST resynthesizer API
package resynth

import (
	"math"

	"github.com/google/uuid"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/qrstfmt"
)

const (
	// outputScale converts summed oscillator amplitude into 16-bit PCM range.
	outputScale = 64
	// supportedChannel is the only wire channel this resynthesizer accepts;
	// anything else is an UnknownOctaveOrChannel skip.
	supportedChannel = 1
	// flushTickCap bounds how long FlushToSilence will run before giving up
	// on waiting for every oscillator's geometric decay to reach zero.
	flushTickCap = 1 << 20
)

// Config parameterizes a Resynthesizer.
type Config struct {
	// FudgeNumber is the pitch calibration offset folded into every
	// oscillator's angle-increment exponent. Defaults to -3.
	FudgeNumber int
	// PlaybackSpeed multiplies accumulated delay before oscillator ticks are
	// advanced; 1.0 is real-time, >1 stretches playback (more ticks per
	// record), <1 compresses it.
	PlaybackSpeed float64
}

// Validate checks Config, returning an InvalidParameter error on violation.
func (c Config) Validate() error {
	if c.PlaybackSpeed <= 0 {
		return qrsterrors.InvalidParameterError("playback speed must be > 0")
	}
	return nil
}

// DefaultConfig returns fudgeNumber -3 and real-time playback.
func DefaultConfig() Config {
	return Config{FudgeNumber: -3, PlaybackSpeed: 1.0}
}

// Resynthesizer drives a bank of conf.NumResynthOctaves additive sine
// oscillators from a compressed update stream, strictly single-threaded and
// single-caller like the Analyzer it mirrors.
type Resynthesizer struct {
	id           string
	cfg          Config
	oscillators  [conf.NumOctavesTotal]oscillator
	pendingDelay float64
}

// NewResynthesizer constructs a Resynthesizer with every oscillator silent.
func NewResynthesizer(cfg Config) (*Resynthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Resynthesizer{id: uuid.NewString(), cfg: cfg}
	metricResynthesizersCreated.Inc()
	return r, nil
}

// ID returns the Resynthesizer's unique instance identifier.
func (r *Resynthesizer) ID() string {
	return r.id
}

// ApplyRecord queues a decoded wire record's wavelength/amplitude as the
// pending update for its octave; it does not take effect until that
// oscillator's next zero crossing. Records for an unsupported channel or an
// out-of-range octave are rejected with UnknownOctaveOrChannel and leave the
// oscillator bank unchanged; Run still counts their delay, since it queues a
// record's delta-t before applying the record.
func (r *Resynthesizer) ApplyRecord(rec qrstfmt.Record) error {
	if rec.Channel != supportedChannel || rec.Octave < 1 || rec.Octave > conf.TopOctave {
		metricRecordsSkipped.Inc()
		return qrsterrors.Newf("unsupported channel %d or octave %d", rec.Channel, rec.Octave).
			Component("resynth").
			Category(qrsterrors.CategoryUnknownOctaveOrChannel).
			Build()
	}
	osc := &r.oscillators[rec.Octave]
	osc.pendingWavelength = rec.Wavelength
	osc.pendingAmplitude = float64(rec.Amplitude)
	metricRecordsApplied.Inc()
	return nil
}

// QueueDelay adds deltaT, multiplied by PlaybackSpeed, to the pending delay
// that DrainDelay advances the oscillators through.
func (r *Resynthesizer) QueueDelay(deltaT uint32) {
	r.pendingDelay += float64(deltaT) * r.cfg.PlaybackSpeed
}

// Tick advances every oscillator by one output sample and returns the
// clamped, scaled 16-bit PCM value.
func (r *Resynthesizer) Tick() int16 {
	var sum float64
	for octave := 1; octave <= conf.TopOctave; octave++ {
		sum += r.oscillators[octave].tick(octave, r.cfg.FudgeNumber)
	}
	metricSamplesGenerated.Inc()
	return clampToInt16(sum * outputScale)
}

// DrainDelay ticks out every sample implied by the delay accumulated via
// QueueDelay, invoking emit for each generated sample, and resets the
// accumulator. Fractional remainders (from PlaybackSpeed scaling) persist
// across calls so speed changes never lose a partial tick.
func (r *Resynthesizer) DrainDelay(emit func(int16)) {
	for r.pendingDelay >= 1 {
		emit(r.Tick())
		r.pendingDelay--
	}
}

// FlushToSilence ticks the oscillator bank, with no further pending updates,
// until every oscillator has decayed to zero amplitude or flushTickCap is
// reached, emitting each generated sample. This is the TruncatedRecord/EOS
// recovery path: rather than producing a hard cutoff, the remaining
// geometric decay plays out to silence.
func (r *Resynthesizer) FlushToSilence(emit func(int16)) {
	for octave := range r.oscillators {
		r.oscillators[octave].pendingAmplitude = 0
	}
	for tick := 0; tick < flushTickCap; tick++ {
		if r.allSilent() {
			return
		}
		emit(r.Tick())
	}
}

func (r *Resynthesizer) allSilent() bool {
	for octave := 1; octave <= conf.TopOctave; octave++ {
		if !r.oscillators[octave].silent() {
			return false
		}
	}
	return true
}

func clampToInt16(v float64) int16 {
	const maxVal = math.MaxInt16
	switch {
	case v > maxVal:
		return maxVal
	case v < -maxVal:
		return -maxVal
	default:
		return int16(v)
	}
}
