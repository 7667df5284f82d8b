// tracker.go change-detection update emission, shared by cmd/analyze and
// cmd/plot: a new record is only written to the wire when an
// octave's (wavelength, amplitude) pair differs from the last value emitted
// for that octave
package qrstfmt

import "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"

// ChangeTracker wraps an Encoder with the compressor's "only write on
// change" rule. Octave reports arrive pre-quantization (raw accumulated
// amplitude, not yet divided by the emission cadence); ChangeTracker
// performs that division and the wire quantization itself, so callers only
// ever hand it analyzer-native values.
type ChangeTracker struct {
	enc     *Encoder
	channel int
	n       float64

	tick      uint64
	emittedAt uint64

	prevWavelength [conf.TopOctave + 1]uint8
	prevAmplitude  [conf.TopOctave + 1]int32
	seen           [conf.TopOctave + 1]bool
}

// NewChangeTracker constructs a ChangeTracker over enc. n is the analyzer's
// emission cadence, used to normalize raw accumulated amplitude before
// quantization.
func NewChangeTracker(enc *Encoder, channel, n int) *ChangeTracker {
	return &ChangeTracker{enc: enc, channel: channel, n: float64(n)}
}

// Advance moves the tracker's tick clock forward by one without emitting
// anything. Callers call this once per analyzer-input sample, and Submit
// once per report produced on that sample.
func (t *ChangeTracker) Advance() {
	t.tick++
}

// Submit records one octave's raw (wavelength, amplitude) pair at the
// tracker's current tick. If neither value differs from what was last
// emitted for that octave, Submit is a no-op; otherwise it writes a Record
// carrying the elapsed delay since the previous emission, across all
// octaves.
func (t *ChangeTracker) Submit(octave int, wavelength uint8, amplitude int32) error {
	if t.seen[octave] && amplitude == t.prevAmplitude[octave] && wavelength == t.prevWavelength[octave] {
		return nil
	}
	t.seen[octave] = true
	t.prevAmplitude[octave] = amplitude
	t.prevWavelength[octave] = wavelength

	rec := Record{
		DeltaT:     uint32(t.tick - t.lastEmitTick()),
		Channel:    t.channel,
		Octave:     octave,
		Wavelength: wavelength,
		Amplitude:  QuantizeAmplitude(float64(amplitude) / t.n),
	}
	if err := t.enc.Write(rec); err != nil {
		return err
	}
	t.emittedAt = t.tick
	return nil
}

func (t *ChangeTracker) lastEmitTick() uint64 {
	return t.emittedAt
}

// Flush pushes any buffered bytes to the underlying writer.
func (t *ChangeTracker) Flush() error {
	return t.enc.Flush()
}
