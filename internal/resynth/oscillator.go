// oscillator.go a single additive sine oscillator with zero-crossing-gated
// parameter updates
package resynth

import "math"

const (
	zeroCrossingDecayThreshold = 50
	angleWrapThreshold         = 30
	twoPi                      = 2 * math.Pi
)

// oscillator holds one octave's regenerated sine wave. pending* is written by
// ApplyRecord as soon as a wire update arrives; live* only changes at a zero
// crossing (or immediately, if the oscillator is currently silent), which
// keeps a parameter change from inserting a transient into the waveform.
type oscillator struct {
	pendingWavelength uint8
	pendingAmplitude  float64

	liveWavelength uint8
	liveAmplitude  float64

	angle float64
	prev  float64
	prev2 float64
}

func signMismatch(a, b float64) bool {
	return (a >= 0 && b <= 0) || (a <= 0 && b >= 0)
}

// tick advances the oscillator by one output sample and returns its
// contribution to the summed waveform.
func (o *oscillator) tick(octave, fudgeNumber int) float64 {
	crossed := signMismatch(o.prev, o.prev2)

	// A silent oscillator holds prev=prev2=0 forever, which makes
	// signMismatch trivially true every tick. Reactivation must be checked
	// before the crossing-gated switch below, or that dead zero-crossing
	// always wins and the angle=0 reset here never runs.
	if o.liveAmplitude == 0 && o.pendingAmplitude > 0 {
		o.angle = 0
		o.liveWavelength = o.pendingWavelength
		o.liveAmplitude = o.pendingAmplitude
	} else {
		switch {
		case crossed && o.pendingAmplitude > 0:
			o.liveWavelength = o.pendingWavelength
			o.liveAmplitude = o.pendingAmplitude
		case crossed && o.pendingAmplitude == 0:
			if o.liveAmplitude <= zeroCrossingDecayThreshold {
				o.liveAmplitude = 0
			} else {
				o.liveAmplitude /= 2
			}
		}
	}

	exponent := float64(fudgeNumber) + 1 + 7 + float64(octave-15) - (float64(o.liveWavelength)-128)/128
	deltaAngle := math.Pow(2, exponent) * math.Pi

	if deltaAngle > 0 {
		o.angle += deltaAngle
		if o.angle > angleWrapThreshold {
			o.angle = math.Mod(o.angle, twoPi)
		}
	} else {
		o.angle = 0
	}

	contribution := math.Sin(o.angle) * o.liveAmplitude

	o.prev2 = o.prev
	o.prev = contribution

	return contribution
}

// silent reports whether this oscillator currently contributes nothing and
// has no pending update waiting to activate it.
func (o *oscillator) silent() bool {
	return o.liveAmplitude == 0 && o.pendingAmplitude == 0
}
