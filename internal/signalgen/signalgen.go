// signalgen.go synthetic linear frequency sweep, used to exercise the
// analyzer without a recorded input file
package signalgen

import (
	"math"

	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
)

const (
	// DefaultAmplitude and DefaultOffset describe the single sine component
	// of the standard sweep.
	DefaultAmplitude = 12000
	DefaultOffset    = 2000

	startingAngleIncrement = math.Pi / 2
	endingAngleIncrement   = math.Pi / 256
)

// Config parameterizes a Sweep.
type Config struct {
	// SampleCount is the total number of samples the sweep produces.
	SampleCount int
	// Amplitude and Offset scale and shift the generated waveform.
	Amplitude float64
	Offset    float64
}

// Validate rejects a non-positive SampleCount.
func (c Config) Validate() error {
	if c.SampleCount <= 0 {
		return qrsterrors.InvalidParameterError("sample count must be > 0")
	}
	return nil
}

// DefaultConfig returns the standard sweep parameters over sampleCount samples.
func DefaultConfig(sampleCount int) Config {
	return Config{SampleCount: sampleCount, Amplitude: DefaultAmplitude, Offset: DefaultOffset}
}

// Sweep generates a sine wave whose angle increment is linearly interpolated
// from pi/2 down to pi/256 over its configured sample span -- a chirp from a
// very short wavelength down to a much longer one.
type Sweep struct {
	cfg          Config
	segmentSpan  float64
	angle        float64
	sampleNumber int
}

// NewSweep constructs a Sweep.
func NewSweep(cfg Config) (*Sweep, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sweep{cfg: cfg, segmentSpan: float64(cfg.SampleCount + 1)}, nil
}

// Next returns the next generated int16 sample, or an EndOfStream category
// error once SampleCount samples have been produced.
func (s *Sweep) Next() (int16, error) {
	if s.sampleNumber >= s.cfg.SampleCount {
		return 0, qrsterrors.Newf("sweep exhausted after %d samples", s.cfg.SampleCount).
			Component("signalgen").
			Category(qrsterrors.CategoryEndOfStream).
			Build()
	}

	withinSegment := float64(s.sampleNumber % int(s.segmentSpan))
	increment := (withinSegment*endingAngleIncrement + (s.segmentSpan-withinSegment)*startingAngleIncrement) / s.segmentSpan
	s.angle += increment

	value := s.cfg.Offset + s.cfg.Amplitude*math.Sin(s.angle)
	s.sampleNumber++

	return int16(value), nil
}

// Reset rewinds the sweep to its first sample.
func (s *Sweep) Reset() {
	s.angle = 0
	s.sampleNumber = 0
}
