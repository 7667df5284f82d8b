// analyzer.go public QRST analyzer API
package qrst

import (
	"github.com/google/uuid"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
)

// Config parameterizes an Analyzer.
type Config struct {
	// NumOctaves selects how many octaves, counting down from octave 15, are
	// actively computed (octaves 15-NumOctaves+1 through 15); octave 15 is
	// always computed. Must be in [1,15].
	NumOctaves int
	// N is the emission cadence in octave-local samples. Must be >= 8.
	N int
	// EnableCrossoverReduction turns on the overlap-crossover amplitude
	// reduction. Off by default.
	EnableCrossoverReduction bool
}

// Validate checks N and NumOctaves against their accepted bounds,
// returning an InvalidParameter error on violation.
func (c Config) Validate() error {
	if c.N < conf.MinEmissionCadence {
		return qrsterrors.InvalidParameterError("N must be >= 8")
	}
	if c.NumOctaves < conf.MinNumOctaves || c.NumOctaves > conf.MaxNumOctaves {
		return qrsterrors.InvalidParameterError("numOctaves must be in [1,15]")
	}
	return nil
}

// Analyzer is a streaming, single-threaded, single-caller QRST cascade.
// Process must be called in strict monotonic sample order; the Analyzer
// owns all of its state exclusively and shares nothing across instances.
type Analyzer struct {
	id         string
	cfg        Config
	xover      *crossoverParams
	st         *state
	needsReset bool
}

// NewAnalyzer constructs an Analyzer. Windows are filled lazily with the
// first sample seen by Process so startup never injects a spike.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Analyzer{
		id:  uuid.NewString(),
		cfg: cfg,
		st:  newState(),
	}
	if cfg.EnableCrossoverReduction {
		a.xover = newCrossoverParams(cfg.N)
	}
	metricAnalyzersCreated.Inc()
	return a, nil
}

// ID returns the Analyzer's unique instance identifier, which callers attach
// to their log lines to tell Analyzers apart when more than one runs in a
// process. The package's metrics carry no instance label.
func (a *Analyzer) ID() string {
	return a.id
}

// Reconfigure changes N and/or NumOctaves. A change to either one takes
// effect on the next call to Process, which resets the time counter, refills
// every window with the sample it receives, and zeroes the adjustment arrays
// and accumulators.
// Toggling
// EnableCrossoverReduction alone does not reset any state — it only affects
// reporter output going forward, so a reset would discard good data for no
// reason.
func (a *Analyzer) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	needsReset := cfg.NumOctaves != a.cfg.NumOctaves || cfg.N != a.cfg.N
	a.cfg = cfg
	if cfg.EnableCrossoverReduction {
		a.xover = newCrossoverParams(cfg.N)
	} else {
		a.xover = nil
	}
	if needsReset {
		a.needsReset = true
		metricReconfigures.Inc()
	}
	return nil
}

// Process consumes exactly one input sample and returns zero or more
// reports, one per octave whose reporter fired on this tick.
func (a *Analyzer) Process(sample int16) []Report {
	s := a.st
	value := int64(sample)

	if !s.notFirst || a.needsReset {
		s.notFirst = true
		a.needsReset = false
		s.resetWith(value)
	}

	lowestOctave := conf.TopOctave - a.cfg.NumOctaves + 1
	reports := s.advance(value, lowestOctave, a.cfg, a.xover)

	metricSamplesProcessed.Inc()
	metricReportsEmitted.Add(float64(len(reports)))

	return reports
}
