// crossover.go optional overlap-crossover amplitude reduction (disabled by default)
package qrst

import "math"

// crossoverParams precomputes the thresholds and scale factors for the
// overlap-crossover amplitude reduction, gated behind
// Config.EnableCrossoverReduction and off by default.
type crossoverParams struct {
	highStart  float64
	highFactor float64
	lowStart   float64
	lowFactor  float64
	unit       float64
}

func newCrossoverParams(n int) *crossoverParams {
	fn := float64(n)
	highStart := math.Trunc(fn * 0.875 * fn)
	lowStart := math.Trunc(fn * 1.25 * fn)
	return &crossoverParams{
		highStart:  highStart,
		highFactor: fn / (highStart - math.Trunc(fn*0.625)),
		lowStart:   lowStart,
		lowFactor:  fn / (math.Trunc(fn*1.75) - lowStart),
		unit:       fn,
	}
}

// reduce applies the high-side and low-side overlap reductions in turn.
// Each side can only reduce amplitude toward zero, never increase it.
func (p *crossoverParams) reduce(wavelength int, amplitude float64) float64 {
	w := float64(wavelength)

	if w < p.highStart {
		reduction := math.Trunc((p.highStart - w) * p.highFactor / p.unit)
		switch {
		case reduction >= amplitude:
			return 0
		case reduction > 0:
			amplitude -= reduction
		}
	}
	if w > p.lowStart {
		reduction := math.Trunc((w - p.lowStart) * p.lowFactor / p.unit)
		switch {
		case reduction >= amplitude:
			return 0
		case reduction > 0:
			amplitude -= reduction
		}
	}
	return amplitude
}
