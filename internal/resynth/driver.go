// driver.go wires a qrstfmt.Decoder into a Resynthesizer and an arbitrary
// sample sink, decoupling the decode/drive/flush loop from any one output
// transport (raw io.Writer, internal/pcm.Writer, a test slice, ...)
package resynth

import (
	"context"

	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/qrstfmt"
)

// RunStats summarizes a completed Run call.
type RunStats struct {
	RecordsApplied int
	Truncated      bool
}

// Run decodes records from dec, driving r's oscillator bank and passing each
// resulting sample to emit. A clean EndOfStream return from dec is not an
// error, and a TruncatedRecord return only sets RunStats.Truncated; in both
// cases the remaining oscillator decay is flushed to silence before
// returning. Run checks ctx before each record so a cancelled context stops
// the loop between records rather than mid-stream.
func Run(ctx context.Context, r *Resynthesizer, dec *qrstfmt.Decoder, emit func(int16) error) (RunStats, error) {
	var stats RunStats

	var emitErr error
	safeEmit := func(s int16) {
		if emitErr == nil {
			emitErr = emit(s)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		rec, err := dec.Next()
		if err != nil {
			if qrsterrors.IsCategory(err, qrsterrors.CategoryEndOfStream) {
				break
			}
			if qrsterrors.IsCategory(err, qrsterrors.CategoryTruncatedRecord) {
				stats.Truncated = true
				break
			}
			return stats, err
		}

		r.QueueDelay(rec.DeltaT)
		r.DrainDelay(safeEmit)
		if emitErr != nil {
			return stats, emitErr
		}

		// An amplitude byte of zero carries no update: it advances the
		// clock but never reaches the oscillator bank.
		if rec.Amplitude == 0 {
			continue
		}

		if err := r.ApplyRecord(rec); err != nil {
			if !qrsterrors.IsCategory(err, qrsterrors.CategoryUnknownOctaveOrChannel) {
				return stats, err
			}
			continue
		}
		stats.RecordsApplied++
	}

	r.FlushToSilence(safeEmit)
	if emitErr != nil {
		return stats, emitErr
	}

	return stats, nil
}
