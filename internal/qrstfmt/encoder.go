// encoder.go compressed-stream writer
package qrstfmt

import (
	"bufio"
	"io"
)

// Encoder writes Records to the bit-exact compressed wire format: a delta-t
// byte (with 0xFF-prefixed escapes for delays too large to fit in one byte),
// followed by co/wavelength/amplitude bytes.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder wraps w in a buffered Encoder. Callers must call Flush when done.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Write emits one Record. rec.DeltaT is decomposed into as many 0xFF-
// prefixed escape blocks as needed (each adding e*65536 or e*256 to the
// pending delay) until the remainder fits in a single literal byte in
// [0, 0xFE].
func (e *Encoder) Write(rec Record) error {
	remaining := rec.DeltaT

	for remaining >= 0xFF*65536 {
		if err := e.escape3(0xFE); err != nil {
			return err
		}
		remaining -= 0xFE * 65536
	}
	if remaining >= 65536 {
		chunk := remaining / 65536
		if err := e.escape3(byte(chunk)); err != nil {
			return err
		}
		remaining -= chunk * 65536
	}

	for remaining >= 0xFF*256 {
		if err := e.escape2(0xFE); err != nil {
			return err
		}
		remaining -= 0xFE * 256
	}
	if remaining >= 256 {
		chunk := remaining / 256
		if err := e.escape2(byte(chunk)); err != nil {
			return err
		}
		remaining -= chunk * 256
	}

	// remaining is now < 256. A literal delta byte of exactly 0xFF would be
	// indistinguishable from an escape prefix, so shave one tick off with a
	// repeated (idempotent) update record first.
	if remaining == 0xFF {
		if err := e.writeRecord(0xFE, rec); err != nil {
			return err
		}
		remaining = 1
	}

	return e.writeRecord(byte(remaining), rec)
}

func (e *Encoder) escape3(v byte) error {
	_, err := e.w.Write([]byte{0xFF, 0xFF, v})
	return err
}

func (e *Encoder) escape2(v byte) error {
	_, err := e.w.Write([]byte{0xFF, v})
	return err
}

func (e *Encoder) writeRecord(delta byte, rec Record) error {
	buf := [4]byte{delta, co(rec.Channel, rec.Octave), rec.Wavelength, rec.Amplitude}
	_, err := e.w.Write(buf[:])
	return err
}

// Flush pushes any buffered bytes to the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}
