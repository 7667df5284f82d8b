// decoder.go compressed-stream reader
package qrstfmt

import (
	"bufio"
	"errors"
	"io"

	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
)

// Decoder reads Records from the compressed wire format, transparently
// accumulating delay across any number of 0xFF-prefixed escape blocks ahead
// of a normal 4-byte update.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r in a buffered Decoder.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next reads and returns the next Record. It returns the EndOfStream
// category error at a clean stream boundary, and TruncatedRecord if the
// stream ends in the middle of a record.
func (d *Decoder) Next() (Record, error) {
	var pending uint32

	for {
		b1, err := d.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if pending != 0 {
					return Record{}, qrsterrors.New(io.ErrUnexpectedEOF).
						Component("qrstfmt").
						Category(qrsterrors.CategoryTruncatedRecord).
						Build()
				}
				return Record{}, qrsterrors.New(io.EOF).
					Component("qrstfmt").
					Category(qrsterrors.CategoryEndOfStream).
					Build()
			}
			return Record{}, err
		}

		if b1 != 0xFF {
			rest := make([]byte, 3)
			if _, err := io.ReadFull(d.r, rest); err != nil {
				return Record{}, qrsterrors.New(err).
					Component("qrstfmt").
					Category(qrsterrors.CategoryTruncatedRecord).
					Build()
			}
			channel, octave := splitCO(rest[0])
			return Record{
				DeltaT:     pending + uint32(b1),
				Channel:    channel,
				Octave:     octave,
				Wavelength: rest[1],
				Amplitude:  rest[2],
			}, nil
		}

		b2, err := d.r.ReadByte()
		if err != nil {
			return Record{}, qrsterrors.New(err).
				Component("qrstfmt").
				Category(qrsterrors.CategoryTruncatedRecord).
				Build()
		}
		if b2 != 0xFF {
			pending += uint32(b2) * 256
			continue
		}

		b3, err := d.r.ReadByte()
		if err != nil {
			return Record{}, qrsterrors.New(err).
				Component("qrstfmt").
				Category(qrsterrors.CategoryTruncatedRecord).
				Build()
		}
		pending += uint32(b3) * 65536
	}
}
