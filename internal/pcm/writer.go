// writer.go sample-at-a-time writer over raw or WAV 16-bit PCM
package pcm

import (
	"encoding/binary"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/smallnest/ringbuffer"

	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
)

// Writer accepts one int16 sample per call to Write, buffering writes
// through a ring buffer before they reach the underlying sink.
type Writer struct {
	format Format
	dst    io.Writer
	rb     *ringbuffer.RingBuffer

	wavEncoder *wav.Encoder
	wavBuf     *audio.IntBuffer
}

// NewWriter wraps w, producing either raw headerless PCM or a WAV container
// depending on format. sampleRate is only meaningful for FormatWAV. WAV
// output must go to a seekable sink (a file): the encoder rewinds to patch
// the RIFF header on Close.
func NewWriter(w io.Writer, format Format, sampleRate int) (*Writer, error) {
	wr := &Writer{format: format, dst: w}

	if format != FormatWAV {
		wr.rb = ringbuffer.New(readChunkBytes)
		return wr, nil
	}

	ws, ok := w.(io.WriteSeeker)
	if !ok {
		return nil, qrsterrors.Newf("wav output requires a seekable writer").
			Component("pcm").
			Category(qrsterrors.CategoryAudioIO).
			Build()
	}

	const (
		bitDepth       = 16
		numChannels    = 1
		wavAudioFormat = 1 // PCM
	)
	wr.wavEncoder = wav.NewEncoder(ws, sampleRate, bitDepth, numChannels, wavAudioFormat)
	wr.wavBuf = &audio.IntBuffer{
		Data:   make([]int, 0, wavBufferFrames),
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: numChannels},
	}
	return wr, nil
}

// Write appends one sample.
func (w *Writer) Write(sample int16) error {
	if w.wavEncoder != nil {
		return w.writeWAV(sample)
	}
	return w.writeRaw(sample)
}

func (w *Writer) writeRaw(sample int16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(sample))
	if _, err := w.rb.Write(buf[:]); err != nil {
		return qrsterrors.New(err).
			Component("pcm").
			Category(qrsterrors.CategoryAudioIO).
			Build()
	}
	return w.drainRaw()
}

// drainRaw flushes whatever the ring buffer currently holds to the
// underlying sink, without blocking on a full chunk.
func (w *Writer) drainRaw() error {
	buf := make([]byte, readChunkBytes)
	for {
		n, err := w.rb.Read(buf)
		if n > 0 {
			if _, werr := w.dst.Write(buf[:n]); werr != nil {
				return qrsterrors.New(werr).
					Component("pcm").
					Category(qrsterrors.CategoryAudioIO).
					Build()
			}
		}
		if err != nil || n == 0 {
			return nil
		}
	}
}

func (w *Writer) writeWAV(sample int16) error {
	w.wavBuf.Data = append(w.wavBuf.Data, int(sample))
	if len(w.wavBuf.Data) < wavBufferFrames {
		return nil
	}
	return w.flushWAV()
}

func (w *Writer) flushWAV() error {
	if len(w.wavBuf.Data) == 0 {
		return nil
	}
	if err := w.wavEncoder.Write(w.wavBuf); err != nil {
		return qrsterrors.New(err).
			Component("pcm").
			Category(qrsterrors.CategoryAudioIO).
			Build()
	}
	w.wavBuf.Data = w.wavBuf.Data[:0]
	return nil
}

// Close flushes any buffered samples and, for WAV output, finalizes the
// RIFF header. Callers must call Close when done writing.
func (w *Writer) Close() error {
	if w.wavEncoder != nil {
		if err := w.flushWAV(); err != nil {
			return err
		}
		if err := w.wavEncoder.Close(); err != nil {
			return qrsterrors.New(err).
				Component("pcm").
				Category(qrsterrors.CategoryAudioIO).
				Build()
		}
		return nil
	}
	return w.drainRaw()
}
