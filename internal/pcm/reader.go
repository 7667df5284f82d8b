// reader.go sample-at-a-time reader over raw or WAV 16-bit PCM
package pcm

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/smallnest/ringbuffer"

	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
)

// Reader yields one int16 sample per call to Next, buffering reads from the
// underlying source through a ring buffer so the analyzer boundary never
// blocks on a short read.
type Reader struct {
	format Format
	src    io.Reader
	rb     *ringbuffer.RingBuffer

	wavDecoder *wav.Decoder
	wavBuf     *audio.IntBuffer
	wavPos     int
	wavLen     int
}

// NewReader wraps r, reading either raw headerless PCM or a WAV container
// depending on format. WAV input must come from a seekable source (a file or
// bytes.Reader): the RIFF decoder walks chunk offsets.
func NewReader(r io.Reader, format Format) (*Reader, error) {
	rd := &Reader{format: format, src: r}

	if format != FormatWAV {
		rd.rb = ringbuffer.New(readChunkBytes)
		return rd, nil
	}

	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, qrsterrors.Newf("wav input requires a seekable reader").
			Component("pcm").
			Category(qrsterrors.CategoryAudioIO).
			Build()
	}

	dec := wav.NewDecoder(rs)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, qrsterrors.Newf("input is not a valid WAV file").
			Component("pcm").
			Category(qrsterrors.CategoryAudioIO).
			Build()
	}
	if dec.BitDepth != 16 {
		return nil, qrsterrors.Newf("unsupported WAV bit depth %d, only 16-bit is supported", dec.BitDepth).
			Component("pcm").
			Category(qrsterrors.CategoryAudioIO).
			Build()
	}
	rd.wavDecoder = dec
	rd.wavBuf = &audio.IntBuffer{
		Data:   make([]int, wavBufferFrames),
		Format: &audio.Format{SampleRate: int(dec.SampleRate), NumChannels: int(dec.NumChans)},
	}
	return rd, nil
}

// Next returns the next sample, or an EndOfStream category error at EOF.
func (r *Reader) Next() (int16, error) {
	if r.wavDecoder != nil {
		return r.nextWAV()
	}
	return r.nextRaw()
}

func (r *Reader) nextRaw() (int16, error) {
	var buf [2]byte
	if err := r.readExact(buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

func (r *Reader) nextWAV() (int16, error) {
	if r.wavPos >= r.wavLen {
		n, err := r.wavDecoder.PCMBuffer(r.wavBuf)
		if err != nil {
			return 0, qrsterrors.New(err).
				Component("pcm").
				Category(qrsterrors.CategoryAudioIO).
				Build()
		}
		if n == 0 {
			return 0, qrsterrors.New(io.EOF).
				Component("pcm").
				Category(qrsterrors.CategoryEndOfStream).
				Build()
		}
		r.wavLen = n
		r.wavPos = 0
	}
	sample := int16(r.wavBuf.Data[r.wavPos])
	r.wavPos++
	return sample, nil
}

// readExact fills buf completely from the ring buffer, refilling it from src
// in readChunkBytes chunks as needed.
func (r *Reader) readExact(buf []byte) error {
	filled := 0
	for filled < len(buf) {
		n, err := r.rb.Read(buf[filled:])
		filled += n
		if filled == len(buf) {
			return nil
		}
		if err != nil && !errors.Is(err, ringbuffer.ErrIsEmpty) {
			return qrsterrors.New(err).
				Component("pcm").
				Category(qrsterrors.CategoryAudioIO).
				Build()
		}

		chunk := make([]byte, readChunkBytes)
		m, rerr := r.src.Read(chunk)
		if m > 0 {
			if _, werr := r.rb.Write(chunk[:m]); werr != nil {
				return qrsterrors.New(werr).
					Component("pcm").
					Category(qrsterrors.CategoryAudioIO).
					Build()
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) && filled == 0 {
				return qrsterrors.New(io.EOF).
					Component("pcm").
					Category(qrsterrors.CategoryEndOfStream).
					Build()
			}
			if errors.Is(rerr, io.EOF) {
				return qrsterrors.New(io.ErrUnexpectedEOF).
					Component("pcm").
					Category(qrsterrors.CategoryTruncatedRecord).
					Build()
			}
			return qrsterrors.New(rerr).
				Component("pcm").
				Category(qrsterrors.CategoryAudioIO).
				Build()
		}
	}
	return nil
}
