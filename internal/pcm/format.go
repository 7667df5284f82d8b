// format.go shared raw/WAV PCM container selection
package pcm

// Format selects the container a Reader/Writer speaks.
type Format string

const (
	// FormatRaw is headerless little-endian signed 16-bit PCM, the
	// analyzer's native wire format.
	FormatRaw Format = "raw"
	// FormatWAV is a RIFF/WAVE container, for interoperability with
	// standard playback tools.
	FormatWAV Format = "wav"

	readChunkBytes  = 4096
	wavBufferFrames = 1024
)
