// conf/consts.go hard coded constants for the QRST cascade
package conf

const (
	// NumOctavesTotal is the total number of octave slots in the cascade (0..15).
	NumOctavesTotal = 16
	// TopOctave is the highest octave index, updated on every input sample.
	TopOctave = 15
	// NumTracks is the number of interleaved tracks per octave below TopOctave.
	NumTracks = 2

	// WindowDepth bounds how far back the detector looks for a recent
	// peak/trough pair; WindowSize is the full sliding-window length.
	WindowDepth = 12
	WindowSize  = 8 + WindowDepth

	// MinEmissionCadence is the smallest accepted value of N.
	MinEmissionCadence = 8
	// DefaultEmissionCadence is the default N.
	DefaultEmissionCadence = 24

	// MinNumOctaves and MaxNumOctaves bound the numOctaves configuration parameter.
	MinNumOctaves = 1
	MaxNumOctaves = 15

	// WavelengthMin and WavelengthMax bound a canonical emitted wavelength.
	WavelengthMin    = 64
	WavelengthMax    = 255
	WavelengthCenter = 128

	// NumResynthOctaves is the count of oscillators driven by the resynthesizer (octaves 1..15).
	NumResynthOctaves = 15

	// CycleDistanceAtCenter is the peak-to-peak distance (of {2,3,4}) that
	// corresponds to the center of an octave's wavelength range.
	CycleDistanceAtCenter = 3
)
