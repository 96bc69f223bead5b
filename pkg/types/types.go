package types

import (
	"errors"
	"fmt"
)

// AudioDecoder is the common interface every format decoder implements
// (MP3, FLAC, WAV, Opus, Vorbis, or a custom streaming provider). The
// decode session drives a decoder through this interface without caring
// which codec backs it.
type AudioDecoder interface {
	// Open opens an audio source for decoding
	Open(fileName string) error

	// Close closes the decoder and releases resources
	Close() error

	// GetFormat returns the audio format information
	// Returns: sample rate (Hz), channels (1=mono, 2=stereo), bits per sample (8/16/24/32)
	GetFormat() (rate, channels, bitsPerSample int)

	// DecodeSamples decodes audio samples into the provided buffer
	// Parameters:
	//   samples: number of samples to decode (not bytes!)
	//   audio: buffer to write decoded audio data
	// Returns: number of samples actually decoded, error if decoding failed
	// Note: Buffer must be large enough: samples * channels * (bitsPerSample/8) bytes
	DecodeSamples(samples int, audio []byte) (int, error)

	// DurationSeconds returns the total duration of the source, or a
	// value <= 0 if unknown (e.g. a live stream).
	DurationSeconds() float64
}

// Seeker is implemented by decoders that can reposition without a full
// reopen-and-discard. Decoders that don't implement it are seeked by the
// decode session closing, reopening at the start, and decoding-and-discarding
// up to the target.
type Seeker interface {
	SeekSeconds(t float64) error
}

// PlaybackStatus holds unified playback information for audio players.
// This struct provides real-time metrics for monitoring audio playback.
type PlaybackStatus struct {
	FileName      string // Name of the currently loaded track
	SampleRate    int    // Device sample rate in Hz
	Channels      int    // Number of audio channels (1=mono, 2=stereo)
	BitsPerSample int    // Bit depth of the PCM the player delivers (8, 16, 24, or 32)
	PlayedSamples uint64 // Samples actually sent to the audio device
	TotalSamples  uint64 // Samples in the full track at device rate, 0 if unknown
}

// PlaybackMonitor is an interface for types that can report playback status.
// Implementing this interface allows consistent status monitoring across
// different player implementations.
type PlaybackMonitor interface {
	GetPlaybackStatus() PlaybackStatus
}

// Common FIFO errors, used by the bounded interleaved-PCM ring.
// These errors enable consistent error handling and comparison using errors.Is().
var (
	// ErrInsufficientSpace indicates the FIFO doesn't have enough space for the write operation
	ErrInsufficientSpace = errors.New("insufficient space in fifo")

	// ErrInsufficientData indicates the FIFO doesn't have enough data for the read operation
	ErrInsufficientData = errors.New("insufficient data in fifo")
)

// PlayerError is the opaque numeric error code surfaced to callers for
// initialization failures (device open, codec open, resampler
// configuration) per the error taxonomy. Callers branch on Code, not on
// the message text.
type PlayerError struct {
	Code int
	Op   string
	Err  error
}

func (e *PlayerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("player error %d (%s): %v", e.Code, e.Op, e.Err)
	}
	return fmt.Sprintf("player error %d (%s)", e.Code, e.Op)
}

func (e *PlayerError) Unwrap() error { return e.Err }

// Initialization error codes (spec section 7: "a single opaque numeric code").
const (
	ErrCodeDeviceInit     = 1
	ErrCodeSourceOpen     = 2
	ErrCodeCodecOpen      = 3
	ErrCodeResamplerSetup = 4
	ErrCodeUnsupported    = 5
)

// NewPlayerError wraps err (if any) into an initialization PlayerError.
func NewPlayerError(code int, op string, err error) error {
	return &PlayerError{Code: code, Op: op, Err: err}
}
