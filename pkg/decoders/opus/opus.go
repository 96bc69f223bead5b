// Package opus wraps github.com/drgolem/go-opus to satisfy types.AudioDecoder,
// mirroring the shape of the sibling flac and mp3 wrappers (same author, same
// Open/GetFormat/DecodeSamples/Close binding style).
package opus

import (
	"fmt"

	"github.com/drgolem/go-opus/opus"
)

// Decoder wraps go-opus for decoding Ogg-Opus files.
type Decoder struct {
	decoder  *opus.OpusDecoder
	rate     int
	channels int
}

// NewDecoder creates a new Opus decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens and initializes an Opus file for decoding.
func (d *Decoder) Open(fileName string) error {
	decoder, err := opus.NewOpusDecoder()
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Open(fileName); err != nil {
		decoder.Delete()
		return fmt.Errorf("failed to open file %s: %w", fileName, err)
	}

	rate, channels := decoder.GetFormat()

	d.decoder = decoder
	d.rate = rate
	d.channels = channels

	return nil
}

// GetFormat returns the audio format (rate, channels, bits per sample).
// Opus always decodes to 16-bit PCM internally.
func (d *Decoder) GetFormat() (int, int, int) {
	return d.rate, d.channels, 16
}

// DecodeSamples decodes the specified number of samples into audio.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.decoder == nil {
		return 0, fmt.Errorf("decoder not initialized")
	}
	return d.decoder.DecodeSamples(samples, audio)
}

// Close closes the decoder and releases resources.
func (d *Decoder) Close() error {
	if d.decoder != nil {
		d.decoder.Close()
		d.decoder.Delete()
		d.decoder = nil
	}
	return nil
}

// DurationSeconds returns -1: the binding exposes no granule-position
// lookup, so Opus duration is unknown until decode exhausts the stream.
func (d *Decoder) DurationSeconds() float64 {
	return -1
}

// Rate returns the sample rate in Hz.
func (d *Decoder) Rate() int {
	return d.rate
}

// Channels returns the number of audio channels.
func (d *Decoder) Channels() int {
	return d.channels
}

// BitsPerSample returns the bits per sample.
func (d *Decoder) BitsPerSample() int {
	return 16
}
