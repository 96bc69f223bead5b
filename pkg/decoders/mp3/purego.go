//go:build purego

// The default mp3.Decoder binds libmpg123 via cgo. When built with the
// purego tag, this file swaps in github.com/imcarsen/go-mp3 instead, a
// pure-Go MPEG decoder, for environments without a C toolchain.
package mp3

import (
	"fmt"
	"io"
	"os"

	puregomp3 "github.com/imcarsen/go-mp3"
)

// Decoder wraps imcarsen/go-mp3, a pure-Go MPEG Layer III decoder. It
// always produces 16-bit stereo PCM.
type Decoder struct {
	file    *os.File
	decoder *puregomp3.Decoder
	rate    int
}

// NewDecoder creates a new pure-Go MP3 decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens and initializes an MP3 file for decoding.
func (d *Decoder) Open(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", fileName, err)
	}

	decoder, err := puregomp3.NewDecoder(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to open mp3 stream: %w", err)
	}

	d.file = file
	d.decoder = decoder
	d.rate = decoder.SampleRate()

	return nil
}

// GetFormat returns the audio format (rate, channels, encoding).
func (d *Decoder) GetFormat() (int, int, int) {
	return d.rate, 2, 16
}

// DecodeSamples decodes up to samples frames of 16-bit stereo PCM.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.decoder == nil {
		return 0, fmt.Errorf("decoder not initialized")
	}

	bytesPerFrame := 2 * 2 // stereo, 16-bit
	want := samples * bytesPerFrame

	n, err := io.ReadFull(d.decoder, audio[:want])
	frames := n / bytesPerFrame
	if err == io.ErrUnexpectedEOF {
		return frames, io.EOF
	}
	return frames, err
}

// Close closes the decoder and the underlying file.
func (d *Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// DurationSeconds returns -1: the pure-Go decoder exposes no frame count.
func (d *Decoder) DurationSeconds() float64 {
	return -1
}

// Rate returns the sample rate in Hz.
func (d *Decoder) Rate() int {
	return d.rate
}

// Channels returns the number of audio channels (always 2).
func (d *Decoder) Channels() int {
	return 2
}

// Encoding returns the encoding format (bits per sample).
func (d *Decoder) Encoding() int {
	return 16
}
