// Package vorbis wraps github.com/jfreymuth/oggvorbis (itself built on
// github.com/jfreymuth/vorbis's pure-Go codec) to satisfy types.AudioDecoder
// and types.Seeker. oggvorbis decodes straight to normalized float32 samples;
// this wrapper widens them to the session's native 32-bit integer PCM.
package vorbis

import (
	"fmt"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

const maxInt32Scale = 2147483647.0

// Decoder wraps an oggvorbis.Reader opened over a random-access file, which
// is what gives it seek and a known duration that the streaming oggvorbis.NewReader
// constructor can't provide.
type Decoder struct {
	file     *os.File
	reader   *oggvorbis.Reader
	rate     int
	channels int
	floatBuf []float32
}

// NewDecoder creates a new Ogg Vorbis decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens and initializes an Ogg Vorbis file for decoding.
func (d *Decoder) Open(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", fileName, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat file %s: %w", fileName, err)
	}

	reader, err := oggvorbis.NewReaderAt(file, info.Size())
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to open vorbis stream: %w", err)
	}

	d.file = file
	d.reader = reader
	d.rate = reader.SampleRate()
	d.channels = reader.Channels()

	return nil
}

// GetFormat returns the audio format (rate, channels, bits per sample).
// Samples are widened to full-scale 32-bit integers on decode.
func (d *Decoder) GetFormat() (int, int, int) {
	return d.rate, d.channels, 32
}

// DecodeSamples decodes up to samples frames into audio as packed
// little-endian 32-bit signed PCM.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.reader == nil {
		return 0, fmt.Errorf("decoder not initialized")
	}

	need := samples * d.channels
	if cap(d.floatBuf) < need {
		d.floatBuf = make([]float32, need)
	}
	buf := d.floatBuf[:need]

	n, err := d.reader.Read(buf)
	if n == 0 {
		return 0, err
	}

	frames := n / d.channels
	for i := 0; i < n; i++ {
		v := int32(buf[i] * maxInt32Scale)
		off := i * 4
		audio[off] = byte(v)
		audio[off+1] = byte(v >> 8)
		audio[off+2] = byte(v >> 16)
		audio[off+3] = byte(v >> 24)
	}

	if err != nil {
		return frames, err
	}
	return frames, nil
}

// Close closes the underlying file.
func (d *Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// DurationSeconds returns the track length derived from the stream's total
// sample count.
func (d *Decoder) DurationSeconds() float64 {
	if d.reader == nil || d.rate <= 0 {
		return -1
	}
	return float64(d.reader.Length()) / float64(d.rate)
}

// SeekSeconds repositions decoding to t seconds from the start of the track.
func (d *Decoder) SeekSeconds(t float64) error {
	if d.reader == nil {
		return fmt.Errorf("decoder not initialized")
	}
	if t < 0 {
		t = 0
	}
	return d.reader.SetPosition(int64(t * float64(d.rate)))
}

// Rate returns the sample rate in Hz.
func (d *Decoder) Rate() int {
	return d.rate
}

// Channels returns the number of audio channels.
func (d *Decoder) Channels() int {
	return d.channels
}

// BitsPerSample returns the bits per sample of the widened output.
func (d *Decoder) BitsPerSample() int {
	return 32
}
