package wav

import (
	"fmt"
	"io"
	"os"

	"github.com/youpy/go-wav"
)

// Decoder wraps go-wav for decoding WAV audio files.
// Implements types.AudioDecoder and types.Seeker: WAV's PCM data is
// uncompressed and fixed-rate, so a seek is pure byte math rather than the
// reopen-and-skip-decode fallback the compressed formats need.
type Decoder struct {
	fileName   string
	file       *os.File
	reader     *wav.Reader
	rate       int
	channels   int
	bps        int
	format     uint16
	dataOffset int64 // byte offset of the first PCM sample in the file
	dataSize   int64 // bytes of PCM data
}

// NewDecoder creates a new WAV decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens a WAV file for decoding
func (d *Decoder) Open(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("failed to open WAV file: %w", err)
	}

	reader := wav.NewReader(file)
	format, err := reader.Format()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to read WAV format: %w", err)
	}

	// Validate format
	if format.AudioFormat != wav.AudioFormatPCM {
		file.Close()
		return fmt.Errorf("unsupported WAV format: %d (only PCM supported)", format.AudioFormat)
	}

	// go-wav's Format() call parses only the RIFF/fmt header and leaves the
	// reader positioned at the start of the data subchunk, so the current
	// file offset is the byte address of sample zero.
	dataOffset, err := file.Seek(0, io.SeekCurrent)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to locate WAV data chunk: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat WAV file: %w", err)
	}

	d.fileName = fileName
	d.file = file
	d.reader = reader
	d.rate = int(format.SampleRate)
	d.channels = int(format.NumChannels)
	d.bps = int(format.BitsPerSample)
	d.format = format.AudioFormat
	d.dataOffset = dataOffset
	d.dataSize = info.Size() - dataOffset

	return nil
}

// DurationSeconds returns the track length computed from the PCM data
// chunk's byte size and the fixed frame rate.
func (d *Decoder) DurationSeconds() float64 {
	bytesPerFrame := d.channels * (d.bps / 8)
	if bytesPerFrame <= 0 || d.rate <= 0 {
		return -1
	}
	totalFrames := d.dataSize / int64(bytesPerFrame)
	return float64(totalFrames) / float64(d.rate)
}

// SeekSeconds repositions decoding to t seconds from the start of the
// track. WAV's PCM payload is fixed-rate and uncompressed, so this is a
// direct file seek rather than a decode-and-discard skip.
func (d *Decoder) SeekSeconds(t float64) error {
	if d.file == nil {
		return fmt.Errorf("decoder not initialized")
	}
	if t < 0 {
		t = 0
	}

	bytesPerFrame := int64(d.channels * (d.bps / 8))
	frameOffset := int64(t * float64(d.rate))
	byteOffset := frameOffset * bytesPerFrame
	if byteOffset > d.dataSize {
		byteOffset = d.dataSize
	}

	if _, err := d.file.Seek(d.dataOffset+byteOffset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek WAV file: %w", err)
	}

	// go-wav's Reader keeps no header state past construction, so a fresh
	// reader over the repositioned file resumes sample-at-a-time decoding
	// exactly where the seek left off.
	d.reader = wav.NewReader(d.file)
	return nil
}

// Close closes the WAV file
func (d *Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// GetFormat returns the audio format (sample rate, channels, bits per sample)
func (d *Decoder) GetFormat() (rate, channels, bitsPerSample int) {
	return d.rate, d.channels, d.bps
}

// DecodeSamples decodes up to 'samples' audio samples into the provided buffer
//
// Parameters:
//   - samples: number of samples to decode (not bytes)
//   - audio: buffer to write decoded audio data
//
// Returns:
//   - number of samples actually decoded
//   - error if any
//
// The buffer must be large enough to hold: samples * channels * (bitsPerSample/8) bytes
//
// Example:
//
//	decoder.DecodeSamples(1024, buffer)  // Decode 1024 samples
//	bytesWritten := samplesRead * channels * (bitsPerSample/8)
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.reader == nil {
		return 0, fmt.Errorf("decoder not initialized")
	}

	bytesPerSample := d.bps / 8
	totalSamples := 0

	// Read samples one at a time (go-wav reads sample by sample)
	for i := 0; i < samples; i++ {
		samplesData, err := d.reader.ReadSamples(1)
		if err != nil {
			// End of file or error
			return totalSamples, err
		}

		if len(samplesData) == 0 {
			// No more data
			return totalSamples, nil
		}

		// Convert samples to bytes and write to buffer
		// go-wav returns samples as []wav.Sample which contains IntValue for each channel
		for ch := 0; ch < d.channels; ch++ {
			if ch >= len(samplesData[0].Values) {
				break
			}

			value := samplesData[0].Values[ch]
			offset := (totalSamples*d.channels + ch) * bytesPerSample

			// Check buffer bounds
			if offset+bytesPerSample > len(audio) {
				return totalSamples, nil
			}

			// Write sample bytes (little-endian)
			switch d.bps {
			case 8:
				audio[offset] = byte(value)
			case 16:
				audio[offset] = byte(value & 0xFF)
				audio[offset+1] = byte((value >> 8) & 0xFF)
			case 24:
				audio[offset] = byte(value & 0xFF)
				audio[offset+1] = byte((value >> 8) & 0xFF)
				audio[offset+2] = byte((value >> 16) & 0xFF)
			case 32:
				audio[offset] = byte(value & 0xFF)
				audio[offset+1] = byte((value >> 8) & 0xFF)
				audio[offset+2] = byte((value >> 16) & 0xFF)
				audio[offset+3] = byte((value >> 24) & 0xFF)
			default:
				return totalSamples, fmt.Errorf("unsupported bits per sample: %d", d.bps)
			}
		}

		totalSamples++
	}

	return totalSamples, nil
}
