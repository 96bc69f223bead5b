// Package session owns everything needed to turn one compressed media file
// into device-rate PCM: the open decoder, the format-normalizer (pkg/pcmconv)
// and the high-quality rate resampler (github.com/zaf/resample, a libsoxr
// binding), plus the decode-loop that drives them (spec section 4.2). It is
// grounded directly on the teacher's cmd/transform.go, which shows the only
// example in the pack of driving github.com/zaf/resample end to end.
package session

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync/atomic"

	soxr "github.com/zaf/resample"

	"github.com/libaurex/aurex/pkg/decoders"
	"github.com/libaurex/aurex/pkg/fifo"
	"github.com/libaurex/aurex/pkg/pcmconv"
	"github.com/libaurex/aurex/pkg/quality"
	"github.com/libaurex/aurex/pkg/types"
)

// decodeChunkFrames is the number of source frames pulled from the decoder
// per iteration of the decode loop.
const decodeChunkFrames = 4096

// Session owns one open decoder and the resampler chain that normalizes its
// output to packed 32-bit stereo PCM at deviceRate. It is created by the
// first Start for a path and superseded, never mutated across paths, by the
// next one (spec section 3: "Decoder session").
type Session struct {
	decoder    types.AudioDecoder
	path       string
	sourceRate int
	channels   int
	bps        int
	deviceRate int
	quality    quality.ResamplingQuality

	resampler *soxr.Resampler
	sink      *bytes.Buffer

	cancelled atomic.Bool

	decodeBuf []byte // raw decoder output, source format

	durationSeconds float64
	totalSamples    int64 // at device rate, -1 if unknown
}

// Open opens path with the format-appropriate decoder and configures the
// format-normalizer and rate resampler chain to deviceRate (spec section
// 4.2: "Initialization").
func Open(path string, deviceRate int, q quality.ResamplingQuality) (*Session, error) {
	decoder, err := decoders.NewDecoder(path)
	if err != nil {
		return nil, types.NewPlayerError(types.ErrCodeSourceOpen, "session.Open", err)
	}

	rate, channels, bps := decoder.GetFormat()

	s := &Session{
		decoder:    decoder,
		path:       path,
		sourceRate: rate,
		channels:   channels,
		bps:        bps,
		deviceRate: deviceRate,
		quality:    q,
	}

	if err := s.newResampler(); err != nil {
		decoder.Close()
		return nil, types.NewPlayerError(types.ErrCodeResamplerSetup, "session.Open", err)
	}

	s.durationSeconds = decoder.DurationSeconds()
	if s.durationSeconds > 0 {
		s.totalSamples = int64(s.durationSeconds * float64(deviceRate))
	} else {
		s.totalSamples = -1
	}

	slog.Info("session opened",
		"path", path,
		"source_rate", rate,
		"channels", channels,
		"bits_per_sample", bps,
		"device_rate", deviceRate,
		"quality", q.String(),
		"duration_seconds", s.durationSeconds)

	return s, nil
}

// NewFromProvider builds a session over a streaming source (a stream.StreamDecoder
// or any other types.AudioDecoder that isn't backed by a file path). This
// serves embeddings that want to feed the engine from something other than
// a path on disk.
func NewFromProvider(decoder types.AudioDecoder, deviceRate int, q quality.ResamplingQuality) (*Session, error) {
	rate, channels, bps := decoder.GetFormat()
	s := &Session{
		decoder:    decoder,
		sourceRate: rate,
		channels:   channels,
		bps:        bps,
		deviceRate: deviceRate,
		quality:    q,
	}
	if err := s.newResampler(); err != nil {
		return nil, types.NewPlayerError(types.ErrCodeResamplerSetup, "session.NewFromProvider", err)
	}
	s.durationSeconds = decoder.DurationSeconds()
	if s.durationSeconds > 0 {
		s.totalSamples = int64(s.durationSeconds * float64(deviceRate))
	} else {
		s.totalSamples = -1
	}
	return s, nil
}

func (s *Session) newResampler() error {
	s.sink = &bytes.Buffer{}
	r, err := soxr.New(s.sink, float64(s.sourceRate), float64(s.deviceRate), fifo.Channels, soxr.I32, s.quality.SoxrQuality())
	if err != nil {
		return fmt.Errorf("failed to create rate resampler: %w", err)
	}
	s.resampler = r
	return nil
}

// DurationSeconds returns the track duration, or -1 if unknown.
func (s *Session) DurationSeconds() float64 {
	return s.durationSeconds
}

// TotalSamples returns the track length in device-rate frames, or -1 if
// unknown.
func (s *Session) TotalSamples() int64 {
	return s.totalSamples
}

// SourceRate returns the decoder's native sample rate.
func (s *Session) SourceRate() int {
	return s.sourceRate
}

// Prime pushes one second (at source rate) of silence through the rate
// resampler and discards the output, per spec section 4.2: avoids
// transient artifacts from the polyphase filter's empty history at
// higher-quality recipes.
func (s *Session) Prime() error {
	silence := make([]int32, s.sourceRate*fifo.Channels)
	if err := s.writeToResampler(silence); err != nil {
		return fmt.Errorf("failed to prime resampler: %w", err)
	}
	s.sink.Reset()
	return nil
}

// Cancel preempts the decode loop at the top of its next packet iteration.
// Used by seek to stop the loop without discarding the decoder's open
// handle (spec section 4.2 point 1, section 9 "Cancellation").
func (s *Session) Cancel() {
	s.cancelled.Store(true)
}

// ClearCancel clears the cancellation flag, re-arming the decode loop for
// Resume.
func (s *Session) ClearCancel() {
	s.cancelled.Store(false)
}

// Flush discards the resampler's internal history and recreates it. Called
// after seek, where the demuxer position jumps discontinuously and stale
// filter history would audibly smear the first frames.
func (s *Session) Flush() error {
	if s.resampler != nil {
		s.resampler.Close()
	}
	if err := s.newResampler(); err != nil {
		return fmt.Errorf("failed to flush resampler: %w", err)
	}
	return nil
}

// SeekSeconds repositions the decoder to t seconds from the start of the
// track, via types.Seeker when the decoder implements it, or by reopening
// and decoding-and-discarding up to the target otherwise (spec section 9,
// "Seek mechanism" decision).
func (s *Session) SeekSeconds(t float64) error {
	if seeker, ok := s.decoder.(types.Seeker); ok {
		return seeker.SeekSeconds(t)
	}

	if err := s.decoder.Close(); err != nil {
		slog.Warn("seek: error closing decoder before reopen", "error", err)
	}

	decoder, err := decoders.NewDecoder(s.path)
	if err != nil {
		return fmt.Errorf("seek: failed to reopen %s: %w", s.path, err)
	}
	s.decoder = decoder

	discard := make([]byte, decodeChunkFrames*s.channels*(s.bps/8))
	framesToSkip := int(t * float64(s.sourceRate))
	for framesToSkip > 0 {
		want := decodeChunkFrames
		if want > framesToSkip {
			want = framesToSkip
		}
		n, derr := decoder.DecodeSamples(want, discard)
		if n == 0 || derr != nil {
			break
		}
		framesToSkip -= n
	}
	return nil
}

// Close releases the decoder and resampler.
func (s *Session) Close() error {
	if s.resampler != nil {
		s.resampler.Close()
	}
	return s.decoder.Close()
}

// RunDecodeLoop drives the decode loop (spec section 4.2) until one of:
// the cancellation flag is observed (returns with eof untouched, preserving
// position for Resume), f holds at least targetFrames frames, or the
// decoder returns no frames or an error (eof is set true). It never blocks
// or spins waiting on FIFO space: frames that do not fit on a short FIFO
// write are dropped and the loop proceeds to its next size check.
func (s *Session) RunDecodeLoop(f *fifo.FIFO, eof *atomic.Bool, targetFrames int) error {
	bytesPerSourceFrame := s.channels * (s.bps / 8)
	if cap(s.decodeBuf) < decodeChunkFrames*bytesPerSourceFrame {
		s.decodeBuf = make([]byte, decodeChunkFrames*bytesPerSourceFrame)
	}

	for {
		if s.cancelled.Load() {
			return nil
		}
		if f.Size() >= targetFrames {
			return nil
		}

		n, err := s.decoder.DecodeSamples(decodeChunkFrames, s.decodeBuf)
		if n > 0 {
			if writeErr := s.processChunk(f, n); writeErr != nil {
				slog.Warn("decode loop: error normalizing/resampling chunk", "path", s.path, "error", writeErr)
			}
		}

		if err != nil {
			eof.Store(true)
			slog.Info("decode loop reached end of stream", "path", s.path)
			return nil
		}
		if n == 0 {
			eof.Store(true)
			return nil
		}
	}
}

// processChunk normalizes n decoded source frames to packed stereo int32,
// feeds them through the rate resampler, and writes whatever comes out into
// f. A short FIFO write (f is near its target) is tolerated silently: the
// caller re-checks f.Size() on its next loop iteration.
func (s *Session) processChunk(f *fifo.FIFO, n int) error {
	normalized, err := pcmconv.ToStereoInt32(s.decodeBuf[:n*s.channels*(s.bps/8)], n, s.channels, s.bps)
	if err != nil {
		return fmt.Errorf("format normalizer: %w", err)
	}

	if err := s.writeToResampler(normalized); err != nil {
		return fmt.Errorf("rate resampler: %w", err)
	}

	out := bytesToInt32(s.sink.Bytes())
	s.sink.Reset()
	if len(out) > 0 {
		f.Write(out)
	}
	return nil
}

func (s *Session) writeToResampler(frames []int32) error {
	raw := int32SliceToBytes(frames)
	_, err := s.resampler.Write(raw)
	return err
}

func int32SliceToBytes(samples []int32) []byte {
	out := make([]byte, len(samples)*4)
	for i, v := range samples {
		off := i * 4
		out[off] = byte(v)
		out[off+1] = byte(v >> 8)
		out[off+2] = byte(v >> 16)
		out[off+3] = byte(v >> 24)
	}
	return out
}

func bytesToInt32(b []byte) []int32 {
	n := len(b) / 4
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		off := i * 4
		out[i] = int32(uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24)
	}
	return out
}
