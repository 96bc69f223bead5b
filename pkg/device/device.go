// Package device wraps github.com/drgolem/go-portaudio in a pull-callback
// audio output matching spec section 1's "native audio output library"
// collaborator: a negotiated default device, start/stop, and a callback
// that's handed N frames of interleaved PCM to fill. Grounded on the
// teacher's pkg/audioplayer/player.go and internal/fileplayer/fileplayer.go,
// the two places in the pack that drive this binding end to end.
package device

import (
	"fmt"
	"log/slog"

	"github.com/drgolem/go-portaudio/portaudio"

	"github.com/libaurex/aurex/pkg/fifo"
	"github.com/libaurex/aurex/pkg/types"
)

// Callback fills output with frameCount interleaved stereo int32 frames.
// Implementations must not block or allocate (spec section 4.3, 9).
type Callback func(output []int32, frameCount int)

// Device is a PortAudio output stream opened in callback (pull) mode at a
// fixed sample rate negotiated at construction time.
type Device struct {
	stream          *portaudio.PaStream
	deviceIndex     int
	rate            int
	framesPerBuffer int
	callback        Callback
	scratch         []int32 // reused across callback invocations, no real-time allocation
}

// Config selects the output device and buffering policy.
type Config struct {
	DeviceIndex     int
	Rate            int
	FramesPerBuffer int
}

// DefaultConfig mirrors the teacher's audioplayer.DefaultConfig() policy:
// device index 1 (commonly the first real output on the host), a
// moderate frames-per-buffer for stable low-latency playback.
func DefaultConfig() Config {
	return Config{
		DeviceIndex:     1,
		Rate:            48000,
		FramesPerBuffer: 512,
	}
}

// Open opens a callback-mode output stream at cfg.Rate, packed 32-bit
// signed stereo (the wire format between decode session and device, spec
// section 6). cb is invoked from PortAudio's real-time thread on every
// buffer request.
func Open(cfg Config, cb Callback) (*Device, error) {
	d := &Device{
		deviceIndex:     cfg.DeviceIndex,
		rate:            cfg.Rate,
		framesPerBuffer: cfg.FramesPerBuffer,
		callback:        cb,
		scratch:         make([]int32, cfg.FramesPerBuffer*fifo.Channels),
	}

	d.stream = &portaudio.PaStream{
		OutputParameters: &portaudio.PaStreamParameters{
			DeviceIndex:  cfg.DeviceIndex,
			ChannelCount: fifo.Channels,
			SampleFormat: portaudio.SampleFmtInt32,
		},
		SampleRate: float64(cfg.Rate),
	}

	if err := d.stream.OpenCallback(cfg.FramesPerBuffer, d.onBuffer); err != nil {
		return nil, types.NewPlayerError(types.ErrCodeDeviceInit, "device.Open", fmt.Errorf("failed to open stream: %w", err))
	}

	return d, nil
}

// onBuffer adapts go-portaudio's byte-buffer callback convention to the
// int32-frame Callback this package exposes to the rest of the engine.
func (d *Device) onBuffer(input, output []byte, frameCount uint, timeInfo *portaudio.StreamCallbackTimeInfo, statusFlags portaudio.StreamCallbackFlags) portaudio.StreamCallbackResult {
	n := int(frameCount)
	frames := d.scratch[:n*fifo.Channels]
	d.callback(frames, n)

	for i, v := range frames {
		off := i * 4
		output[off] = byte(v)
		output[off+1] = byte(v >> 8)
		output[off+2] = byte(v >> 16)
		output[off+3] = byte(v >> 24)
	}

	return portaudio.Continue
}

// Start begins pulling audio from the callback.
func (d *Device) Start() error {
	if err := d.stream.StartStream(); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}
	return nil
}

// Stop halts the stream without closing it; Start may be called again.
func (d *Device) Stop() error {
	if err := d.stream.StopStream(); err != nil {
		return fmt.Errorf("failed to stop stream: %w", err)
	}
	return nil
}

// Close stops and releases the stream.
func (d *Device) Close() error {
	if d.stream == nil {
		return nil
	}
	if err := d.stream.StopStream(); err != nil {
		slog.Warn("device close: error stopping stream", "error", err)
	}
	if err := d.stream.CloseCallback(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	d.stream = nil
	return nil
}

// Rate returns the device's negotiated sample rate.
func (d *Device) Rate() int {
	return d.rate
}

// Channels returns the device's channel count (always fifo.Channels).
func (d *Device) Channels() int {
	return fifo.Channels
}
