package device

import (
	"testing"

	"github.com/libaurex/aurex/pkg/fifo"
)

// TestOnBufferConvertsFramesToBytes exercises the byte<->int32 conversion
// path without opening a real PortAudio stream (impossible in a headless
// test environment): it calls onBuffer directly against a Device built by
// hand, bypassing Open.
func TestOnBufferConvertsFramesToBytes(t *testing.T) {
	const frameCount = 4

	d := &Device{
		rate:            48000,
		framesPerBuffer: frameCount,
		scratch:         make([]int32, frameCount*fifo.Channels),
		callback: func(output []int32, n int) {
			for i := range output {
				output[i] = int32(i + 1)
			}
		},
	}

	output := make([]byte, frameCount*fifo.Channels*4)
	d.onBuffer(nil, output, uint(frameCount), nil, 0)

	for i := 0; i < frameCount*fifo.Channels; i++ {
		off := i * 4
		got := int32(uint32(output[off]) | uint32(output[off+1])<<8 | uint32(output[off+2])<<16 | uint32(output[off+3])<<24)
		if got != int32(i+1) {
			t.Errorf("sample %d: got %d, want %d", i, got, i+1)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Rate <= 0 {
		t.Errorf("expected positive default rate, got %d", cfg.Rate)
	}
	if cfg.FramesPerBuffer <= 0 {
		t.Errorf("expected positive default frames per buffer, got %d", cfg.FramesPerBuffer)
	}
}
