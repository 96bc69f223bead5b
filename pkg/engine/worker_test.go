package engine

import (
	"testing"

	"github.com/libaurex/aurex/pkg/fifo"
	"github.com/libaurex/aurex/pkg/quality"
	"github.com/libaurex/aurex/pkg/session"
	"github.com/libaurex/aurex/pkg/types"
)

// silentDecoder is a minimal types.AudioDecoder that yields a fixed number
// of silent stereo 16-bit frames, for driving the worker without touching
// the filesystem.
type silentDecoder struct {
	rate, channels, bps int
	remaining           int
}

func (d *silentDecoder) Open(string) error { return nil }
func (d *silentDecoder) Close() error      { return nil }
func (d *silentDecoder) GetFormat() (int, int, int) {
	return d.rate, d.channels, d.bps
}
func (d *silentDecoder) DurationSeconds() float64 {
	return float64(d.remaining) / float64(d.rate)
}
func (d *silentDecoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.remaining == 0 {
		return 0, nil
	}
	n := samples
	if n > d.remaining {
		n = d.remaining
	}
	clear(audio[:n*d.channels*(d.bps/8)])
	d.remaining -= n
	return n, nil
}

var _ types.AudioDecoder = (*silentDecoder)(nil)

func TestDecoderWorkerFillBufferIsNoOpAtEOF(t *testing.T) {
	f := fifo.New(48000 * 10)
	c := newCounters()
	w := newWorker(make(chan command, 4), f, c, 48000, nil)

	decoder := &silentDecoder{rate: 44100, channels: 2, bps: 16, remaining: 0}
	s, err := session.NewFromProvider(decoder, 48000, quality.Low)
	if err != nil {
		t.Fatalf("NewFromProvider failed: %v", err)
	}
	w.session.Store(s)
	c.decoderEOF.Store(true)

	sizeBefore := f.Size()
	w.handleFillBuffer()
	if f.Size() != sizeBefore {
		t.Errorf("FillBuffer should be a no-op once decoder_eof is set, FIFO size changed from %d to %d", sizeBefore, f.Size())
	}
}

func TestDecoderWorkerFillBufferNoOpAboveLowWaterMark(t *testing.T) {
	f := fifo.New(48000 * 10)
	c := newCounters()
	w := newWorker(make(chan command, 4), f, c, 48000, nil)

	decoder := &silentDecoder{rate: 44100, channels: 2, bps: 16, remaining: 1_000_000}
	s, err := session.NewFromProvider(decoder, 48000, quality.Low)
	if err != nil {
		t.Fatalf("NewFromProvider failed: %v", err)
	}
	w.session.Store(s)

	// Above the 5s low-water mark already: FillBuffer should do nothing.
	f.Write(make([]int32, 6*48000*fifo.Channels))
	sizeBefore := f.Size()

	w.handleFillBuffer()
	if f.Size() != sizeBefore {
		t.Errorf("FillBuffer should be a no-op above the low-water mark, FIFO size changed from %d to %d", sizeBefore, f.Size())
	}
}

func TestDecoderWorkerFillBufferFillsBelowLowWaterMark(t *testing.T) {
	f := fifo.New(48000 * 10)
	c := newCounters()
	w := newWorker(make(chan command, 4), f, c, 48000, nil)

	decoder := &silentDecoder{rate: 44100, channels: 2, bps: 16, remaining: 1_000_000}
	s, err := session.NewFromProvider(decoder, 48000, quality.Low)
	if err != nil {
		t.Fatalf("NewFromProvider failed: %v", err)
	}
	w.session.Store(s)

	w.handleFillBuffer()

	if f.Size() == 0 {
		t.Error("expected FillBuffer to decode and write frames when below the low-water mark")
	}
}
