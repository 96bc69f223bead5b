package engine

import (
	"testing"

	"github.com/libaurex/aurex/pkg/fifo"
)

func TestAudioCallbackZeroFillsOnPreRollUnderrun(t *testing.T) {
	f := fifo.New(1024)
	c := newCounters()
	signals := make(chan Signal, 4)
	cb := newAudioCallback(f, c, 48000, signals)

	f.Write(make([]int32, 10*fifo.Channels)) // far short of the requested 100 frames

	output := make([]int32, 100*fifo.Channels)
	for i := range output {
		output[i] = 99 // poison to detect missed zero-fill
	}
	cb.fill(output, 100)

	for i, v := range output {
		if v != 0 {
			t.Fatalf("sample %d: expected zero-fill on pre-roll underrun, got %d", i, v)
		}
	}
	if c.playedSamples.Load() != 0 {
		t.Errorf("played_samples should not advance during pre-roll underrun, got %d", c.playedSamples.Load())
	}
}

func TestAudioCallbackReadsAndAdvancesPlayedSamples(t *testing.T) {
	f := fifo.New(1024)
	c := newCounters()
	signals := make(chan Signal, 4)
	cb := newAudioCallback(f, c, 48000, signals)

	frames := make([]int32, 100*fifo.Channels)
	for i := range frames {
		frames[i] = int32(i + 1)
	}
	f.Write(frames)

	output := make([]int32, 50*fifo.Channels)
	cb.fill(output, 50)

	for i, v := range output {
		if v != int32(i+1) {
			t.Errorf("sample %d: got %d, want %d", i, v, i+1)
		}
	}
	if c.playedSamples.Load() != 50 {
		t.Errorf("played_samples: got %d, want 50", c.playedSamples.Load())
	}
}

func TestAudioCallbackAppliesGain(t *testing.T) {
	f := fifo.New(1024)
	c := newCounters()
	c.SetGain(0)
	signals := make(chan Signal, 4)
	cb := newAudioCallback(f, c, 48000, signals)

	frames := make([]int32, 10*fifo.Channels)
	for i := range frames {
		frames[i] = 12345
	}
	f.Write(frames)

	output := make([]int32, 10*fifo.Channels)
	cb.fill(output, 10)

	for i, v := range output {
		if v != 0 {
			t.Errorf("sample %d: expected silence at gain=0, got %d", i, v)
		}
	}
}

func TestAudioCallbackZeroFillsShortfallAtEOF(t *testing.T) {
	f := fifo.New(1024)
	c := newCounters()
	c.decoderEOF.Store(true)
	signals := make(chan Signal, 4)
	cb := newAudioCallback(f, c, 48000, signals)

	frames := make([]int32, 5*fifo.Channels)
	for i := range frames {
		frames[i] = 7
	}
	f.Write(frames)

	output := make([]int32, 20*fifo.Channels)
	cb.fill(output, 20)

	for i := 0; i < 5*fifo.Channels; i++ {
		if output[i] != 7 {
			t.Errorf("sample %d: got %d, want 7", i, output[i])
		}
	}
	for i := 5 * fifo.Channels; i < len(output); i++ {
		if output[i] != 0 {
			t.Errorf("sample %d: expected zero-fill past EOF shortfall, got %d", i, output[i])
		}
	}
}

func TestAudioCallbackEmitsMediaEndAtEOFShortfall(t *testing.T) {
	f := fifo.New(1024)
	c := newCounters()
	c.decoderEOF.Store(true)
	signals := make(chan Signal, 4)
	cb := newAudioCallback(f, c, 48000, signals)

	// Fewer than deviceRate/100 frames available: crosses the MediaEnd threshold.
	frames := make([]int32, 3*fifo.Channels)
	f.Write(frames)

	output := make([]int32, 100*fifo.Channels)
	cb.fill(output, 100)

	select {
	case sig := <-signals:
		if sig != SignalMediaEnd {
			t.Errorf("expected SignalMediaEnd, got %v", sig)
		}
	default:
		t.Error("expected a MediaEnd signal to be enqueued")
	}
}

func TestAudioCallbackEmitsBufferLowWhenRunningDry(t *testing.T) {
	f := fifo.New(1 << 20)
	c := newCounters()
	signals := make(chan Signal, 4)
	deviceRate := 48000
	cb := newAudioCallback(f, c, deviceRate, signals)

	frames := make([]int32, deviceRate*fifo.Channels) // 1s buffered, well under the 5s low-water mark
	f.Write(frames)

	output := make([]int32, 100*fifo.Channels)
	cb.fill(output, 100)

	select {
	case sig := <-signals:
		if sig != SignalBufferLow {
			t.Errorf("expected SignalBufferLow, got %v", sig)
		}
	default:
		t.Error("expected a BufferLow signal to be enqueued")
	}
}
