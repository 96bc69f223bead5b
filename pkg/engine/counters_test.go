package engine

import "testing"

func TestNewCountersDefaults(t *testing.T) {
	c := newCounters()
	if c.Gain() != 1.0 {
		t.Errorf("default gain: got %v, want 1.0", c.Gain())
	}
	if c.totalSamples.Load() != -1 {
		t.Errorf("default total_samples: got %d, want -1 (unknown)", c.totalSamples.Load())
	}
	if c.decoderEOF.Load() {
		t.Error("decoder_eof should start false")
	}
}

func TestSetGainClampsToUnitRange(t *testing.T) {
	c := newCounters()

	c.SetGain(1.5)
	if c.Gain() != 1.0 {
		t.Errorf("gain above range: got %v, want clamped to 1.0", c.Gain())
	}

	c.SetGain(-0.5)
	if c.Gain() != 0.0 {
		t.Errorf("gain below range: got %v, want clamped to 0.0", c.Gain())
	}

	c.SetGain(0.5)
	if c.Gain() != 0.5 {
		t.Errorf("gain in range: got %v, want 0.5", c.Gain())
	}
}

func TestCountersReset(t *testing.T) {
	c := newCounters()
	c.playedSamples.Store(12345)
	c.decoderEOF.Store(true)

	c.Reset()

	if c.playedSamples.Load() != 0 {
		t.Errorf("played_samples after reset: got %d, want 0", c.playedSamples.Load())
	}
	if c.decoderEOF.Load() {
		t.Error("decoder_eof should be cleared by Reset")
	}
}
