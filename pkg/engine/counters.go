package engine

import (
	"math"
	"sync/atomic"
)

// counters are the shared single-writer atomics from spec section 3:
// playedSamples (monotonic within a track), totalSamples (frames at device
// rate, -1 until the decoder publishes a duration), decoderEOF, and gain.
// Revisit per spec section 9 if multiple concurrent engine instances are
// ever needed: these would move to per-engine state, which is in fact
// exactly what this struct already is — one instance per *Engine rather
// than a package-level global, the simplest reading of that note.
type counters struct {
	playedSamples atomic.Uint64
	totalSamples  atomic.Int64
	decoderEOF    atomic.Bool
	gainBits      atomic.Uint32
}

func newCounters() *counters {
	c := &counters{}
	c.totalSamples.Store(-1)
	c.gainBits.Store(math.Float32bits(1.0))
	return c
}

// Reset zeroes the played-sample counter and clears decoder_eof, as done
// on clear() and a fresh load() (spec section 4.5).
func (c *counters) Reset() {
	c.playedSamples.Store(0)
	c.decoderEOF.Store(false)
}

func (c *counters) Gain() float32 {
	return math.Float32frombits(c.gainBits.Load())
}

// SetGain clamps v to [0, 1] before storing it (spec section 3).
func (c *counters) SetGain(v float32) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c.gainBits.Store(math.Float32bits(v))
}
