package engine

import (
	"math"

	"github.com/libaurex/aurex/pkg/fifo"
)

// audioCallback is the real-time pull consumer (spec section 4.3). It only
// ever touches the lock-free FIFO and atomic counters, so the "non-blocking
// lock fails, zero-fill" branch of the spec has nothing to guard here: there
// is no lock on this path to fail to acquire. It never blocks, allocates,
// or logs.
type audioCallback struct {
	fifo       *fifo.FIFO
	counters   *counters
	deviceRate int
	signals    chan Signal
}

func newAudioCallback(f *fifo.FIFO, c *counters, deviceRate int, signals chan Signal) *audioCallback {
	return &audioCallback{fifo: f, counters: c, deviceRate: deviceRate, signals: signals}
}

// fill implements device.Callback: drain up to frameCount frames from the
// FIFO into output, apply gain, zero-fill any shortfall, and emit
// MediaEnd/BufferLow signals per spec section 4.3.
func (a *audioCallback) fill(output []int32, frameCount int) {
	avail := a.fifo.Size()
	eof := a.counters.decoderEOF.Load()

	if avail < frameCount && !eof {
		clearFrames(output)
		return
	}

	k := avail
	if k > frameCount {
		k = frameCount
	}

	framesRead := 0
	if k > 0 {
		n, err := a.fifo.Read(output[:k*fifo.Channels])
		if err == nil {
			framesRead = n
		}
	}
	k = framesRead

	if k > 0 {
		a.counters.playedSamples.Add(uint64(k))
		gain := a.counters.Gain()
		if gain != 1.0 {
			applyGain(output[:k*fifo.Channels], gain)
		}
	}

	if k < frameCount {
		clearFrames(output[k*fifo.Channels:])
	}

	if eof && k < a.deviceRate/100 {
		a.trySend(SignalMediaEnd)
	}
	if avail < 5*a.deviceRate && !eof {
		a.trySend(SignalBufferLow)
	}
}

// trySend is a best-effort try-send: it drops the signal rather than block
// the audio thread when the listener hasn't drained the channel yet (spec
// section 4.3 point 7/8: "best-effort try-send; drop on full").
func (a *audioCallback) trySend(s Signal) {
	select {
	case a.signals <- s:
	default:
	}
}

func clearFrames(buf []int32) {
	for i := range buf {
		buf[i] = 0
	}
}

// applyGain multiplies each sample by gain with saturating clamp to the
// 32-bit signed range (spec section 4.3 point 5).
func applyGain(buf []int32, gain float32) {
	for i, v := range buf {
		scaled := float64(v) * float64(gain)
		switch {
		case scaled > math.MaxInt32:
			buf[i] = math.MaxInt32
		case scaled < math.MinInt32:
			buf[i] = math.MinInt32
		default:
			buf[i] = int32(scaled)
		}
	}
}
