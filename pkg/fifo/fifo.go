// Package fifo implements the bounded interleaved-PCM ring described in
// spec section 3/4.1: a lock-free single-producer/single-consumer ring of
// interleaved 32-bit signed stereo frames. The decoder worker is the sole
// writer; the audio callback is the sole reader. Reset is the caller's
// responsibility to serialize with playback state (spec: "legal only when
// the device is paused").
//
// The algorithm is the teacher's own pkg/ringbuffer (a byte-oriented SPSC
// ring keyed on atomic read/write cursors and a power-of-2 mask), adapted
// here to store whole stereo frames instead of raw bytes, since every
// producer and consumer in this engine thinks in frames, not bytes.
package fifo

import (
	"sync/atomic"

	"github.com/libaurex/aurex/pkg/types"
)

// Channels is the fixed channel count for the wire format between the
// decode session and the audio device (spec section 6: "interleaved,
// packed, 32-bit signed, 2 channels").
const Channels = 2

// FIFO is a lock-free SPSC ring of interleaved int32 stereo frames.
type FIFO struct {
	buffer   []int32 // capacity*Channels samples
	capacity uint64  // frames, power of 2
	mask     uint64
	writePos atomic.Uint64 // frames written, monotonic
	readPos  atomic.Uint64 // frames read, monotonic
}

// New creates a FIFO sized to hold at least minFrames frames, rounded up
// to the next power of 2 for cheap modulo-by-mask arithmetic.
func New(minFrames uint64) *FIFO {
	capacity := nextPowerOf2(minFrames)
	return &FIFO{
		buffer:   make([]int32, capacity*Channels),
		capacity: capacity,
		mask:     capacity - 1,
	}
}

// Write appends up to len(src)/Channels frames from src (interleaved
// stereo). Short writes are permitted: it writes as many whole frames as
// fit and returns the count, never blocking.
func (f *FIFO) Write(src []int32) (framesWritten int, err error) {
	frameCount := uint64(len(src) / Channels)
	if frameCount == 0 {
		return 0, nil
	}

	available := f.availableWrite()
	toWrite := min(frameCount, available)
	if toWrite == 0 {
		return 0, types.ErrInsufficientSpace
	}

	writePos := f.writePos.Load()
	start := (writePos & f.mask) * Channels
	end := ((writePos + toWrite) & f.mask) * Channels
	srcSamples := src[:toWrite*Channels]

	if end > start || toWrite == 0 {
		copy(f.buffer[start:start+toWrite*Channels], srcSamples)
	} else {
		firstChunk := f.capacity*Channels - start
		copy(f.buffer[start:], srcSamples[:firstChunk])
		copy(f.buffer[:end], srcSamples[firstChunk:])
	}

	f.writePos.Store(writePos + toWrite)
	return int(toWrite), nil
}

// Read pops up to len(dst)/Channels frames into dst. Short reads are
// permitted: it returns as many whole frames as are available.
func (f *FIFO) Read(dst []int32) (framesRead int, err error) {
	wantFrames := uint64(len(dst) / Channels)
	if wantFrames == 0 {
		return 0, nil
	}

	available := f.availableRead()
	if available == 0 {
		return 0, types.ErrInsufficientData
	}

	toRead := min(wantFrames, available)
	readPos := f.readPos.Load()
	start := (readPos & f.mask) * Channels
	end := ((readPos + toRead) & f.mask) * Channels

	if end > start {
		copy(dst[:toRead*Channels], f.buffer[start:end])
	} else {
		firstChunk := f.capacity*Channels - start
		copy(dst[:firstChunk], f.buffer[start:])
		copy(dst[firstChunk:toRead*Channels], f.buffer[:end])
	}

	f.readPos.Store(readPos + toRead)
	return int(toRead), nil
}

// Size returns the number of frames currently stored.
func (f *FIFO) Size() int {
	return int(f.availableRead())
}

// Capacity returns the ring's total frame capacity.
func (f *FIFO) Capacity() int {
	return int(f.capacity)
}

// Reset clears the FIFO. Callers must only do this while the device is
// stopped (spec section 4.1); the FIFO itself does not enforce that.
func (f *FIFO) Reset() {
	f.readPos.Store(0)
	f.writePos.Store(0)
}

func (f *FIFO) availableWrite() uint64 {
	return f.capacity - (f.writePos.Load() - f.readPos.Load())
}

func (f *FIFO) availableRead() uint64 {
	return f.writePos.Load() - f.readPos.Load()
}

func nextPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}
