// Package engine is the facade and concurrency wiring described in spec
// section 4.5: the state machine, the decoder worker, the real-time audio
// callback, and the event listener that ties them together. Grounded on
// the teacher's pkg/audioplayer (producer/consumer split, Config/DefaultConfig
// pattern) and internal/fileplayer (callback-mode device driving), adapted
// from a fixed file-to-device pipeline into the full load/play/pause/seek/
// clear transport surface.
package engine

import (
	"github.com/libaurex/aurex/pkg/quality"
	"github.com/libaurex/aurex/pkg/types"
)

// State is the engine's single-writer playback state (spec section 3:
// "Engine state").
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateInitialised
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateInitialised:
		return "initialised"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Signal is an event produced by the audio callback and consumed by the
// listener (spec section 3: "Signal (engine outbox)").
type Signal int

const (
	SignalMediaEnd Signal = iota
	SignalBufferLow
)

func (s Signal) String() string {
	switch s {
	case SignalMediaEnd:
		return "media_end"
	case SignalBufferLow:
		return "buffer_low"
	default:
		return "unknown"
	}
}

type commandKind int

const (
	cmdStart commandKind = iota
	cmdResume
	cmdFillBuffer
)

// command is an entry in the decoder worker's inbox (spec section 3:
// "Command (decoder inbox)"). Control enqueues in order; the worker
// consumes in order. A cmdStart carries either path (the common, file-backed
// case) or provider (a pre-built types.AudioDecoder for non-file sources,
// e.g. pkg/decoders/stream), never both.
type command struct {
	kind     commandKind
	path     string
	provider types.AudioDecoder
	quality  quality.ResamplingQuality
}

// EventCallback receives playback signals. handle is the engine that
// emitted the signal, so the callback may re-enter it (e.g. Load the next
// track on MediaEnd) — spec section 6: "Event callback".
type EventCallback func(signal Signal, handle *Engine)
