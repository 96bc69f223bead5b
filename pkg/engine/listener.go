package engine

import (
	"log/slog"
	"sync"
	"weak"
)

// eventListener dequeues signals in order and dispatches them (spec section
// 4.4). It holds only a weak reference to the engine so that dropping the
// engine terminates the listener deterministically on its next iteration,
// breaking the engine→listener (via the callback passed to the audio
// device) / listener→engine cycle (spec section 9).
type eventListener struct {
	signals chan Signal
	engine  weak.Pointer[Engine]

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newListener(signals chan Signal, e *Engine) *eventListener {
	return &eventListener{
		signals: signals,
		engine:  weak.Make(e),
		stopCh:  make(chan struct{}),
	}
}

func (l *eventListener) run() {
	for {
		select {
		case sig, ok := <-l.signals:
			if !ok {
				return
			}
			e := l.engine.Value()
			if e == nil {
				slog.Debug("listener: engine no longer reachable, stopping")
				return
			}
			l.handle(sig, e)
		case <-l.stopCh:
			return
		}
	}
}

func (l *eventListener) handle(sig Signal, e *Engine) {
	switch sig {
	case SignalMediaEnd:
		l.handleMediaEnd(e)
	case SignalBufferLow:
		l.handleBufferLow(e)
	}
}

func (l *eventListener) handleMediaEnd(e *Engine) {
	// decoder_eof resets here to arm the edge for the next track (spec
	// section 4.3: "MediaEnd must be sent at most once per track").
	e.counters.decoderEOF.Store(false)

	e.mu.Lock()
	if e.device != nil {
		if err := e.device.Stop(); err != nil {
			slog.Warn("listener: error stopping device on media end", "error", err)
		}
	}
	e.setStateLocked(StatePaused)
	e.fifo.Reset()
	e.setStateLocked(StateEmpty)
	cb := e.cfg.OnEvent
	// Release the engine lock before invoking the user callback: it may
	// re-enter the engine (e.g. Load the next track), and must not
	// deadlock against this goroutine (spec section 4.4).
	e.mu.Unlock()

	if cb != nil {
		cb(SignalMediaEnd, e)
	}
}

func (l *eventListener) handleBufferLow(e *Engine) {
	if e.counters.decoderEOF.Load() {
		return
	}
	// Unlike the real-time audio callback's signal sends, this is not on
	// the audio thread, so an ordinary blocking send is fine; the command
	// channel's buffer only fills under sustained pathological backlog.
	e.commands <- command{kind: cmdFillBuffer}
}

func (l *eventListener) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}
