package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/libaurex/aurex/pkg/fifo"
	"github.com/libaurex/aurex/pkg/session"
)

// decoderWorker consumes the command channel (Start/Resume/FillBuffer) and
// runs the decode loop (spec section 4.2). session is held in an
// atomic.Pointer so Seek, called from the control thread, can read and
// cancel it without racing the worker goroutine's own handling of Start;
// runMu serializes actual decode-loop execution so Seek can wait for an
// in-flight loop to observe cancellation and return before repositioning.
type decoderWorker struct {
	commands   chan command
	fifo       *fifo.FIFO
	counters   *counters
	deviceRate int

	session       atomic.Pointer[session.Session]
	runMu         sync.Mutex
	onInitialised func(durationSeconds float64)

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newWorker(commands chan command, f *fifo.FIFO, c *counters, deviceRate int, onInitialised func(float64)) *decoderWorker {
	return &decoderWorker{
		commands:      commands,
		fifo:          f,
		counters:      c,
		deviceRate:    deviceRate,
		onInitialised: onInitialised,
		stopCh:        make(chan struct{}),
	}
}

func (w *decoderWorker) run() {
	for {
		select {
		case cmd, ok := <-w.commands:
			if !ok {
				return
			}
			w.handle(cmd)
		case <-w.stopCh:
			return
		}
	}
}

func (w *decoderWorker) handle(cmd command) {
	switch cmd.kind {
	case cmdStart:
		w.handleStart(cmd)
	case cmdResume:
		w.handleResume()
	case cmdFillBuffer:
		w.handleFillBuffer()
	}
}

func (w *decoderWorker) handleStart(cmd command) {
	if old := w.session.Load(); old != nil {
		if err := old.Close(); err != nil {
			slog.Warn("worker: error closing superseded session", "error", err)
		}
	}

	s, err := w.openSession(cmd)
	if err != nil {
		slog.Error("worker: failed to open session", "path", cmd.path, "error", err)
		return
	}
	if err := s.Prime(); err != nil {
		slog.Warn("worker: priming resampler failed", "path", cmd.path, "error", err)
	}

	w.counters.decoderEOF.Store(false)
	w.session.Store(s)

	if w.onInitialised != nil {
		w.onInitialised(s.DurationSeconds())
	}

	w.runDecodeLoop(s, fifoSeconds*w.deviceRate)
}

// openSession builds a session for cmd.provider (a pre-built, non-file
// decoder) when set, otherwise opens cmd.path with the extension-dispatched
// decoder factory.
func (w *decoderWorker) openSession(cmd command) (*session.Session, error) {
	if cmd.provider != nil {
		return session.NewFromProvider(cmd.provider, w.deviceRate, cmd.quality)
	}
	return session.Open(cmd.path, w.deviceRate, cmd.quality)
}

func (w *decoderWorker) handleResume() {
	s := w.session.Load()
	if s == nil {
		return
	}
	s.ClearCancel()
	w.runDecodeLoop(s, fifoSeconds*w.deviceRate)
}

// handleFillBuffer is idempotent: a no-op once decoder_eof is set or the
// FIFO is already above the low-water mark, so duplicate BufferLow signals
// (spec section 9, open question on coalescing) are harmless.
func (w *decoderWorker) handleFillBuffer() {
	s := w.session.Load()
	if s == nil {
		return
	}
	if w.counters.decoderEOF.Load() {
		return
	}
	if w.fifo.Size() >= preRollSeconds*w.deviceRate {
		return
	}
	w.runDecodeLoop(s, fifoSeconds*w.deviceRate)
}

func (w *decoderWorker) runDecodeLoop(s *session.Session, targetFrames int) {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	if err := s.RunDecodeLoop(w.fifo, &w.counters.decoderEOF, targetFrames); err != nil {
		slog.Error("worker: decode loop error", "error", err)
	}
}

// Seek cancels any in-flight decode loop, blocks until it has observed the
// cancellation and returned (runMu), then repositions the session. Must be
// called from the control thread, never from within the worker goroutine.
func (w *decoderWorker) Seek(t float64) error {
	s := w.session.Load()
	if s == nil {
		return fmt.Errorf("worker: seek with no session loaded")
	}

	s.Cancel()
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if err := s.SeekSeconds(t); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	if err := s.Flush(); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	s.ClearCancel()
	return nil
}

func (w *decoderWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}
