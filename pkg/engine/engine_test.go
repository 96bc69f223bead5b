package engine

import (
	"testing"
	"time"

	"github.com/libaurex/aurex/pkg/device"
)

func newTestEngine() *Engine {
	return New(Config{
		Device: device.Config{Rate: 48000, FramesPerBuffer: 512},
	})
}

func TestWaitForSeekableStateSucceedsImmediately(t *testing.T) {
	e := newTestEngine()
	e.mu.Lock()
	e.state = StatePaused
	e.mu.Unlock()

	state, err := e.waitForSeekableState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StatePaused {
		t.Errorf("got %v, want %v", state, StatePaused)
	}
}

func TestWaitForSeekableStateSucceedsAfterTransition(t *testing.T) {
	e := newTestEngine()
	e.mu.Lock()
	e.state = StateLoading
	e.mu.Unlock()

	go func() {
		time.Sleep(30 * time.Millisecond)
		e.mu.Lock()
		e.state = StateInitialised
		e.mu.Unlock()
	}()

	state, err := e.waitForSeekableState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StateInitialised {
		t.Errorf("got %v, want %v", state, StateInitialised)
	}
}

func TestWaitForSeekableStateTimesOut(t *testing.T) {
	e := newTestEngine()
	e.mu.Lock()
	e.state = StateEmpty
	e.mu.Unlock()

	_, err := e.waitForSeekableState()
	if err == nil {
		t.Fatal("expected an error when the engine never leaves an unseekable state")
	}
}

func TestGetProgressRejectsNonPositiveDeviceRate(t *testing.T) {
	e := New(Config{Device: device.Config{Rate: 0}})
	if _, err := e.GetProgress(); err == nil {
		t.Error("expected an error for device rate <= 0")
	}
}

func TestGetProgressReflectsPlayedSamples(t *testing.T) {
	e := newTestEngine()
	e.counters.playedSamples.Store(48000 * 3)

	progress, err := e.GetProgress()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress != 3.0 {
		t.Errorf("got %v, want 3.0", progress)
	}
}

func TestGetDurationUnknownReturnsNegativeOne(t *testing.T) {
	e := newTestEngine()
	if d := e.GetDuration(); d != -1 {
		t.Errorf("got %v, want -1 for unknown duration", d)
	}
}

func TestGetDurationKnown(t *testing.T) {
	e := newTestEngine()
	e.counters.totalSamples.Store(48000 * 10)
	if d := e.GetDuration(); d != 10.0 {
		t.Errorf("got %v, want 10.0", d)
	}
}

func TestSetVolumeGetVolumeRoundTrip(t *testing.T) {
	e := newTestEngine()
	e.SetVolume(0.25)
	if v := e.GetVolume(); v != 0.25 {
		t.Errorf("got %v, want 0.25", v)
	}
	e.SetVolume(2.0)
	if v := e.GetVolume(); v != 1.0 {
		t.Errorf("expected volume clamped to 1.0, got %v", v)
	}
}

func TestPlayFromEmptyIsIllegal(t *testing.T) {
	e := newTestEngine()
	if err := e.Play(); err == nil {
		t.Error("expected play() from EMPTY to be illegal")
	}
}

func TestPauseIdempotentWhenNotPlaying(t *testing.T) {
	e := newTestEngine()
	if err := e.Pause(); err != nil {
		t.Errorf("pause() should be a no-op outside PLAYING, got error: %v", err)
	}
	if e.State() != StateEmpty {
		t.Errorf("pause() should not change state outside PLAYING, got %v", e.State())
	}
}
