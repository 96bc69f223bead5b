package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/libaurex/aurex/pkg/device"
	"github.com/libaurex/aurex/pkg/fifo"
	"github.com/libaurex/aurex/pkg/quality"
	"github.com/libaurex/aurex/pkg/types"
)

const (
	// preRollSeconds is play()'s pre-roll threshold (spec section 4.5).
	preRollSeconds = 5
	// fifoSeconds is the FIFO's capacity and the decode loop's per-command
	// fill target (spec section 3: "at least 10 seconds at device rate").
	fifoSeconds = 10

	preRollPollInterval  = 10 * time.Millisecond
	seekStateWaitTimeout = 500 * time.Millisecond
)

// Config configures engine construction (spec section 6: "new(quality?,
// on_event)"), in the style of the teacher's audioplayer.Config/DefaultConfig.
type Config struct {
	Quality quality.ResamplingQuality
	Device  device.Config
	OnEvent EventCallback
}

// DefaultConfig mirrors the teacher's DefaultConfig() pattern.
func DefaultConfig() Config {
	return Config{
		Quality: quality.High,
		Device:  device.DefaultConfig(),
	}
}

// Engine is the public transport-style facade (spec section 4.5): the
// state machine plus load/play/pause/seek/clear/get_progress/get_duration/
// get_volume/set_volume. It owns the device handle, FIFO, and command
// channel exclusively (spec section 3: "Ownership").
type Engine struct {
	mu    sync.Mutex
	state State
	cfg   Config

	fifo     *fifo.FIFO
	counters *counters
	commands chan command
	signals  chan Signal

	worker   *decoderWorker
	listener *eventListener
	device   *device.Device
	callback *audioCallback

	started  bool
	fileName string
}

var _ types.PlaybackMonitor = (*Engine)(nil)

// New constructs an engine in the EMPTY state. The decoder worker,
// listener, and audio device are spawned lazily on the first Load (spec
// section 4.5: "Lazily spawn decoder worker, listener, and build audio
// stream on first load").
func New(cfg Config) *Engine {
	return &Engine{
		cfg:      cfg,
		state:    StateEmpty,
		fifo:     fifo.New(uint64(fifoSeconds * cfg.Device.Rate)),
		counters: newCounters(),
		commands: make(chan command, 16),
		signals:  make(chan Signal, 16),
	}
}

// setStateLocked must be called with e.mu held.
func (e *Engine) setStateLocked(s State) {
	if s != e.state {
		slog.Debug("engine state transition", "from", e.state, "to", s)
	}
	e.state = s
}

// State returns the engine's current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) ensureStarted() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return nil
	}

	e.worker = newWorker(e.commands, e.fifo, e.counters, e.cfg.Device.Rate, e.onSessionInitialised)
	go e.worker.run()

	e.listener = newListener(e.signals, e)
	go e.listener.run()

	e.callback = newAudioCallback(e.fifo, e.counters, e.cfg.Device.Rate, e.signals)
	dev, err := device.Open(e.cfg.Device, e.callback.fill)
	if err != nil {
		return err
	}
	e.device = dev

	e.started = true
	return nil
}

// onSessionInitialised is the worker's hook, called once Start has opened
// the decoder and learned its duration; publishes total_samples and moves
// the engine to INITIALISED (spec section 4.2, 4.5).
func (e *Engine) onSessionInitialised(durationSeconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if durationSeconds > 0 {
		e.counters.totalSamples.Store(int64(durationSeconds * float64(e.cfg.Device.Rate)))
	} else {
		e.counters.totalSamples.Store(-1)
	}
	e.setStateLocked(StateInitialised)
}

// Load opens path for playback. Legal from any state (spec section 4.5).
func (e *Engine) Load(path string) error {
	return e.load(command{kind: cmdStart, path: path, quality: e.cfg.Quality}, path)
}

// LoadFromProvider plays a non-file source (e.g. pkg/decoders/stream's
// StreamDecoder over an AudioPacketProvider) through the same state machine
// and decode pipeline as Load, serving embeddings that feed the engine from
// something other than a path on disk (spec's SUPPLEMENTED FEATURES:
// pluggable streaming sources).
func (e *Engine) LoadFromProvider(provider types.AudioDecoder) error {
	return e.load(command{kind: cmdStart, provider: provider, quality: e.cfg.Quality}, "<stream>")
}

func (e *Engine) load(cmd command, fileName string) error {
	e.mu.Lock()
	if e.state == StatePlaying && e.device != nil {
		if err := e.device.Stop(); err != nil {
			slog.Warn("load: failed to stop device", "error", err)
		}
	}
	e.fifo.Reset()
	e.counters.Reset()
	e.fileName = fileName
	e.setStateLocked(StateEmpty)
	e.mu.Unlock()

	if err := e.ensureStarted(); err != nil {
		return types.NewPlayerError(types.ErrCodeDeviceInit, "engine.Load", err)
	}

	e.mu.Lock()
	e.setStateLocked(StateLoading)
	e.mu.Unlock()

	e.commands <- cmd
	return nil
}

// Play blocks for pre-roll buffering (spec section 4.5: "block the calling
// thread until FIFO.size() >= 5 * device_rate or decoder_eof holds") then
// starts the device. Idempotent when already PLAYING.
func (e *Engine) Play() error {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()

	if state == StateEmpty || state == StateLoading {
		return fmt.Errorf("play: illegal in state %s", state)
	}
	if state == StatePlaying {
		return nil
	}

	target := preRollSeconds * e.cfg.Device.Rate
	for e.fifo.Size() < target && !e.counters.decoderEOF.Load() {
		time.Sleep(preRollPollInterval)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.device.Start(); err != nil {
		return types.NewPlayerError(types.ErrCodeDeviceInit, "engine.Play", err)
	}
	e.setStateLocked(StatePlaying)
	return nil
}

// Pause stops the device. Idempotent when not PLAYING.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePlaying {
		return nil
	}
	if err := e.device.Stop(); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	e.setStateLocked(StatePaused)
	return nil
}

// Clear pauses if playing, resets played_samples and the FIFO, and returns
// the engine to EMPTY.
func (e *Engine) Clear() error {
	e.mu.Lock()
	if e.state == StatePlaying && e.device != nil {
		if err := e.device.Stop(); err != nil {
			slog.Warn("clear: failed to stop device", "error", err)
		}
	}
	e.counters.Reset()
	e.fifo.Reset()
	e.setStateLocked(StateEmpty)
	e.mu.Unlock()
	return nil
}

// Seek repositions playback to t seconds from the start of the current
// track (spec section 4.5).
func (e *Engine) Seek(t float64) error {
	if t < 0 {
		t = 0
	}

	state, err := e.waitForSeekableState()
	if err != nil {
		return err
	}
	wasPaused := state == StatePaused

	if err := e.Pause(); err != nil {
		return err
	}

	if err := e.worker.Seek(t); err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	e.fifo.Reset()
	e.counters.playedSamples.Store(uint64(t * float64(e.cfg.Device.Rate)))
	e.counters.decoderEOF.Store(false)

	e.commands <- command{kind: cmdResume}

	if !wasPaused {
		return e.Play()
	}
	return nil
}

// waitForSeekableState enforces seek's precondition, spin-waiting up to a
// small bound if the engine isn't yet in INITIALISED/PLAYING/PAUSED (spec
// section 4.5: "otherwise spin-wait up to a small bound").
func (e *Engine) waitForSeekableState() (State, error) {
	isSeekable := func(s State) bool {
		return s == StateInitialised || s == StatePlaying || s == StatePaused
	}

	e.mu.Lock()
	state := e.state
	e.mu.Unlock()
	if isSeekable(state) {
		return state, nil
	}

	deadline := time.Now().Add(seekStateWaitTimeout)
	for time.Now().Before(deadline) {
		time.Sleep(preRollPollInterval)
		e.mu.Lock()
		state = e.state
		e.mu.Unlock()
		if isSeekable(state) {
			return state, nil
		}
	}
	return state, fmt.Errorf("seek: illegal state %s", state)
}

// GetProgress returns elapsed playback time in seconds (spec section 4.5).
func (e *Engine) GetProgress() (float64, error) {
	if e.cfg.Device.Rate <= 0 {
		return 0, fmt.Errorf("get_progress: device rate <= 0")
	}
	return float64(e.counters.playedSamples.Load()) / float64(e.cfg.Device.Rate), nil
}

// GetDuration returns the current track's duration in seconds, or -1 if
// unknown.
func (e *Engine) GetDuration() float64 {
	total := e.counters.totalSamples.Load()
	if total < 0 {
		return -1
	}
	return float64(total) / float64(e.cfg.Device.Rate)
}

// GetPlaybackStatus implements types.PlaybackMonitor, summarizing the
// engine's playback position for status reporting (the teacher's CLI
// monitor loop, pkg/types.PlaybackMonitor).
func (e *Engine) GetPlaybackStatus() types.PlaybackStatus {
	e.mu.Lock()
	fileName := e.fileName
	e.mu.Unlock()

	total := e.counters.totalSamples.Load()
	var totalSamples uint64
	if total > 0 {
		totalSamples = uint64(total)
	}

	return types.PlaybackStatus{
		FileName:      fileName,
		SampleRate:    e.cfg.Device.Rate,
		Channels:      fifo.Channels,
		BitsPerSample: 32,
		PlayedSamples: e.counters.playedSamples.Load(),
		TotalSamples:  totalSamples,
	}
}

// GetVolume returns the current gain in [0, 1].
func (e *Engine) GetVolume() float32 {
	return e.counters.Gain()
}

// SetVolume sets the gain, clamped to [0, 1].
func (e *Engine) SetVolume(v float32) {
	e.counters.SetGain(v)
}

// Close stops the listener, worker, and device. The listener would
// eventually stop on its own once e becomes unreachable (its weak
// reference breaks the cycle through the audio callback), but Close makes
// that deterministic for callers that keep e alive afterward.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listener != nil {
		e.listener.Stop()
	}
	if e.worker != nil {
		e.worker.Stop()
	}
	if e.device != nil {
		return e.device.Close()
	}
	return nil
}
