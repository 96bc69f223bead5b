package session

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libaurex/aurex/pkg/fifo"
	"github.com/libaurex/aurex/pkg/quality"
	"github.com/libaurex/aurex/pkg/types"
)

// fakeDecoder produces a fixed number of silent stereo 16-bit frames, then
// reports zero frames with a nil error, without touching the filesystem.
type fakeDecoder struct {
	rate      int
	channels  int
	bps       int
	remaining int
}

func (d *fakeDecoder) Open(string) error { return nil }
func (d *fakeDecoder) Close() error      { return nil }
func (d *fakeDecoder) GetFormat() (int, int, int) {
	return d.rate, d.channels, d.bps
}
func (d *fakeDecoder) DurationSeconds() float64 {
	return float64(d.remaining) / float64(d.rate)
}
func (d *fakeDecoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.remaining == 0 {
		return 0, nil
	}
	n := samples
	if n > d.remaining {
		n = d.remaining
	}
	bytesPerFrame := d.channels * (d.bps / 8)
	for i := 0; i < n*bytesPerFrame; i++ {
		audio[i] = 0
	}
	d.remaining -= n
	return n, nil
}

func TestRunDecodeLoopFillsFIFOToTarget(t *testing.T) {
	decoder := &fakeDecoder{rate: 44100, channels: 2, bps: 16, remaining: 1_000_000}

	s := &Session{
		decoder:    decoder,
		sourceRate: 44100,
		channels:   2,
		bps:        16,
		deviceRate: 48000,
		quality:    quality.High,
	}
	require.NoError(t, s.newResampler())

	f := fifo.New(48000) // 1s at device rate
	var eof atomic.Bool

	require.NoError(t, s.RunDecodeLoop(f, &eof, 20000))

	assert.GreaterOrEqual(t, f.Size(), 20000)
	assert.False(t, eof.Load(), "decoder has plenty of data left")
}

func TestRunDecodeLoopSetsEOF(t *testing.T) {
	decoder := &fakeDecoder{rate: 44100, channels: 2, bps: 16, remaining: 100}

	s := &Session{
		decoder:    decoder,
		sourceRate: 44100,
		channels:   2,
		bps:        16,
		deviceRate: 48000,
		quality:    quality.Low,
	}
	require.NoError(t, s.newResampler())

	f := fifo.New(48000 * 10)
	var eof atomic.Bool

	require.NoError(t, s.RunDecodeLoop(f, &eof, 480000))
	assert.True(t, eof.Load(), "expected eof after exhausting decoder")
}

func TestRunDecodeLoopRespectsCancellation(t *testing.T) {
	decoder := &fakeDecoder{rate: 44100, channels: 2, bps: 16, remaining: 1_000_000}

	s := &Session{
		decoder:    decoder,
		sourceRate: 44100,
		channels:   2,
		bps:        16,
		deviceRate: 48000,
		quality:    quality.Quick,
	}
	require.NoError(t, s.newResampler())
	s.Cancel()

	f := fifo.New(48000)
	var eof atomic.Bool

	require.NoError(t, s.RunDecodeLoop(f, &eof, 48000))
	assert.Equal(t, 0, f.Size(), "cancelled loop should not have written anything")
}

func TestPrimeDoesNotLeaveResidueInSink(t *testing.T) {
	s := &Session{sourceRate: 44100, channels: 2, bps: 16, deviceRate: 48000, quality: quality.Medium}
	require.NoError(t, s.newResampler())
	require.NoError(t, s.Prime())
	assert.Equal(t, 0, s.sink.Len(), "expected sink drained after priming")
}

var _ types.AudioDecoder = (*fakeDecoder)(nil)
