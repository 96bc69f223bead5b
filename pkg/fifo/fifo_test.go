package fifo

import (
	"testing"

	"github.com/libaurex/aurex/pkg/types"
)

func TestNewRoundsToPowerOf2(t *testing.T) {
	tests := []struct {
		input    uint64
		expected uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{100, 128},
		{480000, 524288}, // ~10s at 48kHz
	}

	for _, tt := range tests {
		f := New(tt.input)
		if f.Capacity() != int(tt.expected) {
			t.Errorf("New(%d): got capacity %d, want %d", tt.input, f.Capacity(), tt.expected)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	f := New(16)

	frames := make([]int32, 8*Channels)
	for i := range frames {
		frames[i] = int32(i + 1)
	}

	written, err := f.Write(frames)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if written != 8 {
		t.Fatalf("Write: got %d frames, want 8", written)
	}
	if f.Size() != 8 {
		t.Fatalf("Size: got %d, want 8", f.Size())
	}

	dst := make([]int32, 8*Channels)
	read, err := f.Read(dst)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if read != 8 {
		t.Fatalf("Read: got %d frames, want 8", read)
	}
	for i := range frames {
		if dst[i] != frames[i] {
			t.Errorf("sample %d: got %d, want %d", i, dst[i], frames[i])
		}
	}
	if f.Size() != 0 {
		t.Errorf("Size after full read: got %d, want 0", f.Size())
	}
}

func TestShortWriteWhenFull(t *testing.T) {
	f := New(4) // capacity 4 frames

	frames := make([]int32, 6*Channels)
	written, err := f.Write(frames)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if written != 4 {
		t.Errorf("Write: got %d frames, want 4 (capacity-limited)", written)
	}
}

func TestShortReadWhenPartiallyFilled(t *testing.T) {
	f := New(16)
	frames := make([]int32, 3*Channels)
	f.Write(frames)

	dst := make([]int32, 10*Channels)
	read, err := f.Read(dst)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if read != 3 {
		t.Errorf("Read: got %d frames, want 3", read)
	}
}

func TestReadEmptyReturnsErrInsufficientData(t *testing.T) {
	f := New(16)
	dst := make([]int32, 4*Channels)
	_, err := f.Read(dst)
	if err != types.ErrInsufficientData {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestWrapAround(t *testing.T) {
	f := New(4)

	// Fill, drain partially, then write again to force wraparound.
	f.Write([]int32{1, 1, 2, 2, 3, 3, 4, 4})
	dst := make([]int32, 2*Channels)
	f.Read(dst) // consume frames 1,2

	written, err := f.Write([]int32{5, 5, 6, 6})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if written != 2 {
		t.Fatalf("Write: got %d, want 2", written)
	}

	out := make([]int32, 4*Channels)
	read, err := f.Read(out)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if read != 4 {
		t.Fatalf("Read: got %d, want 4", read)
	}
	want := []int32{3, 3, 4, 4, 5, 5, 6, 6}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("sample %d: got %d, want %d", i, out[i], w)
		}
	}
}

func TestReset(t *testing.T) {
	f := New(16)
	f.Write(make([]int32, 5*Channels))
	if f.Size() != 5 {
		t.Fatalf("Size before reset: got %d, want 5", f.Size())
	}
	f.Reset()
	if f.Size() != 0 {
		t.Errorf("Size after reset: got %d, want 0", f.Size())
	}
}
