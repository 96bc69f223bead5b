package pcmconv

import "testing"

func TestToStereoInt32Mono16(t *testing.T) {
	// Two mono 16-bit samples: 1, -1
	src := []byte{0x01, 0x00, 0xFF, 0xFF}
	out, err := ToStereoInt32(src, 2, 1, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("got %d samples, want 4", len(out))
	}
	if out[0] != out[1] {
		t.Errorf("mono sample should be duplicated to both channels: got %d vs %d", out[0], out[1])
	}
	if out[2] != out[3] {
		t.Errorf("mono sample should be duplicated to both channels: got %d vs %d", out[2], out[3])
	}
	if out[0] <= 0 {
		t.Errorf("expected positive widened sample, got %d", out[0])
	}
	if out[2] >= 0 {
		t.Errorf("expected negative widened sample, got %d", out[2])
	}
}

func TestToStereoInt32Stereo16Passthrough(t *testing.T) {
	// One stereo frame: left=1, right=2
	src := []byte{0x01, 0x00, 0x02, 0x00}
	out, err := ToStereoInt32(src, 1, 2, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[1] == out[0] {
		t.Errorf("left and right should differ: got %d and %d", out[0], out[1])
	}
}

func TestToStereoInt32EightBitUnsigned(t *testing.T) {
	// 8-bit PCM is unsigned with 128 as the zero point.
	src := []byte{128, 128} // silence, mono, 2 samples
	out, err := ToStereoInt32(src, 2, 1, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range out {
		if v != 0 {
			t.Errorf("sample %d: got %d, want 0 (silence)", i, v)
		}
	}
}

func TestToStereoInt32ShortBufferErrors(t *testing.T) {
	src := []byte{0x01, 0x00}
	_, err := ToStereoInt32(src, 2, 1, 16)
	if err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestToStereoInt32InvalidFormat(t *testing.T) {
	_, err := ToStereoInt32(nil, 0, 0, 0)
	if err == nil {
		t.Error("expected error for invalid format")
	}
}
