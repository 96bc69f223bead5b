// Package pcmconv implements the decode session's "format normalizer":
// widening whatever bit depth and channel count a decoder hands back into
// packed 32-bit stereo at the source rate (spec section 4.2). No pack
// library does this narrow, rate-preserving conversion on its own — the
// rate resampler (github.com/zaf/resample) always also changes the rate —
// so it's plain arithmetic here, the same bit-depth switch the teacher's
// pkg/decoders/wav.go already does when writing samples.
package pcmconv

import "fmt"

// ToStereoInt32 decodes samples little-endian PCM samples of the given
// channel count and bit depth out of src and returns them as packed int32
// stereo frames (mono is duplicated to both channels; with more than two
// channels only the first two are kept, the rest are dropped). The rate is unchanged — only
// bit depth and channel layout are normalized.
func ToStereoInt32(src []byte, samples, channels, bitsPerSample int) ([]int32, error) {
	bytesPerSample := bitsPerSample / 8
	if bytesPerSample <= 0 || channels <= 0 {
		return nil, fmt.Errorf("pcmconv: invalid format %d channels, %d bits", channels, bitsPerSample)
	}

	out := make([]int32, samples*2)

	for i := 0; i < samples; i++ {
		left, right, err := readFrame(src, i, channels, bytesPerSample)
		if err != nil {
			return nil, err
		}
		out[i*2] = left
		out[i*2+1] = right
	}
	return out, nil
}

func readFrame(src []byte, sampleIdx, channels, bytesPerSample int) (left, right int32, err error) {
	base := sampleIdx * channels * bytesPerSample

	readCh := func(ch int) (int32, error) {
		off := base + ch*bytesPerSample
		if off+bytesPerSample > len(src) {
			return 0, fmt.Errorf("pcmconv: short buffer at sample %d channel %d", sampleIdx, ch)
		}
		return widenToInt32(src[off:off+bytesPerSample], bytesPerSample), nil
	}

	left, err = readCh(0)
	if err != nil {
		return 0, 0, err
	}
	if channels == 1 {
		return left, left, nil
	}
	right, err = readCh(1)
	if err != nil {
		return 0, 0, err
	}
	return left, right, nil
}

// widenToInt32 reads a little-endian signed sample of width bytesPerSample
// and left-shifts it to occupy the full int32 range, matching libsoxr's
// expectation of full-scale I32 input.
func widenToInt32(b []byte, bytesPerSample int) int32 {
	switch bytesPerSample {
	case 1:
		// 8-bit PCM is conventionally unsigned.
		v := int32(b[0]) - 128
		return v << 24
	case 2:
		v := int32(int16(uint16(b[0]) | uint16(b[1])<<8))
		return v << 16
	case 3:
		raw := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		// Sign-extend the 24-bit value.
		if raw&0x800000 != 0 {
			raw |= -(1 << 24)
		}
		return raw << 8
	case 4:
		return int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
	default:
		return 0
	}
}
