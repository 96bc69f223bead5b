// Package quality maps the engine's ResamplingQuality enum (spec section 6)
// onto the quality recipes exposed by the rate resampler library
// (github.com/zaf/resample, a binding over libsoxr). libsoxr's own shorthand
// recipes (QQ/LQ/MQ/HQ/VHQ) already bake in the "Rolloff=Small,
// HighPrecisionClock|DoublePrecision" configuration spec.md calls out — the
// wrapper doesn't expose those knobs individually, so the mapping below is
// the full extent of the quality configuration surface.
package quality

import soxr "github.com/zaf/resample"

// ResamplingQuality selects the rate resampler's quality recipe.
type ResamplingQuality int

const (
	Quick ResamplingQuality = iota
	Low
	Medium
	High
	VeryHigh
)

func (q ResamplingQuality) String() string {
	switch q {
	case Quick:
		return "quick"
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case VeryHigh:
		return "very_high"
	default:
		return "unknown"
	}
}

// SoxrQuality returns the github.com/zaf/resample quality constant for q.
func (q ResamplingQuality) SoxrQuality() int {
	switch q {
	case Quick:
		return soxr.Quick
	case Low:
		return soxr.LowQ
	case Medium:
		return soxr.MedQ
	case High:
		return soxr.HighQ
	case VeryHigh:
		return soxr.VeryHighQ
	default:
		return soxr.HighQ
	}
}
