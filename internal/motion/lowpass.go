package motion

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// biquad is one transposed direct-form-II second-order filter section.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// filter runs the section in place. The internal state starts at the
// steady-state response to the first sample rather than at zero, so a pass
// has no startup transient and constant signals come back unchanged.
func (s biquad) filter(samples []float64) {
	if len(samples) == 0 {
		return
	}
	gain := (s.b0 + s.b1 + s.b2) / (1 + s.a1 + s.a2)
	x0 := samples[0]
	z1 := (gain - s.b0) * x0
	z2 := (s.b2 - s.a2*gain) * x0
	for i, x := range samples {
		y := s.b0*x + z1
		z1 = s.b1*x - s.a1*y + z2
		z2 = s.b2*x - s.a2*y
		samples[i] = y
	}
}

// Butterworth Q factors for a fourth-order filter split into two cascaded
// second-order sections.
var butterworthQ4 = [2]float64{0.5411961, 1.3065630}

func designLowpass(cutoffHz, sampleRate float64) [2]biquad {
	var sections [2]biquad
	w0 := 2 * math.Pi * cutoffHz / sampleRate
	cosw0 := math.Cos(w0)
	sinw0 := math.Sin(w0)
	for i, q := range butterworthQ4 {
		alpha := sinw0 / (2 * q)
		a0 := 1 + alpha
		sections[i] = biquad{
			b0: (1 - cosw0) / 2 / a0,
			b1: (1 - cosw0) / a0,
			b2: (1 - cosw0) / 2 / a0,
			a1: -2 * cosw0 / a0,
			a2: (1 - alpha) / a0,
		}
	}
	return sections
}

// lowpassPad is the odd-extension length used to settle the filter state
// before the real samples begin.
const lowpassPad = 12

// Lowpass returns samples run through a zero-phase fourth-order Butterworth
// low-pass filter: one forward and one reverse pass, so the output has no
// phase lag relative to the input. Inputs too short to pad, non-positive
// cutoffs, and cutoffs at or above the Nyquist rate return an unfiltered
// copy.
func Lowpass(samples []float64, cutoffHz, sampleRate float64) []float64 {
	out := append([]float64(nil), samples...)
	if cutoffHz <= 0 || sampleRate <= 0 || cutoffHz >= sampleRate/2 {
		return out
	}
	if len(samples) <= lowpassPad {
		return out
	}
	sections := designLowpass(cutoffHz, sampleRate)

	// Odd extension at both ends mirrors the signal around its endpoints,
	// which keeps the filter from ringing at the clip boundaries.
	padded := make([]float64, 0, len(out)+2*lowpassPad)
	first, last := out[0], out[len(out)-1]
	for i := lowpassPad; i >= 1; i-- {
		padded = append(padded, 2*first-out[i])
	}
	padded = append(padded, out...)
	for i := len(out) - 2; i >= len(out)-1-lowpassPad; i-- {
		padded = append(padded, 2*last-out[i])
	}

	for pass := 0; pass < 2; pass++ {
		for _, s := range sections {
			s.filter(padded)
		}
		floats.Reverse(padded)
	}
	copy(out, padded[lowpassPad:lowpassPad+len(out)])
	return out
}
