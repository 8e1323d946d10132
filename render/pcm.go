package render

import "math"

// NormalizePeak scales samples in place so the largest magnitude is exactly
// 1.0. Empty or all-silent input is returned untouched.
func NormalizePeak(samples []float64) []float64 {
	peak := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return samples
	}
	for i := range samples {
		samples[i] /= peak
	}
	return samples
}

// Quantize16 converts normalized samples to 16-bit signed PCM by scaling to
// full range and truncating. Input outside [-1, 1] is clamped.
func Quantize16(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = int16(v * 32767)
	}
	return out
}
