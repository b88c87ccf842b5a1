// Package mathutil collects the small numeric helpers shared by the image
// view, resize and mip-generation kernels: clamping, interpolation and the
// saturate/smoothstep pair used throughout graphics code.
package mathutil

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Clamp returns f clamped to [low, high]. Works for any ordered numeric
// type via a generic constraints-based helper.
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Saturate clamps f to [0, 1].
func Saturate(f float32) float32 {
	return Clamp(f, 0, 1)
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Smoothstep performs Hermite interpolation between 0 and 1 for x.
func Smoothstep(x float32) float32 {
	x = Saturate(x)
	return x * x * (3 - 2*x)
}

// Step returns 0 if x < edge, else 1.
func Step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

// MaxInt returns the larger of a and b.
func MaxInt[T constraints.Integer](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// MinInt returns the smaller of a and b.
func MinInt[T constraints.Integer](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// AbsInt32 returns the absolute value of a 32-bit integer.
func AbsInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// NormPDF evaluates the Gaussian probability density function at x with
// standard deviation sigma, used to build the separable Gaussian blur
// kernel.
func NormPDF(x, sigma float32) float32 {
	if sigma <= 0 {
		if x == 0 {
			return 1
		}
		return 0
	}
	return float32(math.Exp(float64(-(x*x)/(2*sigma*sigma))) / (math.Sqrt(2*math.Pi) * float64(sigma)))
}

// NextPow2 rounds v up to the next power of two (v itself if already a
// power of two, 1 if v == 0).
func NextPow2(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	return v + 1
}

// IsPow2 reports whether v is a power of two (1 counts as a power of two).
func IsPow2(v uint32) bool {
	return v != 0 && (v&(v-1)) == 0
}

// Log2Floor returns floor(log2(v)) for v > 0.
func Log2Floor(v uint32) uint32 {
	r := uint32(0)
	for v > 1 {
		v >>= 1
		r++
	}
	return r
}
