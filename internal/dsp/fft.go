package dsp

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// fft computes an in-place iterative radix-2 FFT. len(x) must be a power of
// two. When inverse is true the result is scaled by 1/len(x).
func fft(x []complex128, inverse bool) {
	n := len(x)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation
	shift := 64 - uint(bits.Len(uint(n-1)))
	for i := 0; i < n; i++ {
		j := int(bits.Reverse64(uint64(i)) >> shift)
		if j > i {
			x[i], x[j] = x[j], x[i]
		}
	}

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := sign * 2 * math.Pi / float64(size)
		wBase := cmplx.Exp(complex(0, step))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for k := 0; k < half; k++ {
				even := x[start+k]
				odd := x[start+k+half] * w
				x[start+k] = even + odd
				x[start+k+half] = even - odd
				w *= wBase
			}
		}
	}

	if inverse {
		scale := complex(1/float64(n), 0)
		for i := range x {
			x[i] *= scale
		}
	}
}

// AnalyticMagnitude returns the magnitude of the analytic signal of x
// (Hilbert transform method): the instantaneous amplitude of the waveform.
// The input is zero-padded to a power of two internally; the returned slice
// has the same length as x.
func AnalyticMagnitude(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	m := nextPow2(n)
	buf := make([]complex128, m)
	for i, v := range x {
		buf[i] = complex(v, 0)
	}

	fft(buf, false)

	// Analytic-signal spectrum weighting: DC and Nyquist unchanged,
	// positive frequencies doubled, negative frequencies zeroed.
	for k := 1; k < m/2; k++ {
		buf[k] *= 2
	}
	for k := m/2 + 1; k < m; k++ {
		buf[k] = 0
	}

	fft(buf, true)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = cmplx.Abs(buf[i])
	}
	return out
}
