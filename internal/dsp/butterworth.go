package dsp

import (
	"fmt"
	"math"
)

// biquad is a single second-order IIR section in normalized form
// (a0 == 1), run in direct form II transposed.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

func (f biquad) run(x []float64) {
	var w1, w2 float64
	for i, v := range x {
		y := f.b0*v + w1
		w1 = f.b1*v - f.a1*y + w2
		w2 = f.b2*v - f.a2*y
		x[i] = y
	}
}

// lowpassCascade designs an even-order Butterworth low-pass filter as a
// cascade of second-order sections. Section Q values follow the Butterworth
// pole angles: Q_k = 1 / (2 cos((2k-1)π/(2N))), k = 1..N/2.
func lowpassCascade(order int, cutoffHz, sampleRate float64) ([]biquad, error) {
	if order < 2 || order%2 != 0 {
		return nil, fmt.Errorf("butterworth order must be even and >= 2, got %d", order)
	}
	if cutoffHz <= 0 || cutoffHz >= sampleRate/2 {
		return nil, fmt.Errorf("cutoff %.1f Hz must be in (0, Nyquist) for rate %.0f Hz", cutoffHz, sampleRate)
	}

	w0 := 2 * math.Pi * cutoffHz / sampleRate
	cosw0 := math.Cos(w0)
	sinw0 := math.Sin(w0)

	sections := make([]biquad, order/2)
	for k := 1; k <= order/2; k++ {
		q := 1 / (2 * math.Cos(float64(2*k-1)*math.Pi/float64(2*order)))
		alpha := sinw0 / (2 * q)
		a0 := 1 + alpha
		sections[k-1] = biquad{
			b0: (1 - cosw0) / 2 / a0,
			b1: (1 - cosw0) / a0,
			b2: (1 - cosw0) / 2 / a0,
			a1: -2 * cosw0 / a0,
			a2: (1 - alpha) / a0,
		}
	}
	return sections, nil
}

// ZeroPhaseLowPass applies an even-order Butterworth low-pass filter
// forward and backward so the result has zero phase distortion and
// boundary timing is not biased. The signal is extended at both ends by
// odd reflection before filtering to suppress edge transients.
func ZeroPhaseLowPass(x []float64, order int, cutoffHz, sampleRate float64) ([]float64, error) {
	sections, err := lowpassCascade(order, cutoffHz, sampleRate)
	if err != nil {
		return nil, err
	}
	n := len(x)
	if n == 0 {
		return []float64{}, nil
	}

	padLen := 3 * order * 2
	if padLen > n-1 {
		padLen = n - 1
	}

	ext := make([]float64, padLen+n+padLen)
	for i := 0; i < padLen; i++ {
		ext[i] = 2*x[0] - x[padLen-i]
		ext[padLen+n+i] = 2*x[n-1] - x[n-2-i]
	}
	copy(ext[padLen:], x)

	// Forward pass
	for _, s := range sections {
		s.run(ext)
	}
	reverse(ext)
	// Backward pass
	for _, s := range sections {
		s.run(ext)
	}
	reverse(ext)

	out := make([]float64, n)
	copy(out, ext[padLen:padLen+n])
	return out, nil
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}

// DbToLinear converts a decibel value to linear amplitude.
func DbToLinear(db float64) float64 {
	return math.Pow(10, db/20.0)
}

// LinearToDb converts linear amplitude to decibels.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return -120.0 // practical floor for audio
	}
	return 20.0 * math.Log10(linear)
}
