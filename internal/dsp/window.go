package dsp

import "math"

// Aggregator reduces a window of samples to one value.
type Aggregator func(window []float64) float64

// SlideReduce applies agg to consecutive windows of x of the given length,
// advancing by hop samples. Only full windows are produced, except when x is
// shorter than one window, in which case the whole of x forms a single
// truncated window so degenerate input still yields a value.
func SlideReduce(x []float64, window, hop int, agg Aggregator) []float64 {
	if len(x) == 0 || window <= 0 || hop <= 0 {
		return nil
	}
	if len(x) < window {
		return []float64{agg(x)}
	}
	count := 1 + (len(x)-window)/hop
	out := make([]float64, count)
	for i := 0; i < count; i++ {
		start := i * hop
		out[i] = agg(x[start : start+window])
	}
	return out
}

// ZeroCrossingRate is the fraction of consecutive sample pairs whose signs
// differ. Zero samples count as non-negative.
func ZeroCrossingRate(window []float64) float64 {
	if len(window) < 2 {
		return 0
	}
	crossings := 0
	prev := math.Signbit(window[0])
	for _, v := range window[1:] {
		cur := math.Signbit(v)
		if cur != prev {
			crossings++
		}
		prev = cur
	}
	return float64(crossings) / float64(len(window)-1)
}

// MeanSquare is the mean squared amplitude ("energy") of a window.
func MeanSquare(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range window {
		sum += v * v
	}
	return sum / float64(len(window))
}

// RMS is the root mean square amplitude of a window.
func RMS(window []float64) float64 {
	return math.Sqrt(MeanSquare(window))
}

// AbsDiffs returns |x[i+1] - x[i]| for each consecutive pair.
// Returns nil when fewer than two samples exist.
func AbsDiffs(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	out := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		out[i-1] = math.Abs(x[i] - x[i-1])
	}
	return out
}

// WindowDeviations returns, for each position with a full centered window of
// the given odd size, the absolute deviation of the center value from the
// window mean. This is the shared perturbation primitive behind the RAP,
// PPQ5 and APQ5 statistics. Returns nil when x is shorter than the window.
func WindowDeviations(x []float64, window int) []float64 {
	if window < 3 || window%2 == 0 || len(x) < window {
		return nil
	}
	half := window / 2
	out := make([]float64, 0, len(x)-window+1)
	for i := half; i < len(x)-half; i++ {
		var sum float64
		for j := i - half; j <= i+half; j++ {
			sum += x[j]
		}
		out = append(out, math.Abs(x[i]-sum/float64(window)))
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// StdDev returns the population standard deviation, or 0 for an empty slice.
func StdDev(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := Mean(x)
	var sum float64
	for _, v := range x {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(x)))
}
