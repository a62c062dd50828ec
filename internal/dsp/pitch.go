package dsp

import "math"

// PitchTracker estimates a per-frame fundamental frequency contour using
// normalized autocorrelation restricted to a plausible voice range.
type PitchTracker struct {
	SampleRate       int
	FrameLength      int
	HopLength        int
	FloorHz          float64 // lowest admissible F0
	CeilingHz        float64 // highest admissible F0
	VoicingThreshold float64 // normalized peak required to call a frame voiced
}

// frameEnergyFloor guards against calling digital silence voiced: frames
// whose total energy falls below it are unvoiced regardless of correlation.
const frameEnergyFloor = 1e-12

// Track returns the F0 estimate (Hz) and voicing decision per frame. Frames
// without a reliable periodicity peak are marked unvoiced with f0 = 0.
// A signal shorter than one frame is analyzed as a single truncated frame.
func (t *PitchTracker) Track(x []float64) (f0 []float64, voiced []bool) {
	if len(x) == 0 {
		return nil, nil
	}

	frameLen := t.FrameLength
	hop := t.HopLength
	count := 1
	if len(x) >= frameLen {
		count = 1 + (len(x)-frameLen)/hop
	} else {
		frameLen = len(x)
	}

	f0 = make([]float64, count)
	voiced = make([]bool, count)

	minLag := int(float64(t.SampleRate) / t.CeilingHz)
	maxLag := int(math.Ceil(float64(t.SampleRate) / t.FloorHz))
	if minLag < 2 {
		minLag = 2
	}
	if maxLag >= frameLen {
		maxLag = frameLen - 1
	}
	if maxLag <= minLag {
		return f0, voiced
	}

	frame := make([]float64, frameLen)
	for i := 0; i < count; i++ {
		start := i * hop
		copy(frame, x[start:start+frameLen])

		hz, ok := t.estimateFrame(frame, minLag, maxLag)
		if ok {
			f0[i] = hz
			voiced[i] = true
		}
	}
	return f0, voiced
}

// estimateFrame picks the strongest normalized autocorrelation peak in the
// admissible lag range, refined by parabolic interpolation around the peak.
func (t *PitchTracker) estimateFrame(frame []float64, minLag, maxLag int) (float64, bool) {
	// Remove DC so a constant offset does not masquerade as periodicity.
	mean := Mean(frame)
	var r0 float64
	for i := range frame {
		frame[i] -= mean
		r0 += frame[i] * frame[i]
	}
	if r0 < frameEnergyFloor {
		return 0, false
	}

	corr := make([]float64, maxLag+2)
	bestLag, bestVal := 0, 0.0
	upper := maxLag + 1
	if upper >= len(frame) {
		upper = len(frame) - 1
	}
	for lag := minLag - 1; lag <= upper; lag++ {
		var sum float64
		for i := 0; i+lag < len(frame); i++ {
			sum += frame[i] * frame[i+lag]
		}
		corr[lag] = sum / r0
		if lag >= minLag && lag <= maxLag && corr[lag] > bestVal {
			bestVal = corr[lag]
			bestLag = lag
		}
	}

	if bestLag == 0 || bestVal <= t.VoicingThreshold {
		return 0, false
	}

	lag := float64(bestLag)
	if bestLag > minLag-1 && bestLag < upper {
		prev, cur, next := corr[bestLag-1], corr[bestLag], corr[bestLag+1]
		denom := prev - 2*cur + next
		if denom != 0 {
			delta := 0.5 * (prev - next) / denom
			if delta > -0.5 && delta < 0.5 {
				lag += delta
			}
		}
	}

	hz := float64(t.SampleRate) / lag
	if hz < t.FloorHz {
		hz = t.FloorHz
	}
	if hz > t.CeilingHz {
		hz = t.CeilingHz
	}
	return hz, true
}
