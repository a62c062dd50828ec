package analysis

import (
	"math"

	"github.com/clinspeech/speechlab/domain/model"
	"github.com/clinspeech/speechlab/internal/dsp"
	pkgerrors "github.com/clinspeech/speechlab/pkg/errors"
)

// ProsodyExtractor estimates the pitch and intensity contours of a signal
// frame-by-frame and derives jitter/shimmer perturbation statistics plus
// descriptive pitch/intensity statistics. It consumes only the raw
// waveform; segmentation output is not an input.
type ProsodyExtractor struct {
	frameLength      int
	hopLength        int
	pitchFloorHz     float64
	pitchCeilingHz   float64
	voicingThreshold float64
}

// NewProsodyExtractor creates an extractor from the prosody parameters.
func NewProsodyExtractor(opts *model.AnalysisOptions) *ProsodyExtractor {
	return &ProsodyExtractor{
		frameLength:      opts.FrameLength,
		hopLength:        opts.HopLength,
		pitchFloorHz:     opts.PitchFloorHz,
		pitchCeilingHz:   opts.PitchCeilingHz,
		voicingThreshold: opts.VoicingThreshold,
	}
}

// Extract computes the full prosodic feature record. Statistics whose
// preconditions are unmet (no voiced frames, too few consecutive periods)
// report undefined; extraction of the remaining statistics continues.
func (p *ProsodyExtractor) Extract(sig *model.AudioSignal) (model.ProsodyFeatures, error) {
	if sig == nil || len(sig.Samples) == 0 {
		return model.ProsodyFeatures{}, pkgerrors.NewInsufficientDataError("empty signal")
	}

	tracker := &dsp.PitchTracker{
		SampleRate:       sig.SampleRate,
		FrameLength:      p.frameLength,
		HopLength:        p.hopLength,
		FloorHz:          p.pitchFloorHz,
		CeilingHz:        p.pitchCeilingHz,
		VoicingThreshold: p.voicingThreshold,
	}
	f0, voiced := tracker.Track(sig.Samples)

	// Frame-level RMS amplitude: the intensity contour over all frames,
	// reused per voiced frame as the shimmer amplitude sequence. Framing
	// matches the pitch tracker so the contours align index-for-index.
	intensity := dsp.SlideReduce(sig.Samples, p.frameLength, p.hopLength, dsp.RMS)

	features := model.ProsodyFeatures{}
	fillPitchStatistics(&features, f0, voiced)

	periodRuns, amplitudeRuns := voicedRuns(f0, voiced, intensity)
	features.JitterLocal, features.JitterRAP, features.JitterPPQ5 = jitterStatistics(periodRuns)
	features.ShimmerLocal, features.ShimmerDB, features.ShimmerAPQ5 = shimmerStatistics(amplitudeRuns)

	fillIntensityStatistics(&features, intensity)
	return features, nil
}

// fillPitchStatistics computes descriptive F0 statistics over voiced frames
// only. With zero voiced frames every pitch statistic is undefined and the
// voiced ratio is 0.
func fillPitchStatistics(f *model.ProsodyFeatures, f0 []float64, voiced []bool) {
	voicedF0 := make([]float64, 0, len(f0))
	for i, v := range voiced {
		if v {
			voicedF0 = append(voicedF0, f0[i])
		}
	}

	if len(f0) > 0 {
		f.VoicedRatio = float64(len(voicedF0)) / float64(len(f0))
	}
	if len(voicedF0) == 0 {
		return
	}

	mean := dsp.Mean(voicedF0)
	std := dsp.StdDev(voicedF0)
	minV, maxV := voicedF0[0], voicedF0[0]
	for _, v := range voicedF0[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	f.F0Mean = model.DefinedStat(mean)
	f.F0Std = model.DefinedStat(std)
	f.F0Min = model.DefinedStat(minV)
	f.F0Max = model.DefinedStat(maxV)
	f.F0Range = model.DefinedStat(maxV - minV)
	if mean > 0 {
		f.F0CV = model.DefinedStat(std / mean)
	}
}

// voicedRuns splits the contours into maximal runs of consecutive voiced
// frames. Perturbation windows must never span an unvoiced gap, so jitter
// and shimmer are computed per run and aggregated.
func voicedRuns(f0 []float64, voiced []bool, amplitude []float64) (periodRuns, amplitudeRuns [][]float64) {
	var periods, amps []float64
	flush := func() {
		if len(periods) > 0 {
			periodRuns = append(periodRuns, periods)
			amplitudeRuns = append(amplitudeRuns, amps)
			periods, amps = nil, nil
		}
	}

	for i, v := range voiced {
		if !v || f0[i] <= 0 {
			flush()
			continue
		}
		periods = append(periods, 1.0/f0[i])
		if i < len(amplitude) {
			amps = append(amps, amplitude[i])
		} else if len(amps) < len(periods) {
			// Contour alignment guard; framing keeps lengths equal in practice.
			amps = append(amps, 0)
		}
	}
	flush()
	return periodRuns, amplitudeRuns
}

// jitterStatistics derives the period-perturbation statistics from the
// voiced-run period sequences. Each statistic is undefined independently
// when no run is long enough for its window.
func jitterStatistics(runs [][]float64) (local, rap, ppq5 model.Stat) {
	var periodSum float64
	periodN := 0
	var diffs, rapDevs, ppq5Devs []float64

	for _, run := range runs {
		for _, p := range run {
			periodSum += p
		}
		periodN += len(run)
		diffs = append(diffs, dsp.AbsDiffs(run)...)
		rapDevs = append(rapDevs, dsp.WindowDeviations(run, 3)...)
		ppq5Devs = append(ppq5Devs, dsp.WindowDeviations(run, 5)...)
	}

	if periodN == 0 {
		return
	}
	meanPeriod := periodSum / float64(periodN)
	if meanPeriod <= 0 {
		return
	}

	if len(diffs) > 0 {
		local = model.DefinedStat(dsp.Mean(diffs) / meanPeriod)
	}
	if len(rapDevs) > 0 {
		rap = model.DefinedStat(dsp.Mean(rapDevs) / meanPeriod)
	}
	if len(ppq5Devs) > 0 {
		ppq5 = model.DefinedStat(dsp.Mean(ppq5Devs) / meanPeriod)
	}
	return
}

// shimmerStatistics derives the amplitude-perturbation statistics from the
// voiced-run per-frame RMS amplitudes, mirroring the jitter windowing.
func shimmerStatistics(runs [][]float64) (local, db, apq5 model.Stat) {
	var ampSum float64
	ampN := 0
	var diffs, dbDiffs, apq5Devs []float64

	for _, run := range runs {
		for _, a := range run {
			ampSum += a
		}
		ampN += len(run)
		diffs = append(diffs, dsp.AbsDiffs(run)...)
		apq5Devs = append(apq5Devs, dsp.WindowDeviations(run, 5)...)

		for i := 1; i < len(run); i++ {
			if run[i-1] > 0 && run[i] > 0 {
				dbDiffs = append(dbDiffs, math.Abs(20*math.Log10(run[i]/run[i-1])))
			}
		}
	}

	if ampN == 0 {
		return
	}
	meanAmp := ampSum / float64(ampN)
	if meanAmp <= 0 {
		return
	}

	if len(diffs) > 0 {
		local = model.DefinedStat(dsp.Mean(diffs) / meanAmp)
	}
	if len(dbDiffs) > 0 {
		db = model.DefinedStat(dsp.Mean(dbDiffs))
	}
	if len(apq5Devs) > 0 {
		apq5 = model.DefinedStat(dsp.Mean(apq5Devs) / meanAmp)
	}
	return
}

// fillIntensityStatistics aggregates the frame-level RMS contour over all
// frames, voiced and unvoiced alike; intensity is not pitch-gated.
func fillIntensityStatistics(f *model.ProsodyFeatures, intensity []float64) {
	if len(intensity) == 0 {
		return
	}

	minV, maxV := intensity[0], intensity[0]
	for _, v := range intensity[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	f.IntensityMean = model.DefinedStat(dsp.Mean(intensity))
	f.IntensityStd = model.DefinedStat(dsp.StdDev(intensity))
	f.IntensityMin = model.DefinedStat(minV)
	f.IntensityMax = model.DefinedStat(maxV)
	f.IntensityRange = model.DefinedStat(maxV - minV)
}
