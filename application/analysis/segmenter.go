package analysis

import (
	"sort"

	"github.com/clinspeech/speechlab/domain/model"
	"github.com/clinspeech/speechlab/internal/dsp"
	pkgerrors "github.com/clinspeech/speechlab/pkg/errors"
)

// NoiseProfile holds the adaptive floors estimated from the quietest part
// of a recording. EnvelopeFloor and SilenceThreshold are in envelope units;
// EnergyFloor is mean squared waveform amplitude at the same indices.
type NoiseProfile struct {
	EnvelopeFloor    float64
	EnergyFloor      float64
	SilenceThreshold float64
}

// Segmenter finds silence intervals from the envelope, suppresses
// noise-length gaps, and classifies each surviving interval as breath or
// pathological using local acoustic cues.
type Segmenter struct {
	silenceThresholdFactor float64
	minPauseDuration       float64
	zcrThreshold           float64
	breathEnergyRatio      float64
}

// NewSegmenter creates a segmenter from the pause-detection parameters.
func NewSegmenter(opts *model.AnalysisOptions) *Segmenter {
	return &Segmenter{
		silenceThresholdFactor: opts.SilenceThresholdFactor,
		minPauseDuration:       opts.MinPauseDuration,
		zcrThreshold:           opts.ZCRThreshold,
		breathEnergyRatio:      opts.BreathEnergyRatio,
	}
}

// Segment runs pause detection and classification. The returned segments
// are ordered by start time and non-overlapping. An entirely silent signal
// yields a single all-covering segment; an entirely voiced one yields an
// empty list. Deterministic for identical inputs and parameters.
func (s *Segmenter) Segment(sig *model.AudioSignal, env model.Envelope) ([]model.PauseSegment, NoiseProfile, error) {
	if sig == nil || len(sig.Samples) == 0 {
		return nil, NoiseProfile{}, pkgerrors.NewInsufficientDataError("empty signal")
	}
	if len(env) != len(sig.Samples) {
		return nil, NoiseProfile{}, pkgerrors.NewProcessingError("segment", "envelope and signal length mismatch", nil)
	}

	profile := s.estimateNoiseProfile(sig.Samples, env)

	segments := make([]model.PauseSegment, 0)
	sr := float64(sig.SampleRate)
	minSamples := int(s.minPauseDuration * sr)
	if minSamples < 1 {
		minSamples = 1
	}

	energyGate := profile.EnergyFloor * s.breathEnergyRatio
	for _, run := range silentRuns(env, profile.SilenceThreshold) {
		if run.end-run.start < minSamples {
			continue
		}
		span := sig.Samples[run.start:run.end]
		zcr := dsp.ZeroCrossingRate(span)
		energy := dsp.MeanSquare(span)

		segments = append(segments, model.PauseSegment{
			Start:  float64(run.start) / sr,
			End:    float64(run.end) / sr,
			Type:   Classify(zcr, energy, s.zcrThreshold, energyGate),
			ZCR:    zcr,
			Energy: energy,
		})
	}

	return segments, profile, nil
}

// estimateNoiseProfile takes the quietest 10% of envelope samples (stable
// order for exact ties, so results are deterministic) and derives the
// envelope floor, the waveform energy floor at those indices, and the
// silence threshold as floor * factor.
func (s *Segmenter) estimateNoiseProfile(samples []float64, env model.Envelope) NoiseProfile {
	n := len(env)
	quiet := n / 10
	if quiet < 1 {
		quiet = 1
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return env[idx[a]] < env[idx[b]] })

	var envSum, energySum float64
	for _, i := range idx[:quiet] {
		envSum += env[i]
		energySum += samples[i] * samples[i]
	}

	floor := envSum / float64(quiet)
	return NoiseProfile{
		EnvelopeFloor:    floor,
		EnergyFloor:      energySum / float64(quiet),
		SilenceThreshold: floor * s.silenceThresholdFactor,
	}
}

type indexRun struct {
	start, end int // [start, end)
}

// silentRuns converts the per-sample silence decision into contiguous
// index runs. A sample is silent when its envelope value does not exceed
// the threshold; the comparison is inclusive so digital silence (an
// all-zero envelope with a zero floor) is still detected.
func silentRuns(env model.Envelope, threshold float64) []indexRun {
	runs := make([]indexRun, 0)
	inRun := false
	start := 0
	for i, v := range env {
		silent := v <= threshold
		switch {
		case silent && !inRun:
			inRun = true
			start = i
		case !silent && inRun:
			inRun = false
			runs = append(runs, indexRun{start: start, end: i})
		}
	}
	if inRun {
		runs = append(runs, indexRun{start: start, end: len(env)})
	}
	return runs
}
