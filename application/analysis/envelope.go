// Package analysis implements the core signal-analysis stages: envelope
// extraction, pause segmentation and classification, rate metrics, and
// prosodic feature extraction.
package analysis

import (
	"github.com/clinspeech/speechlab/domain/model"
	"github.com/clinspeech/speechlab/internal/dsp"
	pkgerrors "github.com/clinspeech/speechlab/pkg/errors"
)

// EnvelopeExtractor derives a smoothed amplitude envelope from a waveform:
// the Hilbert analytic-signal magnitude, low-pass filtered to remove fine
// oscillation while preserving slow pause/voicing structure.
type EnvelopeExtractor struct {
	cutoffHz float64
	order    int
}

// NewEnvelopeExtractor creates an extractor with the given Butterworth
// low-pass cutoff and (even) filter order.
func NewEnvelopeExtractor(cutoffHz float64, order int) *EnvelopeExtractor {
	return &EnvelopeExtractor{cutoffHz: cutoffHz, order: order}
}

// Extract returns an envelope with the same length as the signal,
// non-negative everywhere. Filtering is zero-phase so segment-boundary
// timing is not systematically biased.
func (e *EnvelopeExtractor) Extract(sig *model.AudioSignal) (model.Envelope, error) {
	if sig == nil || len(sig.Samples) == 0 {
		return nil, pkgerrors.NewInsufficientDataError("empty signal")
	}

	magnitude := dsp.AnalyticMagnitude(sig.Samples)

	smooth, err := dsp.ZeroPhaseLowPass(magnitude, e.order, e.cutoffHz, float64(sig.SampleRate))
	if err != nil {
		return nil, pkgerrors.NewProcessingError("envelope", "low-pass filtering failed", err)
	}

	// Zero-phase filtering can undershoot slightly; the envelope is an
	// amplitude and must stay non-negative.
	for i, v := range smooth {
		if v < 0 {
			smooth[i] = 0
		}
	}
	return model.Envelope(smooth), nil
}
