package model

import (
	pkgerrors "github.com/clinspeech/speechlab/pkg/errors"
)

// AnalysisOptions holds the full configuration surface of the pipeline.
// Defaults match the clinical-validation parameters exactly; change them
// only when result compatibility is not required.
type AnalysisOptions struct {
	// Signal loading
	TargetSampleRate int // Hz, resample target for decoded audio

	// Envelope extraction
	EnvelopeCutoffHz    float64 // low-pass cutoff applied to the Hilbert magnitude
	EnvelopeFilterOrder int     // Butterworth order; must be even (biquad cascade)

	// Pause segmentation
	SilenceThresholdFactor float64 // silence iff envelope <= noiseFloor * factor
	MinPauseDuration       float64 // seconds; shorter silent runs are suppressed
	ZCRThreshold           float64 // breath classification ZCR gate
	BreathEnergyRatio      float64 // breath iff energy > energyFloor * ratio

	// Prosody extraction
	PitchFloorHz     float64 // lowest admissible F0
	PitchCeilingHz   float64 // highest admissible F0
	VoicingThreshold float64 // normalized autocorrelation peak required for voicing
	FrameLength      int     // samples per analysis frame
	HopLength        int     // samples between frame starts

	// Batch processing
	Workers int
}

// DefaultAnalysisOptions returns the clinical-validation defaults.
func DefaultAnalysisOptions() *AnalysisOptions {
	return &AnalysisOptions{
		TargetSampleRate:       16000,
		EnvelopeCutoffHz:       50.0,
		EnvelopeFilterOrder:    4,
		SilenceThresholdFactor: 1.0,
		MinPauseDuration:       0.15,
		ZCRThreshold:           0.05,
		BreathEnergyRatio:      1.1,
		PitchFloorHz:           75.0,
		PitchCeilingHz:         500.0,
		VoicingThreshold:       0.30,
		FrameLength:            2048,
		HopLength:              512,
		Workers:                4,
	}
}

// Validate fails fast on out-of-range parameters, before any signal
// processing begins.
func (o *AnalysisOptions) Validate() error {
	if o.TargetSampleRate <= 0 {
		return pkgerrors.NewConfigurationError("TargetSampleRate", o.TargetSampleRate, "target sample rate must be positive")
	}
	nyquist := float64(o.TargetSampleRate) / 2.0
	if o.EnvelopeCutoffHz <= 0 || o.EnvelopeCutoffHz >= nyquist {
		return pkgerrors.NewConfigurationError("EnvelopeCutoffHz", o.EnvelopeCutoffHz, "envelope cutoff must be positive and below Nyquist")
	}
	if o.EnvelopeFilterOrder < 2 || o.EnvelopeFilterOrder%2 != 0 {
		return pkgerrors.NewConfigurationError("EnvelopeFilterOrder", o.EnvelopeFilterOrder, "filter order must be an even integer >= 2")
	}
	if o.SilenceThresholdFactor <= 0 {
		return pkgerrors.NewConfigurationError("SilenceThresholdFactor", o.SilenceThresholdFactor, "silence threshold factor must be positive")
	}
	if o.MinPauseDuration <= 0 {
		return pkgerrors.NewConfigurationError("MinPauseDuration", o.MinPauseDuration, "minimum pause duration must be positive")
	}
	if o.ZCRThreshold < 0 || o.ZCRThreshold > 1 {
		return pkgerrors.NewConfigurationError("ZCRThreshold", o.ZCRThreshold, "ZCR threshold must be in [0,1]")
	}
	if o.BreathEnergyRatio <= 0 {
		return pkgerrors.NewConfigurationError("BreathEnergyRatio", o.BreathEnergyRatio, "breath energy ratio must be positive")
	}
	if o.PitchFloorHz <= 0 || o.PitchFloorHz >= o.PitchCeilingHz {
		return pkgerrors.NewConfigurationError("PitchFloorHz", o.PitchFloorHz, "pitch floor must be positive and below the ceiling")
	}
	if o.PitchCeilingHz >= nyquist {
		return pkgerrors.NewConfigurationError("PitchCeilingHz", o.PitchCeilingHz, "pitch ceiling must be below Nyquist")
	}
	if o.VoicingThreshold <= 0 || o.VoicingThreshold >= 1 {
		return pkgerrors.NewConfigurationError("VoicingThreshold", o.VoicingThreshold, "voicing threshold must be in (0,1)")
	}
	if o.FrameLength <= 0 {
		return pkgerrors.NewConfigurationError("FrameLength", o.FrameLength, "frame length must be positive")
	}
	if o.HopLength <= 0 || o.HopLength > o.FrameLength {
		return pkgerrors.NewConfigurationError("HopLength", o.HopLength, "hop length must be positive and no larger than frame length")
	}
	if o.Workers <= 0 {
		return pkgerrors.NewConfigurationError("Workers", o.Workers, "worker count must be positive")
	}
	return nil
}

// Clone returns a copy so option application never mutates shared defaults.
func (o *AnalysisOptions) Clone() *AnalysisOptions {
	c := *o
	return &c
}
