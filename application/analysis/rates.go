package analysis

import (
	"github.com/clinspeech/speechlab/domain/model"
)

// ComputeRateMetrics derives the speech-timing scalars from the envelope
// and the pause segment list.
//
// SpeechDuration is sample-granular: the proportion of envelope samples
// above the silence threshold. NetSpeechDuration is segment-granular:
// total duration minus the summed pause durations. The two can differ
// slightly (sub-minimum gaps count as speech in the latter only) and are
// exposed separately.
func ComputeRateMetrics(sig *model.AudioSignal, env model.Envelope, segments []model.PauseSegment, profile NoiseProfile) model.SegmentationMetrics {
	total := sig.Duration()
	sr := float64(sig.SampleRate)

	speechSamples := 0
	for _, v := range env {
		if v > profile.SilenceThreshold {
			speechSamples++
		}
	}
	speechDuration := float64(speechSamples) / sr

	var pauseDuration, pathologicalDuration float64
	breathCount := 0
	for _, seg := range segments {
		d := seg.SegmentDuration()
		pauseDuration += d
		switch seg.Type {
		case model.SegmentPathological:
			pathologicalDuration += d
		case model.SegmentBreath:
			breathCount++
		}
	}
	netSpeech := total - pauseDuration

	return model.SegmentationMetrics{
		TotalDuration:      total,
		SpeechDuration:     speechDuration,
		NetSpeechDuration:  netSpeech,
		PauseDuration:      pauseDuration,
		SpeakingRate:       speechDuration / total,
		ArticulationRate:   netSpeech / total,
		PauseRate:          pauseDuration / total,
		PathologicalRate:   pathologicalDuration / total,
		PathologicalLength: pathologicalDuration,
		BreathCount:        breathCount,
		BreathFrequency:    float64(breathCount) / total,
	}
}
