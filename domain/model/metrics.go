package model

import (
	"encoding/json"
	"math"
)

// Stat is a tagged optional statistic. A statistic whose preconditions were
// not met (no voiced frames, too few periods) is Undefined rather than NaN,
// so inability states never propagate silently into aggregates.
type Stat struct {
	Value   float64
	Defined bool
}

// DefinedStat returns a defined statistic. Non-finite values degrade to
// undefined rather than leaking NaN/Inf into results.
func DefinedStat(v float64) Stat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Stat{}
	}
	return Stat{Value: v, Defined: true}
}

// UndefinedStat returns the undefined sentinel.
func UndefinedStat() Stat {
	return Stat{}
}

// MarshalJSON encodes undefined statistics as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON decodes null as undefined.
func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Stat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = DefinedStat(v)
	return nil
}

// SegmentationMetrics holds the timing metrics derived from the envelope and
// the pause segment list. SpeechDuration is sample-granular (envelope above
// the silence threshold) while NetSpeechDuration is segment-granular (total
// minus pause durations); the two are related but deliberately not conflated.
type SegmentationMetrics struct {
	TotalDuration      float64 `json:"total_duration"`       // seconds
	SpeechDuration     float64 `json:"speech_duration"`      // seconds, sample-granular
	NetSpeechDuration  float64 `json:"net_speech_duration"`  // seconds, total - pauses
	PauseDuration      float64 `json:"total_pause_duration"` // seconds, all pauses
	SpeakingRate       float64 `json:"speaking_rate"`        // SpeechDuration / TotalDuration
	ArticulationRate   float64 `json:"articulation_rate"`    // NetSpeechDuration / TotalDuration
	PauseRate          float64 `json:"pause_rate"`           // PauseDuration / TotalDuration
	PathologicalRate   float64 `json:"pathological_pause_rate"`
	PathologicalLength float64 `json:"pathological_duration"` // seconds
	BreathCount        int     `json:"breath_count"`
	BreathFrequency    float64 `json:"breath_frequency"` // breaths per second
}

// ProsodyFeatures is the fixed-shape record of voice-quality statistics.
// Pitch and perturbation fields are Undefined when no (or too few) voiced
// frames exist; intensity fields are not pitch-gated.
type ProsodyFeatures struct {
	F0Mean      Stat `json:"f0_mean"`  // Hz
	F0Std       Stat `json:"f0_std"`   // Hz
	F0Min       Stat `json:"f0_min"`   // Hz
	F0Max       Stat `json:"f0_max"`   // Hz
	F0Range     Stat `json:"f0_range"` // Hz
	F0CV        Stat `json:"f0_cv"`    // std/mean, dimensionless
	VoicedRatio float64 `json:"voiced_ratio"` // voiced frames / total frames, [0,1]

	JitterLocal Stat `json:"jitter_local"` // dimensionless ratio
	JitterRAP   Stat `json:"jitter_rap"`
	JitterPPQ5  Stat `json:"jitter_ppq5"`

	ShimmerLocal Stat `json:"shimmer_local"` // dimensionless ratio
	ShimmerDB    Stat `json:"shimmer_db"`    // dB
	ShimmerAPQ5  Stat `json:"shimmer_apq5"`

	IntensityMean  Stat `json:"intensity_mean"` // linear RMS amplitude
	IntensityStd   Stat `json:"intensity_std"`
	IntensityMin   Stat `json:"intensity_min"`
	IntensityMax   Stat `json:"intensity_max"`
	IntensityRange Stat `json:"intensity_range"`
}

// MetricsResult is the union of segmentation-derived and prosody-derived
// metrics; the sole record exported to rendering/export collaborators.
type MetricsResult struct {
	SegmentationMetrics
	ProsodyFeatures
}
