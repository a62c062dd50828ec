package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestDefinedStatRejectsNonFinite(t *testing.T) {
	if s := DefinedStat(math.NaN()); s.Defined {
		t.Error("NaN produced a defined statistic")
	}
	if s := DefinedStat(math.Inf(1)); s.Defined {
		t.Error("+Inf produced a defined statistic")
	}
	if s := DefinedStat(1.5); !s.Defined || s.Value != 1.5 {
		t.Errorf("DefinedStat(1.5) = %+v", s)
	}
}

func TestStatJSONRoundTrip(t *testing.T) {
	in := ProsodyFeatures{
		F0Mean:      DefinedStat(187.5),
		VoicedRatio: 0.8,
		// JitterLocal left undefined
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	if raw["f0_mean"] != 187.5 {
		t.Errorf("f0_mean = %v, want 187.5", raw["f0_mean"])
	}
	if v, present := raw["jitter_local"]; !present || v != nil {
		t.Errorf("jitter_local = %v, want explicit null", v)
	}

	var out ProsodyFeatures
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !out.F0Mean.Defined || out.F0Mean.Value != 187.5 {
		t.Errorf("F0Mean = %+v after round trip", out.F0Mean)
	}
	if out.JitterLocal.Defined {
		t.Error("undefined statistic became defined after round trip")
	}
}

func TestAudioSignalDuration(t *testing.T) {
	sig := &AudioSignal{Samples: make([]float64, 8000), SampleRate: 16000}
	if d := sig.Duration(); math.Abs(d-0.5) > 1e-12 {
		t.Errorf("Duration = %f, want 0.5", d)
	}

	var nilSig *AudioSignal
	if nilSig.Duration() != 0 {
		t.Error("nil signal duration should be 0")
	}
	if (&AudioSignal{Samples: []float64{1}}).Duration() != 0 {
		t.Error("zero sample rate duration should be 0")
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultAnalysisOptions().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*AnalysisOptions)
	}{
		{"zero sample rate", func(o *AnalysisOptions) { o.TargetSampleRate = 0 }},
		{"cutoff above Nyquist", func(o *AnalysisOptions) { o.EnvelopeCutoffHz = 9000 }},
		{"odd filter order", func(o *AnalysisOptions) { o.EnvelopeFilterOrder = 3 }},
		{"negative min pause", func(o *AnalysisOptions) { o.MinPauseDuration = -0.1 }},
		{"zcr above one", func(o *AnalysisOptions) { o.ZCRThreshold = 1.5 }},
		{"floor above ceiling", func(o *AnalysisOptions) { o.PitchFloorHz = 600 }},
		{"ceiling above Nyquist", func(o *AnalysisOptions) { o.PitchCeilingHz = 9000 }},
		{"voicing at one", func(o *AnalysisOptions) { o.VoicingThreshold = 1.0 }},
		{"hop above frame", func(o *AnalysisOptions) { o.HopLength = 4096 }},
		{"zero workers", func(o *AnalysisOptions) { o.Workers = 0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opts := DefaultAnalysisOptions()
			c.mutate(opts)
			if err := opts.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOptionsClone(t *testing.T) {
	a := DefaultAnalysisOptions()
	b := a.Clone()
	b.MinPauseDuration = 0.5
	if a.MinPauseDuration == b.MinPauseDuration {
		t.Error("clone shares state with original")
	}
}
