package analysis

import (
	"math"
	"testing"

	"github.com/clinspeech/speechlab/domain/model"
)

// pausedToneSignal is a steady tone with one digital-silence gap.
func pausedToneSignal(sr int, total, pauseStart, pauseEnd float64) *model.AudioSignal {
	n := int(total * float64(sr))
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / float64(sr)
		if t >= pauseStart && t < pauseEnd {
			continue
		}
		samples[i] = 0.5 * math.Sin(2*math.Pi*200*t)
	}
	return &model.AudioSignal{Samples: samples, SampleRate: sr}
}

func extractEnvelope(t *testing.T, sig *model.AudioSignal) model.Envelope {
	t.Helper()
	env, err := NewEnvelopeExtractor(50, 4).Extract(sig)
	if err != nil {
		t.Fatalf("envelope extraction failed: %v", err)
	}
	return env
}

func TestSegmentAllSilent(t *testing.T) {
	// Digital silence must yield exactly one pause covering the whole
	// signal, classified pathological.
	sr := 16000
	sig := &model.AudioSignal{Samples: make([]float64, sr), SampleRate: sr}
	env := extractEnvelope(t, sig)

	segments, profile, err := NewSegmenter(model.DefaultAnalysisOptions()).Segment(sig, env)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}

	if profile.EnvelopeFloor != 0 || profile.EnergyFloor != 0 {
		t.Errorf("expected zero noise floors, got %+v", profile)
	}
	if len(segments) != 1 {
		t.Fatalf("segment count = %d, want 1", len(segments))
	}
	seg := segments[0]
	if seg.Start != 0 || math.Abs(seg.End-1.0) > 1e-9 {
		t.Errorf("segment span [%f, %f], want [0, 1]", seg.Start, seg.End)
	}
	if seg.Type != model.SegmentPathological {
		t.Errorf("segment type = %s, want pathological", seg.Type)
	}
}

func TestSegmentDetectsCentralPause(t *testing.T) {
	sr := 16000
	sig := pausedToneSignal(sr, 3.0, 1.0, 2.0)
	env := extractEnvelope(t, sig)

	segments, _, err := NewSegmenter(model.DefaultAnalysisOptions()).Segment(sig, env)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("segment count = %d, want 1", len(segments))
	}
	seg := segments[0]
	if seg.Start < 0.9 || seg.Start > 1.2 {
		t.Errorf("segment start = %f, want within pause", seg.Start)
	}
	if seg.End < 1.8 || seg.End > 2.1 {
		t.Errorf("segment end = %f, want within pause", seg.End)
	}
	if seg.Type != model.SegmentPathological {
		t.Errorf("digital-silence pause classified %s, want pathological", seg.Type)
	}
}

func TestSegmentNoPauseInSteadyTone(t *testing.T) {
	// 250 Hz over 2.048s at 16 kHz is exactly periodic in the FFT size,
	// so the envelope is flat and no leakage ripple can fake a pause.
	sr := 16000
	sig := toneSignal(250, 0.5, 2.048, sr)
	env := extractEnvelope(t, sig)

	segments, _, err := NewSegmenter(model.DefaultAnalysisOptions()).Segment(sig, env)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}
	for _, seg := range segments {
		// Edge transients may dip briefly; nothing should reach the
		// minimum pause duration in a steady tone.
		t.Errorf("unexpected segment [%f, %f] in steady tone", seg.Start, seg.End)
	}
}

func TestSegmentSuppressesTinyGap(t *testing.T) {
	// A 50 ms gap is well under the 150 ms minimum and must not surface.
	sr := 16000
	sig := pausedToneSignal(sr, 2.0, 1.0, 1.05)
	env := extractEnvelope(t, sig)

	segments, _, err := NewSegmenter(model.DefaultAnalysisOptions()).Segment(sig, env)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}
	if len(segments) != 0 {
		t.Errorf("tiny gap reported as %d segment(s)", len(segments))
	}
}

func TestSegmentMinPauseSuppression(t *testing.T) {
	// Raising the minimum pause duration above the gap removes it.
	sr := 16000
	sig := pausedToneSignal(sr, 3.0, 1.0, 1.5)
	env := extractEnvelope(t, sig)

	opts := model.DefaultAnalysisOptions()
	short, _, err := NewSegmenter(opts).Segment(sig, env)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}

	opts.MinPauseDuration = 2.0
	long, _, err := NewSegmenter(opts).Segment(sig, env)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}

	if len(long) > len(short) {
		t.Errorf("raising MinPauseDuration increased segments: %d -> %d", len(short), len(long))
	}
	if len(long) != 0 {
		t.Errorf("0.5s pause survived a 2.0s minimum: %d segments", len(long))
	}
}

func TestSegmentBreathBurst(t *testing.T) {
	// A high-ZCR, non-zero-energy burst whose envelope reads as silence
	// classifies as breath when the energy floor comes from true silence.
	sr := 16000
	n := 2 * sr
	samples := make([]float64, n)
	env := make(model.Envelope, n)

	silenceEnd := int(0.4 * float64(sr))
	burstStart := int(1.5 * float64(sr))
	burstEnd := int(1.8 * float64(sr))

	for i := 0; i < n; i++ {
		t := float64(i) / float64(sr)
		switch {
		case i < silenceEnd:
			// true silence: zero samples, zero envelope
		case i >= burstStart && i < burstEnd:
			samples[i] = 0.1 * math.Sin(2*math.Pi*1600*t)
			env[i] = 0
		default:
			samples[i] = 0.5 * math.Sin(2*math.Pi*200*t)
			env[i] = 0.5
		}
	}

	sig := &model.AudioSignal{Samples: samples, SampleRate: sr}
	segments, profile, err := NewSegmenter(model.DefaultAnalysisOptions()).Segment(sig, env)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}

	if profile.EnergyFloor != 0 {
		t.Fatalf("energy floor = %g, want 0 from the leading silence", profile.EnergyFloor)
	}
	if len(segments) != 2 {
		t.Fatalf("segment count = %d, want 2", len(segments))
	}
	if segments[0].Type != model.SegmentPathological {
		t.Errorf("leading silence classified %s, want pathological", segments[0].Type)
	}
	if segments[1].Type != model.SegmentBreath {
		t.Errorf("burst classified %s, want breath (zcr=%f energy=%g)",
			segments[1].Type, segments[1].ZCR, segments[1].Energy)
	}
}

func TestSegmentOrderingInvariants(t *testing.T) {
	sr := 16000
	sig := pausedToneSignal(sr, 4.0, 1.0, 1.3)
	for i := range sig.Samples {
		t := float64(i) / float64(sr)
		if t >= 2.5 && t < 3.0 {
			sig.Samples[i] = 0
		}
	}
	env := extractEnvelope(t, sig)

	segments, _, err := NewSegmenter(model.DefaultAnalysisOptions()).Segment(sig, env)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}

	for i, seg := range segments {
		if seg.Start >= seg.End {
			t.Errorf("segment %d has Start >= End: %+v", i, seg)
		}
		if i > 0 && segments[i-1].End > seg.Start {
			t.Errorf("segments %d and %d overlap", i-1, i)
		}
	}
}

func TestSegmentLengthMismatch(t *testing.T) {
	sig := toneSignal(200, 0.5, 1.0, 16000)
	_, _, err := NewSegmenter(model.DefaultAnalysisOptions()).Segment(sig, make(model.Envelope, 10))
	if err == nil {
		t.Fatal("expected error for mismatched envelope length")
	}
}

func TestSegmentDeterministic(t *testing.T) {
	sr := 16000
	sig := pausedToneSignal(sr, 3.0, 1.0, 2.0)
	env := extractEnvelope(t, sig)
	seg := NewSegmenter(model.DefaultAnalysisOptions())

	a, profA, err := seg.Segment(sig, env)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}
	b, profB, err := seg.Segment(sig, env)
	if err != nil {
		t.Fatalf("segment failed: %v", err)
	}

	if profA != profB {
		t.Errorf("noise profiles differ: %+v vs %+v", profA, profB)
	}
	if len(a) != len(b) {
		t.Fatalf("segment counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("segment %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
