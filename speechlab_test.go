package speechlab

import (
	"context"
	"math"
	"testing"

	"github.com/clinspeech/speechlab/pkg/logger"
)

func TestAnalyzeSignalEndToEnd(t *testing.T) {
	analyzer, err := New(Config{Logger: logger.Nop()})
	if err != nil {
		t.Fatalf("failed to create analyzer: %v", err)
	}
	defer analyzer.Close()

	const sr = 16000
	samples := make([]float64, 3*sr)
	for i := range samples {
		ts := float64(i) / sr
		if ts >= 1.0 && ts < 2.0 {
			continue
		}
		samples[i] = 0.5 * math.Sin(2*math.Pi*200*ts)
	}

	result, err := analyzer.AnalyzeSignal(context.Background(), &AudioSignal{Samples: samples, SampleRate: sr})
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	if len(result.Segments) == 0 {
		t.Fatal("expected the central pause to be detected")
	}
	if result.Segments[0].Type != SegmentPathological {
		t.Errorf("digital-silence pause classified %s, want %s", result.Segments[0].Type, SegmentPathological)
	}
	if !result.Metrics.F0Mean.Defined {
		t.Error("F0Mean undefined for a voiced signal")
	}
	if math.Abs(result.Metrics.F0Mean.Value-200) > 3 {
		t.Errorf("F0Mean = %f, want ~200", result.Metrics.F0Mean.Value)
	}
}

func TestAnalyzeSignalWithOptions(t *testing.T) {
	analyzer, err := New(Config{Logger: logger.Nop()})
	if err != nil {
		t.Fatalf("failed to create analyzer: %v", err)
	}
	defer analyzer.Close()

	const sr = 16000
	samples := make([]float64, sr)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*150*float64(i)/float64(sr))
	}

	// A pitch range excluding 150 Hz leaves the signal without any
	// admissible f0 candidate.
	result, err := analyzer.AnalyzeSignal(context.Background(),
		&AudioSignal{Samples: samples, SampleRate: sr},
		WithPitchRange(300, 500),
	)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	if result.Metrics.F0Mean.Defined && (result.Metrics.F0Mean.Value < 300 || result.Metrics.F0Mean.Value > 500) {
		t.Errorf("F0Mean = %f outside configured range", result.Metrics.F0Mean.Value)
	}
}
