package pipeline

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/clinspeech/speechlab/domain/model"
	"github.com/clinspeech/speechlab/pkg/logger"
	"github.com/clinspeech/speechlab/pkg/progress"
)

func speechWithPause(sr int) *model.AudioSignal {
	samples := make([]float64, 3*sr)
	for i := range samples {
		t := float64(i) / float64(sr)
		if t >= 1.0 && t < 2.0 {
			continue
		}
		samples[i] = 0.5 * math.Sin(2*math.Pi*200*t)
	}
	return &model.AudioSignal{Samples: samples, SampleRate: sr}
}

func newJob(sig *model.AudioSignal) *Job {
	return &Job{
		ID:      "test-job",
		Signal:  sig,
		Options: model.DefaultAnalysisOptions(),
		Log:     logger.Nop(),
	}
}

func TestPipelineRun(t *testing.T) {
	p := NewPipeline(logger.Nop())
	result, err := p.Run(context.Background(), newJob(speechWithPause(16000)))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", result.SampleRate)
	}
	if len(result.Segments) == 0 {
		t.Error("expected at least one pause segment")
	}
	if math.Abs(result.Metrics.TotalDuration-3.0) > 1e-9 {
		t.Errorf("TotalDuration = %f, want 3.0", result.Metrics.TotalDuration)
	}
	if !result.Metrics.F0Mean.Defined {
		t.Error("F0Mean undefined for voiced signal")
	}
	if result.AnalyzedAt.IsZero() {
		t.Error("AnalyzedAt not set")
	}
}

func TestPipelineIdempotent(t *testing.T) {
	// Identical signal and options produce identical segments and metrics.
	p := NewPipeline(logger.Nop())
	sig := speechWithPause(16000)

	first, err := p.Run(context.Background(), newJob(sig))
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := p.Run(context.Background(), newJob(sig))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !reflect.DeepEqual(first.Segments, second.Segments) {
		t.Error("segments differ between identical runs")
	}
	if !reflect.DeepEqual(first.Metrics, second.Metrics) {
		t.Error("metrics differ between identical runs")
	}
}

func TestPipelineProgressStages(t *testing.T) {
	ch := make(chan progress.Update, 32)
	job := newJob(speechWithPause(16000))
	job.Reporter = progress.NewChannelReporter(ch)

	p := NewPipeline(logger.Nop())
	if _, err := p.Run(context.Background(), job); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	close(ch)

	seen := map[progress.Stage]bool{}
	for upd := range ch {
		if upd.JobID != "test-job" {
			t.Errorf("unexpected job ID %q", upd.JobID)
		}
		seen[upd.Stage] = true
	}
	for _, stage := range []progress.Stage{
		progress.StageEnvelope, progress.StageSegment, progress.StageRates,
		progress.StageProsody, progress.StageAggregate, progress.StageDone,
	} {
		if !seen[stage] {
			t.Errorf("stage %s never reported", stage)
		}
	}
}

func TestPipelineCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(logger.Nop())
	if _, err := p.Run(ctx, newJob(speechWithPause(16000))); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestPipelineValidation(t *testing.T) {
	p := NewPipeline(logger.Nop())
	ctx := context.Background()

	if _, err := p.Run(ctx, &Job{Options: model.DefaultAnalysisOptions()}); err == nil {
		t.Error("expected error for missing signal")
	}

	sig := speechWithPause(16000)
	if _, err := p.Run(ctx, &Job{Signal: sig}); err == nil {
		t.Error("expected error for missing options")
	}

	bad := model.DefaultAnalysisOptions()
	bad.MinPauseDuration = -1
	if _, err := p.Run(ctx, &Job{Signal: sig, Options: bad}); err == nil {
		t.Error("expected error for invalid options")
	}

	noRate := &model.AudioSignal{Samples: []float64{0.1, 0.2}}
	if _, err := p.Run(ctx, &Job{Signal: noRate, Options: model.DefaultAnalysisOptions()}); err == nil {
		t.Error("expected error for zero sample rate")
	}
}
