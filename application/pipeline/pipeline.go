package pipeline

import (
	"context"
	"time"

	"github.com/clinspeech/speechlab/application/analysis"
	"github.com/clinspeech/speechlab/domain/model"
	pkgerrors "github.com/clinspeech/speechlab/pkg/errors"
	"github.com/clinspeech/speechlab/pkg/logger"
	"github.com/clinspeech/speechlab/pkg/progress"
	"go.uber.org/zap"
)

// Job holds the state of a single analysis operation. The signal is
// already decoded; file IO belongs to the caller.
type Job struct {
	ID       string
	Source   string // original path or label, informational only
	Signal   *model.AudioSignal
	Options  *model.AnalysisOptions
	Reporter progress.Reporter
	Log      *logger.Logger
}

// Pipeline orchestrates the analysis stages over one decoded signal:
// envelope extraction, pause segmentation, rate metrics, prosody and
// final aggregation. Stateless between runs; safe for concurrent use.
type Pipeline struct {
	log *logger.Logger
}

// NewPipeline creates a new analysis pipeline
func NewPipeline(log *logger.Logger) *Pipeline {
	return &Pipeline{log: log}
}

// Run executes the full pipeline for a job
func (p *Pipeline) Run(ctx context.Context, job *Job) (*model.AnalysisResult, error) {
	start := time.Now()

	if err := p.validateInput(job); err != nil {
		return nil, err
	}
	opts := job.Options

	// Envelope
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	extractor := analysis.NewEnvelopeExtractor(opts.EnvelopeCutoffHz, opts.EnvelopeFilterOrder)
	env, err := extractor.Extract(job.Signal)
	if err != nil {
		return nil, err
	}
	job.report(progress.StageEnvelope, 25, "envelope extracted")

	// Segmentation
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	segmenter := analysis.NewSegmenter(opts)
	segments, profile, err := segmenter.Segment(job.Signal, env)
	if err != nil {
		return nil, err
	}
	job.report(progress.StageSegment, 45, "pauses segmented")

	// Timing metrics
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rateMetrics := analysis.ComputeRateMetrics(job.Signal, env, segments, profile)
	job.report(progress.StageRates, 55, "timing metrics computed")

	// Prosody
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prosody, err := analysis.NewProsodyExtractor(opts).Extract(job.Signal)
	if err != nil {
		return nil, err
	}
	job.report(progress.StageProsody, 90, "prosody extracted")

	// Aggregate
	metrics, err := analysis.MergeMetrics(&rateMetrics, &prosody)
	if err != nil {
		return nil, err
	}
	job.report(progress.StageAggregate, 95, "metrics merged")

	p.log.Debug("analysis complete",
		zap.String("job_id", job.ID),
		zap.Int("segments", len(segments)),
		zap.Duration("elapsed", time.Since(start)),
	)
	job.report(progress.StageDone, 100, "done")

	return &model.AnalysisResult{
		Source:     job.Source,
		SampleRate: job.Signal.SampleRate,
		Segments:   segments,
		Metrics:    *metrics,
		Elapsed:    time.Since(start),
		AnalyzedAt: time.Now(),
	}, nil
}

func (p *Pipeline) validateInput(job *Job) error {
	if job.Signal == nil || len(job.Signal.Samples) == 0 {
		return pkgerrors.NewInsufficientDataError("signal has no samples")
	}
	if job.Signal.SampleRate <= 0 {
		return pkgerrors.NewConfigurationError("SampleRate", job.Signal.SampleRate, "signal sample rate must be positive")
	}
	if job.Options == nil {
		return pkgerrors.NewConfigurationError("Options", nil, "analysis options are required")
	}
	return job.Options.Validate()
}

// report is a helper to emit progress updates
func (j *Job) report(stage progress.Stage, percent float64, msg string) {
	if j.Reporter == nil {
		return
	}
	j.Reporter.Report(progress.Update{
		JobID:     j.ID,
		Stage:     stage,
		Percent:   percent,
		Message:   msg,
		Timestamp: time.Now(),
	})
}
