package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/clinspeech/speechlab/domain/model"
	"github.com/clinspeech/speechlab/domain/ports"
	"github.com/clinspeech/speechlab/pkg/logger"
	"github.com/clinspeech/speechlab/pkg/progress"
	"go.uber.org/zap"
)

// WorkerPool manages concurrent batch analysis
type WorkerPool struct {
	pipeline *Pipeline
	decoder  ports.SignalDecoder
	workers  int
	log      *logger.Logger
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(p *Pipeline, decoder ports.SignalDecoder, workers int, log *logger.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 4
	}
	return &WorkerPool{
		pipeline: p,
		decoder:  decoder,
		workers:  workers,
		log:      log,
	}
}

// Run analyzes batch jobs concurrently and sends results to the returned
// channel. The channel is closed when all jobs are complete or the context
// is canceled. Result order follows completion, not submission.
func (wp *WorkerPool) Run(ctx context.Context, jobs []model.BatchJob, reporter progress.Reporter) (<-chan model.BatchResult, error) {
	results := make(chan model.BatchResult, len(jobs))

	go func() {
		defer close(results)

		jobCh := make(chan model.BatchJob, len(jobs))
		for _, j := range jobs {
			jobCh <- j
		}
		close(jobCh)

		var wg sync.WaitGroup
		semaphore := make(chan struct{}, wp.workers)

		for job := range jobCh {
			select {
			case <-ctx.Done():
				results <- model.BatchResult{
					JobID:     job.ID,
					InputPath: job.InputPath,
					Err:       ctx.Err(),
				}
				continue
			case semaphore <- struct{}{}:
			}

			wg.Add(1)
			go func(j model.BatchJob) {
				defer wg.Done()
				defer func() { <-semaphore }()

				result, err := wp.processJob(ctx, j, reporter)
				results <- model.BatchResult{
					JobID:     j.ID,
					InputPath: j.InputPath,
					Result:    result,
					Err:       err,
				}
			}(job)
		}

		wg.Wait()
	}()

	return results, nil
}

func (wp *WorkerPool) processJob(ctx context.Context, job model.BatchJob, reporter progress.Reporter) (*model.AnalysisResult, error) {
	opts := job.Options
	if opts == nil {
		opts = model.DefaultAnalysisOptions()
	}

	wp.log.Info("analyzing batch job",
		zap.String("job_id", job.ID),
		zap.String("input", job.InputPath),
	)

	sig, err := wp.decoder.Decode(ctx, job.InputPath, opts.TargetSampleRate)
	if err != nil {
		wp.log.Error("batch job decode failed",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("job %s failed: %w", job.ID, err)
	}

	pipelineJob := &Job{
		ID:       job.ID,
		Source:   job.InputPath,
		Signal:   sig,
		Options:  opts,
		Reporter: reporter,
		Log:      wp.log.With(zap.String("job_id", job.ID)),
	}

	result, err := wp.pipeline.Run(ctx, pipelineJob)
	if err != nil {
		wp.log.Error("batch job failed",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("job %s failed: %w", job.ID, err)
	}

	return result, nil
}
