package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/clinspeech/speechlab/application/pipeline"
	"github.com/clinspeech/speechlab/domain/model"
	"github.com/clinspeech/speechlab/domain/ports"
	"github.com/clinspeech/speechlab/pkg/cache"
	pkgerrors "github.com/clinspeech/speechlab/pkg/errors"
	"github.com/clinspeech/speechlab/pkg/logger"
	"github.com/clinspeech/speechlab/pkg/progress"
)

// AnalysisService is the main application service implementing
// ports.SpeechAnalyzer. File-level results are cached by content
// fingerprint, so re-analyzing an unchanged file is free.
type AnalysisService struct {
	pipeline   *pipeline.Pipeline
	workerPool *pipeline.WorkerPool
	decoder    ports.SignalDecoder
	storage    ports.StorageProvider
	reporter   progress.Reporter
	results    *cache.Cache[*model.AnalysisResult]
	log        *logger.Logger
}

// Config holds AnalysisService configuration
type Config struct {
	Decoder   ports.SignalDecoder
	Storage   ports.StorageProvider
	Reporter  progress.Reporter
	Logger    *logger.Logger
	Workers   int
	CacheSize int
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(cfg Config) (*AnalysisService, error) {
	if cfg.Decoder == nil {
		return nil, fmt.Errorf("SignalDecoder is required")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("StorageProvider is required")
	}

	log := cfg.Logger
	if log == nil {
		var err error
		log, err = logger.New(false)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	reporter := cfg.Reporter
	if reporter == nil {
		reporter = progress.NoopReporter{}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = 64
	}

	p := pipeline.NewPipeline(log)
	wp := pipeline.NewWorkerPool(p, cfg.Decoder, workers, log)

	return &AnalysisService{
		pipeline:   p,
		workerPool: wp,
		decoder:    cfg.Decoder,
		storage:    cfg.Storage,
		reporter:   reporter,
		results:    cache.New[*model.AnalysisResult](cacheSize),
		log:        log,
	}, nil
}

// AnalyzeFile decodes and analyzes a single audio file with optional
// configuration. Identical file content analyzed with identical options
// returns the cached result.
func (s *AnalysisService) AnalyzeFile(ctx context.Context, inputPath string, opts ...ports.Option) (*model.AnalysisResult, error) {
	options := applyOptions(opts)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.storage.Exists(ctx, inputPath)
	if err != nil {
		return nil, pkgerrors.NewProcessingError("validate", "failed to check input file", err)
	}
	if !exists {
		return nil, pkgerrors.NewDecodeError(inputPath, "input file does not exist", os.ErrNotExist)
	}

	key, err := resultKey(inputPath, options)
	if err != nil {
		return nil, pkgerrors.NewProcessingError("fingerprint", "failed to fingerprint input file", err)
	}

	return s.results.GetOrCompute(key, func() (*model.AnalysisResult, error) {
		s.log.Info("starting analysis",
			zap.String("input", inputPath),
			zap.Int("target_sample_rate", options.TargetSampleRate),
		)

		sig, err := s.decoder.Decode(ctx, inputPath, options.TargetSampleRate)
		if err != nil {
			s.log.Error("decode failed", zap.String("input", inputPath), zap.Error(err))
			return nil, err
		}

		job := &pipeline.Job{
			ID:       uuid.NewString(),
			Source:   inputPath,
			Signal:   sig,
			Options:  options,
			Reporter: s.reporter,
			Log:      s.log,
		}
		job.Reporter.Report(progress.Update{JobID: job.ID, Stage: progress.StageDecode, Percent: 10, Message: "decoded"})

		result, err := s.pipeline.Run(ctx, job)
		if err != nil {
			s.log.Error("analysis failed", zap.String("input", inputPath), zap.Error(err))
			return nil, err
		}

		s.log.Info("analysis completed",
			zap.String("input", inputPath),
			zap.Int("segments", len(result.Segments)),
			zap.Duration("elapsed", result.Elapsed),
		)
		return result, nil
	})
}

// AnalyzeSignal analyzes an already-decoded signal. Results are not cached;
// in-memory signals carry no stable identity.
func (s *AnalysisService) AnalyzeSignal(ctx context.Context, sig *model.AudioSignal, opts ...ports.Option) (*model.AnalysisResult, error) {
	options := applyOptions(opts)

	job := &pipeline.Job{
		ID:       uuid.NewString(),
		Signal:   sig,
		Options:  options,
		Reporter: s.reporter,
		Log:      s.log,
	}
	return s.pipeline.Run(ctx, job)
}

// AnalyzeBatch analyzes multiple jobs concurrently
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, jobs []model.BatchJob) (<-chan model.BatchResult, error) {
	if len(jobs) == 0 {
		ch := make(chan model.BatchResult)
		close(ch)
		return ch, nil
	}

	s.log.Info("starting batch analysis", zap.Int("job_count", len(jobs)))
	return s.workerPool.Run(ctx, jobs, s.reporter)
}

// AnalyzeDirectory discovers audio files under root and analyzes them all.
// Per-file failures are aggregated into the returned error; successful
// results are returned regardless.
func (s *AnalysisService) AnalyzeDirectory(ctx context.Context, root string, opts ...ports.Option) ([]*model.AnalysisResult, error) {
	files, err := s.storage.FindAudioFiles(ctx, root)
	if err != nil {
		return nil, pkgerrors.NewProcessingError("discover", "failed to list audio files", err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	options := applyOptions(opts)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	jobs := make([]model.BatchJob, 0, len(files))
	for _, f := range files {
		jobs = append(jobs, model.BatchJob{
			ID:        uuid.NewString(),
			InputPath: f,
			Options:   options,
		})
	}

	resultsCh, err := s.workerPool.Run(ctx, jobs, s.reporter)
	if err != nil {
		return nil, err
	}

	var results []*model.AnalysisResult
	var errs error
	for res := range resultsCh {
		if res.Err != nil {
			errs = multierr.Append(errs, res.Err)
			continue
		}
		results = append(results, res.Result)
	}
	return results, errs
}

func applyOptions(opts []ports.Option) *model.AnalysisOptions {
	options := model.DefaultAnalysisOptions()
	for _, o := range opts {
		o(options)
	}
	return options
}

// resultKey fingerprints the file content together with the option set, so
// a changed file or changed parameters never hit a stale cache entry.
func resultKey(path string, opts *model.AnalysisOptions) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	fmt.Fprintf(h, "%+v", *opts)
	return hex.EncodeToString(h.Sum(nil)), nil
}
