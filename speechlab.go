package speechlab

import (
	"context"

	"go.uber.org/zap"

	"github.com/clinspeech/speechlab/application/usecase"
	"github.com/clinspeech/speechlab/domain/model"
	"github.com/clinspeech/speechlab/domain/ports"
	"github.com/clinspeech/speechlab/infrastructure/storage"
	"github.com/clinspeech/speechlab/infrastructure/wavio"
	"github.com/clinspeech/speechlab/pkg/logger"
	"github.com/clinspeech/speechlab/pkg/progress"
)

// Re-export types for convenient use by callers
type (
	AudioSignal     = model.AudioSignal
	AnalysisResult  = model.AnalysisResult
	AnalysisOptions = model.AnalysisOptions
	PauseSegment    = model.PauseSegment
	SegmentType     = model.SegmentType
	MetricsResult   = model.MetricsResult
	Stat            = model.Stat
	BatchJob        = model.BatchJob
	BatchResult     = model.BatchResult
	ProgressUpdate  = progress.Update
	ProgressStage   = progress.Stage
)

// Re-export segment and stage constants
const (
	SegmentBreath       = model.SegmentBreath
	SegmentPathological = model.SegmentPathological

	StageDecode    = progress.StageDecode
	StageEnvelope  = progress.StageEnvelope
	StageSegment   = progress.StageSegment
	StageRates     = progress.StageRates
	StageProsody   = progress.StageProsody
	StageAggregate = progress.StageAggregate
	StageDone      = progress.StageDone
)

// Re-export option functions
var (
	WithTargetSampleRate       = ports.WithTargetSampleRate
	WithEnvelopeCutoff         = ports.WithEnvelopeCutoff
	WithEnvelopeFilterOrder    = ports.WithEnvelopeFilterOrder
	WithSilenceThresholdFactor = ports.WithSilenceThresholdFactor
	WithMinPauseDuration       = ports.WithMinPauseDuration
	WithZCRThreshold           = ports.WithZCRThreshold
	WithBreathEnergyRatio      = ports.WithBreathEnergyRatio
	WithPitchRange             = ports.WithPitchRange
	WithVoicingThreshold       = ports.WithVoicingThreshold
	WithFrameLength            = ports.WithFrameLength
	WithHopLength              = ports.WithHopLength
	WithWorkers                = ports.WithWorkers
)

// Config holds top-level configuration for the analyzer
type Config struct {
	// Logger is an optional custom logger. Uses production zap if nil.
	Logger *logger.Logger

	// ZapLogger allows passing a *zap.Logger directly
	ZapLogger *zap.Logger

	// ProgressCh is an optional channel for receiving progress updates
	ProgressCh chan<- ProgressUpdate

	// Workers sets the number of parallel batch workers (default: 4)
	Workers int

	// CacheSize bounds the per-file result cache (default: 64)
	CacheSize int
}

// Analyzer is the main entry point
type Analyzer struct {
	service *usecase.AnalysisService
	log     *logger.Logger
}

// New creates a new Analyzer with the given configuration
func New(cfg Config) (*Analyzer, error) {
	log := cfg.Logger
	if log == nil && cfg.ZapLogger != nil {
		log = logger.FromZap(cfg.ZapLogger)
	}
	if log == nil {
		var err error
		log, err = logger.New(false)
		if err != nil {
			return nil, err
		}
	}

	var reporter progress.Reporter = progress.NoopReporter{}
	if cfg.ProgressCh != nil {
		reporter = progress.NewChannelReporter(cfg.ProgressCh)
	}

	svc, err := usecase.NewAnalysisService(usecase.Config{
		Decoder:   wavio.NewDecoder(),
		Storage:   storage.NewLocalStorage(),
		Reporter:  reporter,
		Logger:    log,
		Workers:   cfg.Workers,
		CacheSize: cfg.CacheSize,
	})
	if err != nil {
		return nil, err
	}

	return &Analyzer{service: svc, log: log}, nil
}

// AnalyzeFile decodes and analyzes a single audio file
func (a *Analyzer) AnalyzeFile(ctx context.Context, inputPath string, opts ...ports.Option) (*AnalysisResult, error) {
	return a.service.AnalyzeFile(ctx, inputPath, opts...)
}

// AnalyzeSignal analyzes an already-decoded signal
func (a *Analyzer) AnalyzeSignal(ctx context.Context, sig *AudioSignal, opts ...ports.Option) (*AnalysisResult, error) {
	return a.service.AnalyzeSignal(ctx, sig, opts...)
}

// AnalyzeBatch analyzes multiple jobs concurrently
func (a *Analyzer) AnalyzeBatch(ctx context.Context, jobs []BatchJob) (<-chan BatchResult, error) {
	return a.service.AnalyzeBatch(ctx, jobs)
}

// AnalyzeDirectory discovers and analyzes every audio file under root
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, root string, opts ...ports.Option) ([]*AnalysisResult, error) {
	return a.service.AnalyzeDirectory(ctx, root, opts...)
}

// Close flushes the logger and releases resources
func (a *Analyzer) Close() {
	_ = a.log.Sync()
}
