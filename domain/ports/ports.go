package ports

import (
	"context"

	"github.com/clinspeech/speechlab/domain/model"
)

// SpeechAnalyzer defines the main analysis interface
type SpeechAnalyzer interface {
	// AnalyzeFile decodes and analyzes a single audio file
	AnalyzeFile(ctx context.Context, inputPath string, opts ...Option) (*model.AnalysisResult, error)

	// AnalyzeSignal analyzes an already-decoded signal
	AnalyzeSignal(ctx context.Context, sig *model.AudioSignal, opts ...Option) (*model.AnalysisResult, error)

	// AnalyzeBatch analyzes multiple audio files concurrently
	AnalyzeBatch(ctx context.Context, jobs []model.BatchJob) (<-chan model.BatchResult, error)
}

// SignalDecoder turns an audio file into a mono signal at the target rate
type SignalDecoder interface {
	// Decode reads, downmixes and resamples the file at path
	Decode(ctx context.Context, path string, targetSampleRate int) (*model.AudioSignal, error)
}

// StorageProvider abstracts filesystem operations
type StorageProvider interface {
	// Exists checks if a file exists
	Exists(ctx context.Context, path string) (bool, error)

	// Size returns file size in bytes
	Size(ctx context.Context, path string) (int64, error)

	// FindAudioFiles lists analyzable audio files under root
	FindAudioFiles(ctx context.Context, root string) ([]string, error)
}

// Option is the functional option type
type Option func(*model.AnalysisOptions)

// WithTargetSampleRate sets the resample target for decoded audio
func WithTargetSampleRate(hz int) Option {
	return func(o *model.AnalysisOptions) {
		o.TargetSampleRate = hz
	}
}

// WithEnvelopeCutoff sets the envelope low-pass cutoff in Hz
func WithEnvelopeCutoff(hz float64) Option {
	return func(o *model.AnalysisOptions) {
		o.EnvelopeCutoffHz = hz
	}
}

// WithEnvelopeFilterOrder sets the Butterworth order (even)
func WithEnvelopeFilterOrder(order int) Option {
	return func(o *model.AnalysisOptions) {
		o.EnvelopeFilterOrder = order
	}
}

// WithSilenceThresholdFactor scales the adaptive noise floor
func WithSilenceThresholdFactor(factor float64) Option {
	return func(o *model.AnalysisOptions) {
		o.SilenceThresholdFactor = factor
	}
}

// WithMinPauseDuration sets the shortest reportable pause in seconds
func WithMinPauseDuration(seconds float64) Option {
	return func(o *model.AnalysisOptions) {
		o.MinPauseDuration = seconds
	}
}

// WithZCRThreshold sets the breath-classification zero-crossing gate
func WithZCRThreshold(t float64) Option {
	return func(o *model.AnalysisOptions) {
		o.ZCRThreshold = t
	}
}

// WithBreathEnergyRatio sets the breath-classification energy gate multiplier
func WithBreathEnergyRatio(r float64) Option {
	return func(o *model.AnalysisOptions) {
		o.BreathEnergyRatio = r
	}
}

// WithPitchRange sets the admissible F0 search range in Hz
func WithPitchRange(floorHz, ceilingHz float64) Option {
	return func(o *model.AnalysisOptions) {
		o.PitchFloorHz = floorHz
		o.PitchCeilingHz = ceilingHz
	}
}

// WithVoicingThreshold sets the autocorrelation peak required for voicing
func WithVoicingThreshold(t float64) Option {
	return func(o *model.AnalysisOptions) {
		o.VoicingThreshold = t
	}
}

// WithFrameLength sets the analysis frame size in samples
func WithFrameLength(n int) Option {
	return func(o *model.AnalysisOptions) {
		o.FrameLength = n
	}
}

// WithHopLength sets the frame hop in samples
func WithHopLength(n int) Option {
	return func(o *model.AnalysisOptions) {
		o.HopLength = n
	}
}

// WithWorkers sets the number of concurrent workers for batch analysis
func WithWorkers(n int) Option {
	return func(o *model.AnalysisOptions) {
		if n > 0 {
			o.Workers = n
		}
	}
}
