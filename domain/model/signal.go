package model

import "time"

// AudioSignal is a mono sample sequence at a fixed sample rate.
// It is immutable once produced by the signal loader.
type AudioSignal struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the total signal duration in seconds.
func (s *AudioSignal) Duration() float64 {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Envelope is the smoothed instantaneous-amplitude curve of a signal.
// Same length and rate as the signal it was derived from; non-negative.
type Envelope []float64

// SegmentType classifies a detected pause.
type SegmentType string

const (
	// SegmentBreath marks a pause attributable to respiration
	// (higher zero-crossing rate and energy signature).
	SegmentBreath SegmentType = "breath"

	// SegmentPathological marks a pause attributable to cognitive/motor
	// speech blocking (low zero-crossing rate and energy signature).
	SegmentPathological SegmentType = "pathological"
)

// PauseSegment is one detected pause interval. Segments are produced
// ordered by Start, non-overlapping, with Start < End.
type PauseSegment struct {
	Start  float64     `json:"start"`  // seconds
	End    float64     `json:"end"`    // seconds
	Type   SegmentType `json:"type"`
	ZCR    float64     `json:"zcr"`    // sign-change fraction over the raw span
	Energy float64     `json:"energy"` // mean squared amplitude over the raw span
}

// SegmentDuration returns End - Start in seconds.
func (p PauseSegment) SegmentDuration() float64 {
	return p.End - p.Start
}

// AnalysisResult is the full output of one pipeline run: the ordered pause
// segment list plus the merged metric record, with run bookkeeping.
type AnalysisResult struct {
	Source     string         `json:"source,omitempty"`
	SampleRate int            `json:"sample_rate"`
	Segments   []PauseSegment `json:"segments"`
	Metrics    MetricsResult  `json:"metrics"`
	Elapsed    time.Duration  `json:"elapsed"`
	AnalyzedAt time.Time      `json:"analyzed_at"`
}

// BatchJob represents one file in a batch analysis run.
type BatchJob struct {
	ID        string
	InputPath string
	Options   *AnalysisOptions
}

// BatchResult holds the outcome of a single batch job.
type BatchResult struct {
	JobID     string
	InputPath string
	Result    *AnalysisResult
	Err       error
}
