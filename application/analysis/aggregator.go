package analysis

import (
	"github.com/clinspeech/speechlab/domain/model"
	pkgerrors "github.com/clinspeech/speechlab/pkg/errors"
)

// MergeMetrics combines the segmentation-derived and prosody-derived
// metrics into one result record. Pure pass-through; it fails only when an
// input is absent.
func MergeMetrics(seg *model.SegmentationMetrics, pros *model.ProsodyFeatures) (*model.MetricsResult, error) {
	if seg == nil {
		return nil, pkgerrors.NewProcessingError("aggregate", "segmentation metrics are required", nil)
	}
	if pros == nil {
		return nil, pkgerrors.NewProcessingError("aggregate", "prosody features are required", nil)
	}
	return &model.MetricsResult{
		SegmentationMetrics: *seg,
		ProsodyFeatures:     *pros,
	}, nil
}
