package analysis

import "github.com/clinspeech/speechlab/domain/model"

// Classify applies the breath/pathological decision table to one pause
// segment's acoustic cues:
//
//	breath        iff zcr > zcrThreshold AND energy > energyGate
//	pathological  otherwise
//
// Both predicates are strict; a tie on either threshold resolves to
// pathological. The rule lives here in isolation so it stays auditable and
// testable apart from segmentation mechanics.
func Classify(zcr, energy, zcrThreshold, energyGate float64) model.SegmentType {
	if zcr > zcrThreshold && energy > energyGate {
		return model.SegmentBreath
	}
	return model.SegmentPathological
}
