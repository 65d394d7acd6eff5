package domain

import (
	"math"
	"time"
)

// Verdict is the outcome of the decision table for one classification.
type Verdict struct {
	Type  FrameworkType
	Score float64
}

// Evaluate maps a classification onto a verdict.
//
//	NOT_CONFIDENT, any           -> TO_INVESTIGATE
//	CONFIDENT,     FRAMEWORK     -> FRAMEWORK
//	CONFIDENT,     NOT_FRAMEWORK -> NOT_FRAMEWORK
//
// The score is the top probability, 0.0 for an empty vector.
func Evaluate(result ClassificationResult) Verdict {
	v := Verdict{Score: clampUnit(result.TopProbability())}

	switch {
	case result.Confidence != Confident:
		v.Type = FrameworkTypeToInvestigate
	case result.Category == CategoryFramework:
		v.Type = FrameworkTypeFramework
	default:
		v.Type = FrameworkTypeNotFramework
	}
	return v
}

// NewDetectionRecord builds the record persisted for a local detection.
func NewDetectionRecord(name, internalType string, result ClassificationResult, now time.Time) FrameworkRecord {
	v := Evaluate(result)
	return FrameworkRecord{
		Name:               name,
		InternalType:       internalType,
		DiscoveryDate:      now.Format(DiscoveryDateLayout),
		Location:           NoLocation,
		Type:               v.Type,
		NumberOfDetections: 1,
		DetectionScore:     v.Score,
	}
}

func clampUnit(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
