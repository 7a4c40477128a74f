// Package feedback maps swing metrics to a bounded score and a coaching
// category. The mapping is deterministic and never fails: every input
// produces a score and a category.
package feedback

import (
	"math"

	"swing-coach-lab/internal/domain"
)

// Composite score weights and per-metric operating ranges. Each sub-metric
// is capped to its typical range before weighting.
const (
	rotationCap  = 80.0  // degrees of shoulder turn worth full credit
	speedCap     = 100.0 // PeakArmSpeed is already a 0-100 score
	extensionCap = 120.0 // cm of arm extension worth full credit
	rhythmCap    = 100.0 // SwingRhythm is already a 0-100 score

	rotationWeight  = 40.0
	speedWeight     = 30.0
	extensionWeight = 20.0
	rhythmWeight    = 10.0
)

// Category selection thresholds.
const (
	powerfulScoreMin    = 85  // score above this is a powerful swing
	solidScoreMin       = 70  // score above this is solid but improvable
	lowRotationRatioMax = 0.5 // rotation ratio below this dominates feedback
	slowSpeedRatioMax   = 0.4 // speed ratio below this dominates feedback
)

// messages is the fixed template table keyed by category.
var messages = map[domain.Category]string{
	domain.CategoryPowerful:     "Powerful swing! Keep that rhythm going.",
	domain.CategoryMoreRotation: "Good swing. Rotate your shoulders a little more for extra power.",
	domain.CategoryLowRotation:  "Not enough shoulder rotation. Turn your upper body into the shot.",
	domain.CategorySlowSwing:    "The swing is too slow. Accelerate through contact.",
	domain.CategoryUnevenRhythm: "Your rhythm is uneven. Swing in one smooth motion.",
}

// Evaluator scores swing metrics and selects a feedback category.
type Evaluator struct{}

// NewEvaluator creates a new feedback evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate produces a FeedbackResult from swing metrics.
// Weights: rotation 40%, speed 30%, extension 20%, rhythm 10%.
func (e *Evaluator) Evaluate(m domain.SwingMetrics) domain.FeedbackResult {
	rotationRatio := clampRatio(m.MaxShoulderTurn, rotationCap)
	speedRatio := clampRatio(m.PeakArmSpeed, speedCap)
	extensionRatio := clampRatio(m.Contact.DistanceFromCore, extensionCap)
	rhythmRatio := clampRatio(m.SwingRhythm, rhythmCap)

	score := int(math.Round(
		rotationRatio*rotationWeight +
			speedRatio*speedWeight +
			extensionRatio*extensionWeight +
			rhythmRatio*rhythmWeight,
	))

	category := selectCategory(score, rotationRatio, speedRatio)

	return domain.FeedbackResult{
		Score:    score,
		Category: category,
		Message:  messages[category],
	}
}

// selectCategory walks the ordered decision table top to bottom; the first
// matching row wins.
func selectCategory(score int, rotationRatio, speedRatio float64) domain.Category {
	switch {
	case score > powerfulScoreMin:
		return domain.CategoryPowerful
	case score > solidScoreMin:
		return domain.CategoryMoreRotation
	case rotationRatio < lowRotationRatioMax:
		return domain.CategoryLowRotation
	case speedRatio < slowSpeedRatioMax:
		return domain.CategorySlowSwing
	default:
		return domain.CategoryUnevenRhythm
	}
}

// clampRatio maps a value to [0,1] against its operating-range cap.
func clampRatio(value, limit float64) float64 {
	if value < 0 {
		return 0
	}
	if value > limit {
		return 1
	}
	return value / limit
}
