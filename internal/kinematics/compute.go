// Package kinematics computes biomechanical summary metrics from a finalized
// pose-frame sequence of one confirmed swing. All functions are pure: no
// mutable state, no I/O, bounded time.
package kinematics

import (
	"math"

	"swing-coach-lab/internal/domain"
)

const (
	// VisibilityThreshold is the shared confidence gate for every joint
	// read during metric computation. A joint contributes only when its
	// confidence strictly exceeds this value.
	VisibilityThreshold = 0.4

	// MinFrames is the minimum sub-sequence length; shorter input yields
	// an all-zero metrics record.
	MinFrames = 5

	// minRhythmFrames is the minimum frame count for the rhythm score.
	minRhythmFrames = 3

	// armSpeedScale rescales raw wrist velocity (normalized units/s) to a
	// 0-100 score.
	armSpeedScale = 50.0

	// coreDistanceScale rescales normalized hip-to-wrist distance to an
	// approximate centimeter figure.
	coreDistanceScale = 150.0
)

// Compute maps a finalized swing frame sequence to its metrics record.
// Calling it twice on identical input yields identical output.
func Compute(frames []domain.PoseFrame, side domain.Handedness) domain.SwingMetrics {
	if len(frames) < MinFrames {
		return domain.SwingMetrics{}
	}

	peakSpeed, peakIdx := PeakWristSpeed(frames, side.Wrist())

	return domain.SwingMetrics{
		MaxShoulderTurn: computeMaxShoulderTurn(frames),
		PeakArmSpeed:    scaleArmSpeed(peakSpeed),
		Contact:         computeContactMetrics(&frames[peakIdx], side),
		SwingRhythm:     computeSwingRhythm(frames),
	}
}

// computeMaxShoulderTurn finds the maximum angle between the shoulder line
// and the hip line across the sequence. Using the hip line as reference makes
// the measure invariant to camera tilt and whole-body orientation. Frames
// missing any of the four joints are skipped; no qualifying frame yields 0.
func computeMaxShoulderTurn(frames []domain.PoseFrame) float64 {
	maxTurn := 0.0
	for i := range frames {
		f := &frames[i]
		ls := f.Joint(domain.LandmarkLeftShoulder)
		rs := f.Joint(domain.LandmarkRightShoulder)
		lh := f.Joint(domain.LandmarkLeftHip)
		rh := f.Joint(domain.LandmarkRightHip)

		if !visible(ls) || !visible(rs) || !visible(lh) || !visible(rh) {
			continue
		}

		turn := angleBetween(rs.X-ls.X, rs.Y-ls.Y, rh.X-lh.X, rh.Y-lh.Y)
		if turn > maxTurn {
			maxTurn = turn
		}
	}
	return math.Round(maxTurn)
}

// scaleArmSpeed maps raw peak wrist velocity to the bounded 0-100 score.
func scaleArmSpeed(raw float64) float64 {
	score := math.Round(raw * armSpeedScale)
	if score > 100 {
		return 100
	}
	return score
}

// computeContactMetrics evaluates body geometry at the contact frame. Any
// missing joint (swinging-side shoulder, elbow, wrist, or either hip) yields
// the zero/false defaults rather than failing the whole calculation.
func computeContactMetrics(contact *domain.PoseFrame, side domain.Handedness) domain.ContactMetrics {
	shoulder := contact.Joint(side.Shoulder())
	elbow := contact.Joint(side.Elbow())
	wrist := contact.Joint(side.Wrist())
	lh := contact.Joint(domain.LandmarkLeftHip)
	rh := contact.Joint(domain.LandmarkRightHip)

	if !visible(shoulder) || !visible(elbow) || !visible(wrist) || !visible(lh) || !visible(rh) {
		return domain.ContactMetrics{}
	}

	hipCenter := domain.JointPosition{
		X: (lh.X + rh.X) / 2,
		Y: (lh.Y + rh.Y) / 2,
		Z: (lh.Z + rh.Z) / 2,
	}

	return domain.ContactMetrics{
		DistanceFromCore: math.Round(spatialDistance(hipCenter, wrist) * coreDistanceScale),
		ArmAngle: math.Round(angleBetween(
			shoulder.X-elbow.X, shoulder.Y-elbow.Y,
			wrist.X-elbow.X, wrist.Y-elbow.Y,
		)),
		// Smaller z means closer to the camera.
		IsFrontContact: wrist.Z < shoulder.Z,
	}
}

// computeSwingRhythm scores frame-spacing smoothness from the coefficient of
// variation of inter-frame time deltas. Lower variability yields a higher
// score: max(0, 100 - CV*200). Fewer than three frames returns 0.
func computeSwingRhythm(frames []domain.PoseFrame) float64 {
	if len(frames) < minRhythmFrames {
		return 0
	}

	deltas := make([]float64, 0, len(frames)-1)
	for i := 1; i < len(frames); i++ {
		deltas = append(deltas, float64(frames[i].TimestampMs-frames[i-1].TimestampMs))
	}

	mean := computeMean(deltas)
	if mean == 0 {
		return 100 // zero variation by definition
	}

	cv := computePopulationStddev(deltas, mean) / mean
	score := math.Round(100 - cv*200)
	if score < 0 {
		return 0
	}
	return score
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computePopulationStddev calculates population standard deviation
// (n denominator). The rhythm score describes exactly the observed deltas,
// so no sample correction applies.
func computePopulationStddev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// visible reports whether a joint's confidence strictly exceeds the shared
// threshold.
func visible(j domain.JointPosition) bool {
	return j.Visibility > VisibilityThreshold
}
