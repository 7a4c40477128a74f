package kinematics

import (
	"math"

	"swing-coach-lab/internal/domain"
)

// planarDistance computes the 2D Euclidean distance between two joints in
// normalized image-plane coordinates.
func planarDistance(a, b domain.JointPosition) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// spatialDistance computes the 3D Euclidean distance between two joints.
func spatialDistance(a, b domain.JointPosition) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// angleBetween returns the angle in degrees between two 2D vectors using the
// clamped-dot-product formula. The dot product is clamped to [-1,1] before
// arccos to avoid floating-point domain errors, so the result is always in
// [0, 180]. Degenerate (zero-length) vectors short-circuit to 0.
func angleBetween(ax, ay, bx, by float64) float64 {
	magA := math.Sqrt(ax*ax + ay*ay)
	magB := math.Sqrt(bx*bx + by*by)
	if magA == 0 || magB == 0 {
		return 0
	}

	dot := (ax*bx + ay*by) / (magA * magB)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math.Acos(dot) * 180 / math.Pi
}

// lineAngle returns the orientation of the segment a->b via atan2, in
// radians.
func lineAngle(a, b domain.JointPosition) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// WrapAngularDiff wraps an absolute angular difference in radians into
// [0, pi]. A raw difference of 350 degrees is reported as 10 degrees.
func WrapAngularDiff(diff float64) float64 {
	diff = math.Abs(diff)
	diff = math.Mod(diff, 2*math.Pi)
	if diff > math.Pi {
		diff = 2*math.Pi - diff
	}
	return diff
}

// ShoulderLineRotation returns the absolute shoulder-line rotation between
// two frames, wrapped into [0, pi] radians.
func ShoulderLineRotation(from, to *domain.PoseFrame) float64 {
	a := lineAngle(from.Joint(domain.LandmarkLeftShoulder), from.Joint(domain.LandmarkRightShoulder))
	b := lineAngle(to.Joint(domain.LandmarkLeftShoulder), to.Joint(domain.LandmarkRightShoulder))
	return WrapAngularDiff(b - a)
}

// WristSpeed computes the planar wrist speed in normalized distance units
// per second between two consecutive frames. Zero or negative elapsed time
// returns 0 rather than dividing by zero.
func WristSpeed(prev, cur *domain.PoseFrame, wrist domain.Landmark) float64 {
	dtMs := cur.TimestampMs - prev.TimestampMs
	if dtMs <= 0 {
		return 0
	}
	dist := planarDistance(prev.Joint(wrist), cur.Joint(wrist))
	return dist / (float64(dtMs) / 1000.0)
}

// PeakWristSpeed scans consecutive frame pairs and returns the maximum
// planar wrist speed and the index of the frame at which it occurs. Pairs
// with zero elapsed time are skipped. Fewer than two frames returns (0, 0).
func PeakWristSpeed(frames []domain.PoseFrame, wrist domain.Landmark) (speed float64, peakIdx int) {
	for i := 1; i < len(frames); i++ {
		v := WristSpeed(&frames[i-1], &frames[i], wrist)
		if v > speed {
			speed = v
			peakIdx = i
		}
	}
	return speed, peakIdx
}
