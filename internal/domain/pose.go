package domain

// Landmark indexes a joint inside PoseFrame.Joints using the 33-point
// MediaPipe pose scheme. Only the indices the swing pipeline reads are
// named here.
type Landmark int

const (
	LandmarkLeftShoulder  Landmark = 11
	LandmarkRightShoulder Landmark = 12
	LandmarkLeftElbow     Landmark = 13
	LandmarkRightElbow    Landmark = 14
	LandmarkLeftWrist     Landmark = 15
	LandmarkRightWrist    Landmark = 16
	LandmarkLeftHip       Landmark = 23
	LandmarkRightHip      Landmark = 24
)

// LandmarkCount is the number of joints in a full pose frame.
const LandmarkCount = 33

// JointPosition is one tracked anatomical point produced by the external
// pose estimator. X and Y are normalized image-plane coordinates in [0,1],
// Z is a relative depth estimate (smaller = closer to camera), and
// Visibility is the estimator's confidence in [0,1]. Immutable once produced.
type JointPosition struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"v"`
}

// PoseFrame is one timestamped set of joint positions. Frames arrive at
// irregular but roughly periodic intervals and are never mutated after
// ingestion.
type PoseFrame struct {
	TimestampMs int64           `json:"t"`
	Joints      []JointPosition `json:"landmarks"`
}

// Joint returns the position at the given landmark index. Frames shorter
// than the full scheme return a zero-visibility joint, which every visibility
// gate downstream treats as missing.
func (f *PoseFrame) Joint(l Landmark) JointPosition {
	if int(l) >= len(f.Joints) {
		return JointPosition{}
	}
	return f.Joints[l]
}

// HasJoints reports whether the frame carries at least the full landmark
// scheme.
func (f *PoseFrame) HasJoints() bool {
	return len(f.Joints) >= LandmarkCount
}
