package domain

// Handedness identifies the swinging arm. It is resolved once per session
// from wrist visibility, not re-evaluated per frame.
type Handedness string

const (
	HandednessUnknown Handedness = "UNKNOWN"
	HandednessLeft    Handedness = "LEFT"
	HandednessRight   Handedness = "RIGHT"
)

// String returns the string representation of Handedness.
func (h Handedness) String() string {
	return string(h)
}

// Wrist returns the wrist landmark for the resolved side. Unknown defaults
// to the right wrist.
func (h Handedness) Wrist() Landmark {
	if h == HandednessLeft {
		return LandmarkLeftWrist
	}
	return LandmarkRightWrist
}

// Shoulder returns the shoulder landmark for the resolved side.
func (h Handedness) Shoulder() Landmark {
	if h == HandednessLeft {
		return LandmarkLeftShoulder
	}
	return LandmarkRightShoulder
}

// Elbow returns the elbow landmark for the resolved side.
func (h Handedness) Elbow() Landmark {
	if h == HandednessLeft {
		return LandmarkLeftElbow
	}
	return LandmarkRightElbow
}

// ContactMetrics describes body geometry at the contact frame, the frame of
// peak wrist speed within a confirmed swing.
type ContactMetrics struct {
	DistanceFromCore float64 `json:"distanceFromCore"` // hip-center to wrist, approx. cm
	ArmAngle         float64 `json:"armAngle"`         // shoulder-elbow-wrist angle, degrees
	IsFrontContact   bool    `json:"isFrontContact"`   // wrist closer to camera than shoulder
}

// SwingMetrics is the fixed biomechanical summary computed once per
// confirmed swing. Immutable.
type SwingMetrics struct {
	MaxShoulderTurn float64        `json:"maxShoulderTurn"` // degrees, >= 0
	PeakArmSpeed    float64        `json:"peakArmSpeed"`    // 0-100 normalized score
	Contact         ContactMetrics `json:"contactMetrics"`
	SwingRhythm     float64        `json:"swingRhythm"` // 0-100 normalized score
}

// SwingResult bundles everything produced for one confirmed swing.
type SwingResult struct {
	SwingID     string         `json:"swingId"`
	ContactMs   int64          `json:"contactMs"`
	Metrics     SwingMetrics   `json:"metrics"`
	Feedback    FeedbackResult `json:"feedback"`
	Commentary  string         `json:"commentary,omitempty"`
	SwingNumber int            `json:"swingNumber"`
}
