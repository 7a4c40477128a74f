package kinematics

import (
	"math"
	"reflect"
	"testing"

	"swing-coach-lab/internal/domain"
)

// frameAt builds a full-scheme frame with the given timestamp; joints not
// explicitly set stay at zero visibility.
func frameAt(tsMs int64, joints map[domain.Landmark]domain.JointPosition) domain.PoseFrame {
	f := domain.PoseFrame{
		TimestampMs: tsMs,
		Joints:      make([]domain.JointPosition, domain.LandmarkCount),
	}
	for l, j := range joints {
		f.Joints[l] = j
	}
	return f
}

func vis(x, y, z float64) domain.JointPosition {
	return domain.JointPosition{X: x, Y: y, Z: z, Visibility: 0.95}
}

func TestAngleBetween_Bounds(t *testing.T) {
	tests := []struct {
		name           string
		ax, ay, bx, by float64
		want           float64
	}{
		{"parallel", 1, 0, 2, 0, 0},
		{"orthogonal", 1, 0, 0, 1, 90},
		{"opposite", 1, 0, -1, 0, 180},
		{"acute", 1, 0, 1, 1, 45},
		{"degenerate first", 0, 0, 1, 0, 0},
		{"degenerate second", 1, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := angleBetween(tt.ax, tt.ay, tt.bx, tt.by)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("angleBetween() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 180 {
				t.Errorf("angleBetween() = %v, outside [0, 180]", got)
			}
		})
	}
}

func TestWrapAngularDiff(t *testing.T) {
	tests := []struct {
		name string
		diff float64
		want float64
	}{
		{"small", 10 * math.Pi / 180, 10 * math.Pi / 180},
		{"exactly pi", math.Pi, math.Pi},
		{"350 degrees wraps to 10", 350 * math.Pi / 180, 10 * math.Pi / 180},
		{"negative wraps by magnitude", -350 * math.Pi / 180, 10 * math.Pi / 180},
		{"full turn", 2 * math.Pi, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapAngularDiff(tt.diff)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WrapAngularDiff(%v) = %v, want %v", tt.diff, got, tt.want)
			}
		})
	}
}

func TestWristSpeed_ZeroElapsedTime(t *testing.T) {
	a := frameAt(1000, map[domain.Landmark]domain.JointPosition{
		domain.LandmarkRightWrist: vis(0.1, 0.1, 0),
	})
	b := frameAt(1000, map[domain.Landmark]domain.JointPosition{
		domain.LandmarkRightWrist: vis(0.9, 0.9, 0),
	})

	got := WristSpeed(&a, &b, domain.LandmarkRightWrist)
	if got != 0 {
		t.Errorf("WristSpeed with zero elapsed time = %v, want 0", got)
	}
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("WristSpeed produced non-finite value %v", got)
	}
}

func TestPeakWristSpeed(t *testing.T) {
	frames := []domain.PoseFrame{
		frameAt(0, map[domain.Landmark]domain.JointPosition{domain.LandmarkRightWrist: vis(0.50, 0.8, 0)}),
		frameAt(40, map[domain.Landmark]domain.JointPosition{domain.LandmarkRightWrist: vis(0.51, 0.8, 0)}),
		frameAt(80, map[domain.Landmark]domain.JointPosition{domain.LandmarkRightWrist: vis(0.55, 0.8, 0)}),
		frameAt(120, map[domain.Landmark]domain.JointPosition{domain.LandmarkRightWrist: vis(0.555, 0.8, 0)}),
	}

	speed, peakIdx := PeakWristSpeed(frames, domain.LandmarkRightWrist)
	if peakIdx != 2 {
		t.Errorf("peak index = %d, want 2", peakIdx)
	}
	// 0.04 units over 40 ms = 1.0 units/s
	if math.Abs(speed-1.0) > 1e-9 {
		t.Errorf("peak speed = %v, want 1.0", speed)
	}
}

func TestCompute_TooFewFrames(t *testing.T) {
	frames := make([]domain.PoseFrame, MinFrames-1)
	for i := range frames {
		frames[i] = frameAt(int64(i*30), nil)
	}

	got := Compute(frames, domain.HandednessRight)
	if !reflect.DeepEqual(got, domain.SwingMetrics{}) {
		t.Errorf("Compute with %d frames = %+v, want zero metrics", len(frames), got)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	frames := swingFrames()

	first := Compute(frames, domain.HandednessRight)
	second := Compute(frames, domain.HandednessRight)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compute not idempotent: %+v != %+v", first, second)
	}
}

func TestCompute_InvisibleWrist_ZeroContactMetrics(t *testing.T) {
	frames := swingFrames()
	for i := range frames {
		w := frames[i].Joints[domain.LandmarkRightWrist]
		w.Visibility = 0.1
		frames[i].Joints[domain.LandmarkRightWrist] = w
	}

	got := Compute(frames, domain.HandednessRight)
	want := domain.ContactMetrics{DistanceFromCore: 0, ArmAngle: 0, IsFrontContact: false}
	if got.Contact != want {
		t.Errorf("contact metrics with invisible wrist = %+v, want %+v", got.Contact, want)
	}
}

func TestCompute_MaxShoulderTurn(t *testing.T) {
	frames := swingFrames()

	got := Compute(frames, domain.HandednessRight)
	// Hips stay horizontal while the shoulder line rotates 45 degrees at
	// the peak frame.
	if got.MaxShoulderTurn != 45 {
		t.Errorf("MaxShoulderTurn = %v, want 45", got.MaxShoulderTurn)
	}
}

func TestCompute_FrontContact(t *testing.T) {
	frames := swingFrames()

	got := Compute(frames, domain.HandednessRight)
	// The wrist z at contact is smaller (closer to camera) than the
	// shoulder z in the fixture.
	if !got.Contact.IsFrontContact {
		t.Error("IsFrontContact = false, want true")
	}
	if got.Contact.DistanceFromCore <= 0 {
		t.Errorf("DistanceFromCore = %v, want > 0", got.Contact.DistanceFromCore)
	}
	if got.Contact.ArmAngle <= 0 || got.Contact.ArmAngle > 180 {
		t.Errorf("ArmAngle = %v, want in (0, 180]", got.Contact.ArmAngle)
	}
}

func TestComputeSwingRhythm(t *testing.T) {
	even := []domain.PoseFrame{
		frameAt(0, nil), frameAt(33, nil), frameAt(66, nil), frameAt(99, nil),
	}
	if got := computeSwingRhythm(even); got != 100 {
		t.Errorf("rhythm for even spacing = %v, want 100", got)
	}

	// Deltas 10, 100, 10: mean 40, population stddev ~42.4, CV ~1.06,
	// 100 - CV*200 is far below zero.
	uneven := []domain.PoseFrame{
		frameAt(0, nil), frameAt(10, nil), frameAt(110, nil), frameAt(120, nil),
	}
	if got := computeSwingRhythm(uneven); got != 0 {
		t.Errorf("rhythm for uneven spacing = %v, want 0", got)
	}

	short := []domain.PoseFrame{frameAt(0, nil), frameAt(33, nil)}
	if got := computeSwingRhythm(short); got != 0 {
		t.Errorf("rhythm for 2 frames = %v, want 0", got)
	}
}

func TestScaleArmSpeed_Clamped(t *testing.T) {
	if got := scaleArmSpeed(1.0); got != 50 {
		t.Errorf("scaleArmSpeed(1.0) = %v, want 50", got)
	}
	if got := scaleArmSpeed(5.0); got != 100 {
		t.Errorf("scaleArmSpeed(5.0) = %v, want 100 (clamped)", got)
	}
}

// swingFrames builds a 5-frame right-handed swing: shoulders rotate 45
// degrees against a fixed hip line, the wrist accelerates into frame 3 and
// finishes in front of the shoulder.
func swingFrames() []domain.PoseFrame {
	shoulders := func(angleDeg float64) (domain.JointPosition, domain.JointPosition) {
		rad := angleDeg * math.Pi / 180
		left := vis(0.4, 0.5, -0.05)
		right := vis(0.4+0.2*math.Cos(rad), 0.5+0.2*math.Sin(rad), -0.05)
		return left, right
	}

	base := map[domain.Landmark]domain.JointPosition{
		domain.LandmarkLeftHip:  vis(0.45, 0.75, 0),
		domain.LandmarkRightHip: vis(0.55, 0.75, 0),
	}

	wristXs := []float64{0.50, 0.51, 0.52, 0.58, 0.585}
	angles := []float64{0, 10, 25, 45, 45}

	frames := make([]domain.PoseFrame, 5)
	for i := range frames {
		joints := map[domain.Landmark]domain.JointPosition{}
		for l, j := range base {
			joints[l] = j
		}
		ls, rs := shoulders(angles[i])
		joints[domain.LandmarkLeftShoulder] = ls
		joints[domain.LandmarkRightShoulder] = rs
		joints[domain.LandmarkRightElbow] = vis(wristXs[i]-0.05, 0.65, -0.08)
		joints[domain.LandmarkRightWrist] = vis(wristXs[i], 0.6, -0.2)
		frames[i] = frameAt(int64(i*40), joints)
	}
	return frames
}
