// Package detector decides, frame by frame, whether a completed forehand
// swing has just occurred, using only kinematic cues. No external calls, no
// blocking.
package detector

import (
	"math"
	"sync"

	"swing-coach-lab/internal/domain"
	"swing-coach-lab/internal/kinematics"
)

// State is the detector state machine position.
type State string

const (
	// StateArmed means the detector is watching for a trigger.
	StateArmed State = "ARMED"
	// StateLocked means a post-swing cooldown is active.
	StateLocked State = "LOCKED"
)

// Config holds swing trigger parameters. All durations are measured on frame
// timestamps, keeping detection deterministic under replay.
type Config struct {
	VisibilityMin   float64 // confidence gate for wrist and shoulders
	WindowHorizonMs int64   // sliding window age horizon
	MinWindowFrames int     // minimum population before trigger evaluation
	MinPeakSpeed    float64 // normalized units/s, trigger condition A
	RiseTimeMinMs   int64   // lower bound of the rise-time acceptance band
	RiseTimeMaxMs   int64   // upper bound of the rise-time acceptance band
	MinRotationRad  float64 // shoulder-line rotation, trigger condition B
	CooldownMs      int64   // Locked duration after a confirmed swing
	SliceHalfWidth  int     // frames kept either side of the peak frame
}

// DefaultConfig returns the calibrated trigger set.
func DefaultConfig() Config {
	return Config{
		VisibilityMin:   0.3,
		WindowHorizonMs: 400,
		MinWindowFrames: 4,
		MinPeakSpeed:    0.75,
		RiseTimeMinMs:   60,
		RiseTimeMaxMs:   250,
		MinRotationRad:  40 * math.Pi / 180,
		CooldownMs:      2000,
		SliceHalfWidth:  4,
	}
}

// Detector is a streaming two-state machine over a sliding time-bounded
// frame window. One detector instance serves one session; the window is the
// only mutable state shared across calls and is guarded by a single mutex.
type Detector struct {
	config Config

	mu            sync.Mutex
	window        []domain.PoseFrame
	handedness    domain.Handedness
	lockedUntilMs int64
}

// New creates a detector in the Armed state.
func New(config Config) *Detector {
	return &Detector{config: config}
}

// Handedness returns the resolved swinging arm, or HandednessUnknown before
// the first sufficiently visible frame.
func (d *Detector) Handedness() domain.Handedness {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handedness == "" {
		return domain.HandednessUnknown
	}
	return d.handedness
}

// State reports the machine state relative to the given frame timestamp.
func (d *Detector) State(nowMs int64) State {
	d.mu.Lock()
	defer d.mu.Unlock()
	if nowMs < d.lockedUntilMs {
		return StateLocked
	}
	return StateArmed
}

// LockedUntilMs returns the cooldown expiry timestamp, 0 when unlocked.
func (d *Detector) LockedUntilMs() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lockedUntilMs
}

// Reset clears the window, the cooldown, and the resolved handedness. Called
// on session start so no stale frame from a previous session can contribute
// to a future swing.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.window = nil
	d.handedness = ""
	d.lockedUntilMs = 0
}

// SubmitFrame processes one pose frame in arrival order. It returns a
// non-nil frame sub-sequence exactly when a swing is confirmed; every other
// outcome (low visibility, ambiguous trigger, cooldown, out-of-order frame)
// is a silent no-op. Rejection is routine filtering, not an error path.
func (d *Detector) SubmitFrame(frame domain.PoseFrame) []domain.PoseFrame {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Locked: late frames during cooldown are dropped, never queued.
	if frame.TimestampMs < d.lockedUntilMs {
		return nil
	}

	if d.handedness == "" {
		d.resolveHandedness(&frame)
	}
	if d.handedness == "" {
		return nil
	}

	// Losing track of the identifying joints invalidates the motion seen
	// so far; splicing unrelated motion across the gap would fake a swing.
	if !d.identifyingJointsVisible(&frame) {
		d.window = nil
		return nil
	}

	// Window timestamps must be strictly increasing.
	if n := len(d.window); n > 0 && frame.TimestampMs <= d.window[n-1].TimestampMs {
		return nil
	}

	d.window = append(d.window, frame)
	d.prune(frame.TimestampMs)

	if len(d.window) < d.config.MinWindowFrames {
		return nil
	}

	return d.evaluateTrigger()
}

// resolveHandedness picks the swinging arm from whichever wrist the
// estimator tracks more confidently, once per session.
func (d *Detector) resolveHandedness(frame *domain.PoseFrame) {
	left := frame.Joint(domain.LandmarkLeftWrist).Visibility
	right := frame.Joint(domain.LandmarkRightWrist).Visibility
	if left <= d.config.VisibilityMin && right <= d.config.VisibilityMin {
		return
	}
	if left > right {
		d.handedness = domain.HandednessLeft
	} else {
		d.handedness = domain.HandednessRight
	}
}

// identifyingJointsVisible gates on the swinging wrist and both shoulders.
func (d *Detector) identifyingJointsVisible(frame *domain.PoseFrame) bool {
	return frame.Joint(d.handedness.Wrist()).Visibility > d.config.VisibilityMin &&
		frame.Joint(domain.LandmarkLeftShoulder).Visibility > d.config.VisibilityMin &&
		frame.Joint(domain.LandmarkRightShoulder).Visibility > d.config.VisibilityMin
}

// prune drops frames older than the horizon relative to the newest frame.
// Retention is by elapsed time, never by frame count alone.
func (d *Detector) prune(newestMs int64) {
	cutoff := newestMs - d.config.WindowHorizonMs
	firstKept := 0
	for firstKept < len(d.window) && d.window[firstKept].TimestampMs < cutoff {
		firstKept++
	}
	if firstKept > 0 {
		d.window = append(d.window[:0], d.window[firstKept:]...)
	}
}

// evaluateTrigger checks both trigger conditions over the current window and
// emits the swing sub-sequence when they jointly hold. Caller holds d.mu.
func (d *Detector) evaluateTrigger() []domain.PoseFrame {
	peakSpeed, peakIdx := kinematics.PeakWristSpeed(d.window, d.handedness.Wrist())

	// Condition A: explosiveness. The peak must be fast enough, and the
	// rise from window start must land inside the acceptance band: below it
	// is tracking noise, above it is non-swing drift.
	if peakSpeed < d.config.MinPeakSpeed {
		return nil
	}
	riseMs := d.window[peakIdx].TimestampMs - d.window[0].TimestampMs
	if riseMs < d.config.RiseTimeMinMs || riseMs > d.config.RiseTimeMaxMs {
		return nil
	}

	// Condition B: genuine trunk rotation, not incidental hand motion.
	rotation := kinematics.ShoulderLineRotation(&d.window[0], &d.window[peakIdx])
	if rotation < d.config.MinRotationRad {
		return nil
	}

	swing := d.sliceAroundPeak(peakIdx)
	d.lockedUntilMs = d.window[len(d.window)-1].TimestampMs + d.config.CooldownMs
	d.window = nil
	return swing
}

// sliceAroundPeak copies a symmetric slice centered on the peak frame,
// clipped to window bounds. Caller holds d.mu.
func (d *Detector) sliceAroundPeak(peakIdx int) []domain.PoseFrame {
	start := peakIdx - d.config.SliceHalfWidth
	if start < 0 {
		start = 0
	}
	end := peakIdx + d.config.SliceHalfWidth + 1
	if end > len(d.window) {
		end = len(d.window)
	}

	swing := make([]domain.PoseFrame, end-start)
	copy(swing, d.window[start:end])
	return swing
}
