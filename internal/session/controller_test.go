package session

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swing-coach-lab/internal/coach"
	"swing-coach-lab/internal/detector"
	"swing-coach-lab/internal/domain"
)

const baseTs = 1_700_000_000_000

// fakeProvider is a scripted commentary provider.
type fakeProvider struct {
	text string
	err  error
}

func (p *fakeProvider) Commentary(_ context.Context, _ domain.SwingResult) (string, error) {
	return p.text, p.err
}

func newController(provider coach.TextProvider) *Controller {
	det := detector.New(detector.DefaultConfig())
	return NewController(DefaultConfig(), det, provider, zerolog.Nop())
}

// rallyFrame builds a frame with visible shoulders, hips, and right wrist.
func rallyFrame(tsMs int64, shoulderDeg, wristX float64) domain.PoseFrame {
	joints := make([]domain.JointPosition, domain.LandmarkCount)

	set := func(l domain.Landmark, x, y, z, v float64) {
		joints[l] = domain.JointPosition{X: x, Y: y, Z: z, Visibility: v}
	}

	rad := shoulderDeg * math.Pi / 180
	set(domain.LandmarkLeftShoulder, 0.4, 0.5, -0.05, 0.95)
	set(domain.LandmarkRightShoulder, 0.4+0.2*math.Cos(rad), 0.5+0.2*math.Sin(rad), -0.05, 0.95)
	set(domain.LandmarkLeftHip, 0.45, 0.75, 0, 0.95)
	set(domain.LandmarkRightHip, 0.55, 0.75, 0, 0.95)
	set(domain.LandmarkRightElbow, wristX-0.05, 0.65, -0.08, 0.95)
	set(domain.LandmarkRightWrist, wristX, 0.6, -0.2, 0.95)
	set(domain.LandmarkLeftWrist, 0.3, 0.6, -0.1, 0.2)

	return domain.PoseFrame{TimestampMs: tsMs, Joints: joints}
}

// submitSwing feeds a 5-frame triggering sequence and returns the result of
// the confirming frame, if any.
func submitSwing(c *Controller, startMs int64) *domain.SwingResult {
	wristXs := []float64{0.50, 0.505, 0.51, 0.515, 0.555}
	angles := []float64{0, 11, 22, 34, 45}

	var result *domain.SwingResult
	for i := range wristXs {
		if got := c.SubmitFrame(rallyFrame(startMs+int64(i*40), angles[i], wristXs[i])); got != nil {
			result = got
		}
	}
	return result
}

func TestController_StartResetsState(t *testing.T) {
	c := newController(nil)

	sessionID := c.Start()
	require.NotEmpty(t, sessionID)

	snap := c.Snapshot()
	assert.Equal(t, domain.SessionWatching, snap.Mode)
	assert.Equal(t, 0, snap.SwingCount)
	assert.Equal(t, domain.HandednessUnknown, snap.Handedness)
	assert.Nil(t, snap.LastResult)
}

func TestController_IdleDropsFrames(t *testing.T) {
	c := newController(nil)

	result := c.SubmitFrame(rallyFrame(baseTs, 0, 0.5))
	assert.Nil(t, result, "idle session must drop frames")
}

func TestController_ConfirmedSwing(t *testing.T) {
	c := newController(nil)
	c.Start()

	result := submitSwing(c, baseTs)
	require.NotNil(t, result, "expected a confirmed swing")

	assert.Equal(t, 1, result.SwingNumber)
	assert.NotEmpty(t, result.SwingID)
	assert.Greater(t, result.Metrics.MaxShoulderTurn, 0.0)
	assert.Greater(t, result.Feedback.Score, 0)
	assert.True(t, result.Feedback.Category.IsValid())
	assert.NotEmpty(t, result.Feedback.Message)

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.SwingCount)
	assert.Equal(t, domain.HandednessRight, snap.Handedness)
	require.NotNil(t, snap.LastResult)
	assert.Equal(t, result.SwingID, snap.LastResult.SwingID)
	// Post-feedback lockout runs from the confirming frame's timestamp.
	assert.Equal(t, baseTs+160+DefaultConfig().FeedbackLockoutMs, snap.LockedUntilMs)
}

func TestController_FeedbackLockout(t *testing.T) {
	c := newController(nil)
	c.Start()

	require.NotNil(t, submitSwing(c, baseTs), "setup: first swing not confirmed")

	// Kinematically perfect swings inside the lockout window must not
	// produce a second result.
	assert.Nil(t, submitSwing(c, baseTs+1000))
	assert.Equal(t, 1, c.Snapshot().SwingCount)

	// Past both the session lockout and the detector cooldown.
	require.NotNil(t, submitSwing(c, baseTs+10000), "expected swing after lockout expiry")
	assert.Equal(t, 2, c.Snapshot().SwingCount)
}

func TestController_StopClearsState(t *testing.T) {
	c := newController(nil)
	c.Start()
	require.NotNil(t, submitSwing(c, baseTs))

	c.Stop()

	snap := c.Snapshot()
	assert.Equal(t, domain.SessionIdle, snap.Mode)
	assert.Nil(t, snap.LastResult)
	assert.Empty(t, snap.SessionID)

	// No stale frame from the stopped session may contribute later.
	assert.Nil(t, c.SubmitFrame(rallyFrame(baseTs+20000, 45, 0.9)))
}

func TestController_RestartZeroesCount(t *testing.T) {
	c := newController(nil)
	c.Start()
	require.NotNil(t, submitSwing(c, baseTs))

	c.Start()
	assert.Equal(t, 0, c.Snapshot().SwingCount)
	assert.Equal(t, domain.HandednessUnknown, c.Snapshot().Handedness)
}

func TestController_CommentaryDelivered(t *testing.T) {
	c := newController(&fakeProvider{text: "Great shot, stay low through contact."})
	c.Start()

	require.NotNil(t, submitSwing(c, baseTs))

	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.LastResult != nil && snap.LastResult.Commentary != ""
	}, time.Second, 10*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, "Great shot, stay low through contact.", snap.LastResult.Commentary)
	assert.False(t, snap.ProviderDegraded)
}

func TestController_ProviderFailureDegrades(t *testing.T) {
	c := newController(&fakeProvider{err: errors.New("service unreachable")})
	c.Start()

	result := submitSwing(c, baseTs)
	require.NotNil(t, result)

	// Failure is a status change plus template fallback, never an error
	// surfaced to frame ingestion.
	require.Eventually(t, func() bool {
		return c.Snapshot().ProviderDegraded
	}, time.Second, 10*time.Millisecond)

	snap := c.Snapshot()
	require.NotNil(t, snap.LastResult)
	assert.Equal(t, result.Feedback.Message, snap.LastResult.Commentary)
	assert.Equal(t, 1, snap.SwingCount)
}
