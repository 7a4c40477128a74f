// Package session orchestrates one coaching session: it routes pose frames
// into the swing detector, turns confirmed swings into metrics and feedback,
// applies the post-feedback lockout, and fans results out to transports and
// the commentary provider.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"swing-coach-lab/internal/coach"
	"swing-coach-lab/internal/detector"
	"swing-coach-lab/internal/domain"
	"swing-coach-lab/internal/feedback"
	"swing-coach-lab/internal/idhash"
	"swing-coach-lab/internal/kinematics"
	"swing-coach-lab/internal/observability"
)

// Config holds session-level parameters.
type Config struct {
	// FeedbackLockoutMs is the refractory period after a confirmed swing
	// while feedback is being delivered, measured on frame timestamps.
	// Distinct from the detector's own trigger cooldown.
	FeedbackLockoutMs int64
	// CommentaryTimeout bounds one commentary provider round trip.
	CommentaryTimeout time.Duration
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		FeedbackLockoutMs: 4000,
		CommentaryTimeout: 15 * time.Second,
	}
}

// ResultHandler is called when a swing result is produced or its commentary
// arrives. Handlers run on their own goroutine and must not block frame
// ingestion.
type ResultHandler func(result domain.SwingResult)

// Controller holds session state. Exactly one frame is processed at a time,
// in arrival order; the controller mutex is the single exclusion point for
// hosts that deliver frames concurrently.
type Controller struct {
	config    Config
	detector  *detector.Detector
	evaluator *feedback.Evaluator
	provider  coach.TextProvider
	logger    zerolog.Logger

	mu               sync.Mutex
	sessionID        string
	mode             domain.SessionMode
	swingCount       int
	lockedUntilMs    int64
	lastResult       *domain.SwingResult
	providerDegraded bool
	onResult         ResultHandler

	// commentaryCtx outlives individual frames but not the session;
	// Stop cancels it to abandon in-flight provider calls.
	commentaryCtx    context.Context
	cancelCommentary context.CancelFunc
}

// NewController creates a session controller in the Idle state. A nil
// provider disables commentary; the evaluator's template message still
// reaches clients.
func NewController(config Config, det *detector.Detector, provider coach.TextProvider, logger zerolog.Logger) *Controller {
	return &Controller{
		config:    config,
		detector:  det,
		evaluator: feedback.NewEvaluator(),
		provider:  provider,
		logger:    logger.With().Str("component", "session").Logger(),
		mode:      domain.SessionIdle,
	}
}

// SetResultHandler sets the callback for swing results and commentary.
func (c *Controller) SetResultHandler(handler ResultHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResult = handler
}

// Start begins a new coaching session: detector fully reset (window, lock,
// handedness re-detection), counters zeroed. Starting an active session
// restarts it.
func (c *Controller) Start() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelCommentary != nil {
		c.cancelCommentary()
	}
	c.commentaryCtx, c.cancelCommentary = context.WithCancel(context.Background())

	c.sessionID = uuid.NewString()
	c.mode = domain.SessionWatching
	c.swingCount = 0
	c.lockedUntilMs = 0
	c.lastResult = nil
	c.providerDegraded = false
	c.detector.Reset()

	observability.RecordSessionStarted()
	c.logger.Info().Str("session_id", c.sessionID).Msg("session started")
	return c.sessionID
}

// Stop ends the session. Buffered frame state is cleared synchronously so no
// stale frame from this session can contribute to a future swing, and any
// pending commentary delivery is cancelled.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == domain.SessionIdle {
		return
	}

	if c.cancelCommentary != nil {
		c.cancelCommentary()
		c.cancelCommentary = nil
	}
	c.mode = domain.SessionIdle
	c.lockedUntilMs = 0
	c.lastResult = nil
	c.detector.Reset()

	observability.RecordSessionStopped()
	c.logger.Info().Str("session_id", c.sessionID).Msg("session stopped")
}

// SubmitFrame processes one pose frame. It returns the swing result exactly
// when this frame confirmed a swing, nil otherwise. Synchronous and
// non-blocking: commentary delivery happens on a separate goroutine.
func (c *Controller) SubmitFrame(frame domain.PoseFrame) *domain.SwingResult {
	start := time.Now()
	observability.RecordFrameReceived()

	c.mu.Lock()
	if c.mode != domain.SessionWatching {
		c.mu.Unlock()
		observability.RecordFrameRejected("session_idle")
		return nil
	}

	// Post-feedback lockout: the detector keeps its own short cooldown,
	// this one holds the floor while feedback is being delivered.
	if frame.TimestampMs < c.lockedUntilMs {
		c.mu.Unlock()
		observability.RecordFrameRejected("lockout")
		return nil
	}
	c.mu.Unlock()

	swingFrames := c.detector.SubmitFrame(frame)
	observability.RecordFrameLatency(time.Since(start).Seconds())
	if swingFrames == nil {
		return nil
	}

	return c.confirmSwing(frame.TimestampMs, swingFrames)
}

// confirmSwing runs metrics and evaluation for an emitted frame
// sub-sequence and publishes the result.
func (c *Controller) confirmSwing(nowMs int64, swingFrames []domain.PoseFrame) *domain.SwingResult {
	c.mu.Lock()

	// The detector may confirm on the same frame that raced a lockout
	// refresh; re-check under the lock so at most one swing lands per
	// lockout window.
	if nowMs < c.lockedUntilMs || c.mode != domain.SessionWatching {
		c.mu.Unlock()
		observability.RecordSwingSuppressed()
		return nil
	}

	handedness := c.detector.Handedness()
	metrics := kinematics.Compute(swingFrames, handedness)
	result := c.evaluator.Evaluate(metrics)

	c.swingCount++
	contactMs := contactTimestamp(swingFrames, handedness)
	swing := domain.SwingResult{
		SwingID:     idhash.ComputeSwingID(c.sessionID, contactMs, c.swingCount),
		ContactMs:   contactMs,
		Metrics:     metrics,
		Feedback:    result,
		SwingNumber: c.swingCount,
	}
	c.lastResult = &swing
	c.lockedUntilMs = nowMs + c.config.FeedbackLockoutMs

	handler := c.onResult
	ctx := c.commentaryCtx
	c.mu.Unlock()

	observability.RecordSwingDetected()
	observability.RecordFeedback(result.Score, result.Category.String())
	c.logger.Info().
		Str("swing_id", swing.SwingID).
		Int("swing_number", swing.SwingNumber).
		Int("score", result.Score).
		Str("category", result.Category.String()).
		Msg("swing confirmed")

	if handler != nil {
		go handler(swing)
	}
	if c.provider != nil {
		go c.deliverCommentary(ctx, swing, handler)
	}

	return &swing
}

// deliverCommentary asks the provider for spoken-style commentary and
// republishes the result with it. Provider failure degrades to the template
// message and flips a status flag; it never touches kinematic state.
func (c *Controller) deliverCommentary(ctx context.Context, swing domain.SwingResult, handler ResultHandler) {
	ctx, cancel := context.WithTimeout(ctx, c.config.CommentaryTimeout)
	defer cancel()

	start := time.Now()
	text, err := c.provider.Commentary(ctx, swing)
	observability.RecordCommentary(time.Since(start).Seconds(), err)

	c.mu.Lock()
	if err != nil {
		c.providerDegraded = true
		text = swing.Feedback.Message
	} else {
		c.providerDegraded = false
	}
	// Attach commentary only if this is still the current swing of the
	// current session.
	if c.lastResult != nil && c.lastResult.SwingID == swing.SwingID {
		c.lastResult.Commentary = text
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn().Err(err).Str("swing_id", swing.SwingID).Msg("commentary provider failed, using template")
		return
	}

	swing.Commentary = text
	if handler != nil {
		go handler(swing)
	}
}

// Snapshot returns the read-only session state for the API layer.
func (c *Controller) Snapshot() domain.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := domain.SessionSnapshot{
		Mode:             c.mode,
		SwingCount:       c.swingCount,
		Handedness:       c.detector.Handedness(),
		LockedUntilMs:    c.lockedUntilMs,
		ProviderDegraded: c.providerDegraded,
	}
	if c.mode == domain.SessionWatching {
		snap.SessionID = c.sessionID
	}
	if c.lastResult != nil {
		r := *c.lastResult
		snap.LastResult = &r
	}
	return snap
}

// contactTimestamp returns the timestamp of the peak-speed frame inside the
// emitted sub-sequence, falling back to the last frame.
func contactTimestamp(frames []domain.PoseFrame, handedness domain.Handedness) int64 {
	if len(frames) == 0 {
		return 0
	}
	_, peakIdx := kinematics.PeakWristSpeed(frames, handedness.Wrist())
	return frames[peakIdx].TimestampMs
}
