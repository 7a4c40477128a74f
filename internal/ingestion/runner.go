package ingestion

import (
	"context"

	"github.com/rs/zerolog"

	"swing-coach-lab/internal/domain"
	"swing-coach-lab/internal/session"
)

// Runner pumps any FrameSource into a session controller, one frame at a
// time in arrival order. It is the non-WebSocket ingestion path, used by the
// replay tooling and by tests.
type Runner struct {
	source     FrameSource
	controller *session.Controller
	logger     zerolog.Logger
}

// NewRunner creates an ingestion runner.
func NewRunner(source FrameSource, controller *session.Controller, logger zerolog.Logger) *Runner {
	return &Runner{
		source:     source,
		controller: controller,
		logger:     logger.With().Str("component", "ingestion").Logger(),
	}
}

// RunResult summarizes one ingestion run.
type RunResult struct {
	FramesSubmitted int
	Swings          []domain.SwingResult
}

// Run starts the session, feeds every frame from the source through it, and
// stops the session when the source is exhausted. It blocks until the source
// closes its channel or the context is cancelled.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	frames, err := r.source.Frames(ctx)
	if err != nil {
		return nil, err
	}

	sessionID := r.controller.Start()
	defer r.controller.Stop()
	r.logger.Info().Str("session_id", sessionID).Msg("ingestion run started")

	result := &RunResult{}
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				r.logger.Info().
					Int("frames", result.FramesSubmitted).
					Int("swings", len(result.Swings)).
					Msg("ingestion run finished")
				return result, nil
			}
			result.FramesSubmitted++
			if swing := r.controller.SubmitFrame(frame); swing != nil {
				result.Swings = append(result.Swings, *swing)
			}
		case <-ctx.Done():
			return result, ctx.Err()
		}
	}
}
