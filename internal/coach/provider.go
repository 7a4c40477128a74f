// Package coach turns a scored swing into a short spoken-style coaching
// comment. The generative-text service behind it is an opaque collaborator:
// the session layer depends only on the TextProvider interface and treats
// any failure as a status change, never as a reason to touch kinematic
// state.
package coach

import (
	"context"

	"swing-coach-lab/internal/domain"
)

// TextProvider produces natural-language commentary for one swing result.
type TextProvider interface {
	Commentary(ctx context.Context, result domain.SwingResult) (string, error)
}

// StaticProvider serves the fixed category template without any external
// call. It is the fallback when no API key is configured or the remote
// provider is unreachable.
type StaticProvider struct{}

// NewStaticProvider creates a template-only provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// Commentary returns the evaluator's template message unchanged.
func (p *StaticProvider) Commentary(_ context.Context, result domain.SwingResult) (string, error) {
	return result.Feedback.Message, nil
}
