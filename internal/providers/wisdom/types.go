// Package wisdom contains the text-generation clients that turn a wizard
// selection into guidance text. One blocking call per selection, no automatic
// retry, no placeholder fallback: a failed generation is surfaced to the user
// as a failed generation.
package wisdom

import (
	"context"
	"fmt"

	"timeflow/internal/domain"
)

// Request carries the full wizard selection to the provider.
type Request struct {
	State   domain.TimeflowState
	Problem string
	Lens    domain.Lens
}

// Generator is the single-call text generation contract.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// buildPrompt renders the guidance prompt. The structure (reflection, key
// insight, practical action, under 150 words) is part of the product voice
// and identical across providers.
func buildPrompt(req Request) string {
	return fmt.Sprintf(
		`You are a wise philosophical guide. A person is experiencing a %q state and shared: %q. `+
			`Provide guidance through the lens of %s. Structure your response as: `+
			`1) A brief reflection (2-3 sentences), 2) Key insight (1 sentence), 3) Practical action (1 sentence). `+
			`Keep total under 150 words. Be warm, clear, and actionable.`,
		req.State, req.Problem, req.Lens)
}
