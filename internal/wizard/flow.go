// Package wizard implements the linear flow that takes a user from mood
// selection to a persisted wisdom card: session state machine, ephemeral
// session store, and the pending-card bridge for anonymous saves.
package wizard

import (
	"fmt"
	"strings"
	"time"

	"timeflow/internal/domain"
	"timeflow/internal/sanitize"
)

// Step identifies a position in the fixed wizard flow.
type Step string

const (
	StepStateSelect  Step = "state_select"
	StepProblemInput Step = "problem_input"
	StepLensSelect   Step = "lens_select"
	StepGenerating   Step = "generating"
	StepReview       Step = "review"
	StepSaved        Step = "saved"
	StepAbandoned    Step = "abandoned"
)

// Session is one wizard run. It accumulates the user's selections step by
// step and is discarded once a card is saved or the flow is abandoned.
// Sessions are not safe for concurrent use; the Store serializes every
// mutation and hands out value snapshots to readers.
type Session struct {
	ID        string
	UserID    string // empty for anonymous runs
	Step      Step
	State     domain.TimeflowState
	Problem   string
	Lens      domain.Lens
	Wisdom    string
	LastError string
	// PendingToken links an anonymous run to the deferred card it parked in
	// the pending store, so a reset can discard both together.
	PendingToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// SelectState records the mood selection and advances to problem input.
func (s *Session) SelectState(raw string) error {
	if s.Step != StepStateSelect {
		return fmt.Errorf("%w: select state at %s", domain.ErrWrongStep, s.Step)
	}
	state, err := domain.ParseState(raw)
	if err != nil {
		return err
	}
	s.State = state
	s.Step = StepProblemInput
	s.touch()
	return nil
}

// SetProblem records the problem statement and advances to lens selection.
// Whitespace-only input does not advance the flow.
func (s *Session) SetProblem(raw string) error {
	if s.Step != StepProblemInput {
		return fmt.Errorf("%w: set problem at %s", domain.ErrWrongStep, s.Step)
	}
	problem := strings.TrimSpace(raw)
	if problem == "" {
		return domain.ErrEmptyProblem
	}
	s.Problem = problem
	s.Step = StepLensSelect
	s.touch()
	return nil
}

// SelectLens records the lens selection and moves the session into
// Generating. The caller is expected to invoke the generation client
// immediately and report the outcome via CompleteGeneration or
// FailGeneration.
func (s *Session) SelectLens(raw string) error {
	if s.Step != StepLensSelect {
		return fmt.Errorf("%w: select lens at %s", domain.ErrWrongStep, s.Step)
	}
	lens, err := domain.ParseLens(raw)
	if err != nil {
		return err
	}
	s.Lens = lens
	s.Step = StepGenerating
	s.touch()
	return nil
}

// CompleteGeneration stores the sanitized wisdom text and enters Review.
func (s *Session) CompleteGeneration(text string) error {
	if s.Step != StepGenerating {
		return fmt.Errorf("%w: complete generation at %s", domain.ErrWrongStep, s.Step)
	}
	s.Wisdom = sanitize.Clean(text)
	s.LastError = ""
	s.Step = StepReview
	s.touch()
	return nil
}

// FailGeneration records a generation failure and abandons the run. There is
// no automatic retry; the user restarts the flow explicitly.
func (s *Session) FailGeneration(err error) {
	if s.Step != StepGenerating {
		return
	}
	if err != nil {
		s.LastError = err.Error()
	}
	s.Step = StepAbandoned
	s.touch()
}

// MarkSaved closes the run after a confirmed store write. Only a reviewed
// session can be saved.
func (s *Session) MarkSaved() error {
	if s.Step != StepReview {
		return fmt.Errorf("%w: save at %s", domain.ErrWrongStep, s.Step)
	}
	s.Step = StepSaved
	s.touch()
	return nil
}

// Reset discards every in-flight selection and returns the session to the
// first step. Nothing leaks between runs.
func (s *Session) Reset() {
	s.State = ""
	s.Problem = ""
	s.Lens = ""
	s.Wisdom = ""
	s.LastError = ""
	s.PendingToken = ""
	s.Step = StepStateSelect
	s.touch()
}

// Selection returns the accumulated state/problem/lens/wisdom of a reviewed
// session, for persistence or deferral.
func (s *Session) Selection() PendingCard {
	return PendingCard{
		State:     s.State,
		Problem:   s.Problem,
		Lens:      s.Lens,
		Wisdom:    s.Wisdom,
		CreatedAt: time.Now(),
	}
}
