package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeflowState is the user's self-reported mood/energy category. The set is
// fixed; anything outside it is invalid input even though the client never
// offers one.
type TimeflowState string

const (
	StateRising    TimeflowState = "rising"
	StateFalling   TimeflowState = "falling"
	StateTurbulent TimeflowState = "turbulent"
	StateStuck     TimeflowState = "stuck"
	StateGrounded  TimeflowState = "grounded"
)

// States lists every valid TimeflowState.
func States() []TimeflowState {
	return []TimeflowState{StateRising, StateFalling, StateTurbulent, StateStuck, StateGrounded}
}

// ParseState validates a raw state value against the fixed set.
func ParseState(raw string) (TimeflowState, error) {
	s := TimeflowState(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StateRising, StateFalling, StateTurbulent, StateStuck, StateGrounded:
		return s, nil
	}
	return "", fmt.Errorf("%w: state %q", ErrInvalidState, raw)
}

// Lens is one of the five fixed philosophical frameworks applied to guidance.
type Lens string

const (
	LensStoicism       Lens = "stoicism"
	LensBuddhism       Lens = "buddhism"
	LensExistentialism Lens = "existentialism"
	LensTaoism         Lens = "taoism"
	LensPragmatism     Lens = "pragmatism"
)

// Lenses lists every valid Lens.
func Lenses() []Lens {
	return []Lens{LensStoicism, LensBuddhism, LensExistentialism, LensTaoism, LensPragmatism}
}

// ParseLens validates a raw lens value against the fixed set.
func ParseLens(raw string) (Lens, error) {
	l := Lens(strings.ToLower(strings.TrimSpace(raw)))
	switch l {
	case LensStoicism, LensBuddhism, LensExistentialism, LensTaoism, LensPragmatism:
		return l, nil
	}
	return "", fmt.Errorf("%w: lens %q", ErrInvalidLens, raw)
}

// LensInfo carries the display metadata shown on the lens-selection step.
type LensInfo struct {
	Lens         Lens   `json:"id"`
	Name         string `json:"name"`
	Focus        string `json:"description"`
	Philosophers string `json:"philosophers"`
}

var lensCatalog = map[Lens]LensInfo{
	LensStoicism:       {LensStoicism, "Stoicism", "Focus on what you can control, accept what you cannot", "Marcus Aurelius, Epictetus"},
	LensBuddhism:       {LensBuddhism, "Buddhism", "Understand suffering, cultivate compassion and presence", "Buddha, Thich Nhat Hanh"},
	LensExistentialism: {LensExistentialism, "Existentialism", "Create meaning through authentic choice and action", "Sartre, Camus"},
	LensTaoism:         {LensTaoism, "Taoism", "Flow with nature, embrace simplicity and balance", "Lao Tzu, Zhuangzi"},
	LensPragmatism:     {LensPragmatism, "Pragmatism", "Focus on practical consequences and real-world results", "William James, John Dewey"},
}

// Info returns the display metadata for the lens.
func (l Lens) Info() LensInfo {
	return lensCatalog[l]
}

// WisdomCard is the persisted unit combining a state, a problem statement, a
// lens, and generated guidance text. Cards are immutable once created and are
// never owned by no one.
type WisdomCard struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	State     TimeflowState `json:"state"`
	Problem   string        `json:"problem"`
	Lens      Lens          `json:"lens"`
	Wisdom    string        `json:"wisdom"`
	CreatedAt time.Time     `json:"created_at"`
}
