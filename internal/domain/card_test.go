package domain

import (
	"errors"
	"testing"
)

func TestParseStateAcceptsFixedSet(t *testing.T) {
	for _, s := range States() {
		got, err := ParseState(string(s))
		if err != nil {
			t.Fatalf("ParseState(%q) unexpected error: %v", s, err)
		}
		if got != s {
			t.Fatalf("ParseState(%q) = %q", s, got)
		}
	}
	if got, err := ParseState("  Rising "); err != nil || got != StateRising {
		t.Fatalf("ParseState with padding/case = %q, %v", got, err)
	}
}

func TestParseStateRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "soaring", "rising;drop table"} {
		if _, err := ParseState(raw); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("ParseState(%q) error = %v, want ErrInvalidState", raw, err)
		}
	}
}

func TestParseLens(t *testing.T) {
	for _, l := range Lenses() {
		got, err := ParseLens(string(l))
		if err != nil {
			t.Fatalf("ParseLens(%q) unexpected error: %v", l, err)
		}
		if got != l {
			t.Fatalf("ParseLens(%q) = %q", l, got)
		}
		if got.Info().Name == "" {
			t.Fatalf("lens %q has no catalog entry", l)
		}
	}
	if _, err := ParseLens("nihilism"); !errors.Is(err, ErrInvalidLens) {
		t.Fatalf("ParseLens(nihilism) error = %v, want ErrInvalidLens", err)
	}
}

func TestUsageStatsLimit(t *testing.T) {
	s := UsageStats{CardsCreated: 4}
	if s.AtLimit(FreeCardLimit) {
		t.Fatalf("4 created should not be at limit %d", FreeCardLimit)
	}
	if got := s.Remaining(FreeCardLimit); got != 1 {
		t.Fatalf("Remaining() = %d, want 1", got)
	}
	s.CardsCreated = 5
	if !s.AtLimit(FreeCardLimit) {
		t.Fatalf("5 created should be at limit")
	}
	if got := s.Remaining(FreeCardLimit); got != 0 {
		t.Fatalf("Remaining() at limit = %d, want 0", got)
	}
	s.CardsCreated = 7
	if got := s.Remaining(FreeCardLimit); got != 0 {
		t.Fatalf("Remaining() past limit = %d, want 0", got)
	}
}
