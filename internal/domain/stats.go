package domain

import "time"

// FreeCardLimit is the lifetime number of cards a free-tier account may
// create. CardsCreated is compared against it; crossing it routes the user to
// the waitlist view instead of the wizard.
const FreeCardLimit = 5

// UsageStats is the per-user counter row. CardsCreated is a lifetime count
// and is never decremented by deletion; CardsSaved mirrors the cards
// currently persisted. A missing row reads as the zero value, not an error.
type UsageStats struct {
	UserID       string    `json:"user_id"`
	CardsCreated int       `json:"cards_created"`
	CardsSaved   int       `json:"cards_saved"`
	UpdatedAt    time.Time `json:"-"`
}

// AtLimit reports whether the account has exhausted its free-tier allowance.
func (s UsageStats) AtLimit(limit int) bool {
	return s.CardsCreated >= limit
}

// Remaining returns how many cards the account may still create.
func (s UsageStats) Remaining(limit int) int {
	if r := limit - s.CardsCreated; r > 0 {
		return r
	}
	return 0
}
