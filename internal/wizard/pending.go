package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"timeflow/internal/domain"
)

// DefaultPendingTTL bounds how long an anonymous generation waits for its
// owner to sign in before it is abandoned.
const DefaultPendingTTL = 30 * time.Minute

// PendingCard bridges an anonymous generation to a later authenticated save.
// It mirrors the wizard selection plus the generated wisdom, and exists so
// that an authentication detour never loses generated content.
type PendingCard struct {
	State     domain.TimeflowState `json:"state"`
	Problem   string               `json:"problem"`
	Lens      domain.Lens          `json:"lens"`
	Wisdom    string               `json:"wisdom"`
	CreatedAt time.Time            `json:"created_at"`
}

// PendingStore keeps pending cards keyed by an opaque one-shot token.
type PendingStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	cards map[string]PendingCard
}

// NewPendingStore creates a pending-card store. A non-positive ttl falls
// back to DefaultPendingTTL.
func NewPendingStore(ttl time.Duration) *PendingStore {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &PendingStore{ttl: ttl, cards: make(map[string]PendingCard)}
}

// Put stores the card and returns the token the client presents after
// authenticating.
func (ps *PendingStore) Put(card PendingCard) string {
	token := uuid.NewString()
	ps.mu.Lock()
	ps.cards[token] = card
	ps.mu.Unlock()
	return token
}

// Peek returns the card without consuming it, for the resume view shown
// right after sign-in.
func (ps *PendingStore) Peek(token string) (PendingCard, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	card, ok := ps.cards[token]
	if !ok {
		return PendingCard{}, domain.ErrNotFound
	}
	if time.Since(card.CreatedAt) > ps.ttl {
		delete(ps.cards, token)
		return PendingCard{}, domain.ErrNotFound
	}
	return card, nil
}

// Take consumes the card. The token is single-use: the card is removed
// before it is returned, so a save that commits can never be replayed.
func (ps *PendingStore) Take(token string) (PendingCard, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	card, ok := ps.cards[token]
	if !ok {
		return PendingCard{}, domain.ErrNotFound
	}
	delete(ps.cards, token)
	if time.Since(card.CreatedAt) > ps.ttl {
		return PendingCard{}, domain.ErrNotFound
	}
	return card, nil
}

// Restore puts a consumed card back under the same token after a failed
// save, so a store error does not destroy the content.
func (ps *PendingStore) Restore(token string, card PendingCard) {
	ps.mu.Lock()
	ps.cards[token] = card
	ps.mu.Unlock()
}

// Sweep drops expired pending cards and reports how many were removed.
func (ps *PendingStore) Sweep() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	removed := 0
	for token, card := range ps.cards {
		if time.Since(card.CreatedAt) > ps.ttl {
			delete(ps.cards, token)
			removed++
		}
	}
	return removed
}
