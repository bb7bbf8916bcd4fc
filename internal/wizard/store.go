package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"timeflow/internal/domain"
)

// DefaultSessionTTL bounds how long an idle wizard run survives. A flow can
// span a long editing session, so this is generous.
const DefaultSessionTTL = 2 * time.Hour

// Store holds in-flight wizard sessions in memory. Sessions are ephemeral by
// contract; losing them on restart only means re-entering the flow.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewStore creates a session store. A non-positive ttl falls back to
// DefaultSessionTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{ttl: ttl, sessions: make(map[string]*Session)}
}

// Create starts a new session at the first step and returns a snapshot of
// it. userID is empty for anonymous runs.
func (st *Store) Create(userID string) Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Step:      StepStateSelect,
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return *s
}

// Get returns a snapshot of the session by ID. The live session never
// leaves the store lock; callers mutate through Update only. An expired
// session reads as absent.
func (st *Store) Get(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return Session{}, domain.ErrNotFound
	}
	if time.Since(s.UpdatedAt) > st.ttl {
		delete(st.sessions, id)
		return Session{}, domain.ErrSessionExpired
	}
	return *s, nil
}

// Update runs fn against the session under the store lock, serializing
// concurrent requests on the same wizard run (double-submit protection),
// and returns the resulting snapshot.
func (st *Store) Update(id string, fn func(*Session) error) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return Session{}, domain.ErrNotFound
	}
	if time.Since(s.UpdatedAt) > st.ttl {
		delete(st.sessions, id)
		return Session{}, domain.ErrSessionExpired
	}
	if err := fn(s); err != nil {
		return *s, err
	}
	return *s, nil
}

// Delete removes a finished or abandoned session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Sweep drops expired sessions and reports how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if time.Since(s.UpdatedAt) > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
