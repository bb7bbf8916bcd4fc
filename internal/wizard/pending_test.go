package wizard

import (
	"errors"
	"sync"
	"testing"
	"time"

	"timeflow/internal/domain"
)

func samplePending() PendingCard {
	return PendingCard{
		State:     domain.StateTurbulent,
		Problem:   "too many open loops",
		Lens:      domain.LensTaoism,
		Wisdom:    "close one loop, then rest",
		CreatedAt: time.Now(),
	}
}

func TestPendingPutTakeRoundTrip(t *testing.T) {
	ps := NewPendingStore(0)
	card := samplePending()
	token := ps.Put(card)

	peeked, err := ps.Peek(token)
	if err != nil {
		t.Fatalf("Peek error: %v", err)
	}
	if peeked.Wisdom != card.Wisdom || peeked.State != card.State || peeked.Lens != card.Lens || peeked.Problem != card.Problem {
		t.Fatalf("Peek returned %+v, want %+v", peeked, card)
	}

	taken, err := ps.Take(token)
	if err != nil {
		t.Fatalf("Take error: %v", err)
	}
	if taken.Wisdom != card.Wisdom {
		t.Fatalf("Take returned %+v", taken)
	}
	if _, err := ps.Take(token); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Take = %v, want ErrNotFound", err)
	}
	if _, err := ps.Peek(token); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Peek after Take = %v, want ErrNotFound", err)
	}
}

func TestPendingRestoreAfterFailedSave(t *testing.T) {
	ps := NewPendingStore(0)
	card := samplePending()
	token := ps.Put(card)
	if _, err := ps.Take(token); err != nil {
		t.Fatalf("Take error: %v", err)
	}
	ps.Restore(token, card)
	got, err := ps.Take(token)
	if err != nil {
		t.Fatalf("Take after Restore error: %v", err)
	}
	if got.Problem != card.Problem {
		t.Fatalf("restored card = %+v", got)
	}
}

func TestPendingExpires(t *testing.T) {
	ps := NewPendingStore(10 * time.Millisecond)
	card := samplePending()
	card.CreatedAt = time.Now().Add(-time.Minute)
	token := ps.Put(card)
	if _, err := ps.Take(token); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Take of expired card = %v, want ErrNotFound", err)
	}
	token = ps.Put(samplePending())
	if removed := ps.Sweep(); removed != 0 {
		t.Fatalf("Sweep removed live card: %d", removed)
	}
	if _, err := ps.Peek(token); err != nil {
		t.Fatalf("live card missing after sweep: %v", err)
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	st := NewStore(10 * time.Millisecond)
	s := st.Create("user-1")
	if _, err := st.Update(s.ID, func(sess *Session) error {
		sess.UpdatedAt = time.Now().Add(-time.Minute)
		return nil
	}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if _, err := st.Get(s.ID); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("Get of expired session = %v, want ErrSessionExpired", err)
	}
	if _, err := st.Get(s.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expired session should be gone: %v", err)
	}
}

func TestSessionStoreHandsOutSnapshots(t *testing.T) {
	st := NewStore(0)
	s := st.Create("user-1")
	s.Problem = "scribbled on the copy"
	got, err := st.Get(s.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Problem != "" {
		t.Fatalf("mutating a snapshot reached the store: %q", got.Problem)
	}
}

func TestSessionStoreConcurrentReadersAndWriters(t *testing.T) {
	st := NewStore(0)
	s := st.Create("user-1")
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if _, err := st.Get(s.ID); err != nil {
				t.Errorf("Get error: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if _, err := st.Update(s.ID, func(sess *Session) error {
				sess.Problem = "written under the lock"
				return nil
			}); err != nil {
				t.Errorf("Update error: %v", err)
				return
			}
		}
	}()
	wg.Wait()
}

func TestSessionStoreUpdate(t *testing.T) {
	st := NewStore(0)
	s := st.Create("")
	if _, err := st.Update(s.ID, func(sess *Session) error {
		return sess.SelectState("grounded")
	}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	got, err := st.Get(s.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Step != StepProblemInput {
		t.Fatalf("step = %s, want problem_input", got.Step)
	}
	st.Delete(s.ID)
	if _, err := st.Get(s.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after Delete = %v, want ErrNotFound", err)
	}
}
