package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"timeflow/internal/domain"
	"timeflow/internal/middleware"
	"timeflow/internal/providers/wisdom"
	"timeflow/internal/sqlinline"
	"timeflow/internal/wizard"
)

type sessionDTO struct {
	ID        string `json:"id"`
	Step      string `json:"step"`
	State     string `json:"state,omitempty"`
	Problem   string `json:"problem,omitempty"`
	Lens      string `json:"lens,omitempty"`
	Wisdom    string `json:"wisdom,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

func sessionView(s wizard.Session) sessionDTO {
	return sessionDTO{
		ID:        s.ID,
		Step:      string(s.Step),
		State:     string(s.State),
		Problem:   s.Problem,
		Lens:      string(s.Lens),
		Wisdom:    s.Wisdom,
		LastError: s.LastError,
	}
}

type lensDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Philosophers string `json:"philosophers"`
}

func lensCatalog() []lensDTO {
	out := make([]lensDTO, 0, len(domain.Lenses()))
	for _, lens := range domain.Lenses() {
		info := lens.Info()
		out = append(out, lensDTO{
			ID:           string(lens),
			Name:         info.Name,
			Description:  info.Focus,
			Philosophers: info.Philosophers,
		})
	}
	return out
}

// WizardStart opens a new wizard run. A signed-in free-tier user who has
// exhausted the card allowance is routed to the waitlist instead of into
// a flow that cannot end in a save.
func (a *App) WizardStart(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID != "" {
		stats := a.mustStats(r.Context(), userID)
		if a.atLimit(r, stats) {
			a.redirect(w, "card_limit_reached", "/waitlist",
				"free plan limit reached, join the waitlist for more")
			return
		}
	}
	s := a.Sessions.Create(userID)
	states := make([]string, 0, len(domain.States()))
	for _, st := range domain.States() {
		states = append(states, string(st))
	}
	a.json(w, http.StatusCreated, map[string]any{
		"session": sessionView(s),
		"states":  states,
		"lenses":  lensCatalog(),
		// Anonymous callers are never capped, but they are told the cap
		// exists before they sign up.
		"card_limit": a.CardLimit,
	})
}

// WizardGet returns the current session snapshot.
func (a *App) WizardGet(w http.ResponseWriter, r *http.Request) {
	s, err := a.ownedSession(r)
	if err != nil {
		a.wizardError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"session": sessionView(s)})
}

type stateRequest struct {
	State string `json:"state"`
}

func (a *App) WizardState(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	a.advance(w, r, func(s *wizard.Session) error {
		return s.SelectState(req.State)
	})
}

type problemRequest struct {
	Problem string `json:"problem"`
}

func (a *App) WizardProblem(w http.ResponseWriter, r *http.Request) {
	var req problemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	a.advance(w, r, func(s *wizard.Session) error {
		return s.SetProblem(req.Problem)
	})
}

type lensRequest struct {
	Lens string `json:"lens"`
}

// WizardLens records the lens choice and runs generation inline. The
// response carries either the reviewed session or the failure that
// abandoned it.
func (a *App) WizardLens(w http.ResponseWriter, r *http.Request) {
	var req lensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	s, err := a.updateOwned(r, func(s *wizard.Session) error {
		return s.SelectLens(req.Lens)
	})
	if err != nil {
		a.wizardError(w, err)
		return
	}

	text, genErr := a.Generator.Generate(r.Context(), wisdom.Request{
		State:   s.State,
		Problem: s.Problem,
		Lens:    s.Lens,
	})
	s, err = a.Sessions.Update(s.ID, func(s *wizard.Session) error {
		if genErr != nil {
			s.FailGeneration(genErr)
			return nil
		}
		return s.CompleteGeneration(text)
	})
	if err != nil {
		a.wizardError(w, err)
		return
	}
	if genErr != nil {
		a.Logger.Error().Err(genErr).Str("provider", a.Generator.Name()).Msg("wisdom generation failed")
		a.json(w, http.StatusBadGateway, map[string]any{
			"code":    "generation_failed",
			"message": "wisdom generation failed, start a new flow to retry",
			"session": sessionView(s),
		})
		return
	}
	a.json(w, http.StatusOK, map[string]any{"session": sessionView(s)})
}

// WizardReset returns the run to the first step and discards any pending
// card the run parked while its owner went to sign in.
func (a *App) WizardReset(w http.ResponseWriter, r *http.Request) {
	s, err := a.updateOwned(r, func(s *wizard.Session) error {
		if s.PendingToken != "" {
			if _, err := a.Pending.Take(s.PendingToken); err == nil {
				a.Logger.Info().Str("session_id", s.ID).Msg("pending card discarded on reset")
			}
		}
		s.Reset()
		return nil
	})
	if err != nil {
		a.wizardError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"session": sessionView(s)})
}

// WizardSave persists the reviewed card for a signed-in caller, or parks it
// as a pending card and routes an anonymous caller to sign-in. The wizard
// itself never blocks generation on authentication; only the save does.
func (a *App) WizardSave(w http.ResponseWriter, r *http.Request) {
	s, err := a.ownedSession(r)
	if err != nil {
		a.wizardError(w, err)
		return
	}
	if s.Step != wizard.StepReview {
		a.wizardError(w, domain.ErrWrongStep)
		return
	}

	userID := a.currentUserID(r)
	if userID == "" {
		var token string
		_, err = a.Sessions.Update(s.ID, func(s *wizard.Session) error {
			if s.Step != wizard.StepReview {
				return domain.ErrWrongStep
			}
			token = a.Pending.Put(s.Selection())
			s.PendingToken = token
			return nil
		})
		if err != nil {
			a.wizardError(w, err)
			return
		}
		a.json(w, http.StatusUnauthorized, map[string]string{
			"code":          "auth_required",
			"pending_token": token,
			"redirect":      "/auth/login?redirect=" + url.QueryEscape("/wisdom-card"),
			"message":       "sign in to save this card",
		})
		return
	}

	// The cap gate fails closed here: an unreadable counter must not let a
	// save through, so this path does not degrade to the zero row.
	stats, err := a.fetchStats(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load stats failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to check card allowance")
		return
	}
	if a.atLimit(r, stats) {
		a.redirect(w, "card_limit_reached", "/waitlist",
			"free plan limit reached, join the waitlist for more")
		return
	}
	card, cardStats, err := a.persistCard(r.Context(), userID, s.Selection())
	if err != nil {
		a.Logger.Error().Err(err).Msg("save card failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save card")
		return
	}
	a.Sessions.Delete(s.ID)
	a.json(w, http.StatusCreated, map[string]any{
		"card":  card,
		"stats": a.statsView(cardStats),
	})
}

// PendingPeek shows a parked card to its now-authenticated owner without
// consuming the token.
func (a *App) PendingPeek(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	card, err := a.Pending.Peek(token)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "pending card not found or expired")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"pending": pendingView(card)})
}

// PendingSave consumes a pending token and persists the parked card for the
// authenticated caller. On a storage failure the card is restored under the
// same token so the content survives a retry.
func (a *App) PendingSave(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	token := chi.URLParam(r, "token")
	card, err := a.Pending.Take(token)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "pending card not found or expired")
		return
	}
	stats, err := a.fetchStats(r.Context(), userID)
	if err != nil {
		a.Pending.Restore(token, card)
		a.Logger.Error().Err(err).Msg("load stats failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to check card allowance")
		return
	}
	if a.atLimit(r, stats) {
		a.Pending.Restore(token, card)
		a.redirect(w, "card_limit_reached", "/waitlist",
			"free plan limit reached, join the waitlist for more")
		return
	}
	saved, cardStats, err := a.persistCard(r.Context(), userID, card)
	if err != nil {
		a.Pending.Restore(token, card)
		a.Logger.Error().Err(err).Msg("save pending card failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save card")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"card":  saved,
		"stats": a.statsView(cardStats),
	})
}

type cardDTO struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Problem   string    `json:"problem"`
	Lens      string    `json:"lens"`
	Wisdom    string    `json:"wisdom"`
	CreatedAt time.Time `json:"created_at"`
}

func pendingView(card wizard.PendingCard) map[string]any {
	return map[string]any{
		"state":      string(card.State),
		"problem":    card.Problem,
		"lens":       string(card.Lens),
		"wisdom":     card.Wisdom,
		"created_at": card.CreatedAt,
	}
}

func (a *App) persistCard(ctx context.Context, userID string, card wizard.PendingCard) (cardDTO, domain.UsageStats, error) {
	row := a.SQL.QueryRow(ctx, sqlinline.QInsertCardWithStats,
		userID, string(card.State), card.Problem, string(card.Lens), card.Wisdom)
	out := cardDTO{
		State:   string(card.State),
		Problem: card.Problem,
		Lens:    string(card.Lens),
		Wisdom:  card.Wisdom,
	}
	stats := domain.UsageStats{UserID: userID}
	if err := row.Scan(&out.ID, &out.CreatedAt, &stats.CardsCreated, &stats.CardsSaved); err != nil {
		return cardDTO{}, stats, err
	}
	return out, stats, nil
}

// atLimit applies the free-tier allowance. Paid plans are never capped.
func (a *App) atLimit(r *http.Request, stats domain.UsageStats) bool {
	if middleware.PlanFromContext(r.Context()) == string(domain.UserPlanPro) {
		return false
	}
	return stats.AtLimit(a.CardLimit)
}

func (a *App) ownedSession(r *http.Request) (wizard.Session, error) {
	s, err := a.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		return wizard.Session{}, err
	}
	if s.UserID != "" && s.UserID != a.currentUserID(r) {
		return wizard.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (a *App) updateOwned(r *http.Request, fn func(*wizard.Session) error) (wizard.Session, error) {
	if _, err := a.ownedSession(r); err != nil {
		return wizard.Session{}, err
	}
	return a.Sessions.Update(chi.URLParam(r, "id"), fn)
}

func (a *App) advance(w http.ResponseWriter, r *http.Request, fn func(*wizard.Session) error) {
	s, err := a.updateOwned(r, fn)
	if err != nil {
		a.wizardError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"session": sessionView(s)})
}

func (a *App) wizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "wizard session not found")
	case errors.Is(err, domain.ErrSessionExpired):
		a.error(w, http.StatusGone, "session_expired", "wizard session expired, start again")
	case errors.Is(err, domain.ErrWrongStep):
		a.error(w, http.StatusConflict, "wrong_step", err.Error())
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidLens),
		errors.Is(err, domain.ErrEmptyProblem):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrProviderFailure):
		a.error(w, http.StatusBadGateway, "generation_failed", "wisdom generation failed")
	default:
		a.Logger.Error().Err(err).Msg("wizard operation failed")
		a.error(w, http.StatusInternalServerError, "internal", "wizard operation failed")
	}
}
