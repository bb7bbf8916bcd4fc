package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"timeflow/internal/sqlinline"
)

// CardsList returns the caller's saved cards. ?sort=oldest flips the
// default newest-first ordering.
func (a *App) CardsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	query := sqlinline.QListCardsNewest
	if r.URL.Query().Get("sort") == "oldest" {
		query = sqlinline.QListCardsOldest
	}
	rows, err := a.SQL.Query(r.Context(), query, userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list cards failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list cards")
		return
	}
	defer rows.Close()

	cards := make([]cardDTO, 0)
	for rows.Next() {
		var c cardDTO
		if err := rows.Scan(&c.ID, &c.State, &c.Problem, &c.Lens, &c.Wisdom, &c.CreatedAt); err != nil {
			a.Logger.Error().Err(err).Msg("scan card failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to list cards")
			return
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		a.Logger.Error().Err(err).Msg("list cards failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list cards")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"cards": cards,
		"stats": a.statsView(a.mustStats(r.Context(), userID)),
	})
}

// CardDelete removes one owned card. The confirmation belongs to the
// client; the server only reports whether the row was actually removed, so
// the client never clears a card from view that is still stored.
func (a *App) CardDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	cardID := chi.URLParam(r, "id")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QDeleteCardWithStats, cardID, userID)
	var removedID string
	if err := row.Scan(&removedID); err != nil {
		// No row means the card does not exist or belongs to someone else.
		a.error(w, http.StatusNotFound, "not_found", "card not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"deleted": removedID,
		"stats":   a.statsView(a.mustStats(r.Context(), userID)),
	})
}

// StatsMe returns the caller's usage counters and remaining allowance.
func (a *App) StatsMe(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	stats, err := a.fetchStats(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load stats failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"stats": a.statsView(stats)})
}
