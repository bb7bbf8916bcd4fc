package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"timeflow/internal/sqlinline"
)

type waitlistRequest struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Feedback           string   `json:"feedback"`
	InterestedFeatures []string `json:"interested_features"`
}

// WaitlistJoin upserts the caller's mobile-app waitlist entry. The country
// is derived from the client address when a GeoIP database is configured;
// re-submitting without a resolvable country keeps the previous one.
func (a *App) WaitlistJoin(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req waitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		a.error(w, http.StatusBadRequest, "bad_request", "a valid email is required")
		return
	}
	if req.InterestedFeatures == nil {
		req.InterestedFeatures = []string{}
	}
	features, err := json.Marshal(req.InterestedFeatures)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	country := a.resolveCountry(r)
	row := a.SQL.QueryRow(r.Context(), sqlinline.QUpsertWaitlistEntry,
		userID, strings.TrimSpace(req.Name), email, strings.TrimSpace(req.Feedback),
		string(features), country)
	var entryID string
	if err := row.Scan(&entryID); err != nil {
		a.Logger.Error().Err(err).Msg("waitlist upsert failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to join waitlist")
		return
	}
	a.json(w, http.StatusOK, map[string]string{
		"id":           entryID,
		"country_code": country,
	})
}

func (a *App) resolveCountry(r *http.Request) string {
	if a.GeoIP == nil {
		return ""
	}
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			host = strings.TrimSpace(first)
		} else {
			host = strings.TrimSpace(fwd)
		}
	}
	country, err := a.GeoIP.CountryCode(host)
	if err != nil {
		a.Logger.Debug().Err(err).Str("addr", host).Msg("country lookup failed")
		return ""
	}
	return country
}
