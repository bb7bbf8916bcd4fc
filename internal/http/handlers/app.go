package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"timeflow/internal/domain"
	"timeflow/internal/infra"
	"timeflow/internal/infra/geoip"
	"timeflow/internal/middleware"
	"timeflow/internal/providers/wisdom"
	"timeflow/internal/sqlinline"
	"timeflow/internal/wizard"
)

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	SQL       infra.SQLExecutor
	Logger    zerolog.Logger
	JWTSecret string
	CardLimit int
	Generator wisdom.Generator
	Sessions  *wizard.Store
	Pending   *wizard.PendingStore
	GeoIP     geoip.CountryResolver
}

// NewApp constructs the handler container with in-memory wizard stores.
func NewApp(sql infra.SQLExecutor, logger zerolog.Logger, cfg *infra.Config, gen wisdom.Generator) *App {
	return &App{
		SQL:       sql,
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
		CardLimit: cfg.FreeCardLimit,
		Generator: gen,
		Sessions:  wizard.NewStore(cfg.SessionTTL),
		Pending:   wizard.NewPendingStore(cfg.PendingTTL),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"code": code, "message": message})
}

// redirect answers with a routing envelope rather than an error: the client
// should navigate, nothing went wrong. Cap-exceeded and already-signed-in
// both use this shape.
func (a *App) redirect(w http.ResponseWriter, code, target, message string) {
	a.json(w, http.StatusOK, map[string]string{
		"code":     code,
		"redirect": target,
		"message":  message,
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// fetchStats reads the caller's usage row. Absence of a row is a zero
// value, not an error.
func (a *App) fetchStats(ctx context.Context, userID string) (domain.UsageStats, error) {
	stats := domain.UsageStats{UserID: userID}
	row := a.SQL.QueryRow(ctx, sqlinline.QSelectUserStats, userID)
	err := row.Scan(&stats.CardsCreated, &stats.CardsSaved, &stats.UpdatedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return stats, err
	}
	return stats, nil
}

type statsDTO struct {
	CardsCreated int `json:"cards_created"`
	CardsSaved   int `json:"cards_saved"`
	Limit        int `json:"limit"`
	Remaining    int `json:"remaining"`
}

func (a *App) statsView(stats domain.UsageStats) statsDTO {
	return statsDTO{
		CardsCreated: stats.CardsCreated,
		CardsSaved:   stats.CardsSaved,
		Limit:        a.CardLimit,
		Remaining:    stats.Remaining(a.CardLimit),
	}
}
