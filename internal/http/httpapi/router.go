package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"timeflow/internal/http/handlers"
	"timeflow/internal/infra"
	"timeflow/internal/middleware"
)

// NewRouter wires the full route table. Authentication is layered per
// group: the wizard runs with optional auth so generation is never gated,
// saved-card and profile routes require a session, and the auth forms are
// bounced when a valid session is already presented.
func NewRouter(app *handlers.App, cfg *infra.Config) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectIfAuthenticated(cfg.JWTSecret))
			r.Post("/signup", app.Signup)
			r.Post("/signin", app.Signin)
		})
		r.Post("/signout", app.Signout)
		r.Post("/password-reset/request", app.PasswordResetRequest)
		r.Post("/password-reset/confirm", app.PasswordResetConfirm)
		r.Post("/verify-email", app.VerifyEmail)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(cfg.JWTSecret))
			r.Get("/me", app.Me)
		})
	})

	r.Route("/v1/wizard", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWTSecret))
		r.Post("/", app.WizardStart)
		r.Get("/{id}", app.WizardGet)
		r.Post("/{id}/state", app.WizardState)
		r.Post("/{id}/problem", app.WizardProblem)
		r.Post("/{id}/lens", app.WizardLens)
		r.Post("/{id}/reset", app.WizardReset)
		r.Post("/{id}/save", app.WizardSave)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))
		r.Get("/v1/pending/{token}", app.PendingPeek)
		r.Post("/v1/pending/{token}/save", app.PendingSave)
		r.Get("/v1/cards", app.CardsList)
		r.Delete("/v1/cards/{id}", app.CardDelete)
		r.Get("/v1/stats", app.StatsMe)
		r.Put("/v1/profile/onboarding", app.SetOnboarding)
		r.Post("/v1/waitlist", app.WaitlistJoin)
	})

	return r
}
