package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"timeflow/internal/domain"
	"timeflow/internal/middleware"
	"timeflow/internal/sqlinline"
)

const (
	tokenKindEmailVerify   = "email_verify"
	tokenKindPasswordReset = "password_reset"

	jwtTTL           = 24 * time.Hour
	verifyTokenTTL   = 24 * time.Hour
	resetTokenTTL    = time.Hour
	minPasswordChars = 8
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userDTO  `json:"user"`
	Stats statsDTO `json:"stats"`
}

type userDTO struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	EmailVerified      bool   `json:"email_verified"`
	Plan               string `json:"plan"`
	OnboardingComplete bool   `json:"onboarding_complete"`
}

func validCredentials(req credentialsRequest) string {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "a valid email is required"
	}
	if len(req.Password) < minPasswordChars {
		return "password must be at least 8 characters"
	}
	return ""
}

func (a *App) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if msg := validCredentials(req); msg != "" {
		a.error(w, http.StatusBadRequest, "bad_request", msg)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.Logger.Error().Err(err).Msg("hash password failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertUser, strings.TrimSpace(req.Email), string(hash))
	var userID, plan string
	var createdAt time.Time
	if err := row.Scan(&userID, &plan, &createdAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			a.error(w, http.StatusConflict, "email_taken", "an account with this email already exists")
			return
		}
		a.Logger.Error().Err(err).Msg("insert user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}

	a.issueAuthToken(r.Context(), userID, tokenKindEmailVerify, verifyTokenTTL)

	token, err := a.signSession(userID, plan)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusCreated, authResponse{
		Token: token,
		User: userDTO{
			ID:    userID,
			Email: strings.ToLower(strings.TrimSpace(req.Email)),
			Plan:  plan,
		},
		Stats: a.statsView(a.mustStats(r.Context(), userID)),
	})
}

func (a *App) Signin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByEmail, strings.TrimSpace(req.Email))
	var userID, email, hash, plan string
	var verified bool
	var propsBytes []byte
	if err := row.Scan(&userID, &email, &hash, &verified, &plan, &propsBytes); err != nil {
		// Same answer for unknown email and wrong password.
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}
	token, err := a.signSession(userID, plan)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, authResponse{
		Token: token,
		User: userDTO{
			ID:                 userID,
			Email:              email,
			EmailVerified:      verified,
			Plan:               plan,
			OnboardingComplete: onboardingFlag(propsBytes),
		},
		Stats: a.statsView(a.mustStats(r.Context(), userID)),
	})
}

// Signout exists so the identity surface is complete. Sessions are stateless
// bearer tokens; the client discards the token.
func (a *App) Signout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByID, userID)
	var id, email, plan string
	var verified bool
	var propsBytes []byte
	var createdAt, updatedAt time.Time
	if err := row.Scan(&id, &email, &verified, &plan, &propsBytes, &createdAt, &updatedAt); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"user": userDTO{
			ID:                 id,
			Email:              email,
			EmailVerified:      verified,
			Plan:               plan,
			OnboardingComplete: onboardingFlag(propsBytes),
		},
		"stats": a.statsView(a.mustStats(r.Context(), userID)),
	})
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

func (a *App) PasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByEmail, strings.TrimSpace(req.Email))
	var userID, email, hash, plan string
	var verified bool
	var propsBytes []byte
	if err := row.Scan(&userID, &email, &hash, &verified, &plan, &propsBytes); err == nil {
		a.issueAuthToken(r.Context(), userID, tokenKindPasswordReset, resetTokenTTL)
	}
	// Accepted either way: the response never reveals whether the email exists.
	w.WriteHeader(http.StatusAccepted)
}

type passwordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (a *App) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if len(req.NewPassword) < minPasswordChars {
		a.error(w, http.StatusBadRequest, "bad_request", "password must be at least 8 characters")
		return
	}
	userID, err := a.consumeAuthToken(r.Context(), req.Token, tokenKindPasswordReset)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_token", "reset token is invalid or expired")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		a.Logger.Error().Err(err).Msg("hash password failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update password")
		return
	}
	if _, err := a.SQL.Exec(r.Context(), sqlinline.QSetPasswordHash, userID, string(hash)); err != nil {
		a.Logger.Error().Err(err).Msg("set password failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

func (a *App) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	userID, err := a.consumeAuthToken(r.Context(), req.Token, tokenKindEmailVerify)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_token", "verification token is invalid or expired")
		return
	}
	if _, err := a.SQL.Exec(r.Context(), sqlinline.QMarkEmailVerified, userID); err != nil {
		a.Logger.Error().Err(err).Msg("mark verified failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to verify email")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type onboardingRequest struct {
	Complete bool `json:"complete"`
}

// SetOnboarding records the once-written onboarding flag on the account.
func (a *App) SetOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req onboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if _, err := a.SQL.Exec(r.Context(), sqlinline.QSetOnboardingComplete, userID, req.Complete); err != nil {
		a.Logger.Error().Err(err).Msg("set onboarding failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) signSession(userID, plan string) (string, error) {
	return middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      userID,
		Plan:     plan,
		Exp:      time.Now().Add(jwtTTL).Unix(),
		Issuer:   "timeflow",
		Audience: "timeflow-web",
	})
}

// issueAuthToken persists a single-use token and logs it. Delivery (email)
// is an integration point outside this service.
func (a *App) issueAuthToken(ctx context.Context, userID, kind string, ttl time.Duration) {
	token := uuid.NewString()
	expires := time.Now().Add(ttl)
	if _, err := a.SQL.Exec(ctx, sqlinline.QInsertAuthToken, userID, kind, token, expires); err != nil {
		a.Logger.Error().Err(err).Str("kind", kind).Msg("issue auth token failed")
		return
	}
	a.Logger.Info().Str("kind", kind).Str("user_id", userID).Str("token", token).Msg("auth token issued")
}

func (a *App) consumeAuthToken(ctx context.Context, token, kind string) (string, error) {
	row := a.SQL.QueryRow(ctx, sqlinline.QConsumeAuthToken, token, kind)
	var userID string
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
		a.Logger.Error().Err(err).Str("kind", kind).Msg("consume auth token failed")
		return "", err
	}
	return userID, nil
}

// mustStats reads usage, degrading to the zero row on storage errors: a
// display view should not fail because a counter read did. Cap checks on
// the save paths go through fetchStats directly and fail closed.
func (a *App) mustStats(ctx context.Context, userID string) domain.UsageStats {
	stats, err := a.fetchStats(ctx, userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load stats failed")
	}
	return stats
}

func onboardingFlag(propsBytes []byte) bool {
	props := map[string]any{}
	if len(propsBytes) > 0 {
		_ = json.Unmarshal(propsBytes, &props)
	}
	v, ok := props["onboarding_complete"].(bool)
	return ok && v
}
