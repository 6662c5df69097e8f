package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tradex-insights/tradex/internal/gateway/ratelimit"
	"github.com/tradex-insights/tradex/internal/gateway/service"
	"github.com/tradex-insights/tradex/internal/gateway/session"
	"github.com/tradex-insights/tradex/pkg/httpx"
	"github.com/tradex-insights/tradex/pkg/slogx"
)

// LoginHandler serves POST /api/auth/login.
type LoginHandler struct {
	Login         *service.LoginService
	Limiter       *ratelimit.Limiter
	SecureCookies bool
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Authenticates email/password against the account directory and the backend
//	@Description	auth service. Successful logins set the identity artifact cookie and, when a
//	@Description	full backend session was opened, the session cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse	"user, type"
//	@Failure		400		{object}	ErrorResponse	"error"
//	@Failure		401		{object}	ErrorResponse	"error"
//	@Failure		429		{object}	ErrorResponse	"error"
//	@Header			429		{string}	Retry-After		"seconds until the window resets"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	key := ratelimit.LoginKey(r, req.Email)
	decision, err := h.Limiter.Allow(ctx, key)
	if err != nil {
		// Fail closed: with the counter store blind we cannot tell a first
		// attempt from a thousandth.
		log.Error("counter store unavailable, refusing login attempt", "err", err)
	}
	if !decision.Allowed {
		writeThrottled(w, decision)
		return
	}

	result, err := h.Login.Login(ctx, req.Email, req.Password, key)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Error("login failed", "err", err)
		}
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := session.SetArtifact(w, session.NewArtifact(result.User), h.SecureCookies); err != nil {
		log.Error("artifact encode failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if result.SessionToken != "" {
		session.SetSession(w, result.SessionToken, result.SessionExpiresAt, h.SecureCookies)
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		User: result.User,
		Type: result.Type,
	})
}

// writeThrottled writes the 429 with the machine-readable window metadata and
// the human retry hint in whole minutes, rounded up.
func writeThrottled(w http.ResponseWriter, d ratelimit.Decision) {
	now := time.Now()

	w.Header().Set("Retry-After", strconv.Itoa(d.RetryAfter(now)))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

	mins := d.RetryAfterMinutes(now)
	unit := "minutes"
	if mins == 1 {
		unit = "minute"
	}
	httpx.WriteError(w, http.StatusTooManyRequests,
		fmt.Sprintf("Too many login attempts. Please try again in %d %s.", mins, unit))
}
