package http

import (
	"net/http"

	"github.com/tradex-insights/tradex/internal/gateway/service"
	"github.com/tradex-insights/tradex/pkg/httpx"
)

// MeHandler serves GET /api/auth/me.
type MeHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Current Identity Endpoint
//	@Description	Returns the principal resolved from the request's cookies: the identity
//	@Description	artifact when present, otherwise the backend session.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	MeResponse		"user"
//	@Failure		401	{object}	ErrorResponse	"error"
//	@Router			/api/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := h.Sessions.Resolve(r)
	if p == nil {
		httpx.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MeResponse{User: *p})
}
