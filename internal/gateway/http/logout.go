package http

import (
	"net/http"

	"github.com/tradex-insights/tradex/internal/gateway/service"
	"github.com/tradex-insights/tradex/internal/gateway/session"
	"github.com/tradex-insights/tradex/pkg/httpx"
	"github.com/tradex-insights/tradex/pkg/slogx"
)

// LogoutHandler serves POST /api/auth/logout.
type LogoutHandler struct {
	Auth          service.AuthClient
	SecureCookies bool
}

// ServeHTTP godoc
//
//	@Summary		Logout Endpoint
//	@Description	Clears both identity cookies and revokes the backend session when one is
//	@Description	present. Always returns 200: logout is idempotent and never fails from the
//	@Description	client's point of view.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	MessageResponse	"message"
//	@Router			/api/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if token := session.ReadSessionToken(r); token != "" && h.Auth != nil {
		// Best effort: the cookies are cleared regardless.
		if err := h.Auth.SignOut(ctx, token); err != nil {
			slogx.FromContext(ctx).Warn("backend sign-out failed", "err", err)
		}
	}

	session.ClearArtifact(w, h.SecureCookies)
	session.ClearSession(w, h.SecureCookies)

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}
