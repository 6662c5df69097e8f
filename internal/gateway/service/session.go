package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tradex-insights/tradex/internal/gateway/domain"
	"github.com/tradex-insights/tradex/internal/gateway/session"
	"github.com/tradex-insights/tradex/internal/gateway/store"
	"github.com/tradex-insights/tradex/pkg/authsdk"
	"github.com/tradex-insights/tradex/pkg/slogx"
)

// SessionService recovers the caller's identity on each request.
type SessionService struct {
	Auth  AuthClient
	Store store.Store
}

// Resolve returns the request's principal, or nil when the caller carries no
// usable identity.
//
// The artifact cookie wins over the full session: its presence is accepted
// at face value, matching the client contract. A malformed artifact is
// treated as absent, never as a request failure.
func (s *SessionService) Resolve(r *http.Request) *domain.Principal {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	artifact, ok, err := session.ReadArtifact(r)
	if err != nil {
		log.Warn("ignoring malformed artifact cookie", slog.Any("error", err))
	}
	if ok {
		p := artifact.Principal()
		return &p
	}

	token := session.ReadSessionToken(r)
	if token == "" {
		return nil
	}

	user, err := s.Auth.GetUser(ctx, token)
	if err != nil {
		if !errors.Is(err, authsdk.ErrNoSession) {
			log.Warn("backend session lookup failed", slog.Any("error", err))
		}
		return nil
	}

	profile, err := s.Store.Profiles().GetProfileByID(ctx, user.ID)
	if err != nil {
		// Availability over precision: a missing profile row degrades the
		// role rather than failing the whole request.
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn("profile lookup failed, degrading role",
				"user_id", user.ID,
				slog.Any("error", err),
			)
		}
		return &domain.Principal{
			ID:        user.ID,
			Name:      user.Metadata.Name,
			Email:     user.Email,
			Role:      domain.NormalizeRole(user.Metadata.Role),
			CreatedAt: user.CreatedAt,
		}
	}

	p := profile.Principal()
	if p.Email == "" {
		p.Email = user.Email
	}
	return &p
}
