package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tradex-insights/tradex/internal/gateway/domain"
	"github.com/tradex-insights/tradex/internal/gateway/store"
	"github.com/tradex-insights/tradex/pkg/authsdk"
	"github.com/tradex-insights/tradex/pkg/dirsdk"
	"github.com/tradex-insights/tradex/pkg/idx"
	"github.com/tradex-insights/tradex/pkg/slogx"
)

// ErrInvalidCredentials is the only credential failure callers ever see.
// The true cause (directory miss vs backend rejection) stays in the logs.
var ErrInvalidCredentials = errors.New("service: invalid credentials")

// DirectoryClient is the privileged directory lookup RPC.
type DirectoryClient interface {
	Login(ctx context.Context, email, password string) (*dirsdk.Record, error)
}

// AuthClient is the backend auth service.
type AuthClient interface {
	SignInWithPassword(ctx context.Context, email, password string) (*authsdk.Session, error)
	GetUser(ctx context.Context, token string) (*authsdk.User, error)
	SignOut(ctx context.Context, token string) error
}

// LoginService arbitrates a login attempt across the directory RPC and the
// backend auth service.
//
// The directory is tried first so provisioned and demo accounts authenticate
// without touching the backend's separately-throttled auth endpoint. Real
// customer accounts miss the directory and fall through to standard auth.
type LoginService struct {
	Directory DirectoryClient
	Auth      AuthClient
	Store     store.Store
}

// Login runs one attempt to a terminal state. The caller is expected to have
// already passed the attempt through the rate limiter.
func (s *LoginService) Login(ctx context.Context, email, password, clientKey string) (*domain.LoginResult, error) {
	log := slogx.FromContext(ctx)

	rec, dirErr := s.Directory.Login(ctx, email, password)
	if dirErr == nil && rec != nil {
		result := s.loginFromDirectory(ctx, rec, email, password)
		s.audit(ctx, result, clientKey)
		return result, nil
	}

	// A directory miss — an error, or no record at all — is the expected
	// path for customer accounts; an unreachable directory also falls
	// through so real accounts keep working while it is down.
	if dirErr == nil || errors.Is(dirErr, dirsdk.ErrNoMatch) {
		log.Debug("directory miss, falling through to backend auth", "email", email)
	} else {
		log.Warn("directory lookup failed, falling through to backend auth",
			slog.Any("error", dirErr))
	}

	sess, authErr := s.Auth.SignInWithPassword(ctx, email, password)
	if authErr != nil {
		log.Info("login rejected",
			"email", email,
			slog.Any("error", authErr),
		)
		return nil, ErrInvalidCredentials
	}

	result := &domain.LoginResult{
		User: domain.Principal{
			ID:        sess.User.ID,
			Name:      sess.User.Metadata.Name,
			Email:     sess.User.Email,
			Role:      domain.NormalizeRole(sess.User.Metadata.Role),
			CreatedAt: sess.User.CreatedAt,
		},
		Type:             domain.LoginAuthenticated,
		SessionToken:     sess.AccessToken,
		SessionExpiresAt: sess.ExpiresAt,
	}
	s.syncProfile(ctx, result.User)
	s.audit(ctx, result, clientKey)
	return result, nil
}

// loginFromDirectory finishes a login whose identity the directory already
// established. It additionally tries to open a full backend session; failure
// there is expected for purely-virtual accounts and leaves the artifact as
// the only credential.
func (s *LoginService) loginFromDirectory(ctx context.Context, rec *dirsdk.Record, email, password string) *domain.LoginResult {
	log := slogx.FromContext(ctx)

	result := &domain.LoginResult{
		User: domain.Principal{
			ID:        rec.ID,
			Name:      rec.Name,
			Email:     rec.Email,
			Role:      domain.NormalizeRole(rec.Role),
			CreatedAt: rec.CreatedAt,
		},
		Type: domain.LoginDemoRPC,
	}

	if sess, err := s.Auth.SignInWithPassword(ctx, email, password); err == nil {
		result.Type = domain.LoginAuthenticated
		result.SessionToken = sess.AccessToken
		result.SessionExpiresAt = sess.ExpiresAt
	} else {
		log.Debug("no backend session for directory account",
			"email", email,
			slog.Any("error", err),
		)
	}

	s.syncProfile(ctx, result.User)
	return result
}

// syncProfile keeps the local profile row in step with the authoritative
// identity so session resolution's role lookup stays current. Best effort.
func (s *LoginService) syncProfile(ctx context.Context, p domain.Principal) {
	if s.Store == nil {
		return
	}

	err := s.Store.Profiles().UpsertProfile(ctx, domain.Profile{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Role:  p.Role,
	})
	if err != nil {
		slogx.FromContext(ctx).Warn("profile sync failed",
			"user_id", p.ID,
			slog.Any("error", err),
		)
	}
}

// audit records a successful login. Best effort: a full audit table must
// never block a login.
func (s *LoginService) audit(ctx context.Context, r *domain.LoginResult, clientKey string) {
	if s.Store == nil {
		return
	}

	err := s.Store.LoginAudits().CreateLoginAudit(ctx, domain.LoginAudit{
		ID:        idx.New().String(),
		Email:     r.User.Email,
		Type:      r.Type,
		ClientKey: clientKey,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slogx.FromContext(ctx).Warn("login audit write failed", slog.Any("error", err))
	}
}
