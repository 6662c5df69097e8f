package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/tradex-insights/tradex/internal/gateway/domain"
)

const (
	// ArtifactCookieName carries the lightweight identity artifact. The
	// mobile client reads its presence (not its value) to short-circuit
	// the login screen, so the name is part of the public contract.
	ArtifactCookieName = "tradeX_demo_user"

	// SessionCookieName relays the backend-issued session token.
	SessionCookieName = "tradeX_session"

	// ArtifactTTL is how long the artifact stands in for a session.
	ArtifactTTL = 7 * 24 * time.Hour
)

// ErrMalformedArtifact reports an artifact cookie that did not decode to the
// expected shape. Callers treat it as an absent identity, never as fatal.
var ErrMalformedArtifact = errors.New("session: malformed artifact cookie")

// Artifact is the Principal subset serialized into the artifact cookie.
// Its presence is accepted as proof of identity by the route guard; it is
// not re-verified against backend state on each request.
type Artifact struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// NewArtifact builds an artifact from a principal.
func NewArtifact(p domain.Principal) Artifact {
	return Artifact{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Role:  p.Role,
	}
}

// Principal expands the artifact back into a request principal. The role is
// re-normalized so a tampered or stale role string degrades to RoleUnknown
// instead of minting a new tier.
func (a Artifact) Principal() domain.Principal {
	return domain.Principal{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Role:  domain.NormalizeRole(string(a.Role)),
	}
}

// EncodeArtifact serializes the artifact as URL-encoded JSON, the format the
// web client's cookie reader expects.
func EncodeArtifact(a Artifact) (string, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(raw)), nil
}

// DecodeArtifact parses a cookie value produced by EncodeArtifact.
func DecodeArtifact(value string) (Artifact, error) {
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return Artifact{}, ErrMalformedArtifact
	}

	var a Artifact
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return Artifact{}, ErrMalformedArtifact
	}
	if a.ID == "" {
		return Artifact{}, ErrMalformedArtifact
	}
	return a, nil
}

// SetArtifact writes the artifact cookie on the response.
func SetArtifact(w http.ResponseWriter, a Artifact, secure bool) error {
	value, err := EncodeArtifact(a)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ArtifactCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ArtifactTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// ClearArtifact expires the artifact cookie immediately.
func ClearArtifact(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     ArtifactCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ReadArtifact extracts and decodes the artifact cookie from a request.
// A missing cookie returns (zero, false, nil); a present-but-malformed
// cookie returns ErrMalformedArtifact so the caller can log it.
func ReadArtifact(r *http.Request) (Artifact, bool, error) {
	c, err := r.Cookie(ArtifactCookieName)
	if err != nil || c.Value == "" {
		return Artifact{}, false, nil
	}

	a, err := DecodeArtifact(c.Value)
	if err != nil {
		return Artifact{}, false, err
	}
	return a, true, nil
}

// SetSession relays the backend session token as an httpOnly cookie.
func SetSession(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSession expires the session cookie immediately.
func ClearSession(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ReadSessionToken returns the backend session token, or "" when absent.
func ReadSessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
