package authsdk

import "time"

// User is the backend auth service's view of an account. Profile attributes
// the service does not own arrive inside Metadata.
type User struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Metadata  UserMetadata `json:"user_metadata"`
	CreatedAt time.Time    `json:"created_at"`
}

// UserMetadata carries the application-managed attributes attached to an
// auth account.
type UserMetadata struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Session is an established backend session.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        User
}

// sessionResponse is the wire shape of a successful token exchange.
type sessionResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

func newSession(resp sessionResponse) *Session {
	expiresAt := time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	if resp.ExpiresIn == 0 {
		// Fall back to the token's own exp claim.
		if exp, err := TokenExpiry(resp.AccessToken); err == nil {
			expiresAt = exp
		}
	}

	return &Session{
		AccessToken: resp.AccessToken,
		ExpiresAt:   expiresAt,
		User:        resp.User,
	}
}
