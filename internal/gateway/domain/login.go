package domain

import "time"

// LoginType tags which path produced a successful login.
type LoginType string

const (
	// LoginAuthenticated means a full backend session was established.
	LoginAuthenticated LoginType = "authenticated"

	// LoginDemoRPC means only the directory record authenticated the user;
	// no backend session exists and the artifact cookie carries identity.
	LoginDemoRPC LoginType = "demo_rpc"
)

// LoginResult is the terminal success state of a login attempt.
type LoginResult struct {
	User Principal
	Type LoginType

	// SessionToken is the backend-issued session token, empty on the
	// demo_rpc path.
	SessionToken string

	// SessionExpiresAt is when the backend session lapses, zero on the
	// demo_rpc path.
	SessionExpiresAt time.Time
}

// LoginAudit records one successful login for operational review.
type LoginAudit struct {
	ID        string
	Email     string
	Type      LoginType
	ClientKey string // derived rate-limit key, "<ip>:<email>"
	CreatedAt time.Time
}
