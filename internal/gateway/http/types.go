package http

import "github.com/tradex-insights/tradex/internal/gateway/domain"

// LoginRequest is the JSON body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /api/auth/login.
type LoginResponse struct {
	User domain.Principal `json:"user"`
	Type domain.LoginType `json:"type"`
}

// MeResponse is the body of GET /api/auth/me.
type MeResponse struct {
	User domain.Principal `json:"user"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the health probe endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Counter  string `json:"counter,omitempty"`
}
