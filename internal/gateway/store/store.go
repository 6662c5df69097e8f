package store

import (
	"context"
	"errors"

	"github.com/tradex-insights/tradex/internal/gateway/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the gateway's data access interface. Concrete drivers implement
// it; only the slices of the application schema the auth core touches are
// exposed here. The wider application owns the rest of the tables.
type Store interface {
	Profiles() Profiles
	LoginAudits() LoginAudits

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Profiles interface {
	// GetProfileByID is the role lookup session resolution performs for
	// full-session callers.
	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)

	// GetProfileByEmail returns a profile by its unique email.
	GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error)

	// UpsertProfile inserts or refreshes a profile row. Used when a
	// backend login reports newer identity attributes than the local row.
	UpsertProfile(ctx context.Context, p domain.Profile) error
}

type LoginAudits interface {
	// CreateLoginAudit records one successful login.
	CreateLoginAudit(ctx context.Context, a domain.LoginAudit) error

	// ListRecentLoginAudits returns the newest audit rows, newest first.
	ListRecentLoginAudits(ctx context.Context, limit int) ([]domain.LoginAudit, error)

	// DeleteOldLoginAudits trims rows older than the retention cutoff.
	DeleteOldLoginAudits(ctx context.Context, keep int) error
}
