package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradex-insights/tradex/internal/gateway/store"
)

// HousekeepingService periodically trims the login audit table to prevent
// unbounded growth.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// How many of the most recent audit rows to keep.
	AuditKeep int

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration, auditKeep int) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if auditKeep <= 0 {
		auditKeep = 10000
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		AuditKeep: auditKeep,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	ctx := context.Background()

	if err := s.Store.LoginAudits().DeleteOldLoginAudits(ctx, s.AuditKeep); err != nil {
		s.Logger.Error("failed to trim login audits", "error", err)
		return
	}
	s.Logger.Debug("login audits trimmed", "keep", s.AuditKeep)
}
