package jobs

import (
	"context"
	"log"
	"time"

	"github.com/souravhub/employee-login-backend/internal/config"
	"github.com/souravhub/employee-login-backend/internal/repository"
)

// HandleSweeper periodically clears refresh token handles whose tokens
// expired long ago, so revoked or abandoned sessions do not linger as
// stale hashes in the users table.
type HandleSweeper struct {
	cfg   config.Config
	store *repository.Store
}

func NewHandleSweeper(cfg config.Config, store *repository.Store) *HandleSweeper {
	return &HandleSweeper{cfg: cfg, store: store}
}

// Run blocks until ctx is cancelled. One sweep runs immediately on
// startup, then one per interval.
func (h *HandleSweeper) Run(ctx context.Context) {
	if !h.cfg.HandleSweepEnabled {
		return
	}

	ticker := time.NewTicker(h.cfg.HandleSweepInterval)
	defer ticker.Stop()

	h.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.sweep(ctx)
		}
	}
}

func (h *HandleSweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-h.cfg.RefreshTokenTTL)
	cleared, err := h.store.SweepStaleRefreshHandles(ctx, cutoff)
	if err != nil {
		log.Printf("refresh handle sweep failed: %v", err)
		return
	}
	if cleared > 0 {
		log.Printf("refresh handle sweep cleared %d stale handles", cleared)
	}
}
