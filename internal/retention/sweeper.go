package retention

import (
	"context"
	"log"
	"time"

	"whisper-service/internal/observability"
)

// SharePurger deletes share records that expired before a cutoff.
type SharePurger interface {
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Sweeper periodically removes share records long past their expiry.
// Read-time expiry checks never depend on it; it only bounds storage growth
// on a long-running instance. Whispers are never swept.
type Sweeper struct {
	shares   SharePurger
	interval time.Duration
	retain   time.Duration
	now      func() time.Time
}

// NewSweeper builds a Sweeper keeping expired shares around for retain
// before deletion.
func NewSweeper(shares SharePurger, interval, retain time.Duration) *Sweeper {
	return &Sweeper{
		shares:   shares,
		interval: interval,
		retain:   retain,
		now:      time.Now,
	}
}

// Run sweeps on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs a single purge pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := s.now().Add(-s.retain)
	removed, err := s.shares.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		log.Printf("retention sweep failed: %v", err)
		return
	}
	if removed > 0 {
		observability.AddSharesSwept(removed)
		log.Printf("retention sweep removed %d expired shares", removed)
	}
}
