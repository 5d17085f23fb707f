package session

import (
	"context"
	"time"

	"github.com/ford-at-home/storygen-sub000/internal/observability"
)

// sweeperLockTTL bounds how long one instance holds sweep leadership, so a
// crashed leader never permanently starves the others.
const sweeperLockTTL = 30 * time.Second

const sweeperLockID = "sweeper-leader"

// RunSweeper periodically sweeps expired sessions until ctx is canceled,
// grounded on the teacher's ticker-based cleanup loops (e.g.
// internal/llm/token_cache.go's cleanupLoop), generalized to select on
// ctx.Done() so the server can shut the sweeper down cleanly.
//
// lock is optional: nil runs the sweeper unconditionally, correct for a
// single-node deployment. When set (a multi-node deployment configured with
// REDIS_URL), only the instance that wins sweeperLockID's lock sweeps on a
// given tick, so N replicas pointed at the same Store backend don't race
// each other's Sweep calls.
func RunSweeper(ctx context.Context, store *Store, interval time.Duration, lock DistributedLock) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := observability.LoggerWithTrace(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if lock != nil {
				acquired, err := lock.TryLock(ctx, sweeperLockID, sweeperLockTTL)
				if err != nil {
					log.Warn().Err(err).Msg("session: sweeper lock acquisition failed")
					continue
				}
				if !acquired {
					continue
				}
			}
			swept := store.Sweep(ctx)
			if swept > 0 {
				log.Info().Int("count", swept).Msg("session: ttl sweep expired sessions")
			}
		}
	}
}
