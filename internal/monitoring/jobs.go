package monitoring

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Sweeper drops expired rate-limit windows.
type Sweeper interface {
	Sweep() int
}

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SweepRateLimitsJob evicts expired in-memory rate-limit windows every minute.
func SweepRateLimitsJob(sweeper Sweeper) Job {
	return Job{
		Name: "sweep-rate-limits",
		Spec: "* * * * *",
		Run: func(ctx context.Context) error {
			if n := sweeper.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("Swept expired rate-limit windows")
			}
			return nil
		},
	}
}

// StoreHealthJob pings the store every five minutes and logs failures.
func StoreHealthJob(store Pinger) Job {
	return Job{
		Name: "store-health",
		Spec: "*/5 * * * *",
		Run: func(ctx context.Context) error {
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("store unreachable: %w", err)
			}
			return nil
		},
	}
}
