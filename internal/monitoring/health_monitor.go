package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

const HEALTHCHECK_INTERVAL = 15 * time.Second

// Monitor runs check immediately and then every interval until ctx is done,
// storing the outcome in healthy. Only state changes are logged.
func Monitor(ctx context.Context, clock clockwork.Clock, name string, interval time.Duration,
	check func(context.Context) error, healthy *atomic.Bool) {
	if interval <= 0 {
		interval = HEALTHCHECK_INTERVAL
	}

	probe := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		err := check(checkCtx)
		wasHealthy := healthy.Swap(err == nil)
		switch {
		case err != nil && wasHealthy:
			slog.Warn("[HealthCheck] Dependency is unhealthy",
				slog.String("check", name),
				slog.String("error", err.Error()))
		case err == nil && !wasHealthy:
			slog.Info("[HealthCheck] Dependency recovered", slog.String("check", name))
		}
	}

	probe()

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			probe()
		}
	}
}
