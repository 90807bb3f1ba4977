package gmaps

import (
	"context"
	"log/slog"
	"time"
)

// ScrollParams tunes the scroll-to-load loop.
type ScrollParams struct {
	Attempts    int           // fixed scroll budget
	Distance    int           // wheel delta per pass, pixels
	Wait        time.Duration // pause after each pass
	MinAttempts int           // stable passes tolerated before stopping
}

// Wheeler simulates a scroll gesture. Implemented by the browser tab;
// narrow so the termination logic is testable without Chrome.
type Wheeler interface {
	Scroll(ctx context.Context, distance int) error
}

// Counter reports how many review elements are loaded.
type Counter func(ctx context.Context) int

// ScrollToLoad repeatedly scrolls and counts review elements until the
// count stops increasing (after at least MinAttempts passes) or the budget
// is exhausted. Returns the final count. Scroll errors are logged and the
// pass is retried against the budget, never escalated.
func ScrollToLoad(ctx context.Context, w Wheeler, count Counter, p ScrollParams, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}

	previous := 0
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if ctx.Err() != nil {
			break
		}

		if err := w.Scroll(ctx, p.Distance); err != nil {
			logger.Warn("gmaps: scroll attempt failed", "attempt", attempt, "error", err)
			continue
		}
		sleepCtx(ctx, p.Wait)

		current := count(ctx)
		if current == previous {
			if attempt >= p.MinAttempts {
				logger.Info("gmaps: review count stable, stopping scroll",
					"attempts", attempt+1, "count", previous)
				break
			}
			continue
		}

		logger.Debug("gmaps: reviews loaded so far", "count", current)
		previous = current
	}

	return previous
}
