package backend

import (
	"context"
	"time"
)

// gate spaces successive reloads at least gap apart. It is only used from
// the poll goroutine.
type gate struct {
	gap  time.Duration
	last time.Time
}

// wait blocks until gap has passed since the previous pass. It reports false
// if ctx ends first.
func (g *gate) wait(ctx context.Context) bool {
	if g == nil || g.gap <= 0 {
		return ctx.Err() == nil
	}
	if !g.last.IsZero() {
		if delay := g.gap - time.Since(g.last); delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return false
			case <-timer.C:
			}
		}
	}
	g.last = time.Now()
	return true
}
