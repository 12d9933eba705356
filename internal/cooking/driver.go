package cooking

import (
	"context"
	"time"
)

// Driver calls a tick function on a fixed interval until its context is
// cancelled. Ticks never overlap: the next one is not taken until the
// previous call returns.
type Driver struct {
	interval time.Duration
	tick     func(ctx context.Context)
}

// NewDriver returns a driver ticking every interval (default one second).
func NewDriver(interval time.Duration, tick func(ctx context.Context)) *Driver {
	if interval <= 0 {
		interval = time.Second
	}
	return &Driver{interval: interval, tick: tick}
}

// Run blocks until ctx is cancelled. No tick starts after cancellation is
// observed.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			d.tick(ctx)
		}
	}
}
