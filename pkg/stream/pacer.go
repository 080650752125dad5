// Package stream provides generic primitives for ordered value streams.
package stream

import (
	"context"
	"time"
)

// Pacer enforces a minimum interval between consecutive emissions of a
// single stream. Each active stream owns its own Pacer instance; the
// emission clock is never shared across concurrent streams.
//
// The first emission passes immediately. Later emissions are delayed until
// minInterval has elapsed since the previous one. Values are never dropped
// or reordered, only delayed.
type Pacer struct {
	minInterval time.Duration
	lastEmit    time.Time
	now         func() time.Time
}

// NewPacer creates a Pacer. A non-positive minInterval disables pacing.
func NewPacer(minInterval time.Duration) *Pacer {
	return &Pacer{
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Pace blocks until the next emission is allowed, then records it. It
// returns early with ctx.Err() if the context is canceled while waiting.
func (p *Pacer) Pace(ctx context.Context) error {
	if p.minInterval <= 0 {
		p.lastEmit = p.now()
		return nil
	}

	if !p.lastEmit.IsZero() {
		wait := p.minInterval - p.now().Sub(p.lastEmit)
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	p.lastEmit = p.now()
	return nil
}
