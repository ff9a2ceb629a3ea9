package chromaview

import (
	"context"
	"sync"
	"time"
)

// FrameClock paces redraws. Wait blocks until the next display frame or
// until ctx is done.
type FrameClock interface {
	Wait(ctx context.Context) error
}

// TickerClock ticks at a fixed rate.
type TickerClock struct {
	ticker *time.Ticker
}

// NewTickerClock creates a clock ticking fps times per second. Values <= 0
// select DefaultFPS.
func NewTickerClock(fps int) *TickerClock {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &TickerClock{ticker: time.NewTicker(time.Second / time.Duration(fps))}
}

// Wait blocks until the next tick.
func (c *TickerClock) Wait(ctx context.Context) error {
	select {
	case <-c.ticker.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop turns off the ticker. Waiters block until their context is done.
func (c *TickerClock) Stop() {
	c.ticker.Stop()
}

// ManualClock ticks when Tick is called, typically from the update callback
// of an external render loop.
//
// A Tick with nobody waiting is remembered, so the next Wait returns at
// once. Further ticks before that Wait are merged into the one pending tick.
type ManualClock struct {
	mu      sync.Mutex
	next    chan struct{}
	pending bool
}

// NewManualClock creates a clock that only ticks on Tick.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Wait blocks until the next Tick.
func (c *ManualClock) Wait(ctx context.Context) error {
	c.mu.Lock()
	if c.pending {
		c.pending = false
		c.mu.Unlock()
		return nil
	}
	if c.next == nil {
		c.next = make(chan struct{})
	}
	next := c.next
	c.mu.Unlock()

	select {
	case <-next:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick releases every current waiter.
func (c *ManualClock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.next != nil {
		close(c.next)
		c.next = nil
		return
	}
	c.pending = true
}

// immediateClock never waits. Headless rendering has no display to pace.
type immediateClock struct{}

func (immediateClock) Wait(ctx context.Context) error { return ctx.Err() }

// Immediate returns a FrameClock that never blocks.
func Immediate() FrameClock { return immediateClock{} }
