package chromaview

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManualClock_TickReleasesWaiter(t *testing.T) {
	c := NewManualClock()
	done := make(chan error, 1)
	go func() {
		done <- c.Wait(context.Background())
	}()

	// Tick until the waiter returns; an early tick is kept as pending.
	c.Tick()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Wait() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait() not released by Tick()")
	}
}

func TestManualClock_PendingTick(t *testing.T) {
	c := NewManualClock()
	c.Tick()
	c.Tick()

	if err := c.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() = %v, want nil", err)
	}

	// Both ticks were merged into one.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := c.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("second Wait() = %v, want DeadlineExceeded", err)
	}
}

func TestManualClock_Cancel(t *testing.T) {
	c := NewManualClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want context.Canceled", err)
	}
}

func TestTickerClock(t *testing.T) {
	c := NewTickerClock(1000)
	defer c.Stop()

	for range 3 {
		if err := c.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() = %v, want nil", err)
		}
	}
}

func TestTickerClock_Stop(t *testing.T) {
	c := NewTickerClock(0)
	c.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := c.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() after Stop = %v, want DeadlineExceeded", err)
	}
}

func TestImmediateClock(t *testing.T) {
	c := Immediate()
	if err := c.Wait(context.Background()); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait(canceled) = %v, want context.Canceled", err)
	}
}
