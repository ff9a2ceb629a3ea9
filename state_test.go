package chromaview

import (
	"context"
	"testing"
	"time"

	"github.com/gogpu/chromaview/cie"
	"github.com/gogpu/chromaview/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startCoordinator runs a coordinator until the test ends.
func startCoordinator(t *testing.T, initial State) *Coordinator {
	t.Helper()
	c := NewCoordinator(initial)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return c
}

// waitFor reads snapshots until one satisfies pred.
func waitFor(t *testing.T, sub <-chan State, pred func(State) bool) State {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case s, ok := <-sub:
			require.True(t, ok, "subscription closed")
			if pred(s) {
				return s
			}
		case <-timeout:
			t.Fatal("timed out waiting for state")
		}
	}
}

func TestState_Default(t *testing.T) {
	s := DefaultState()
	assert.Equal(t, view.LAB, s.View)
	assert.InDelta(t, 0.5, s.Depth(), 1e-12)

	cube := s.Cube()
	assert.InDelta(t, 0.5, cube[0], 1e-12)
	assert.InDelta(t, 0.5, cube[1], 1e-12)
}

func TestCoordinator_AppliesInOrder(t *testing.T) {
	c := startCoordinator(t, State{View: view.LAB, ChromaScale: 1})
	sub := c.Subscribe()

	const n = 200
	for range n {
		require.NoError(t, c.Update(func(s State) State {
			s.Rep[0]++
			return s
		}))
	}

	last := -1.0
	final := waitFor(t, sub, func(s State) bool {
		// Snapshots may be skipped but never go backwards.
		assert.Greater(t, s.Rep[0], last)
		last = s.Rep[0]
		return s.Rep[0] == n
	})
	assert.Equal(t, float64(n), final.Rep[0])
	assert.Equal(t, final, c.Current())
}

func TestCoordinator_BroadcastsToAllSubscribers(t *testing.T) {
	c := startCoordinator(t, DefaultState())
	subs := []<-chan State{c.Subscribe(), c.Subscribe(), c.Subscribe()}

	require.NoError(t, c.SetChromaScale(0.25))

	for _, sub := range subs {
		s := waitFor(t, sub, func(s State) bool { return s.ChromaScale == 0.25 })
		assert.Equal(t, view.LAB, s.View)
	}
}

func TestCoordinator_SubscribeReceivesCurrent(t *testing.T) {
	initial := DefaultState()
	c := NewCoordinator(initial)

	select {
	case s := <-c.Subscribe():
		assert.Equal(t, initial, s)
	default:
		t.Fatal("Subscribe() did not deliver the current state")
	}
}

func TestCoordinator_SetViewKeepsColor(t *testing.T) {
	initial := State{View: view.LAB, Rep: cie.Triple{0.6, 0.2, -0.3}, ChromaScale: 1}
	c := startCoordinator(t, initial)
	sub := c.Subscribe()

	require.NoError(t, c.SetView(view.CAM02))
	s := waitFor(t, sub, func(s State) bool { return s.View == view.CAM02 })

	want := initial.View.ToDevice(initial.Rep).Val
	got := s.View.ToDevice(s.Rep).Val
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
	assert.Equal(t, initial.Hex(), s.Hex())
}

func TestCoordinator_SetHex(t *testing.T) {
	c := startCoordinator(t, DefaultState())
	sub := c.Subscribe()

	require.NoError(t, c.SetHex("#336699"))
	s := waitFor(t, sub, func(s State) bool { return s.Hex() == "#336699" })
	assert.Equal(t, view.LAB, s.View)

	err := c.SetHex("not a color")
	assert.Error(t, err)
}

func TestCoordinator_SetDepthAndCursor(t *testing.T) {
	c := startCoordinator(t, DefaultState())
	sub := c.Subscribe()

	require.NoError(t, c.SetCursor(0.25, 0.75))
	require.NoError(t, c.SetDepth(0.8))

	s := waitFor(t, sub, func(s State) bool { return s.Depth() > 0.79 })
	cube := s.Cube()
	assert.InDelta(t, 0.25, cube[0], 1e-9)
	assert.InDelta(t, 0.75, cube[1], 1e-9)
	assert.InDelta(t, 0.8, cube[2], 1e-9)
}

func TestCoordinator_InvalidInput(t *testing.T) {
	c := NewCoordinator(DefaultState())

	assert.Error(t, c.SetField(3, 0))
	assert.Error(t, c.SetField(-1, 0))
	assert.Error(t, c.SetChromaScale(0))
	assert.Error(t, c.SetChromaScale(-1))
	assert.ErrorIs(t, c.SetView(view.Kind(7)), view.ErrUnknownView)
}

func TestCoordinator_SetField(t *testing.T) {
	c := startCoordinator(t, DefaultState())
	sub := c.Subscribe()

	require.NoError(t, c.SetField(2, -0.4))
	s := waitFor(t, sub, func(s State) bool { return s.Rep[2] == -0.4 })
	assert.InDelta(t, 0.5, s.Rep[0], 1e-12)
}

func TestCoordinator_StopClosesSubscribers(t *testing.T) {
	c := NewCoordinator(DefaultState())
	sub := c.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	<-sub // current snapshot
	_, ok := <-sub
	assert.False(t, ok, "subscription should be closed")

	assert.ErrorIs(t, c.Update(func(s State) State { return s }), ErrClosed)

	_, ok = <-c.Subscribe()
	assert.False(t, ok, "Subscribe() after stop should return a closed channel")
}

func TestCoordinator_DrivesRenderer(t *testing.T) {
	r, clock := newTestRenderer(t)
	c := startCoordinator(t, r.State())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	followed := make(chan struct{})
	go func() {
		defer close(followed)
		r.Follow(ctx, c.Subscribe())
	}()

	require.NoError(t, c.SetDepth(0.3))
	require.Eventually(t, func() bool {
		return r.State().Depth() < 0.31
	}, 5*time.Second, time.Millisecond)

	clock.Tick()
	r.Wait()
	assert.Equal(t, uint64(2), r.Passes())

	cancel()
	<-followed
}
