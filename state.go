package chromaview

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/chromaview/cie"
	"github.com/gogpu/chromaview/view"
	"github.com/lucasb-eyer/go-colorful"
)

// State is an immutable snapshot of what is explored: the active view, the
// cursor in that view's coordinates and the chroma radius of the slice.
type State struct {
	View        view.Kind
	Rep         cie.Triple
	ChromaScale float64
}

// DefaultState is mid-gray in the LAB view at unit chroma scale.
func DefaultState() State {
	return State{
		View:        view.LAB,
		Rep:         view.LAB.Transform(cie.Triple{0.5, 0.5, 0.5}, 1),
		ChromaScale: 1,
	}
}

// Cube returns the cursor in the normalized cube: the two free axes and the
// depth.
func (s State) Cube() cie.Triple {
	return s.View.Untransform(s.Rep, s.ChromaScale)
}

// Depth returns the depth coordinate of the slice through the cursor.
func (s State) Depth() float64 {
	return s.Cube()[2]
}

// Hex returns the cursor color as "#rrggbb".
func (s State) Hex() string {
	return s.View.Hex(s.Rep)
}

// sameSlice reports whether s and t render identical pixels.
func (s State) sameSlice(t State) bool {
	return s.View == t.View && s.ChromaScale == t.ChromaScale && s.Depth() == t.Depth()
}

func (s State) withCube(cube cie.Triple) State {
	s.Rep = s.View.Transform(cube, s.ChromaScale)
	return s
}

// updateQueue bounds the updates waiting for the coordinator goroutine.
const updateQueue = 64

// Coordinator owns the current State. Updates are applied one at a time, in
// the order they were enqueued, by the goroutine running Run; every new
// snapshot is broadcast to all subscribers.
//
// Subscriber channels hold one value and keep the latest: a slow subscriber
// skips intermediate snapshots but always sees the newest one.
type Coordinator struct {
	updates chan func(State) State
	done    chan struct{}
	once    sync.Once

	mu      sync.Mutex
	current State
	subs    []chan State
}

// NewCoordinator creates a coordinator holding initial. Call Run to start
// applying updates.
func NewCoordinator(initial State) *Coordinator {
	return &Coordinator{
		updates: make(chan func(State) State, updateQueue),
		done:    make(chan struct{}),
		current: initial,
	}
}

// Current returns the latest applied snapshot.
func (c *Coordinator) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Subscribe returns a channel that receives the current snapshot and every
// later one. The channel is closed when Run returns.
func (c *Coordinator) Subscribe() <-chan State {
	ch := make(chan State, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.done:
		close(ch)
		return ch
	default:
	}
	ch <- c.current
	c.subs = append(c.subs, ch)
	return ch
}

// Update enqueues fn. It blocks while the queue is full and returns
// ErrClosed once Run has returned.
func (c *Coordinator) Update(fn func(State) State) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.updates <- fn:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// Run applies updates until ctx is done, then closes every subscriber
// channel. Run must be called at most once.
func (c *Coordinator) Run(ctx context.Context) error {
	defer c.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.updates:
			c.apply(fn)
		}
	}
}

func (c *Coordinator) apply(fn func(State) State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = fn(c.current)
	for _, ch := range c.subs {
		offer(ch, c.current)
	}
	Logger().Debug("chromaview: state", "view", c.current.View, "rep", c.current.Rep, "chroma", c.current.ChromaScale)
}

func (c *Coordinator) stop() {
	c.once.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		close(c.done)
		for _, ch := range c.subs {
			close(ch)
		}
		c.subs = nil
	})
}

// offer replaces any pending value in ch with s. Only the coordinator
// sends, so the loop ends after at most one drain.
func offer(ch chan State, s State) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// SetField sets coordinate i (0, 1 or 2) of the cursor in the active view.
func (c *Coordinator) SetField(i int, v float64) error {
	if i < 0 || i > 2 {
		return fmt.Errorf("chromaview: field index %d out of range", i)
	}
	return c.Update(func(s State) State {
		s.Rep[i] = v
		return s
	})
}

// SetCursor moves the cursor to (x, y) on the slice, keeping the depth.
func (c *Coordinator) SetCursor(x, y float64) error {
	return c.Update(func(s State) State {
		cube := s.Cube()
		cube[0], cube[1] = x, y
		return s.withCube(cube)
	})
}

// SetDepth moves the slice to depth z in [0,1], keeping the cursor's
// position on the slice.
func (c *Coordinator) SetDepth(z float64) error {
	return c.Update(func(s State) State {
		cube := s.Cube()
		cube[2] = z
		return s.withCube(cube)
	})
}

// SetChromaScale sets the chroma radius reached at the slice edges. The
// cursor keeps its color.
func (c *Coordinator) SetChromaScale(scale float64) error {
	if !(scale > 0) {
		return fmt.Errorf("chromaview: chroma scale %v must be positive", scale)
	}
	return c.Update(func(s State) State {
		s.ChromaScale = scale
		return s
	})
}

// SetView switches to view k. The cursor is converted through device RGB so
// it keeps the same color.
func (c *Coordinator) SetView(k view.Kind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %v", view.ErrUnknownView, k)
	}
	return c.Update(func(s State) State {
		if s.View == k {
			return s
		}
		rgb := s.View.ToDevice(s.Rep).Val
		s.Rep = k.FromDevice(rgb).Val
		s.View = k
		return s
	})
}

// SetHex moves the cursor to a "#rrggbb" or "#rgb" device color.
func (c *Coordinator) SetHex(hex string) error {
	if _, err := colorful.Hex(hex); err != nil {
		return fmt.Errorf("chromaview: parse hex %q: %w", hex, err)
	}
	return c.Update(func(s State) State {
		rep, err := s.View.FromHex(hex)
		if err != nil {
			return s
		}
		s.Rep = rep
		return s
	})
}
