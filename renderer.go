package chromaview

import (
	"context"
	"fmt"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/chromaview/internal/cache"
	"github.com/gogpu/chromaview/internal/parallel"
	"github.com/gogpu/chromaview/internal/pixel"
	"github.com/gogpu/chromaview/view"
	xdraw "golang.org/x/image/draw"
)

// Renderer draws the slice of the current State and the cursor on top of
// it.
//
// A redraw is scheduled at most once at a time. It waits for the next tick
// of the FrameClock, recomputes the framebuffer if a full redraw was
// requested, then paints the framebuffer and the cursor and presents the
// frame. Requests arriving while a redraw waits for its tick are absorbed by
// it; a full-redraw request arriving while a pass is computing schedules one
// more redraw once the current one finishes.
//
// A pass that fails in any band leaves the previous framebuffer in place.
type Renderer struct {
	raster    *parallel.Rasterizer
	clock     FrameClock
	ownClock  *TickerClock
	present   Presenter
	onError   func(error)
	ctx       context.Context
	cancel    context.CancelFunc
	inflight  sync.WaitGroup
	passes    atomic.Uint64
	frames    atomic.Uint64
	requested atomic.Uint64
	slices    *cache.Cache[sliceKey, []byte] // nil when disabled

	// back is the buffer the next pass renders into. Only the redraw
	// goroutine touches it, and at most one redraw runs at a time.
	back []byte

	mu            sync.Mutex
	idle          *sync.Cond
	drawScheduled bool
	drawFull      bool
	forced        bool // a full redraw must not be served from the slice cache
	closed        bool
	state         State
	front         *Framebuffer
	target        draw.Image
	err           error
}

// New creates a Renderer. The first redraw is a full one and runs on the
// first frame after creation.
func New(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Renderer{
		raster:  parallel.NewRasterizerWithWorkers(o.workers),
		clock:   o.clock,
		present: o.present,
		onError: o.onError,
		ctx:     ctx,
		cancel:  cancel,
		state:   o.state,
		front:   NewFramebuffer(o.width, o.height),
	}
	if o.slices > 0 {
		r.slices = cache.New[sliceKey, []byte](o.slices)
	}
	if r.clock == nil {
		r.ownClock = NewTickerClock(DefaultFPS)
		r.clock = r.ownClock
	}
	r.idle = sync.NewCond(&r.mu)

	Logger().Info("chromaview: renderer created",
		"workers", r.raster.Workers(), "width", o.width, "height", o.height, "view", o.state.View)

	r.RequestFullRedraw()
	return r
}

// Workers returns the size of the worker pool.
func (r *Renderer) Workers() int {
	return r.raster.Workers()
}

// RequestFullRedraw marks the framebuffer stale and schedules a redraw if
// none is scheduled.
func (r *Renderer) RequestFullRedraw() {
	r.requested.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawFull = true
	r.forced = true
	r.scheduleLocked()
}

// ScheduleRedraw schedules a redraw for the next frame. It is a no-op if one
// is already scheduled.
func (r *Renderer) ScheduleRedraw() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduleLocked()
}

func (r *Renderer) scheduleLocked() {
	if r.drawScheduled || r.closed {
		return
	}
	r.drawScheduled = true
	r.inflight.Add(1)
	go r.redraw()
}

// Resize reallocates the framebuffer and forces a full redraw.
func (r *Renderer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.front.Width() == width && r.front.Height() == height {
		return
	}
	r.front = NewFramebuffer(width, height)
	r.drawFull = true
	r.scheduleLocked()
	Logger().Info("chromaview: resized", "width", width, "height", height)
}

// Draw sets the image every painted frame is scaled into and schedules a
// redraw. Pass nil to stop drawing into a target. The target is written
// only from the redraw goroutine; synchronize reads with the Presenter or
// Wait.
func (r *Renderer) Draw(target draw.Image) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = target
	r.scheduleLocked()
}

// SetState replaces the current state. A change of view, depth or chroma
// scale forces a full redraw; moving the cursor within the slice only
// repaints.
func (r *Renderer) SetState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.sameSlice(s) {
		r.drawFull = true
	}
	r.state = s
	r.scheduleLocked()
}

// State returns the current state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Follow applies every snapshot received from states until the channel is
// closed or ctx is done.
func (r *Renderer) Follow(ctx context.Context, states <-chan State) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-states:
			if !ok {
				return
			}
			r.SetState(s)
		}
	}
}

// Wait blocks until no redraw is scheduled.
func (r *Renderer) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.drawScheduled {
		r.idle.Wait()
	}
}

// Snapshot returns a copy of the framebuffer without the cursor.
func (r *Renderer) Snapshot() *Framebuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.front.Clone()
}

// Err returns the error of the last full pass, or nil if it succeeded.
func (r *Renderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Passes returns the number of completed full recomputations.
func (r *Renderer) Passes() uint64 {
	return r.passes.Load()
}

// Frames returns the number of painted frames.
func (r *Renderer) Frames() uint64 {
	return r.frames.Load()
}

// Close abandons a redraw still waiting for its frame, waits for a pass in
// progress and stops the worker pool. Close is safe to call multiple times.
func (r *Renderer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	r.inflight.Wait()
	r.raster.Close()
	if r.ownClock != nil {
		r.ownClock.Stop()
	}
	Logger().Debug("chromaview: renderer closed", "passes", r.Passes(), "frames", r.Frames())
}

func (r *Renderer) redraw() {
	defer r.inflight.Done()

	if err := r.clock.Wait(r.ctx); err != nil {
		if r.ctx.Err() == nil {
			Logger().Warn("chromaview: frame clock failed", "err", err)
		}
		r.finish(false)
		return
	}

	r.mu.Lock()
	full, forced := r.drawFull, r.forced
	r.drawFull, r.forced = false, false
	st := r.state
	w, h := r.front.Width(), r.front.Height()
	r.mu.Unlock()

	if full && (forced || !r.restore(st, w, h)) {
		r.recompute(st, w, h)
	}
	r.paint()
	r.finish(true)
}

// recompute evaluates every band into the back buffer and, if all of them
// succeed, swaps it in as the framebuffer.
func (r *Renderer) recompute(st State, w, h int) {
	start := time.Now()
	if len(r.back) != 4*w*h {
		r.back = make([]byte, 4*w*h)
	}

	depth := st.Depth()
	err := r.raster.Render(w, h, r.back, func(band parallel.Band, dst []byte) error {
		return pixel.RenderInto(pixel.Request{
			Width:       w,
			Height:      h,
			YBegin:      band.YBegin,
			YEnd:        band.YEnd,
			Depth:       depth,
			ChromaScale: st.ChromaScale,
			View:        st.View,
		}, dst)
	})
	if err != nil {
		r.fail(fmt.Errorf("chromaview: redraw %dx%d %v: %w", w, h, st.View, err))
		return
	}

	if r.slices != nil {
		r.slices.Set(keyOf(st, w, h), append([]byte(nil), r.back...))
	}

	r.mu.Lock()
	// A resize during the pass makes the result stale; the resize already
	// requested another full redraw.
	if r.front.Width() == w && r.front.Height() == h {
		r.back, r.front.data = r.front.data, r.back
	}
	r.err = nil
	r.mu.Unlock()

	n := r.passes.Add(1)
	Logger().Debug("chromaview: full redraw",
		"pass", n, "view", st.View, "depth", depth, "bands", len(r.raster.Bands(h)),
		"requests", r.requested.Swap(0), "elapsed", time.Since(start))
}

// sliceKey identifies the pixels of a slice.
type sliceKey struct {
	view   view.Kind
	depth  float64
	chroma float64
	width  int
	height int
}

func keyOf(st State, w, h int) sliceKey {
	return sliceKey{view: st.View, depth: st.Depth(), chroma: st.ChromaScale, width: w, height: h}
}

// restore copies a cached slice into the framebuffer. It reports whether
// the slice was cached.
func (r *Renderer) restore(st State, w, h int) bool {
	if r.slices == nil {
		return false
	}
	pix, ok := r.slices.Get(keyOf(st, w, h))
	if !ok {
		return false
	}

	r.mu.Lock()
	if r.front.Width() == w && r.front.Height() == h {
		copy(r.front.data, pix)
	}
	r.err = nil
	r.mu.Unlock()

	Logger().Debug("chromaview: slice from cache", "view", st.View, "depth", st.Depth(), "hit_rate", r.slices.Stats().HitRate())
	return true
}

func (r *Renderer) fail(err error) {
	Logger().Error("chromaview: redraw failed", "err", err)

	r.mu.Lock()
	r.err = err
	r.mu.Unlock()

	if r.onError != nil {
		r.onError(err)
	}
}

// paint composes the framebuffer and the cursor into a new frame.
func (r *Renderer) paint() {
	r.mu.Lock()
	frame := r.front.ToImage()
	st := r.state
	target := r.target
	r.mu.Unlock()

	b := frame.Bounds()
	cube := st.Cube()
	paintCursor(frame, cube[0]*float64(b.Dx()), (1-cube[1])*float64(b.Dy()))

	if target != nil && !b.Empty() {
		xdraw.NearestNeighbor.Scale(target, target.Bounds(), frame, b, draw.Src, nil)
	}
	r.frames.Add(1)
	if r.present != nil {
		r.present(frame)
	}
}

// finish ends the redraw. With again set, a full-redraw request that
// arrived during the pass schedules the next redraw right away.
func (r *Renderer) finish(again bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawScheduled = false
	if again && r.drawFull {
		r.scheduleLocked()
	}
	if !r.drawScheduled {
		r.idle.Broadcast()
	}
}
