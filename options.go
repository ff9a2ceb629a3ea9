package chromaview

import "image"

// Default canvas size in pixels.
const (
	DefaultWidth  = 255
	DefaultHeight = 255
)

// DefaultFPS is the rate of the clock a Renderer creates when none is given.
const DefaultFPS = 60

// Presenter receives every painted frame. The frame is owned by the callee.
type Presenter func(frame *image.RGBA)

// Option configures a Renderer during creation.
//
// Example:
//
//	// Default: GOMAXPROCS workers, 60 Hz ticker, 255x255
//	r := chromaview.New()
//
//	// Driven by an external render loop
//	clock := chromaview.NewManualClock()
//	r := chromaview.New(chromaview.WithFrameClock(clock), chromaview.WithWorkers(4))
type Option func(*options)

type options struct {
	workers int
	width   int
	height  int
	clock   FrameClock
	present Presenter
	onError func(error)
	state   State
	slices  int
}

func defaultOptions() options {
	return options{
		workers: 0, // GOMAXPROCS
		width:   DefaultWidth,
		height:  DefaultHeight,
		state:   DefaultState(),
	}
}

// WithWorkers sets the size of the worker pool, which is also the number of
// bands per pass. Values <= 0 select runtime.GOMAXPROCS(0). The pool is
// never resized.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithSize sets the initial framebuffer size.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = max(width, 0)
		o.height = max(height, 0)
	}
}

// WithFrameClock sets the clock redraws synchronize with. Without it the
// Renderer runs its own TickerClock at DefaultFPS and stops it on Close.
func WithFrameClock(c FrameClock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithPresenter sets the callback that receives painted frames.
func WithPresenter(p Presenter) Option {
	return func(o *options) {
		o.present = p
	}
}

// WithState sets the initial state.
func WithState(s State) Option {
	return func(o *options) {
		o.state = s
	}
}

// WithSliceCache keeps the pixels of the n most recently computed slices.
// Returning to a cached slice (same view, depth, chroma scale and size)
// skips its recomputation. RequestFullRedraw always recomputes. Disabled by
// default.
func WithSliceCache(n int) Option {
	return func(o *options) {
		o.slices = n
	}
}

// OnError sets a callback for failed redraw passes. It runs on the redraw
// goroutine after the failure has been logged.
func OnError(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}
