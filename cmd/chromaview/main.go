// Command chromaview opens a window showing a slice through a color space.
//
// Click to move the cursor, Up/Down to move the slice, Left/Right to change
// the chroma scale and Tab to switch between the LAB and CAM02 views.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/gogpu/chromaview"
	"github.com/gogpu/chromaview/internal/config"
	"github.com/gogpu/chromaview/view"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	depthStep  = 0.02
	chromaStep = 1.1
)

func main() {
	cfg, err := config.Parse("chromaview", os.Args[1:])
	if err != nil {
		log.Fatalf("chromaview: %v", err)
	}
	chromaview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(cfg); err != nil {
		log.Fatalf("chromaview: %v", err)
	}
}

func run(cfg config.Config) error {
	st, err := cfg.State()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	coord := chromaview.NewCoordinator(st)
	w := &window{
		ctx:    ctx,
		clock:  chromaview.NewManualClock(),
		coord:  coord,
		states: coord.Subscribe(),
		state:  st,
		width:  cfg.Width,
		height: cfg.Height,
	}
	r := chromaview.New(
		chromaview.WithFrameClock(w.clock),
		chromaview.WithWorkers(cfg.Workers),
		chromaview.WithSize(cfg.Width, cfg.Height),
		chromaview.WithState(st),
		chromaview.WithPresenter(w.present),
	)
	defer r.Close()

	go func() {
		_ = coord.Run(ctx)
	}()
	go r.Follow(ctx, coord.Subscribe())

	ebiten.SetWindowTitle(title(st))
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	ebiten.SetTPS(cfg.FPS)
	return ebiten.RunGame(w)
}

// window is the ebiten game: it ticks the renderer's clock, turns input into
// coordinator updates and shows the last presented frame.
type window struct {
	ctx    context.Context
	clock  *chromaview.ManualClock
	coord  *chromaview.Coordinator
	states <-chan chromaview.State
	state  chromaview.State
	width  int
	height int
	img    *ebiten.Image

	mu    sync.Mutex
	frame *image.RGBA
	dirty bool
}

func (w *window) present(frame *image.RGBA) {
	w.mu.Lock()
	w.frame = frame
	w.dirty = true
	w.mu.Unlock()
}

func (w *window) Update() error {
	if w.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	w.clock.Tick()

	select {
	case s, ok := <-w.states:
		if !ok {
			return ebiten.Termination
		}
		w.state = s
		ebiten.SetWindowTitle(title(s))
	default:
	}
	st := w.state

	var err error
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		x, y := ebiten.CursorPosition()
		err = w.coord.SetCursor(float64(x)/float64(w.width), 1-float64(y)/float64(w.height))
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		err = w.coord.SetDepth(min(st.Depth()+depthStep, 1))
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		err = w.coord.SetDepth(max(st.Depth()-depthStep, 0))
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		err = w.coord.SetChromaScale(st.ChromaScale * chromaStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		err = w.coord.SetChromaScale(st.ChromaScale / chromaStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		err = w.coord.SetView((st.View + 1) % view.Kind(len(view.Kinds())))
	}
	if errors.Is(err, chromaview.ErrClosed) {
		return ebiten.Termination
	}
	return err
}

func (w *window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	frame, dirty := w.frame, w.dirty
	w.dirty = false
	w.mu.Unlock()
	if frame == nil {
		return
	}

	b := frame.Bounds()
	if w.img == nil || w.img.Bounds().Size() != b.Size() {
		if w.img != nil {
			w.img.Deallocate()
		}
		w.img = ebiten.NewImage(b.Dx(), b.Dy())
		dirty = true
	}
	if dirty {
		w.img.WritePixels(frame.Pix)
	}
	screen.DrawImage(w.img, nil)
}

func (w *window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}

func title(s chromaview.State) string {
	labels := s.View.Labels()
	return fmt.Sprintf("chromaview %v  %s=%.3f %s=%.3f %s=%.3f  %s",
		s.View, labels[0], s.Rep[0], labels[1], s.Rep[1], labels[2], s.Rep[2], s.Hex())
}
