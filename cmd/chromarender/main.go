// Command chromarender renders depth slices of a color space to PNG files.
//
// Usage:
//
//	chromarender -view CAM02 -slices 8 -o cam02-%d.png
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/chromaview"
	"github.com/gogpu/chromaview/internal/config"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Parse("chromarender", os.Args[1:])
	if err != nil {
		log.Fatalf("chromarender: %v", err)
	}
	chromaview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	start := time.Now()
	if err := render(context.Background(), cfg); err != nil {
		log.Fatalf("chromarender: %v", err)
	}
	log.Printf("%d %v slice(s) %dx%d in %v", cfg.Slices, cfg.View, cfg.Width, cfg.Height, time.Since(start))
}

// render computes the slices one after another on the renderer's pool and
// encodes them concurrently.
func render(ctx context.Context, cfg config.Config) error {
	st, err := cfg.State()
	if err != nil {
		return err
	}

	r := chromaview.New(
		chromaview.WithFrameClock(chromaview.Immediate()),
		chromaview.WithWorkers(cfg.Workers),
		chromaview.WithSize(cfg.Width, cfg.Height),
		chromaview.WithState(st),
	)
	defer r.Close()

	g, ctx := errgroup.WithContext(ctx)
	for i, depth := range cfg.SliceDepths() {
		if ctx.Err() != nil {
			break
		}
		if cfg.Slices > 1 || cfg.Color == "" {
			cube := st.Cube()
			cube[2] = depth
			st.Rep = st.View.Transform(cube, st.ChromaScale)
		}
		r.SetState(st)
		r.Wait()
		if err := r.Err(); err != nil {
			return fmt.Errorf("slice %d: %w", i, err)
		}

		fb := r.Snapshot()
		path := cfg.OutputPath(i)
		g.Go(func() error {
			if err := fb.SavePNG(path); err != nil {
				return fmt.Errorf("slice %d: %w", i, err)
			}
			log.Printf("wrote %s (depth %.3f)", path, depth)
			return nil
		})
	}
	return g.Wait()
}
