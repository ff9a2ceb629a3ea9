// Package chromaview renders slices through a 3-dimensional color space.
//
// # Overview
//
// A slice is the set of colors reached by fixing one coordinate of a view
// (the depth, a lightness-like channel) and sweeping the two chromatic
// coordinates across the image. Every pixel is converted to device sRGB;
// colors the display cannot show are desaturated and dimmed so the gamut
// boundary stays visible.
//
// # Quick Start
//
//	r := chromaview.New(
//	    chromaview.WithSize(255, 255),
//	    chromaview.WithPresenter(func(frame *image.RGBA) {
//	        // hand frame to the display
//	    }),
//	)
//	defer r.Close()
//
//	r.SetState(chromaview.State{View: view.CAM02, Rep: cie.Triple{0.5, 0, 0}, ChromaScale: 1})
//	r.Wait()
//
// # Architecture
//
// The package is organized into:
//   - Public API: Renderer, State, Coordinator, FrameClock, Framebuffer
//   - cie, ciecam02: colorimetric conversions
//   - view: the closed set of explorable color spaces
//   - internal/pixel: pure evaluation of one band of rows
//   - internal/parallel: worker pool, band partitioning, band merging
//
// # Redraws
//
// The Renderer keeps two flags. A scheduled redraw waits for the next tick of
// its FrameClock; every request that arrives before the tick is absorbed into
// that one redraw. A redraw recomputes every pixel only when a full redraw
// was requested (view, depth, chroma scale or size changed); otherwise it
// repaints the cached framebuffer with the cursor at its new position.
//
// # Thread Safety
//
// Renderer and Coordinator are safe for concurrent use. Framebuffer values
// returned by Renderer.Snapshot are copies owned by the caller.
package chromaview
