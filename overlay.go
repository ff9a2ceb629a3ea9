package chromaview

import (
	"image"
	"image/color"

	"golang.org/x/image/vector"
)

// Cursor rings: light inside dark so the cursor shows on any color.
const (
	cursorInner  = 4
	cursorOuter  = 5
	cursorStroke = 1
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// paintCursor strokes the two cursor rings centered at (cx, cy).
func paintCursor(dst *image.RGBA, cx, cy float64) {
	b := dst.Bounds()
	if b.Empty() {
		return
	}
	var ras vector.Rasterizer
	ring(&ras, dst, cx, cy, cursorInner, color.White)
	ring(&ras, dst, cx, cy, cursorOuter, color.Black)
}

// ring fills the annulus of width cursorStroke around radius r. The inner
// circle winds the other way, which cancels its coverage.
func ring(ras *vector.Rasterizer, dst *image.RGBA, cx, cy, r float64, c color.Color) {
	b := dst.Bounds()
	ras.Reset(b.Dx(), b.Dy())
	circle(ras, cx, cy, r+cursorStroke/2.0, false)
	circle(ras, cx, cy, r-cursorStroke/2.0, true)
	ras.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func circle(ras *vector.Rasterizer, cx, cy, r float64, reverse bool) {
	k := kappa * r
	x, y := float32(cx), float32(cy)
	fr, fk := float32(r), float32(k)

	ras.MoveTo(x+fr, y)
	if reverse {
		ras.CubeTo(x+fr, y-fk, x+fk, y-fr, x, y-fr)
		ras.CubeTo(x-fk, y-fr, x-fr, y-fk, x-fr, y)
		ras.CubeTo(x-fr, y+fk, x-fk, y+fr, x, y+fr)
		ras.CubeTo(x+fk, y+fr, x+fr, y+fk, x+fr, y)
	} else {
		ras.CubeTo(x+fr, y+fk, x+fk, y+fr, x, y+fr)
		ras.CubeTo(x-fk, y+fr, x-fr, y+fk, x-fr, y)
		ras.CubeTo(x-fr, y-fk, x-fk, y-fr, x, y-fr)
		ras.CubeTo(x+fk, y-fr, x+fr, y-fk, x+fr, y)
	}
	ras.ClosePath()
}
