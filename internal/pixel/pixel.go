// Package pixel evaluates the colors of one horizontal band of a slice
// image. Evaluation is a pure function of its Request: bands can run
// concurrently without sharing state and identical requests always produce
// identical bytes.
package pixel

import (
	"errors"
	"fmt"

	"github.com/gogpu/chromaview/cie"
	"github.com/gogpu/chromaview/view"
)

// Out-of-gamut fallback: blend toward the pixel's own gray and dim it.
const (
	Desaturate = 0.5
	Dim        = 0.1
)

// ErrInvalidRequest is returned for requests that do not describe a band
// of a non-empty image.
var ErrInvalidRequest = errors.New("pixel: invalid request")

// Request describes one band of rows [YBegin, YEnd) of a Width x Height
// slice through the active view at a fixed depth.
type Request struct {
	Width       int
	Height      int
	YBegin      int
	YEnd        int
	Depth       float64
	ChromaScale float64
	View        view.Kind
}

// Validate reports whether r describes a band of a non-empty image.
func (r Request) Validate() error {
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidRequest, r.Width, r.Height)
	case r.YBegin < 0 || r.YBegin > r.YEnd || r.YEnd > r.Height:
		return fmt.Errorf("%w: rows [%d,%d) outside [0,%d)", ErrInvalidRequest, r.YBegin, r.YEnd, r.Height)
	case !r.View.Valid():
		return fmt.Errorf("%w: %v", ErrInvalidRequest, r.View)
	}
	return nil
}

// Len returns the byte length of the band: 4 * Width * (YEnd - YBegin).
func (r Request) Len() int {
	return 4 * r.Width * (r.YEnd - r.YBegin)
}

// Render evaluates the band into a newly allocated RGBA buffer.
func Render(r Request) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	dst := make([]byte, r.Len())
	renderRows(r, dst)
	return dst, nil
}

// RenderInto evaluates the band into dst, which must hold exactly Len bytes.
func RenderInto(r Request, dst []byte) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if len(dst) != r.Len() {
		return fmt.Errorf("%w: buffer of %d bytes, want %d", ErrInvalidRequest, len(dst), r.Len())
	}
	renderRows(r, dst)
	return nil
}

func renderRows(r Request, dst []byte) {
	w := float64(r.Width)
	h := float64(r.Height)
	in := cie.Triple{0, 0, r.Depth}

	offset := 0
	for y := r.YBegin; y < r.YEnd; y++ {
		in[1] = 1 - float64(y)/h
		for x := range r.Width {
			in[0] = float64(x) / w
			res := r.View.ToDevice(r.View.Transform(in, r.ChromaScale))
			rgb := res.Val
			if !res.InGamut {
				rgb = Fallback(rgb)
			}
			dst[offset+0] = cie.Quantize(rgb[0])
			dst[offset+1] = cie.Quantize(rgb[1])
			dst[offset+2] = cie.Quantize(rgb[2])
			dst[offset+3] = 0xff
			offset += 4
		}
	}
}

// Fallback desaturates and dims an out-of-gamut device color so that it is
// visibly distinct from colors the display can show. Each channel moves
// halfway toward the channel average and is lowered by Dim.
func Fallback(rgb cie.Triple) cie.Triple {
	avg := (rgb[0] + rgb[1] + rgb[2]) / 3
	var out cie.Triple
	for i, c := range rgb {
		out[i] = c*(1-Desaturate) + avg*Desaturate - Dim
	}
	return out
}
