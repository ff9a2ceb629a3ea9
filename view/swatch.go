package view

import (
	"fmt"
	"image/color"

	"github.com/gogpu/chromaview/cie"
	"github.com/lucasb-eyer/go-colorful"
)

// Swatch returns the device color of rep, clamped into the sRGB gamut.
func (k Kind) Swatch(rep cie.Triple) color.RGBA {
	rgb := k.ToDevice(rep).Val
	return color.RGBA{
		R: cie.Quantize(rgb[0]),
		G: cie.Quantize(rgb[1]),
		B: cie.Quantize(rgb[2]),
		A: 0xff,
	}
}

// Hex returns rep as a "#rrggbb" device color.
func (k Kind) Hex(rep cie.Triple) string {
	rgb := k.ToDevice(rep).Val
	return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.Clamped().Hex()
}

// FromHex parses a "#rrggbb" or "#rgb" device color and returns its space
// coordinates.
func (k Kind) FromHex(s string) (cie.Triple, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return cie.Triple{}, fmt.Errorf("view: parse hex %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return k.fromXYZ(cie.SRGB8ToXYZ(r, g, b)), nil
}
