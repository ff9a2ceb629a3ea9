package chromaview

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

var _ image.Image = (*Framebuffer)(nil)

// Framebuffer is an opaque RGBA pixel buffer, 4 bytes per pixel in
// row-major order.
type Framebuffer struct {
	width  int
	height int
	data   []uint8
}

// NewFramebuffer creates a black, fully opaque framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	fb := &Framebuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
	for i := 3; i < len(fb.data); i += 4 {
		fb.data[i] = 0xff
	}
	return fb
}

// Width returns the width of the framebuffer.
func (fb *Framebuffer) Width() int {
	return fb.width
}

// Height returns the height of the framebuffer.
func (fb *Framebuffer) Height() int {
	return fb.height
}

// Data returns the raw pixel data (RGBA format).
func (fb *Framebuffer) Data() []uint8 {
	return fb.data
}

// RGBAAt returns the color of a single pixel. Out-of-bounds pixels are
// transparent black.
func (fb *Framebuffer) RGBAAt(x, y int) color.RGBA {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return color.RGBA{}
	}
	i := (y*fb.width + x) * 4
	return color.RGBA{R: fb.data[i+0], G: fb.data[i+1], B: fb.data[i+2], A: fb.data[i+3]}
}

// Clone returns a deep copy.
func (fb *Framebuffer) Clone() *Framebuffer {
	data := make([]uint8, len(fb.data))
	copy(data, fb.data)
	return &Framebuffer{width: fb.width, height: fb.height, data: data}
}

// ToImage copies the framebuffer into a new image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	copy(img.Pix, fb.data)
	return img
}

// EncodePNG writes the framebuffer to w as PNG.
func (fb *Framebuffer) EncodePNG(w io.Writer) error {
	return png.Encode(w, fb)
}

// SavePNG saves the framebuffer to a PNG file.
func (fb *Framebuffer) SavePNG(path string) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fb.EncodePNG(f)
}

// At implements the image.Image interface.
func (fb *Framebuffer) At(x, y int) color.Color {
	return fb.RGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// ColorModel implements the image.Image interface.
func (fb *Framebuffer) ColorModel() color.Model {
	return color.RGBAModel
}
