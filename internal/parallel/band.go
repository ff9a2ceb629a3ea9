// Package parallel provides band-parallel rendering infrastructure for
// chromaview.
//
// An image is split into contiguous horizontal bands of rows. Each band is
// evaluated independently on a fixed-size WorkerPool into its own buffer,
// and the buffers are merged into the framebuffer at disjoint row offsets,
// so no locking is needed beyond the completion barrier.
//
// Thread safety: WorkerPool and BufferPool are safe for concurrent use.
// Rasterizer serializes its own passes.
package parallel

// Band is a contiguous range of image rows [YBegin, YEnd).
type Band struct {
	// Index is the position of the band in its partition.
	Index int

	// YBegin is the first row of the band.
	YBegin int

	// YEnd is one past the last row of the band.
	YEnd int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.YEnd - b.YBegin
}

// ByteOffset returns the offset of the band's first byte in a row-major
// RGBA buffer of the given width.
func (b Band) ByteOffset(width int) int {
	return 4 * width * b.YBegin
}

// ByteLen returns the size of the band's RGBA data for the given width.
func (b Band) ByteLen(width int) int {
	return 4 * width * b.Rows()
}

// Contains reports whether row y is inside the band.
func (b Band) Contains(y int) bool {
	return y >= b.YBegin && y < b.YEnd
}

// BandHeight returns the row count of every band but the last when height
// rows are split into n bands: ceil(height/n).
func BandHeight(height, n int) int {
	if height <= 0 {
		return 0
	}
	if n <= 0 {
		n = 1
	}
	return (height + n - 1) / n
}

// Partition splits [0, height) into contiguous bands of BandHeight rows,
// truncating the last band at height. The bands cover every row exactly
// once. At most n bands are returned; fewer when height < n.
func Partition(height, n int) []Band {
	size := BandHeight(height, n)
	if size == 0 {
		return nil
	}

	bands := make([]Band, 0, (height+size-1)/size)
	for yBegin := 0; yBegin < height; yBegin += size {
		bands = append(bands, Band{
			Index:  len(bands),
			YBegin: yBegin,
			YEnd:   min(yBegin+size, height),
		})
	}
	return bands
}
