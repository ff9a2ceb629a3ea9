package parallel

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrBufferSize is returned when the destination cannot hold the image.
var ErrBufferSize = errors.New("parallel: destination buffer too small")

// EvalFunc evaluates one band into dst, which holds exactly
// band.ByteLen(width) bytes in row-major RGBA order.
type EvalFunc func(band Band, dst []byte) error

// Rasterizer evaluates an image band by band on a WorkerPool.
//
// A pass partitions the rows into Workers() bands, evaluates every band
// into a pooled buffer, waits for all of them, and only then merges the
// buffers into the destination. A failed pass leaves the destination
// untouched.
//
// Thread safety: passes are serialized; Render may be called from any
// goroutine.
type Rasterizer struct {
	pool    *WorkerPool
	buffers *BufferPool

	// mu serializes passes so their merges never interleave.
	mu sync.Mutex
}

// NewRasterizer creates a rasterizer with GOMAXPROCS workers.
func NewRasterizer() *Rasterizer {
	return NewRasterizerWithWorkers(runtime.GOMAXPROCS(0))
}

// NewRasterizerWithWorkers creates a rasterizer with a specific worker
// count. If workers <= 0, GOMAXPROCS is used. The count is fixed for the
// lifetime of the rasterizer.
func NewRasterizerWithWorkers(workers int) *Rasterizer {
	return &Rasterizer{
		pool:    NewWorkerPool(workers),
		buffers: NewBufferPool(),
	}
}

// Workers returns the number of workers, which is also the number of bands
// per pass.
func (r *Rasterizer) Workers() int {
	return r.pool.Workers()
}

// Bands returns the partition a pass over height rows uses.
func (r *Rasterizer) Bands(height int) []Band {
	return Partition(height, r.pool.Workers())
}

// Render runs one pass over a width x height image and merges the result
// into dst, a row-major RGBA buffer of at least 4*width*height bytes.
func (r *Rasterizer) Render(width, height int, dst []byte, eval EvalFunc) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if len(dst) < 4*width*height {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrBufferSize, len(dst), width, height)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bands := r.Bands(height)
	results := make([][]byte, len(bands))
	defer func() {
		for _, buf := range results {
			r.buffers.Put(buf)
		}
	}()

	work := make([]func() error, len(bands))
	for i, band := range bands {
		work[i] = func() error {
			buf := r.buffers.Get(band.ByteLen(width))
			results[i] = buf
			if err := eval(band, buf); err != nil {
				return fmt.Errorf("band %d rows [%d,%d): %w", band.Index, band.YBegin, band.YEnd, err)
			}
			return nil
		}
	}

	if err := r.pool.ExecuteAllErr(work); err != nil {
		return err
	}

	r.composite(bands, results, dst, width)
	return nil
}

// composite copies every band buffer into dst at its row offset.
// Bands are disjoint, so the copies run in parallel without locking.
func (r *Rasterizer) composite(bands []Band, results [][]byte, dst []byte, width int) {
	work := make([]func(), len(bands))
	for i, band := range bands {
		work[i] = func() {
			off := band.ByteOffset(width)
			copy(dst[off:off+band.ByteLen(width)], results[i])
		}
	}
	r.pool.ExecuteAll(work)
}

// Close waits for the current pass and releases the worker pool.
// The rasterizer must not be used after Close.
func (r *Rasterizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pool.Close()
}
