package parallel

import "sync"

// BufferPool reuses band buffers across frames via sync.Pool.
//
// Band sizes repeat from frame to frame (only the last band of a partition
// differs), so buffers are pooled per byte length.
//
// Thread safety: BufferPool is safe for concurrent use.
type BufferPool struct {
	// pools holds one *sync.Pool per buffer length.
	pools sync.Map
}

// NewBufferPool creates an empty buffer pool.
func NewBufferPool() *BufferPool {
	return &BufferPool{}
}

// Get returns a buffer of exactly n bytes. Its contents are unspecified;
// callers overwrite every byte.
func (p *BufferPool) Get(n int) []byte {
	if n <= 0 {
		return nil
	}
	buf := p.poolFor(n).Get().(*[]byte)
	return *buf
}

// Put returns a buffer obtained from Get. Nil and empty buffers are ignored.
func (p *BufferPool) Put(buf []byte) {
	if len(buf) == 0 {
		return
	}
	if pool, ok := p.pools.Load(len(buf)); ok {
		pool.(*sync.Pool).Put(&buf)
	}
	// Unknown size: let GC reclaim it.
}

// poolFor gets or creates the sync.Pool for buffers of n bytes.
func (p *BufferPool) poolFor(n int) *sync.Pool {
	if pool, ok := p.pools.Load(n); ok {
		return pool.(*sync.Pool)
	}

	newPool := &sync.Pool{
		New: func() any {
			buf := make([]byte, n)
			return &buf
		},
	}

	// Another goroutine may have stored one first; use theirs.
	actual, _ := p.pools.LoadOrStore(n, newPool)
	return actual.(*sync.Pool)
}
