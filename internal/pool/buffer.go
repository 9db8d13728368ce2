// Package pool provides memory management optimizations.
// This includes buffer pooling and resource reuse to reduce allocations.
package pool

import (
	"sync"
)

// PartBufferPool manages reusable part-sized buffers for multipart uploads.
// Part reads are staged in pooled buffers so concurrent part workers do not
// allocate a fresh slice per part.
type PartBufferPool struct {
	size int
	pool *sync.Pool
}

// NewPartBufferPool creates a pool handing out buffers of the given size.
func NewPartBufferPool(size int64) *PartBufferPool {
	n := int(size)
	return &PartBufferPool{
		size: n,
		pool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, n)
				return &buf
			},
		},
	}
}

// Get returns a buffer of the pool's part size.
// The caller is responsible for calling Put to return the buffer to the pool.
func (p *PartBufferPool) Get() []byte {
	bufPtr := p.pool.Get().(*[]byte)
	return (*bufPtr)[:p.size]
}

// Put returns a buffer to the pool.
// The buffer should not be used after calling Put.
func (p *PartBufferPool) Put(buf []byte) {
	if cap(buf) < p.size {
		return
	}
	buf = buf[:p.size]
	p.pool.Put(&buf)
}

// Size returns the size of buffers handed out by the pool.
func (p *PartBufferPool) Size() int {
	return p.size
}
