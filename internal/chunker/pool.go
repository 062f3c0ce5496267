package chunker

import "sync"

// pool hands out read buffers of a fixed size. Buffers are recycled to keep
// steady-state hashing free of per-chunk allocations.
type pool struct {
	p       sync.Pool
	bufSize int
}

func newPool(bufSize int) *pool {
	if bufSize <= 0 {
		panic("chunker: buffer size must be positive")
	}
	return &pool{
		bufSize: bufSize,
		p: sync.Pool{
			New: func() any {
				return make([]byte, bufSize)
			},
		},
	}
}

// get returns a buffer of exactly n bytes, n <= bufSize.
func (p *pool) get(n int) []byte {
	buf := p.p.Get().([]byte)
	if cap(buf) < n {
		return make([]byte, n, p.bufSize)
	}
	return buf[:n]
}

func (p *pool) put(buf []byte) {
	if cap(buf) < p.bufSize {
		return
	}
	p.p.Put(buf[:cap(buf)])
}

// Pools are shared per chunk size across all readers.
var pools sync.Map // map[int]*pool

func poolFor(chunkSize int) *pool {
	if v, ok := pools.Load(chunkSize); ok {
		return v.(*pool)
	}
	actual, _ := pools.LoadOrStore(chunkSize, newPool(chunkSize))
	return actual.(*pool)
}

// Release returns a chunk buffer obtained from a Reader to its pool. Call
// it after the chunk's bytes have been folded; the slice must not be used
// afterwards.
func Release(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	if v, ok := pools.Load(cap(buf)); ok {
		v.(*pool).put(buf)
	}
}
