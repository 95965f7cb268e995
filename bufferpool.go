package tabdsv

import "sync"

// bufferPool is the shared, thread-safe byte-buffer pool backing Writer's
// output buffer and scratch buffer. Rented buffers follow an owner-only
// mutation discipline until returned.
var bufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 4096)
		return &b
	},
}

// getBuffer rents a zero-length byte slice from the pool.
func getBuffer() *[]byte {
	buf := bufferPool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

// putBuffer clears and returns a buffer to the pool.
func putBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	*buf = (*buf)[:0]
	bufferPool.Put(buf)
}
