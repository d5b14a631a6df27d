package sharedbuf

import "sync"

// BufferPool is a fixed array of N buffers each of capacity E. Allocate
// never waits for a buffer to free up; it reports failure instead so the
// caller (the worker) can count the block as lost and move on.
//
// A free-slot RingBuffer makes Allocate O(1) instead of scanning all N
// buffers for one with rc == 0.
type BufferPool struct {
	mu      sync.Mutex
	buffers []*SharedBuffer
	free    *RingBuffer[int]
}

// NewBufferPool allocates n buffers of size bufSize bytes each.
func NewBufferPool(n, bufSize int) *BufferPool {
	p := &BufferPool{
		buffers: make([]*SharedBuffer, n),
		free:    NewRingBuffer[int](n),
	}
	for i := range p.buffers {
		buf := newSharedBuffer(bufSize)
		buf.owner = p
		buf.index = i
		p.buffers[i] = buf
		p.free.Push(i)
	}
	return p
}

// Allocate returns a handle to a free buffer's full extent, or
// (zero-value, false) if none is free. It never blocks.
func (p *BufferPool) Allocate() (SharedBufferPointer, bool) {
	p.mu.Lock()
	idx, ok := p.free.Pop()
	p.mu.Unlock()
	if !ok {
		return SharedBufferPointer{}, false
	}
	buf := p.buffers[idx]
	buf.retain()
	return SharedBufferPointer{buf: buf, offset: 0, length: len(buf.data)}, true
}

// Release drops one reference on the handle's buffer. This is equivalent
// to calling h.Release() directly — both route through SharedBuffer's own
// release, which returns the slot to the free ring the moment the count
// reaches zero, however many handles were outstanding or however they
// were obtained (Allocate, Retain, ChildPointer).
func (p *BufferPool) Release(h SharedBufferPointer) {
	h.buf.release()
}

// returnFree gives a buffer's slot back to the free ring. Called by
// SharedBuffer.release exactly once per buffer each time its refcount
// returns to zero.
func (p *BufferPool) returnFree(index int) {
	p.mu.Lock()
	p.free.Push(index)
	p.mu.Unlock()
}

// Len returns the number of currently-free buffers.
func (p *BufferPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.free.Len()
}
