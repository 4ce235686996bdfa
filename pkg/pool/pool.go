package pool

import (
	"bytes"
	"sync"
)

// Pool is a typed sync.Pool. Values are reset before they go back in.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

func New[T any](generate func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{
		pool:  sync.Pool{New: func() any { return generate() }},
		reset: reset,
	}
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		p.reset(value)
	}
	p.pool.Put(value)
}

// maxRetained caps the capacity of buffers returned to a BufferPool.
const maxRetained = 64 << 10

// BufferPool hands out reusable bytes.Buffers.
type BufferPool struct {
	p *Pool[*bytes.Buffer]
}

func NewBufferPool() *BufferPool {
	return &BufferPool{p: New(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		func(b *bytes.Buffer) { b.Reset() },
	)}
}

func (bp *BufferPool) Get() *bytes.Buffer { return bp.p.Get() }

// Put returns b to the pool unless it grew past maxRetained.
func (bp *BufferPool) Put(b *bytes.Buffer) {
	if b.Cap() > maxRetained {
		return
	}
	bp.p.Put(b)
}
