// Package ring provides a bounded generic circular buffer. It backs the
// object pool free lists (reject-when-full mode) and the metric sample
// windows (overwrite-oldest mode). The buffer is not safe for concurrent
// use; every caller in this module runs on the frame tick.
package ring

import "errors"

var (
	// ErrFull is returned by Write when the buffer has no free slot.
	ErrFull = errors.New("ring buffer is full")

	// ErrEmpty is returned by Read when the buffer holds no items.
	ErrEmpty = errors.New("ring buffer is empty")
)

// Buffer is a fixed-capacity circular buffer.
type Buffer[T any] struct {
	buf    []T
	size   int
	r      int // next position to read
	w      int // next position to write
	isFull bool
}

// New returns a new Buffer with the given capacity.
// It returns an error if the capacity is less than or equal to 0.
func New[T any](capacity int) (*Buffer[T], error) {
	if capacity <= 0 {
		return nil, errors.New("capacity must be greater than 0")
	}

	return &Buffer[T]{
		buf:  make([]T, capacity),
		size: capacity,
	}, nil
}

// Write appends v to the buffer, failing with ErrFull when no slot is free.
func (b *Buffer[T]) Write(v T) error {
	if b.isFull {
		return ErrFull
	}

	b.buf[b.w] = v
	b.w = (b.w + 1) % b.size
	if b.w == b.r {
		b.isFull = true
	}
	return nil
}

// Push appends v to the buffer, evicting the oldest item when full.
func (b *Buffer[T]) Push(v T) {
	if b.isFull {
		// Drop the oldest item to make room.
		b.r = (b.r + 1) % b.size
		b.isFull = false
	}

	b.buf[b.w] = v
	b.w = (b.w + 1) % b.size
	if b.w == b.r {
		b.isFull = true
	}
}

// Read removes and returns the oldest item.
func (b *Buffer[T]) Read() (T, error) {
	var zero T
	if b.Len() == 0 {
		return zero, ErrEmpty
	}

	v := b.buf[b.r]
	b.buf[b.r] = zero
	b.r = (b.r + 1) % b.size
	b.isFull = false
	return v, nil
}

// Len returns the number of items currently stored.
func (b *Buffer[T]) Len() int {
	if b.isFull {
		return b.size
	}
	if b.w >= b.r {
		return b.w - b.r
	}
	return b.size - b.r + b.w
}

// Cap returns the buffer capacity.
func (b *Buffer[T]) Cap() int {
	return b.size
}

// Newest returns the most recently written item.
func (b *Buffer[T]) Newest() (T, error) {
	var zero T
	if b.Len() == 0 {
		return zero, ErrEmpty
	}
	idx := (b.w - 1 + b.size) % b.size
	return b.buf[idx], nil
}

// Do calls fn for every stored item, oldest first.
func (b *Buffer[T]) Do(fn func(T)) {
	n := b.Len()
	for i := range n {
		fn(b.buf[(b.r+i)%b.size])
	}
}

// Reset drops all stored items, keeping the capacity.
func (b *Buffer[T]) Reset() {
	var zero T
	for i := range b.buf {
		b.buf[i] = zero
	}
	b.r = 0
	b.w = 0
	b.isFull = false
}
