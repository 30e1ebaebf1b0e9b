// Package spsc provides a bounded wait-free single-producer single-consumer
// ring buffer.
//
// Exactly one goroutine may call Push and exactly one goroutine may call Pop.
// Neither operation blocks, allocates, or takes a lock, so the consumer side
// is safe to drive from a real-time audio callback.
package spsc

import (
	"errors"
	"sync/atomic"
)

// ErrCapacity is returned by New for a non-positive capacity.
var ErrCapacity = errors.New("spsc: capacity must be positive")

// Ring is a bounded FIFO of values of type T. The zero value is not usable;
// create rings with New.
type Ring[T any] struct {
	// head is only written by the consumer, tail only by the producer.
	head atomic.Uint64
	_    [56]byte
	tail atomic.Uint64
	_    [56]byte

	mask  uint64
	slots []T
}

// New returns a ring holding at least capacity values. The capacity is
// rounded up to the next power of two.
func New[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 {
		return nil, ErrCapacity
	}

	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}

	return &Ring[T]{
		mask:  size - 1,
		slots: make([]T, size),
	}, nil
}

// Cap returns the number of values the ring can hold.
func (r *Ring[T]) Cap() int {
	return len(r.slots)
}

// Len returns a snapshot of the number of queued values.
func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Push appends v. It returns false without modifying the ring when full.
// Producer side only.
func (r *Ring[T]) Push(v T) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.slots)) {
		return false
	}

	r.slots[tail&r.mask] = v
	r.tail.Store(tail + 1)

	return true
}

// Pop removes the oldest value. It returns false when the ring is empty.
// Consumer side only.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T

	head := r.head.Load()
	if head == r.tail.Load() {
		return zero, false
	}

	idx := head & r.mask
	v := r.slots[idx]
	r.slots[idx] = zero
	r.head.Store(head + 1)

	return v, true
}
