// Package queue implements the containers behind the simulator's event
// scheduling: a growable double-ended RingBuffer, a logical Iterator bound to
// one buffer, a binary min-Heap and a FIFO, both layered on the RingBuffer.
//
// None of the types are safe for concurrent use. The simulator owns each
// instance from a single goroutine.
package queue

import (
	"errors"
)

var (
	// ErrUnderflow is returned when removing from an empty container.
	// The container stays valid and can be pushed to again.
	ErrUnderflow = errors.New("queue: underflow on empty container")

	// ErrStaleIterator is returned when an iterator's position is no longer
	// inside its buffer's current logical length.
	ErrStaleIterator = errors.New("queue: iterator position outside buffer")

	// ErrForeignIterator is returned when an iterator bound to one buffer is
	// handed to a container backed by another.
	ErrForeignIterator = errors.New("queue: iterator bound to a different buffer")
)

// RingBuffer is an auto-growing circular buffer supporting O(1) amortized
// push and pop at both ends plus logical-index access.
//
// The logical start is the physical slot held in start; logical index i lives
// in physical slot (start + i mod length) mod capacity. Capacity doubles when
// the buffer is full, starting at 1 on the first push, and every resize
// repacks the run so the logical start lands on physical slot 0. Popping the
// last element releases storage.
//
// The zero value is an empty buffer ready to use.
type RingBuffer[T any] struct {
	buf    []T // physical storage; len(buf) is the capacity
	start  int // physical slot of the logical front
	end    int // physical slot of the logical back
	length int // number of stored elements
}

// NewRingBuffer returns an empty buffer. Storage is allocated on first push.
func NewRingBuffer[T any]() *RingBuffer[T] {
	return &RingBuffer[T]{}
}

// Len returns the number of stored elements.
func (rb *RingBuffer[T]) Len() int {
	return rb.length
}

// Cap returns the size of the current storage.
func (rb *RingBuffer[T]) Cap() int {
	return len(rb.buf)
}

// IsFull reports whether the next push must grow the storage.
func (rb *RingBuffer[T]) IsFull() bool {
	return rb.length == len(rb.buf)
}

// IsEmpty reports whether the buffer holds no elements.
func (rb *RingBuffer[T]) IsEmpty() bool {
	return rb.length == 0
}

// PushFront inserts v before the logical front.
func (rb *RingBuffer[T]) PushFront(v T) {
	rb.reserve()
	if rb.length > 0 {
		rb.start = rb.slide(rb.start, -1)
	}
	rb.buf[rb.start] = v
	rb.length++
}

// PushBack appends v after the logical back.
func (rb *RingBuffer[T]) PushBack(v T) {
	rb.reserve()
	if rb.length > 0 {
		rb.end = rb.slide(rb.end, +1)
	}
	rb.buf[rb.end] = v
	rb.length++
}

// PopFront removes and returns the logical front element.
func (rb *RingBuffer[T]) PopFront() (T, error) {
	var zero T
	if rb.length == 0 {
		return zero, ErrUnderflow
	}
	v := rb.buf[rb.start]
	if rb.length == 1 {
		rb.release()
		return v, nil
	}
	rb.buf[rb.start] = zero
	rb.start = rb.slide(rb.start, +1)
	rb.length--
	return v, nil
}

// PopBack removes and returns the logical back element.
func (rb *RingBuffer[T]) PopBack() (T, error) {
	var zero T
	if rb.length == 0 {
		return zero, ErrUnderflow
	}
	v := rb.buf[rb.end]
	if rb.length == 1 {
		rb.release()
		return v, nil
	}
	rb.buf[rb.end] = zero
	rb.end = rb.slide(rb.end, -1)
	rb.length--
	return v, nil
}

// At returns the element at logical index i. Indices wrap modulo the current
// length, so -1 is the back element and Len() is the front again.
func (rb *RingBuffer[T]) At(i int) (T, error) {
	if rb.length == 0 {
		var zero T
		return zero, ErrUnderflow
	}
	return rb.buf[rb.physical(i)], nil
}

// Set overwrites the element at logical index i, wrapping like At.
func (rb *RingBuffer[T]) Set(i int, v T) error {
	if rb.length == 0 {
		return ErrUnderflow
	}
	rb.buf[rb.physical(i)] = v
	return nil
}

// Values returns a front-to-back copy of the stored elements.
func (rb *RingBuffer[T]) Values() []T {
	out := make([]T, rb.length)
	for i := range out {
		out[i] = rb.buf[(rb.start+i)%len(rb.buf)]
	}
	return out
}

// Begin returns an iterator at the logical front.
func (rb *RingBuffer[T]) Begin() Iterator[T] {
	return Iterator[T]{rb: rb, pos: 0}
}

// End returns an iterator at the logical back (the last element, not one past
// it). On an empty buffer it is equal to Begin.
func (rb *RingBuffer[T]) End() Iterator[T] {
	return Iterator[T]{rb: rb, pos: max(rb.length-1, 0)}
}

// IteratorAt returns an iterator at logical position pos, normalised modulo
// the current length.
func (rb *RingBuffer[T]) IteratorAt(pos int) Iterator[T] {
	it := Iterator[T]{rb: rb}
	it.Advance(pos)
	return it
}

// physical maps a logical index to its storage slot. Callers guarantee a
// non-empty buffer.
func (rb *RingBuffer[T]) physical(i int) int {
	i %= rb.length
	if i < 0 {
		i += rb.length
	}
	return (rb.start + i) % len(rb.buf)
}

// slide moves a physical index dist slots, wrapping at both ends of the
// storage. A capacity-1 buffer never moves.
func (rb *RingBuffer[T]) slide(idx, dist int) int {
	idx = (idx + dist) % len(rb.buf)
	if idx < 0 {
		idx += len(rb.buf)
	}
	return idx
}

// reserve grows the storage when the next push would not fit.
func (rb *RingBuffer[T]) reserve() {
	switch {
	case len(rb.buf) == 0:
		rb.resize(1)
	case rb.IsFull():
		rb.resize(len(rb.buf) * 2)
	}
}

// resize moves the run into fresh storage of the given size, starting at
// physical slot 0.
func (rb *RingBuffer[T]) resize(size int) {
	next := make([]T, size)
	for j := 0; j < rb.length; j++ {
		next[j] = rb.buf[(rb.start+j)%len(rb.buf)]
	}
	rb.buf = next
	rb.start = 0
	rb.end = max(rb.length-1, 0)
}

func (rb *RingBuffer[T]) release() {
	rb.buf = nil
	rb.start, rb.end, rb.length = 0, 0, 0
}
