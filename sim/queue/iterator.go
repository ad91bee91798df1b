package queue

// Iterator is a logical cursor bound to one RingBuffer for its whole life.
//
// Positions are relative to the buffer's logical front, never to physical
// storage, so an iterator stays meaningful across resizes. Offset operations
// normalise modulo the buffer's current length: stepping past the back wraps
// to the front. Value and Replace check the position against the current
// length and return ErrStaleIterator when the buffer has shrunk beneath it.
//
// Iterators are small values; assigning one copies its binding and position.
// A post-increment is a copy followed by Next on the original.
type Iterator[T any] struct {
	rb  *RingBuffer[T]
	pos int
}

// Position returns the logical position.
func (it Iterator[T]) Position() int {
	return it.pos
}

// Buffer returns the buffer the iterator is bound to.
func (it Iterator[T]) Buffer() *RingBuffer[T] {
	return it.rb
}

// Value returns a copy of the element under the iterator.
func (it Iterator[T]) Value() (T, error) {
	if err := it.check(); err != nil {
		var zero T
		return zero, err
	}
	return it.rb.buf[it.rb.physical(it.pos)], nil
}

// Replace overwrites the element under the iterator.
func (it Iterator[T]) Replace(v T) error {
	if err := it.check(); err != nil {
		return err
	}
	it.rb.buf[it.rb.physical(it.pos)] = v
	return nil
}

// Next moves one position forward.
func (it *Iterator[T]) Next() *Iterator[T] {
	return it.Advance(1)
}

// Prev moves one position backward.
func (it *Iterator[T]) Prev() *Iterator[T] {
	return it.Advance(-1)
}

// Retreat moves dist positions backward.
func (it *Iterator[T]) Retreat(dist int) *Iterator[T] {
	return it.Advance(-dist)
}

// Advance moves dist positions (negative moves backward), wrapping modulo the
// buffer's current length. On an empty buffer the position is reset to 0.
func (it *Iterator[T]) Advance(dist int) *Iterator[T] {
	n := 0
	if it.rb != nil {
		n = it.rb.length
	}
	if n == 0 {
		it.pos = 0
		return it
	}
	it.pos = (it.pos + dist) % n
	if it.pos < 0 {
		it.pos += n
	}
	return it
}

// Offset returns a copy moved dist positions, leaving it unchanged.
func (it Iterator[T]) Offset(dist int) Iterator[T] {
	moved := it
	moved.Advance(dist)
	return moved
}

// Equal reports whether both iterators are bound to the same buffer and sit
// at the same position.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.rb == other.rb && it.pos == other.pos
}

func (it Iterator[T]) check() error {
	if it.rb == nil || it.pos < 0 || it.pos >= it.rb.length {
		return ErrStaleIterator
	}
	return nil
}
