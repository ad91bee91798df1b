package queue

// Lesser is implemented by values that carry their own strict ordering.
type Lesser[T any] interface {
	Less(other T) bool
}

// Heap is a binary min-heap stored in a RingBuffer. Logical positions of the
// buffer are the heap-array indices, so Top is the buffer's front.
//
// Children of position p live at (p+1)*2-1 and (p+1)*2; a position is a leaf
// when its left child is past the last element.
type Heap[T Lesser[T]] struct {
	items RingBuffer[T]
}

// NewHeap returns an empty heap.
func NewHeap[T Lesser[T]]() *Heap[T] {
	return &Heap[T]{}
}

// Len returns the number of stored elements.
func (h *Heap[T]) Len() int {
	return h.items.length
}

// IsEmpty reports whether the heap holds no elements.
func (h *Heap[T]) IsEmpty() bool {
	return h.items.length == 0
}

// Top returns an iterator at the minimum element without removing it.
func (h *Heap[T]) Top() Iterator[T] {
	return h.items.Begin()
}

// Peek returns a copy of the minimum element.
func (h *Heap[T]) Peek() (T, error) {
	if h.items.length == 0 {
		var zero T
		return zero, ErrUnderflow
	}
	return h.items.buf[h.items.start], nil
}

// Insert adds v in O(log n).
func (h *Heap[T]) Insert(v T) {
	h.items.PushBack(v)
	h.siftUp(h.items.length - 1)
}

// Pop removes and returns the minimum element.
func (h *Heap[T]) Pop() (T, error) {
	return h.Delete(h.Top())
}

// Delete removes the element under node in O(log n). The last element is
// swapped into node's position, popped off the back, and the value now at
// node's position is sifted down (or up, when it is smaller than its new
// parent).
func (h *Heap[T]) Delete(node Iterator[T]) (T, error) {
	var zero T
	if h.items.length == 0 {
		return zero, ErrUnderflow
	}
	if err := h.owns(node); err != nil {
		return zero, err
	}
	pos := node.pos
	h.swap(pos, h.items.length-1)
	v, err := h.items.PopBack()
	if err != nil {
		return zero, err
	}
	if pos < h.items.length && h.siftDown(pos) == pos {
		h.siftUp(pos)
	}
	return v, nil
}

// SiftUp restores the heap order above node, for callers that replaced the
// value under node with a smaller one.
func (h *Heap[T]) SiftUp(node Iterator[T]) error {
	if err := h.owns(node); err != nil {
		return err
	}
	h.siftUp(node.pos)
	return nil
}

// SiftDown restores the heap order below node, for callers that replaced the
// value under node with a larger one.
func (h *Heap[T]) SiftDown(node Iterator[T]) error {
	if err := h.owns(node); err != nil {
		return err
	}
	h.siftDown(node.pos)
	return nil
}

func (h *Heap[T]) owns(node Iterator[T]) error {
	if node.rb != &h.items {
		return ErrForeignIterator
	}
	return node.check()
}

func (h *Heap[T]) siftUp(pos int) {
	for pos != 0 {
		p := parent(pos)
		if !h.at(pos).Less(h.at(p)) {
			return
		}
		h.swap(pos, p)
		pos = p
	}
}

// siftDown returns the position where the value came to rest.
func (h *Heap[T]) siftDown(pos int) int {
	for {
		left := leftChild(pos)
		if left >= h.items.length {
			return pos
		}
		smallest := left
		if right := rightChild(pos); right < h.items.length && h.at(right).Less(h.at(left)) {
			smallest = right
		}
		if !h.at(smallest).Less(h.at(pos)) {
			return pos
		}
		h.swap(pos, smallest)
		pos = smallest
	}
}

// swap exchanges the stored values at two logical positions. Iterators held
// by callers keep their positions.
func (h *Heap[T]) swap(a, b int) {
	pa, pb := h.items.physical(a), h.items.physical(b)
	h.items.buf[pa], h.items.buf[pb] = h.items.buf[pb], h.items.buf[pa]
}

func (h *Heap[T]) at(pos int) T {
	return h.items.buf[h.items.physical(pos)]
}

func leftChild(p int) int {
	return (p+1)*2 - 1
}

func rightChild(p int) int {
	return leftChild(p) + 1
}

// parent inverts leftChild and rightChild: both (p+1)*2-1 and (p+1)*2 map
// back to p.
func parent(p int) int {
	return (p+1)/2 - 1
}
