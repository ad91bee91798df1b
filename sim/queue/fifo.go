package queue

// FIFO is a first-in first-out queue over a RingBuffer.
// Queues order by length, so the shortest of several can be picked with Less.
type FIFO[T any] struct {
	items RingBuffer[T]
}

// NewFIFO returns an empty queue.
func NewFIFO[T any]() *FIFO[T] {
	return &FIFO[T]{}
}

// Enqueue adds v at the back.
func (q *FIFO[T]) Enqueue(v T) {
	q.items.PushBack(v)
}

// Dequeue removes and returns the front element.
func (q *FIFO[T]) Dequeue() (T, error) {
	return q.items.PopFront()
}

// Peek returns the front element without removing it.
func (q *FIFO[T]) Peek() (T, error) {
	return q.items.At(0)
}

// Len returns the number of queued elements.
func (q *FIFO[T]) Len() int {
	return q.items.Len()
}

// IsEmpty reports whether the queue holds no elements.
func (q *FIFO[T]) IsEmpty() bool {
	return q.items.IsEmpty()
}

// Less reports whether q is shorter than other.
func (q *FIFO[T]) Less(other *FIFO[T]) bool {
	return q.items.Len() < other.items.Len()
}

// Values returns a front-to-back copy of the queued elements.
func (q *FIFO[T]) Values() []T {
	return q.items.Values()
}
