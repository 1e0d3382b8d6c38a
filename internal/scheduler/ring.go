package scheduler

// Ring keeps the most recent cap values pushed into it and counts the rest.
type Ring[T any] struct {
	buf   []T
	next  int
	total int
}

func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{buf: make([]T, 0, max(capacity, 0))}
}

func (r *Ring[T]) Push(v T) {
	r.total++
	if cap(r.buf) == 0 {
		return
	}
	if len(r.buf) < cap(r.buf) {
		r.buf = append(r.buf, v)
		return
	}
	r.buf[r.next] = v
	r.next = (r.next + 1) % len(r.buf)
}

// Items returns the retained values, oldest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}

// Total counts every value ever pushed.
func (r *Ring[T]) Total() int { return r.total }

// Dropped counts values that fell out of the buffer.
func (r *Ring[T]) Dropped() int { return r.total - len(r.buf) }
