package topk

// Bounded keeps the best k elements offered to it under a cmp-style
// comparator where negative means "ranks higher". Internally it is a heap with
// the worst kept element at the root, so eviction is O(log k).
type Bounded[T any] struct {
	k    int
	heap *Heap[T]
}

// NewBounded returns an empty Bounded holding at most k elements.
// Negative k is treated as zero.
func NewBounded[T any](k int, cmp func(a, b T) int) *Bounded[T] {
	if k < 0 {
		k = 0
	}
	worstFirst := func(a, b T) bool { return cmp(a, b) > 0 }
	return &Bounded[T]{k: k, heap: NewHeap(worstFirst, k+1)}
}

// Offer adds x, evicting the worst element when the bound is exceeded.
func (b *Bounded[T]) Offer(x T) {
	if b.k == 0 {
		return
	}
	b.heap.Push(x)
	if b.heap.Len() > b.k {
		b.heap.Pop()
	}
}

// Len returns the number of held elements.
func (b *Bounded[T]) Len() int { return b.heap.Len() }

// Full reports whether k elements are held.
func (b *Bounded[T]) Full() bool { return b.heap.Len() >= b.k }

// Min returns the worst held element, the first one to be evicted.
func (b *Bounded[T]) Min() (T, bool) { return b.heap.Peek() }

// Drain empties b and returns its elements best first. Elements leave the
// heap worst first and are written back to front.
func (b *Bounded[T]) Drain() []T {
	out := make([]T, b.heap.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i], _ = b.heap.Pop()
	}
	return out
}
