package design

import "fmt"

// SequenceAllocator hands out the global draw-order counter. Sequence
// indexes are 1-based, distinct and strictly increasing in creation order
// across the whole design, no matter which reader created the primitive.
// One allocator instance is threaded through every phase that emits
// primitives; the pipeline is single-threaded so no locking is needed.
type SequenceAllocator struct {
	last int
}

// Next returns the next sequence index.
func (a *SequenceAllocator) Next() int {
	a.last++
	return a.last
}

// Last returns the most recently issued index (0 before the first call).
func (a *SequenceAllocator) Last() int {
	return a.last
}

// ElementIDAllocator issues element identifiers like "wire_17". Each
// prefix numbers independently from 1, so IDs double as a per-shape count.
type ElementIDAllocator struct {
	counts map[string]int
}

// Next returns a fresh element ID with the given prefix.
func (a *ElementIDAllocator) Next(prefix string) string {
	if a.counts == nil {
		a.counts = make(map[string]int)
	}
	a.counts[prefix]++
	return fmt.Sprintf("%s_%d", prefix, a.counts[prefix])
}
