// Package pool provides a reusable slot pool with an intrusive free list.
//
// Slots are addressed by index. Acquire reuses the most recently released
// slot before growing, so sustained fire settles into a fixed working set.
package pool

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned by Acquire when a bounded pool has no free slot.
var ErrExhausted = errors.New("pool exhausted")

const noSlot = -1

type slot[T any] struct {
	value    T
	active   bool
	nextFree int
}

// Stats counts pool activity since creation.
type Stats struct {
	Acquired  int `json:"acquired"`
	Reused    int `json:"reused"`
	Allocated int `json:"allocated"`
	Released  int `json:"released"`
	Dropped   int `json:"dropped"`
}

// Pool holds values of type T in reusable slots.
// Pointers returned by Acquire and Get stay valid until the next Acquire
// that grows the pool.
type Pool[T any] struct {
	slots    []slot[T]
	freeHead int
	capacity int
	active   int
	stats    Stats
}

// New creates a pool. capacity <= 0 means the pool grows without bound;
// a positive capacity rejects acquisitions once every slot is active.
func New[T any](capacity int) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	p := &Pool[T]{freeHead: noSlot, capacity: capacity}
	if capacity > 0 {
		p.slots = make([]slot[T], 0, capacity)
	}
	return p
}

// Acquire returns a zeroed active slot.
func (p *Pool[T]) Acquire() (int, *T, error) {
	if p.freeHead != noSlot {
		idx := p.freeHead
		s := &p.slots[idx]
		p.freeHead = s.nextFree
		var zero T
		s.value = zero
		s.active = true
		s.nextFree = noSlot
		p.active++
		p.stats.Acquired++
		p.stats.Reused++
		return idx, &s.value, nil
	}

	if p.capacity > 0 && len(p.slots) >= p.capacity {
		p.stats.Dropped++
		return noSlot, nil, fmt.Errorf("%w: capacity %d", ErrExhausted, p.capacity)
	}

	p.slots = append(p.slots, slot[T]{active: true, nextFree: noSlot})
	idx := len(p.slots) - 1
	p.active++
	p.stats.Acquired++
	p.stats.Allocated++
	return idx, &p.slots[idx].value, nil
}

// Release returns a slot to the free list. Releasing an inactive or
// out-of-range slot is a no-op.
func (p *Pool[T]) Release(idx int) {
	if idx < 0 || idx >= len(p.slots) || !p.slots[idx].active {
		return
	}
	s := &p.slots[idx]
	s.active = false
	s.nextFree = p.freeHead
	p.freeHead = idx
	p.active--
	p.stats.Released++
}

// Get returns the value in an active slot, or nil.
func (p *Pool[T]) Get(idx int) *T {
	if idx < 0 || idx >= len(p.slots) || !p.slots[idx].active {
		return nil
	}
	return &p.slots[idx].value
}

// Each calls fn for every active slot in index order. fn may Release the
// slot it is given but must not Acquire.
func (p *Pool[T]) Each(fn func(idx int, v *T)) {
	for i := range p.slots {
		if p.slots[i].active {
			fn(i, &p.slots[i].value)
		}
	}
}

// ReleaseIf releases every active slot for which pred returns true and
// returns how many were released.
func (p *Pool[T]) ReleaseIf(pred func(v *T) bool) int {
	n := 0
	for i := range p.slots {
		if p.slots[i].active && pred(&p.slots[i].value) {
			p.Release(i)
			n++
		}
	}
	return n
}

// Active returns the number of active slots.
func (p *Pool[T]) Active() int { return p.active }

// Len returns the number of allocated slots.
func (p *Pool[T]) Len() int { return len(p.slots) }

// Capacity returns the configured bound (0 = unbounded).
func (p *Pool[T]) Capacity() int { return p.capacity }

// Stats returns activity counters.
func (p *Pool[T]) Stats() Stats { return p.stats }

// State is the exported form of a pool, including the free-list order.
type State[T any] struct {
	Capacity int    `json:"capacity"`
	Values   []T    `json:"values"`
	Active   []bool `json:"active"`
	NextFree []int  `json:"next_free"`
	FreeHead int    `json:"free_head"`
	Stats    Stats  `json:"stats"`
}

// Export copies the pool state.
func (p *Pool[T]) Export() State[T] {
	st := State[T]{
		Capacity: p.capacity,
		Values:   make([]T, len(p.slots)),
		Active:   make([]bool, len(p.slots)),
		NextFree: make([]int, len(p.slots)),
		FreeHead: p.freeHead,
		Stats:    p.stats,
	}
	for i, s := range p.slots {
		st.Values[i] = s.value
		st.Active[i] = s.active
		st.NextFree[i] = s.nextFree
	}
	return st
}

// FromState rebuilds a pool from an exported state.
func FromState[T any](st State[T]) (*Pool[T], error) {
	n := len(st.Values)
	if len(st.Active) != n || len(st.NextFree) != n {
		return nil, fmt.Errorf("pool state: mismatched slot arrays (%d/%d/%d)", n, len(st.Active), len(st.NextFree))
	}
	if st.FreeHead < noSlot || st.FreeHead >= n {
		return nil, fmt.Errorf("pool state: free head %d out of range", st.FreeHead)
	}
	p := New[T](st.Capacity)
	p.slots = make([]slot[T], n)
	for i := 0; i < n; i++ {
		p.slots[i] = slot[T]{value: st.Values[i], active: st.Active[i], nextFree: st.NextFree[i]}
		if st.Active[i] {
			p.active++
		}
	}
	p.freeHead = st.FreeHead
	p.stats = st.Stats
	return p, nil
}
