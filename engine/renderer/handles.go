package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-rb/engine/core"
	"github.com/spaghettifunk/anima-rb/engine/renderer/metadata"
)

type slot[T any] struct {
	generation uint16
	live       bool
	value      T
}

// table is a dense slot array addressed by generation-tagged ids. Removed
// slots wait on the pending list until recycle so a freed id number is not
// handed out again inside the same frame.
type table[T any] struct {
	slots   []slot[T]
	free    []uint32
	pending []uint32
	count   int
}

func (t *table[T]) insert(v T) (uint32, error) {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		if len(t.slots) >= metadata.HandleMaxIndex {
			return 0, fmt.Errorf("resource table full (%d slots): %w", len(t.slots), core.ErrLimitExceeded)
		}
		index = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{})
	}
	s := &t.slots[index]
	s.generation = nextGeneration(s.generation)
	s.live = true
	s.value = v
	t.count++
	return metadata.MakeHandleID(index, s.generation), nil
}

func nextGeneration(g uint16) uint16 {
	if g >= metadata.HandleMaxGeneration {
		return 1
	}
	return g + 1
}

func (t *table[T]) get(id uint32) (*slot[T], bool) {
	index, gen, ok := metadata.SplitHandleID(id)
	if !ok || index >= uint32(len(t.slots)) {
		return nil, false
	}
	s := &t.slots[index]
	if !s.live || s.generation != gen {
		return nil, false
	}
	return s, true
}

func (t *table[T]) lookup(id uint32) (T, bool) {
	s, ok := t.get(id)
	if !ok {
		var zero T
		return zero, false
	}
	return s.value, true
}

func (t *table[T]) contains(id uint32) bool {
	_, ok := t.get(id)
	return ok
}

func (t *table[T]) remove(id uint32) (T, bool) {
	var zero T
	s, ok := t.get(id)
	if !ok {
		return zero, false
	}
	v := s.value
	s.live = false
	s.value = zero
	t.count--
	index, _, _ := metadata.SplitHandleID(id)
	t.pending = append(t.pending, index)
	return v, true
}

// recycle makes the slots removed since the last call available again.
func (t *table[T]) recycle() {
	t.free = append(t.free, t.pending...)
	t.pending = t.pending[:0]
}

func (t *table[T]) len() int {
	return t.count
}

// ids lists live ids in slot order.
func (t *table[T]) ids() []uint32 {
	ids := make([]uint32, 0, t.count)
	for i := range t.slots {
		if t.slots[i].live {
			ids = append(ids, metadata.MakeHandleID(uint32(i), t.slots[i].generation))
		}
	}
	return ids
}
