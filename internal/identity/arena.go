package identity

import "sync"

// Ref addresses one arena slot at one generation.
type Ref struct {
	Slot uint32
	Gen  uint32
}

type arenaSlot[T any] struct {
	gen  uint32
	live bool
	val  T
}

// Arena stores host nodes in reusable slots. Freeing a slot bumps its
// generation, so a Ref taken before the free never resolves again, even
// after the slot is reused for a new node.
type Arena[T any] struct {
	mu    sync.RWMutex
	slots []arenaSlot[T]
	free  []uint32
	live  int
}

// Alloc stores v and returns its Ref.
func (a *Arena[T]) Alloc(v T) Ref {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.live++
	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[slot]
		s.live = true
		s.val = v
		return Ref{Slot: slot, Gen: s.gen}
	}
	a.slots = append(a.slots, arenaSlot[T]{gen: 1, live: true, val: v})
	return Ref{Slot: uint32(len(a.slots) - 1), Gen: 1}
}

// Free releases the slot addressed by ref. It reports false for a stale
// or unknown ref.
func (a *Arena[T]) Free(ref Ref) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int(ref.Slot) >= len(a.slots) {
		return false
	}
	s := &a.slots[ref.Slot]
	if !s.live || s.gen != ref.Gen {
		return false
	}
	var zero T
	s.val = zero
	s.live = false
	s.gen++
	a.free = append(a.free, ref.Slot)
	a.live--
	return true
}

// Get returns the value addressed by ref while its slot is still at the
// same generation.
func (a *Arena[T]) Get(ref Ref) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var zero T
	if int(ref.Slot) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[ref.Slot]
	if !s.live || s.gen != ref.Gen {
		return zero, false
	}
	return s.val, true
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.live
}

// Handle returns a non-owning handle for ref.
func (a *Arena[T]) Handle(ref Ref) Handle {
	return arenaHandle[T]{arena: a, ref: ref}
}

type arenaKey struct {
	arena any
	ref   Ref
}

type arenaHandle[T any] struct {
	arena *Arena[T]
	ref   Ref
}

func (h arenaHandle[T]) Key() any { return arenaKey{arena: h.arena, ref: h.ref} }

func (h arenaHandle[T]) Resolve() (any, bool) {
	v, ok := h.arena.Get(h.ref)
	if !ok {
		return nil, false
	}
	return v, true
}
