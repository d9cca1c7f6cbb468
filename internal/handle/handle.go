// Package handle implements a small opaque-integer registry, used in place
// of raw host pointers wherever guest bytecode needs a reference to
// host-side state it cannot otherwise name (spec.md Design Notes §9).
//
// A Table hands out ids that are stable for the lifetime of the entry and
// never reused while the entry is live, so a guest holding a stale id after
// Release gets a clean "not found" rather than a dangling reference.
package handle

// Table maps small integer handles to values of type T. The zero Table is
// not usable; use New.
type Table[T any] struct {
	entries map[uint64]T
	next    uint64
}

// New returns an empty Table. Handles start at 1, reserving 0 as "no
// handle" for callers that want a sentinel.
func New[T any]() *Table[T] {
	return &Table[T]{entries: make(map[uint64]T), next: 1}
}

// Register allocates a new handle for v and returns it.
func (t *Table[T]) Register(v T) uint64 {
	id := t.next
	t.next++
	t.entries[id] = v
	return id
}

// Lookup returns the value registered under id, and whether it was found.
func (t *Table[T]) Lookup(id uint64) (T, bool) {
	v, ok := t.entries[id]
	return v, ok
}

// Release removes id from the table. Releasing an unknown id is a no-op.
func (t *Table[T]) Release(id uint64) {
	delete(t.entries, id)
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	return len(t.entries)
}

// Ids returns the currently live handles, in no particular order.
func (t *Table[T]) Ids() []uint64 {
	ids := make([]uint64, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	return ids
}
