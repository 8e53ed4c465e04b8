package silo

import (
	"iter"

	"github.com/TheBitDrifter/bark"
)

// matchCache resolves the ArchetypeIndex values whose layout
// satisfies f against w, caching the result and re-scanning whenever the
// live archetype count has grown since the cache was built. This
// resolves Open Question 1 as choice (a): a query never silently misses
// an archetype created after it was first used, because growth always
// invalidates the cache (SPEC_FULL.md §6), grounded on plus3/ooftn's
// Query[T].invalidateIfNeeded.
type matchCache struct {
	filter     Filter
	archetypes []ArchetypeIndex
	lastCount  int
}

func (c *matchCache) resolve(w *World) []ArchetypeIndex {
	count := w.archetypes.count()
	if c.archetypes != nil && count == c.lastCount {
		return c.archetypes
	}
	c.archetypes = c.archetypes[:0]
	for i := 0; i < count; i++ {
		idx := ArchetypeIndex(i)
		if c.filter.Matches(w.archetypes.get(idx).layout) {
			c.archetypes = append(c.archetypes, idx)
		}
	}
	c.lastCount = count
	return c.archetypes
}

// checkEditGeneration panics with StructuralEditDuringIterationError if a
// structural edit happened on w since snapshot was taken (spec.md §5, §9
// Open Question 3: structural edits during iteration are a logic error).
func checkEditGeneration(w *World, snapshot uint64) {
	if w.editGeneration != snapshot {
		panic(bark.AddTrace(StructuralEditDuringIterationError{}))
	}
}

// Row1 is the item yielded by Query1's iteration: the current entity and
// a pointer to its T1 component (nil if T1 was fetched optionally and
// this archetype lacks it).
type Row1[T1 any] struct {
	Entity Entity
	C1     *T1
}

// Query1 is a compound fetch over a single component (spec.md §4.7/§4.8).
type Query1[T1 any] struct {
	s1    slot[T1]
	cache matchCache
}

// NewQuery1 builds a Query1 for the given slot (Read[T1], Write[T1],
// TryRead[T1], or TryWrite[T1]).
func NewQuery1[T1 any](s1 slot[T1]) *Query1[T1] {
	return &Query1[T1]{s1: s1, cache: matchCache{filter: s1.filter()}}
}

func (q *Query1[T1]) iterate(w *World) iter.Seq[Row1[T1]] {
	snapshot := w.editGeneration
	archetypes := q.cache.resolve(w)
	return func(yield func(Row1[T1]) bool) {
		for _, idx := range archetypes {
			arch := w.archetypes.get(idx)
			col := q.s1.columnFor(w.registry, idx)
			for row := RowIndex(0); int(row) < arch.Len(); row++ {
				checkEditGeneration(w, snapshot)
				var c1 *T1
				if col != nil {
					c1 = col.Get(row)
				}
				if !yield(Row1[T1]{Entity: arch.entities[row], C1: c1}) {
					return
				}
			}
		}
	}
}

// Iter iterates read-only; it panics if the query's slot was declared
// with Write/TryWrite (spec.md §6: "iter requires F is read-only").
func (q *Query1[T1]) Iter(w *World) iter.Seq[Row1[T1]] {
	if q.s1.write {
		panic(bark.AddTrace(BorrowConflictError{ComponentID: q.s1.id, Detail: "Iter called on a Write/TryWrite query; use IterMut"}))
	}
	return q.iterate(w)
}

// IterMut iterates with mutable access.
func (q *Query1[T1]) IterMut(w *World) iter.Seq[Row1[T1]] {
	return q.iterate(w)
}

// Get performs an O(1) single-entity lookup: none if e is absent or its
// archetype does not match the query's filter.
func (q *Query1[T1]) Get(w *World, e Entity) (Row1[T1], bool) {
	idx, row, ok := w.entities.lookup(e)
	if !ok || !q.s1.filter().Matches(w.archetypes.get(idx).layout) {
		return Row1[T1]{}, false
	}
	col := q.s1.columnFor(w.registry, idx)
	var c1 *T1
	if col != nil {
		c1 = col.Get(row)
	}
	return Row1[T1]{Entity: e, C1: c1}, true
}

// Row2 is the item yielded by Query2's iteration.
type Row2[T1, T2 any] struct {
	Entity Entity
	C1     *T1
	C2     *T2
}

// Query2 is a compound fetch over two components.
type Query2[T1, T2 any] struct {
	slot1 slot[T1]
	slot2 slot[T2]
	cache matchCache
}

// NewQuery2 builds a Query2 over the two given slots.
func NewQuery2[T1, T2 any](s1 slot[T1], s2 slot[T2]) *Query2[T1, T2] {
	q := &Query2[T1, T2]{slot1: s1, slot2: s2}
	q.cache = matchCache{filter: AllFilter(s1.filter(), s2.filter())}
	return q
}

func (q *Query2[T1, T2]) writeConflict() (ComponentId, bool) {
	if q.slot1.write {
		return q.slot1.id, true
	}
	if q.slot2.write {
		return q.slot2.id, true
	}
	return 0, false
}

func (q *Query2[T1, T2]) iterate(w *World) iter.Seq[Row2[T1, T2]] {
	snapshot := w.editGeneration
	archetypes := q.cache.resolve(w)
	return func(yield func(Row2[T1, T2]) bool) {
		for _, idx := range archetypes {
			arch := w.archetypes.get(idx)
			col1 := q.slot1.columnFor(w.registry, idx)
			col2 := q.slot2.columnFor(w.registry, idx)
			for row := RowIndex(0); int(row) < arch.Len(); row++ {
				checkEditGeneration(w, snapshot)
				var c1 *T1
				var c2 *T2
				if col1 != nil {
					c1 = col1.Get(row)
				}
				if col2 != nil {
					c2 = col2.Get(row)
				}
				if !yield(Row2[T1, T2]{Entity: arch.entities[row], C1: c1, C2: c2}) {
					return
				}
			}
		}
	}
}

// Iter iterates read-only; panics if either slot was declared Write/TryWrite.
func (q *Query2[T1, T2]) Iter(w *World) iter.Seq[Row2[T1, T2]] {
	if id, conflict := q.writeConflict(); conflict {
		panic(bark.AddTrace(BorrowConflictError{ComponentID: id, Detail: "Iter called on a Write/TryWrite query; use IterMut"}))
	}
	return q.iterate(w)
}

// IterMut iterates with mutable access.
func (q *Query2[T1, T2]) IterMut(w *World) iter.Seq[Row2[T1, T2]] {
	return q.iterate(w)
}

// Get performs an O(1) single-entity lookup.
func (q *Query2[T1, T2]) Get(w *World, e Entity) (Row2[T1, T2], bool) {
	idx, row, ok := w.entities.lookup(e)
	if !ok || !q.cache.filter.Matches(w.archetypes.get(idx).layout) {
		return Row2[T1, T2]{}, false
	}
	col1 := q.slot1.columnFor(w.registry, idx)
	col2 := q.slot2.columnFor(w.registry, idx)
	var c1 *T1
	var c2 *T2
	if col1 != nil {
		c1 = col1.Get(row)
	}
	if col2 != nil {
		c2 = col2.Get(row)
	}
	return Row2[T1, T2]{Entity: e, C1: c1, C2: c2}, true
}

// Row3 is the item yielded by Query3's iteration.
type Row3[T1, T2, T3 any] struct {
	Entity Entity
	C1     *T1
	C2     *T2
	C3     *T3
}

// Query3 is a compound fetch over three components.
type Query3[T1, T2, T3 any] struct {
	slot1 slot[T1]
	slot2 slot[T2]
	slot3 slot[T3]
	cache matchCache
}

// NewQuery3 builds a Query3 over the three given slots.
func NewQuery3[T1, T2, T3 any](s1 slot[T1], s2 slot[T2], s3 slot[T3]) *Query3[T1, T2, T3] {
	q := &Query3[T1, T2, T3]{slot1: s1, slot2: s2, slot3: s3}
	q.cache = matchCache{filter: AllFilter(s1.filter(), s2.filter(), s3.filter())}
	return q
}

func (q *Query3[T1, T2, T3]) writeConflict() (ComponentId, bool) {
	switch {
	case q.slot1.write:
		return q.slot1.id, true
	case q.slot2.write:
		return q.slot2.id, true
	case q.slot3.write:
		return q.slot3.id, true
	}
	return 0, false
}

func (q *Query3[T1, T2, T3]) iterate(w *World) iter.Seq[Row3[T1, T2, T3]] {
	snapshot := w.editGeneration
	archetypes := q.cache.resolve(w)
	return func(yield func(Row3[T1, T2, T3]) bool) {
		for _, idx := range archetypes {
			arch := w.archetypes.get(idx)
			col1 := q.slot1.columnFor(w.registry, idx)
			col2 := q.slot2.columnFor(w.registry, idx)
			col3 := q.slot3.columnFor(w.registry, idx)
			for row := RowIndex(0); int(row) < arch.Len(); row++ {
				checkEditGeneration(w, snapshot)
				var c1 *T1
				var c2 *T2
				var c3 *T3
				if col1 != nil {
					c1 = col1.Get(row)
				}
				if col2 != nil {
					c2 = col2.Get(row)
				}
				if col3 != nil {
					c3 = col3.Get(row)
				}
				if !yield(Row3[T1, T2, T3]{Entity: arch.entities[row], C1: c1, C2: c2, C3: c3}) {
					return
				}
			}
		}
	}
}

// Iter iterates read-only; panics if any slot was declared Write/TryWrite.
func (q *Query3[T1, T2, T3]) Iter(w *World) iter.Seq[Row3[T1, T2, T3]] {
	if id, conflict := q.writeConflict(); conflict {
		panic(bark.AddTrace(BorrowConflictError{ComponentID: id, Detail: "Iter called on a Write/TryWrite query; use IterMut"}))
	}
	return q.iterate(w)
}

// IterMut iterates with mutable access.
func (q *Query3[T1, T2, T3]) IterMut(w *World) iter.Seq[Row3[T1, T2, T3]] {
	return q.iterate(w)
}

// Get performs an O(1) single-entity lookup.
func (q *Query3[T1, T2, T3]) Get(w *World, e Entity) (Row3[T1, T2, T3], bool) {
	idx, row, ok := w.entities.lookup(e)
	if !ok || !q.cache.filter.Matches(w.archetypes.get(idx).layout) {
		return Row3[T1, T2, T3]{}, false
	}
	col1 := q.slot1.columnFor(w.registry, idx)
	col2 := q.slot2.columnFor(w.registry, idx)
	col3 := q.slot3.columnFor(w.registry, idx)
	var c1 *T1
	var c2 *T2
	var c3 *T3
	if col1 != nil {
		c1 = col1.Get(row)
	}
	if col2 != nil {
		c2 = col2.Get(row)
	}
	if col3 != nil {
		c3 = col3.Get(row)
	}
	return Row3[T1, T2, T3]{Entity: e, C1: c1, C2: c2, C3: c3}, true
}

// Row4 is the item yielded by Query4's iteration.
type Row4[T1, T2, T3, T4 any] struct {
	Entity Entity
	C1     *T1
	C2     *T2
	C3     *T3
	C4     *T4
}

// Query4 is a compound fetch over four components.
type Query4[T1, T2, T3, T4 any] struct {
	slot1 slot[T1]
	slot2 slot[T2]
	slot3 slot[T3]
	slot4 slot[T4]
	cache matchCache
}

// NewQuery4 builds a Query4 over the four given slots.
func NewQuery4[T1, T2, T3, T4 any](s1 slot[T1], s2 slot[T2], s3 slot[T3], s4 slot[T4]) *Query4[T1, T2, T3, T4] {
	q := &Query4[T1, T2, T3, T4]{slot1: s1, slot2: s2, slot3: s3, slot4: s4}
	q.cache = matchCache{filter: AllFilter(s1.filter(), s2.filter(), s3.filter(), s4.filter())}
	return q
}

func (q *Query4[T1, T2, T3, T4]) writeConflict() (ComponentId, bool) {
	switch {
	case q.slot1.write:
		return q.slot1.id, true
	case q.slot2.write:
		return q.slot2.id, true
	case q.slot3.write:
		return q.slot3.id, true
	case q.slot4.write:
		return q.slot4.id, true
	}
	return 0, false
}

func (q *Query4[T1, T2, T3, T4]) iterate(w *World) iter.Seq[Row4[T1, T2, T3, T4]] {
	snapshot := w.editGeneration
	archetypes := q.cache.resolve(w)
	return func(yield func(Row4[T1, T2, T3, T4]) bool) {
		for _, idx := range archetypes {
			arch := w.archetypes.get(idx)
			col1 := q.slot1.columnFor(w.registry, idx)
			col2 := q.slot2.columnFor(w.registry, idx)
			col3 := q.slot3.columnFor(w.registry, idx)
			col4 := q.slot4.columnFor(w.registry, idx)
			for row := RowIndex(0); int(row) < arch.Len(); row++ {
				checkEditGeneration(w, snapshot)
				var c1 *T1
				var c2 *T2
				var c3 *T3
				var c4 *T4
				if col1 != nil {
					c1 = col1.Get(row)
				}
				if col2 != nil {
					c2 = col2.Get(row)
				}
				if col3 != nil {
					c3 = col3.Get(row)
				}
				if col4 != nil {
					c4 = col4.Get(row)
				}
				if !yield(Row4[T1, T2, T3, T4]{Entity: arch.entities[row], C1: c1, C2: c2, C3: c3, C4: c4}) {
					return
				}
			}
		}
	}
}

// Iter iterates read-only; panics if any slot was declared Write/TryWrite.
func (q *Query4[T1, T2, T3, T4]) Iter(w *World) iter.Seq[Row4[T1, T2, T3, T4]] {
	if id, conflict := q.writeConflict(); conflict {
		panic(bark.AddTrace(BorrowConflictError{ComponentID: id, Detail: "Iter called on a Write/TryWrite query; use IterMut"}))
	}
	return q.iterate(w)
}

// IterMut iterates with mutable access.
func (q *Query4[T1, T2, T3, T4]) IterMut(w *World) iter.Seq[Row4[T1, T2, T3, T4]] {
	return q.iterate(w)
}

// Get performs an O(1) single-entity lookup.
func (q *Query4[T1, T2, T3, T4]) Get(w *World, e Entity) (Row4[T1, T2, T3, T4], bool) {
	idx, row, ok := w.entities.lookup(e)
	if !ok || !q.cache.filter.Matches(w.archetypes.get(idx).layout) {
		return Row4[T1, T2, T3, T4]{}, false
	}
	col1 := q.slot1.columnFor(w.registry, idx)
	col2 := q.slot2.columnFor(w.registry, idx)
	col3 := q.slot3.columnFor(w.registry, idx)
	col4 := q.slot4.columnFor(w.registry, idx)
	var c1 *T1
	var c2 *T2
	var c3 *T3
	var c4 *T4
	if col1 != nil {
		c1 = col1.Get(row)
	}
	if col2 != nil {
		c2 = col2.Get(row)
	}
	if col3 != nil {
		c3 = col3.Get(row)
	}
	if col4 != nil {
		c4 = col4.Get(row)
	}
	return Row4[T1, T2, T3, T4]{Entity: e, C1: c1, C2: c2, C3: c3, C4: c4}, true
}

// QueryEntity is the degenerate fetch that yields just the current
// entity for every row in the world (spec.md §4.7, Entity fetch).
type QueryEntity struct {
	cache matchCache
}

// NewQueryEntity builds a query matching every archetype.
func NewQueryEntity() *QueryEntity {
	return &QueryEntity{cache: matchCache{filter: AnyFilter()}}
}

// Iter yields every live entity in (archetype index, row index) order.
func (q *QueryEntity) Iter(w *World) iter.Seq[Entity] {
	snapshot := w.editGeneration
	archetypes := q.cache.resolve(w)
	return func(yield func(Entity) bool) {
		for _, idx := range archetypes {
			arch := w.archetypes.get(idx)
			for row := RowIndex(0); int(row) < arch.Len(); row++ {
				checkEditGeneration(w, snapshot)
				if !yield(arch.entities[row]) {
					return
				}
			}
		}
	}
}
