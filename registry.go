package silo

import "github.com/TheBitDrifter/bark"

// componentRegistry maps ComponentId -> { ArchetypeIndex -> columnErased },
// stored type-erased but type-recoverable via a typed accessor
// (spec.md §4.2). The registry is the sole owner of every column;
// archetypes only ever reference columns by (ComponentId, ArchetypeIndex).
type componentRegistry struct {
	columns map[ComponentId]map[ArchetypeIndex]columnErased
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{
		columns: make(map[ComponentId]map[ArchetypeIndex]columnErased),
	}
}

// registerArchetype makes sure the per-archetype column map for a
// component type exists, and is a no-op if it already does (idempotent per
// spec.md §4.2). It does not allocate the column itself: that happens on
// the first ensureColumn call for (id, a), which supplies the concrete
// element type, since the registry itself is untyped.
func (r *componentRegistry) registerArchetype(id ComponentId, a ArchetypeIndex) {
	if _, ok := r.columns[id]; !ok {
		r.columns[id] = make(map[ArchetypeIndex]columnErased)
	}
}

func ensureColumn[T any](r *componentRegistry, id ComponentId, a ArchetypeIndex) *Column[T] {
	byArch, ok := r.columns[id]
	if !ok {
		byArch = make(map[ArchetypeIndex]columnErased)
		r.columns[id] = byArch
	}
	if existing, ok := byArch[a]; ok {
		return existing.(*Column[T])
	}
	col := newColumn[T]()
	byArch[a] = col
	return col
}

// column returns the typed column for (T, a), or nil if T is not part of
// archetype a.
func column[T any](r *componentRegistry, a ArchetypeIndex) *Column[T] {
	id := componentIdOf[T]()
	byArch, ok := r.columns[id]
	if !ok {
		return nil
	}
	c, ok := byArch[a]
	if !ok {
		return nil
	}
	return c.(*Column[T])
}

func columnErasedFor(r *componentRegistry, id ComponentId, a ArchetypeIndex) columnErased {
	byArch, ok := r.columns[id]
	if !ok {
		return nil
	}
	return byArch[a]
}

// editor distributes disjoint mutable column references for one
// structural edit or one system tick, and refuses a second outstanding
// mutable borrow of the same ComponentId (spec.md §4.2, §5).
type editor struct {
	registry *componentRegistry
	borrowed map[ComponentId]struct{}
}

func newEditor(r *componentRegistry) *editor {
	return &editor{registry: r, borrowed: make(map[ComponentId]struct{})}
}

// EditColumn returns a mutable typed column for (T, a), panicking via
// bark.AddTrace if T is already borrowed mutably within this editor.
func EditColumn[T any](e *editor, a ArchetypeIndex) *Column[T] {
	id := componentIdOf[T]()
	if _, already := e.borrowed[id]; already {
		panic(bark.AddTrace(BorrowConflictError{
			ComponentID: id,
			Detail:      "double mutable borrow of the same column in one edit",
		}))
	}
	e.borrowed[id] = struct{}{}
	return ensureColumn[T](e.registry, id, a)
}
