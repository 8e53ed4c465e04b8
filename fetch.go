package silo

// slot describes one component access within a compound fetch: which
// component, whether the archetype must carry it (required) or may lack
// it (optional, i.e. TryRead/TryWrite), and whether it is held for
// writing (spec.md §4.7). The write flag only affects conflict detection
// in systems (§5) and the read-only check in a query's Iter, which panics
// on a write slot; Go has no const-pointer distinction, so Read[T] and
// Write[T] both yield a live *T.
type slot[T any] struct {
	id       ComponentId
	optional bool
	write    bool
}

// Read declares a required, shared-access fetch of T: the matched
// archetype is guaranteed to carry T, so the yielded *T is never nil.
func Read[T any]() slot[T] {
	return slot[T]{id: componentIdOf[T]()}
}

// Write declares a required, exclusive-access fetch of T.
func Write[T any]() slot[T] {
	return slot[T]{id: componentIdOf[T](), write: true}
}

// TryRead declares an optional, shared-access fetch of T: the yielded
// *T is nil in archetypes that don't carry T (spec.md §4.7, Option<&T>).
func TryRead[T any]() slot[T] {
	return slot[T]{id: componentIdOf[T](), optional: true}
}

// TryWrite declares an optional, exclusive-access fetch of T.
func TryWrite[T any]() slot[T] {
	return slot[T]{id: componentIdOf[T](), optional: true, write: true}
}

func (s slot[T]) filter() Filter {
	if s.optional {
		return AnyFilter()
	}
	return HasFilter[T]()
}

func (s slot[T]) columnFor(registry *componentRegistry, a ArchetypeIndex) *Column[T] {
	return column[T](registry, a)
}
