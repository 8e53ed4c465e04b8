package silo

import (
	"reflect"
	"sync"
)

// ComponentId is a stable identifier derived from a component type at
// first observation. Equality and hashing are total: two ComponentIds
// compare equal iff they were derived from the same Go type.
type ComponentId uint32

// componentTypeRegistry assigns a dense ComponentId to every distinct
// component type observed by the process, the way edwinsyarief/lazyecs's
// Resources and plus3/ooftn's ComponentRegistry key their storage off
// reflect.Type rather than language-level reflection over generics.
type componentTypeRegistry struct {
	mu    sync.Mutex
	ids   map[reflect.Type]ComponentId
	types []reflect.Type
}

var globalComponentTypes = componentTypeRegistry{
	ids: make(map[reflect.Type]ComponentId),
}

func (r *componentTypeRegistry) idFor(t reflect.Type) ComponentId {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[t]; ok {
		return id
	}
	id := ComponentId(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	return id
}

func (r *componentTypeRegistry) typeOf(id ComponentId) reflect.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.types[id]
}

// componentIdOf returns the stable ComponentId for T, registering T on
// first use.
func componentIdOf[T any]() ComponentId {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return globalComponentTypes.idFor(t)
}

// isZeroSized reports whether T has zero size, which selects the
// counter-only column representation (spec.md §3/§4.1).
func isZeroSized[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t.Size() == 0
}
