package silo

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/bark"
)

// resourceCell holds one resource value plus the runtime borrow counters
// that stand in for original_source's AtomicRefCell<T> (src/resource.rs):
// any number of concurrent readers, or exactly one writer, never both.
// The core is single-threaded per spec.md §5, so these are plain ints
// rather than atomics; they exist to catch a caller holding a borrow open
// across a conflicting second borrow, not to arbitrate real concurrency.
type resourceCell struct {
	value   any
	readers int
	writer  bool
}

// Resources is the world's singleton store, keyed by reflect.Type the way
// delaneyj-arche's ecs.resources and edwinsyarief-lazyecs's Resources are,
// but with borrow accounting layered on top per spec.md §4.9 (C9) and
// original_source/src/resource.rs.
type Resources struct {
	mu    sync.Mutex
	cells map[reflect.Type]*resourceCell
}

// NewResources creates an empty resource store.
func NewResources() *Resources {
	return &Resources{cells: make(map[reflect.Type]*resourceCell)}
}

func resourceTypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// InsertResource stores v as the sole instance of T, replacing any prior
// value. It panics if T is currently borrowed.
func InsertResource[T any](r *Resources, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := resourceTypeOf[T]()
	if c, ok := r.cells[t]; ok && (c.readers > 0 || c.writer) {
		panic(bark.AddTrace(BorrowConflictError{Detail: "insert while " + t.String() + " is borrowed"}))
	}
	r.cells[t] = &resourceCell{value: &v}
}

// RemoveResource deletes T from the store, reporting whether it was
// present. Panics if T is currently borrowed.
func RemoveResource[T any](r *Resources) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := resourceTypeOf[T]()
	c, ok := r.cells[t]
	if !ok {
		return false
	}
	if c.readers > 0 || c.writer {
		panic(bark.AddTrace(BorrowConflictError{Detail: "remove while " + t.String() + " is borrowed"}))
	}
	delete(r.cells, t)
	return true
}

// HasResource reports whether T is currently stored, independent of any
// outstanding borrow.
func HasResource[T any](r *Resources) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cells[resourceTypeOf[T]()]
	return ok
}

// ResourceRef is a released-on-Release shared borrow of T, mirroring
// original_source's Ref<T> returned from Resources::get.
type ResourceRef[T any] struct {
	cell *resourceCell
}

// Get returns the borrowed value.
func (r ResourceRef[T]) Get() *T {
	return r.cell.value.(*T)
}

// Release ends the shared borrow. Callers that skip Release leak the
// borrow slot for the lifetime of the Resources store, same as an
// un-dropped AtomicRef in the original.
func (r ResourceRef[T]) Release(res *Resources) {
	res.mu.Lock()
	defer res.mu.Unlock()
	if r.cell.readers > 0 {
		r.cell.readers--
	}
}

// GetResource opens a shared borrow of T (original_source's Resources::get),
// panicking via BorrowConflictError if T is already held mutably, or if T
// was never inserted.
func GetResource[T any](r *Resources) ResourceRef[T] {
	ref, ok := TryGetResource[T](r)
	if !ok {
		if HasResource[T](r) {
			panic(bark.AddTrace(BorrowConflictError{Detail: "get while " + resourceTypeOf[T]().String() + " is mutably borrowed"}))
		}
		panic(bark.AddTrace(UnknownResourceError{Type: resourceTypeOf[T]()}))
	}
	return ref
}

// TryGetResource is the non-panicking form of GetResource (original_source's
// try_get): ok is false if T is absent or held mutably.
func TryGetResource[T any](r *Resources) (ResourceRef[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cells[resourceTypeOf[T]()]
	if !ok || c.writer {
		return ResourceRef[T]{}, false
	}
	c.readers++
	return ResourceRef[T]{cell: c}, true
}

// ResourceRefMut is an exclusive borrow of T, mirroring original_source's
// RefMut<T>.
type ResourceRefMut[T any] struct {
	cell *resourceCell
}

// Get returns the borrowed value for mutation in place.
func (r ResourceRefMut[T]) Get() *T {
	return r.cell.value.(*T)
}

// Set overwrites the borrowed value.
func (r ResourceRefMut[T]) Set(v T) {
	*r.cell.value.(*T) = v
}

// Release ends the exclusive borrow.
func (r ResourceRefMut[T]) Release(res *Resources) {
	res.mu.Lock()
	defer res.mu.Unlock()
	r.cell.writer = false
}

// GetResourceMut opens an exclusive borrow of T (original_source's
// Resources::get_mut), panicking if T is absent or already borrowed in
// any way.
func GetResourceMut[T any](r *Resources) ResourceRefMut[T] {
	ref, ok := TryGetResourceMut[T](r)
	if !ok {
		if HasResource[T](r) {
			panic(bark.AddTrace(BorrowConflictError{Detail: "get_mut while " + resourceTypeOf[T]().String() + " is borrowed"}))
		}
		panic(bark.AddTrace(UnknownResourceError{Type: resourceTypeOf[T]()}))
	}
	return ref
}

// TryGetResourceMut is the non-panicking form of GetResourceMut
// (original_source's try_get_mut).
func TryGetResourceMut[T any](r *Resources) (ResourceRefMut[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cells[resourceTypeOf[T]()]
	if !ok || c.writer || c.readers > 0 {
		return ResourceRefMut[T]{}, false
	}
	c.writer = true
	return ResourceRefMut[T]{cell: c}, true
}

// GetOrInsertResource returns the existing T, or inserts zero and returns
// that, mirroring original_source's get_or_insert_with but defaulting the
// seed to T's zero value; supplied as a convenience the distilled spec
// omitted.
func GetOrInsertResource[T any](r *Resources) ResourceRefMut[T] {
	return GetOrInsertResourceWith[T](r, func() T { var zero T; return zero })
}

// GetOrInsertResourceWith returns the existing T, or calls seed and stores
// the result, mirroring original_source's get_mut_or_insert_with.
func GetOrInsertResourceWith[T any](r *Resources, seed func() T) ResourceRefMut[T] {
	r.mu.Lock()
	t := resourceTypeOf[T]()
	c, ok := r.cells[t]
	if !ok {
		v := seed()
		c = &resourceCell{value: &v}
		r.cells[t] = c
	}
	if c.writer || c.readers > 0 {
		r.mu.Unlock()
		panic(bark.AddTrace(BorrowConflictError{Detail: "get_or_insert while " + t.String() + " is borrowed"}))
	}
	c.writer = true
	r.mu.Unlock()
	return ResourceRefMut[T]{cell: c}
}

// UnknownResourceError is raised when a required resource was never
// inserted.
type UnknownResourceError struct {
	Type reflect.Type
}

func (e UnknownResourceError) Error() string {
	return "silo: resource " + e.Type.String() + " was never inserted"
}
