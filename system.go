package silo

import "github.com/TheBitDrifter/bark"

// accessDecl is one component or resource access a System declares ahead
// of scheduling, used only to detect conflicting borrows at Schedule
// build time (spec.md §6: QuerySet/ResourceSet are "compile-time (or
// build-time-known)").
type accessDecl struct {
	id    ComponentId
	write bool
	kind  string // "query" or "resource", for the diagnostic only
}

// System is one unit of scheduled work. Declares[...] lets Schedule
// detect a Write/Write or Write/Read conflict across a System's own
// queries and resources before the schedule ever runs, rather than
// discovering it the way plus3-ooftn's Scheduler does at tick time via
// reflection over struct fields; here the System states its own
// declarations directly, since spec.md requires them compile-time known.
type System interface {
	// Declares returns every component and resource access this system
	// performs, for conflict detection.
	Declares() []accessDecl
	// Run executes one tick against world and resources.
	Run(world *World, resources *Resources)
}

// Declare builds an accessDecl for a query slot, for use in a System's
// Declares implementation.
func Declare[T any](s slot[T]) accessDecl {
	return accessDecl{id: s.id, write: s.write, kind: "query"}
}

// DeclareResource builds an accessDecl for a resource access.
func DeclareResource[T any](write bool) accessDecl {
	return accessDecl{id: ComponentId(resourceDeclId[T]()), write: write, kind: "resource"}
}

var resourceDeclCounter uint32
var resourceDeclIds = map[string]uint32{}

func resourceDeclId[T any]() uint32 {
	name := resourceTypeOf[T]().String()
	if id, ok := resourceDeclIds[name]; ok {
		return id
	}
	resourceDeclCounter++
	resourceDeclIds[name] = resourceDeclCounter
	return resourceDeclCounter
}

// SystemFn adapts a plain function into a System with no declared access
// (spec.md §6's "whole world, all resources" escape hatch for systems
// that don't fit the declared-access model, e.g. debug/admin systems).
type SystemFn struct {
	Fn func(world *World, resources *Resources)
}

// Declares returns no declarations: SystemFn is exempt from conflict
// detection and is assumed to need exclusive access to everything.
func (s SystemFn) Declares() []accessDecl { return nil }

// Run invokes the wrapped function.
func (s SystemFn) Run(world *World, resources *Resources) {
	s.Fn(world, resources)
}

// conflictsWith reports whether two declarations touching the same id/kind
// cannot be served simultaneously (any write alongside any other access).
func (a accessDecl) conflictsWith(b accessDecl) bool {
	if a.kind != b.kind || a.id != b.id {
		return false
	}
	return a.write || b.write
}

// checkConflicts returns a BorrowConflictError for the first pair of
// declarations within a single system's own Declares() that cannot be
// served at once, naming the offending ComponentId as spec.md §7
// requires (seed scenario S5: a system declaring both Read<T> and
// Write<T> must fail at materialization). Systems never conflict with
// each other here, since the schedule runs them strictly in sequence.
func checkConflicts(systems []System) error {
	for _, s := range systems {
		decls := s.Declares()
		for i := 0; i < len(decls); i++ {
			for j := i + 1; j < len(decls); j++ {
				if decls[i].conflictsWith(decls[j]) {
					return BorrowConflictError{
						ComponentID: decls[i].id,
						Detail:      "system declares two conflicting accesses to the same " + decls[i].kind + " (at least one is a write)",
					}
				}
			}
		}
	}
	return nil
}

// panicOnConflict is a thin wrapper so callers that want fail-fast
// construction (spec.md §7's "abort the current call") can use it
// directly instead of checking the error themselves.
func panicOnConflict(systems []System) {
	if err := checkConflicts(systems); err != nil {
		panic(bark.AddTrace(err))
	}
}
