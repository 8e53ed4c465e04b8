package silo

import "fmt"

// DuplicateComponentError is raised when a source tuple names the same
// component type more than once.
type DuplicateComponentError struct {
	ComponentID ComponentId
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("silo: duplicate component %v in entity source", e.ComponentID)
}

// ComponentLimitError is raised when a layout would exceed the maximum
// number of distinct component types trackable in one archetype.
type ComponentLimitError struct {
	Limit int
}

func (e ComponentLimitError) Error() string {
	return fmt.Sprintf("silo: archetype layout exceeds the %d component limit", e.Limit)
}

// GenerationMismatchError is raised when create_with_id is asked to adopt
// a generation older than the one already stored for that slot.
type GenerationMismatchError struct {
	Entity        Entity
	StoredGenOlder uint32
}

func (e GenerationMismatchError) Error() string {
	return fmt.Sprintf(
		"silo: create_with_id supplied generation %d for entity id %d, which is older than the stored generation %d",
		e.Entity.generation, e.Entity.id, e.StoredGenOlder,
	)
}

// BorrowConflictError is raised when a system declares conflicting access
// to the same component column or resource cell.
type BorrowConflictError struct {
	ComponentID ComponentId
	Detail      string
}

func (e BorrowConflictError) Error() string {
	return fmt.Sprintf("silo: borrow conflict on %v: %s", e.ComponentID, e.Detail)
}

// StructuralEditDuringIterationError is raised by a query cursor when it
// finds that its world had a structural edit (create/create_with_id/remove)
// since the cursor was opened. The edit itself has already been applied;
// the cursor panics before yielding its next row. The cursor does not know
// which entity was edited, so Entity is left zero.
type StructuralEditDuringIterationError struct {
	Entity Entity
}

func (e StructuralEditDuringIterationError) Error() string {
	return fmt.Sprintf(
		"silo: structural edit attempted during iteration (entity %v); buffer the edit or finish iterating first",
		e.Entity,
	)
}
