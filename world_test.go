package silo

import "testing"

type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }
type Tag struct{}

func TestCreate1AssignsArchetypeAndColumn(t *testing.T) {
	w := NewWorld()
	e, err := Create1(w, Position{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Create1() error = %v", err)
	}
	if !w.Contains(e) {
		t.Fatal("Contains() = false right after Create1")
	}

	entry, ok := w.EntryOf(e)
	if !ok {
		t.Fatal("EntryOf() ok = false right after Create1")
	}
	pos, ok := GetComponent[Position](entry)
	if !ok || pos.X != 1 || pos.Y != 2 {
		t.Fatalf("GetComponent[Position]() = %+v, %v, want {1 2}, true", pos, ok)
	}
}

func TestCreate2SeparatesArchetypesBySignature(t *testing.T) {
	w := NewWorld()
	a, err := Create1(w, Position{})
	if err != nil {
		t.Fatalf("Create1() error = %v", err)
	}
	b, err := Create2(w, Position{}, Velocity{})
	if err != nil {
		t.Fatalf("Create2() error = %v", err)
	}

	entryA, _ := w.EntryOf(a)
	entryB, _ := w.EntryOf(b)
	if entryA.archetype == entryB.archetype {
		t.Fatal("entities with different signatures share an archetype")
	}
}

func TestCreateZeroSizedComponentEntityIsLiveAndCounted(t *testing.T) {
	w := NewWorld()
	e, err := Create1(w, Tag{})
	if err != nil {
		t.Fatalf("Create1(Tag{}) error = %v", err)
	}
	if !w.Contains(e) {
		t.Fatal("Contains() = false for a unit-component entity")
	}
	if w.Entities() != 1 {
		t.Fatalf("Entities() = %d, want 1", w.Entities())
	}
}

func TestRemoveSwapsLastRowIntoRemovedSlot(t *testing.T) {
	w := NewWorld()
	a, _ := Create1(w, Position{X: 1})
	b, _ := Create1(w, Position{X: 2})
	c, _ := Create1(w, Position{X: 3})

	if ok := w.Remove(a); !ok {
		t.Fatal("Remove() = false for a live entity")
	}
	if w.Contains(a) {
		t.Fatal("Contains() = true after Remove")
	}
	if !w.Contains(b) || !w.Contains(c) {
		t.Fatal("Remove() of one entity disturbed its siblings' liveness")
	}

	entryC, ok := w.EntryOf(c)
	if !ok {
		t.Fatal("EntryOf(c) ok = false after sibling removal")
	}
	pos, _ := GetComponent[Position](entryC)
	if pos.X != 3 {
		t.Fatalf("GetComponent[Position](c) after swap-remove = %+v, want X=3", pos)
	}
}

func TestRemoveUnknownEntityReturnsFalse(t *testing.T) {
	w := NewWorld()
	if w.Remove(Entity{id: 99, generation: 0}) {
		t.Fatal("Remove() = true for an entity that was never created")
	}
}

func TestCreateWithIdAdoptsAndBumpsCounterPastNamedId(t *testing.T) {
	w := NewWorld()
	named := Entity{id: 50, generation: 0}
	if err := CreateWithId1(w, named, Position{X: 9}); err != nil {
		t.Fatalf("CreateWithId1() error = %v", err)
	}
	if !w.Contains(named) {
		t.Fatal("Contains() = false for a create_with_id entity")
	}

	next, err := Create1(w, Position{X: 10})
	if err != nil {
		t.Fatalf("Create1() error = %v", err)
	}
	if next.id <= named.id {
		t.Fatalf("Create1() after CreateWithId1(id=50) allocated id %d, want > 50", next.id)
	}
}

func TestCreateWithIdRejectsOlderGeneration(t *testing.T) {
	w := NewWorld()
	e := Entity{id: 5, generation: 3}
	if err := CreateWithId1(w, e, Position{}); err != nil {
		t.Fatalf("CreateWithId1() error = %v", err)
	}
	w.Remove(e) // bumps the stored generation for id 5 to 4

	stale := Entity{id: 5, generation: 3}
	err := CreateWithId1(w, stale, Position{})
	if err == nil {
		t.Fatal("CreateWithId1() with an older generation than stored succeeded, want GenerationMismatchError")
	}
	if _, ok := err.(GenerationMismatchError); !ok {
		t.Fatalf("CreateWithId1() error type = %T, want GenerationMismatchError", err)
	}
}

// TestCreateWithIdOverwritesLiveEntityUsingItsOwnHandle exercises
// create_with_id's primary use case (spec.md §4.5): replacing a still-live
// entity's component data via its own handle must succeed, not be mistaken
// for a stale-generation conflict caused by adoptId's own internal Remove.
func TestCreateWithIdOverwritesLiveEntityUsingItsOwnHandle(t *testing.T) {
	w := NewWorld()
	Create1(w, Position{X: 1})
	Create1(w, Position{X: 2})
	third, err := Create1(w, Position{X: 3})
	if err != nil {
		t.Fatalf("Create1() error = %v", err)
	}

	if err := CreateWithId1(w, third, Position{X: 999}); err != nil {
		t.Fatalf("CreateWithId1() on a live entity's own handle error = %v, want nil", err)
	}
	if !w.Contains(third) {
		t.Fatal("Contains(third) = false after CreateWithId1 replaced its components")
	}

	entry, ok := w.EntryOf(third)
	if !ok {
		t.Fatal("EntryOf(third) ok = false after CreateWithId1 replaced its components")
	}
	pos, ok := GetComponent[Position](entry)
	if !ok || pos.X != 999 {
		t.Fatalf("GetComponent[Position](third) = %+v, %v, want {999 ...}, true", pos, ok)
	}

	q := NewQuery1[Position](Read[Position]())
	rows := 0
	for range q.Iter(w) {
		rows++
	}
	if rows != 3 {
		t.Fatalf("Iter() after CreateWithId1 on a live handle visited %d rows, want 3", rows)
	}
}

func TestDuplicateComponentInSourceIsRejected(t *testing.T) {
	w := NewWorld()
	// Position used twice would only be reachable through a hand-built
	// layout, since CreateN is parameterized over distinct type params;
	// exercise layoutFor directly to cover the duplicate-detection path
	// newArchetypeLayout guards (spec.md §3).
	id := componentIdOf[Position]()
	_, err := layoutFor(id, id)
	if err == nil {
		t.Fatal("layoutFor() with a duplicate ComponentId succeeded, want DuplicateComponentError")
	}
	if _, ok := err.(DuplicateComponentError); !ok {
		t.Fatalf("layoutFor() error type = %T, want DuplicateComponentError", err)
	}
}

func TestEntitiesOfReturnsIndependentCopy(t *testing.T) {
	w := NewWorld()
	e, _ := Create1(w, Position{})
	entry, _ := w.EntryOf(e)

	list := w.EntitiesOf(entry.archetype)
	if len(list) != 1 || list[0] != e {
		t.Fatalf("EntitiesOf() = %v, want [%v]", list, e)
	}

	list[0] = Entity{}
	again := w.EntitiesOf(entry.archetype)
	if again[0] != e {
		t.Fatal("EntitiesOf() returned a slice aliasing the archetype's own storage")
	}
}
