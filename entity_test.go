package silo

import "testing"

func TestEntityRegistryAllocateAssignLookup(t *testing.T) {
	r := newEntityRegistry()

	e := r.allocate()
	if e.id != 0 || e.generation != 0 {
		t.Fatalf("first allocate() = %+v, want id=0 generation=0", e)
	}
	r.assign(e, ArchetypeIndex(3), RowIndex(5))

	idx, row, ok := r.lookup(e)
	if !ok {
		t.Fatal("lookup() ok = false for a just-assigned entity")
	}
	if idx != 3 || row != 5 {
		t.Fatalf("lookup() = (%d, %d), want (3, 5)", idx, row)
	}
}

func TestEntityRegistryLookupMissOnStaleGeneration(t *testing.T) {
	r := newEntityRegistry()
	e := r.allocate()
	r.assign(e, 0, 0)
	r.free(e)

	if _, _, ok := r.lookup(e); ok {
		t.Fatal("lookup() ok = true for a handle whose generation was freed")
	}
}

func TestEntityRegistryFreeListReusesIdAndBumpsGeneration(t *testing.T) {
	r := newEntityRegistry()

	a := r.allocate()
	r.assign(a, 0, 0)
	r.free(a)

	b := r.allocate()
	if b.id != a.id {
		t.Fatalf("allocate() after free reused id %d's slot but returned id %d", a.id, b.id)
	}
	if b.generation <= a.generation {
		t.Fatalf("allocate() after free returned generation %d, want > %d", b.generation, a.generation)
	}
}

func TestEntityRegistryReserveExtendsPastNamedId(t *testing.T) {
	r := newEntityRegistry()
	r.reserve(10)

	if len(r.slots) <= 10 {
		t.Fatalf("reserve(10) left %d slots, want more than 10", len(r.slots))
	}

	e := r.allocate()
	if e.id != 11 {
		t.Fatalf("allocate() after reserve(10) = id %d, want 11 (past the reserved slot)", e.id)
	}
}

func TestEntityRegistrySwapRowsUpdatesMovedEntity(t *testing.T) {
	r := newEntityRegistry()
	moved := r.allocate()
	r.assign(moved, 0, 4)

	r.swapRows(0, moved, 1)

	_, row, ok := r.lookup(moved)
	if !ok || row != 1 {
		t.Fatalf("lookup() after swapRows = (_, %d, %v), want (_, 1, true)", row, ok)
	}
}

func TestEntityRegistryCount(t *testing.T) {
	r := newEntityRegistry()
	a := r.allocate()
	r.assign(a, 0, 0)
	b := r.allocate()
	r.assign(b, 0, 1)

	if got := r.count(); got != 2 {
		t.Fatalf("count() = %d, want 2", got)
	}

	r.free(a)
	if got := r.count(); got != 1 {
		t.Fatalf("count() after free = %d, want 1", got)
	}
}
