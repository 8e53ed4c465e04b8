package silo

// Entity is an opaque handle (id, generation). Handles are comparable by
// value and meaningless outside the World that issued them.
type Entity struct {
	id         uint32
	generation uint32
}

// Id returns the dense slot index the entity occupies in its registry.
func (e Entity) Id() uint32 { return e.id }

// Generation returns the reuse counter for the entity's slot.
func (e Entity) Generation() uint32 { return e.generation }

// entitySlot is either free or records where the occupying entity lives.
type entitySlot struct {
	archetype  ArchetypeIndex
	row        RowIndex
	generation uint32
	live       bool
}

// entityRegistry is the dense id -> (archetype, row) map described by
// spec.md §4.4, with a LIFO free list for id reuse.
type entityRegistry struct {
	slots    []entitySlot
	freeList []uint32
}

func newEntityRegistry() *entityRegistry {
	return &entityRegistry{}
}

// allocate pops a free id (reusing the generation that free already
// bumped) or extends the slot vector, and returns a fresh Entity handle that is not yet assigned to
// any archetype.
func (r *entityRegistry) allocate() Entity {
	if n := len(r.freeList); n > 0 {
		id := r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		gen := r.slots[id].generation
		return Entity{id: id, generation: gen}
	}
	id := uint32(len(r.slots))
	r.slots = append(r.slots, entitySlot{generation: 0})
	return Entity{id: id, generation: 0}
}

// reserve ensures id is representable, bumping the counter past it the
// way an allocator must when create_with_id names an id beyond what has
// been handed out so far (Open Question 2).
func (r *entityRegistry) reserve(id uint32) {
	for uint32(len(r.slots)) <= id {
		r.slots = append(r.slots, entitySlot{generation: 0})
	}
}

// assign records that entity e now occupies (archetype, row). The slot
// must currently be free, or already own e's id (a re-assignment after a
// swap-remove row shuffle).
func (r *entityRegistry) assign(e Entity, a ArchetypeIndex, row RowIndex) {
	slot := &r.slots[e.id]
	slot.archetype = a
	slot.row = row
	slot.generation = e.generation
	slot.live = true
}

// swapRows reflects a column swap-remove: the entity that used to sit at
// the last row of archetype a now sits at removedRow.
func (r *entityRegistry) swapRows(a ArchetypeIndex, movedEntity Entity, removedRow RowIndex) {
	slot := &r.slots[movedEntity.id]
	slot.row = removedRow
	_ = a
}

// lookup returns the (archetype, row) for a live entity matching e's
// generation, or ok=false if e is stale or never allocated.
func (r *entityRegistry) lookup(e Entity) (ArchetypeIndex, RowIndex, bool) {
	if int(e.id) >= len(r.slots) {
		return 0, 0, false
	}
	slot := r.slots[e.id]
	if !slot.live || slot.generation != e.generation {
		return 0, 0, false
	}
	return slot.archetype, slot.row, true
}

// free marks e's slot free and pushes its id onto the LIFO free list,
// bumping the generation so stale handles from before reuse are rejected.
func (r *entityRegistry) free(e Entity) {
	slot := &r.slots[e.id]
	slot.live = false
	slot.generation++
	r.freeList = append(r.freeList, e.id)
}

// generationOf returns the stored generation for id, used by
// create_with_id to decide whether a supplied generation may be adopted.
func (r *entityRegistry) generationOf(id uint32) uint32 {
	if int(id) >= len(r.slots) {
		return 0
	}
	return r.slots[id].generation
}

// count returns the number of slots currently marked live.
func (r *entityRegistry) count() int {
	n := 0
	for _, s := range r.slots {
		if s.live {
			n++
		}
	}
	return n
}
