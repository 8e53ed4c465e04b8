package silo

// World aggregates the component registry, archetype table, and entity
// registry, and owns every structural edit (spec.md §2, C5).
type World struct {
	registry   *componentRegistry
	archetypes *archetypeTable
	entities   *entityRegistry

	// editGeneration increments on every structural edit and is snapshotted
	// when a query's Iter/IterMut is called, so a mutation mid-iteration is caught
	// as a logic error rather than silently corrupting the cursor
	// (Open Question 3, SPEC_FULL.md §6).
	editGeneration uint64
}

// NewWorld creates an empty World.
func NewWorld() *World {
	registry := newComponentRegistry()
	return &World{
		registry:   registry,
		archetypes: newArchetypeTable(registry),
		entities:   newEntityRegistry(),
	}
}

// layoutFor builds the ArchetypeLayout for a fixed set of component ids,
// in the order supplied (spec.md §3: insertion order is the canonical
// row order).
func layoutFor(ids ...ComponentId) (ArchetypeLayout, error) {
	return newArchetypeLayout(ids)
}

// unwindOnPanic truncates every column named in ids back to startLen if
// fn panics, then re-raises as an error rather than a process-fatal
// panic, matching spec.md §4.5's bulk-append-after-validation policy and
// §7's "resource exhaustion propagated to the caller".
func unwindOnPanic(registry *componentRegistry, idx ArchetypeIndex, ids []ComponentId, startLen int, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			for _, id := range ids {
				if c := columnErasedFor(registry, id, idx); c != nil {
					c.Truncate(startLen)
				}
			}
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = &appendFailureError{recovered: r}
		}
	}()
	fn()
	return nil
}

type appendFailureError struct{ recovered any }

func (e *appendFailureError) Error() string {
	return "silo: component append failed"
}

func (w *World) newRow(idx ArchetypeIndex, arch *archetype) Entity {
	e := w.entities.allocate()
	arch.entities = append(arch.entities, e)
	row := RowIndex(len(arch.entities) - 1)
	w.entities.assign(e, idx, row)
	w.editGeneration++
	if Config.hooks.OnEntityCreated != nil {
		Config.hooks.OnEntityCreated(e, idx)
	}
	return e
}

// Create1 creates one entity carrying a single component.
func Create1[T1 any](w *World, v1 T1) (Entity, error) {
	ids := []ComponentId{componentIdOf[T1]()}
	layout, err := layoutFor(ids...)
	if err != nil {
		return Entity{}, err
	}
	idx := w.archetypes.getOrCreate(layout)
	arch := w.archetypes.get(idx)
	startLen := arch.Len()

	err = unwindOnPanic(w.registry, idx, ids, startLen, func() {
		ed := newEditor(w.registry)
		EditColumn[T1](ed, idx).Append(v1)
	})
	if err != nil {
		return Entity{}, err
	}
	return w.newRow(idx, arch), nil
}

// Create2 creates one entity carrying two components.
func Create2[T1, T2 any](w *World, v1 T1, v2 T2) (Entity, error) {
	ids := []ComponentId{componentIdOf[T1](), componentIdOf[T2]()}
	layout, err := layoutFor(ids...)
	if err != nil {
		return Entity{}, err
	}
	idx := w.archetypes.getOrCreate(layout)
	arch := w.archetypes.get(idx)
	startLen := arch.Len()

	err = unwindOnPanic(w.registry, idx, ids, startLen, func() {
		ed := newEditor(w.registry)
		EditColumn[T1](ed, idx).Append(v1)
		EditColumn[T2](ed, idx).Append(v2)
	})
	if err != nil {
		return Entity{}, err
	}
	return w.newRow(idx, arch), nil
}

// Create3 creates one entity carrying three components.
func Create3[T1, T2, T3 any](w *World, v1 T1, v2 T2, v3 T3) (Entity, error) {
	ids := []ComponentId{componentIdOf[T1](), componentIdOf[T2](), componentIdOf[T3]()}
	layout, err := layoutFor(ids...)
	if err != nil {
		return Entity{}, err
	}
	idx := w.archetypes.getOrCreate(layout)
	arch := w.archetypes.get(idx)
	startLen := arch.Len()

	err = unwindOnPanic(w.registry, idx, ids, startLen, func() {
		ed := newEditor(w.registry)
		EditColumn[T1](ed, idx).Append(v1)
		EditColumn[T2](ed, idx).Append(v2)
		EditColumn[T3](ed, idx).Append(v3)
	})
	if err != nil {
		return Entity{}, err
	}
	return w.newRow(idx, arch), nil
}

// Create4 creates one entity carrying four components.
func Create4[T1, T2, T3, T4 any](w *World, v1 T1, v2 T2, v3 T3, v4 T4) (Entity, error) {
	ids := []ComponentId{componentIdOf[T1](), componentIdOf[T2](), componentIdOf[T3](), componentIdOf[T4]()}
	layout, err := layoutFor(ids...)
	if err != nil {
		return Entity{}, err
	}
	idx := w.archetypes.getOrCreate(layout)
	arch := w.archetypes.get(idx)
	startLen := arch.Len()

	err = unwindOnPanic(w.registry, idx, ids, startLen, func() {
		ed := newEditor(w.registry)
		EditColumn[T1](ed, idx).Append(v1)
		EditColumn[T2](ed, idx).Append(v2)
		EditColumn[T3](ed, idx).Append(v3)
		EditColumn[T4](ed, idx).Append(v4)
	})
	if err != nil {
		return Entity{}, err
	}
	return w.newRow(idx, arch), nil
}

// adoptId is the create_with_id preamble shared by CreateWithIdN: destroy
// any existing occupant of e's id, reserve e's id in the allocator (bumping
// the counter past it per Open Question 2, and taking it off the free
// list), and validate the supplied generation is not older than what is
// already stored.
func (w *World) adoptId(e Entity) error {
	// Snapshot the stored generation before any removal: adoptId's own
	// Remove(e) below bumps the slot's generation, and validating against
	// that post-removal value would reject the common case of
	// create_with_id reusing a still-live entity's own handle (spec.md
	// §4.5), since the freshly-freed slot's generation is always exactly
	// one more than the handle just removed.
	stored := w.entities.generationOf(e.id)
	if e.generation < stored {
		return GenerationMismatchError{Entity: e, StoredGenOlder: stored}
	}
	if occupant := (Entity{id: e.id, generation: stored}); w.Contains(occupant) {
		w.Remove(occupant)
	}
	w.entities.reserve(e.id)
	for i, id := range w.entities.freeList {
		if id == e.id {
			w.entities.freeList = append(w.entities.freeList[:i], w.entities.freeList[i+1:]...)
			break
		}
	}
	w.entities.slots[e.id].generation = e.generation
	return nil
}

func (w *World) placeRow(e Entity, idx ArchetypeIndex, arch *archetype) {
	arch.entities = append(arch.entities, e)
	row := RowIndex(len(arch.entities) - 1)
	w.entities.assign(e, idx, row)
	w.editGeneration++
	if Config.hooks.OnEntityCreated != nil {
		Config.hooks.OnEntityCreated(e, idx)
	}
}

// CreateWithId1 is the deterministic, single-component variant of Create1
// (spec.md §4.5, create_with_id).
func CreateWithId1[T1 any](w *World, e Entity, v1 T1) error {
	if err := w.adoptId(e); err != nil {
		return err
	}
	ids := []ComponentId{componentIdOf[T1]()}
	layout, err := layoutFor(ids...)
	if err != nil {
		return err
	}
	idx := w.archetypes.getOrCreate(layout)
	arch := w.archetypes.get(idx)
	startLen := arch.Len()

	err = unwindOnPanic(w.registry, idx, ids, startLen, func() {
		ed := newEditor(w.registry)
		EditColumn[T1](ed, idx).Append(v1)
	})
	if err != nil {
		return err
	}
	w.placeRow(e, idx, arch)
	return nil
}

// CreateWithId2 is the two-component variant of CreateWithId1.
func CreateWithId2[T1, T2 any](w *World, e Entity, v1 T1, v2 T2) error {
	if err := w.adoptId(e); err != nil {
		return err
	}
	ids := []ComponentId{componentIdOf[T1](), componentIdOf[T2]()}
	layout, err := layoutFor(ids...)
	if err != nil {
		return err
	}
	idx := w.archetypes.getOrCreate(layout)
	arch := w.archetypes.get(idx)
	startLen := arch.Len()

	err = unwindOnPanic(w.registry, idx, ids, startLen, func() {
		ed := newEditor(w.registry)
		EditColumn[T1](ed, idx).Append(v1)
		EditColumn[T2](ed, idx).Append(v2)
	})
	if err != nil {
		return err
	}
	w.placeRow(e, idx, arch)
	return nil
}

// CreateWithId3 is the three-component variant of CreateWithId1.
func CreateWithId3[T1, T2, T3 any](w *World, e Entity, v1 T1, v2 T2, v3 T3) error {
	if err := w.adoptId(e); err != nil {
		return err
	}
	ids := []ComponentId{componentIdOf[T1](), componentIdOf[T2](), componentIdOf[T3]()}
	layout, err := layoutFor(ids...)
	if err != nil {
		return err
	}
	idx := w.archetypes.getOrCreate(layout)
	arch := w.archetypes.get(idx)
	startLen := arch.Len()

	err = unwindOnPanic(w.registry, idx, ids, startLen, func() {
		ed := newEditor(w.registry)
		EditColumn[T1](ed, idx).Append(v1)
		EditColumn[T2](ed, idx).Append(v2)
		EditColumn[T3](ed, idx).Append(v3)
	})
	if err != nil {
		return err
	}
	w.placeRow(e, idx, arch)
	return nil
}

// Remove destroys e, swap-removing its row from its archetype's columns
// and entity list, and freeing its registry slot (spec.md §4.5). Returns
// false if e is absent (a lookup miss, not an error).
func (w *World) Remove(e Entity) bool {
	idx, row, ok := w.entities.lookup(e)
	if !ok {
		return false
	}
	arch := w.archetypes.get(idx)

	for _, id := range arch.layout.ordered {
		if c := columnErasedFor(w.registry, id, idx); c != nil {
			c.SwapRemoveErased(row)
		}
	}

	last := RowIndex(len(arch.entities) - 1)
	movedEntity := arch.entities[last]
	arch.entities[row] = arch.entities[last]
	arch.entities = arch.entities[:last]

	if movedEntity != e {
		w.entities.swapRows(idx, movedEntity, row)
	}
	w.entities.free(e)
	w.editGeneration++

	if Config.hooks.OnEntityDestroyed != nil {
		Config.hooks.OnEntityDestroyed(e)
	}
	return true
}

// Contains reports whether e refers to a live entity.
func (w *World) Contains(e Entity) bool {
	_, _, ok := w.entities.lookup(e)
	return ok
}

// Entities returns the number of currently live entities.
func (w *World) Entities() int {
	return w.entities.count()
}

// EntitiesOf returns a copy of one archetype's entity list in row order.
func (w *World) EntitiesOf(idx ArchetypeIndex) []Entity {
	if int(idx) >= w.archetypes.count() {
		return nil
	}
	arch := w.archetypes.get(idx)
	out := make([]Entity, len(arch.entities))
	copy(out, arch.entities)
	return out
}

// Entry is a handle for reading/writing the components of one entity
// directly, without going through a Query.
type Entry struct {
	world     *World
	archetype ArchetypeIndex
	row       RowIndex
}

// EntryOf returns an Entry for e, or ok=false if e is absent.
func (w *World) EntryOf(e Entity) (Entry, bool) {
	idx, row, ok := w.entities.lookup(e)
	if !ok {
		return Entry{}, false
	}
	return Entry{world: w, archetype: idx, row: row}, true
}

// GetComponent returns a pointer to T on the entry's entity, or ok=false
// if the entity's archetype does not carry T. A free function, since Go
// methods cannot themselves be generic.
func GetComponent[T any](entry Entry) (*T, bool) {
	col := column[T](entry.world.registry, entry.archetype)
	if col == nil {
		return nil, false
	}
	return col.Get(entry.row), true
}
