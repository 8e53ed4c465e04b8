package silo

import (
	"hash/fnv"
	"sort"

	"github.com/TheBitDrifter/mask"
	"github.com/kamstrup/intmap"
)

// maxLayoutComponents is the implementation-chosen cardinality limit from
// spec.md §3 (ArchetypeLayout invariants).
const maxLayoutComponents = 255

// ArchetypeIndex is a dense, stable index into the archetype table.
// Archetypes are never removed, so an ArchetypeIndex is valid for the
// World's entire lifetime.
type ArchetypeIndex uint32

// RowIndex is a position within one archetype's row list. It is
// invalidated by a swap-remove at or after the removed position.
type RowIndex uint32

// ArchetypeLayout is the ordered set of distinct ComponentIds that define
// a row shape. Two layouts compare equal iff they contain the same set;
// insertion order is preserved separately as the canonical column order.
type ArchetypeLayout struct {
	ordered []ComponentId
	bits    mask.Mask256
}

// newArchetypeLayout builds a layout from a set of ComponentIds,
// rejecting duplicates and oversize sets per spec.md §3.
func newArchetypeLayout(ids []ComponentId) (ArchetypeLayout, error) {
	seen := make(map[ComponentId]struct{}, len(ids))
	layout := ArchetypeLayout{ordered: make([]ComponentId, 0, len(ids))}
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return ArchetypeLayout{}, DuplicateComponentError{ComponentID: id}
		}
		seen[id] = struct{}{}
		layout.ordered = append(layout.ordered, id)
		layout.bits.Mark(uint32(id))
	}
	if len(layout.ordered) > maxLayoutComponents {
		return ArchetypeLayout{}, ComponentLimitError{Limit: maxLayoutComponents}
	}
	return layout, nil
}

// Components returns the layout's ComponentIds in canonical (insertion)
// order.
func (l ArchetypeLayout) Components() []ComponentId {
	out := make([]ComponentId, len(l.ordered))
	copy(out, l.ordered)
	return out
}

// Has reports whether id is part of this layout.
func (l ArchetypeLayout) Has(id ComponentId) bool {
	var bit mask.Mask256
	bit.Mark(uint32(id))
	return l.bits.ContainsAll(bit)
}

// Len returns the number of distinct component types in the layout.
func (l ArchetypeLayout) Len() int { return len(l.ordered) }

// fingerprint returns a 64-bit hash of the layout's component set,
// independent of insertion order, used to key the archetype lookup table.
// Two layouts with the same set always produce the same fingerprint;
// collisions are possible and are broken by the linear equality scan in
// archetypeTable.getOrCreate.
func (l ArchetypeLayout) fingerprint() uint64 {
	sorted := make([]ComponentId, len(l.ordered))
	copy(sorted, l.ordered)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	h := fnv.New64a()
	buf := make([]byte, 4)
	for _, id := range sorted {
		buf[0] = byte(id)
		buf[1] = byte(id >> 8)
		buf[2] = byte(id >> 16)
		buf[3] = byte(id >> 24)
		h.Write(buf)
	}
	return h.Sum64()
}

// equalSet reports whether l and other contain exactly the same
// ComponentIds, regardless of order (spec.md §3: "order irrelevant for
// equality").
func (l ArchetypeLayout) equalSet(other ArchetypeLayout) bool {
	if len(l.ordered) != len(other.ordered) {
		return false
	}
	return l.bits.ContainsAll(other.bits) && other.bits.ContainsAll(l.bits)
}

// archetype is a row-oriented group: the entities occupying each row, and
// a reference to the layout they share (spec.md §3). Columns themselves
// live in the componentRegistry, never here (spec.md §9: column ownership).
type archetype struct {
	index    ArchetypeIndex
	layout   ArchetypeLayout
	entities []Entity
}

func (a *archetype) Len() int { return len(a.entities) }

// archetypeTable is a contiguous vector of archetypes plus a fingerprint
// index for fast signature lookup (spec.md §4.3), grounded on
// plus3/ooftn's go.mod dependency on github.com/kamstrup/intmap in place
// of the teacher's plain map[mask.Mask]archetypeID.
type archetypeTable struct {
	archetypes    []*archetype
	byFingerprint *intmap.Map[uint64, []ArchetypeIndex]
	registry      *componentRegistry
}

func newArchetypeTable(registry *componentRegistry) *archetypeTable {
	return &archetypeTable{
		byFingerprint: intmap.New[uint64, []ArchetypeIndex](16),
		registry:      registry,
	}
}

// getOrCreate returns the ArchetypeIndex for layout, creating a new
// archetype (and registering one column per component type) on first
// observation (spec.md §4.3/§4.5).
func (t *archetypeTable) getOrCreate(layout ArchetypeLayout) ArchetypeIndex {
	fp := layout.fingerprint()
	if bucket, ok := t.byFingerprint.Get(fp); ok {
		for _, idx := range bucket {
			if t.archetypes[idx].layout.equalSet(layout) {
				return idx
			}
		}
	}

	idx := ArchetypeIndex(len(t.archetypes))
	t.archetypes = append(t.archetypes, &archetype{index: idx, layout: layout})
	bucket, _ := t.byFingerprint.Get(fp)
	t.byFingerprint.Put(fp, append(bucket, idx))

	for _, id := range layout.ordered {
		t.registry.registerArchetype(id, idx)
	}

	if Config.hooks.OnArchetypeCreated != nil {
		Config.hooks.OnArchetypeCreated(idx, layout)
	}
	return idx
}

func (t *archetypeTable) get(idx ArchetypeIndex) *archetype {
	return t.archetypes[idx]
}

func (t *archetypeTable) count() int {
	return len(t.archetypes)
}
