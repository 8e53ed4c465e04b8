/*
Package silo provides an archetype-based Entity-Component-System (ECS) core.

Silo keeps entities that share the same exact component signature packed
into one archetype's contiguous columns, so that iterating over any subset
of components reduces to a sequence of tight, cache-coherent scans rather
than a pointer-chasing walk over heterogeneous records.

Core Concepts:

  - Entity: an opaque (id, generation) handle for a game object or record.
  - Component: a plain-data value type attached to an entity.
  - Archetype: a group of entities sharing the same component set, stored
    as one column per component type.
  - Query: a typed fetch (Query1..Query4 over Read, Write, TryRead and
    TryWrite slots, or QueryEntity for entities alone) that resolves to the archetypes matching its signature and streams
    rows across them.
  - Resources: process-wide singletons borrow-checked at runtime.
  - System / Schedule: units of work that declare the queries and
    resources they touch, run in sequence by a Schedule.

Basic Usage:

	world := silo.NewWorld()

	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }

	e, _ := silo.Create2(world, Position{X: 1}, Velocity{X: 2})
	_ = e

	q := silo.NewQuery2[Position, Velocity](silo.Write[Position](), silo.Read[Velocity]())
	for row := range q.IterMut(world) {
		row.C1.X += row.C2.X
		row.C1.Y += row.C2.Y
	}

Silo is a standalone core: serialization, networking, and parallel system
execution are explicitly out of scope (see DESIGN.md).
*/
package silo
