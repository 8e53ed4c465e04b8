package silo

// Schedule runs a fixed, ordered list of Systems once per tick
// (spec.md §6, C10), grounded on plus3-ooftn's Scheduler.Run/Once but
// without its reflection-based query wiring: a Schedule here is just the
// system list plus the World/Resources it was built against.
type Schedule struct {
	systems   []System
	world     *World
	resources *Resources
}

// ScheduleBuilder accumulates Systems and validates each system's own
// declared accesses exactly once, at Build, rather than on every tick.
// Systems are not checked against each other.
type ScheduleBuilder struct {
	systems []System
}

// NewSchedule starts a ScheduleBuilder.
func NewSchedule() *ScheduleBuilder {
	return &ScheduleBuilder{}
}

// AddSystem appends s to the schedule, preserving the order systems were
// added (spec.md §9: "both forms run in list order").
func (b *ScheduleBuilder) AddSystem(s System) *ScheduleBuilder {
	b.systems = append(b.systems, s)
	return b
}

// AddSystemFn is a convenience for AddSystem(SystemFn{Fn: fn}).
func (b *ScheduleBuilder) AddSystemFn(fn func(world *World, resources *Resources)) *ScheduleBuilder {
	return b.AddSystem(SystemFn{Fn: fn})
}

// Build materializes the schedule against world and resources, checking
// every system's own declared accesses for conflicts up front
// (seed scenario S5) so a bad schedule never silently starts ticking.
func (b *ScheduleBuilder) Build(world *World, resources *Resources) (*Schedule, error) {
	if err := checkConflicts(b.systems); err != nil {
		return nil, err
	}
	systems := append([]System(nil), b.systems...)
	return &Schedule{systems: systems, world: world, resources: resources}, nil
}

// Run executes every system once, in schedule order.
func (s *Schedule) Run() {
	for _, sys := range s.systems {
		sys.Run(s.world, s.resources)
	}
}

// Len returns the number of systems in the schedule.
func (s *Schedule) Len() int { return len(s.systems) }
