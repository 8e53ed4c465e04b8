package silo

// Hooks lets a caller observe structural edits without silo depending on
// any concrete logging or telemetry package. Any field left nil is simply
// not invoked.
type Hooks struct {
	// OnArchetypeCreated fires once, the first time a given layout is observed.
	OnArchetypeCreated func(ArchetypeIndex, ArchetypeLayout)
	// OnEntityCreated fires after an entity has been fully recorded.
	OnEntityCreated func(Entity, ArchetypeIndex)
	// OnEntityDestroyed fires after an entity has been removed and its slot freed.
	OnEntityDestroyed func(Entity)
}

// Config holds process-wide configuration for the silo package.
var Config config

type config struct {
	hooks Hooks
}

// SetHooks installs the structural-edit hooks used by every World.
func (c *config) SetHooks(h Hooks) {
	c.hooks = h
}
