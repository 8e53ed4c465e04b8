package silo

// Filter is a boolean predicate over an archetype's layout (spec.md §4.6).
// It is a pure function of the component set; composition never touches
// storage.
type Filter struct {
	matches func(ArchetypeLayout) bool
}

// Matches reports whether layout satisfies f.
func (f Filter) Matches(layout ArchetypeLayout) bool {
	if f.matches == nil {
		return true
	}
	return f.matches(layout)
}

// AnyFilter matches every archetype.
func AnyFilter() Filter {
	return Filter{matches: func(ArchetypeLayout) bool { return true }}
}

// HasFilter matches archetypes whose layout contains ComponentId(T).
func HasFilter[T any]() Filter {
	id := componentIdOf[T]()
	return Filter{matches: func(l ArchetypeLayout) bool { return l.Has(id) }}
}

// NotFilter matches archetypes that f does not match.
func NotFilter(f Filter) Filter {
	return Filter{matches: func(l ArchetypeLayout) bool { return !f.Matches(l) }}
}

// AllFilter matches archetypes that every supplied filter matches
// (logical AND).
func AllFilter(filters ...Filter) Filter {
	fs := append([]Filter(nil), filters...)
	return Filter{matches: func(l ArchetypeLayout) bool {
		for _, f := range fs {
			if !f.Matches(l) {
				return false
			}
		}
		return true
	}}
}

// OrFilter matches archetypes that at least one supplied filter matches
// (logical OR).
func OrFilter(filters ...Filter) Filter {
	fs := append([]Filter(nil), filters...)
	return Filter{matches: func(l ArchetypeLayout) bool {
		for _, f := range fs {
			if f.Matches(l) {
				return true
			}
		}
		return false
	}}
}
