package silo

import "testing"

func layout(t *testing.T, ids ...ComponentId) ArchetypeLayout {
	t.Helper()
	l, err := newArchetypeLayout(ids)
	if err != nil {
		t.Fatalf("newArchetypeLayout() error = %v", err)
	}
	return l
}

func TestAnyFilterMatchesEverything(t *testing.T) {
	f := AnyFilter()
	if !f.Matches(layout(t)) {
		t.Fatal("AnyFilter() did not match the empty layout")
	}
	if !f.Matches(layout(t, componentIdOf[Position]())) {
		t.Fatal("AnyFilter() did not match a non-empty layout")
	}
}

func TestHasFilterRequiresComponent(t *testing.T) {
	f := HasFilter[Position]()
	if f.Matches(layout(t, componentIdOf[Velocity]())) {
		t.Fatal("HasFilter[Position]() matched a layout without Position")
	}
	if !f.Matches(layout(t, componentIdOf[Position](), componentIdOf[Velocity]())) {
		t.Fatal("HasFilter[Position]() did not match a layout containing Position")
	}
}

func TestNotFilterInverts(t *testing.T) {
	f := NotFilter(HasFilter[Position]())
	if f.Matches(layout(t, componentIdOf[Position]())) {
		t.Fatal("NotFilter(HasFilter[Position]()) matched a layout with Position")
	}
	if !f.Matches(layout(t, componentIdOf[Velocity]())) {
		t.Fatal("NotFilter(HasFilter[Position]()) did not match a layout without Position")
	}
}

func TestAllFilterRequiresEveryClause(t *testing.T) {
	f := AllFilter(HasFilter[Position](), HasFilter[Velocity]())
	if f.Matches(layout(t, componentIdOf[Position]())) {
		t.Fatal("AllFilter() matched a layout missing one of its clauses")
	}
	if !f.Matches(layout(t, componentIdOf[Position](), componentIdOf[Velocity]())) {
		t.Fatal("AllFilter() did not match a layout with both clauses")
	}
}

func TestOrFilterRequiresAnyClause(t *testing.T) {
	f := OrFilter(HasFilter[Position](), HasFilter[Velocity]())
	if !f.Matches(layout(t, componentIdOf[Position]())) {
		t.Fatal("OrFilter() did not match a layout with only the first clause")
	}
	if f.Matches(layout(t, componentIdOf[Tag]())) {
		t.Fatal("OrFilter() matched a layout with neither clause")
	}
}
