package silo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FrameCount struct{ N int }

func TestInsertAndGetResource(t *testing.T) {
	r := NewResources()
	InsertResource(r, FrameCount{N: 1})

	ref := GetResource[FrameCount](r)
	assert.Equal(t, 1, ref.Get().N)
	ref.Release(r)
}

func TestGetResourceMutMutatesInPlace(t *testing.T) {
	r := NewResources()
	InsertResource(r, FrameCount{N: 0})

	mut := GetResourceMut[FrameCount](r)
	mut.Get().N++
	mut.Release(r)

	ref := GetResource[FrameCount](r)
	assert.Equal(t, 1, ref.Get().N)
	ref.Release(r)
}

func TestTryGetResourceMutFailsWhileSharedBorrowIsOutstanding(t *testing.T) {
	r := NewResources()
	InsertResource(r, FrameCount{N: 0})

	ref := GetResource[FrameCount](r)
	defer ref.Release(r)

	_, ok := TryGetResourceMut[FrameCount](r)
	assert.False(t, ok, "TryGetResourceMut should fail while a shared borrow is outstanding")
}

func TestTryGetResourceFailsWhileExclusiveBorrowIsOutstanding(t *testing.T) {
	r := NewResources()
	InsertResource(r, FrameCount{N: 0})

	mut := GetResourceMut[FrameCount](r)
	defer mut.Release(r)

	_, ok := TryGetResource[FrameCount](r)
	assert.False(t, ok, "TryGetResource should fail while an exclusive borrow is outstanding")
}

func TestGetResourcePanicsWhenNeverInserted(t *testing.T) {
	r := NewResources()
	assert.Panics(t, func() {
		GetResource[FrameCount](r)
	})
}

func TestRemoveResourcePanicsWhileBorrowed(t *testing.T) {
	r := NewResources()
	InsertResource(r, FrameCount{N: 0})
	ref := GetResource[FrameCount](r)
	defer ref.Release(r)

	assert.Panics(t, func() {
		RemoveResource[FrameCount](r)
	})
}

func TestGetOrInsertResourceSeedsOnceThenReuses(t *testing.T) {
	r := NewResources()
	calls := 0
	seed := func() FrameCount {
		calls++
		return FrameCount{N: 7}
	}

	first := GetOrInsertResourceWith(r, seed)
	require.Equal(t, 7, first.Get().N)
	first.Release(r)

	second := GetOrInsertResourceWith(r, seed)
	second.Get().N = 9
	second.Release(r)

	require.Equal(t, 1, calls, "seed should only run on first insertion")

	third := GetResource[FrameCount](r)
	defer third.Release(r)
	assert.Equal(t, 9, third.Get().N)
}
