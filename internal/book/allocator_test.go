package book

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// existsRepo stubs only the existence check; the embedded nil interface
// panics if the allocator ever touches anything else.
type existsRepo struct {
	Repository
	exists map[string]bool
	calls  int
}

func (r *existsRepo) BookIDExists(_ context.Context, bookID string) (bool, error) {
	r.calls++
	return r.exists[bookID], nil
}

func TestAllocator_ProducesSixDigitID(t *testing.T) {
	repo := &existsRepo{exists: map[string]bool{}}
	a := NewAllocator(repo)

	id, err := a.Allocate(context.Background())
	require.NoError(t, err)
	assert.Len(t, id, 6)
	assert.Regexp(t, `^[1-9][0-9]{5}$`, id)
}

func TestAllocator_RetriesOnCollision(t *testing.T) {
	// The first allocAttempts-1 candidates are taken; the last one is free.
	taken := map[string]bool{}
	for i := 0; i < allocAttempts-1; i++ {
		taken[fmt.Sprintf("%d", allocMin+i)] = true
	}
	repo := &existsRepo{exists: taken}

	a := NewAllocator(repo)
	seq := 0
	a.intn = func(int) int { seq++; return seq - 1 }

	id, err := a.Allocate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d", allocMin+allocAttempts-1), id)
	assert.Equal(t, allocAttempts, repo.calls)
}

func TestAllocator_Exhausted(t *testing.T) {
	taken := map[string]bool{}
	for i := 0; i < allocAttempts; i++ {
		taken[fmt.Sprintf("%d", allocMin+i)] = true
	}
	repo := &existsRepo{exists: taken}

	a := NewAllocator(repo)
	seq := 0
	a.intn = func(int) int { seq++; return seq - 1 }

	_, err := a.Allocate(context.Background())
	assert.ErrorIs(t, err, ErrAllocationExhausted)
	assert.Equal(t, allocAttempts, repo.calls)
}

func TestAllocator_PropagatesCheckError(t *testing.T) {
	repo := &failingExistsRepo{}
	a := NewAllocator(repo)

	_, err := a.Allocate(context.Background())
	assert.EqualError(t, err, "store down")
}

type failingExistsRepo struct {
	Repository
}

func (r *failingExistsRepo) BookIDExists(context.Context, string) (bool, error) {
	return false, fmt.Errorf("store down")
}
