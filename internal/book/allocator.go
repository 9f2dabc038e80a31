package book

import (
	"context"
	"fmt"
	"math/rand/v2"
)

const (
	allocMin      = 100000
	allocMax      = 999999
	allocAttempts = 10
)

// Allocator produces short public book ids: 6-digit numeric strings checked
// for uniqueness against the repository. The check is advisory only; the
// store's unique index is the real guarantee and the service retries once on
// an insert conflict.
type Allocator struct {
	repo Repository
	// intn is swappable in tests; defaults to math/rand/v2.
	intn func(n int) int
}

func NewAllocator(repo Repository) *Allocator {
	return &Allocator{repo: repo, intn: rand.IntN}
}

// Allocate returns a bookId not present in the store at the time of the
// check, or ErrAllocationExhausted after the attempt bound.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for i := 0; i < allocAttempts; i++ {
		candidate := fmt.Sprintf("%d", allocMin+a.intn(allocMax-allocMin+1))
		exists, err := a.repo.BookIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrAllocationExhausted
}
