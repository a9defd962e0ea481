// Package lock keeps ranking runs from overlapping.
package lock

import (
	"context"

	"ranking/pkg/ranking"

	"golang.org/x/sync/semaphore"
)

// RunLock grants at most one holder at a time. TryLock never waits: when the
// lock is taken it fails with a ConcurrentRunConflict error.
type RunLock interface {
	TryLock(ctx context.Context, owner string) (release func(), err error)
}

// Local guards runs within this process.
type Local struct {
	sem *semaphore.Weighted
}

func NewLocal() *Local {
	return &Local{sem: semaphore.NewWeighted(1)}
}

func (l *Local) TryLock(ctx context.Context, owner string) (func(), error) {
	if !l.sem.TryAcquire(1) {
		return nil, ranking.Conflict("local")
	}
	return func() { l.sem.Release(1) }, nil
}
