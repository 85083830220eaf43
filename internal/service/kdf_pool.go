package service

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// KDFPool bounds how many Argon2id-bearing operations run at once, so a
// burst of unlocks cannot starve unrelated work of CPU and memory.
//
// Cancellation is honoured only while waiting for a slot. Once a slot is
// taken the operation runs to completion; a caller that has given up simply
// discards the result.
type KDFPool struct {
	sem  *semaphore.Weighted
	size int
}

// NewKDFPool creates a pool of size slots, or runtime.NumCPU() when size is
// not positive.
func NewKDFPool(size int) *KDFPool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &KDFPool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Do runs fn in a slot.
func (p *KDFPool) Do(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)

	return fn()
}

// runKDF is [KDFPool.Do] for functions returning a value.
func runKDF[T any](ctx context.Context, p *KDFPool, fn func() (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}
