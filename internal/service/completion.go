package service

import (
	"context"
	"sync"

	"github.com/bnema/photobridge/internal/domain"
)

// Completion is the single-shot result of an asynchronous library call. The
// first resolution wins; later ones are ignored, so observers see exactly one
// value.
type Completion[T any] struct {
	once      sync.Once
	mu        sync.Mutex
	done      chan struct{}
	resolved  bool
	result    T
	callbacks []func(T)
}

func newCompletion[T any]() *Completion[T] {
	return &Completion[T]{done: make(chan struct{})}
}

func (c *Completion[T]) resolve(v T) bool {
	resolved := false
	c.once.Do(func() {
		c.mu.Lock()
		c.result = v
		c.resolved = true
		callbacks := c.callbacks
		c.callbacks = nil
		c.mu.Unlock()

		for _, cb := range callbacks {
			cb(v)
		}
		// Waiters wake after the callbacks have run.
		close(c.done)
		resolved = true
	})
	return resolved
}

// Done is closed once the result is available and every callback registered
// before resolution has run.
func (c *Completion[T]) Done() <-chan struct{} {
	return c.done
}

// Result returns the value without blocking; ok is false while pending.
func (c *Completion[T]) Result() (v T, ok bool) {
	select {
	case <-c.done:
		return c.result, true
	default:
		return v, false
	}
}

// Wait blocks until the result is available or ctx ends. Giving up on the
// wait does not cancel the operation.
func (c *Completion[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.result, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete registers fn to run once with the result. If the result is
// already there, fn runs immediately on the caller's goroutine.
func (c *Completion[T]) OnComplete(fn func(T)) {
	c.mu.Lock()
	if c.resolved {
		v := c.result
		c.mu.Unlock()
		fn(v)
		return
	}
	c.callbacks = append(c.callbacks, fn)
	c.mu.Unlock()
}

// DeleteResult carries identifiers only on success and an error only on
// failure.
type DeleteResult struct {
	Success          bool
	Err              error
	LocalIdentifiers []string
}

type UpdateResult struct {
	Success         bool
	Err             error
	LocalIdentifier string
}

type EditionStatus int

const (
	EditionAttached EditionStatus = iota + 1
	EditionUnavailable
)

func (s EditionStatus) String() string {
	switch s {
	case EditionAttached:
		return "attached"
	case EditionUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// EditionResult always carries a record. When Status is EditionUnavailable
// the record has no edition keys and Cause says why.
type EditionResult struct {
	Record domain.Record
	Status EditionStatus
	Cause  error
}
