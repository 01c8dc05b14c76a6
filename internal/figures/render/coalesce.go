package render

import (
	"context"
	"sync"
)

// ============================================================
// Render coalescing
// ============================================================

type call[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Coalescer runs at most one render at a time. Triggers that arrive
// while a render runs share a single follow-up render and all receive
// its result. A running render is never cancelled.
type Coalescer[T any] struct {
	fn func() (T, error)

	mu      sync.Mutex
	running *call[T]
	pending *call[T]
}

func NewCoalescer[T any](fn func() (T, error)) *Coalescer[T] {
	return &Coalescer[T]{fn: fn}
}

// Trigger requests a render and waits for the one that will reflect it.
// ctx only bounds the wait.
func (c *Coalescer[T]) Trigger(ctx context.Context) (T, error) {
	cl := c.attach()
	select {
	case <-cl.done:
		return cl.val, cl.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// attach starts a render when idle, otherwise joins the pending one.
func (c *Coalescer[T]) attach() *call[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.running == nil:
		c.running = &call[T]{done: make(chan struct{})}
		go c.loop(c.running)
		return c.running
	case c.pending == nil:
		c.pending = &call[T]{done: make(chan struct{})}
	}
	return c.pending
}

func (c *Coalescer[T]) loop(cl *call[T]) {
	for cl != nil {
		cl.val, cl.err = c.fn()
		close(cl.done)

		c.mu.Lock()
		cl, c.pending = c.pending, nil
		c.running = cl
		c.mu.Unlock()
	}
}
