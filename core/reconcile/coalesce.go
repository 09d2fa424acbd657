package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Coalescer collapses concurrent runs for the same target into one.
// Callers arriving while a run is in flight share its Result.
//
// The shared run has a context of its own, cancelled once every caller
// waiting on it has gone away.
type Coalescer struct {
	sf singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Do runs fn for key unless a run for key is already in flight.
// shared reports whether the result was produced for another caller too.
//
// When ctx ends before the run does, the last caller to leave cancels the run
// and still receives its Result, so records not yet written show up as
// failures. Any other caller leaving early gets a failed Result carrying
// ctx.Err() and the run continues for those still waiting.
func (c *Coalescer) Do(ctx context.Context, key string, fn func(context.Context) *Result) (res *Result, shared bool) {
	c.mu.Lock()
	if c.flights == nil {
		c.flights = make(map[string]*flight)
	}
	f, ok := c.flights[key]
	if !ok {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: runCtx, cancel: cancel}
		c.flights[key] = f
	}
	f.waiters++
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		return fn(f.ctx), nil
	})
	c.mu.Unlock()

	select {
	case r := <-ch:
		c.leave(key, f)
		return r.Val.(*Result), r.Shared
	case <-ctx.Done():
	}

	if last := c.leave(key, f); last {
		r := <-ch
		return r.Val.(*Result), r.Shared
	}
	return abandonedResult(ctx.Err()), false
}

// leave drops one waiter from f and reports whether it was the last one, in
// which case the run is cancelled and forgotten so the next caller starts
// afresh.
func (c *Coalescer) leave(key string, f *flight) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return false
	}
	f.cancel()
	if c.flights[key] == f {
		delete(c.flights, key)
		c.sf.Forget(key)
	}
	return true
}

func abandonedResult(err error) *Result {
	now := time.Now()
	res := newResult("", now)
	res.setError(fmt.Errorf("caller left before the run finished: %w", err))
	res.State = StateFailed
	res.FinishedAt = now
	return res
}
