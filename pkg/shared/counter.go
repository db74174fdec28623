// Package shared implements the mutex-protected coordination primitives the
// solvers pass between workers: counters, pools, a temperature cell, and a
// per-round results collector (spec §5). Mutex scopes are single-operation;
// no primitive here ever holds two locks at once.
package shared

import "sync"

// Counter is a mutex-protected int64 shared across worker goroutines. The
// zero value is ready to use.
type Counter struct {
	mu  sync.Mutex
	val int64
}

func (c *Counter) Inc() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val++
	return c.val
}

func (c *Counter) Add(delta int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val += delta
	return c.val
}

func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val = 0
}

func (c *Counter) Load() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}
