package pipeline

import "sync"

// checkpointState is the state a Checkpoint gate can be in.
type checkpointState int

const (
	running checkpointState = iota
	suspended
)

// Checkpoint is the cooperative enable/disable gate the worker's main
// loop consults once per iteration: the worker calls Pass() at a
// well-defined point each loop iteration, and Suspend() sets the state
// and wakes it so it can re-check and park if now suspended.
type Checkpoint struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state checkpointState
}

// NewCheckpoint returns a Checkpoint starting in the Running state.
func NewCheckpoint() *Checkpoint {
	c := &Checkpoint{state: running}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Pass blocks while the gate is Suspended and returns once it is
// Running. Called by the worker at the top of every loop iteration.
func (c *Checkpoint) Pass() {
	c.mu.Lock()
	for c.state == suspended {
		c.cond.Wait()
	}
	c.mu.Unlock()
}

// Suspend moves the gate to Suspended. The worker parks the next time it
// reaches Pass(); already-blocking operations (a receive or send retry in
// progress) run to completion first.
func (c *Checkpoint) Suspend() {
	c.mu.Lock()
	c.state = suspended
	c.mu.Unlock()
	c.cond.Broadcast()
}

// Resume moves the gate back to Running and wakes any worker parked in
// Pass().
func (c *Checkpoint) Resume() {
	c.mu.Lock()
	c.state = running
	c.mu.Unlock()
	c.cond.Broadcast()
}

// Running reports whether the gate currently allows the worker to run.
func (c *Checkpoint) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == running
}
