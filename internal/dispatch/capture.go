// ABOUTME: Capture dispatcher: remembers the last clicked command for callers that report it
// ABOUTME: Used by RPC and preview modes, optionally forwarding to a real dispatcher

package dispatch

import "sync"

// Dispatcher runs a clicked command.
type Dispatcher interface {
	Dispatch(command string)
}

// Capture records the last dispatched command and forwards it to next.
type Capture struct {
	mu   sync.Mutex
	last string
	next Dispatcher
}

// NewCapture returns a Capture forwarding to next, which may be nil.
func NewCapture(next Dispatcher) *Capture {
	return &Capture{next: next}
}

// Dispatch records command and forwards it.
func (c *Capture) Dispatch(command string) {
	c.mu.Lock()
	c.last = command
	c.mu.Unlock()
	if c.next != nil {
		c.next.Dispatch(command)
	}
}

// Take returns and clears the last recorded command.
func (c *Capture) Take() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	cmd := c.last
	c.last = ""
	return cmd
}
