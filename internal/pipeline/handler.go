package pipeline

import "github.com/ashdale-labs/homecore/internal/sensor"

// Handler is a single stage in the processing chain. Each stage does
// its own work on the reading and passes the result to the next stage.
type Handler interface {
	// SetNext links the following stage. Returns next so calls chain.
	SetNext(next Handler) Handler

	// Handle processes a reading and returns the fully-processed result
	// from the remainder of the chain.
	Handle(r sensor.Reading) sensor.Reading

	// Name identifies the stage for diagnostics.
	Name() string
}

// chain holds the link to the next stage. Embed it to inherit the
// standard forwarding behaviour.
type chain struct {
	next Handler
}

func (c *chain) SetNext(next Handler) Handler {
	c.next = next
	return next
}

// forward passes the reading on, or returns it as-is at the end of the
// chain.
func (c *chain) forward(r sensor.Reading) sensor.Reading {
	if c.next == nil {
		return r
	}
	return c.next.Handle(r)
}
