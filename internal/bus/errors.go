package bus

import (
	"errors"
	"fmt"
	"reflect"
)

// Domain errors for the bus package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, bus.ErrTypeMismatch) {
//	    // handle payload type conflict
//	}
var (
	// ErrTypeMismatch is returned when a publish or subscribe uses a payload
	// type that differs from the type the topic is already bound to.
	ErrTypeMismatch = errors.New("bus: payload type mismatch")
)

// wrapTypeMismatch annotates ErrTypeMismatch with the conflicting types.
func wrapTypeMismatch(topic string, bound, got reflect.Type) error {
	return fmt.Errorf("%w: topic %q is bound to %s, got %s", ErrTypeMismatch, topic, bound, got)
}
