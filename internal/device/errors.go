package device

import "errors"

var (
	// ErrDeviceNotFound indicates an operation targeting an unregistered id.
	ErrDeviceNotFound = errors.New("device: device not found")

	// ErrDeviceExists indicates a registration with a duplicate id.
	ErrDeviceExists = errors.New("device: device already registered")

	// ErrInvalidTransition indicates a lifecycle event the current state
	// does not accept.
	ErrInvalidTransition = errors.New("device: invalid state transition")

	// ErrNothingToUndo indicates an undo request with empty history.
	ErrNothingToUndo = errors.New("device: nothing to undo")

	// ErrNothingToRedo indicates a redo request with an empty redo stack.
	ErrNothingToRedo = errors.New("device: nothing to redo")
)
