package automation

import "errors"

var (
	// ErrAlreadyStarted indicates Start was called on a running engine.
	ErrAlreadyStarted = errors.New("automation: engine already started")

	// ErrUnknownAction indicates a rule action the engine cannot execute.
	ErrUnknownAction = errors.New("automation: unknown rule action")
)
