package telemetry

import "errors"

// ErrAlreadyStarted indicates Start was called on a running recorder.
var ErrAlreadyStarted = errors.New("telemetry: recorder already started")
