package sensor

import "errors"

var (
	// ErrUnknownSensorType indicates no creator is registered for a type name.
	ErrUnknownSensorType = errors.New("sensor: unknown sensor type")

	// ErrAlreadyRunning indicates the service read loop is already active.
	ErrAlreadyRunning = errors.New("sensor: service already running")
)
