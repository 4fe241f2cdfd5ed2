package transport

import "errors"

var (
	// ErrUnknownProtocol indicates a transport.protocol config value that
	// is not registered.
	ErrUnknownProtocol = errors.New("transport: unknown protocol")

	// ErrNotConnected indicates a send attempt before Connect.
	ErrNotConnected = errors.New("transport: not connected")

	// ErrConnectFailed indicates the protocol could not establish its
	// channel.
	ErrConnectFailed = errors.New("transport: connect failed")

	// ErrSendFailed indicates delivery failed after exhausting retries.
	ErrSendFailed = errors.New("transport: send failed")

	// ErrAlreadyStarted indicates Start was called on a running relay.
	ErrAlreadyStarted = errors.New("transport: relay already started")
)
