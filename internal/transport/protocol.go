package transport

import "context"

// MessageHandler receives inbound messages from a protocol.
type MessageHandler func(topic string, payload []byte)

// Protocol is a pluggable outbound channel for telemetry. Implementations
// wrap a concrete wire protocol behind a uniform send interface.
type Protocol interface {
	// Connect establishes the underlying connection.
	Connect(ctx context.Context) error

	// Close tears the connection down.
	Close() error

	// IsConnected reports whether the channel is usable.
	IsConnected() bool

	// Send delivers a payload for the given topic.
	Send(topic string, payload []byte) error

	// SetMessageHandler installs a handler for inbound messages, on
	// protocols that support them. Call before Connect.
	SetMessageHandler(h MessageHandler)

	// Name identifies the protocol for diagnostics.
	Name() string
}

// Logger is the minimal logging interface the transport layer needs.
// Satisfied by *logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
