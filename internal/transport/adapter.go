package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Adapter decorates a Protocol, namespacing topics under a site prefix
// and wrapping payloads in a timestamped envelope:
//
//	{"timestamp": 1700000000000, "data": <payload>}
type Adapter struct {
	inner  Protocol
	prefix string
}

// NewAdapter wraps a protocol with topic prefixing and payload
// enveloping.
func NewAdapter(inner Protocol, prefix string) *Adapter {
	return &Adapter{inner: inner, prefix: prefix}
}

func (a *Adapter) Name() string { return a.inner.Name() + "+adapter" }

func (a *Adapter) Connect(ctx context.Context) error { return a.inner.Connect(ctx) }

func (a *Adapter) Close() error { return a.inner.Close() }

func (a *Adapter) IsConnected() bool { return a.inner.IsConnected() }

func (a *Adapter) SetMessageHandler(h MessageHandler) { a.inner.SetMessageHandler(h) }

// envelope is the outbound wire wrapper.
type envelope struct {
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Send prefixes the topic and wraps the payload before delegating.
func (a *Adapter) Send(topic string, payload []byte) error {
	wrapped, err := json.Marshal(envelope{
		Timestamp: time.Now().UnixMilli(),
		Data:      json.RawMessage(payload),
	})
	if err != nil {
		return fmt.Errorf("transport: envelope: %w", err)
	}

	full := topic
	if a.prefix != "" {
		full = a.prefix + "/" + topic
	}
	return a.inner.Send(full, wrapped)
}
