package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ashdale-labs/homecore/internal/bus"
)

// Relay forwards processed sensor readings from the event bus to the
// outbound protocol.
type Relay struct {
	bus      *bus.Bus
	protocol Protocol
	subID    bus.SubscriptionID
	started  bool
	logger   Logger
}

// NewRelay creates a relay between the bus and the protocol.
func NewRelay(b *bus.Bus, p Protocol) *Relay {
	return &Relay{bus: b, protocol: p, logger: noopLogger{}}
}

// SetLogger installs a logger. Call before Start.
func (r *Relay) SetLogger(l Logger) {
	if l != nil {
		r.logger = l
	}
}

// Start connects the protocol and subscribes to sensor readings.
func (r *Relay) Start(ctx context.Context) error {
	if r.started {
		return ErrAlreadyStarted
	}

	if err := r.protocol.Connect(ctx); err != nil {
		return fmt.Errorf("transport: relay start: %w", err)
	}

	id, err := bus.Subscribe(r.bus, bus.TopicSensorReading, r.onReading)
	if err != nil {
		r.protocol.Close()
		return fmt.Errorf("transport: relay subscribe: %w", err)
	}
	r.subID = id
	r.started = true

	r.logger.Info("transport relay started", "protocol", r.protocol.Name())
	return nil
}

// Stop unsubscribes from the bus and closes the protocol.
func (r *Relay) Stop() error {
	if !r.started {
		return nil
	}
	r.bus.Unsubscribe(bus.TopicSensorReading, r.subID)
	r.started = false

	err := r.protocol.Close()
	r.logger.Info("transport relay stopped")
	return err
}

// onReading serialises a reading event and hands it to the protocol.
// Delivery failures are logged and dropped; the reactive loop must not
// stall on a slow collector.
func (r *Relay) onReading(e bus.SensorEvent) {
	payload, err := json.Marshal(e)
	if err != nil {
		r.logger.Error("failed to encode reading", "sensor", e.SensorName, "error", err)
		return
	}

	if err := r.protocol.Send(bus.TopicSensorReading, payload); err != nil {
		r.logger.Warn("failed to relay reading",
			"sensor", e.SensorName,
			"protocol", r.protocol.Name(),
			"error", err,
		)
	}
}
