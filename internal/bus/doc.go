// Package bus provides the typed in-process event bus for Homecore.
//
// The bus is the broadcast backbone of the reactive loop: processed sensor
// readings, device state transitions, and automation alerts all flow through
// it as typed events on string topics.
//
// # Key Types
//
//   - Bus: Thread-safe publish/subscribe hub with snapshot dispatch
//   - SensorEvent / DeviceEvent / AlertEvent: Canonical event payloads
//   - SubscriptionID: Handle returned by Subscribe for later removal
//
// # Dispatch Semantics
//
// Publish is synchronous; the caller blocks until every handler registered
// at the moment of dispatch has returned. The subscriber list is copied
// under a short critical section and handlers run outside it, so handlers
// may re-enter the bus (subscribe, unsubscribe, publish other topics)
// without deadlocking. Handlers added during an in-flight publish are not
// part of that publish's fan-out.
//
// # Type Safety
//
// Each topic is bound to one payload type by its first subscriber.
// Publishing or subscribing with a different type returns ErrTypeMismatch
// rather than panicking at dispatch time.
//
// # Usage
//
//	b := bus.New()
//	id, _ := bus.Subscribe(b, bus.TopicSensorReading, func(e bus.SensorEvent) {
//	    fmt.Println(e.SensorName, e.Value)
//	})
//	_ = bus.Publish(b, bus.TopicSensorReading, bus.SensorEvent{SensorName: "t1", Value: 21.5})
//	b.Unsubscribe(bus.TopicSensorReading, id)
package bus
