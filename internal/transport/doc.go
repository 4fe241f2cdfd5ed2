// Package transport ships processed readings off the box.
//
// # Layout
//
//	bus -> Relay -> Adapter -> Protocol (mqtt | http)
//
// Relay holds the single subscription to sensor.reading and serialises
// each event to JSON. Adapter namespaces the topic under the configured
// site prefix and wraps the payload in a {"timestamp", "data"} envelope.
// The concrete Protocol then delivers it: MQTT publishes through the
// infrastructure client with its reconnect handling, HTTP posts to a
// collector endpoint with exponential-backoff retries.
//
// Delivery failures never propagate back into the reactive loop; the
// relay logs and drops.
package transport
