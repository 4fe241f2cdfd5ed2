// Package mqtt wraps the Eclipse Paho client for the core's telemetry
// transport.
//
// # Features
//
//   - Connection management with automatic reconnect and exponential
//     backoff
//   - Last Will and Testament on homecore/system/status so subscribers
//     can tell a crash from a graceful shutdown
//   - Subscription tracking with automatic restoration on reconnect
//   - Panic recovery around message handlers
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.Transport.MQTT)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	client.Publish("home/sensors/sensor.reading", payload, 1, false)
package mqtt
