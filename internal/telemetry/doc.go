// Package telemetry mirrors bus events into the time-series store.
//
// The Recorder subscribes to the sensor.reading, device.state_changed
// and alert topics and forwards each event to a Writer, normally the
// InfluxDB client. The integration is optional: when InfluxDB is
// disabled the recorder is simply never started.
package telemetry
