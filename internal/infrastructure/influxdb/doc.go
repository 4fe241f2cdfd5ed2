// Package influxdb wraps the InfluxDB v2 client for long-term telemetry
// history.
//
// Writes are non-blocking: points are batched in memory and flushed on
// an interval, so recording a reading never stalls the reactive loop.
// Async write failures surface through the SetOnError callback.
//
// The integration is optional; Connect returns ErrDisabled when turned
// off in config and the rest of the system runs unchanged.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	client.WriteSensorReading("living-room-temp", "temperature", 21.9, 21.5, "°C")
package influxdb
