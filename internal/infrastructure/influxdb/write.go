package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSensorReading records a processed sensor reading.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - sensorName: Unique sensor name (e.g., "living-room-temp")
//   - sensorType: Type classification ("temperature", "humidity", "motion")
//   - raw: The uncalibrated driver value
//   - value: The pipeline-processed value
//   - unit: Measurement unit (e.g., "°C")
func (c *Client) WriteSensorReading(sensorName, sensorType string, raw, value float64, unit string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sensor_readings",
		map[string]string{
			"sensor": sensorName,
			"type":   sensorType,
			"unit":   unit,
		},
		map[string]interface{}{
			"raw":   raw,
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDeviceTransition records a device state change.
//
// Parameters:
//   - deviceID: Device identifier (e.g., "fan-01")
//   - from: State name before the transition
//   - to: State name after the transition
func (c *Client) WriteDeviceTransition(deviceID, from, to string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_transitions",
		map[string]string{
			"device_id": deviceID,
			"from":      from,
			"to":        to,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteAlert records a raised automation alert.
//
// Parameters:
//   - source: The rule name that raised the alert
//   - severity: Alert severity (1=low, 2=medium, 3=high)
func (c *Client) WriteAlert(source string, severity int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"alerts",
		map[string]string{
			"source": source,
		},
		map[string]interface{}{
			"severity": severity,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
