package bus

// Canonical topics used by the core reactive loop.
const (
	// TopicSensorReading carries SensorEvent payloads for processed readings.
	TopicSensorReading = "sensor.reading"

	// TopicDeviceState carries DeviceEvent payloads for state transitions.
	TopicDeviceState = "device.state_changed"

	// TopicAlert carries AlertEvent payloads raised by automation rules.
	TopicAlert = "alert"
)

// Alert severity levels.
const (
	SeverityLow    = 1
	SeverityMedium = 2
	SeverityHigh   = 3
)

// SensorEvent is the bus payload derived from a valid processed reading.
type SensorEvent struct {
	SensorName  string  `json:"sensor"`
	SensorType  string  `json:"type"`
	RawValue    float64 `json:"raw"`
	Value       float64 `json:"value"`
	Valid       bool    `json:"valid"`
	TimestampMS int64   `json:"timestamp"`
	Unit        string  `json:"unit,omitempty"`
}

// DeviceEvent is emitted on every device state transition.
type DeviceEvent struct {
	DeviceID      string `json:"device_id"`
	Action        string `json:"action"`
	PreviousState string `json:"previous_state"`
	NewState      string `json:"new_state"`
}

// AlertEvent is emitted when a rule with a non-zero severity triggers.
type AlertEvent struct {
	Source   string `json:"source"`
	Message  string `json:"message"`
	Severity int    `json:"severity"`
}
