package sensor

// Type classifies a sensor and the readings it produces.
type Type uint8

// Known sensor types.
const (
	TypeTemperature Type = iota
	TypeHumidity
	TypeMotion
)

// String returns the canonical name for a sensor type.
func (t Type) String() string {
	switch t {
	case TypeTemperature:
		return "temperature"
	case TypeHumidity:
		return "humidity"
	case TypeMotion:
		return "motion"
	}
	return "unknown"
}

// ParseType resolves a type name back to its Type value.
// The second return value reports whether the name was recognised.
func ParseType(name string) (Type, bool) {
	switch name {
	case "temperature":
		return TypeTemperature, true
	case "humidity":
		return TypeHumidity, true
	case "motion":
		return TypeMotion, true
	}
	return 0, false
}

// Reading is a timestamped measurement flowing through the pipeline.
//
// RawValue holds the unprocessed driver output; ProcessedValue starts as the
// calibrated value and is rewritten by each pipeline stage. Valid is cleared
// by the validator stage when the value falls outside the configured bounds;
// downstream stages pass invalid readings through unchanged.
//
// Readings are ephemeral values with no identity beyond (SensorName,
// TimestampMS); they are created per cycle and discarded after dispatch.
type Reading struct {
	SensorName     string  `json:"sensor"`
	SensorType     Type    `json:"-"`
	RawValue       float64 `json:"raw"`
	ProcessedValue float64 `json:"value"`
	TimestampMS    int64   `json:"timestamp"`
	Valid          bool    `json:"valid"`
	Unit           string  `json:"unit,omitempty"`
}
