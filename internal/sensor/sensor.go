package sensor

import (
	"math/rand/v2"
	"time"
)

// Sensor produces Readings on demand. Implementations simulate hardware
// drivers: a raw value generator, a calibration step, and a driver-level
// validity check, in that order.
type Sensor interface {
	// Name returns the sensor's unique name.
	Name() string

	// Type returns the sensor's type classification.
	Type() Type

	// Read produces a single timestamped reading.
	Read() Reading

	// Calibrate sets the calibration offset applied to raw values.
	Calibrate(offset float64)
}

// Simulation defaults, matching typical DHT22/PIR hardware envelopes.
const (
	defaultMinTemp  = -40.0
	defaultMaxTemp  = 85.0
	defaultMinHum   = 0.0
	defaultMaxHum   = 100.0
	defaultPIRLevel = 0.8
)

// nowMS returns the current wall time in Unix milliseconds.
func nowMS() int64 {
	return time.Now().UnixMilli()
}

// Temperature is a simulated temperature sensor with gradual drift.
type Temperature struct {
	name   string
	pin    int
	min    float64
	max    float64
	offset float64
	last   float64
	rng    *rand.Rand
}

// NewTemperature creates a simulated temperature sensor on the given pin.
func NewTemperature(name string, pin int) *Temperature {
	return &Temperature{
		name: name,
		pin:  pin,
		min:  defaultMinTemp,
		max:  defaultMaxTemp,
		last: 22.0,
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (s *Temperature) Name() string { return s.name }

func (s *Temperature) Type() Type { return TypeTemperature }

func (s *Temperature) Calibrate(offset float64) { s.offset = offset }

// Read simulates gradual temperature drift, clamped to the sensor range.
func (s *Temperature) Read() Reading {
	drift := s.rng.Float64() - 0.5 // ±0.5 °C per cycle
	s.last += drift
	if s.last < s.min {
		s.last = s.min + 1.0
	}
	if s.last > s.max {
		s.last = s.max - 1.0
	}

	raw := s.last
	// Factory calibration with a sensor-specific gain factor.
	processed := raw + s.offset*0.95

	return Reading{
		SensorName:     s.name,
		SensorType:     TypeTemperature,
		RawValue:       raw,
		ProcessedValue: processed,
		TimestampMS:    nowMS(),
		Valid:          processed >= s.min && processed <= s.max,
		Unit:           "°C",
	}
}

// Humidity is a simulated relative-humidity sensor.
type Humidity struct {
	name   string
	pin    int
	min    float64
	max    float64
	offset float64
	last   float64
	rng    *rand.Rand
}

// NewHumidity creates a simulated humidity sensor on the given pin.
func NewHumidity(name string, pin int) *Humidity {
	return &Humidity{
		name: name,
		pin:  pin,
		min:  defaultMinHum,
		max:  defaultMaxHum,
		last: 55.0,
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (s *Humidity) Name() string { return s.name }

func (s *Humidity) Type() Type { return TypeHumidity }

func (s *Humidity) Calibrate(offset float64) { s.offset = offset }

// Read simulates humidity drift, clamped to [0, 100] %RH.
func (s *Humidity) Read() Reading {
	drift := (s.rng.Float64() - 0.5) * 2.0 // ±1.0 %RH per cycle
	s.last += drift
	if s.last < s.min {
		s.last = s.min + 2.0
	}
	if s.last > s.max {
		s.last = s.max - 2.0
	}

	raw := s.last
	processed := raw + s.offset

	return Reading{
		SensorName:     s.name,
		SensorType:     TypeHumidity,
		RawValue:       raw,
		ProcessedValue: processed,
		TimestampMS:    nowMS(),
		Valid:          processed >= s.min && processed <= s.max,
		Unit:           "%RH",
	}
}

// Motion is a simulated PIR motion sensor. Readings are 0.0 (no motion)
// or 1.0 (motion detected), with configurable trigger probability.
type Motion struct {
	name        string
	pin         int
	sensitivity float64
	offset      float64
	rng         *rand.Rand
}

// NewMotion creates a simulated motion sensor on the given pin.
func NewMotion(name string, pin int) *Motion {
	return &Motion{
		name:        name,
		pin:         pin,
		sensitivity: defaultPIRLevel,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (s *Motion) Name() string { return s.name }

func (s *Motion) Type() Type { return TypeMotion }

func (s *Motion) Calibrate(offset float64) { s.offset = offset }

// SetSensitivity adjusts the trigger probability threshold.
func (s *Motion) SetSensitivity(level float64) { s.sensitivity = level }

// Read simulates a random chance of motion detection.
func (s *Motion) Read() Reading {
	raw := 0.0
	if s.rng.Float64() > s.sensitivity {
		raw = 1.0
	}

	return Reading{
		SensorName:     s.name,
		SensorType:     TypeMotion,
		RawValue:       raw,
		ProcessedValue: raw,
		TimestampMS:    nowMS(),
		Valid:          raw == 0.0 || raw == 1.0,
		Unit:           "bool",
	}
}
