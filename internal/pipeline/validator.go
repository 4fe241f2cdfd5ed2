package pipeline

import "github.com/ashdale-labs/homecore/internal/sensor"

// Validator marks readings outside [min, max] as invalid. Readings that
// arrive already invalid are rejected without touching the rest of the
// chain.
type Validator struct {
	chain
	min    float64
	max    float64
	logger Logger
}

// NewValidator creates a range validator stage.
func NewValidator(min, max float64) *Validator {
	return &Validator{min: min, max: max, logger: noopLogger{}}
}

// SetLogger installs a logger for rejection diagnostics.
func (v *Validator) SetLogger(l Logger) {
	if l != nil {
		v.logger = l
	}
}

func (v *Validator) Name() string { return "validator" }

func (v *Validator) Handle(r sensor.Reading) sensor.Reading {
	if !r.Valid {
		v.logger.Debug("dropping reading flagged invalid upstream",
			"sensor", r.SensorName,
		)
		return r
	}

	if r.ProcessedValue < v.min || r.ProcessedValue > v.max {
		v.logger.Warn("reading out of valid range",
			"sensor", r.SensorName,
			"value", r.ProcessedValue,
			"min", v.min,
			"max", v.max,
		)
		r.Valid = false
	}

	return v.forward(r)
}
