package pipeline

import "github.com/ashdale-labs/homecore/internal/sensor"

// TransformFunc converts a processed value, for unit conversion or
// linear scaling.
type TransformFunc func(value float64) float64

// Transformer applies a per-sensor-type conversion to valid readings.
// Types without a registered transform pass through unchanged.
type Transformer struct {
	chain
	transforms map[sensor.Type]TransformFunc
}

// NewTransformer creates an empty transformer stage.
func NewTransformer() *Transformer {
	return &Transformer{transforms: make(map[sensor.Type]TransformFunc)}
}

// SetTransform registers or replaces the conversion for a sensor type.
func (t *Transformer) SetTransform(st sensor.Type, fn TransformFunc) {
	if fn == nil {
		delete(t.transforms, st)
		return
	}
	t.transforms[st] = fn
}

// Linear builds a value*scale+offset conversion.
func Linear(scale, offset float64) TransformFunc {
	return func(value float64) float64 {
		return value*scale + offset
	}
}

func (t *Transformer) Name() string { return "transformer" }

func (t *Transformer) Handle(r sensor.Reading) sensor.Reading {
	if r.Valid {
		if fn, ok := t.transforms[r.SensorType]; ok {
			r.ProcessedValue = fn(r.ProcessedValue)
		}
	}
	return t.forward(r)
}
