// Package pipeline processes sensor readings through an ordered chain
// of handler stages.
//
// # Stages
//
// The standard chain runs validator -> filter -> transformer:
//
//   - Validator marks out-of-range readings invalid. Readings already
//     flagged invalid are returned without reaching later stages.
//   - Filter smooths valid readings with a pluggable Strategy (moving
//     average, exponential, threshold clamp, or none) over a sliding
//     window. Invalid readings bypass the window entirely.
//   - Transformer applies per-sensor-type value conversions, such as
//     linear scale and offset.
//
// Stages link in registration order; Process hands the reading to the
// head of the chain and each stage forwards to the next. An empty
// pipeline returns readings unchanged.
//
// # Usage
//
//	pipe := pipeline.New()
//	pipe.AddHandler(pipeline.NewValidator(0.5, 100))
//	pipe.AddHandler(pipeline.NewFilter(pipeline.StrategyMovingAverage, 5))
//	pipe.AddHandler(pipeline.NewTransformer())
//
//	out := pipe.Process(reading)
package pipeline
