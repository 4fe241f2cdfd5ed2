package pipeline

import (
	"fmt"
	"sync"

	"github.com/ashdale-labs/homecore/internal/sensor"
)

// Strategy computes a smoothed value from the current window and the
// incoming value. The window holds previously accepted values, oldest
// first, and never includes the incoming value.
type Strategy func(window []float64, value float64) float64

// StrategyNone passes values through unchanged.
func StrategyNone(_ []float64, value float64) float64 {
	return value
}

// StrategyMovingAverage averages the window together with the incoming
// value.
func StrategyMovingAverage(window []float64, value float64) float64 {
	sum := value
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window)+1)
}

// emaAlpha weights the incoming value in the exponential moving average.
const emaAlpha = 0.3

// StrategyExponential blends the incoming value with the most recent
// window value. An empty window yields the value unchanged.
func StrategyExponential(window []float64, value float64) float64 {
	if len(window) == 0 {
		return value
	}
	last := window[len(window)-1]
	return emaAlpha*value + (1-emaAlpha)*last
}

// thresholdMaxDelta is the largest step the threshold strategy accepts.
const thresholdMaxDelta = 5.0

// StrategyThreshold suppresses sudden jumps: if the incoming value
// differs from the most recent window value by more than the delta
// cap, the previous value is held instead.
func StrategyThreshold(window []float64, value float64) float64 {
	if len(window) == 0 {
		return value
	}
	last := window[len(window)-1]
	delta := value - last
	if delta < 0 {
		delta = -delta
	}
	if delta > thresholdMaxDelta {
		return last
	}
	return value
}

// ParseStrategy resolves a configured strategy name.
//
// Returns ErrUnknownStrategy for unrecognised names.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "none", "":
		return StrategyNone, nil
	case "moving_average":
		return StrategyMovingAverage, nil
	case "exponential":
		return StrategyExponential, nil
	case "threshold":
		return StrategyThreshold, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Filter smooths readings with a pluggable strategy over a sliding
// window. The window is shared across all sensors feeding the chain,
// so mixed-type deployments should run one pipeline per sensor group.
type Filter struct {
	chain
	mu         sync.Mutex
	strategy   Strategy
	window     []float64
	windowSize int
}

// NewFilter creates a filter stage with the given strategy and window
// depth. A non-positive windowSize falls back to 1.
func NewFilter(strategy Strategy, windowSize int) *Filter {
	if strategy == nil {
		strategy = StrategyNone
	}
	if windowSize < 1 {
		windowSize = 1
	}
	return &Filter{strategy: strategy, windowSize: windowSize}
}

// SetStrategy swaps the smoothing strategy at runtime. The window is
// retained.
func (f *Filter) SetStrategy(strategy Strategy) {
	if strategy == nil {
		return
	}
	f.mu.Lock()
	f.strategy = strategy
	f.mu.Unlock()
}

func (f *Filter) Name() string { return "filter" }

func (f *Filter) Handle(r sensor.Reading) sensor.Reading {
	if !r.Valid {
		return f.forward(r)
	}

	f.mu.Lock()
	incoming := r.ProcessedValue
	r.ProcessedValue = f.strategy(f.window, incoming)

	f.window = append(f.window, incoming)
	if len(f.window) > f.windowSize {
		f.window = f.window[len(f.window)-f.windowSize:]
	}
	f.mu.Unlock()

	return f.forward(r)
}

// WindowLen reports the number of values currently held in the window.
func (f *Filter) WindowLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.window)
}
