package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/ashdale-labs/homecore/internal/sensor"
)

func reading(value float64) sensor.Reading {
	return sensor.Reading{
		SensorName:     "temp-1",
		SensorType:     sensor.TypeTemperature,
		RawValue:       value,
		ProcessedValue: value,
		TimestampMS:    1000,
		Valid:          true,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestValidator_InRange(t *testing.T) {
	v := NewValidator(0, 100)

	out := v.Handle(reading(50))
	if !out.Valid {
		t.Error("in-range reading marked invalid")
	}
}

func TestValidator_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"below min", -1},
		{"above max", 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(0, 100)
			out := v.Handle(reading(tt.value))
			if out.Valid {
				t.Errorf("value %v passed validation", tt.value)
			}
		})
	}
}

type recordingHandler struct {
	chain
	seen []sensor.Reading
}

func (h *recordingHandler) Name() string { return "recorder" }

func (h *recordingHandler) Handle(r sensor.Reading) sensor.Reading {
	h.seen = append(h.seen, r)
	return h.forward(r)
}

func TestValidator_InvalidSkipsChain(t *testing.T) {
	v := NewValidator(0, 100)
	rec := &recordingHandler{}
	v.SetNext(rec)

	r := reading(50)
	r.Valid = false

	out := v.Handle(r)
	if out.Valid {
		t.Error("invalid reading became valid")
	}
	if len(rec.seen) != 0 {
		t.Errorf("invalid reading reached next stage %d times", len(rec.seen))
	}
}

func TestValidator_OutOfRangeStillForwards(t *testing.T) {
	v := NewValidator(0, 100)
	rec := &recordingHandler{}
	v.SetNext(rec)

	v.Handle(reading(150))
	if len(rec.seen) != 1 {
		t.Fatalf("out-of-range reading forwarded %d times, want 1", len(rec.seen))
	}
	if rec.seen[0].Valid {
		t.Error("forwarded reading still marked valid")
	}
}

func TestStrategyMovingAverage(t *testing.T) {
	tests := []struct {
		name   string
		window []float64
		value  float64
		want   float64
	}{
		{"empty window", nil, 50, 50},
		{"one value", []float64{50}, 52, 51},
		{"full window", []float64{50, 52, 54}, 56, 53},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StrategyMovingAverage(tt.window, tt.value)
			if !almostEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategyExponential(t *testing.T) {
	if got := StrategyExponential(nil, 40); got != 40 {
		t.Errorf("empty window: got %v, want 40", got)
	}

	got := StrategyExponential([]float64{10, 20}, 30)
	want := 0.3*30 + 0.7*20
	if !almostEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStrategyThreshold(t *testing.T) {
	tests := []struct {
		name   string
		window []float64
		value  float64
		want   float64
	}{
		{"empty window", nil, 99, 99},
		{"small step accepted", []float64{20}, 24, 24},
		{"large jump held", []float64{20}, 26, 20},
		{"large drop held", []float64{20}, 14, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StrategyThreshold(tt.window, tt.value)
			if !almostEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"none", "moving_average", "exponential", "threshold"} {
		if _, err := ParseStrategy(name); err != nil {
			t.Errorf("ParseStrategy(%q) error = %v", name, err)
		}
	}

	if _, err := ParseStrategy("kalman"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("error = %v, want ErrUnknownStrategy", err)
	}
}

func TestFilter_InvalidBypassesWindow(t *testing.T) {
	f := NewFilter(StrategyMovingAverage, 3)

	r := reading(50)
	r.Valid = false

	out := f.Handle(r)
	if out.ProcessedValue != 50 {
		t.Errorf("invalid reading altered: %v", out.ProcessedValue)
	}
	if f.WindowLen() != 0 {
		t.Errorf("invalid reading entered window, len = %d", f.WindowLen())
	}
}

func TestFilter_WindowTrimmed(t *testing.T) {
	f := NewFilter(StrategyNone, 3)

	for _, v := range []float64{1, 2, 3, 4, 5} {
		f.Handle(reading(v))
	}
	if f.WindowLen() != 3 {
		t.Errorf("window len = %d, want 3", f.WindowLen())
	}
}

func TestFilter_SetStrategy(t *testing.T) {
	f := NewFilter(StrategyNone, 3)
	f.Handle(reading(10))

	f.SetStrategy(StrategyMovingAverage)
	out := f.Handle(reading(20))
	if !almostEqual(out.ProcessedValue, 15) {
		t.Errorf("after strategy swap got %v, want 15", out.ProcessedValue)
	}
}

func TestTransformer_AppliesByType(t *testing.T) {
	tr := NewTransformer()
	tr.SetTransform(sensor.TypeTemperature, Linear(1.8, 32))

	out := tr.Handle(reading(100))
	if !almostEqual(out.ProcessedValue, 212) {
		t.Errorf("got %v, want 212", out.ProcessedValue)
	}
}

func TestTransformer_UnmappedTypePassesThrough(t *testing.T) {
	tr := NewTransformer()
	tr.SetTransform(sensor.TypeHumidity, Linear(2, 0))

	out := tr.Handle(reading(100))
	if out.ProcessedValue != 100 {
		t.Errorf("got %v, want 100", out.ProcessedValue)
	}
}

func TestTransformer_SkipsInvalid(t *testing.T) {
	tr := NewTransformer()
	tr.SetTransform(sensor.TypeTemperature, Linear(2, 0))

	r := reading(100)
	r.Valid = false

	out := tr.Handle(r)
	if out.ProcessedValue != 100 {
		t.Errorf("invalid reading transformed: %v", out.ProcessedValue)
	}
}

func TestPipeline_EmptyReturnsUnchanged(t *testing.T) {
	p := New()

	in := reading(42)
	out := p.Process(in)
	if out != in {
		t.Errorf("empty pipeline changed reading: %+v", out)
	}
}

func TestPipeline_HandlerNames(t *testing.T) {
	p := New()
	p.AddHandler(NewValidator(0, 100))
	p.AddHandler(NewFilter(StrategyNone, 3))
	p.AddHandler(NewTransformer())

	names := p.HandlerNames()
	want := []string{"validator", "filter", "transformer"}
	if len(names) != len(want) {
		t.Fatalf("HandlerNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("stage %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestPipeline_FullChainSmoothing(t *testing.T) {
	p := New()
	p.AddHandler(NewValidator(0, 100))
	p.AddHandler(NewFilter(StrategyMovingAverage, 3))

	tr := NewTransformer()
	tr.SetTransform(sensor.TypeTemperature, Linear(1, 0))
	p.AddHandler(tr)

	inputs := []float64{50, 52, 54, 56}
	want := []float64{50, 51, 52, 53}

	for i, v := range inputs {
		out := p.Process(reading(v))
		if !out.Valid {
			t.Fatalf("reading %d marked invalid", i)
		}
		if !almostEqual(out.ProcessedValue, want[i]) {
			t.Errorf("reading %d: got %v, want %v", i, out.ProcessedValue, want[i])
		}
	}
}

func TestPipeline_InvalidReadingLeavesWindowUntouched(t *testing.T) {
	p := New()
	p.AddHandler(NewValidator(0, 100))
	f := NewFilter(StrategyMovingAverage, 5)
	p.AddHandler(f)

	p.Process(reading(50))
	p.Process(reading(500)) // out of range, invalidated by validator
	p.Process(reading(52))

	if f.WindowLen() != 2 {
		t.Errorf("window len = %d, want 2", f.WindowLen())
	}
}
