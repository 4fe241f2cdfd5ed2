package telemetry

import (
	"errors"
	"testing"

	"github.com/ashdale-labs/homecore/internal/bus"
)

// mockWriter records writes for assertions.
type mockWriter struct {
	readings    []string
	transitions []string
	alerts      []string
}

func (m *mockWriter) WriteSensorReading(name, _ string, _, _ float64, _ string) {
	m.readings = append(m.readings, name)
}

func (m *mockWriter) WriteDeviceTransition(deviceID, _, _ string) {
	m.transitions = append(m.transitions, deviceID)
}

func (m *mockWriter) WriteAlert(source string, _ int) {
	m.alerts = append(m.alerts, source)
}

func TestRecorder_MirrorsAllTopics(t *testing.T) {
	b := bus.New()
	w := &mockWriter{}
	rec := NewRecorder(b, w)

	if err := rec.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer rec.Stop()

	if err := bus.Publish(b, bus.TopicSensorReading, bus.SensorEvent{SensorName: "temp-1"}); err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(b, bus.TopicDeviceState, bus.DeviceEvent{DeviceID: "fan-01"}); err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(b, bus.TopicAlert, bus.AlertEvent{Source: "high-temp"}); err != nil {
		t.Fatal(err)
	}

	if len(w.readings) != 1 || w.readings[0] != "temp-1" {
		t.Errorf("readings = %v", w.readings)
	}
	if len(w.transitions) != 1 || w.transitions[0] != "fan-01" {
		t.Errorf("transitions = %v", w.transitions)
	}
	if len(w.alerts) != 1 || w.alerts[0] != "high-temp" {
		t.Errorf("alerts = %v", w.alerts)
	}
}

func TestRecorder_StartTwice(t *testing.T) {
	rec := NewRecorder(bus.New(), &mockWriter{})
	if err := rec.Start(); err != nil {
		t.Fatal(err)
	}
	defer rec.Stop()

	if err := rec.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestRecorder_StopUnsubscribes(t *testing.T) {
	b := bus.New()
	w := &mockWriter{}
	rec := NewRecorder(b, w)

	if err := rec.Start(); err != nil {
		t.Fatal(err)
	}
	rec.Stop()

	if err := bus.Publish(b, bus.TopicSensorReading, bus.SensorEvent{SensorName: "temp-1"}); err != nil {
		t.Fatal(err)
	}
	if len(w.readings) != 0 {
		t.Errorf("stopped recorder still wrote: %v", w.readings)
	}
}
