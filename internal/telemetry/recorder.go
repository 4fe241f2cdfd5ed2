package telemetry

import (
	"fmt"

	"github.com/ashdale-labs/homecore/internal/bus"
)

// Writer is the sink the recorder feeds. Satisfied by *influxdb.Client.
type Writer interface {
	WriteSensorReading(sensorName, sensorType string, raw, value float64, unit string)
	WriteDeviceTransition(deviceID, from, to string)
	WriteAlert(source string, severity int)
}

// Logger is the minimal logging interface the recorder needs.
// Satisfied by *logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder mirrors core bus events into the telemetry sink. Writes are
// fire-and-forget; the sink batches internally.
type Recorder struct {
	bus     *bus.Bus
	writer  Writer
	started bool
	logger  Logger

	readingSub bus.SubscriptionID
	stateSub   bus.SubscriptionID
	alertSub   bus.SubscriptionID
}

// NewRecorder creates a recorder between the bus and the sink.
func NewRecorder(b *bus.Bus, w Writer) *Recorder {
	return &Recorder{bus: b, writer: w, logger: noopLogger{}}
}

// SetLogger installs a logger. Call before Start.
func (r *Recorder) SetLogger(l Logger) {
	if l != nil {
		r.logger = l
	}
}

// Start subscribes the recorder to the reading, state and alert topics.
func (r *Recorder) Start() error {
	if r.started {
		return ErrAlreadyStarted
	}

	readingSub, err := bus.Subscribe(r.bus, bus.TopicSensorReading, r.onReading)
	if err != nil {
		return fmt.Errorf("telemetry: subscribe readings: %w", err)
	}

	stateSub, err := bus.Subscribe(r.bus, bus.TopicDeviceState, r.onDeviceState)
	if err != nil {
		r.bus.Unsubscribe(bus.TopicSensorReading, readingSub)
		return fmt.Errorf("telemetry: subscribe device states: %w", err)
	}

	alertSub, err := bus.Subscribe(r.bus, bus.TopicAlert, r.onAlert)
	if err != nil {
		r.bus.Unsubscribe(bus.TopicSensorReading, readingSub)
		r.bus.Unsubscribe(bus.TopicDeviceState, stateSub)
		return fmt.Errorf("telemetry: subscribe alerts: %w", err)
	}

	r.readingSub = readingSub
	r.stateSub = stateSub
	r.alertSub = alertSub
	r.started = true

	r.logger.Info("telemetry recorder started")
	return nil
}

// Stop unsubscribes the recorder. Safe to call when not started.
func (r *Recorder) Stop() {
	if !r.started {
		return
	}
	r.bus.Unsubscribe(bus.TopicSensorReading, r.readingSub)
	r.bus.Unsubscribe(bus.TopicDeviceState, r.stateSub)
	r.bus.Unsubscribe(bus.TopicAlert, r.alertSub)
	r.started = false

	r.logger.Info("telemetry recorder stopped")
}

func (r *Recorder) onReading(e bus.SensorEvent) {
	r.writer.WriteSensorReading(e.SensorName, e.SensorType, e.RawValue, e.Value, e.Unit)
}

func (r *Recorder) onDeviceState(e bus.DeviceEvent) {
	r.writer.WriteDeviceTransition(e.DeviceID, e.PreviousState, e.NewState)
}

func (r *Recorder) onAlert(e bus.AlertEvent) {
	r.writer.WriteAlert(e.Source, e.Severity)
}
