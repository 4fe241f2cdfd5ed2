package sensor

import (
	"context"
	"sync"
	"time"

	"github.com/ashdale-labs/homecore/internal/bus"
)

// Logger is the minimal logging interface the service needs.
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

// Pipeline processes a raw reading into its published form.
type Pipeline interface {
	Process(Reading) Reading
}

// Service drives the registered sensors on a fixed interval: each cycle
// reads every sensor, runs the reading through the pipeline, and
// publishes valid results on the event bus.
type Service struct {
	mu       sync.Mutex
	sensors  []Sensor
	pipeline Pipeline
	bus      *bus.Bus
	interval time.Duration
	// maxCycles bounds the read loop for demos and tests; 0 means run
	// until the context is cancelled.
	maxCycles int
	running   bool
	logger    Logger
}

// NewService creates a sensor service publishing on b.
func NewService(p Pipeline, b *bus.Bus, interval time.Duration, maxCycles int) *Service {
	if interval <= 0 {
		interval = time.Second
	}
	return &Service{
		pipeline:  p,
		bus:       b,
		interval:  interval,
		maxCycles: maxCycles,
		logger:    noopLogger{},
	}
}

// SetLogger installs a logger. Safe to call before Run only.
func (s *Service) SetLogger(l Logger) {
	if l != nil {
		s.logger = l
	}
}

// AddSensor registers a sensor with the service.
func (s *Service) AddSensor(sensor Sensor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensors = append(s.sensors, sensor)
	s.logger.Info("sensor registered",
		"name", sensor.Name(),
		"type", sensor.Type().String(),
	)
}

// SensorCount returns the number of registered sensors.
func (s *Service) SensorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sensors)
}

// ReadAll performs one read cycle across all registered sensors.
func (s *Service) ReadAll() {
	s.mu.Lock()
	sensors := make([]Sensor, len(s.sensors))
	copy(sensors, s.sensors)
	s.mu.Unlock()

	for _, sensor := range sensors {
		s.readOne(sensor)
	}
}

func (s *Service) readOne(sensor Sensor) {
	reading := sensor.Read()
	if s.pipeline != nil {
		reading = s.pipeline.Process(reading)
	}

	if !reading.Valid {
		s.logger.Debug("reading rejected",
			"sensor", reading.SensorName,
			"raw", reading.RawValue,
		)
		return
	}

	event := bus.SensorEvent{
		SensorName:  reading.SensorName,
		SensorType:  reading.SensorType.String(),
		RawValue:    reading.RawValue,
		Value:       reading.ProcessedValue,
		Valid:       reading.Valid,
		TimestampMS: reading.TimestampMS,
		Unit:        reading.Unit,
	}
	if err := bus.Publish(s.bus, bus.TopicSensorReading, event); err != nil {
		s.logger.Error("failed to publish reading",
			"sensor", reading.SensorName,
			"error", err,
		)
	}
}

// Run executes the read loop until ctx is cancelled or, when maxCycles
// is positive, that many cycles have completed.
//
// Returns ErrAlreadyRunning if called while a loop is active.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.logger.Info("sensor service started",
		"interval", s.interval.String(),
		"sensors", s.SensorCount(),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	cycles := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sensor service stopped", "cycles", cycles)
			return ctx.Err()
		case <-ticker.C:
			s.ReadAll()
			cycles++
			if s.maxCycles > 0 && cycles >= s.maxCycles {
				s.logger.Info("sensor service completed", "cycles", cycles)
				return nil
			}
		}
	}
}
