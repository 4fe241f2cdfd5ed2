package automation

import (
	"fmt"
	"sync"

	"github.com/ashdale-labs/homecore/internal/bus"
	"github.com/ashdale-labs/homecore/internal/device"
	"github.com/ashdale-labs/homecore/internal/sensor"
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

// DeviceController is the slice of the device layer the rule engine
// drives.
type DeviceController interface {
	State(id string) (device.State, error)
	Activate(id string) error
	Deactivate(id string) error
	Reset(id string) error
}

// Service evaluates automation rules against processed sensor readings
// and drives device actions through the controller.
type Service struct {
	mu      sync.Mutex
	rules   []Rule
	ctrl    DeviceController
	bus     *bus.Bus
	subID   bus.SubscriptionID
	started bool
	logger  Logger
}

// NewService creates a rule engine reading from b and acting on ctrl.
func NewService(b *bus.Bus, ctrl DeviceController) *Service {
	return &Service{bus: b, ctrl: ctrl, logger: noopLogger{}}
}

// SetLogger installs a logger. Call before Start.
func (s *Service) SetLogger(l Logger) {
	if l != nil {
		s.logger = l
	}
}

// AddRule appends a rule. Rules evaluate in the order they are added.
func (s *Service) AddRule(r Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, r)
	s.logger.Info("automation rule added",
		"rule", r.Name,
		"sensor_type", r.SensorType.String(),
		"threshold", r.Threshold,
		"action", r.Action,
	)
}

// Rules returns a copy of the registered rules in evaluation order.
func (s *Service) Rules() []Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	rules := make([]Rule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

// RuleCount returns the number of registered rules.
func (s *Service) RuleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rules)
}

// Start subscribes the engine to processed sensor readings.
//
// Returns ErrAlreadyStarted if called twice without Stop.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	id, err := bus.Subscribe(s.bus, bus.TopicSensorReading, s.onReading)
	if err != nil {
		return fmt.Errorf("automation: subscribe: %w", err)
	}
	s.subID = id
	s.started = true

	s.logger.Info("automation engine started", "rules", len(s.rules))
	return nil
}

// Stop unsubscribes the engine. Safe to call when not started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.bus.Unsubscribe(bus.TopicSensorReading, s.subID)
	s.started = false

	s.logger.Info("automation engine stopped")
}

// onReading evaluates every matching rule against the reading. Events
// with an unrecognised sensor type are dropped.
func (s *Service) onReading(e bus.SensorEvent) {
	st, ok := sensor.ParseType(e.SensorType)
	if !ok {
		return
	}

	s.mu.Lock()
	rules := make([]Rule, len(s.rules))
	copy(rules, s.rules)
	s.mu.Unlock()

	for _, r := range rules {
		if r.SensorType != st || !r.triggered(e.Value) {
			continue
		}
		s.fire(r, e)
	}
}

// fire applies a triggered rule's action and raises its alert.
func (s *Service) fire(r Rule, e bus.SensorEvent) {
	s.logger.Info("rule triggered",
		"rule", r.Name,
		"sensor", e.SensorName,
		"value", e.Value,
		"threshold", r.Threshold,
	)

	applied, err := s.executeAction(r)
	if err != nil {
		s.logger.Warn("rule action not applied",
			"rule", r.Name,
			"device", r.TargetDevice,
			"action", r.Action,
			"error", err,
		)
		return
	}
	if !applied {
		return
	}

	if r.AlertSeverity > 0 {
		alert := bus.AlertEvent{
			Source:   r.Name,
			Message:  r.AlertMessage,
			Severity: r.AlertSeverity,
		}
		if err := bus.Publish(s.bus, bus.TopicAlert, alert); err != nil {
			s.logger.Error("failed to publish alert",
				"rule", r.Name,
				"error", err,
			)
		}
	}
}

// executeAction drives the device, guarding against redundant
// transitions: activate only fires on idle devices, deactivate only on
// active ones. It reports whether the action was actually applied so
// the caller can suppress the alert when the guard holds.
func (s *Service) executeAction(r Rule) (bool, error) {
	state, err := s.ctrl.State(r.TargetDevice)
	if err != nil {
		return false, err
	}

	switch r.Action {
	case "activate":
		if state != device.StateIdle {
			return false, nil
		}
		return true, s.ctrl.Activate(r.TargetDevice)
	case "deactivate":
		if state != device.StateActive {
			return false, nil
		}
		return true, s.ctrl.Deactivate(r.TargetDevice)
	case "reset":
		if state != device.StateError {
			return false, nil
		}
		return true, s.ctrl.Reset(r.TargetDevice)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, r.Action)
	}
}
