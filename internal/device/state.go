package device

import (
	"sync"

	"github.com/ashdale-labs/homecore/internal/bus"
)

// State is a device lifecycle state.
type State uint8

const (
	StateIdle State = iota
	StateActive
	StateError
	StateMaintenance
)

// String returns the canonical lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateError:
		return "error"
	case StateMaintenance:
		return "maintenance"
	default:
		return "unknown"
	}
}

// Lifecycle events accepted by the state machine.
const (
	EventActivate    = "activate"
	EventDeactivate  = "deactivate"
	EventError       = "error"
	EventReset       = "reset"
	EventMaintenance = "maintenance"
	EventDone        = "done"
)

// transitions maps current state and event to the next state. Events
// absent for a state are rejected without changing it.
var transitions = map[State]map[string]State{
	StateIdle: {
		EventActivate:    StateActive,
		EventMaintenance: StateMaintenance,
	},
	StateActive: {
		EventDeactivate:  StateIdle,
		EventError:       StateError,
		EventMaintenance: StateMaintenance,
	},
	StateError: {
		EventReset:       StateIdle,
		EventMaintenance: StateMaintenance,
	},
	StateMaintenance: {
		EventDone: StateIdle,
	},
}

// Machine is the per-device state machine. All devices start Idle.
// Transitions publish a bus.DeviceEvent and are atomic with respect to
// concurrent State reads.
type Machine struct {
	mu       sync.Mutex
	deviceID string
	state    State
	bus      *bus.Bus
	logger   Logger
	onExit   func(State)
	onEnter  func(State)
}

// NewMachine creates a state machine for the device, initially Idle.
func NewMachine(deviceID string, b *bus.Bus) *Machine {
	return &Machine{
		deviceID: deviceID,
		state:    StateIdle,
		bus:      b,
		logger:   noopLogger{},
	}
}

// SetLogger installs a logger. Call before the machine is shared.
func (m *Machine) SetLogger(l Logger) {
	if l != nil {
		m.logger = l
	}
}

// SetHooks installs optional enter/exit callbacks. On an accepted
// transition exit runs for the old state, then enter for the new one,
// before the DeviceEvent is published. Call before the machine is
// shared; hooks run outside the machine's lock.
func (m *Machine) SetHooks(onExit, onEnter func(State)) {
	m.onExit = onExit
	m.onEnter = onEnter
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// HandleEvent applies a lifecycle event. Unhandled events leave the
// state unchanged and return false.
func (m *Machine) HandleEvent(event string) bool {
	m.mu.Lock()
	next, ok := transitions[m.state][event]
	if !ok {
		current := m.state
		m.mu.Unlock()
		m.logger.Warn("event not handled in current state",
			"device", m.deviceID,
			"event", event,
			"state", current.String(),
		)
		return false
	}

	previous := m.state
	m.state = next
	m.mu.Unlock()

	if m.onExit != nil {
		m.onExit(previous)
	}
	if m.onEnter != nil {
		m.onEnter(next)
	}

	m.logger.Info("device state changed",
		"device", m.deviceID,
		"event", event,
		"from", previous.String(),
		"to", next.String(),
	)

	if m.bus != nil {
		ev := bus.DeviceEvent{
			DeviceID:      m.deviceID,
			Action:        "state_change",
			PreviousState: previous.String(),
			NewState:      next.String(),
		}
		if err := bus.Publish(m.bus, bus.TopicDeviceState, ev); err != nil {
			m.logger.Error("failed to publish state change",
				"device", m.deviceID,
				"error", err,
			)
		}
	}

	return true
}
