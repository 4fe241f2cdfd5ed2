package device

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ashdale-labs/homecore/internal/bus"
)

// Logger is the minimal logging interface the device layer needs.
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

// Info describes a registered device and its current state.
type Info struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// managed pairs a device's identity with its state machine.
type managed struct {
	id      string
	name    string
	machine *Machine
}

// Controller manages registered devices, driving their state machines
// through reversible commands with undo and redo support.
type Controller struct {
	mu      sync.RWMutex
	devices map[string]*managed
	invoker *Invoker
	bus     *bus.Bus
	logger  Logger
}

// NewController creates a controller publishing transitions on b, with
// command history bounded to historyDepth entries.
func NewController(b *bus.Bus, historyDepth int) *Controller {
	return &Controller{
		devices: make(map[string]*managed),
		invoker: NewInvoker(historyDepth),
		bus:     b,
		logger:  noopLogger{},
	}
}

// SetLogger installs a logger for the controller and its invoker.
func (c *Controller) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.logger = l
	c.invoker.SetLogger(l)
}

// Register adds a device under id, starting in the Idle state.
//
// Returns ErrDeviceExists if the id is already registered.
func (c *Controller) Register(id, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.devices[id]; ok {
		return fmt.Errorf("%w: %q", ErrDeviceExists, id)
	}

	m := NewMachine(id, c.bus)
	m.SetLogger(c.logger)
	c.devices[id] = &managed{id: id, name: name, machine: m}

	c.logger.Info("device registered", "device", id, "name", name)
	return nil
}

// Remove deregisters a device.
//
// Returns ErrDeviceNotFound if the id is unknown.
func (c *Controller) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.devices[id]; !ok {
		return fmt.Errorf("%w: %q", ErrDeviceNotFound, id)
	}
	delete(c.devices, id)

	c.logger.Info("device removed", "device", id)
	return nil
}

// lookup returns the managed device for id.
func (c *Controller) lookup(id string) (*managed, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, id)
	}
	return d, nil
}

// inverseEvents maps each lifecycle event to the event that reverses it.
var inverseEvents = map[string]string{
	EventActivate:    EventDeactivate,
	EventDeactivate:  EventActivate,
	EventError:       EventReset,
	EventReset:       EventError,
	EventMaintenance: EventDone,
	EventDone:        EventMaintenance,
}

// dispatch runs a lifecycle event on a device as an undoable command.
func (c *Controller) dispatch(id, event string) error {
	d, err := c.lookup(id)
	if err != nil {
		return err
	}

	inverse := inverseEvents[event]
	cmd := NewFuncCommand(
		fmt.Sprintf("%s:%s", id, event),
		func() error {
			if !d.machine.HandleEvent(event) {
				return fmt.Errorf("%w: device %q cannot %s while %s",
					ErrInvalidTransition, id, event, d.machine.State())
			}
			return nil
		},
		func() error {
			// The machine warns if the inverse is rejected. Undo keeps
			// going so the history stays walkable.
			d.machine.HandleEvent(inverse)
			return nil
		},
	)

	return c.invoker.Execute(cmd)
}

// Activate transitions a device from Idle to Active.
func (c *Controller) Activate(id string) error {
	return c.dispatch(id, EventActivate)
}

// Deactivate transitions a device from Active back to Idle.
func (c *Controller) Deactivate(id string) error {
	return c.dispatch(id, EventDeactivate)
}

// ReportError transitions an Active device into the Error state.
func (c *Controller) ReportError(id string) error {
	return c.dispatch(id, EventError)
}

// Reset clears a device's Error state back to Idle.
func (c *Controller) Reset(id string) error {
	return c.dispatch(id, EventReset)
}

// StartMaintenance places a device into the Maintenance state.
func (c *Controller) StartMaintenance(id string) error {
	return c.dispatch(id, EventMaintenance)
}

// CompleteMaintenance returns a device from Maintenance to Idle.
func (c *Controller) CompleteMaintenance(id string) error {
	return c.dispatch(id, EventDone)
}

// Undo reverses the most recent command.
func (c *Controller) Undo() error {
	return c.invoker.UndoLast()
}

// Redo re-executes the most recently undone command.
func (c *Controller) Redo() error {
	return c.invoker.RedoLast()
}

// State returns a device's current state.
func (c *Controller) State(id string) (State, error) {
	d, err := c.lookup(id)
	if err != nil {
		return StateIdle, err
	}
	return d.machine.State(), nil
}

// Devices lists registered devices sorted by id.
func (c *Controller) Devices() []Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]Info, 0, len(c.devices))
	for _, d := range c.devices {
		infos = append(infos, Info{
			ID:    d.id,
			Name:  d.name,
			State: d.machine.State().String(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// History returns the executed command records, oldest first.
func (c *Controller) History() []HistoryEntry {
	return c.invoker.History()
}
