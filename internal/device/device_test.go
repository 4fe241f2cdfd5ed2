package device

import (
	"errors"
	"testing"

	"github.com/ashdale-labs/homecore/internal/bus"
)

func TestMachine_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		event   string
		want    State
		handled bool
	}{
		{"idle activate", StateIdle, EventActivate, StateActive, true},
		{"idle maintenance", StateIdle, EventMaintenance, StateMaintenance, true},
		{"idle deactivate rejected", StateIdle, EventDeactivate, StateIdle, false},
		{"idle reset rejected", StateIdle, EventReset, StateIdle, false},
		{"active deactivate", StateActive, EventDeactivate, StateIdle, true},
		{"active error", StateActive, EventError, StateError, true},
		{"active maintenance", StateActive, EventMaintenance, StateMaintenance, true},
		{"active activate rejected", StateActive, EventActivate, StateActive, false},
		{"error reset", StateError, EventReset, StateIdle, true},
		{"error maintenance", StateError, EventMaintenance, StateMaintenance, true},
		{"error activate rejected", StateError, EventActivate, StateError, false},
		{"maintenance done", StateMaintenance, EventDone, StateIdle, true},
		{"maintenance activate rejected", StateMaintenance, EventActivate, StateMaintenance, false},
		{"unrecognised event", StateIdle, "explode", StateIdle, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine("dev-1", nil)
			m.state = tt.from

			handled := m.HandleEvent(tt.event)
			if handled != tt.handled {
				t.Errorf("HandleEvent(%q) = %v, want %v", tt.event, handled, tt.handled)
			}
			if m.State() != tt.want {
				t.Errorf("state = %v, want %v", m.State(), tt.want)
			}
		})
	}
}

func TestMachine_InitialStateIdle(t *testing.T) {
	m := NewMachine("dev-1", nil)
	if m.State() != StateIdle {
		t.Errorf("initial state = %v, want idle", m.State())
	}
}

func TestMachine_PublishesStateChange(t *testing.T) {
	b := bus.New()
	var events []bus.DeviceEvent
	if _, err := bus.Subscribe(b, bus.TopicDeviceState, func(e bus.DeviceEvent) {
		events = append(events, e)
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	m := NewMachine("dev-1", b)
	m.HandleEvent(EventActivate)
	m.HandleEvent(EventActivate) // rejected, no event

	if len(events) != 1 {
		t.Fatalf("published events = %d, want 1", len(events))
	}
	e := events[0]
	if e.DeviceID != "dev-1" || e.PreviousState != "idle" || e.NewState != "active" {
		t.Errorf("unexpected event: %+v", e)
	}
	if e.Action != "state_change" {
		t.Errorf("Action = %q, want state_change", e.Action)
	}
}

func TestMachine_HooksRunExitThenEnter(t *testing.T) {
	m := NewMachine("dev-1", nil)

	var calls []string
	m.SetHooks(
		func(s State) { calls = append(calls, "exit:"+s.String()) },
		func(s State) { calls = append(calls, "enter:"+s.String()) },
	)

	m.HandleEvent(EventActivate)
	m.HandleEvent(EventActivate) // rejected, no hook calls

	want := []string{"exit:idle", "enter:active"}
	if len(calls) != len(want) {
		t.Fatalf("hook calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestInvoker_ExecuteRecordsHistory(t *testing.T) {
	inv := NewInvoker(10)

	cmd := NewFuncCommand("noop", nil, nil)
	if err := inv.Execute(cmd); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	history := inv.History()
	if len(history) != 1 {
		t.Fatalf("history len = %d, want 1", len(history))
	}
	if history[0].Command != "noop" {
		t.Errorf("Command = %q, want noop", history[0].Command)
	}
	if history[0].ID == "" {
		t.Error("history entry has no id")
	}
}

func TestInvoker_FailedCommandNotRecorded(t *testing.T) {
	inv := NewInvoker(10)

	boom := errors.New("boom")
	cmd := NewFuncCommand("fail", func() error { return boom }, nil)
	if err := inv.Execute(cmd); !errors.Is(err, boom) {
		t.Fatalf("Execute() error = %v, want boom", err)
	}
	if inv.HistoryLen() != 0 {
		t.Errorf("history len = %d, want 0", inv.HistoryLen())
	}
}

func TestInvoker_HistoryBounded(t *testing.T) {
	inv := NewInvoker(3)

	for i := 0; i < 5; i++ {
		if err := inv.Execute(NewFuncCommand("cmd", nil, nil)); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
	}
	if inv.HistoryLen() != 3 {
		t.Errorf("history len = %d, want 3", inv.HistoryLen())
	}
}

func TestInvoker_UndoEmptyHistory(t *testing.T) {
	inv := NewInvoker(10)
	if err := inv.UndoLast(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("UndoLast() error = %v, want ErrNothingToUndo", err)
	}
}

func TestInvoker_RedoEmptyStack(t *testing.T) {
	inv := NewInvoker(10)
	if err := inv.RedoLast(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("RedoLast() error = %v, want ErrNothingToRedo", err)
	}
}

func TestInvoker_ExecuteClearsRedo(t *testing.T) {
	inv := NewInvoker(10)

	if err := inv.Execute(NewFuncCommand("first", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if err := inv.UndoLast(); err != nil {
		t.Fatal(err)
	}
	if inv.RedoLen() != 1 {
		t.Fatalf("redo len = %d, want 1", inv.RedoLen())
	}

	if err := inv.Execute(NewFuncCommand("second", nil, nil)); err != nil {
		t.Fatal(err)
	}
	if inv.RedoLen() != 0 {
		t.Errorf("redo len after new command = %d, want 0", inv.RedoLen())
	}
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c := NewController(bus.New(), 10)
	if err := c.Register("fan-01", "Ceiling Fan"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return c
}

func TestController_RegisterDuplicate(t *testing.T) {
	c := newTestController(t)
	if err := c.Register("fan-01", "Another Fan"); !errors.Is(err, ErrDeviceExists) {
		t.Errorf("error = %v, want ErrDeviceExists", err)
	}
}

func TestController_RemoveUnknown(t *testing.T) {
	c := newTestController(t)
	if err := c.Remove("ghost"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("error = %v, want ErrDeviceNotFound", err)
	}
}

func TestController_OperationUnknownDevice(t *testing.T) {
	c := newTestController(t)
	if err := c.Activate("ghost"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("error = %v, want ErrDeviceNotFound", err)
	}
}

func TestController_Lifecycle(t *testing.T) {
	c := newTestController(t)

	mustState := func(want State) {
		t.Helper()
		got, err := c.State("fan-01")
		if err != nil {
			t.Fatalf("State() error = %v", err)
		}
		if got != want {
			t.Fatalf("state = %v, want %v", got, want)
		}
	}

	if err := c.Activate("fan-01"); err != nil {
		t.Fatal(err)
	}
	mustState(StateActive)

	if err := c.ReportError("fan-01"); err != nil {
		t.Fatal(err)
	}
	mustState(StateError)

	if err := c.Reset("fan-01"); err != nil {
		t.Fatal(err)
	}
	mustState(StateIdle)

	if err := c.StartMaintenance("fan-01"); err != nil {
		t.Fatal(err)
	}
	mustState(StateMaintenance)

	if err := c.CompleteMaintenance("fan-01"); err != nil {
		t.Fatal(err)
	}
	mustState(StateIdle)
}

func TestController_InvalidTransition(t *testing.T) {
	c := newTestController(t)

	err := c.Deactivate("fan-01") // still idle
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("error = %v, want ErrInvalidTransition", err)
	}
	if len(c.History()) != 0 {
		t.Errorf("rejected command recorded in history")
	}
}

func TestController_UndoRedoRoundTrip(t *testing.T) {
	c := newTestController(t)

	ops := []func(string) error{c.Activate, c.ReportError, c.Reset}
	for _, op := range ops {
		if err := op("fan-01"); err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < len(ops); i++ {
		if err := c.Undo(); err != nil {
			t.Fatalf("Undo %d error = %v", i, err)
		}
	}
	if got, _ := c.State("fan-01"); got != StateIdle {
		t.Fatalf("state after full undo = %v, want idle", got)
	}

	for i := 0; i < len(ops); i++ {
		if err := c.Redo(); err != nil {
			t.Fatalf("Redo %d error = %v", i, err)
		}
	}
	if got, _ := c.State("fan-01"); got != StateIdle {
		t.Errorf("state after full redo = %v, want idle", got)
	}
	if len(c.History()) != len(ops) {
		t.Errorf("history len = %d, want %d", len(c.History()), len(ops))
	}
}

func TestController_Devices(t *testing.T) {
	c := newTestController(t)
	if err := c.Register("alarm-01", "Siren"); err != nil {
		t.Fatal(err)
	}
	if err := c.Activate("fan-01"); err != nil {
		t.Fatal(err)
	}

	devices := c.Devices()
	if len(devices) != 2 {
		t.Fatalf("devices = %d, want 2", len(devices))
	}
	if devices[0].ID != "alarm-01" || devices[1].ID != "fan-01" {
		t.Errorf("unexpected order: %+v", devices)
	}
	if devices[1].State != "active" {
		t.Errorf("fan-01 state = %q, want active", devices[1].State)
	}
}
