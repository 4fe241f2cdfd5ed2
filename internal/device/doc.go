// Package device manages controllable devices, their lifecycle state
// machines, and a reversible command history.
//
// # State Machine
//
// Every device runs the same four-state lifecycle:
//
//	           activate
//	┌────────┐ ───────► ┌────────┐
//	│  Idle  │          │ Active │
//	└────────┘ ◄─────── └────────┘
//	 ▲  ▲  │  deactivate     │ error
//	 │  │  │                 ▼
//	 │  │  │ maintenance ┌───────┐
//	 │  │  └───────────► │ Error │
//	 │  │      reset     └───────┘
//	 │  └────────────────────┘
//	 │ done  ┌─────────────┐
//	 └────── │ Maintenance │ ◄── (from any non-maintenance state)
//	         └─────────────┘
//
// Events a state does not accept are logged and ignored; the state is
// unchanged. Every accepted transition publishes a bus.DeviceEvent on
// the device.state_changed topic.
//
// # Commands
//
// Controller operations run as Commands through an Invoker that keeps
// a bounded history. Each operation carries its fixed inverse
// (activate/deactivate, error/reset, maintenance/done), so UndoLast
// replays the inverse and RedoLast re-executes the original. Executing
// a new command discards the redo stack.
//
// # Usage
//
//	ctrl := device.NewController(eventBus, 100)
//	ctrl.Register("fan-01", "Ceiling Fan")
//
//	ctrl.Activate("fan-01")
//	ctrl.Undo() // fan-01 back to idle
//	ctrl.Redo() // fan-01 active again
package device
