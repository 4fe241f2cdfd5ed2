package device

// Command is a reversible device operation.
type Command interface {
	// Execute performs the operation.
	Execute() error

	// Undo performs the inverse operation.
	Undo() error

	// Name identifies the command for history and diagnostics.
	Name() string
}

// FuncCommand adapts a forward/inverse function pair into a Command.
type FuncCommand struct {
	name    string
	forward func() error
	inverse func() error
}

// NewFuncCommand builds a command from a forward and inverse function.
func NewFuncCommand(name string, forward, inverse func() error) *FuncCommand {
	return &FuncCommand{name: name, forward: forward, inverse: inverse}
}

func (c *FuncCommand) Execute() error {
	if c.forward == nil {
		return nil
	}
	return c.forward()
}

func (c *FuncCommand) Undo() error {
	if c.inverse == nil {
		return nil
	}
	return c.inverse()
}

func (c *FuncCommand) Name() string { return c.name }
