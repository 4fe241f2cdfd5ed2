package sensor

import (
	"fmt"
	"sync"
)

// Creator builds a Sensor with the given name and pin assignment.
type Creator func(name string, pin int) Sensor

// Factory creates sensors by type name. The built-in simulated drivers
// are registered at construction; callers can register additional
// creators for custom sensor types at runtime.
type Factory struct {
	mu       sync.RWMutex
	creators map[string]Creator
}

// NewFactory returns a factory with the built-in drivers registered.
func NewFactory() *Factory {
	f := &Factory{creators: make(map[string]Creator)}
	f.Register(TypeTemperature.String(), func(name string, pin int) Sensor {
		return NewTemperature(name, pin)
	})
	f.Register(TypeHumidity.String(), func(name string, pin int) Sensor {
		return NewHumidity(name, pin)
	})
	f.Register(TypeMotion.String(), func(name string, pin int) Sensor {
		return NewMotion(name, pin)
	})
	return f
}

// Register adds or replaces the creator for a sensor type name.
func (f *Factory) Register(typeName string, creator Creator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[typeName] = creator
}

// Create builds a sensor of the given type name.
//
// Returns ErrUnknownSensorType if no creator is registered for typeName.
func (f *Factory) Create(typeName, name string, pin int) (Sensor, error) {
	f.mu.RLock()
	creator, ok := f.creators[typeName]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSensorType, typeName)
	}
	return creator(name, pin), nil
}

// Types returns the registered sensor type names.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	return names
}
