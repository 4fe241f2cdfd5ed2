package pipeline

import (
	"sync"

	"github.com/ashdale-labs/homecore/internal/sensor"
)

// Logger is the minimal logging interface pipeline stages need.
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

// Pipeline runs readings through an ordered chain of handlers. Stages
// are linked in the order they are added.
type Pipeline struct {
	mu       sync.Mutex
	handlers []Handler
	logger   Logger
}

// New creates an empty pipeline. A pipeline with no stages returns
// readings unchanged.
func New() *Pipeline {
	return &Pipeline{logger: noopLogger{}}
}

// SetLogger installs a logger for stage registration diagnostics.
func (p *Pipeline) SetLogger(l Logger) {
	if l != nil {
		p.logger = l
	}
}

// AddHandler appends a stage and relinks the chain.
func (p *Pipeline) AddHandler(h Handler) {
	if h == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.handlers = append(p.handlers, h)
	p.relink()
	p.logger.Info("pipeline stage added",
		"stage", h.Name(),
		"total", len(p.handlers),
	)
}

// relink rebuilds next pointers across the whole chain. Caller holds mu.
func (p *Pipeline) relink() {
	for i := 0; i < len(p.handlers)-1; i++ {
		p.handlers[i].SetNext(p.handlers[i+1])
	}
	if n := len(p.handlers); n > 0 {
		p.handlers[n-1].SetNext(nil)
	}
}

// Process runs a reading through the chain and returns the result.
func (p *Pipeline) Process(r sensor.Reading) sensor.Reading {
	p.mu.Lock()
	var head Handler
	if len(p.handlers) > 0 {
		head = p.handlers[0]
	}
	p.mu.Unlock()

	if head == nil {
		return r
	}
	return head.Handle(r)
}

// HandlerNames returns stage names in chain order.
func (p *Pipeline) HandlerNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, len(p.handlers))
	for i, h := range p.handlers {
		names[i] = h.Name()
	}
	return names
}
