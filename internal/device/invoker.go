package device

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHistoryDepth bounds command history when no depth is configured.
const DefaultHistoryDepth = 100

// HistoryEntry records one executed command.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	ExecutedAt time.Time `json:"executed_at"`
}

// executed pairs a command with its history record so undo can replay
// the inverse later.
type executed struct {
	cmd   Command
	entry HistoryEntry
}

// Invoker executes commands and keeps a bounded undo history. Undone
// commands move to a redo stack; executing a fresh command clears it.
type Invoker struct {
	mu       sync.Mutex
	history  []executed
	redo     []executed
	maxDepth int
	logger   Logger
}

// NewInvoker creates an invoker keeping at most maxDepth history
// entries. Non-positive depths fall back to DefaultHistoryDepth.
func NewInvoker(maxDepth int) *Invoker {
	if maxDepth < 1 {
		maxDepth = DefaultHistoryDepth
	}
	return &Invoker{maxDepth: maxDepth, logger: noopLogger{}}
}

// SetLogger installs a logger. Call before the invoker is shared.
func (inv *Invoker) SetLogger(l Logger) {
	if l != nil {
		inv.logger = l
	}
}

// Execute runs the command and, on success, records it in history and
// clears the redo stack. The oldest entry is evicted once history
// exceeds the configured depth.
func (inv *Invoker) Execute(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.history = append(inv.history, executed{
		cmd: cmd,
		entry: HistoryEntry{
			ID:         uuid.NewString(),
			Command:    cmd.Name(),
			ExecutedAt: time.Now().UTC(),
		},
	})
	if len(inv.history) > inv.maxDepth {
		inv.history = inv.history[1:]
	}
	inv.redo = nil

	return nil
}

// UndoLast reverses the most recent command and moves it to the redo
// stack.
//
// Returns ErrNothingToUndo when the history is empty.
func (inv *Invoker) UndoLast() error {
	inv.mu.Lock()
	n := len(inv.history)
	if n == 0 {
		inv.mu.Unlock()
		inv.logger.Warn("undo requested with empty history")
		return ErrNothingToUndo
	}
	last := inv.history[n-1]
	inv.history = inv.history[:n-1]
	inv.mu.Unlock()

	if err := last.cmd.Undo(); err != nil {
		return err
	}

	inv.mu.Lock()
	inv.redo = append(inv.redo, last)
	inv.mu.Unlock()

	inv.logger.Info("command undone", "command", last.entry.Command)
	return nil
}

// RedoLast re-executes the most recently undone command and returns it
// to history.
//
// Returns ErrNothingToRedo when the redo stack is empty.
func (inv *Invoker) RedoLast() error {
	inv.mu.Lock()
	n := len(inv.redo)
	if n == 0 {
		inv.mu.Unlock()
		inv.logger.Warn("redo requested with empty redo stack")
		return ErrNothingToRedo
	}
	last := inv.redo[n-1]
	inv.redo = inv.redo[:n-1]
	inv.mu.Unlock()

	if err := last.cmd.Execute(); err != nil {
		return err
	}

	inv.mu.Lock()
	last.entry.ExecutedAt = time.Now().UTC()
	inv.history = append(inv.history, last)
	if len(inv.history) > inv.maxDepth {
		inv.history = inv.history[1:]
	}
	inv.mu.Unlock()

	inv.logger.Info("command redone", "command", last.entry.Command)
	return nil
}

// History returns executed command records, oldest first.
func (inv *Invoker) History() []HistoryEntry {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	entries := make([]HistoryEntry, len(inv.history))
	for i, e := range inv.history {
		entries[i] = e.entry
	}
	return entries
}

// HistoryLen returns the number of recorded commands.
func (inv *Invoker) HistoryLen() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.history)
}

// RedoLen returns the number of commands available to redo.
func (inv *Invoker) RedoLen() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.redo)
}
