package events

import (
	"sync"

	"github.com/CodexForgeBR/commitcat/internal/logging"
)

// Emitter receives presentation messages.
type Emitter interface {
	Emit(msg Message)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Message)

// Emit calls f(msg).
func (f EmitterFunc) Emit(msg Message) { f(msg) }

// Discard drops every message.
var Discard Emitter = EmitterFunc(func(Message) {})

// Multi fans a message out to every sink in order.
type Multi []Emitter

// Emit forwards msg to each sink.
func (m Multi) Emit(msg Message) {
	for _, e := range m {
		if e != nil {
			e.Emit(msg)
		}
	}
}

// Console echoes messages through the leveled logger. Status messages are
// periodic and only shown in verbose mode.
type Console struct{}

// Emit logs msg.
func (Console) Emit(msg Message) {
	if msg.Name == ActivityStatus || msg.Name == PomodoroTick {
		if logging.Verbose() {
			logging.Event(msg.Name, Format(msg))
		}
		return
	}
	logging.Event(msg.Name, Format(msg))
}

// Memory records messages for inspection, mostly by tests.
type Memory struct {
	mu   sync.RWMutex
	msgs []Message
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{msgs: make([]Message, 0)}
}

// Emit appends msg.
func (m *Memory) Emit(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

// Messages returns a copy of everything recorded so far.
func (m *Memory) Messages() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Message, len(m.msgs))
	copy(out, m.msgs)
	return out
}

// Named returns the recorded messages called name.
func (m *Memory) Named(name string) []Message {
	var out []Message
	for _, msg := range m.Messages() {
		if msg.Name == name {
			out = append(out, msg)
		}
	}
	return out
}

// Names returns the names of every recorded message, skipping any in skip.
func (m *Memory) Names(skip ...string) []string {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}
	var out []string
	for _, msg := range m.Messages() {
		if !skipped[msg.Name] {
			out = append(out, msg.Name)
		}
	}
	return out
}

// Reset forgets everything recorded.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = m.msgs[:0]
}
