package store

import (
	"sync"

	"go.uber.org/zap"
)

// Listener observes the state after each dispatch.
type Listener func(action Action, state State)

// Memory is an in-memory store. Dispatches are serialised; listeners run
// synchronously after the state has been swapped, outside the lock.
type Memory struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
	history   []Action
	logger    *zap.Logger
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithLogger sets the logger used to trace dispatches.
func WithLogger(logger *zap.Logger) MemoryOption {
	return func(m *Memory) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMemory seeds a store with initial.
func NewMemory(initial State, opts ...MemoryOption) *Memory {
	m := &Memory{
		state:     initial.Clone(),
		listeners: make(map[int]Listener),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// State returns a copy of the current state.
func (m *Memory) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Dispatch reduces action into the state and notifies listeners.
func (m *Memory) Dispatch(action Action) {
	m.mu.Lock()
	m.state = Reduce(m.state, action)
	m.history = append(m.history, action)
	snapshot := m.state.Clone()
	listeners := make([]Listener, 0, len(m.listeners))
	for id := 0; id < m.nextID; id++ {
		if listener, ok := m.listeners[id]; ok {
			listeners = append(listeners, listener)
		}
	}
	m.mu.Unlock()

	m.logger.Debug("store dispatch",
		zap.String("type", string(action.Type)),
		zap.String("id", action.ID),
	)
	for _, listener := range listeners {
		listener(action, snapshot)
	}
}

// Replace swaps the whole state, for fixtures reloaded from disk.
func (m *Memory) Replace(state State) {
	m.mu.Lock()
	m.state = state.Clone()
	m.mu.Unlock()
}

// Dispatched returns the actions seen so far, oldest first.
func (m *Memory) Dispatched() []Action {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Action(nil), m.history...)
}

// Subscribe registers listener and returns a function removing it.
func (m *Memory) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}
