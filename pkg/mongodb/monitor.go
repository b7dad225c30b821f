package mongodb

import (
	"sync"

	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"
)

// State is the observed connection state of the client.
type State int32

const (
	StateUnknown State = iota
	StateConnected
	StateDisconnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// stateChangeFunc is called after every state transition.
type stateChangeFunc func(from, to State)

// Monitor turns driver heartbeat and topology events into explicit
// connection state transitions and logs each of them once.
// StateClosed is terminal.
type Monitor struct {
	database string
	log      *zap.Logger

	mu    sync.Mutex
	state State
	hooks []stateChangeFunc
}

// NewMonitor creates a monitor for the named database.
func NewMonitor(database string, log *zap.Logger) *Monitor {
	return &Monitor{database: database, log: log}
}

// onStateChange registers fn to be notified of transitions.
func (m *Monitor) onStateChange(fn stateChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// State returns the current state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ServerMonitor returns the driver hook feeding this monitor.
func (m *Monitor) ServerMonitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) {
			m.Transition(StateConnected)
		},
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			m.HeartbeatFailed(e.ConnectionID, e.Failure)
		},
		TopologyClosed: func(*event.TopologyClosedEvent) {
			m.Transition(StateClosed)
		},
	}
}

// HeartbeatFailed logs err and marks a previously connected client as disconnected.
func (m *Monitor) HeartbeatFailed(connectionID string, err error) {
	m.log.Error("MongoDB error",
		zap.String("database", m.database),
		zap.String("connection_id", connectionID),
		zap.Error(err),
	)

	if m.State() == StateConnected {
		m.Transition(StateDisconnected)
	}
}

// Transition moves the monitor to the given state.
func (m *Monitor) Transition(to State) {
	m.mu.Lock()
	from := m.state
	if from == to || from == StateClosed {
		m.mu.Unlock()
		return
	}
	m.state = to
	hooks := append([]stateChangeFunc(nil), m.hooks...)
	m.mu.Unlock()

	switch to {
	case StateConnected:
		m.log.Info("MongoDB connected", zap.String("database", m.database))
	case StateDisconnected:
		m.log.Warn("MongoDB disconnected", zap.String("database", m.database))
	case StateClosed:
		m.log.Info("MongoDB connection closed", zap.String("database", m.database))
	}

	for _, fn := range hooks {
		fn(from, to)
	}
}
