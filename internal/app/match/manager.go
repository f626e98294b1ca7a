package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gearverse/internal/app/ports"
	"gearverse/internal/domain/world"
)

// Manager holds the live engines by match id. Repositories, sinks, and
// metrics are shared across matches; each engine gets its own world.
type Manager struct {
	mu      sync.RWMutex
	engines map[string]*Engine

	TxManager ports.TxManager
	Events    ports.EventRepository
	Matches   ports.MatchRepository
	Sinks     []ports.RoundSink
	Metrics   ports.ActionMetrics
	Now       func() time.Time
}

func NewManager() *Manager {
	return &Manager{engines: map[string]*Engine{}}
}

// Create builds, records, and registers a new match.
func (m *Manager) Create(ctx context.Context, cfg Config, snap world.Snapshot) (*Engine, error) {
	engine, err := NewEngine(cfg, snap)
	if err != nil {
		return nil, err
	}
	engine.TxManager = m.TxManager
	engine.Events = m.Events
	engine.Matches = m.Matches
	engine.Sinks = m.Sinks
	engine.Metrics = m.Metrics
	engine.Now = m.Now

	m.mu.Lock()
	if _, exists := m.engines[cfg.MatchID]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("match %q: %w", cfg.MatchID, ports.ErrConflict)
	}
	m.engines[cfg.MatchID] = engine
	m.mu.Unlock()

	if err := engine.Start(ctx); err != nil {
		m.mu.Lock()
		delete(m.engines, cfg.MatchID)
		m.mu.Unlock()
		return nil, err
	}
	return engine, nil
}

func (m *Manager) Get(matchID string) (*Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	engine, ok := m.engines[matchID]
	if !ok {
		return nil, fmt.Errorf("match %q: %w", matchID, ports.ErrNotFound)
	}
	return engine, nil
}

// Remove drops a finished match from the registry. Its persisted events
// stay available through the replay path.
func (m *Manager) Remove(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, matchID)
}
