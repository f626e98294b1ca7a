package memory

import (
	"sync"

	"gearverse/internal/app/ports"
	"gearverse/internal/domain/game"
)

// Store backs the in-memory repositories used by tests and single-process
// runs. One mutex guards everything; TxManager takes it for the duration of
// a "transaction".
type Store struct {
	mu      sync.Mutex
	events  map[string][]game.Event
	matches map[string]ports.MatchRecord
}

func NewStore() *Store {
	return &Store{
		events:  make(map[string][]game.Event),
		matches: make(map[string]ports.MatchRecord),
	}
}
