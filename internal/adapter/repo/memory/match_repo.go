package memory

import (
	"context"
	"time"

	"gearverse/internal/app/ports"
)

type MatchRepo struct {
	store *Store
}

func NewMatchRepo(store *Store) MatchRepo {
	return MatchRepo{store: store}
}

func (r MatchRepo) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r MatchRepo) Create(ctx context.Context, rec ports.MatchRecord) error {
	defer r.lock(ctx)()
	if _, exists := r.store.matches[rec.MatchID]; exists {
		return ports.ErrConflict
	}
	r.store.matches[rec.MatchID] = rec
	return nil
}

func (r MatchRepo) Finish(ctx context.Context, matchID string, rounds int, winner, reason string, endedAt time.Time) error {
	defer r.lock(ctx)()
	rec, ok := r.store.matches[matchID]
	if !ok {
		return ports.ErrNotFound
	}
	rec.Rounds = rounds
	rec.Winner = winner
	rec.WinReason = reason
	rec.EndedAt = &endedAt
	r.store.matches[matchID] = rec
	return nil
}

func (r MatchRepo) Get(ctx context.Context, matchID string) (ports.MatchRecord, error) {
	defer r.lock(ctx)()
	rec, ok := r.store.matches[matchID]
	if !ok {
		return ports.MatchRecord{}, ports.ErrNotFound
	}
	return rec, nil
}
