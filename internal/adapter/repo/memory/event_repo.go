package memory

import (
	"context"

	"gearverse/internal/domain/game"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

// lock takes the store mutex unless the context already runs inside
// TxManager.RunInTx, which holds it for the whole unit of work.
func (r EventRepo) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r EventRepo) Append(ctx context.Context, matchID string, events []game.Event) error {
	defer r.lock(ctx)()
	r.store.events[matchID] = append(r.store.events[matchID], events...)
	return nil
}

func (r EventRepo) ListByMatch(ctx context.Context, matchID string, fromRound, toRound int) ([]game.Event, error) {
	defer r.lock(ctx)()

	out := make([]game.Event, 0)
	for _, evt := range r.store.events[matchID] {
		if evt.Round < fromRound {
			continue
		}
		if toRound != 0 && evt.Round > toRound {
			continue
		}
		out = append(out, evt)
	}
	return out, nil
}
