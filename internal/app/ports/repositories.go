package ports

import (
	"context"
	"time"

	"gearverse/internal/domain/game"
)

// EventRepository persists the flushed per-round event stream. Events are
// write-once; ListByMatch returns them ordered by (round, seq).
type EventRepository interface {
	Append(ctx context.Context, matchID string, events []game.Event) error
	ListByMatch(ctx context.Context, matchID string, fromRound, toRound int) ([]game.Event, error)
}

// MatchRecord is the durable summary of one match.
type MatchRecord struct {
	MatchID    string
	RoundLimit int
	Rounds     int
	Winner     string
	WinReason  string
	StartedAt  time.Time
	EndedAt    *time.Time
}

type MatchRepository interface {
	Create(ctx context.Context, rec MatchRecord) error
	Finish(ctx context.Context, matchID string, rounds int, winner, reason string, endedAt time.Time) error
	Get(ctx context.Context, matchID string) (MatchRecord, error)
}
