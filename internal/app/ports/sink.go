package ports

import "gearverse/internal/domain/game"

// RoundSink receives every round's flushed event batch, in order. Sinks are
// the only way observers ever see state changes.
type RoundSink interface {
	PublishRound(matchID string, round int, events []game.Event)
}
