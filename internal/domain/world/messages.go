package world

import (
	"fmt"

	"gearverse/internal/domain/game"
)

// MessageLog is the append-only per-round broadcast channel. Writes land in
// the round they were sent; reads may ask for any settled round up to the
// current one.
type MessageLog struct {
	byRound map[int][]game.Message
}

func NewMessageLog() *MessageLog {
	return &MessageLog{byRound: make(map[int][]game.Message)}
}

func (m *MessageLog) Append(msg game.Message) {
	m.byRound[msg.Round] = append(m.byRound[msg.Round], msg)
}

// Read returns the round's messages in send order. Asking for a round past
// the current one is a caller timing bug, not an empty result.
func (m *MessageLog) Read(round, currentRound int) ([]game.Message, error) {
	if round < 0 || round > currentRound {
		return nil, game.Reject(game.ErrInvalidRound,
			fmt.Sprintf("round %d not resolved (current %d)", round, currentRound))
	}
	msgs := m.byRound[round]
	out := make([]game.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
