package replay

import (
	"gearverse/internal/app/ports"
	"gearverse/internal/domain/game"
)

type Request struct {
	MatchID   string
	FromRound int
	ToRound   int // 0 means "through the latest flushed round"
}

type Response struct {
	Match  ports.MatchRecord `json:"match"`
	Events []game.Event      `json:"events"`
}
