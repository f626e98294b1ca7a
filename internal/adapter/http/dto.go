package httpadapter

import (
	"gearverse/internal/domain/game"
	"gearverse/internal/matchcfg"
)

type createMatchRequest struct {
	MatchID     string        `json:"match_id"`
	RoundLimit  int           `json:"round_limit,omitempty"`
	InitialSoup int           `json:"initial_soup,omitempty"`
	Tiebreak    string        `json:"tiebreak,omitempty"`
	Map         *matchcfg.Map `json:"map,omitempty"`
}

type matchStatusResponse struct {
	MatchID    string         `json:"match_id"`
	State      string         `json:"state"`
	Round      int            `json:"round"`
	RoundLimit int            `json:"round_limit"`
	Soup       map[string]int `json:"soup"`
	Robots     map[string]int `json:"robots"`
	Winner     string         `json:"winner,omitempty"`
	WinReason  string         `json:"win_reason,omitempty"`
}

type actionRequest struct {
	Kind       string `json:"kind"`
	Direction  string `json:"direction,omitempty"`
	TargetType string `json:"target_type,omitempty"`
	TargetID   int    `json:"target_id,omitempty"`
	Amount     int    `json:"amount,omitempty"`
	Payload    []int  `json:"payload,omitempty"`
	Cost       int    `json:"cost,omitempty"`
}

type robotResponse struct {
	Robot       game.Info `json:"robot"`
	Ready       bool      `json:"ready"`
	Cooldown    int       `json:"cooldown"`
	Round       int       `json:"round"`
	ControlBits uint64    `json:"control_bits"`
}

type senseResponse struct {
	X         int        `json:"x"`
	Y         int        `json:"y"`
	OnMap     bool       `json:"on_map"`
	Occupied  bool       `json:"occupied"`
	Soup      int        `json:"soup"`
	Elevation int        `json:"elevation"`
	Robot     *game.Info `json:"robot,omitempty"`
}

type nearbyResponse struct {
	Robots []game.Info `json:"robots"`
}

type messagesResponse struct {
	Round    int            `json:"round"`
	Messages []game.Message `json:"messages"`
}

type controlBitsRequest struct {
	Bits uint64 `json:"bits"`
}

type indicatorRequest struct {
	Kind string `json:"kind"` // "dot" or "line"
	X    int    `json:"x"`
	Y    int    `json:"y"`
	ToX  int    `json:"to_x,omitempty"`
	ToY  int    `json:"to_y,omitempty"`
	R    int    `json:"r"`
	G    int    `json:"g"`
	B    int    `json:"b"`
}
