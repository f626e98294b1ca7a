package game

type EventType string

const (
	EventSpawned       EventType = "spawned"
	EventMoved         EventType = "moved"
	EventBuilt         EventType = "built"
	EventMined         EventType = "mined"
	EventRefined       EventType = "refined"
	EventDug           EventType = "dug"
	EventDeposited     EventType = "deposited"
	EventPickedUp      EventType = "picked_up"
	EventDropped       EventType = "dropped"
	EventMessageSent   EventType = "message_sent"
	EventDied          EventType = "died"
	EventDisintegrated EventType = "disintegrated"
	EventResigned      EventType = "resigned"
	EventIndicatorDot  EventType = "indicator_dot"
	EventIndicatorLine EventType = "indicator_line"
	EventMatchOver     EventType = "match_over"
)

// Event is one immutable committed state change. Seq orders events within a
// round; (Round, Seq) orders the whole log. Events are the only feed
// observers ever see.
type Event struct {
	Round   int            `json:"round"`
	Seq     int            `json:"seq"`
	RobotID RobotID        `json:"robot_id,omitempty"`
	Type    EventType      `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type WinReason string

const (
	WinByDestruction WinReason = "destruction"
	WinByResignation WinReason = "resignation"
	WinByTiebreak    WinReason = "tiebreak"
)
