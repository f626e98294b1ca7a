package game

const (
	// MaxMessagePayload bounds the number of integers per message.
	MaxMessagePayload = 7
	// MinMessageCost is the cheapest a broadcast can be paid for.
	MinMessageCost = 1
)

// Message is one paid broadcast, retained forever under the round it was
// sent in.
type Message struct {
	Round   int     `json:"round"`
	Sender  RobotID `json:"sender"`
	Cost    int     `json:"cost"`
	Payload []int   `json:"payload"`
}
