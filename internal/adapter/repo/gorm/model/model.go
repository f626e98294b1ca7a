package model

import "time"

// MatchEvent is one row of the flushed event stream. (match_id, round, seq)
// is unique; rows are write-once.
type MatchEvent struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	MatchID   string    `gorm:"column:match_id;index:idx_match_events_round,priority:1"`
	Round     int       `gorm:"column:round;index:idx_match_events_round,priority:2"`
	Seq       int       `gorm:"column:seq"`
	RobotID   int       `gorm:"column:robot_id"`
	Type      string    `gorm:"column:type"`
	Payload   []byte    `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (MatchEvent) TableName() string { return "match_events" }

type Match struct {
	MatchID    string     `gorm:"column:match_id;primaryKey"`
	RoundLimit int        `gorm:"column:round_limit"`
	Rounds     int        `gorm:"column:rounds"`
	Winner     string     `gorm:"column:winner"`
	WinReason  string     `gorm:"column:win_reason"`
	StartedAt  time.Time  `gorm:"column:started_at"`
	EndedAt    *time.Time `gorm:"column:ended_at"`
}

func (Match) TableName() string { return "matches" }
