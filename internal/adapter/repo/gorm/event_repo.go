package gormrepo

import (
	"context"
	"encoding/json"

	"gearverse/internal/adapter/repo/gorm/model"
	"gearverse/internal/domain/game"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, matchID string, events []game.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.MatchEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.MatchEvent{
			MatchID: matchID,
			Round:   e.Round,
			Seq:     e.Seq,
			RobotID: int(e.RobotID),
			Type:    string(e.Type),
			Payload: b,
		})
	}
	return session(ctx, r.db).Create(&rows).Error
}

func (r EventRepo) ListByMatch(ctx context.Context, matchID string, fromRound, toRound int) ([]game.Event, error) {
	query := session(ctx, r.db).
		Where("match_id = ?", matchID).
		Where("round >= ?", fromRound).
		Clauses(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "round"}},
			{Column: clause.Column{Name: "seq"}},
		}})
	if toRound != 0 {
		query = query.Where("round <= ?", toRound)
	}

	rows := []model.MatchEvent{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]game.Event, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, game.Event{
			Round:   row.Round,
			Seq:     row.Seq,
			RobotID: game.RobotID(row.RobotID),
			Type:    game.EventType(row.Type),
			Payload: payload,
		})
	}
	return out, nil
}
