package gormrepo

import (
	"context"
	"errors"
	"time"

	"gearverse/internal/adapter/repo/gorm/model"
	"gearverse/internal/app/ports"

	"gorm.io/gorm"
)

type MatchRepo struct {
	db *gorm.DB
}

func NewMatchRepo(db *gorm.DB) MatchRepo {
	return MatchRepo{db: db}
}

func (r MatchRepo) Create(ctx context.Context, rec ports.MatchRecord) error {
	row := model.Match{
		MatchID:    rec.MatchID,
		RoundLimit: rec.RoundLimit,
		StartedAt:  rec.StartedAt,
	}
	err := session(ctx, r.db).Create(&row).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrConflict
	}
	return err
}

func (r MatchRepo) Finish(ctx context.Context, matchID string, rounds int, winner, reason string, endedAt time.Time) error {
	res := session(ctx, r.db).
		Model(&model.Match{}).
		Where("match_id = ?", matchID).
		Updates(map[string]any{
			"rounds":     rounds,
			"winner":     winner,
			"win_reason": reason,
			"ended_at":   endedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r MatchRepo) Get(ctx context.Context, matchID string) (ports.MatchRecord, error) {
	var row model.Match
	err := session(ctx, r.db).
		Where("match_id = ?", matchID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.MatchRecord{}, ports.ErrNotFound
		}
		return ports.MatchRecord{}, err
	}
	return ports.MatchRecord{
		MatchID:    row.MatchID,
		RoundLimit: row.RoundLimit,
		Rounds:     row.Rounds,
		Winner:     row.Winner,
		WinReason:  row.WinReason,
		StartedAt:  row.StartedAt,
		EndedAt:    row.EndedAt,
	}, nil
}
