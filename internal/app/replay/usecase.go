package replay

import (
	"context"
	"errors"
	"strings"

	"gearverse/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

// UseCase serves slices of the persisted event stream. Observers replay a
// match purely from this feed; they never read engine state.
type UseCase struct {
	Events  ports.EventRepository
	Matches ports.MatchRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.MatchID = strings.TrimSpace(req.MatchID)
	if req.MatchID == "" {
		return Response{}, ErrInvalidRequest
	}
	if req.ToRound != 0 && req.ToRound < req.FromRound {
		return Response{}, ErrInvalidRequest
	}

	var rec ports.MatchRecord
	if u.Matches != nil {
		var err error
		rec, err = u.Matches.Get(ctx, req.MatchID)
		if err != nil {
			return Response{}, err
		}
	}

	events, err := u.Events.ListByMatch(ctx, req.MatchID, req.FromRound, req.ToRound)
	if err != nil {
		return Response{}, err
	}
	return Response{Match: rec, Events: events}, nil
}
