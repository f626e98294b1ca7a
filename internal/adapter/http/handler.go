package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"gearverse/internal/app/match"
	"gearverse/internal/app/ports"
	"gearverse/internal/app/replay"
	"gearverse/internal/domain/game"
	"gearverse/internal/matchcfg"
)

type Handler struct {
	Matches  *match.Manager
	ReplayUC replay.UseCase
	Defaults matchcfg.Config
	KPI      kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	api := s.Group("/api")
	api.POST("/match", h.createMatch)
	api.GET("/match/:id", h.matchStatus)
	api.POST("/match/:id/round/end", h.endRound)
	api.GET("/match/:id/replay", h.replay)

	robot := api.Group("/match/:id/robot/:rid")
	robot.GET("", h.robotSelf)
	robot.POST("/action", h.robotAction)
	robot.GET("/nearby", h.robotNearby)
	robot.GET("/sense", h.robotSense)
	robot.GET("/messages", h.robotMessages)
	robot.POST("/controlbits", h.robotControlBits)
	robot.POST("/indicator", h.robotIndicator)

	s.GET("/ops/kpi", h.kpi)
}

func (h Handler) createMatch(c context.Context, ctx *app.RequestContext) {
	var body createMatchRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if body.MatchID == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "match_id required")
		return
	}

	cfg := h.Defaults
	if cfg.RoundLimit == 0 {
		cfg = matchcfg.Default()
	}
	if body.RoundLimit > 0 {
		cfg.RoundLimit = body.RoundLimit
	}
	if body.InitialSoup > 0 {
		cfg.InitialSoup = body.InitialSoup
	}
	if body.Tiebreak != "" {
		cfg.Tiebreak = body.Tiebreak
	}
	if body.Map != nil {
		cfg.Map = *body.Map
	}

	engine, err := h.Matches.Create(c, match.Config{
		MatchID:    body.MatchID,
		RoundLimit: cfg.RoundLimit,
		Tiebreak:   cfg.TiebreakFunc(),
	}, cfg.Snapshot())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, statusOf(engine))
}

func (h Handler) matchStatus(_ context.Context, ctx *app.RequestContext) {
	engine, err := h.Matches.Get(string(ctx.Param("id")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, statusOf(engine))
}

func (h Handler) endRound(c context.Context, ctx *app.RequestContext) {
	engine, err := h.Matches.Get(string(ctx.Param("id")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	if err := engine.EndRound(c); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, statusOf(engine))
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	fromRound, _ := strconv.Atoi(string(ctx.Query("from_round")))
	toRound, _ := strconv.Atoi(string(ctx.Query("to_round")))
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		MatchID:   string(ctx.Param("id")),
		FromRound: fromRound,
		ToRound:   toRound,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) robotSelf(_ context.Context, ctx *app.RequestContext) {
	ctrl, err := h.controller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	info, err := ctrl.Self()
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, robotResponse{
		Robot:       info,
		Ready:       ctrl.IsReady(),
		Cooldown:    ctrl.CooldownTurns(),
		Round:       ctrl.Round(),
		ControlBits: ctrl.ControlBits(),
	})
}

func (h Handler) robotAction(_ context.Context, ctx *app.RequestContext) {
	ctrl, err := h.controller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	action, err := body.toAction()
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if err := dispatch(ctrl, action); err != nil {
		writeError(ctx, err)
		return
	}
	info, err := ctrl.Self()
	if err != nil {
		// Disintegrate and resign destroy or end; report the accepted action
		// without a body for the now-gone robot.
		ctx.JSON(consts.StatusOK, map[string]any{"accepted": true})
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"accepted": true, "robot": info})
}

func (h Handler) robotNearby(_ context.Context, ctx *app.RequestContext) {
	ctrl, err := h.controller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	radiusSq := -1
	if raw := string(ctx.Query("radius_sq")); raw != "" {
		radiusSq, err = strconv.Atoi(raw)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "radius_sq must be an integer")
			return
		}
	}
	var team *game.Team
	if raw := string(ctx.Query("team")); raw != "" {
		t, ok := game.ParseTeam(raw)
		if !ok {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "unknown team")
			return
		}
		team = &t
	}

	var robots []game.Info
	if len(ctx.Query("x")) > 0 || len(ctx.Query("y")) > 0 {
		x, _ := strconv.Atoi(string(ctx.Query("x")))
		y, _ := strconv.Atoi(string(ctx.Query("y")))
		robots, err = ctrl.NearbyRobotsAt(game.Location{X: x, Y: y}, radiusSq, team)
	} else {
		robots, err = ctrl.NearbyRobots(radiusSq, team)
	}
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, nearbyResponse{Robots: robots})
}

func (h Handler) robotSense(_ context.Context, ctx *app.RequestContext) {
	ctrl, err := h.controller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	x, errX := strconv.Atoi(string(ctx.Query("x")))
	y, errY := strconv.Atoi(string(ctx.Query("y")))
	if errX != nil || errY != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "x and y are required integers")
		return
	}
	loc := game.Location{X: x, Y: y}

	resp := senseResponse{X: x, Y: y, OnMap: ctrl.OnTheMap(loc)}
	occupied, err := ctrl.IsLocationOccupied(loc)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp.Occupied = occupied
	if resp.Soup, err = ctrl.SoupAt(loc); err != nil {
		writeError(ctx, err)
		return
	}
	if resp.Elevation, err = ctrl.ElevationAt(loc); err != nil {
		writeError(ctx, err)
		return
	}
	if occupied {
		info, err := ctrl.RobotAtLocation(loc)
		if err == nil {
			resp.Robot = &info
		}
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) robotMessages(_ context.Context, ctx *app.RequestContext) {
	ctrl, err := h.controller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	round, err := strconv.Atoi(string(ctx.Query("round")))
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "round must be an integer")
		return
	}
	msgs, err := ctrl.Messages(round)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, messagesResponse{Round: round, Messages: msgs})
}

func (h Handler) robotControlBits(_ context.Context, ctx *app.RequestContext) {
	ctrl, err := h.controller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body controlBitsRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := ctrl.SetControlBits(body.Bits); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"bits": body.Bits})
}

func (h Handler) robotIndicator(_ context.Context, ctx *app.RequestContext) {
	ctrl, err := h.controller(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body indicatorRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	switch body.Kind {
	case "dot":
		ctrl.SetIndicatorDot(game.Location{X: body.X, Y: body.Y}, body.R, body.G, body.B)
	case "line":
		ctrl.SetIndicatorLine(game.Location{X: body.X, Y: body.Y}, game.Location{X: body.ToX, Y: body.ToY}, body.R, body.G, body.B)
	default:
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "indicator kind must be dot or line")
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"accepted": true})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) controller(ctx *app.RequestContext) (*match.Controller, error) {
	engine, err := h.Matches.Get(string(ctx.Param("id")))
	if err != nil {
		return nil, err
	}
	rid, err := strconv.Atoi(string(ctx.Param("rid")))
	if err != nil {
		return nil, game.Reject(game.ErrNoSuchRobot, "robot id must be an integer")
	}
	return engine.Controller(game.RobotID(rid)), nil
}

func statusOf(engine *match.Engine) matchStatusResponse {
	resp := matchStatusResponse{
		MatchID:    engine.MatchID(),
		State:      string(engine.State()),
		Round:      engine.Round(),
		RoundLimit: engine.RoundLimit(),
		Soup: map[string]int{
			game.TeamA.String(): engine.TeamSoup(game.TeamA),
			game.TeamB.String(): engine.TeamSoup(game.TeamB),
		},
		Robots: map[string]int{
			game.TeamA.String(): engine.RobotCount(game.TeamA),
			game.TeamB.String(): engine.RobotCount(game.TeamB),
		},
	}
	if winner, reason, over := engine.Winner(); over {
		resp.Winner = winner.String()
		resp.WinReason = string(reason)
	}
	return resp
}

func (r actionRequest) toAction() (game.Action, error) {
	kind := game.ActionKind(r.Kind)
	if !kind.Known() {
		return game.Action{}, errors.New("unknown action kind")
	}
	action := game.Action{
		Kind:    kind,
		Amount:  r.Amount,
		Payload: r.Payload,
		Cost:    r.Cost,
	}
	if r.Direction != "" {
		dir, ok := game.ParseDirection(r.Direction)
		if !ok {
			return game.Action{}, errors.New("unknown direction")
		}
		action.Direction = dir
	}
	if r.TargetType != "" {
		typ, ok := game.ParseRobotType(r.TargetType)
		if !ok {
			return game.Action{}, errors.New("unknown robot type")
		}
		action.TargetType = typ
	}
	action.TargetID = game.RobotID(r.TargetID)
	return action, nil
}

// dispatch routes the decoded action through the typed controller calls so
// HTTP and in-process hosts exercise the same surface.
func dispatch(ctrl *match.Controller, action game.Action) error {
	switch action.Kind {
	case game.ActionMove:
		return ctrl.Move(action.Direction)
	case game.ActionBuild:
		return ctrl.Build(action.TargetType, action.Direction)
	case game.ActionMine:
		return ctrl.Mine(action.Direction)
	case game.ActionRefine:
		return ctrl.Refine(action.Direction, action.Amount)
	case game.ActionDig:
		return ctrl.Dig(action.Direction)
	case game.ActionDeposit:
		return ctrl.Deposit(action.Direction)
	case game.ActionPickUp:
		return ctrl.PickUp(action.TargetID)
	case game.ActionDrop:
		return ctrl.Drop(action.Direction)
	case game.ActionSendMessage:
		return ctrl.SendMessage(action.Payload, action.Cost)
	case game.ActionDisintegrate:
		return ctrl.Disintegrate()
	case game.ActionResign:
		return ctrl.Resign()
	default:
		return game.Reject(game.ErrInvalidTarget, "unknown action kind")
	}
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, game.ErrNoSuchRobot):
		writeErrorBody(ctx, consts.StatusNotFound, game.CodeNoSuchRobot, err.Error())
	case errors.Is(err, game.ErrInvalidRound):
		writeErrorBody(ctx, consts.StatusBadRequest, game.CodeInvalidRound, err.Error())
	case errors.Is(err, game.ErrNotReady),
		errors.Is(err, game.ErrOutOfRange),
		errors.Is(err, game.ErrInvalidLocation),
		errors.Is(err, game.ErrInsufficientResources),
		errors.Is(err, game.ErrInvalidTarget):
		writeErrorBody(ctx, consts.StatusConflict, game.CodeForError(err), err.Error())
	case errors.Is(err, match.ErrMatchOver):
		writeErrorBody(ctx, consts.StatusConflict, "match_over", err.Error())
	case errors.Is(err, match.ErrNotAcceptingNow):
		writeErrorBody(ctx, consts.StatusConflict, "not_accepting", err.Error())
	case errors.Is(err, match.ErrMatchAborted):
		writeErrorBody(ctx, consts.StatusInternalServerError, "match_aborted", err.Error())
	case errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
