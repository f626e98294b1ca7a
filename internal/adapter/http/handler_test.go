package httpadapter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"

	memrepo "gearverse/internal/adapter/repo/memory"
	"gearverse/internal/app/match"
	"gearverse/internal/app/ports"
	"gearverse/internal/app/replay"
	"gearverse/internal/domain/game"
	"gearverse/internal/matchcfg"
)

func testHandler(t *testing.T) (Handler, *memrepo.Store) {
	t.Helper()
	store := memrepo.NewStore()
	manager := match.NewManager()
	manager.TxManager = memrepo.NewTxManager(store)
	manager.Events = memrepo.NewEventRepo(store)
	manager.Matches = memrepo.NewMatchRepo(store)
	manager.Now = func() time.Time { return time.Unix(1700000000, 0).UTC() }

	return Handler{
		Matches:  manager,
		ReplayUC: replay.UseCase{Events: memrepo.NewEventRepo(store), Matches: memrepo.NewMatchRepo(store)},
		Defaults: matchcfg.Default(),
	}, store
}

func postJSON(ctx *app.RequestContext, body any) {
	b, _ := json.Marshal(body)
	ctx.Request.SetBody(b)
}

func createTestMatch(t *testing.T, h Handler) {
	t.Helper()
	ctx := &app.RequestContext{}
	postJSON(ctx, createMatchRequest{
		MatchID:    "m1",
		RoundLimit: 20,
		Map: &matchcfg.Map{
			Width:  10,
			Height: 10,
			Robots: []matchcfg.Robot{
				{Team: "A", Type: "hq", X: 0, Y: 0},
				{Team: "B", Type: "hq", X: 9, Y: 9},
				{Team: "A", Type: "miner", X: 5, Y: 5},
			},
			Soup: []matchcfg.Deposit{{X: 5, Y: 6, Amount: 100}},
		},
	})
	h.createMatch(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusCreated {
		t.Fatalf("create status: got=%d body=%s", got, ctx.Response.Body())
	}
}

func robotCtx(rid string) *app.RequestContext {
	ctx := &app.RequestContext{}
	ctx.Params = param.Params{
		{Key: "id", Value: "m1"},
		{Key: "rid", Value: rid},
	}
	return ctx
}

func TestCreateMatchAndStatus(t *testing.T) {
	h, _ := testHandler(t)
	createTestMatch(t, h)

	ctx := &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "m1"}}
	h.matchStatus(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("status code: %d", got)
	}

	var body matchStatusResponse
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.MatchID != "m1" || body.Round != 0 || body.RoundLimit != 20 {
		t.Fatalf("status body: %+v", body)
	}
	if body.Robots["A"] != 2 || body.Robots["B"] != 1 {
		t.Fatalf("robot counts: %+v", body.Robots)
	}
}

func TestCreateMatchDuplicateConflicts(t *testing.T) {
	h, _ := testHandler(t)
	createTestMatch(t, h)

	ctx := &app.RequestContext{}
	postJSON(ctx, createMatchRequest{MatchID: "m1"})
	h.createMatch(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusConflict {
		t.Fatalf("duplicate create: got=%d", got)
	}
}

func TestRobotActionFlow(t *testing.T) {
	h, _ := testHandler(t)
	createTestMatch(t, h)

	ctx := robotCtx("3")
	postJSON(ctx, actionRequest{Kind: "mine", Direction: "north"})
	h.robotAction(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("action: got=%d body=%s", got, ctx.Response.Body())
	}

	// Second action in the same round trips the cooldown gate.
	ctx = robotCtx("3")
	postJSON(ctx, actionRequest{Kind: "move", Direction: "east"})
	h.robotAction(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusConflict {
		t.Fatalf("second action: got=%d", got)
	}
	var body map[string]map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := body["error"]["code"]; got != game.CodeNotReady {
		t.Fatalf("error code: got=%v want=%v", got, game.CodeNotReady)
	}
}

func TestRobotActionUnknownRobot(t *testing.T) {
	h, _ := testHandler(t)
	createTestMatch(t, h)

	ctx := robotCtx("99")
	postJSON(ctx, actionRequest{Kind: "move", Direction: "east"})
	h.robotAction(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusNotFound {
		t.Fatalf("unknown robot: got=%d", got)
	}
}

func TestRobotSenseOutOfRange(t *testing.T) {
	h, _ := testHandler(t)
	createTestMatch(t, h)

	ctx := robotCtx("3")
	ctx.QueryArgs().Add("x", "0")
	ctx.QueryArgs().Add("y", "0")
	h.robotSense(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusConflict {
		t.Fatalf("sense beyond radius: got=%d body=%s", got, ctx.Response.Body())
	}
	var body map[string]map[string]any
	_ = json.Unmarshal(ctx.Response.Body(), &body)
	if got := body["error"]["code"]; got != game.CodeOutOfRange {
		t.Fatalf("error code: got=%v", got)
	}
}

func TestRobotSenseInRange(t *testing.T) {
	h, _ := testHandler(t)
	createTestMatch(t, h)

	ctx := robotCtx("3")
	ctx.QueryArgs().Add("x", "5")
	ctx.QueryArgs().Add("y", "6")
	h.robotSense(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("sense: got=%d body=%s", got, ctx.Response.Body())
	}
	var body senseResponse
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.OnMap || body.Occupied || body.Soup != 100 {
		t.Fatalf("sense body: %+v", body)
	}
}

func TestEndRoundAndReplay(t *testing.T) {
	h, _ := testHandler(t)
	createTestMatch(t, h)

	ctx := robotCtx("3")
	postJSON(ctx, actionRequest{Kind: "mine", Direction: "north"})
	h.robotAction(context.Background(), ctx)

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "m1"}}
	h.endRound(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("end round: got=%d body=%s", got, ctx.Response.Body())
	}

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "id", Value: "m1"}}
	h.replay(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("replay: got=%d body=%s", got, ctx.Response.Body())
	}
	var body replay.Response
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Three spawns plus one mine event.
	if len(body.Events) != 4 {
		t.Fatalf("replay events: got=%d want=4", len(body.Events))
	}
}

func TestControlBitsRoundTrip(t *testing.T) {
	h, _ := testHandler(t)
	createTestMatch(t, h)

	ctx := robotCtx("3")
	postJSON(ctx, controlBitsRequest{Bits: 0xbeef})
	h.robotControlBits(context.Background(), ctx)
	if got := ctx.Response.StatusCode(); got != consts.StatusOK {
		t.Fatalf("set control bits: got=%d", got)
	}

	ctx = robotCtx("3")
	h.robotSelf(context.Background(), ctx)
	var body robotResponse
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Robot.ID != 3 || !body.Ready || body.ControlBits != 0xbeef {
		t.Fatalf("self body: %+v", body)
	}
}

func TestWriteErrorTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{game.Reject(game.ErrNotReady, "x"), consts.StatusConflict, game.CodeNotReady},
		{game.Reject(game.ErrOutOfRange, "x"), consts.StatusConflict, game.CodeOutOfRange},
		{game.Reject(game.ErrInvalidLocation, "x"), consts.StatusConflict, game.CodeInvalidLocation},
		{game.Reject(game.ErrInsufficientResources, "x"), consts.StatusConflict, game.CodeInsufficientResources},
		{game.Reject(game.ErrInvalidTarget, "x"), consts.StatusConflict, game.CodeInvalidTarget},
		{game.Reject(game.ErrNoSuchRobot, "x"), consts.StatusNotFound, game.CodeNoSuchRobot},
		{game.Reject(game.ErrInvalidRound, "x"), consts.StatusBadRequest, game.CodeInvalidRound},
		{match.ErrMatchOver, consts.StatusConflict, "match_over"},
		{ports.ErrNotFound, consts.StatusNotFound, "not_found"},
		{ports.ErrConflict, consts.StatusConflict, "conflict"},
	}
	for _, c := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, c.err)
		if got := ctx.Response.StatusCode(); got != c.status {
			t.Fatalf("%v: status got=%d want=%d", c.err, got, c.status)
		}
		var body map[string]map[string]any
		if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got := body["error"]["code"]; got != c.code {
			t.Fatalf("%v: code got=%v want=%q", c.err, got, c.code)
		}
	}
}

func TestActionRequestDecoding(t *testing.T) {
	if _, err := (actionRequest{Kind: "teleport"}).toAction(); err == nil {
		t.Fatal("unknown kind must fail")
	}
	if _, err := (actionRequest{Kind: "move", Direction: "up"}).toAction(); err == nil {
		t.Fatal("unknown direction must fail")
	}
	if _, err := (actionRequest{Kind: "build", TargetType: "tank", Direction: "east"}).toAction(); err == nil {
		t.Fatal("unknown robot type must fail")
	}
	action, err := (actionRequest{Kind: "build", TargetType: "refinery", Direction: "east"}).toAction()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if action.Kind != game.ActionBuild || action.TargetType != game.Refinery || action.Direction != game.East {
		t.Fatalf("decoded action: %+v", action)
	}
}
