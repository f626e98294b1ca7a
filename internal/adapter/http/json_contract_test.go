package httpadapter

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"gearverse/internal/app/replay"
	"gearverse/internal/domain/game"
)

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	s, err := jsonschema.Compile(filepath.Join("..", "..", "..", "schemas", name))
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

func TestEventJSONMatchesSchema(t *testing.T) {
	schema := compileSchema(t, "event.schema.json")

	h, _ := testHandler(t)
	createTestMatch(t, h)

	// Drive a round with a few different event types, then read the
	// flushed log back through the replay endpoint.
	for _, req := range []actionRequest{
		{Kind: "mine", Direction: "north"},
		{Kind: "send_message", Payload: []int{1, 2, 3}, Cost: 1},
	} {
		ctx := robotCtx("3")
		postJSON(ctx, req)
		h.robotAction(context.Background(), ctx)
		engine, err := h.Matches.Get("m1")
		if err != nil {
			t.Fatalf("get engine: %v", err)
		}
		if err := engine.EndRound(context.Background()); err != nil {
			t.Fatalf("end round: %v", err)
		}
	}

	resp, err := h.ReplayUC.Execute(context.Background(), replay.Request{MatchID: "m1"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(resp.Events) == 0 {
		t.Fatal("expected flushed events")
	}
	for _, ev := range resp.Events {
		b, err := json.Marshal(ev)
		if err != nil {
			t.Fatalf("marshal event: %v", err)
		}
		var doc any
		if err := json.Unmarshal(b, &doc); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if err := schema.Validate(doc); err != nil {
			t.Fatalf("event %s violates schema: %v\n%s", ev.Type, err, b)
		}
	}
}

func TestErrorEnvelopeMatchesSchema(t *testing.T) {
	schema := compileSchema(t, "error.schema.json")

	for _, err := range []error{
		game.Reject(game.ErrNotReady, "cooldown"),
		game.Reject(game.ErrNoSuchRobot, "gone"),
		game.Reject(game.ErrInvalidRound, "future"),
	} {
		ctx := &app.RequestContext{}
		writeError(ctx, err)
		var doc any
		if jsonErr := json.Unmarshal(ctx.Response.Body(), &doc); jsonErr != nil {
			t.Fatalf("unmarshal: %v", jsonErr)
		}
		if schemaErr := schema.Validate(doc); schemaErr != nil {
			t.Fatalf("%v envelope violates schema: %v", err, schemaErr)
		}
	}
}
