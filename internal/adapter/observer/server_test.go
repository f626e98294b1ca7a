package observer

import (
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"gearverse/internal/domain/game"
)

func dialObserver(t *testing.T, ts *httptest.Server, matchID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/match/" + matchID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestObserverReceivesRoundFrames(t *testing.T) {
	s := NewServer(log.New(io.Discard, "", 0))
	ts := httptest.NewServer(s.WSHandler())
	defer ts.Close()

	conn := dialObserver(t, ts, "m1")
	defer conn.Close()

	// Give the subscriber a moment to register before publishing.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		n := len(s.subs)
		s.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.PublishRound("m1", 0, []game.Event{
		{Round: 0, Seq: 0, RobotID: 1, Type: game.EventSpawned},
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var frame roundFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.Type != "ROUND" || frame.MatchID != "m1" || frame.Round != 0 {
		t.Fatalf("frame: %+v", frame)
	}
	if len(frame.Events) != 1 || frame.Events[0].Type != game.EventSpawned {
		t.Fatalf("frame events: %+v", frame.Events)
	}
}

func TestObserverFiltersByMatch(t *testing.T) {
	s := NewServer(log.New(io.Discard, "", 0))
	ts := httptest.NewServer(s.WSHandler())
	defer ts.Close()

	conn := dialObserver(t, ts, "m2")
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		n := len(s.subs)
		s.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.PublishRound("m1", 0, []game.Event{{Type: game.EventSpawned}})
	s.PublishRound("m2", 3, nil)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var frame roundFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.MatchID != "m2" || frame.Round != 3 {
		t.Fatalf("expected only the m2 frame, got %+v", frame)
	}
}

func TestObserverRejectsBadPath(t *testing.T) {
	s := NewServer(log.New(io.Discard, "", 0))
	ts := httptest.NewServer(s.WSHandler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/match/"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatal("expected dial to fail without a match id")
	}
}
