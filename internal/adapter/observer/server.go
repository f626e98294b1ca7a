// Package observer streams flushed round events to websocket spectators.
// Observers are read-only: they see the committed event log and nothing
// else.
package observer

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gearverse/internal/domain/game"
)

const writeTimeout = 5 * time.Second

type roundFrame struct {
	Type    string       `json:"type"`
	MatchID string       `json:"match_id"`
	Round   int          `json:"round"`
	Events  []game.Event `json:"events"`
}

type subscriber struct {
	matchID string
	out     chan []byte
}

// Server is a fan-out hub. PublishRound never blocks the engine: a
// subscriber that cannot keep up gets disconnected instead.
type Server struct {
	log *log.Logger

	mu   sync.Mutex
	subs map[*subscriber]struct{}

	upgrader websocket.Upgrader
}

func NewServer(logger *log.Logger) *Server {
	return &Server{
		log:  logger,
		subs: map[*subscriber]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  8 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// PublishRound implements the round sink port.
func (s *Server) PublishRound(matchID string, round int, events []game.Event) {
	frame, err := json.Marshal(roundFrame{
		Type:    "ROUND",
		MatchID: matchID,
		Round:   round,
		Events:  events,
	})
	if err != nil {
		s.log.Printf("observer: marshal round %d: %v", round, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		if sub.matchID != matchID {
			continue
		}
		select {
		case sub.out <- frame:
		default:
			// Slow consumer; close its channel and let the writer exit.
			delete(s.subs, sub)
			close(sub.out)
		}
	}
}

// WSHandler serves GET /ws/match/{id}.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		matchID := strings.TrimPrefix(r.URL.Path, "/ws/match/")
		if matchID == "" || strings.Contains(matchID, "/") {
			http.Error(rw, "match id required", http.StatusBadRequest)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sub := &subscriber{matchID: matchID, out: make(chan []byte, 64)}
		s.mu.Lock()
		s.subs[sub] = struct{}{}
		s.mu.Unlock()
		defer s.remove(sub)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for frame := range sub.out {
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return
				}
			}
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"),
				time.Now().Add(time.Second))
		}()

		// Reader loop exists only to notice the peer going away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		s.remove(sub)
		<-done
	}
}

func (s *Server) remove(sub *subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub]; ok {
		delete(s.subs, sub)
		close(sub.out)
	}
}
