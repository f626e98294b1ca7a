package match

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gearverse/internal/app/ports"
	"gearverse/internal/domain/game"
	"gearverse/internal/domain/world"
)

type State string

const (
	StateAwaitingActions State = "awaiting_actions"
	StateResolving       State = "resolving"
	StateRoundComplete   State = "round_complete"
	StateMatchOver       State = "match_over"
	// StateAborted means an internal invariant failed. The match is frozen
	// for diagnosis; no further actions or rounds are accepted.
	StateAborted State = "aborted"
)

var (
	ErrMatchOver       = errors.New("match is over")
	ErrMatchAborted    = errors.New("match aborted on invariant violation")
	ErrNotAcceptingNow = errors.New("engine not accepting actions")
)

// Tiebreak picks the winner when the round limit is exceeded. The exact
// formula is configuration, not engine architecture.
type Tiebreak func(soupA, soupB, countA, countB int) game.Team

// DefaultTiebreak compares accumulated soup, then robot count, then gives
// the match to team A.
func DefaultTiebreak(soupA, soupB, countA, countB int) game.Team {
	switch {
	case soupA != soupB:
		if soupA > soupB {
			return game.TeamA
		}
		return game.TeamB
	case countA != countB:
		if countA > countB {
			return game.TeamA
		}
		return game.TeamB
	default:
		return game.TeamA
	}
}

type Config struct {
	MatchID    string
	RoundLimit int
	Tiebreak   Tiebreak
}

// Engine orchestrates one match: it owns the world, routes every proposed
// action through the validator and applier, resolves rounds, and flushes the
// event log to the repositories and sinks. It is the only writer of world
// state.
type Engine struct {
	mu sync.Mutex

	cfg   Config
	world *world.World
	state State

	winner    game.Team
	winReason game.WinReason

	// Retry bookkeeping for EndRound: the terminal event is emitted once and
	// each round is flushed once, even when a repository failure forces the
	// caller to call EndRound again.
	overEmitted  bool
	roundFlushed bool

	TxManager ports.TxManager
	Events    ports.EventRepository
	Matches   ports.MatchRepository
	Sinks     []ports.RoundSink
	Metrics   ports.ActionMetrics
	Now       func() time.Time
}

func NewEngine(cfg Config, snap world.Snapshot) (*Engine, error) {
	if cfg.MatchID == "" {
		return nil, fmt.Errorf("match id required")
	}
	if cfg.RoundLimit <= 0 {
		return nil, fmt.Errorf("round limit must be positive")
	}
	if cfg.Tiebreak == nil {
		cfg.Tiebreak = DefaultTiebreak
	}
	w, err := world.New(snap)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:   cfg,
		world: w,
		state: StateAwaitingActions,
	}, nil
}

// Start records the match and must be called once before the first round.
func (e *Engine) Start(ctx context.Context) error {
	if e.Matches == nil {
		return nil
	}
	return e.Matches.Create(ctx, ports.MatchRecord{
		MatchID:    e.cfg.MatchID,
		RoundLimit: e.cfg.RoundLimit,
		StartedAt:  e.now(),
	})
}

func (e *Engine) MatchID() string { return e.cfg.MatchID }
func (e *Engine) RoundLimit() int { return e.cfg.RoundLimit }

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Round() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world.Round()
}

func (e *Engine) TeamSoup(team game.Team) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world.TeamSoup(team)
}

func (e *Engine) RobotCount(team game.Team) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world.RobotCount(team)
}

// Digest exposes the world hash for determinism checks.
func (e *Engine) Digest() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world.Digest()
}

func (e *Engine) Winner() (game.Team, game.WinReason, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateMatchOver {
		return game.TeamNeutral, "", false
	}
	return e.winner, e.winReason, true
}

// Act validates and applies one action for one robot as a single indivisible
// step. A rejection leaves the world untouched and reports the taxonomy
// reason; the robot keeps its turn slot.
func (e *Engine) Act(robotID game.RobotID, action game.Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.acceptingLocked(); err != nil {
		return err
	}
	if !action.Kind.Known() {
		return game.Reject(game.ErrInvalidTarget, fmt.Sprintf("unknown action %q", action.Kind))
	}
	robot, ok := e.world.Robot(robotID)
	if !ok {
		return game.Reject(game.ErrNoSuchRobot, fmt.Sprintf("no robot %d", robotID))
	}
	if err := world.Validate(e.world, robot, action); err != nil {
		if e.Metrics != nil {
			e.Metrics.RecordRejected(game.CodeForError(err))
		}
		return err
	}
	if err := world.Apply(e.world, robot, action); err != nil {
		e.abortLocked(err)
		return fmt.Errorf("%w: %v", ErrMatchAborted, err)
	}
	if err := e.world.CheckInvariants(); err != nil {
		e.abortLocked(err)
		return fmt.Errorf("%w: %v", ErrMatchAborted, err)
	}
	if e.Metrics != nil {
		e.Metrics.RecordAccepted(string(action.Kind))
	}
	return nil
}

// EndRound resolves the current round: win conditions, event flush, cooldown
// decay, and the transition to the next round or to MatchOver. No new round
// begins until the flush has fully completed.
func (e *Engine) EndRound(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.acceptingLocked(); err != nil {
		return err
	}
	e.state = StateResolving

	winner, reason, over := e.evaluateWinLocked()
	if over && !e.overEmitted {
		e.winner = winner
		e.winReason = reason
		e.world.EmitMatchOver(winner, reason)
		e.overEmitted = true
	}

	round := e.world.Round()
	if !e.roundFlushed {
		events := e.world.DrainEvents()
		if err := e.flushLocked(ctx, round, events); err != nil {
			// Leave the events unflushed and the round unresolved; the caller
			// may retry EndRound after the repository recovers.
			e.state = StateAwaitingActions
			e.world.RestoreEvents(events)
			return err
		}
		e.roundFlushed = true
	}
	e.state = StateRoundComplete

	if over {
		if e.Matches != nil {
			endedAt := e.now()
			if err := e.Matches.Finish(ctx, e.cfg.MatchID, round, winner.String(), string(reason), endedAt); err != nil {
				// The round is flushed but the record is still open; let the
				// caller retry EndRound until Finish lands.
				e.state = StateAwaitingActions
				return err
			}
		}
		e.state = StateMatchOver
		return nil
	}

	e.world.AdvanceRound()
	e.world.BeginRound()
	e.state = StateAwaitingActions
	e.roundFlushed = false
	return nil
}

func (e *Engine) acceptingLocked() error {
	switch e.state {
	case StateAwaitingActions:
		return nil
	case StateMatchOver:
		return ErrMatchOver
	case StateAborted:
		return ErrMatchAborted
	default:
		return ErrNotAcceptingNow
	}
}

func (e *Engine) abortLocked(cause error) {
	e.state = StateAborted
	if e.Metrics != nil {
		e.Metrics.RecordFailure()
	}
	_ = cause
}

func (e *Engine) evaluateWinLocked() (game.Team, game.WinReason, bool) {
	for _, team := range []game.Team{game.TeamA, game.TeamB} {
		if e.world.HasResigned(team) {
			return team.Opponent(), game.WinByResignation, true
		}
	}
	countA := e.world.RobotCount(game.TeamA)
	countB := e.world.RobotCount(game.TeamB)
	switch {
	case countA == 0 && countB == 0:
		winner := e.cfg.Tiebreak(e.world.TeamSoup(game.TeamA), e.world.TeamSoup(game.TeamB), countA, countB)
		return winner, game.WinByDestruction, true
	case countA == 0:
		return game.TeamB, game.WinByDestruction, true
	case countB == 0:
		return game.TeamA, game.WinByDestruction, true
	}
	if e.world.Round() >= e.cfg.RoundLimit-1 {
		winner := e.cfg.Tiebreak(e.world.TeamSoup(game.TeamA), e.world.TeamSoup(game.TeamB), countA, countB)
		return winner, game.WinByTiebreak, true
	}
	return game.TeamNeutral, "", false
}

func (e *Engine) flushLocked(ctx context.Context, round int, events []game.Event) error {
	if e.Events != nil {
		persist := func(txCtx context.Context) error {
			return e.Events.Append(txCtx, e.cfg.MatchID, events)
		}
		var err error
		if e.TxManager != nil {
			err = e.TxManager.RunInTx(ctx, persist)
		} else {
			err = persist(ctx)
		}
		if err != nil {
			return err
		}
	}
	for _, sink := range e.Sinks {
		sink.PublishRound(e.cfg.MatchID, round, events)
	}
	return nil
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
