package world

import (
	"fmt"
	"hash/fnv"
	"sort"

	"gearverse/internal/domain/game"
)

// RobotSeed places one robot in the initial snapshot.
type RobotSeed struct {
	Team     game.Team
	Type     game.RobotType
	Location game.Location
}

// SoupDeposit seeds a mineable tile.
type SoupDeposit struct {
	Location game.Location
	Amount   int
}

// Snapshot is the already-parsed initial world the engine consumes. Map
// parsing lives outside the core.
type Snapshot struct {
	Width       int
	Height      int
	InitialSoup int
	Robots      []RobotSeed
	Soup        []SoupDeposit
	Elevation   map[game.Location]int
}

// CooldownDecayPerRound is subtracted from every robot's cooldown at the
// start of a round, floored at zero.
const CooldownDecayPerRound = 1

// World is the single explicitly owned simulation context. It is created at
// match start, mutated only through the validator/applier under the turn
// engine, and torn down with the match.
type World struct {
	width  int
	height int
	round  int

	registry *Registry
	spatial  *SpatialIndex
	ledger   *Ledger
	messages *MessageLog

	soup      map[game.Location]int
	elevation map[game.Location]int

	events []game.Event
	seq    int

	resigned map[game.Team]bool
}

func New(snap Snapshot) (*World, error) {
	if snap.Width <= 0 || snap.Height <= 0 {
		return nil, fmt.Errorf("bad map dimensions %dx%d", snap.Width, snap.Height)
	}
	w := &World{
		width:     snap.Width,
		height:    snap.Height,
		registry:  NewRegistry(),
		spatial:   NewSpatialIndex(),
		ledger:    NewLedger(snap.InitialSoup),
		messages:  NewMessageLog(),
		soup:      make(map[game.Location]int),
		elevation: make(map[game.Location]int),
		resigned:  make(map[game.Team]bool),
	}
	for _, d := range snap.Soup {
		if !w.OnMap(d.Location) || d.Amount <= 0 {
			return nil, fmt.Errorf("bad soup deposit at %+v", d.Location)
		}
		w.soup[d.Location] = d.Amount
	}
	for loc, e := range snap.Elevation {
		w.elevation[loc] = e
	}
	for _, seed := range snap.Robots {
		if !w.OnMap(seed.Location) {
			return nil, fmt.Errorf("robot seed off map at %+v", seed.Location)
		}
		if w.spatial.Occupied(seed.Location) {
			return nil, fmt.Errorf("robot seed collision at %+v", seed.Location)
		}
		robot := w.registry.Create(seed.Team, seed.Type, seed.Location)
		w.spatial.Insert(robot.ID, robot.Location)
		w.emit(robot.ID, game.EventSpawned, map[string]any{
			"team": robot.Team.String(),
			"type": robot.Type.String(),
			"x":    robot.Location.X,
			"y":    robot.Location.Y,
		})
	}
	return w, nil
}

func (w *World) Round() int { return w.round }

func (w *World) OnMap(loc game.Location) bool {
	return loc.X >= 0 && loc.X < w.width && loc.Y >= 0 && loc.Y < w.height
}

func (w *World) SoupAt(loc game.Location) int      { return w.soup[loc] }
func (w *World) ElevationAt(loc game.Location) int { return w.elevation[loc] }

func (w *World) TeamSoup(team game.Team) int  { return w.ledger.Balance(team) }
func (w *World) RobotCount(team game.Team) int { return w.registry.Count(team) }

func (w *World) HasResigned(team game.Team) bool { return w.resigned[team] }

func (w *World) Robot(id game.RobotID) (*game.Robot, bool) {
	return w.registry.Get(id)
}

func (w *World) RobotAt(loc game.Location) (*game.Robot, bool) {
	id, ok := w.spatial.At(loc)
	if !ok {
		return nil, false
	}
	return w.registry.Get(id)
}

func (w *World) RobotIDs() []game.RobotID { return w.registry.IDs() }

// NearbyRobots answers the sorted radius query. team == nil means no team
// filter. The self id is excluded the way sensing always excludes the
// sensing robot.
func (w *World) NearbyRobots(center game.Location, radiusSq int, team *game.Team, exclude game.RobotID) []game.Info {
	ids := w.spatial.Nearby(center, radiusSq)
	out := make([]game.Info, 0, len(ids))
	for _, id := range ids {
		if id == exclude {
			continue
		}
		robot, ok := w.registry.Get(id)
		if !ok {
			continue
		}
		if team != nil && robot.Team != *team {
			continue
		}
		out = append(out, robot.Info())
	}
	return out
}

// Messages reads the broadcast log for a settled round.
func (w *World) Messages(round int) ([]game.Message, error) {
	return w.messages.Read(round, w.round)
}

// BeginRound decays every robot's cooldown by the per-round decay.
func (w *World) BeginRound() {
	for _, id := range w.registry.IDs() {
		robot, ok := w.registry.Get(id)
		if !ok {
			continue
		}
		robot.Cooldown -= CooldownDecayPerRound
		if robot.Cooldown < 0 {
			robot.Cooldown = 0
		}
	}
}

// AdvanceRound moves to the next round after a flush.
func (w *World) AdvanceRound() {
	w.round++
	w.seq = 0
}

// DrainEvents hands the round's event log to the caller and resets it.
func (w *World) DrainEvents() []game.Event {
	out := w.events
	w.events = nil
	return out
}

// RestoreEvents puts a drained batch back in front of anything emitted
// since, for flush retries.
func (w *World) RestoreEvents(events []game.Event) {
	w.events = append(events, w.events...)
}

func (w *World) emit(id game.RobotID, typ game.EventType, payload map[string]any) {
	w.events = append(w.events, game.Event{
		Round:   w.round,
		Seq:     w.seq,
		RobotID: id,
		Type:    typ,
		Payload: payload,
	})
	w.seq++
}

// CheckInvariants runs the cheap world-snapshot invariants. Any failure is a
// fatal defect, never a recoverable rejection.
func (w *World) CheckInvariants() error {
	if err := w.ledger.CheckInvariant(); err != nil {
		return err
	}
	for _, id := range w.registry.IDs() {
		robot, _ := w.registry.Get(id)
		if robot.Cooldown < 0 {
			return fmt.Errorf("robot %d negative cooldown %d", id, robot.Cooldown)
		}
		if robot.IsHeld() {
			continue
		}
		if !w.OnMap(robot.Location) {
			return fmt.Errorf("robot %d off map at %+v", id, robot.Location)
		}
		occupant, ok := w.spatial.At(robot.Location)
		if !ok || occupant != id {
			return fmt.Errorf("robot %d not indexed at %+v", id, robot.Location)
		}
	}
	return nil
}

// Digest is a stable hash over the full world state: round, ledger, robots,
// soup and elevation grids, resignations, and the message log. Identical
// action sequences must produce identical digests.
func (w *World) Digest() uint64 {
	h := fnv.New64a()
	write := func(vals ...int) {
		var buf [8]byte
		for _, v := range vals {
			u := uint64(int64(v))
			for i := 0; i < 8; i++ {
				buf[i] = byte(u >> (8 * i))
			}
			_, _ = h.Write(buf[:])
		}
	}
	flag := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	write(w.round, w.ledger.Balance(game.TeamA), w.ledger.Balance(game.TeamB))
	write(flag(w.resigned[game.TeamA]), flag(w.resigned[game.TeamB]))
	for _, id := range w.registry.IDs() {
		robot, _ := w.registry.Get(id)
		write(int(robot.ID), int(robot.Team), int(robot.Type),
			robot.Location.X, robot.Location.Y,
			robot.Soup, robot.Dirt, robot.Cooldown,
			int(robot.HeldBy), int(robot.Holding))
	}
	for _, loc := range sortedGridKeys(w.soup) {
		write(loc.X, loc.Y, w.soup[loc])
	}
	for _, loc := range sortedGridKeys(w.elevation) {
		write(loc.X, loc.Y, w.elevation[loc])
	}
	rounds := make([]int, 0, len(w.messages.byRound))
	for r := range w.messages.byRound {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)
	for _, r := range rounds {
		for _, msg := range w.messages.byRound[r] {
			write(r, int(msg.Sender), msg.Cost)
			write(msg.Payload...)
		}
	}
	return h.Sum64()
}

func sortedGridKeys(grid map[game.Location]int) []game.Location {
	keys := make([]game.Location, 0, len(grid))
	for loc := range grid {
		keys = append(keys, loc)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}
