package world

import (
	"sort"

	"gearverse/internal/domain/game"
)

// Registry owns every live robot and hands out ids. Ids start at 1 so the
// zero value stays free to mean "no robot" in held-unit references.
type Registry struct {
	robots map[game.RobotID]*game.Robot
	counts map[game.Team]int
	nextID game.RobotID
}

func NewRegistry() *Registry {
	return &Registry{
		robots: make(map[game.RobotID]*game.Robot),
		counts: make(map[game.Team]int),
		nextID: 1,
	}
}

func (r *Registry) Create(team game.Team, typ game.RobotType, loc game.Location) *game.Robot {
	robot := &game.Robot{
		ID:       r.nextID,
		Team:     team,
		Type:     typ,
		Location: loc,
	}
	r.nextID++
	r.robots[robot.ID] = robot
	r.counts[team]++
	return robot
}

func (r *Registry) Get(id game.RobotID) (*game.Robot, bool) {
	robot, ok := r.robots[id]
	return robot, ok
}

func (r *Registry) Destroy(id game.RobotID) {
	robot, ok := r.robots[id]
	if !ok {
		return
	}
	delete(r.robots, id)
	r.counts[robot.Team]--
}

func (r *Registry) Count(team game.Team) int {
	return r.counts[team]
}

// IDs returns all live robot ids in ascending order, the canonical
// processing order for anything that walks the full population.
func (r *Registry) IDs() []game.RobotID {
	out := make([]game.RobotID, 0, len(r.robots))
	for id := range r.robots {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
