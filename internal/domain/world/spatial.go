package world

import (
	"sort"

	"gearverse/internal/domain/game"
)

// SpatialIndex maps occupied locations to the robot standing there. Held
// robots are absent from the index; at most one robot occupies a location.
type SpatialIndex struct {
	byLocation map[game.Location]game.RobotID
}

func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{byLocation: make(map[game.Location]game.RobotID)}
}

func (s *SpatialIndex) Insert(id game.RobotID, loc game.Location) {
	s.byLocation[loc] = id
}

func (s *SpatialIndex) Remove(loc game.Location) {
	delete(s.byLocation, loc)
}

func (s *SpatialIndex) Move(id game.RobotID, from, to game.Location) {
	delete(s.byLocation, from)
	s.byLocation[to] = id
}

func (s *SpatialIndex) Occupied(loc game.Location) bool {
	_, ok := s.byLocation[loc]
	return ok
}

func (s *SpatialIndex) At(loc game.Location) (game.RobotID, bool) {
	id, ok := s.byLocation[loc]
	return id, ok
}

type nearbyHit struct {
	id     game.RobotID
	distSq int
}

// Nearby returns ids of robots with squared distance to center ≤ radiusSq,
// ordered by ascending squared distance, ties broken by ascending id. The
// scan walks the bounding square of the radius, so cost follows candidates
// examined rather than total robot count.
func (s *SpatialIndex) Nearby(center game.Location, radiusSq int) []game.RobotID {
	if radiusSq < 0 {
		return nil
	}
	r := isqrt(radiusSq)
	hits := make([]nearbyHit, 0, 8)
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			loc := game.Location{X: center.X + dx, Y: center.Y + dy}
			id, ok := s.byLocation[loc]
			if !ok {
				continue
			}
			distSq := center.DistanceSquaredTo(loc)
			if distSq > radiusSq {
				continue
			}
			hits = append(hits, nearbyHit{id: id, distSq: distSq})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].distSq != hits[j].distSq {
			return hits[i].distSq < hits[j].distSq
		}
		return hits[i].id < hits[j].id
	})
	out := make([]game.RobotID, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
