package world

import (
	"testing"

	"gearverse/internal/domain/game"
)

func TestSpatialIndexOccupancy(t *testing.T) {
	s := NewSpatialIndex()
	loc := game.Location{X: 2, Y: 3}
	s.Insert(7, loc)

	if !s.Occupied(loc) {
		t.Fatal("inserted location should be occupied")
	}
	if id, ok := s.At(loc); !ok || id != 7 {
		t.Fatalf("At: got=%d ok=%v", id, ok)
	}

	to := game.Location{X: 3, Y: 3}
	s.Move(7, loc, to)
	if s.Occupied(loc) {
		t.Fatal("origin should be free after move")
	}
	if id, _ := s.At(to); id != 7 {
		t.Fatal("robot should occupy move target")
	}

	s.Remove(to)
	if s.Occupied(to) {
		t.Fatal("removed location should be free")
	}
}

func TestNearbyOrderedByDistanceThenID(t *testing.T) {
	s := NewSpatialIndex()
	center := game.Location{X: 5, Y: 5}
	s.Insert(9, game.Location{X: 5, Y: 7}) // distSq 4
	s.Insert(2, game.Location{X: 6, Y: 5}) // distSq 1
	s.Insert(4, game.Location{X: 5, Y: 4}) // distSq 1, ties with id 2
	s.Insert(1, game.Location{X: 9, Y: 9}) // distSq 32, outside

	got := s.Nearby(center, 8)
	want := []game.RobotID{2, 4, 9}
	if len(got) != len(want) {
		t.Fatalf("nearby count: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("nearby[%d]: got=%d want=%d", i, got[i], want[i])
		}
	}
}

func TestNearbyRadiusEdge(t *testing.T) {
	s := NewSpatialIndex()
	center := game.Location{X: 0, Y: 0}
	s.Insert(1, game.Location{X: 3, Y: 4}) // distSq exactly 25

	if got := s.Nearby(center, 25); len(got) != 1 {
		t.Fatalf("boundary robot should be included, got %d hits", len(got))
	}
	if got := s.Nearby(center, 24); len(got) != 0 {
		t.Fatalf("robot past the radius should be excluded, got %d hits", len(got))
	}
	if got := s.Nearby(center, -1); got != nil {
		t.Fatal("negative radius senses nothing")
	}
}
