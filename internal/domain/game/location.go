package game

// Location is an integer grid coordinate on the match map.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceSquaredTo avoids floating point entirely; all radius checks in the
// engine compare squared distances.
func (l Location) DistanceSquaredTo(o Location) int {
	dx := l.X - o.X
	dy := l.Y - o.Y
	return dx*dx + dy*dy
}

func (l Location) Add(d Direction) Location {
	return Location{X: l.X + d.DX(), Y: l.Y + d.DY()}
}

// Less orders locations by x then y, the canonical order for query results.
func (l Location) Less(o Location) bool {
	if l.X != o.X {
		return l.X < o.X
	}
	return l.Y < o.Y
}

type Direction int

const (
	North Direction = iota
	Northeast
	East
	Southeast
	South
	Southwest
	West
	Northwest
	Center
)

var directionNames = [...]string{
	"north", "northeast", "east", "southeast",
	"south", "southwest", "west", "northwest", "center",
}

var dxByDirection = [...]int{0, 1, 1, 1, 0, -1, -1, -1, 0}
var dyByDirection = [...]int{1, 1, 0, -1, -1, -1, 0, 1, 0}

func (d Direction) DX() int { return dxByDirection[d] }
func (d Direction) DY() int { return dyByDirection[d] }

func (d Direction) String() string {
	if d < North || d > Center {
		return "unknown"
	}
	return directionNames[d]
}

func (d Direction) Valid() bool {
	return d >= North && d <= Center
}

// ParseDirection maps the wire name back to a Direction. The empty string is
// not a direction; callers treat a false return as a bad request.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return Center, false
}
