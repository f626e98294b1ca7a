package game

type Team int8

const (
	TeamA Team = iota
	TeamB
	TeamNeutral
)

var teamNames = [...]string{"A", "B", "neutral"}

func (t Team) String() string {
	if t < TeamA || t > TeamNeutral {
		return "unknown"
	}
	return teamNames[t]
}

func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	default:
		return TeamNeutral
	}
}

// Playing reports whether the team owns resources and can act.
func (t Team) Playing() bool {
	return t == TeamA || t == TeamB
}

// MarshalJSON keeps teams as their wire names on every JSON surface.
func (t Team) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func ParseTeam(s string) (Team, bool) {
	switch s {
	case "A":
		return TeamA, true
	case "B":
		return TeamB, true
	case "neutral":
		return TeamNeutral, true
	default:
		return TeamNeutral, false
	}
}
