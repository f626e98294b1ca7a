package game

// RobotID is stable for the robot's whole lifetime; ids are never reused
// within a match.
type RobotID int

// Robot is a live entity owned by the robot registry. Location is meaningful
// only while the robot is not held; a held robot keeps its holder's location
// when dropped back onto the map.
type Robot struct {
	ID          RobotID
	Team        Team
	Type        RobotType
	Location    Location
	Soup        int
	Dirt        int
	Cooldown    int
	HeldBy      RobotID // 0 when on the map
	Holding     RobotID // 0 when not carrying a unit
	ControlBits uint64
}

func (r *Robot) IsReady() bool {
	return r.Cooldown == 0
}

func (r *Robot) IsHeld() bool {
	return r.HeldBy != 0
}

func (r *Robot) IsHoldingUnit() bool {
	return r.Holding != 0
}

// Info is the read-only projection of a robot handed to sensing callers.
type Info struct {
	ID          RobotID   `json:"id"`
	Team        Team      `json:"team"`
	Type        RobotType `json:"type"`
	Location    Location  `json:"location"`
	Soup        int       `json:"soup_carrying"`
	Dirt        int       `json:"dirt_carrying"`
	Cooldown    int       `json:"cooldown_turns"`
	HoldingUnit bool      `json:"holding_unit"`
}

func (r *Robot) Info() Info {
	return Info{
		ID:          r.ID,
		Team:        r.Team,
		Type:        r.Type,
		Location:    r.Location,
		Soup:        r.Soup,
		Dirt:        r.Dirt,
		Cooldown:    r.Cooldown,
		HoldingUnit: r.IsHoldingUnit(),
	}
}
