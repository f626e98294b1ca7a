package game

type RobotType int8

const (
	HQ RobotType = iota
	Miner
	Refinery
	DesignSchool
	FulfillmentCenter
	Landscaper
	DeliveryDrone
	Cow
)

var robotTypeNames = [...]string{
	"hq", "miner", "refinery", "design_school",
	"fulfillment_center", "landscaper", "delivery_drone", "cow",
}

func (t RobotType) String() string {
	if t < HQ || t > Cow {
		return "unknown"
	}
	return robotTypeNames[t]
}

func (t RobotType) Valid() bool {
	return t >= HQ && t <= Cow
}

// MarshalJSON keeps robot types as their wire names on every JSON surface.
func (t RobotType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func ParseRobotType(s string) (RobotType, bool) {
	for i, name := range robotTypeNames {
		if name == s {
			return RobotType(i), true
		}
	}
	return Cow, false
}

// typeInfo is the static per-type constant table. Behavior differences
// between types are branches over this data, never methods on the types.
type typeInfo struct {
	cost           int
	sensorRadiusSq int
	strideRadiusSq int // 0 for buildings and other immobile bodies
	soupCapacity   int
	dirtCapacity   int
	actionCooldown map[ActionKind]int
	builds         []RobotType
	carriesUnits   bool
	poolable       bool // may be picked up by a carrier
	building       bool
}

var typeTable = map[RobotType]typeInfo{
	HQ: {
		cost:           0,
		sensorRadiusSq: 48,
		soupCapacity:   0,
		dirtCapacity:   50,
		building:       true,
		builds:         []RobotType{Miner},
		actionCooldown: map[ActionKind]int{ActionBuild: 10, ActionRefine: 1, ActionSendMessage: 1},
	},
	Miner: {
		cost:           70,
		sensorRadiusSq: 35,
		strideRadiusSq: 2,
		soupCapacity:   40,
		poolable:       true,
		builds:         []RobotType{Refinery, DesignSchool, FulfillmentCenter},
		actionCooldown: map[ActionKind]int{ActionMove: 1, ActionMine: 1, ActionRefine: 1, ActionBuild: 10, ActionSendMessage: 1},
	},
	Refinery: {
		cost:           200,
		sensorRadiusSq: 24,
		building:       true,
		actionCooldown: map[ActionKind]int{ActionRefine: 1, ActionSendMessage: 1},
	},
	DesignSchool: {
		cost:           150,
		sensorRadiusSq: 24,
		building:       true,
		builds:         []RobotType{Landscaper},
		actionCooldown: map[ActionKind]int{ActionBuild: 10, ActionSendMessage: 1},
	},
	FulfillmentCenter: {
		cost:           150,
		sensorRadiusSq: 24,
		building:       true,
		builds:         []RobotType{DeliveryDrone},
		actionCooldown: map[ActionKind]int{ActionBuild: 10, ActionSendMessage: 1},
	},
	Landscaper: {
		cost:           150,
		sensorRadiusSq: 24,
		strideRadiusSq: 2,
		dirtCapacity:   25,
		poolable:       true,
		actionCooldown: map[ActionKind]int{ActionMove: 1, ActionDig: 1, ActionDeposit: 1, ActionSendMessage: 1},
	},
	DeliveryDrone: {
		cost:           150,
		sensorRadiusSq: 24,
		strideRadiusSq: 2,
		carriesUnits:   true,
		actionCooldown: map[ActionKind]int{ActionMove: 1, ActionPickUp: 1, ActionDrop: 1, ActionSendMessage: 1},
	},
	Cow: {
		sensorRadiusSq: 0,
		strideRadiusSq: 2,
		poolable:       true,
	},
}

func (t RobotType) Cost() int           { return typeTable[t].cost }
func (t RobotType) SensorRadiusSq() int { return typeTable[t].sensorRadiusSq }
func (t RobotType) StrideRadiusSq() int { return typeTable[t].strideRadiusSq }
func (t RobotType) SoupCapacity() int   { return typeTable[t].soupCapacity }
func (t RobotType) DirtCapacity() int   { return typeTable[t].dirtCapacity }
func (t RobotType) IsBuilding() bool    { return typeTable[t].building }
func (t RobotType) CarriesUnits() bool  { return typeTable[t].carriesUnits }
func (t RobotType) Poolable() bool      { return typeTable[t].poolable }

// CanBuild reports whether this type is a valid builder for target.
func (t RobotType) CanBuild(target RobotType) bool {
	for _, b := range typeTable[t].builds {
		if b == target {
			return true
		}
	}
	return false
}

// CooldownFor returns the cooldown increment for an action kind, and whether
// the type may perform the action at all.
func (t RobotType) CooldownFor(kind ActionKind) (int, bool) {
	cd, ok := typeTable[t].actionCooldown[kind]
	return cd, ok
}

// AcceptsRefinedSoup reports whether refining against this type credits the
// team ledger. The HQ doubles as a refinery.
func (t RobotType) AcceptsRefinedSoup() bool {
	return t == Refinery || t == HQ
}
