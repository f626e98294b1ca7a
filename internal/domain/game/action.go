package game

type ActionKind string

const (
	ActionMove         ActionKind = "move"
	ActionBuild        ActionKind = "build"
	ActionMine         ActionKind = "mine"
	ActionRefine       ActionKind = "refine"
	ActionDig          ActionKind = "dig"
	ActionDeposit      ActionKind = "deposit"
	ActionPickUp       ActionKind = "pick_up"
	ActionDrop         ActionKind = "drop"
	ActionSendMessage  ActionKind = "send_message"
	ActionDisintegrate ActionKind = "disintegrate"
	ActionResign       ActionKind = "resign"
)

// Action is one proposed action for one robot in one round. Fields beyond
// Kind are read only by the kinds that need them.
type Action struct {
	Kind       ActionKind
	Direction  Direction
	TargetType RobotType // build
	TargetID   RobotID   // pick_up
	Amount     int       // refine
	Payload    []int     // send_message
	Cost       int       // send_message
}

func knownActionKinds() map[ActionKind]struct{} {
	return map[ActionKind]struct{}{
		ActionMove:         {},
		ActionBuild:        {},
		ActionMine:         {},
		ActionRefine:       {},
		ActionDig:          {},
		ActionDeposit:      {},
		ActionPickUp:       {},
		ActionDrop:         {},
		ActionSendMessage:  {},
		ActionDisintegrate: {},
		ActionResign:       {},
	}
}

func (k ActionKind) Known() bool {
	_, ok := knownActionKinds()[k]
	return ok
}

// NeverFails reports whether the action is documented to always succeed for
// a live robot. Validation short-circuits for these.
func (k ActionKind) NeverFails() bool {
	return k == ActionDisintegrate || k == ActionResign
}
