package world

import (
	"fmt"

	"gearverse/internal/domain/game"
)

// PickUpRadiusSq bounds how far a carrier can reach for a unit.
const PickUpRadiusSq = 8

// Validate decides, without side effects, whether the robot may perform the
// action right now. nil means legal; otherwise the returned error wraps one
// taxonomy sentinel with a specific detail. The applier must only ever see
// actions this function admitted.
func Validate(w *World, robot *game.Robot, action game.Action) error {
	if robot == nil {
		return game.Reject(game.ErrNoSuchRobot, "robot destroyed or never existed")
	}
	if action.Kind.NeverFails() {
		return nil
	}
	if robot.IsHeld() {
		return game.Reject(game.ErrInvalidTarget, "robot is being carried")
	}
	if !robot.Team.Playing() {
		return game.Reject(game.ErrInvalidTarget, "neutral units cannot act")
	}
	if !robot.IsReady() {
		return game.Reject(game.ErrNotReady,
			fmt.Sprintf("%d cooldown turns remaining", robot.Cooldown))
	}
	if _, able := robot.Type.CooldownFor(action.Kind); !able {
		return game.Reject(game.ErrInvalidTarget,
			fmt.Sprintf("%s cannot %s", robot.Type, action.Kind))
	}

	switch action.Kind {
	case game.ActionMove:
		return validateMove(w, robot, action.Direction)
	case game.ActionBuild:
		return validateBuild(w, robot, action.TargetType, action.Direction)
	case game.ActionMine:
		return validateMine(w, robot, action.Direction)
	case game.ActionRefine:
		return validateRefine(w, robot, action.Direction, action.Amount)
	case game.ActionDig:
		return validateDig(w, robot, action.Direction)
	case game.ActionDeposit:
		return validateDeposit(w, robot, action.Direction)
	case game.ActionPickUp:
		return validatePickUp(w, robot, action.TargetID)
	case game.ActionDrop:
		return validateDrop(w, robot, action.Direction)
	case game.ActionSendMessage:
		return validateSendMessage(w, robot, action.Payload, action.Cost)
	default:
		return game.Reject(game.ErrInvalidTarget, fmt.Sprintf("unknown action %q", action.Kind))
	}
}

func validateMove(w *World, robot *game.Robot, dir game.Direction) error {
	if !dir.Valid() || dir == game.Center {
		return game.Reject(game.ErrInvalidLocation, "not a movement direction")
	}
	target := robot.Location.Add(dir)
	if !w.OnMap(target) {
		return game.Reject(game.ErrInvalidLocation, "target off map")
	}
	if robot.Location.DistanceSquaredTo(target) > robot.Type.StrideRadiusSq() {
		return game.Reject(game.ErrOutOfRange, "beyond stride radius")
	}
	if w.spatial.Occupied(target) {
		return game.Reject(game.ErrInvalidLocation, "target occupied")
	}
	return nil
}

func validateBuild(w *World, robot *game.Robot, target game.RobotType, dir game.Direction) error {
	if !target.Valid() || !robot.Type.CanBuild(target) {
		return game.Reject(game.ErrInvalidTarget,
			fmt.Sprintf("%s cannot build %s", robot.Type, target))
	}
	if !dir.Valid() || dir == game.Center {
		return game.Reject(game.ErrInvalidLocation, "not a build direction")
	}
	loc := robot.Location.Add(dir)
	if !w.OnMap(loc) {
		return game.Reject(game.ErrInvalidLocation, "build target off map")
	}
	if w.spatial.Occupied(loc) {
		return game.Reject(game.ErrInvalidLocation, "build target occupied")
	}
	if !w.ledger.CanSpend(robot.Team, target.Cost()) {
		return game.Reject(game.ErrInsufficientResources,
			fmt.Sprintf("%s costs %d, team %s has %d",
				target, target.Cost(), robot.Team, w.ledger.Balance(robot.Team)))
	}
	return nil
}

func validateMine(w *World, robot *game.Robot, dir game.Direction) error {
	if !dir.Valid() {
		return game.Reject(game.ErrInvalidLocation, "not a mine direction")
	}
	loc := robot.Location.Add(dir)
	if !w.OnMap(loc) {
		return game.Reject(game.ErrInvalidLocation, "mine target off map")
	}
	if w.SoupAt(loc) <= 0 {
		return game.Reject(game.ErrInvalidTarget, "no soup to mine there")
	}
	if robot.Soup >= robot.Type.SoupCapacity() {
		return game.Reject(game.ErrInsufficientResources, "soup carrying capacity full")
	}
	return nil
}

func validateRefine(w *World, robot *game.Robot, dir game.Direction, amount int) error {
	if amount <= 0 {
		return game.Reject(game.ErrInsufficientResources, "refine amount must be positive")
	}
	if robot.Soup <= 0 {
		return game.Reject(game.ErrInsufficientResources, "no crude soup to refine")
	}
	if !dir.Valid() {
		return game.Reject(game.ErrInvalidLocation, "not a refine direction")
	}
	loc := robot.Location.Add(dir)
	target, ok := w.RobotAt(loc)
	if !ok || !target.Type.AcceptsRefinedSoup() {
		return game.Reject(game.ErrInvalidTarget, "no refinery in that direction")
	}
	if target.Team != robot.Team {
		return game.Reject(game.ErrInvalidTarget, "refinery belongs to another team")
	}
	return nil
}

func validateDig(w *World, robot *game.Robot, dir game.Direction) error {
	if !dir.Valid() {
		return game.Reject(game.ErrInvalidLocation, "not a dig direction")
	}
	loc := robot.Location.Add(dir)
	if !w.OnMap(loc) {
		return game.Reject(game.ErrInvalidLocation, "dig target off map")
	}
	if robot.Dirt >= robot.Type.DirtCapacity() {
		return game.Reject(game.ErrInsufficientResources, "dirt carrying capacity full")
	}
	if dir != game.Center && w.spatial.Occupied(loc) {
		return game.Reject(game.ErrInvalidLocation, "cannot dig under a robot")
	}
	return nil
}

func validateDeposit(w *World, robot *game.Robot, dir game.Direction) error {
	if !dir.Valid() {
		return game.Reject(game.ErrInvalidLocation, "not a deposit direction")
	}
	if robot.Dirt <= 0 {
		return game.Reject(game.ErrInsufficientResources, "no dirt to deposit")
	}
	if !w.OnMap(robot.Location.Add(dir)) {
		return game.Reject(game.ErrInvalidLocation, "deposit target off map")
	}
	return nil
}

func validatePickUp(w *World, robot *game.Robot, id game.RobotID) error {
	if robot.IsHoldingUnit() {
		return game.Reject(game.ErrInvalidTarget, "already holding a unit")
	}
	target, ok := w.Robot(id)
	if !ok {
		return game.Reject(game.ErrNoSuchRobot, fmt.Sprintf("no robot %d", id))
	}
	if target.ID == robot.ID {
		return game.Reject(game.ErrInvalidTarget, "cannot pick up self")
	}
	if target.IsHeld() {
		return game.Reject(game.ErrInvalidTarget, "target already carried")
	}
	if !target.Type.Poolable() {
		return game.Reject(game.ErrInvalidTarget,
			fmt.Sprintf("%s cannot be picked up", target.Type))
	}
	if robot.Location.DistanceSquaredTo(target.Location) > PickUpRadiusSq {
		return game.Reject(game.ErrOutOfRange, "target beyond pickup radius")
	}
	return nil
}

func validateDrop(w *World, robot *game.Robot, dir game.Direction) error {
	if !robot.IsHoldingUnit() {
		return game.Reject(game.ErrInvalidTarget, "not holding a unit")
	}
	if !dir.Valid() || dir == game.Center {
		return game.Reject(game.ErrInvalidLocation, "not a drop direction")
	}
	loc := robot.Location.Add(dir)
	if !w.OnMap(loc) {
		return game.Reject(game.ErrInvalidLocation, "drop target off map")
	}
	if w.spatial.Occupied(loc) {
		return game.Reject(game.ErrInvalidLocation, "drop target occupied")
	}
	return nil
}

func validateSendMessage(w *World, robot *game.Robot, payload []int, cost int) error {
	if len(payload) > game.MaxMessagePayload {
		return game.Reject(game.ErrInvalidTarget,
			fmt.Sprintf("payload exceeds %d integers", game.MaxMessagePayload))
	}
	if cost < game.MinMessageCost {
		return game.Reject(game.ErrInsufficientResources,
			fmt.Sprintf("message cost below minimum %d", game.MinMessageCost))
	}
	if !w.ledger.CanSpend(robot.Team, cost) {
		return game.Reject(game.ErrInsufficientResources,
			fmt.Sprintf("team %s cannot pay %d soup", robot.Team, cost))
	}
	return nil
}
