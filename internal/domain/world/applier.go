package world

import (
	"fmt"

	"gearverse/internal/domain/game"
)

// SoupMiningRate is how much soup one mine action extracts, capped by the
// tile and the miner's remaining capacity.
const SoupMiningRate = 3

// DirtPerAction is moved by one dig or one deposit.
const DirtPerAction = 1

// Apply mutates the world for an already-validated action. Mutation order
// within one action is fixed: resources first, then spatial occupancy, then
// robot state, then cooldown, then events. An error here is an internal
// defect, never a rule rejection.
func Apply(w *World, robot *game.Robot, action game.Action) error {
	switch action.Kind {
	case game.ActionMove:
		applyMove(w, robot, action.Direction)
	case game.ActionBuild:
		if err := applyBuild(w, robot, action.TargetType, action.Direction); err != nil {
			return err
		}
	case game.ActionMine:
		applyMine(w, robot, action.Direction)
	case game.ActionRefine:
		applyRefine(w, robot, action.Direction, action.Amount)
	case game.ActionDig:
		applyDig(w, robot, action.Direction)
	case game.ActionDeposit:
		applyDeposit(w, robot, action.Direction)
	case game.ActionPickUp:
		applyPickUp(w, robot, action.TargetID)
	case game.ActionDrop:
		applyDrop(w, robot, action.Direction)
	case game.ActionSendMessage:
		if err := applySendMessage(w, robot, action.Payload, action.Cost); err != nil {
			return err
		}
	case game.ActionDisintegrate:
		applyDisintegrate(w, robot)
		return nil
	case game.ActionResign:
		applyResign(w, robot)
		return nil
	default:
		return fmt.Errorf("applier received unknown action %q", action.Kind)
	}
	advanceCooldown(robot, action.Kind)
	return nil
}

func advanceCooldown(robot *game.Robot, kind game.ActionKind) {
	if cd, ok := robot.Type.CooldownFor(kind); ok {
		robot.Cooldown += cd
	}
}

func applyMove(w *World, robot *game.Robot, dir game.Direction) {
	from := robot.Location
	to := from.Add(dir)
	w.spatial.Move(robot.ID, from, to)
	robot.Location = to
	w.emit(robot.ID, game.EventMoved, map[string]any{
		"from_x": from.X, "from_y": from.Y,
		"to_x": to.X, "to_y": to.Y,
	})
}

func applyBuild(w *World, builder *game.Robot, target game.RobotType, dir game.Direction) error {
	if err := w.ledger.Spend(builder.Team, target.Cost()); err != nil {
		return fmt.Errorf("applier build spend: %w", err)
	}
	loc := builder.Location.Add(dir)
	built := w.registry.Create(builder.Team, target, loc)
	w.spatial.Insert(built.ID, built.Location)
	w.emit(builder.ID, game.EventBuilt, map[string]any{
		"built_id": int(built.ID),
		"type":     target.String(),
		"cost":     target.Cost(),
		"x":        loc.X, "y": loc.Y,
	})
	w.emit(built.ID, game.EventSpawned, map[string]any{
		"team": built.Team.String(),
		"type": built.Type.String(),
		"x":    loc.X, "y": loc.Y,
	})
	return nil
}

func applyMine(w *World, robot *game.Robot, dir game.Direction) {
	loc := robot.Location.Add(dir)
	amount := SoupMiningRate
	if remaining := w.soup[loc]; amount > remaining {
		amount = remaining
	}
	if room := robot.Type.SoupCapacity() - robot.Soup; amount > room {
		amount = room
	}
	w.soup[loc] -= amount
	if w.soup[loc] == 0 {
		delete(w.soup, loc)
	}
	robot.Soup += amount
	w.emit(robot.ID, game.EventMined, map[string]any{
		"x": loc.X, "y": loc.Y, "amount": amount,
	})
}

func applyRefine(w *World, robot *game.Robot, dir game.Direction, amount int) {
	if amount > robot.Soup {
		amount = robot.Soup
	}
	robot.Soup -= amount
	w.ledger.Credit(robot.Team, amount)
	loc := robot.Location.Add(dir)
	w.emit(robot.ID, game.EventRefined, map[string]any{
		"x": loc.X, "y": loc.Y, "amount": amount,
	})
}

func applyDig(w *World, robot *game.Robot, dir game.Direction) {
	loc := robot.Location.Add(dir)
	w.elevation[loc] -= DirtPerAction
	robot.Dirt += DirtPerAction
	w.emit(robot.ID, game.EventDug, map[string]any{
		"x": loc.X, "y": loc.Y, "elevation": w.elevation[loc],
	})
}

func applyDeposit(w *World, robot *game.Robot, dir game.Direction) {
	loc := robot.Location.Add(dir)
	w.elevation[loc] += DirtPerAction
	robot.Dirt -= DirtPerAction
	w.emit(robot.ID, game.EventDeposited, map[string]any{
		"x": loc.X, "y": loc.Y, "elevation": w.elevation[loc],
	})
}

// applyPickUp transfers ownership of the target from the spatial index to
// the holder. The held robot keeps no authoritative location until dropped.
func applyPickUp(w *World, robot *game.Robot, id game.RobotID) {
	target, _ := w.registry.Get(id)
	w.spatial.Remove(target.Location)
	target.HeldBy = robot.ID
	robot.Holding = target.ID
	w.emit(robot.ID, game.EventPickedUp, map[string]any{
		"target_id": int(target.ID),
	})
}

func applyDrop(w *World, robot *game.Robot, dir game.Direction) {
	target, _ := w.registry.Get(robot.Holding)
	loc := robot.Location.Add(dir)
	target.Location = loc
	target.HeldBy = 0
	robot.Holding = 0
	w.spatial.Insert(target.ID, loc)
	w.emit(robot.ID, game.EventDropped, map[string]any{
		"target_id": int(target.ID),
		"x":         loc.X, "y": loc.Y,
	})
}

func applySendMessage(w *World, robot *game.Robot, payload []int, cost int) error {
	if err := w.ledger.Spend(robot.Team, cost); err != nil {
		return fmt.Errorf("applier message spend: %w", err)
	}
	msg := game.Message{
		Round:   w.round,
		Sender:  robot.ID,
		Cost:    cost,
		Payload: append([]int(nil), payload...),
	}
	w.messages.Append(msg)
	w.emit(robot.ID, game.EventMessageSent, map[string]any{
		"cost":    cost,
		"payload": msg.Payload,
	})
	return nil
}

func applyDisintegrate(w *World, robot *game.Robot) {
	w.emit(robot.ID, game.EventDisintegrated, nil)
	DestroyRobot(w, robot.ID)
}

func applyResign(w *World, robot *game.Robot) {
	if w.resigned[robot.Team] {
		return
	}
	w.resigned[robot.Team] = true
	w.emit(robot.ID, game.EventResigned, map[string]any{
		"team": robot.Team.String(),
	})
}

// DestroyRobot removes a robot and anything it is holding, emitting a death
// event for each body destroyed.
func DestroyRobot(w *World, id game.RobotID) {
	robot, ok := w.registry.Get(id)
	if !ok {
		return
	}
	if robot.IsHoldingUnit() {
		held := robot.Holding
		robot.Holding = 0
		DestroyRobot(w, held)
	}
	if holder, ok := w.registry.Get(robot.HeldBy); ok {
		holder.Holding = 0
	}
	if !robot.IsHeld() {
		if occupant, ok := w.spatial.At(robot.Location); ok && occupant == id {
			w.spatial.Remove(robot.Location)
		}
	}
	w.registry.Destroy(id)
	w.emit(id, game.EventDied, map[string]any{
		"team": robot.Team.String(),
		"type": robot.Type.String(),
	})
}

// EmitIndicatorDot records a debug dot. Pure observer side-channel.
func (w *World) EmitIndicatorDot(id game.RobotID, loc game.Location, r, g, b int) {
	w.emit(id, game.EventIndicatorDot, map[string]any{
		"x": loc.X, "y": loc.Y, "red": r, "green": g, "blue": b,
	})
}

// EmitIndicatorLine records a debug line. Pure observer side-channel.
func (w *World) EmitIndicatorLine(id game.RobotID, from, to game.Location, r, g, b int) {
	w.emit(id, game.EventIndicatorLine, map[string]any{
		"from_x": from.X, "from_y": from.Y,
		"to_x": to.X, "to_y": to.Y,
		"red": r, "green": g, "blue": b,
	})
}

// EmitMatchOver records the terminal event.
func (w *World) EmitMatchOver(winner game.Team, reason game.WinReason) {
	w.emit(0, game.EventMatchOver, map[string]any{
		"winner": winner.String(),
		"reason": string(reason),
	})
}
