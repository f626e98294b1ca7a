package match

import (
	"fmt"

	"gearverse/internal/domain/game"
	"gearverse/internal/domain/world"
)

// Controller is the per-robot control surface handed to the player host.
// Queries are read-only and free; mutating calls go through the engine's
// validator/applier as indivisible steps. All methods take the engine lock,
// so a query and the action it precedes see the same world only if nothing
// was submitted in between.
type Controller struct {
	engine *Engine
	id     game.RobotID
}

func (e *Engine) Controller(id game.RobotID) *Controller {
	return &Controller{engine: e, id: id}
}

func (c *Controller) robot() (*game.Robot, error) {
	robot, ok := c.engine.world.Robot(c.id)
	if !ok {
		return nil, game.Reject(game.ErrNoSuchRobot, fmt.Sprintf("robot %d destroyed", c.id))
	}
	return robot, nil
}

// ---- global queries ----

func (c *Controller) RoundLimit() int { return c.engine.cfg.RoundLimit }

func (c *Controller) Round() int {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	return c.engine.world.Round()
}

func (c *Controller) TeamSoup() (int, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return 0, err
	}
	return c.engine.world.TeamSoup(robot.Team), nil
}

func (c *Controller) RobotCount() (int, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return 0, err
	}
	return c.engine.world.RobotCount(robot.Team), nil
}

// ---- unit queries ----

func (c *Controller) Self() (game.Info, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return game.Info{}, err
	}
	return robot.Info(), nil
}

func (c *Controller) IsReady() bool {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return false
	}
	return robot.IsReady()
}

func (c *Controller) CooldownTurns() int {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return 0
	}
	return robot.Cooldown
}

func (c *Controller) ControlBits() uint64 {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return 0
	}
	return robot.ControlBits
}

// ---- sensing ----

func (c *Controller) OnTheMap(loc game.Location) bool {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	return c.engine.world.OnMap(loc)
}

func (c *Controller) CanSenseLocation(loc game.Location) bool {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return false
	}
	return robot.Location.DistanceSquaredTo(loc) <= robot.Type.SensorRadiusSq()
}

func (c *Controller) senseLocked(loc game.Location) (*game.Robot, error) {
	robot, err := c.robot()
	if err != nil {
		return nil, err
	}
	if robot.Location.DistanceSquaredTo(loc) > robot.Type.SensorRadiusSq() {
		return robot, game.Reject(game.ErrOutOfRange, "location beyond sensor radius")
	}
	return robot, nil
}

func (c *Controller) IsLocationOccupied(loc game.Location) (bool, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	if _, err := c.senseLocked(loc); err != nil {
		return false, err
	}
	_, occupied := c.engine.world.RobotAt(loc)
	return occupied, nil
}

func (c *Controller) RobotAtLocation(loc game.Location) (game.Info, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	if _, err := c.senseLocked(loc); err != nil {
		return game.Info{}, err
	}
	target, ok := c.engine.world.RobotAt(loc)
	if !ok {
		return game.Info{}, game.Reject(game.ErrNoSuchRobot, "no robot at location")
	}
	return target.Info(), nil
}

func (c *Controller) CanSenseRobot(id game.RobotID) bool {
	_, err := c.SenseRobot(id)
	return err == nil
}

func (c *Controller) SenseRobot(id game.RobotID) (game.Info, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return game.Info{}, err
	}
	target, ok := c.engine.world.Robot(id)
	if !ok || target.IsHeld() {
		return game.Info{}, game.Reject(game.ErrNoSuchRobot, fmt.Sprintf("no robot %d", id))
	}
	if robot.Location.DistanceSquaredTo(target.Location) > robot.Type.SensorRadiusSq() {
		return game.Info{}, game.Reject(game.ErrNoSuchRobot, "robot beyond sensor radius")
	}
	return target.Info(), nil
}

// NearbyRobots senses robots within radiusSq of this robot, ordered by
// ascending distance then id. radiusSq -1 means the full sensor radius;
// team nil means no filter.
func (c *Controller) NearbyRobots(radiusSq int, team *game.Team) ([]game.Info, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return nil, err
	}
	return c.nearbyLocked(robot, robot.Location, radiusSq, team)
}

// NearbyRobotsAt is the center-override variant.
func (c *Controller) NearbyRobotsAt(center game.Location, radiusSq int, team *game.Team) ([]game.Info, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return nil, err
	}
	return c.nearbyLocked(robot, center, radiusSq, team)
}

func (c *Controller) nearbyLocked(robot *game.Robot, center game.Location, radiusSq int, team *game.Team) ([]game.Info, error) {
	sensor := robot.Type.SensorRadiusSq()
	if radiusSq < 0 || radiusSq > sensor {
		radiusSq = sensor
	}
	return c.engine.world.NearbyRobots(center, radiusSq, team, robot.ID), nil
}

func (c *Controller) SoupAt(loc game.Location) (int, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	if _, err := c.senseLocked(loc); err != nil {
		return 0, err
	}
	return c.engine.world.SoupAt(loc), nil
}

func (c *Controller) ElevationAt(loc game.Location) (int, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	if _, err := c.senseLocked(loc); err != nil {
		return 0, err
	}
	return c.engine.world.ElevationAt(loc), nil
}

func (c *Controller) AdjacentLocation(dir game.Direction) game.Location {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return game.Location{}
	}
	return robot.Location.Add(dir)
}

// ---- can* prechecks ----

func (c *Controller) canDo(action game.Action) bool {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	if c.engine.state != StateAwaitingActions {
		return false
	}
	robot, ok := c.engine.world.Robot(c.id)
	if !ok {
		return false
	}
	return world.Validate(c.engine.world, robot, action) == nil
}

func (c *Controller) CanMove(dir game.Direction) bool {
	return c.canDo(game.Action{Kind: game.ActionMove, Direction: dir})
}

// CanMoveTo tests movement toward a specific adjacent location.
func (c *Controller) CanMoveTo(loc game.Location) bool {
	c.engine.mu.Lock()
	robot, ok := c.engine.world.Robot(c.id)
	if !ok {
		c.engine.mu.Unlock()
		return false
	}
	from := robot.Location
	c.engine.mu.Unlock()

	for dir := game.North; dir <= game.Northwest; dir++ {
		if from.Add(dir) == loc {
			return c.CanMove(dir)
		}
	}
	return false
}

func (c *Controller) HasBuildRequirements(typ game.RobotType) bool {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, ok := c.engine.world.Robot(c.id)
	if !ok {
		return false
	}
	return robot.Type.CanBuild(typ) && c.engine.world.TeamSoup(robot.Team) >= typ.Cost()
}

func (c *Controller) CanBuild(typ game.RobotType, dir game.Direction) bool {
	return c.canDo(game.Action{Kind: game.ActionBuild, TargetType: typ, Direction: dir})
}

func (c *Controller) CanMine(dir game.Direction) bool {
	return c.canDo(game.Action{Kind: game.ActionMine, Direction: dir})
}

func (c *Controller) CanRefine(dir game.Direction, amount int) bool {
	return c.canDo(game.Action{Kind: game.ActionRefine, Direction: dir, Amount: amount})
}

func (c *Controller) CanDig(dir game.Direction) bool {
	return c.canDo(game.Action{Kind: game.ActionDig, Direction: dir})
}

func (c *Controller) CanDeposit(dir game.Direction) bool {
	return c.canDo(game.Action{Kind: game.ActionDeposit, Direction: dir})
}

func (c *Controller) CanPickUp(id game.RobotID) bool {
	return c.canDo(game.Action{Kind: game.ActionPickUp, TargetID: id})
}

func (c *Controller) CanDrop(dir game.Direction) bool {
	return c.canDo(game.Action{Kind: game.ActionDrop, Direction: dir})
}

// ---- mutating calls ----

func (c *Controller) Move(dir game.Direction) error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionMove, Direction: dir})
}

func (c *Controller) Build(typ game.RobotType, dir game.Direction) error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionBuild, TargetType: typ, Direction: dir})
}

func (c *Controller) Mine(dir game.Direction) error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionMine, Direction: dir})
}

func (c *Controller) Refine(dir game.Direction, amount int) error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionRefine, Direction: dir, Amount: amount})
}

func (c *Controller) Dig(dir game.Direction) error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionDig, Direction: dir})
}

func (c *Controller) Deposit(dir game.Direction) error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionDeposit, Direction: dir})
}

func (c *Controller) PickUp(id game.RobotID) error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionPickUp, TargetID: id})
}

func (c *Controller) Drop(dir game.Direction) error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionDrop, Direction: dir})
}

func (c *Controller) SendMessage(payload []int, cost int) error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionSendMessage, Payload: payload, Cost: cost})
}

// Messages reads the broadcast log for a settled round.
func (c *Controller) Messages(round int) ([]game.Message, error) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	return c.engine.world.Messages(round)
}

// Disintegrate never fails for a live robot.
func (c *Controller) Disintegrate() error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionDisintegrate})
}

// Resign never fails for a live robot.
func (c *Controller) Resign() error {
	return c.engine.Act(c.id, game.Action{Kind: game.ActionResign})
}

// ---- debug side-channel ----

func (c *Controller) SetIndicatorDot(loc game.Location, r, g, b int) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	c.engine.world.EmitIndicatorDot(c.id, loc, r, g, b)
}

func (c *Controller) SetIndicatorLine(from, to game.Location, r, g, b int) {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	c.engine.world.EmitIndicatorLine(c.id, from, to, r, g, b)
}

// SetControlBits is the externally driven debug hook; it never affects
// validation.
func (c *Controller) SetControlBits(bits uint64) error {
	c.engine.mu.Lock()
	defer c.engine.mu.Unlock()
	robot, err := c.robot()
	if err != nil {
		return err
	}
	robot.ControlBits = bits
	return nil
}
