// Package matchcfg loads match and map configuration from YAML and turns it
// into the parsed snapshot the engine consumes.
package matchcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gearverse/internal/app/match"
	"gearverse/internal/domain/game"
	"gearverse/internal/domain/world"
)

type Config struct {
	RoundLimit  int    `yaml:"round_limit"`
	InitialSoup int    `yaml:"initial_soup"`
	Tiebreak    string `yaml:"tiebreak"`
	Map         Map    `yaml:"map"`
}

type Map struct {
	Width     int         `yaml:"width"`
	Height    int         `yaml:"height"`
	Robots    []Robot     `yaml:"robots"`
	Soup      []Deposit   `yaml:"soup"`
	Elevation []Elevation `yaml:"elevation"`
}

type Robot struct {
	Team string `yaml:"team"`
	Type string `yaml:"type"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
}

type Deposit struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Amount int `yaml:"amount"`
}

type Elevation struct {
	X     int `yaml:"x"`
	Y     int `yaml:"y"`
	Level int `yaml:"level"`
}

// Default is the fallback used when no config file is given: a small
// two-HQ map with a soup field between the bases.
func Default() Config {
	return Config{
		RoundLimit:  500,
		InitialSoup: 200,
		Map: Map{
			Width:  16,
			Height: 16,
			Robots: []Robot{
				{Team: "A", Type: "hq", X: 1, Y: 1},
				{Team: "B", Type: "hq", X: 14, Y: 14},
			},
			Soup: []Deposit{
				{X: 7, Y: 7, Amount: 300},
				{X: 8, Y: 8, Amount: 300},
			},
		},
	}
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read match config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse match config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.RoundLimit <= 0 {
		return fmt.Errorf("round_limit must be positive, got %d", c.RoundLimit)
	}
	if c.InitialSoup < 0 {
		return fmt.Errorf("initial_soup must not be negative, got %d", c.InitialSoup)
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		return fmt.Errorf("map must have positive dimensions, got %dx%d", c.Map.Width, c.Map.Height)
	}
	switch c.Tiebreak {
	case "", "soup", "team_a":
	default:
		return fmt.Errorf("unknown tiebreak %q", c.Tiebreak)
	}
	for _, r := range c.Map.Robots {
		if _, ok := game.ParseTeam(r.Team); !ok {
			return fmt.Errorf("robot seed: unknown team %q", r.Team)
		}
		if _, ok := game.ParseRobotType(r.Type); !ok {
			return fmt.Errorf("robot seed: unknown type %q", r.Type)
		}
	}
	return nil
}

// Snapshot converts the parsed map into the engine's initial world.
func (c Config) Snapshot() world.Snapshot {
	snap := world.Snapshot{
		Width:       c.Map.Width,
		Height:      c.Map.Height,
		InitialSoup: c.InitialSoup,
	}
	for _, r := range c.Map.Robots {
		team, _ := game.ParseTeam(r.Team)
		typ, _ := game.ParseRobotType(r.Type)
		snap.Robots = append(snap.Robots, world.RobotSeed{
			Team:     team,
			Type:     typ,
			Location: game.Location{X: r.X, Y: r.Y},
		})
	}
	for _, d := range c.Map.Soup {
		snap.Soup = append(snap.Soup, world.SoupDeposit{
			Location: game.Location{X: d.X, Y: d.Y},
			Amount:   d.Amount,
		})
	}
	if len(c.Map.Elevation) > 0 {
		snap.Elevation = make(map[game.Location]int, len(c.Map.Elevation))
		for _, e := range c.Map.Elevation {
			snap.Elevation[game.Location{X: e.X, Y: e.Y}] = e.Level
		}
	}
	return snap
}

// TiebreakFunc maps the configured name to the engine tiebreak. "team_a"
// always awards team A; anything else uses the default soup comparison.
func (c Config) TiebreakFunc() match.Tiebreak {
	if c.Tiebreak == "team_a" {
		return func(_, _, _, _ int) game.Team { return game.TeamA }
	}
	return match.DefaultTiebreak
}
