package matchcfg

import (
	"os"
	"path/filepath"
	"testing"

	"gearverse/internal/domain/game"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
round_limit: 300
initial_soup: 150
tiebreak: soup
map:
  width: 12
  height: 8
  robots:
    - {team: A, type: hq, x: 1, y: 1}
    - {team: B, type: hq, x: 10, y: 6}
    - {team: neutral, type: cow, x: 6, y: 4}
  soup:
    - {x: 5, y: 4, amount: 200}
  elevation:
    - {x: 2, y: 2, level: 3}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RoundLimit != 300 || cfg.InitialSoup != 150 {
		t.Fatalf("config: %+v", cfg)
	}

	snap := cfg.Snapshot()
	if snap.Width != 12 || snap.Height != 8 {
		t.Fatalf("snapshot dims: %dx%d", snap.Width, snap.Height)
	}
	if len(snap.Robots) != 3 || snap.Robots[2].Team != game.TeamNeutral || snap.Robots[2].Type != game.Cow {
		t.Fatalf("robot seeds: %+v", snap.Robots)
	}
	if len(snap.Soup) != 1 || snap.Soup[0].Amount != 200 {
		t.Fatalf("soup seeds: %+v", snap.Soup)
	}
	if snap.Elevation[game.Location{X: 2, Y: 2}] != 3 {
		t.Fatalf("elevation: %+v", snap.Elevation)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"zero round limit", "round_limit: 0\nmap: {width: 4, height: 4}"},
		{"bad dimensions", "round_limit: 10\nmap: {width: 0, height: 4}"},
		{"unknown team", "round_limit: 10\nmap:\n  width: 4\n  height: 4\n  robots:\n    - {team: C, type: hq, x: 0, y: 0}"},
		{"unknown type", "round_limit: 10\nmap:\n  width: 4\n  height: 4\n  robots:\n    - {team: A, type: tank, x: 0, y: 0}"},
		{"unknown tiebreak", "round_limit: 10\ntiebreak: coinflip\nmap: {width: 4, height: 4}"},
		{"broken yaml", "round_limit: ["},
	}
	for _, c := range cases {
		path := writeConfig(t, c.content)
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	snap := cfg.Snapshot()
	if len(snap.Robots) != 2 {
		t.Fatalf("default robots: %+v", snap.Robots)
	}
}

func TestTiebreakFunc(t *testing.T) {
	teamA := Config{Tiebreak: "team_a"}.TiebreakFunc()
	if got := teamA(0, 100, 0, 5); got != game.TeamA {
		t.Fatalf("team_a tiebreak: got=%v", got)
	}
	def := Config{}.TiebreakFunc()
	if got := def(10, 20, 1, 1); got != game.TeamB {
		t.Fatalf("default tiebreak: got=%v", got)
	}
}
