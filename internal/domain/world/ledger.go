package world

import (
	"fmt"

	"gearverse/internal/domain/game"
)

// Ledger holds the per-team soup balances. Balances never go negative:
// Spend refuses rather than underflows.
type Ledger struct {
	balances map[game.Team]int
}

func NewLedger(initial int) *Ledger {
	return &Ledger{balances: map[game.Team]int{
		game.TeamA: initial,
		game.TeamB: initial,
	}}
}

func (l *Ledger) Balance(team game.Team) int {
	return l.balances[team]
}

func (l *Ledger) CanSpend(team game.Team, amount int) bool {
	return amount >= 0 && l.balances[team] >= amount
}

// Spend deducts amount or leaves the balance untouched.
func (l *Ledger) Spend(team game.Team, amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative spend %d for team %s", amount, team)
	}
	if l.balances[team] < amount {
		return game.Reject(game.ErrInsufficientResources,
			fmt.Sprintf("team %s needs %d soup, has %d", team, amount, l.balances[team]))
	}
	l.balances[team] -= amount
	return nil
}

func (l *Ledger) Credit(team game.Team, amount int) {
	if !team.Playing() || amount <= 0 {
		return
	}
	l.balances[team] += amount
}

// CheckInvariant reports a negative balance. A failure here means the
// validator admitted an illegal applier call; callers abort the round.
func (l *Ledger) CheckInvariant() error {
	for team, balance := range l.balances {
		if balance < 0 {
			return fmt.Errorf("ledger invariant violated: team %s balance %d", team, balance)
		}
	}
	return nil
}
