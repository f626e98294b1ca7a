package world

import (
	"errors"
	"testing"

	"gearverse/internal/domain/game"
)

func TestLedgerSpendAndCredit(t *testing.T) {
	l := NewLedger(100)
	if err := l.Spend(game.TeamA, 30); err != nil {
		t.Fatalf("spend: %v", err)
	}
	if got := l.Balance(game.TeamA); got != 70 {
		t.Fatalf("balance after spend: got=%d want=70", got)
	}
	if got := l.Balance(game.TeamB); got != 100 {
		t.Fatalf("team B untouched: got=%d want=100", got)
	}

	l.Credit(game.TeamA, 5)
	if got := l.Balance(game.TeamA); got != 75 {
		t.Fatalf("balance after credit: got=%d want=75", got)
	}
}

func TestLedgerSpendRefusesUnderflow(t *testing.T) {
	l := NewLedger(10)
	err := l.Spend(game.TeamB, 11)
	if !errors.Is(err, game.ErrInsufficientResources) {
		t.Fatalf("expected insufficient resources, got %v", err)
	}
	if got := l.Balance(game.TeamB); got != 10 {
		t.Fatalf("failed spend must not touch the balance: got=%d", got)
	}
	if l.CanSpend(game.TeamB, 11) {
		t.Fatal("CanSpend must agree with Spend")
	}
	if !l.CanSpend(game.TeamB, 10) {
		t.Fatal("spending the full balance is legal")
	}
}

func TestLedgerIgnoresNeutralCredit(t *testing.T) {
	l := NewLedger(0)
	l.Credit(game.TeamNeutral, 50)
	if got := l.Balance(game.TeamNeutral); got != 0 {
		t.Fatalf("neutral team holds no soup: got=%d", got)
	}
	if err := l.CheckInvariant(); err != nil {
		t.Fatalf("invariant: %v", err)
	}
}
