package battle

import (
	"math/rand"
	"testing"
)

func TestCultistPolicySequence(t *testing.T) {
	policy := cultistPolicy{}

	tests := []struct {
		turn   int
		kind   MoveKind
		amount int
	}{
		{0, MoveRitual, cultistRitualAmount},
		{1, MoveAttack, cultistAttackAmount},
		{2, MoveAttack, cultistAttackAmount},
		{7, MoveAttack, cultistAttackAmount},
	}

	for _, tc := range tests {
		move := policy.SelectMove(tc.turn)
		if move.Kind != tc.kind {
			t.Fatalf("turn %d: expected %s, got %s", tc.turn, tc.kind, move.Kind)
		}
		if move.Amount != tc.amount {
			t.Fatalf("turn %d: expected amount %d, got %d", tc.turn, tc.amount, move.Amount)
		}
	}
}

func TestNewCultistHealthRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		opp := NewCultist(rng)
		if opp.MaxHealth < cultistMinHealth || opp.MaxHealth > cultistMaxHealth {
			t.Fatalf("rolled max health %d outside [%d, %d]", opp.MaxHealth, cultistMinHealth, cultistMaxHealth)
		}
		if opp.CurrentHealth != opp.MaxHealth {
			t.Fatalf("cultist should start at full health, got %d/%d", opp.CurrentHealth, opp.MaxHealth)
		}
	}
}

func TestNewFixedCultist(t *testing.T) {
	opp := NewFixedCultist()
	if opp.MaxHealth != fixedCultistHealth {
		t.Fatalf("expected pinned health %d, got %d", fixedCultistHealth, opp.MaxHealth)
	}
	if opp.Type != OpponentCultist {
		t.Fatalf("expected cultist type, got %s", opp.Type)
	}
	if opp.NextMove != nil {
		t.Fatal("a fresh opponent has no committed move")
	}
}
