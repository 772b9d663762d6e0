package battle

import (
	"fmt"
	"math/rand"
)

// OpponentType identifies an opponent species for recording purposes.
type OpponentType int

const (
	OpponentCultist OpponentType = 1
)

var opponentTypeNames = map[OpponentType]string{
	OpponentCultist: "CULTIST",
}

func (t OpponentType) String() string {
	if name, ok := opponentTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("OPPONENT_%d", int(t))
}

// MoveKind tags an opponent move.
type MoveKind int

const (
	MoveAttack MoveKind = iota + 1
	MoveRitual
)

var moveKindNames = map[MoveKind]string{
	MoveAttack: "ATTACK",
	MoveRitual: "RITUAL",
}

func (k MoveKind) String() string {
	if name, ok := moveKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MOVE_%d", int(k))
}

// NextMove is an opponent's precommitted move for the coming turn. It is
// selected at start of turn and visible to the player as the opponent's
// intent.
type NextMove struct {
	Kind   MoveKind
	Amount int
}

// MovePolicy selects an opponent's move for a given turn number. Policies
// are pluggable so opponent behavior can vary without touching the
// orchestrator.
type MovePolicy interface {
	SelectMove(turn int) NextMove
}

// Opponent is an enemy combatant with a precommitted move.
type Opponent struct {
	Entity

	Type   OpponentType
	Policy MovePolicy

	// NextMove is nil until StartTurn commits one.
	NextMove *NextMove
}

const (
	cultistRitualAmount = 4
	cultistAttackAmount = 2

	cultistMinHealth = 40
	cultistMaxHealth = 55

	fixedCultistHealth = 45
)

// cultistPolicy performs a ritual on the first turn and attacks every turn
// after that, so its hits grow with the Strength its ritual accumulates.
type cultistPolicy struct{}

func (cultistPolicy) SelectMove(turn int) NextMove {
	if turn == 0 {
		return NextMove{Kind: MoveRitual, Amount: cultistRitualAmount}
	}
	return NextMove{Kind: MoveAttack, Amount: cultistAttackAmount}
}

// NewCultist creates a cultist with uniformly rolled max health.
func NewCultist(rng *rand.Rand) *Opponent {
	health := cultistMinHealth + rng.Intn(cultistMaxHealth-cultistMinHealth+1)
	return &Opponent{
		Entity: NewEntity(health),
		Type:   OpponentCultist,
		Policy: cultistPolicy{},
	}
}

// NewFixedCultist creates a cultist with pinned max health for reproducible
// encounters.
func NewFixedCultist() *Opponent {
	return &Opponent{
		Entity: NewEntity(fixedCultistHealth),
		Type:   OpponentCultist,
		Policy: cultistPolicy{},
	}
}
