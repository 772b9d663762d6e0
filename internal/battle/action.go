package battle

import "fmt"

// ActionKind tags the variant of an in-flight action.
type ActionKind int

const (
	ActionAttack ActionKind = iota
	ActionStartOfTurn
	ActionEndOfTurn
)

var actionKindNames = map[ActionKind]string{
	ActionAttack:      "ATTACK",
	ActionStartOfTurn: "START_OF_TURN",
	ActionEndOfTurn:   "END_OF_TURN",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(k))
}

// EntityDescriptor is the logical address of a combatant. Descriptors are
// resolved through Battle.FindEntity at every point of use and never cached
// as direct references: the opponent collection shrinks on death while a
// resolution step is still running, so a stored pointer or index could go
// stale mid-step.
type EntityDescriptor struct {
	IsPlayer      bool
	OpponentIndex int
}

// PlayerDescriptor addresses the player.
func PlayerDescriptor() EntityDescriptor {
	return EntityDescriptor{IsPlayer: true}
}

// OpponentDescriptor addresses the opponent at the given index in the active
// collection.
func OpponentDescriptor(idx int) EntityDescriptor {
	return EntityDescriptor{OpponentIndex: idx}
}

func (d EntityDescriptor) String() string {
	if d.IsPlayer {
		return "player"
	}
	return fmt.Sprintf("opponent[%d]", d.OpponentIndex)
}

// Action is an ephemeral value describing a pending game effect as it flows
// through the status trigger pipeline. Actions are owned exclusively by the
// pipeline invocation that created them and are discarded once resolved.
type Action struct {
	Kind   ActionKind
	Target EntityDescriptor

	// Damage is meaningful only for ActionAttack.
	Damage int
}

// NewAttack builds an attack action against the given target.
func NewAttack(target EntityDescriptor, damage int) Action {
	return Action{Kind: ActionAttack, Target: target, Damage: damage}
}
