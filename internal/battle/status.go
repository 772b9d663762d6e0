package battle

import "fmt"

// StatusKind identifies a stackable status effect. The declaration order is
// the canonical evaluation order: whenever several statuses on one entity
// react to the same trigger point, they are consulted in this order, so the
// order an entity acquired them never influences the outcome.
type StatusKind int

const (
	StatusVulnerable StatusKind = iota
	StatusWeak
	StatusFrail
	StatusPoison
	StatusRitual
	StatusStrength
	StatusBlock
	StatusEnergyUser
	StatusHandDrawer

	numStatusKinds
)

var statusKindNames = map[StatusKind]string{
	StatusVulnerable: "VULNERABLE",
	StatusWeak:       "WEAK",
	StatusFrail:      "FRAIL",
	StatusPoison:     "POISON",
	StatusRitual:     "RITUAL",
	StatusStrength:   "STRENGTH",
	StatusBlock:      "BLOCK",
	StatusEnergyUser: "ENERGY_USER",
	StatusHandDrawer: "HAND_DRAWER",
}

func (k StatusKind) String() string {
	if name, ok := statusKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_%d", int(k))
}

// StatusKinds returns every status kind in canonical evaluation order.
func StatusKinds() []StatusKind {
	kinds := make([]StatusKind, 0, numStatusKinds)
	for k := StatusKind(0); k < numStatusKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// TriggerPoint names a moment in the turn lifecycle at which attached
// statuses may observe or rewrite an in-flight action.
type TriggerPoint int

const (
	TriggerOnAttack TriggerPoint = iota
	TriggerOnAttacked
	TriggerOnDefend
	TriggerOnStartOfTurn
	TriggerOnEndOfTurn
	TriggerOnDeath

	numTriggerPoints
)

var triggerPointNames = map[TriggerPoint]string{
	TriggerOnAttack:      "ON_ATTACK",
	TriggerOnAttacked:    "ON_ATTACKED",
	TriggerOnDefend:      "ON_DEFEND",
	TriggerOnStartOfTurn: "ON_START_OF_TURN",
	TriggerOnEndOfTurn:   "ON_END_OF_TURN",
	TriggerOnDeath:       "ON_DEATH",
}

func (t TriggerPoint) String() string {
	if name, ok := triggerPointNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TRIGGER_%d", int(t))
}

// StatusEffect reacts to an in-flight action on behalf of one status stack.
// It receives the battle, the stack's current amount, and the action, and
// returns the (possibly rewritten) action. A false second return cancels the
// action outright; no further statuses are consulted for this trigger.
type StatusEffect func(b *Battle, amount int, act Action) (Action, bool, error)

// statusEffects is the fixed dispatch table over (kind, trigger point).
// A nil entry means the status does not react at that trigger.
var statusEffects = [numStatusKinds][numTriggerPoints]StatusEffect{
	StatusVulnerable: {
		TriggerOnAttacked: vulnerableOnAttacked,
	},
	StatusWeak: {
		TriggerOnAttack: weakOnAttack,
	},
	StatusPoison: {
		TriggerOnStartOfTurn: poisonOnStartOfTurn,
	},
	StatusRitual: {
		TriggerOnStartOfTurn: ritualOnStartOfTurn,
	},
	StatusStrength: {
		TriggerOnAttack: strengthOnAttack,
	},
	StatusBlock: {
		TriggerOnAttacked: blockOnAttacked,
	},
	StatusEnergyUser: {
		TriggerOnStartOfTurn: energyUserOnStartOfTurn,
		TriggerOnEndOfTurn:   energyUserOnEndOfTurn,
	},
	StatusHandDrawer: {
		TriggerOnStartOfTurn: handDrawerOnStartOfTurn,
		TriggerOnEndOfTurn:   handDrawerOnEndOfTurn,
	},
}

// statusEffectAt returns the callback a status kind registers for a trigger
// point, or nil when the status does not react there.
func statusEffectAt(kind StatusKind, trigger TriggerPoint) StatusEffect {
	if kind < 0 || kind >= numStatusKinds || trigger < 0 || trigger >= numTriggerPoints {
		return nil
	}
	return statusEffects[kind][trigger]
}
