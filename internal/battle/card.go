package battle

import "fmt"

// CardID identifies a card. The numeric values are stable and participate in
// the recording vocabulary, so they must never be renumbered.
type CardID int

const (
	CardBash   CardID = 1001
	CardDefend CardID = 1002
	CardStrike CardID = 1003
)

var cardIDNames = map[CardID]string{
	CardBash:   "BASH",
	CardDefend: "DEFEND",
	CardStrike: "STRIKE",
}

func (id CardID) String() string {
	if name, ok := cardIDNames[id]; ok {
		return name
	}
	return fmt.Sprintf("CARD_%d", int(id))
}

// CardType categorizes a card.
type CardType int

const (
	CardTypePower CardType = iota + 1
	CardTypeSkill
	CardTypeAttack
	CardTypeCurse
	CardTypeStatus
)

// CardTrigger names a moment at which a card's effect callbacks may fire.
// OnPlay is the minimum a playable card registers.
type CardTrigger int

const (
	CardTriggerOnPlay CardTrigger = iota
	CardTriggerOnEndOfTurn
	CardTriggerOnEndOfTurnDiscard
	CardTriggerOnMidturnDiscard
	CardTriggerOnExhaust
	CardTriggerOnDraw
)

// TargetType names what a targeted card points at.
type TargetType int

const (
	TargetNone TargetType = iota
	TargetOpponent
	TargetCard
	TargetDiscardedCard
	TargetExhaustedCard
	TargetDrawPileCard
)

// TargetingInfo describes a card's targeting requirements.
type TargetingInfo struct {
	RequiresTarget bool
	Target         TargetType
}

// CardEffect is invoked with the battle and the resolved target index. All
// game mutations must be issued back through Battle operations; a card never
// touches entity state directly.
type CardEffect func(b *Battle, targetIdx int) error

// Card is the contract the orchestrator consumes. It is held as a
// capability: the orchestrator looks up the callback for a trigger and
// invokes it, nothing more.
type Card interface {
	ID() CardID
	CardType() CardType
	Cost() int
	Effects() map[CardTrigger]CardEffect
	Targeting() TargetingInfo
}
