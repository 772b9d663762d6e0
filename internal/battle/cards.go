package battle

import "errors"

const (
	strikeDamage = 6

	defendBlock = 5

	bashDamage     = 8
	bashVulnerable = 2
)

// strikeCard deals a flat hit to one opponent.
type strikeCard struct{}

// NewStrike creates a Strike: 1-cost attack, 6 damage to the target.
func NewStrike() Card { return strikeCard{} }

func (strikeCard) ID() CardID         { return CardStrike }
func (strikeCard) CardType() CardType { return CardTypeAttack }
func (strikeCard) Cost() int          { return 1 }

func (strikeCard) Targeting() TargetingInfo {
	return TargetingInfo{RequiresTarget: true, Target: TargetOpponent}
}

func (strikeCard) Effects() map[CardTrigger]CardEffect {
	return map[CardTrigger]CardEffect{
		CardTriggerOnPlay: func(b *Battle, targetIdx int) error {
			return b.AttackEntity(PlayerDescriptor(), OpponentDescriptor(targetIdx), strikeDamage)
		},
	}
}

// defendCard grants the player block.
type defendCard struct{}

// NewDefend creates a Defend: 1-cost skill, 5 Block on the player.
func NewDefend() Card { return defendCard{} }

func (defendCard) ID() CardID         { return CardDefend }
func (defendCard) CardType() CardType { return CardTypeSkill }
func (defendCard) Cost() int          { return 1 }

func (defendCard) Targeting() TargetingInfo {
	return TargetingInfo{RequiresTarget: false, Target: TargetNone}
}

func (defendCard) Effects() map[CardTrigger]CardEffect {
	return map[CardTrigger]CardEffect{
		CardTriggerOnPlay: func(b *Battle, targetIdx int) error {
			return b.ApplyStatusToEntity(PlayerDescriptor(), StatusBlock, defendBlock)
		},
	}
}

// bashCard hits hard and leaves the target vulnerable.
type bashCard struct{}

// NewBash creates a Bash: 2-cost attack, 8 damage plus 2 Vulnerable. The
// damage lands before the Vulnerable stack so the hit itself is never
// amplified.
func NewBash() Card { return bashCard{} }

func (bashCard) ID() CardID         { return CardBash }
func (bashCard) CardType() CardType { return CardTypeAttack }
func (bashCard) Cost() int          { return 2 }

func (bashCard) Targeting() TargetingInfo {
	return TargetingInfo{RequiresTarget: true, Target: TargetOpponent}
}

func (bashCard) Effects() map[CardTrigger]CardEffect {
	return map[CardTrigger]CardEffect{
		CardTriggerOnPlay: func(b *Battle, targetIdx int) error {
			if err := b.AttackEntity(PlayerDescriptor(), OpponentDescriptor(targetIdx), bashDamage); err != nil {
				return err
			}
			err := b.ApplyStatusToEntity(OpponentDescriptor(targetIdx), StatusVulnerable, bashVulnerable)
			if errors.Is(err, ErrNoSuchOpponent) {
				// The hit killed the target; there is no one left to weaken.
				return nil
			}
			return err
		},
	}
}

// NewStarterDeck builds the starter deck: one Bash, five Strikes, four
// Defends.
func NewStarterDeck() []Card {
	deck := make([]Card, 0, 10)
	deck = append(deck, NewBash())
	for i := 0; i < 5; i++ {
		deck = append(deck, NewStrike())
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, NewDefend())
	}
	return deck
}
