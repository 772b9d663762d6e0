package battle

import "go.uber.org/zap"

// Default Ironclad-versus-Cultist encounter parameters.
const (
	IroncladStartingHealth = 80
	IroncladStartingEnergy = 3
	IroncladHandSize       = 5
)

// NewEncounter wires a battle from its parts: the player is created with the
// given deck and health, granted the ENERGY_USER and HAND_DRAWER statuses
// that drive per-turn energy refill and card draw, and set against the given
// opponents.
func NewEncounter(logger *zap.Logger, seed int64, deck []Card, playerHealth, energy, handSize int, opponents ...*Opponent) *Battle {
	b := New(logger, seed)
	player := NewPlayer(deck, playerHealth)
	player.ApplyStatus(StatusEnergyUser, energy)
	player.ApplyStatus(StatusHandDrawer, handSize)
	b.SetPlayer(player)
	b.SetOpponents(opponents)
	return b
}

// NewIroncladVsCultist builds the reference encounter: the starter deck at
// 80 health and 3 energy against a single fixed 45-health cultist.
func NewIroncladVsCultist(logger *zap.Logger, seed int64) *Battle {
	return NewEncounter(logger, seed, NewStarterDeck(),
		IroncladStartingHealth, IroncladStartingEnergy, IroncladHandSize,
		NewFixedCultist())
}
