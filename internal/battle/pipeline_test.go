package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singleOpponentBattle wires a minimal configured battle for pipeline tests.
func singleOpponentBattle(t *testing.T, opponentHealth int) *Battle {
	t.Helper()
	b := New(nil, 1)
	b.SetPlayer(NewPlayer(nil, 80))
	b.SetOpponents([]*Opponent{{
		Entity: NewEntity(opponentHealth),
		Type:   OpponentCultist,
		Policy: cultistPolicy{},
	}})
	return b
}

func TestPipelineOrderIndependentOfAttachment(t *testing.T) {
	attach := []struct {
		name  string
		kinds []StatusKind
	}{
		{"vulnerable then block", []StatusKind{StatusVulnerable, StatusBlock}},
		{"block then vulnerable", []StatusKind{StatusBlock, StatusVulnerable}},
	}

	for _, tc := range attach {
		t.Run(tc.name, func(t *testing.T) {
			b := singleOpponentBattle(t, 45)
			target := OpponentDescriptor(0)
			for _, kind := range tc.kinds {
				amount := 1
				if kind == StatusBlock {
					amount = 5
				}
				require.NoError(t, b.ApplyStatusToEntity(target, kind, amount))
			}

			require.NoError(t, b.AttackEntity(PlayerDescriptor(), target, 6))

			// Canonical order is always VULNERABLE before BLOCK:
			// 6 -> 9, block absorbs 5, 4 lands.
			assert.Equal(t, 41, b.Opponents()[0].CurrentHealth)
		})
	}
}

func TestPipelineCancellationSuppressesAttack(t *testing.T) {
	b := singleOpponentBattle(t, 45)
	player := PlayerDescriptor()
	require.NoError(t, b.ApplyStatusToEntity(player, StatusBlock, 10))

	require.NoError(t, b.AttackEntity(OpponentDescriptor(0), player, 8))

	assert.Equal(t, 80, b.Player().CurrentHealth, "fully absorbed attack must not touch health")
	amount, ok := b.Player().StatusAmount(StatusBlock)
	require.True(t, ok)
	assert.Equal(t, 2, amount, "block should be spent down by the absorbed damage")
}

func TestPipelineBlockFullyConsumedRemovesItself(t *testing.T) {
	b := singleOpponentBattle(t, 45)
	player := PlayerDescriptor()
	require.NoError(t, b.ApplyStatusToEntity(player, StatusBlock, 5))

	require.NoError(t, b.AttackEntity(OpponentDescriptor(0), player, 8))

	assert.Equal(t, 77, b.Player().CurrentHealth)
	_, ok := b.Player().StatusAmount(StatusBlock)
	assert.False(t, ok, "partially absorbing block must remove itself")
}

func TestPipelineSkipsStatusWithoutCallback(t *testing.T) {
	b := singleOpponentBattle(t, 45)
	target := OpponentDescriptor(0)
	// FRAIL registers no callbacks at all; it must be skipped silently.
	require.NoError(t, b.ApplyStatusToEntity(target, StatusFrail, 3))

	require.NoError(t, b.AttackEntity(PlayerDescriptor(), target, 6))

	assert.Equal(t, 39, b.Opponents()[0].CurrentHealth)
}

func TestStatusCallbackRejectsIncompatibleAction(t *testing.T) {
	b := singleOpponentBattle(t, 45)

	for _, callback := range []StatusEffect{vulnerableOnAttacked, weakOnAttack, strengthOnAttack, blockOnAttacked} {
		_, _, err := callback(b, 2, Action{Kind: ActionEndOfTurn, Target: PlayerDescriptor()})
		require.ErrorIs(t, err, ErrActionKindMismatch)
	}
}

func TestStrengthAddsToOutgoingAttack(t *testing.T) {
	b := singleOpponentBattle(t, 45)
	require.NoError(t, b.ApplyStatusToEntity(OpponentDescriptor(0), StatusStrength, 4))

	require.NoError(t, b.AttackEntity(OpponentDescriptor(0), PlayerDescriptor(), 2))

	assert.Equal(t, 74, b.Player().CurrentHealth)
}

func TestWeakReducesOutgoingAttack(t *testing.T) {
	b := singleOpponentBattle(t, 45)
	require.NoError(t, b.ApplyStatusToEntity(OpponentDescriptor(0), StatusWeak, 1))

	require.NoError(t, b.AttackEntity(OpponentDescriptor(0), PlayerDescriptor(), 8))

	// 8 * 3/4 = 6.
	assert.Equal(t, 74, b.Player().CurrentHealth)
}

func TestPoisonTicksAndDecays(t *testing.T) {
	b := singleOpponentBattle(t, 45)
	target := OpponentDescriptor(0)
	require.NoError(t, b.ApplyStatusToEntity(target, StatusPoison, 3))

	require.NoError(t, b.StartTurn())

	assert.Equal(t, 42, b.Opponents()[0].CurrentHealth)
	amount, ok := b.Opponents()[0].StatusAmount(StatusPoison)
	require.True(t, ok)
	assert.Equal(t, 2, amount)
}

func TestPoisonDeathDoesNotLeakPassIntoShiftedOpponent(t *testing.T) {
	b := New(nil, 1)
	b.SetPlayer(NewPlayer(nil, 80))
	dying := &Opponent{Entity: NewEntity(2), Type: OpponentCultist, Policy: cultistPolicy{}}
	survivor := &Opponent{Entity: NewEntity(45), Type: OpponentCultist, Policy: cultistPolicy{}}
	b.SetOpponents([]*Opponent{dying, survivor})

	require.NoError(t, b.ApplyStatusToEntity(OpponentDescriptor(0), StatusPoison, 5))
	require.NoError(t, b.ApplyStatusToEntity(OpponentDescriptor(1), StatusRitual, 4))

	require.NoError(t, b.StartTurn())

	// The poison kill shifts the survivor into index 0. Its ritual belongs
	// to its own start-of-turn pass, not the remainder of the dead
	// opponent's walk, so strength lands exactly once.
	require.Equal(t, 1, b.NumOpponents())
	assert.Same(t, survivor, b.Opponents()[0])
	strength, ok := b.Opponents()[0].StatusAmount(StatusStrength)
	require.True(t, ok)
	assert.Equal(t, 4, strength)
}

func TestPoisonKillingItsCarrierStopsCleanly(t *testing.T) {
	b := singleOpponentBattle(t, 2)
	target := OpponentDescriptor(0)
	require.NoError(t, b.ApplyStatusToEntity(target, StatusPoison, 5))
	// A later-ordered status on the same entity must not be consulted once
	// the entity is gone.
	require.NoError(t, b.ApplyStatusToEntity(target, StatusRitual, 4))

	require.NoError(t, b.StartTurn())

	assert.Equal(t, 0, b.NumOpponents())
	events := b.DrainEvents()
	assert.Contains(t, events, EventOpponentDeath)
	assert.Contains(t, events, EventWinBattle)
}
