package battle

import "errors"

// Configuration errors indicate the battle was driven before being wired up
// or with addresses that do not resolve. They are integration defects and
// propagate immediately; no retry or silent default is attempted.
var (
	// ErrNotConfigured is returned when an operation runs before a player
	// and opponents have been set.
	ErrNotConfigured = errors.New("battle: player or opponents not configured")

	// ErrNoSuchOpponent is returned when a descriptor addresses an opponent
	// index outside the active collection, including a slot vacated by a
	// death earlier in the same resolution step.
	ErrNoSuchOpponent = errors.New("battle: opponent index out of range")

	// ErrActionKindMismatch is returned when a status callback is invoked
	// against an action of an incompatible kind, e.g. a block callback
	// receiving a non-attack action. This is a programming error in the
	// pipeline wiring and must fail loudly, never be silently ignored.
	ErrActionKindMismatch = errors.New("battle: status callback invoked with incompatible action kind")

	// ErrBattleEnded is returned when a turn operation is driven after the
	// battle reached victory or defeat.
	ErrBattleEnded = errors.New("battle: battle already ended")
)

// Card-play errors are expected runtime conditions reported to the caller.
var (
	// ErrNoSuchCard is returned when a hand index does not address a card.
	ErrNoSuchCard = errors.New("battle: no card at hand index")

	// ErrNotEnoughEnergy is returned when the player cannot pay a card's cost.
	ErrNotEnoughEnergy = errors.New("battle: not enough energy")

	// ErrCardNotPlayable is returned when a card registers no on-play effect.
	ErrCardNotPlayable = errors.New("battle: card has no on-play effect")
)
