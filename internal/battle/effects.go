package battle

import "fmt"

// Built-in status effect callbacks. Each callback receives the in-flight
// action and either rewrites it, issues mutations back through Battle
// operations, or cancels it. Statuses that expire are responsible for ending
// themselves here; the pipeline never removes a stack on its own.

// vulnerableOnAttacked amplifies incoming attack damage by half, floored.
func vulnerableOnAttacked(b *Battle, amount int, act Action) (Action, bool, error) {
	if act.Kind != ActionAttack {
		return Action{}, false, fmt.Errorf("%w: VULNERABLE received %s", ErrActionKindMismatch, act.Kind)
	}
	act.Damage = act.Damage * 3 / 2
	return act, true, nil
}

// weakOnAttack reduces outgoing attack damage to three quarters, floored.
func weakOnAttack(b *Battle, amount int, act Action) (Action, bool, error) {
	if act.Kind != ActionAttack {
		return Action{}, false, fmt.Errorf("%w: WEAK received %s", ErrActionKindMismatch, act.Kind)
	}
	act.Damage = act.Damage * 3 / 4
	return act, true, nil
}

// strengthOnAttack adds the stack amount to outgoing attack damage.
func strengthOnAttack(b *Battle, amount int, act Action) (Action, bool, error) {
	if act.Kind != ActionAttack {
		return Action{}, false, fmt.Errorf("%w: STRENGTH received %s", ErrActionKindMismatch, act.Kind)
	}
	act.Damage += amount
	return act, true, nil
}

// blockOnAttacked absorbs incoming attack damage. Partial absorption
// consumes the whole stack and lets the remainder through; full absorption
// spends block equal to the damage and cancels the attack entirely.
func blockOnAttacked(b *Battle, amount int, act Action) (Action, bool, error) {
	if act.Kind != ActionAttack {
		return Action{}, false, fmt.Errorf("%w: BLOCK received %s", ErrActionKindMismatch, act.Kind)
	}
	if act.Damage > amount {
		if err := b.ResetEntityStatus(act.Target, StatusBlock); err != nil {
			return Action{}, false, err
		}
		act.Damage -= amount
		return act, true, nil
	}
	if err := b.ApplyStatusToEntity(act.Target, StatusBlock, -act.Damage); err != nil {
		return Action{}, false, err
	}
	return Action{}, false, nil
}

// poisonOnStartOfTurn deals the stack amount as direct health loss and
// decays the stack by one. The decrement runs first: if the health loss
// kills an opponent the whole entity, stack included, leaves the collection.
func poisonOnStartOfTurn(b *Battle, amount int, act Action) (Action, bool, error) {
	if err := b.ApplyStatusToEntity(act.Target, StatusPoison, -1); err != nil {
		return Action{}, false, err
	}
	if err := b.ReduceEntityHP(act.Target, amount); err != nil {
		return Action{}, false, err
	}
	return act, true, nil
}

// ritualOnStartOfTurn grants Strength equal to the stack amount.
func ritualOnStartOfTurn(b *Battle, amount int, act Action) (Action, bool, error) {
	if err := b.ApplyStatusToEntity(act.Target, StatusStrength, amount); err != nil {
		return Action{}, false, err
	}
	return act, true, nil
}

// energyUserOnStartOfTurn refills the player's energy to the stack amount.
func energyUserOnStartOfTurn(b *Battle, amount int, act Action) (Action, bool, error) {
	if !act.Target.IsPlayer {
		return Action{}, false, fmt.Errorf("battle: ENERGY_USER status applies only to the player")
	}
	b.player.Energy = amount
	return act, true, nil
}

// energyUserOnEndOfTurn drains unspent energy.
func energyUserOnEndOfTurn(b *Battle, amount int, act Action) (Action, bool, error) {
	if !act.Target.IsPlayer {
		return Action{}, false, fmt.Errorf("battle: ENERGY_USER status applies only to the player")
	}
	b.player.Energy = 0
	return act, true, nil
}

// handDrawerOnStartOfTurn draws the stack amount of cards.
func handDrawerOnStartOfTurn(b *Battle, amount int, act Action) (Action, bool, error) {
	if !act.Target.IsPlayer {
		return Action{}, false, fmt.Errorf("battle: HAND_DRAWER status applies only to the player")
	}
	for i := 0; i < amount; i++ {
		b.PlayerDrawCard()
	}
	return act, true, nil
}

// handDrawerOnEndOfTurn discards the player's whole hand.
func handDrawerOnEndOfTurn(b *Battle, amount int, act Action) (Action, bool, error) {
	if !act.Target.IsPlayer {
		return Action{}, false, fmt.Errorf("battle: HAND_DRAWER status applies only to the player")
	}
	b.PlayerDiscardHand()
	return act, true, nil
}
