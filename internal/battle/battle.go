package battle

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

// Phase is the orchestrator's turn state.
type Phase int

const (
	PhaseSetup Phase = iota
	PhasePlayerTurn
	PhaseEnemyTurn
	PhaseVictory
	PhaseDefeat
)

var phaseNames = map[Phase]string{
	PhaseSetup:      "SETUP",
	PhasePlayerTurn: "PLAYER_TURN",
	PhaseEnemyTurn:  "ENEMY_TURN",
	PhaseVictory:    "VICTORY",
	PhaseDefeat:     "DEFEAT",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Battle orchestrates a single encounter: one player versus a shrinking
// collection of opponents. Execution is fully synchronous; every operation
// completes before the next observation or mutation occurs.
type Battle struct {
	player    *Player
	opponents []*Opponent

	turn    int
	phase   Phase
	pending []Event

	rng    *rand.Rand
	logger *zap.Logger
}

// New creates an unconfigured battle. The seed drives every shuffle the
// battle performs, so a fixed seed and a fixed action sequence replay
// identically.
func New(logger *zap.Logger, seed int64) *Battle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Battle{
		phase:  PhaseSetup,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// SetPlayer installs the player and shuffles their draw pile.
func (b *Battle) SetPlayer(p *Player) {
	b.player = p
	p.ShuffleDraw(b.rng)
}

// SetOpponents installs the active opponent collection.
func (b *Battle) SetOpponents(opponents []*Opponent) {
	b.opponents = opponents
}

// Player returns the player, nil before configuration.
func (b *Battle) Player() *Player { return b.player }

// Opponents returns the live opponent collection. Callers must not hold on
// to the slice across operations; it shrinks on death.
func (b *Battle) Opponents() []*Opponent { return b.opponents }

// NumOpponents reports how many opponents remain.
func (b *Battle) NumOpponents() int { return len(b.opponents) }

// Turn reports the zero-based turn counter.
func (b *Battle) Turn() int { return b.turn }

// CurrentPhase reports the orchestrator state.
func (b *Battle) CurrentPhase() Phase { return b.phase }

// Rand exposes the battle's random source for encounter construction.
func (b *Battle) Rand() *rand.Rand { return b.rng }

// configured reports whether the battle can be driven.
func (b *Battle) configured() error {
	if b.player == nil || b.opponents == nil {
		return ErrNotConfigured
	}
	return nil
}

// FindEntity resolves a logical descriptor to the entity it currently
// addresses. Resolution happens at every point of use because opponent
// indices shift when a death removes an entry mid-resolution.
func (b *Battle) FindEntity(desc EntityDescriptor) (*Entity, error) {
	if err := b.configured(); err != nil {
		return nil, err
	}
	if desc.IsPlayer {
		return &b.player.Entity, nil
	}
	if desc.OpponentIndex < 0 || desc.OpponentIndex >= len(b.opponents) {
		return nil, fmt.Errorf("%w: index %d with %d active", ErrNoSuchOpponent, desc.OpponentIndex, len(b.opponents))
	}
	return &b.opponents[desc.OpponentIndex].Entity, nil
}

// ApplyActionCallbacks runs the status trigger pipeline: every status the
// addressed entity holds is consulted in canonical order, each receiving the
// action the previous one returned. A canceling status stops the walk and
// the action is reported as not surviving. If a callback removes the entity
// itself from play, the walk stops with whatever statuses already ran.
func (b *Battle) ApplyActionCallbacks(act Action, desc EntityDescriptor, trigger TriggerPoint) (Action, bool, error) {
	entity, err := b.FindEntity(desc)
	if err != nil {
		return Action{}, false, err
	}
	// The pass belongs to this entity. Descriptors are positional, so if a
	// callback removes the entity and a later opponent shifts into its slot,
	// re-resolution yields a different entity that must not inherit the rest
	// of this walk.
	owner := entity
	for kind := StatusKind(0); kind < numStatusKinds; kind++ {
		amount, active := entity.StatusAmount(kind)
		if !active {
			continue
		}
		callback := statusEffectAt(kind, trigger)
		if callback == nil {
			continue
		}
		next, survived, err := callback(b, amount, act)
		if err != nil {
			return Action{}, false, err
		}
		if !survived {
			b.logger.Debug("action canceled by status",
				zap.Stringer("status", kind),
				zap.Stringer("trigger", trigger),
				zap.Stringer("entity", desc),
			)
			return Action{}, false, nil
		}
		act = next

		// The callback may have removed the entity (e.g. poison killing
		// its own carrier); stop consulting statuses that no longer exist.
		// A successful re-resolution can still land on a different entity
		// that shifted into the vacated slot, which ends the pass the same
		// way: that entity gets its own pass from the iteration above.
		entity, err = b.FindEntity(desc)
		if err != nil || entity != owner {
			return act, true, nil
		}
	}
	return act, true, nil
}

// AttackEntity builds an attack action and runs it through the attacker's
// pipeline at ON_ATTACK, then the defender's at ON_ATTACKED. Health is
// reduced only if the action survives both stages.
func (b *Battle) AttackEntity(source, target EntityDescriptor, amount int) error {
	act := NewAttack(target, amount)

	act, survived, err := b.ApplyActionCallbacks(act, source, TriggerOnAttack)
	if err != nil {
		return err
	}
	if !survived {
		return nil
	}

	act, survived, err = b.ApplyActionCallbacks(act, target, TriggerOnAttacked)
	if err != nil {
		return err
	}
	if !survived {
		return nil
	}

	b.logger.Debug("attack resolved",
		zap.Stringer("source", source),
		zap.Stringer("target", act.Target),
		zap.Int("damage", act.Damage),
	)
	return b.ReduceEntityHP(act.Target, act.Damage)
}

// ReduceEntityHP clamps health at zero and handles death: a dead player
// queues PLAYER_DEATH and ends the battle in defeat; a dead opponent is
// removed from the active collection, queues OPPONENT_DEATH, and queues
// WIN_BATTLE once the collection empties.
func (b *Battle) ReduceEntityHP(target EntityDescriptor, amount int) error {
	entity, err := b.FindEntity(target)
	if err != nil {
		return err
	}
	if !entity.ReduceHealth(amount) {
		return nil
	}
	if target.IsPlayer {
		b.pending = append(b.pending, EventPlayerDeath)
		b.phase = PhaseDefeat
		b.logger.Info("player died", zap.Int("turn", b.turn))
		return nil
	}
	idx := target.OpponentIndex
	b.opponents = append(b.opponents[:idx], b.opponents[idx+1:]...)
	b.pending = append(b.pending, EventOpponentDeath)
	b.logger.Info("opponent died",
		zap.Int("index", idx),
		zap.Int("remaining", len(b.opponents)),
	)
	if len(b.opponents) == 0 {
		b.pending = append(b.pending, EventWinBattle)
		b.phase = PhaseVictory
	}
	return nil
}

// ApplyStatusToEntity accumulates a status stack on the addressed entity.
func (b *Battle) ApplyStatusToEntity(desc EntityDescriptor, kind StatusKind, amount int) error {
	entity, err := b.FindEntity(desc)
	if err != nil {
		return err
	}
	entity.ApplyStatus(kind, amount)
	return nil
}

// ResetEntityStatus removes a status stack from the addressed entity.
func (b *Battle) ResetEntityStatus(desc EntityDescriptor, kind StatusKind) error {
	entity, err := b.FindEntity(desc)
	if err != nil {
		return err
	}
	entity.ResetStatus(kind)
	return nil
}

// PlayerDrawCard draws one card for the player, reshuffling the discard pile
// into the draw pile when needed.
func (b *Battle) PlayerDrawCard() bool {
	if b.player == nil {
		return false
	}
	return b.player.Draw(b.rng)
}

// PlayerDiscardHand discards the player's whole hand.
func (b *Battle) PlayerDiscardHand() {
	if b.player == nil {
		return
	}
	b.player.DiscardHand()
}

// PlayCardFromHand pays the card's cost, moves it to the discard pile, and
// invokes its on-play callback with the target index. All resulting effects
// come back through Battle operations.
func (b *Battle) PlayCardFromHand(handIdx, targetIdx int) error {
	if err := b.configured(); err != nil {
		return err
	}
	if handIdx < 0 || handIdx >= len(b.player.Hand) {
		return fmt.Errorf("%w: index %d with %d in hand", ErrNoSuchCard, handIdx, len(b.player.Hand))
	}
	card := b.player.Hand[handIdx]
	if card.Cost() > b.player.Energy {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrNotEnoughEnergy, card.ID(), card.Cost(), b.player.Energy)
	}
	onPlay := card.Effects()[CardTriggerOnPlay]
	if onPlay == nil {
		return fmt.Errorf("%w: %s", ErrCardNotPlayable, card.ID())
	}

	b.player.removeFromHand(handIdx)
	b.player.Energy -= card.Cost()
	b.player.DiscardPile = append(b.player.DiscardPile, card)

	b.logger.Info("card played",
		zap.Stringer("card", card.ID()),
		zap.Int("target", targetIdx),
		zap.Int("energy_left", b.player.Energy),
	)
	return onPlay(b, targetIdx)
}

// StartTurn begins a player turn: each opponent commits its next move, then
// start-of-turn trigger processing runs for the player and each opponent in
// order. Energy refill and card draw happen here, driven by the player's
// ENERGY_USER and HAND_DRAWER statuses.
func (b *Battle) StartTurn() error {
	if err := b.configured(); err != nil {
		return err
	}
	if b.phase == PhaseVictory || b.phase == PhaseDefeat {
		return fmt.Errorf("%w: phase %s", ErrBattleEnded, b.phase)
	}
	b.phase = PhasePlayerTurn

	for _, opp := range b.opponents {
		move := opp.Policy.SelectMove(b.turn)
		opp.NextMove = &move
	}

	act := Action{Kind: ActionStartOfTurn, Target: PlayerDescriptor()}
	if _, _, err := b.ApplyActionCallbacks(act, PlayerDescriptor(), TriggerOnStartOfTurn); err != nil {
		return err
	}
	if err := b.forEachOpponent(func(i int) error {
		desc := OpponentDescriptor(i)
		act := Action{Kind: ActionStartOfTurn, Target: desc}
		_, _, err := b.ApplyActionCallbacks(act, desc, TriggerOnStartOfTurn)
		return err
	}); err != nil {
		return err
	}

	b.logger.Debug("turn started", zap.Int("turn", b.turn))
	return nil
}

// EndTurn ends the player turn: every opponent performs its precommitted
// move, end-of-turn trigger processing runs for the player and each
// opponent, and the turn counter advances.
func (b *Battle) EndTurn() error {
	if err := b.configured(); err != nil {
		return err
	}
	if b.phase == PhaseVictory || b.phase == PhaseDefeat {
		return fmt.Errorf("%w: phase %s", ErrBattleEnded, b.phase)
	}
	b.phase = PhaseEnemyTurn

	if err := b.forEachOpponent(b.performOpponentMove); err != nil {
		return err
	}

	act := Action{Kind: ActionEndOfTurn, Target: PlayerDescriptor()}
	if _, _, err := b.ApplyActionCallbacks(act, PlayerDescriptor(), TriggerOnEndOfTurn); err != nil {
		return err
	}
	if err := b.forEachOpponent(func(i int) error {
		desc := OpponentDescriptor(i)
		act := Action{Kind: ActionEndOfTurn, Target: desc}
		_, _, err := b.ApplyActionCallbacks(act, desc, TriggerOnEndOfTurn)
		return err
	}); err != nil {
		return err
	}

	b.turn++
	if b.phase == PhaseEnemyTurn {
		b.phase = PhasePlayerTurn
	}
	b.logger.Debug("turn ended", zap.Int("turn", b.turn))
	return nil
}

// forEachOpponent visits every live opponent by index, tolerating removals:
// when the collection shrinks during a visit the same index is not skipped.
func (b *Battle) forEachOpponent(visit func(i int) error) error {
	for i := 0; i < len(b.opponents); {
		before := len(b.opponents)
		if err := visit(i); err != nil {
			return err
		}
		if len(b.opponents) >= before {
			i++
		}
	}
	return nil
}

// performOpponentMove executes the precommitted move of the opponent at the
// given index.
func (b *Battle) performOpponentMove(i int) error {
	opp := b.opponents[i]
	if opp.NextMove == nil {
		return fmt.Errorf("%w: opponent %d has no committed move", ErrNotConfigured, i)
	}
	move := *opp.NextMove
	b.logger.Debug("opponent move",
		zap.Int("index", i),
		zap.Stringer("move", move.Kind),
		zap.Int("amount", move.Amount),
	)
	switch move.Kind {
	case MoveAttack:
		return b.AttackEntity(OpponentDescriptor(i), PlayerDescriptor(), move.Amount)
	case MoveRitual:
		return b.ApplyStatusToEntity(OpponentDescriptor(i), StatusRitual, move.Amount)
	default:
		return fmt.Errorf("battle: unhandled move kind %s", move.Kind)
	}
}

// DrainEvents returns the queued events in emission order and clears the
// queue.
func (b *Battle) DrainEvents() []Event {
	events := b.pending
	b.pending = nil
	return events
}
