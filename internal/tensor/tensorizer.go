package tensor

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deckforge/battlesim/internal/battle"
)

// TokenKind tags one slot of a tensorized state. Kind zero is padding; the
// external observation encoder derives its padding mask from it.
type TokenKind int

const (
	TokenPadding TokenKind = iota
	TokenTurnMarker
	TokenDrawDeckCard
	TokenDiscardDeckCard
	TokenExhaustDeckCard
	TokenHandCard
	TokenEntityHP
	TokenEntityMaxHP
	TokenEntityEnergy
	TokenEntityStatus
	TokenOpponentType
	TokenOpponentIntent
	TokenActionHistory
)

var tokenKindNames = map[TokenKind]string{
	TokenPadding:         "PADDING",
	TokenTurnMarker:      "TURN_MARKER",
	TokenDrawDeckCard:    "DRAW_DECK_CARD",
	TokenDiscardDeckCard: "DISCARD_DECK_CARD",
	TokenExhaustDeckCard: "EXHAUST_DECK_CARD",
	TokenHandCard:        "HAND_CARD",
	TokenEntityHP:        "ENTITY_HP",
	TokenEntityMaxHP:     "ENTITY_MAX_HP",
	TokenEntityEnergy:    "ENTITY_ENERGY",
	TokenEntityStatus:    "ENTITY_STATUS",
	TokenOpponentType:    "OPPONENT_TYPE",
	TokenOpponentIntent:  "OPPONENT_INTENT",
	TokenActionHistory:   "ACTION_HISTORY",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN_%d", int(k))
}

// ActionType tags the action recorded alongside a tensorized state.
type ActionType int

const (
	ActionNoOp ActionType = iota
	ActionPlayCard
	ActionEndTurn
)

var actionTypeNames = map[ActionType]string{
	ActionNoOp:     "NO_OP",
	ActionPlayCard: "PLAY_CARD",
	ActionEndTurn:  "END_TURN",
}

func (a ActionType) String() string {
	if name, ok := actionTypeNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(a))
}

// Config controls tensorization.
type Config struct {
	// ContextSize is the fixed length of every output array. A state
	// needing more slots is a capacity error, never a truncation.
	ContextSize int

	// IncludeTurnMarker emits the turn number as the leading token.
	IncludeTurnMarker bool

	// IncludeActionHistory emits the most recently recorded actions after
	// the player block.
	IncludeActionHistory bool

	// ActionHistoryLen bounds how many recent actions are emitted.
	ActionHistoryLen int
}

// DefaultConfig matches the reference recording setup.
func DefaultConfig() Config {
	return Config{
		ContextSize:      128,
		ActionHistoryLen: 8,
	}
}

// CapacityError reports a state that does not fit the configured context
// size. It indicates an integration defect (context sized too small for the
// encounter) and is never retried or silently truncated, since truncation
// would corrupt everything recorded downstream.
type CapacityError struct {
	Needed int
	Limit  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("tensor: state needs %d tokens, context size is %d", e.Needed, e.Limit)
}

// State is one tensorized battle snapshot: six parallel arrays of identical
// fixed length.
type State struct {
	TokenKinds      []int32
	CardIDs         []int32
	StatusIDs       []int32
	IntentIDs       []int32
	OpponentTypeIDs []int32
	Numbers         [][]float32
}

// token is one slot before padding to the context size.
type token struct {
	kind    TokenKind
	card    int
	status  int
	intent  int
	oppType int
	value   int
}

// Step is one recorded playthrough entry: a tensorized state plus the
// action metadata that produced it.
type Step struct {
	State     State
	Action    ActionType
	CardIdx   int
	TargetIdx int
	Reward    float64
	Turn      int

	// EnemyMove is set when the step records an opponent acting.
	EnemyMove *EnemyMove
}

// EnemyMove describes the opponent action a step captured.
type EnemyMove struct {
	EnemyIdx int
	MoveKind int
	Amount   int
}

// actionRecord is a history entry for optional action-history emission.
type actionRecord struct {
	action  ActionType
	cardIdx int
}

// Tensorizer encodes battle snapshots and accumulates playthrough steps for
// persistence.
type Tensorizer struct {
	cfg     Config
	logger  *zap.Logger
	id      string
	steps   []Step
	history []actionRecord
}

// New creates a tensorizer with a fresh playthrough identity.
func New(cfg Config, logger *zap.Logger) *Tensorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = DefaultConfig().ContextSize
	}
	if cfg.ActionHistoryLen <= 0 {
		cfg.ActionHistoryLen = DefaultConfig().ActionHistoryLen
	}
	return &Tensorizer{
		cfg:    cfg,
		logger: logger,
		id:     uuid.NewString(),
	}
}

// ID returns the playthrough identifier embedded in saved files.
func (t *Tensorizer) ID() string { return t.id }

// Steps returns the recorded steps in order.
func (t *Tensorizer) Steps() []Step { return t.steps }

// Tensorize encodes the battle's current state into fixed-shape arrays.
// Emission order is load-bearing for the decoder: optional turn marker,
// draw pile, discard pile, exhaust pile, hand, player HP/max HP/energy,
// player statuses in canonical order, optional action history, then each
// opponent's type, HP, max HP, intent, and statuses.
func (t *Tensorizer) Tensorize(b *battle.Battle) (State, error) {
	player := b.Player()
	if player == nil {
		return State{}, battle.ErrNotConfigured
	}

	var tokens []token

	if t.cfg.IncludeTurnMarker {
		tokens = append(tokens, token{kind: TokenTurnMarker, value: b.Turn()})
	}

	for _, card := range player.DrawPile {
		tokens = append(tokens, token{kind: TokenDrawDeckCard, card: CardIndex(card.ID()), value: card.Cost()})
	}
	for _, card := range player.DiscardPile {
		tokens = append(tokens, token{kind: TokenDiscardDeckCard, card: CardIndex(card.ID()), value: card.Cost()})
	}
	for _, card := range player.ExhaustPile {
		tokens = append(tokens, token{kind: TokenExhaustDeckCard, card: CardIndex(card.ID()), value: card.Cost()})
	}
	for _, card := range player.Hand {
		tokens = append(tokens, token{kind: TokenHandCard, card: CardIndex(card.ID()), value: card.Cost()})
	}

	tokens = append(tokens,
		token{kind: TokenEntityHP, value: player.CurrentHealth},
		token{kind: TokenEntityMaxHP, value: player.MaxHealth},
		token{kind: TokenEntityEnergy, value: player.Energy},
	)
	for _, stack := range player.ActiveStatuses() {
		tokens = append(tokens, token{kind: TokenEntityStatus, status: StatusIndex(stack.Kind), value: stack.Amount})
	}

	if t.cfg.IncludeActionHistory {
		for _, rec := range t.history {
			tokens = append(tokens, token{kind: TokenActionHistory, card: rec.cardIdx, value: int(rec.action)})
		}
	}

	for _, opp := range b.Opponents() {
		tokens = append(tokens, token{kind: TokenOpponentType, oppType: OpponentTypeIndex(opp.Type)})
		tokens = append(tokens,
			token{kind: TokenEntityHP, value: opp.CurrentHealth},
			token{kind: TokenEntityMaxHP, value: opp.MaxHealth},
		)
		if opp.NextMove != nil {
			tokens = append(tokens, token{kind: TokenOpponentIntent, intent: IntentIndex(opp.NextMove.Kind), value: opp.NextMove.Amount})
		}
		for _, stack := range opp.ActiveStatuses() {
			tokens = append(tokens, token{kind: TokenEntityStatus, status: StatusIndex(stack.Kind), value: stack.Amount})
		}
	}

	if len(tokens) > t.cfg.ContextSize {
		return State{}, &CapacityError{Needed: len(tokens), Limit: t.cfg.ContextSize}
	}

	state := newPaddedState(t.cfg.ContextSize)
	for i, tok := range tokens {
		state.TokenKinds[i] = int32(tok.kind)
		state.CardIDs[i] = int32(tok.card)
		state.StatusIDs[i] = int32(tok.status)
		state.IntentIDs[i] = int32(tok.intent)
		state.OpponentTypeIDs[i] = int32(tok.oppType)
		state.Numbers[i] = EncodeNumber(tok.value)
	}
	return state, nil
}

// newPaddedState allocates a state of all-padding tokens.
func newPaddedState(contextSize int) State {
	state := State{
		TokenKinds:      make([]int32, contextSize),
		CardIDs:         make([]int32, contextSize),
		StatusIDs:       make([]int32, contextSize),
		IntentIDs:       make([]int32, contextSize),
		OpponentTypeIDs: make([]int32, contextSize),
		Numbers:         make([][]float32, contextSize),
	}
	for i := range state.Numbers {
		state.Numbers[i] = make([]float32, NumberEncodingDims)
	}
	return state
}

// pushHistory appends an action to the bounded history buffer.
func (t *Tensorizer) pushHistory(action ActionType, cardIdx int) {
	t.history = append(t.history, actionRecord{action: action, cardIdx: cardIdx})
	if len(t.history) > t.cfg.ActionHistoryLen {
		t.history = t.history[len(t.history)-t.cfg.ActionHistoryLen:]
	}
}

// RecordPlayCard snapshots the state and records a card play.
func (t *Tensorizer) RecordPlayCard(b *battle.Battle, cardIdx, targetIdx int, reward float64) error {
	state, err := t.Tensorize(b)
	if err != nil {
		return err
	}
	t.steps = append(t.steps, Step{
		State:     state,
		Action:    ActionPlayCard,
		CardIdx:   cardIdx,
		TargetIdx: targetIdx,
		Reward:    reward,
		Turn:      b.Turn(),
	})
	t.pushHistory(ActionPlayCard, cardIdx)
	return nil
}

// RecordEndTurn snapshots the state and records a turn end.
func (t *Tensorizer) RecordEndTurn(b *battle.Battle, reward float64) error {
	state, err := t.Tensorize(b)
	if err != nil {
		return err
	}
	t.steps = append(t.steps, Step{
		State:     state,
		Action:    ActionEndTurn,
		CardIdx:   -1,
		TargetIdx: -1,
		Reward:    reward,
		Turn:      b.Turn(),
	})
	t.pushHistory(ActionEndTurn, -1)
	return nil
}

// RecordEnemyAction snapshots the state around an opponent acting. The step
// carries a no-op action plus the opponent move metadata.
func (t *Tensorizer) RecordEnemyAction(b *battle.Battle, enemyIdx int, move battle.NextMove, reward float64) error {
	state, err := t.Tensorize(b)
	if err != nil {
		return err
	}
	t.steps = append(t.steps, Step{
		State:     state,
		Action:    ActionNoOp,
		CardIdx:   -1,
		TargetIdx: -1,
		Reward:    reward,
		Turn:      b.Turn(),
		EnemyMove: &EnemyMove{
			EnemyIdx: enemyIdx,
			MoveKind: int(move.Kind),
			Amount:   move.Amount,
		},
	})
	return nil
}

// RecordState snapshots the state with a no-op action.
func (t *Tensorizer) RecordState(b *battle.Battle, reward float64) error {
	state, err := t.Tensorize(b)
	if err != nil {
		return err
	}
	t.steps = append(t.steps, Step{
		State:     state,
		Action:    ActionNoOp,
		CardIdx:   -1,
		TargetIdx: -1,
		Reward:    reward,
		Turn:      b.Turn(),
	})
	return nil
}
