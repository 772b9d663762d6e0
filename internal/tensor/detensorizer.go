package tensor

// The detensorizer reconstructs a structured battle description from a
// token stream. It is the inverse of Tensorize and relies on its emission
// order: one linear pass tracks the current entity, which is the player
// until the first opponent token appears, after which status and intent
// tokens attribute to the most recently started opponent.

// DecodedCard is a card recovered from the stream.
type DecodedCard struct {
	Name string
	Cost int
}

// DecodedIntent is an opponent's telegraphed move.
type DecodedIntent struct {
	Name   string
	Amount int
}

// DecodedPlayer is the reconstructed player block.
type DecodedPlayer struct {
	HP          int
	MaxHP       int
	Energy      int
	Hand        []DecodedCard
	DrawPile    []DecodedCard
	DiscardPile []DecodedCard
	ExhaustPile []DecodedCard
	Statuses    map[string]int
}

// DecodedOpponent is one reconstructed opponent block.
type DecodedOpponent struct {
	Type     string
	HP       int
	MaxHP    int
	Intent   *DecodedIntent
	Statuses map[string]int
}

// DecodedAction is the action metadata recorded alongside a state.
type DecodedAction struct {
	Type      ActionType
	CardIdx   int
	TargetIdx int
	Reward    float64
	Turn      int
}

// DecodedState is one fully reconstructed record.
type DecodedState struct {
	Player    DecodedPlayer
	Opponents []DecodedOpponent
	Action    DecodedAction
}

// DecodedStep augments a decoded state with derived playthrough flags.
type DecodedStep struct {
	DecodedState

	// EndOfTurn marks records whose action ended the turn.
	EndOfTurn bool

	// LikelyOpponentAction marks records where the player's health
	// strictly decreased versus the previous record, a heuristic for an
	// opponent having acted.
	LikelyOpponentAction bool
}

// DecodeState reconstructs the structured description of one step.
func DecodeState(step Step) DecodedState {
	state := DecodedState{
		Player: DecodedPlayer{Statuses: make(map[string]int)},
		Action: DecodedAction{
			Type:      step.Action,
			CardIdx:   step.CardIdx,
			TargetIdx: step.TargetIdx,
			Reward:    step.Reward,
			Turn:      step.Turn,
		},
	}

	playerHPSeen := false
	playerMaxHPSeen := false

	// currentOpponent returns the opponent block under construction, or
	// nil while tokens still belong to the player.
	currentOpponent := func() *DecodedOpponent {
		if len(state.Opponents) == 0 {
			return nil
		}
		return &state.Opponents[len(state.Opponents)-1]
	}

	for i, rawKind := range step.State.TokenKinds {
		kind := TokenKind(rawKind)
		if kind == TokenPadding {
			continue
		}
		value := DecodeNumber(step.State.Numbers[i])

		switch kind {
		case TokenTurnMarker:
			state.Action.Turn = value

		case TokenDrawDeckCard:
			if idx := int(step.State.CardIDs[i]); idx > 0 {
				state.Player.DrawPile = append(state.Player.DrawPile, DecodedCard{Name: CardName(idx), Cost: value})
			}
		case TokenDiscardDeckCard:
			if idx := int(step.State.CardIDs[i]); idx > 0 {
				state.Player.DiscardPile = append(state.Player.DiscardPile, DecodedCard{Name: CardName(idx), Cost: value})
			}
		case TokenExhaustDeckCard:
			if idx := int(step.State.CardIDs[i]); idx > 0 {
				state.Player.ExhaustPile = append(state.Player.ExhaustPile, DecodedCard{Name: CardName(idx), Cost: value})
			}
		case TokenHandCard:
			if idx := int(step.State.CardIDs[i]); idx > 0 {
				state.Player.Hand = append(state.Player.Hand, DecodedCard{Name: CardName(idx), Cost: value})
			}

		case TokenEntityHP:
			if !playerHPSeen {
				state.Player.HP = value
				playerHPSeen = true
			} else if opp := currentOpponent(); opp != nil && opp.HP < 0 {
				opp.HP = value
			} else {
				// Opponent HP without a preceding type token: start the
				// entity lazily.
				state.Opponents = append(state.Opponents, newDecodedOpponent())
				currentOpponent().HP = value
			}
		case TokenEntityMaxHP:
			if !playerMaxHPSeen {
				state.Player.MaxHP = value
				playerMaxHPSeen = true
			} else if opp := currentOpponent(); opp != nil {
				opp.MaxHP = value
			}
		case TokenEntityEnergy:
			state.Player.Energy = value

		case TokenEntityStatus:
			idx := int(step.State.StatusIDs[i])
			if idx <= 0 {
				continue
			}
			if opp := currentOpponent(); opp != nil {
				opp.Statuses[StatusName(idx)] = value
			} else {
				state.Player.Statuses[StatusName(idx)] = value
			}

		case TokenOpponentType:
			opp := newDecodedOpponent()
			opp.Type = OpponentTypeName(int(step.State.OpponentTypeIDs[i]))
			state.Opponents = append(state.Opponents, opp)

		case TokenOpponentIntent:
			idx := int(step.State.IntentIDs[i])
			if idx <= 0 {
				continue
			}
			if opp := currentOpponent(); opp != nil {
				opp.Intent = &DecodedIntent{Name: IntentName(idx), Amount: value}
			}
		}
	}

	// Clear the sentinel on opponents whose HP token never arrived.
	for i := range state.Opponents {
		if state.Opponents[i].HP < 0 {
			state.Opponents[i].HP = 0
		}
	}
	return state
}

// newDecodedOpponent starts an opponent block with an HP sentinel marking
// that its HP token has not arrived yet.
func newDecodedOpponent() DecodedOpponent {
	return DecodedOpponent{
		Type:     OpponentTypeName(0),
		HP:       -1,
		Statuses: make(map[string]int),
	}
}

// DecodePlaythrough decodes every step and derives the end-of-turn and
// likely-opponent-action flags for downstream tooling.
func DecodePlaythrough(steps []Step) []DecodedStep {
	decoded := make([]DecodedStep, 0, len(steps))
	prevHP := -1
	for _, step := range steps {
		state := DecodeState(step)
		out := DecodedStep{
			DecodedState: state,
			EndOfTurn:    step.Action == ActionEndTurn,
		}
		if prevHP >= 0 && state.Player.HP < prevHP {
			out.LikelyOpponentAction = true
		}
		prevHP = state.Player.HP
		decoded = append(decoded, out)
	}
	return decoded
}
