package tensor

import "github.com/deckforge/battlesim/internal/battle"

// VocabVersion tags the recording vocabulary baked into this build. Replay
// files carry the version in their header; a mismatch on read is reported
// but decoding proceeds best-effort.
const VocabVersion = 1

// The supported enumerations map game identifiers to dense positive indices.
// Index 0 is reserved everywhere for absence/padding. Changing any of these
// lists invalidates previously recorded data.
var (
	SupportedCards = []battle.CardID{
		battle.CardBash,
		battle.CardStrike,
		battle.CardDefend,
	}

	SupportedStatuses = battle.StatusKinds()

	SupportedIntents = []battle.MoveKind{
		battle.MoveAttack,
		battle.MoveRitual,
	}

	SupportedOpponentTypes = []battle.OpponentType{
		battle.OpponentCultist,
	}
)

var (
	cardIndex         map[battle.CardID]int
	statusIndex       map[battle.StatusKind]int
	intentIndex       map[battle.MoveKind]int
	opponentTypeIndex map[battle.OpponentType]int
)

func init() {
	cardIndex = make(map[battle.CardID]int, len(SupportedCards))
	for i, id := range SupportedCards {
		cardIndex[id] = i + 1
	}
	statusIndex = make(map[battle.StatusKind]int, len(SupportedStatuses))
	for i, kind := range SupportedStatuses {
		statusIndex[kind] = i + 1
	}
	intentIndex = make(map[battle.MoveKind]int, len(SupportedIntents))
	for i, kind := range SupportedIntents {
		intentIndex[kind] = i + 1
	}
	opponentTypeIndex = make(map[battle.OpponentType]int, len(SupportedOpponentTypes))
	for i, typ := range SupportedOpponentTypes {
		opponentTypeIndex[typ] = i + 1
	}
}

// CardIndex returns the dense vocabulary index for a card, or 0 when the
// card is not part of the supported enumeration.
func CardIndex(id battle.CardID) int { return cardIndex[id] }

// StatusIndex returns the dense vocabulary index for a status kind.
func StatusIndex(kind battle.StatusKind) int { return statusIndex[kind] }

// IntentIndex returns the dense vocabulary index for an opponent move kind.
func IntentIndex(kind battle.MoveKind) int { return intentIndex[kind] }

// OpponentTypeIndex returns the dense vocabulary index for an opponent type.
func OpponentTypeIndex(typ battle.OpponentType) int { return opponentTypeIndex[typ] }

// CardName resolves a vocabulary index back to a card name; unknown indices
// are reported as UNKNOWN.
func CardName(idx int) string {
	if idx >= 1 && idx <= len(SupportedCards) {
		return SupportedCards[idx-1].String()
	}
	return "UNKNOWN"
}

// StatusName resolves a vocabulary index back to a status name.
func StatusName(idx int) string {
	if idx >= 1 && idx <= len(SupportedStatuses) {
		return SupportedStatuses[idx-1].String()
	}
	return "UNKNOWN"
}

// IntentName resolves a vocabulary index back to a move-kind name.
func IntentName(idx int) string {
	if idx >= 1 && idx <= len(SupportedIntents) {
		return SupportedIntents[idx-1].String()
	}
	return "UNKNOWN"
}

// OpponentTypeName resolves a vocabulary index back to an opponent type name.
func OpponentTypeName(idx int) string {
	if idx >= 1 && idx <= len(SupportedOpponentTypes) {
		return SupportedOpponentTypes[idx-1].String()
	}
	return "UNKNOWN"
}

// VocabSnapshot is the vocabulary image embedded in every replay header so
// tooling can interpret indices without this build's constants.
type VocabSnapshot struct {
	Version       int            `json:"version"`
	Cards         map[string]int `json:"cards"`
	Statuses      map[string]int `json:"statuses"`
	Intents       map[string]int `json:"intents"`
	OpponentTypes map[string]int `json:"opponent_types"`
}

// NewVocabSnapshot captures the build's vocabulary.
func NewVocabSnapshot() VocabSnapshot {
	snap := VocabSnapshot{
		Version:       VocabVersion,
		Cards:         make(map[string]int, len(SupportedCards)),
		Statuses:      make(map[string]int, len(SupportedStatuses)),
		Intents:       make(map[string]int, len(SupportedIntents)),
		OpponentTypes: make(map[string]int, len(SupportedOpponentTypes)),
	}
	for i, id := range SupportedCards {
		snap.Cards[id.String()] = i + 1
	}
	for i, kind := range SupportedStatuses {
		snap.Statuses[kind.String()] = i + 1
	}
	for i, kind := range SupportedIntents {
		snap.Intents[kind.String()] = i + 1
	}
	for i, typ := range SupportedOpponentTypes {
		snap.OpponentTypes[typ.String()] = i + 1
	}
	return snap
}
