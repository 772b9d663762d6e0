package battle

import "fmt"

// Event is a battle outcome notification queued for the driving harness.
// Events accumulate during an operation and are handed over, in emission
// order, by DrainEvents.
type Event int

const (
	EventPlayerDeath Event = iota + 1
	EventOpponentDeath
	EventWinBattle
)

var eventNames = map[Event]string{
	EventPlayerDeath:   "PLAYER_DEATH",
	EventOpponentDeath: "OPPONENT_DEATH",
	EventWinBattle:     "WIN_BATTLE",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("EVENT_%d", int(e))
}
