package battle

import "math/rand"

// Player is the deck-holding combatant.
type Player struct {
	Entity

	Energy int

	Hand        []Card
	DrawPile    []Card
	DiscardPile []Card
	ExhaustPile []Card
}

// NewPlayer creates a player at full health whose draw pile is the starting
// deck. Energy starts at zero; an ENERGY_USER status refills it at the start
// of each turn.
func NewPlayer(deck []Card, maxHealth int) *Player {
	p := &Player{Entity: NewEntity(maxHealth)}
	p.DrawPile = append(p.DrawPile, deck...)
	return p
}

// ShuffleDraw shuffles the draw pile in place.
func (p *Player) ShuffleDraw(rng *rand.Rand) {
	rng.Shuffle(len(p.DrawPile), func(i, j int) {
		p.DrawPile[i], p.DrawPile[j] = p.DrawPile[j], p.DrawPile[i]
	})
}

// Draw moves the top card of the draw pile into the hand. When the draw pile
// is empty the discard pile is shuffled back in first. Reports false when
// there is nothing left to draw at all.
func (p *Player) Draw(rng *rand.Rand) bool {
	if len(p.DrawPile) == 0 {
		if len(p.DiscardPile) == 0 {
			return false
		}
		p.DrawPile = append(p.DrawPile, p.DiscardPile...)
		p.DiscardPile = p.DiscardPile[:0]
		p.ShuffleDraw(rng)
	}
	top := len(p.DrawPile) - 1
	p.Hand = append(p.Hand, p.DrawPile[top])
	p.DrawPile = p.DrawPile[:top]
	return true
}

// DiscardHand moves every card in the hand to the discard pile.
func (p *Player) DiscardHand() {
	p.DiscardPile = append(p.DiscardPile, p.Hand...)
	p.Hand = p.Hand[:0]
}

// removeFromHand takes the card at the given hand index out of the hand,
// preserving the order of the rest.
func (p *Player) removeFromHand(idx int) (Card, bool) {
	if idx < 0 || idx >= len(p.Hand) {
		return nil, false
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return card, true
}

// ExhaustCard moves the card at the given hand index to the exhaust pile.
func (p *Player) ExhaustCard(idx int) bool {
	card, ok := p.removeFromHand(idx)
	if !ok {
		return false
	}
	p.ExhaustPile = append(p.ExhaustPile, card)
	return true
}
