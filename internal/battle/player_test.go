package battle

import (
	"math/rand"
	"testing"
)

func TestPlayerDrawReshufflesDiscard(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := NewPlayer([]Card{NewStrike(), NewDefend()}, 80)

	if !p.Draw(rng) || !p.Draw(rng) {
		t.Fatal("expected two draws from a two-card deck")
	}
	if len(p.DrawPile) != 0 || len(p.Hand) != 2 {
		t.Fatalf("expected empty draw pile and 2 in hand, got %d/%d", len(p.DrawPile), len(p.Hand))
	}

	p.DiscardHand()
	if len(p.DiscardPile) != 2 {
		t.Fatalf("expected 2 discarded, got %d", len(p.DiscardPile))
	}

	// The next draw must pull the discard pile back in.
	if !p.Draw(rng) {
		t.Fatal("expected reshuffle to make a card available")
	}
	if len(p.Hand) != 1 || len(p.DiscardPile) != 0 {
		t.Fatalf("expected reshuffled draw, got hand=%d discard=%d", len(p.Hand), len(p.DiscardPile))
	}
}

func TestPlayerDrawFromNothing(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := NewPlayer(nil, 80)

	if p.Draw(rng) {
		t.Fatal("drawing with no cards anywhere must report false")
	}
}

func TestPlayerExhaustCard(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := NewPlayer([]Card{NewBash()}, 80)
	p.Draw(rng)

	if !p.ExhaustCard(0) {
		t.Fatal("expected exhaust of the only hand card to succeed")
	}
	if len(p.ExhaustPile) != 1 || len(p.Hand) != 0 {
		t.Fatalf("expected card moved to exhaust pile, got exhaust=%d hand=%d", len(p.ExhaustPile), len(p.Hand))
	}
	if p.ExhaustCard(0) {
		t.Fatal("exhausting an empty hand index must fail")
	}
}

func TestStarterDeckComposition(t *testing.T) {
	deck := NewStarterDeck()
	if len(deck) != 10 {
		t.Fatalf("expected 10 cards, got %d", len(deck))
	}

	counts := make(map[CardID]int)
	for _, card := range deck {
		counts[card.ID()]++
	}
	if counts[CardBash] != 1 || counts[CardStrike] != 5 || counts[CardDefend] != 4 {
		t.Fatalf("unexpected composition: %v", counts)
	}
}
