package deck

import (
	"oneboard-server/internal/rng"
)

// Deck is an ordered sequence of 52 playing cards.
// Draws pop from the end; when the deck runs low it is rebuilt
// as a freshly shuffled full deck.
type Deck struct {
	cards []Card
	rng   rng.Generator
}

// New returns a freshly shuffled 52-card deck
func New() *Deck {
	d := &Deck{rng: rng.Crypto{}}
	d.Reshuffle()
	return d
}

// SetSeed swaps in a deterministic generator and reshuffles.
// This should only be used by tests.
func (d *Deck) SetSeed(seed int64) {
	d.rng = rng.NewSeeded(seed)
	d.Reshuffle()
}

// Reshuffle discards whatever is left and rebuilds a shuffled 52-card deck
func (d *Deck) Reshuffle() {
	cards := make([]Card, 0, 52)
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Ace; rank <= King; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}

	for j := len(cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	d.cards = cards
}

// Ensure reshuffles a full deck if fewer than want cards remain.
// Cards still in play are abandoned, not folded back in.
func (d *Deck) Ensure(want int) {
	if len(d.cards) < want {
		d.Reshuffle()
	}
}

// Draw removes and returns the top card, reshuffling first if the deck is empty
func (d *Deck) Draw() Card {
	d.Ensure(1)

	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.cards)
}
