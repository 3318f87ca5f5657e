package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a := assert.New(t)

	d := New()
	a.Equal(52, d.CardsLeft())

	seen := make(map[Card]bool)
	for i := 0; i < 52; i++ {
		card := d.Draw()
		a.True(card.Valid())
		a.False(seen[card], "duplicate card %s", card)
		seen[card] = true
	}
	a.Len(seen, 52)
}

func TestDeck_SetSeed(t *testing.T) {
	a := assert.New(t)

	d1 := New()
	d1.SetSeed(1)

	d2 := New()
	d2.SetSeed(1)

	for i := 0; i < 52; i++ {
		a.Equal(d1.Draw(), d2.Draw())
	}
}

func TestDeck_Ensure(t *testing.T) {
	a := assert.New(t)

	d := New()
	d.SetSeed(1)

	for i := 0; i < 40; i++ {
		d.Draw()
	}
	a.Equal(12, d.CardsLeft())

	// enough cards, no reshuffle
	d.Ensure(12)
	a.Equal(12, d.CardsLeft())

	// too few, fresh full deck
	d.Ensure(13)
	a.Equal(52, d.CardsLeft())
}

func TestDeck_DrawReshufflesWhenEmpty(t *testing.T) {
	a := assert.New(t)

	d := New()
	d.SetSeed(1)

	for i := 0; i < 52; i++ {
		d.Draw()
	}
	a.Equal(0, d.CardsLeft())

	card := d.Draw()
	a.True(card.Valid())
	a.Equal(51, d.CardsLeft())
}
