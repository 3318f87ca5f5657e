package deck

import (
	"fmt"
	"strconv"
)

// Suit is a card suit, encoded 0-3 on the wire
type Suit int8

// suit constants, in wire order
const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// rank constants
const (
	Ace   = 1
	Jack  = 11
	Queen = 12
	King  = 13
)

// Card is an individual playing card.
// Cards are value types and freely copyable.
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit"`
}

// GameValue returns the blackjack value of the card.
// Aces always count as 11.
func (c Card) GameValue() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank <= 10:
		return c.Rank
	default:
		return 10
	}
}

// Valid returns true if rank and suit are in range
func (c Card) Valid() bool {
	return c.Rank >= Ace && c.Rank <= King && c.Suit >= Hearts && c.Suit <= Spades
}

func (c Card) String() string {
	var rank string
	switch c.Rank {
	case Ace:
		rank = "A"
	case Jack:
		rank = "J"
	case Queen:
		rank = "Q"
	case King:
		rank = "K"
	default:
		rank = strconv.Itoa(c.Rank)
	}

	var suit string
	switch c.Suit {
	case Hearts:
		suit = "♡"
	case Diamonds:
		suit = "♢"
	case Clubs:
		suit = "♣"
	case Spades:
		suit = "♠"
	default:
		suit = "?"
	}

	return fmt.Sprintf("%s%s", rank, suit)
}
