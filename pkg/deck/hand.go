package deck

import "strings"

// Hand is an ordered sequence of cards belonging to one owner.
// Hands live for a single round.
type Hand []Card

// Total returns the sum of the blackjack values of the cards
func (h Hand) Total() int {
	total := 0
	for _, c := range h {
		total += c.GameValue()
	}

	return total
}

// Busted returns true if the hand total exceeds 21
func (h Hand) Busted() bool {
	return h.Total() > 21
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, c := range h {
		parts[i] = c.String()
	}

	return strings.Join(parts, " ")
}
