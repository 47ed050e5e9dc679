package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// DefaultDecks is the number of 52-card packs in a standard shoe.
const DefaultDecks = 4

// Deck represents a shoe of one or more packs of playing cards
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewShoe creates a shuffled shoe of the given number of packs.
func NewShoe(decks int, rng *rand.Rand) *Deck {
	d := &Deck{
		cards: FullShoe(decks),
		rng:   rng,
	}
	d.Shuffle()
	return d
}

// FullShoe returns every card of the given number of packs in a fixed order.
func FullShoe(decks int) []Card {
	cards := make([]Card, 0, decks*52)
	for range decks {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Ace; rank <= King; rank++ {
				cards = append(cards, NewCard(rank, suit))
			}
		}
	}
	return cards
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	Shuffle(d.cards, d.rng)
}

// Shuffle performs an in-place Fisher-Yates shuffle of cards.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealN deals up to n cards from the deck
func (d *Deck) DealN(n int) []Card {
	n = min(n, len(d.cards))

	cards := make([]Card, n)
	for i := range n {
		cards[i], _ = d.Deal()
	}

	return cards
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Remaining returns a copy of the undealt cards in deal order.
func (d *Deck) Remaining() []Card {
	return append([]Card(nil), d.cards...)
}

// Without returns a copy of pool with one instance of each listed card
// removed. It fails if a card is not present in the pool.
func Without(pool []Card, cards ...Card) ([]Card, error) {
	out := append([]Card(nil), pool...)
	for _, c := range cards {
		idx := -1
		for i, p := range out {
			if p == c {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("card %s not in pool", c)
		}
		out = append(out[:idx], out[idx+1:]...)
	}
	return out, nil
}
