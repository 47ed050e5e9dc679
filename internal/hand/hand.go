// Package hand evaluates blackjack hands. Totals are always recomputed from
// the full card sequence so that adding a card can never leave a stale
// soft/hard decision behind.
package hand

import "github.com/lox/blackjack-mcts/internal/deck"

// Kind classifies a finished hand for settlement.
type Kind int

const (
	Regular Kind = iota
	Bust
	Blackjack
	FiveCardCharlie
	SixSevenEight
)

// String returns the string representation of a kind
func (k Kind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Bust:
		return "bust"
	case Blackjack:
		return "blackjack"
	case FiveCardCharlie:
		return "five-card-charlie"
	case SixSevenEight:
		return "6-7-8"
	default:
		return "unknown"
	}
}

// IsPremium reports whether the kind pays the premium rate.
func (k Kind) IsPremium() bool {
	return k == Blackjack || k == FiveCardCharlie || k == SixSevenEight
}

// HardTotal sums the cards with every ace counted as one.
func HardTotal(cards []deck.Card) int {
	total := 0
	for _, c := range cards {
		if c.IsAce() {
			total++
			continue
		}
		total += c.Points()
	}
	return total
}

// Total returns the best blackjack total: aces count eleven unless that
// would bust, and as many as needed fall back to one.
func Total(cards []deck.Card) int {
	total, _ := evaluate(cards)
	return total
}

// IsSoft reports whether an ace is currently being counted as eleven.
func IsSoft(cards []deck.Card) bool {
	_, soft := evaluate(cards)
	return soft
}

func evaluate(cards []deck.Card) (int, bool) {
	total := 0
	aces := 0
	for _, c := range cards {
		total += c.Points()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// IsBust reports whether the hand total exceeds 21.
func IsBust(cards []deck.Card) bool {
	return Total(cards) > 21
}

// IsBlackjack reports a two-card 21.
func IsBlackjack(cards []deck.Card) bool {
	return len(cards) == 2 && Total(cards) == 21
}

// IsFiveCardCharlie reports exactly five cards without busting.
func IsFiveCardCharlie(cards []deck.Card) bool {
	return len(cards) == 5 && Total(cards) <= 21
}

// IsSixSevenEightStraight reports a three-card 21 made of one six, one seven
// and one eight.
func IsSixSevenEightStraight(cards []deck.Card) bool {
	if len(cards) != 3 || Total(cards) != 21 {
		return false
	}
	var seen [deck.King + 1]bool
	for _, c := range cards {
		seen[c.Rank] = true
	}
	return seen[deck.Six] && seen[deck.Seven] && seen[deck.Eight]
}

// IsSoft17 reports a 17 in which an ace is counted as eleven.
func IsSoft17(cards []deck.Card) bool {
	if Total(cards) != 17 {
		return false
	}
	for _, c := range cards {
		if c.IsAce() {
			return HardTotal(cards)+10 == 17
		}
	}
	return false
}

// Classify returns the settlement kind of a hand. Bust takes precedence,
// then blackjack, then the two multi-card premiums.
func Classify(cards []deck.Card) Kind {
	switch {
	case IsBust(cards):
		return Bust
	case IsBlackjack(cards):
		return Blackjack
	case IsFiveCardCharlie(cards):
		return FiveCardCharlie
	case IsSixSevenEightStraight(cards):
		return SixSevenEight
	default:
		return Regular
	}
}

// DealerShouldHit applies the hit-soft-17 rule: the dealer draws below 17
// and on a soft 17.
func DealerShouldHit(cards []deck.Card) bool {
	total := Total(cards)
	return total < 17 || (total == 17 && IsSoft17(cards))
}
