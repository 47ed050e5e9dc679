package deck

import (
	"fmt"
	"strings"
)

// ParseCards parses a string of card notation into a slice of cards.
// Format: "AsKd7h" or "As Kd 10h" where each card is [Rank][Suit]
// Ranks: A, K, Q, J, T (or 10), 9, 8, 7, 6, 5, 4, 3, 2
// Suits: s (spades), h (hearts), d (diamonds), c (clubs)
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "").Replace(s)

	var cards []Card
	for i := 0; i < len(s); {
		rankLen := 1
		if s[i] == '1' && i+1 < len(s) && s[i+1] == '0' {
			rankLen = 2
		}

		rank, err := parseRank(s[i : i+rankLen])
		if err != nil {
			return nil, fmt.Errorf("invalid rank at position %d: %w", i, err)
		}

		if i+rankLen >= len(s) {
			return nil, fmt.Errorf("incomplete card at position %d", i)
		}

		suit, err := parseSuit(s[i+rankLen])
		if err != nil {
			return nil, fmt.Errorf("invalid suit '%c' at position %d: %w", s[i+rankLen], i+rankLen, err)
		}

		cards = append(cards, Card{Rank: rank, Suit: suit})
		i += rankLen + 1
	}

	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

func parseRank(s string) (Rank, error) {
	if s == "10" {
		return Ten, nil
	}
	switch s[0] {
	case 'A', 'a':
		return Ace, nil
	case 'K', 'k':
		return King, nil
	case 'Q', 'q':
		return Queen, nil
	case 'J', 'j':
		return Jack, nil
	case 'T', 't':
		return Ten, nil
	case '2', '3', '4', '5', '6', '7', '8', '9':
		return Rank(s[0] - '0'), nil
	default:
		return 0, fmt.Errorf("unknown rank '%s'", s)
	}
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 's', 'S':
		return Spades, nil
	case 'h', 'H':
		return Hearts, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	default:
		return 0, fmt.Errorf("unknown suit '%c'", c)
	}
}
