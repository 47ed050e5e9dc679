package deck

import "testing"

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "blackjack",
			input: "AsKs",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Spades, Rank: King},
			},
		},
		{
			name:  "ten as digits",
			input: "10h 7d",
			expected: []Card{
				{Suit: Hearts, Rank: Ten},
				{Suit: Diamonds, Rank: Seven},
			},
		},
		{
			name:  "comma separated",
			input: "6c,7c,8c",
			expected: []Card{
				{Suit: Clubs, Rank: Six},
				{Suit: Clubs, Rank: Seven},
				{Suit: Clubs, Rank: Eight},
			},
		},
		{
			name:  "case insensitive",
			input: "asKHqDjcTS",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
				{Suit: Diamonds, Rank: Queen},
				{Suit: Clubs, Rank: Jack},
				{Suit: Spades, Rank: Ten},
			},
		},
		{
			name:    "invalid rank",
			input:   "XsKs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "AsKx",
			wantErr: true,
		},
		{
			name:    "missing suit",
			input:   "AsK",
			wantErr: true,
		},
		{
			name:    "one is not a rank",
			input:   "1s",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseCards() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !cardsEqual(got, tt.expected) {
				t.Errorf("ParseCards() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustParseCards(t *testing.T) {
	cards := MustParseCards("AsKs")
	expected := []Card{
		{Suit: Spades, Rank: Ace},
		{Suit: Spades, Rank: King},
	}
	if !cardsEqual(cards, expected) {
		t.Errorf("MustParseCards() = %v, want %v", cards, expected)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseCards() should panic on invalid input")
		}
	}()
	MustParseCards("invalid")
}

func TestCardPoints(t *testing.T) {
	tests := []struct {
		card Card
		want int
	}{
		{NewCard(Ace, Spades), 11},
		{NewCard(Two, Hearts), 2},
		{NewCard(Nine, Clubs), 9},
		{NewCard(Ten, Diamonds), 10},
		{NewCard(Jack, Spades), 10},
		{NewCard(Queen, Spades), 10},
		{NewCard(King, Spades), 10},
	}

	for _, tt := range tests {
		if got := tt.card.Points(); got != tt.want {
			t.Errorf("%s.Points() = %d, want %d", tt.card, got, tt.want)
		}
	}
}

func TestCardString(t *testing.T) {
	if got := NewCard(Ten, Hearts).String(); got != "T♥" {
		t.Errorf("String() = %q, want %q", got, "T♥")
	}
	if got := FormatCards(MustParseCards("As7d")); got != "A♠ 7♦" {
		t.Errorf("FormatCards() = %q, want %q", got, "A♠ 7♦")
	}
}

func cardsEqual(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Rank != b[i].Rank || a[i].Suit != b[i].Suit {
			return false
		}
	}
	return true
}
