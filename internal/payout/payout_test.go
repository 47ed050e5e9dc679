package payout

import (
	"testing"

	"github.com/lox/blackjack-mcts/internal/deck"
	"github.com/lox/blackjack-mcts/internal/hand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettle(t *testing.T) {
	table := Default()

	tests := []struct {
		name      string
		player    string
		dealer    string
		wager     Wager
		outcome   Outcome
		units     float64
		insurance float64
	}{
		{"higher total wins", "Ts 9d", "Ts 8d", Wager{}, Win, 1, 0},
		{"lower total loses", "Ts 7d", "Ts 8d", Wager{}, Loss, -1, 0},
		{"equal totals push", "Ts 8d", "9s 9d", Wager{}, Push, 0, 0},
		{"dealer bust", "Ts 2d", "Ts 6d 9c", Wager{}, Win, 1, 0},
		{"player bust loses to dealer bust", "Ts 6d 9c", "Ts 6d 9c", Wager{}, Loss, -1, 0},
		{"blackjack pays premium", "As Kd", "Ts 9d", Wager{}, Premium, 1.5, 0},
		{"both blackjack push", "As Kd", "Ah Qc", Wager{}, Push, 0, 0},
		{"dealer blackjack beats 21", "7s 7d 7c", "Ah Qc", Wager{}, Loss, -1, 0},
		{"charlie pays premium", "2s 3d 4c 5h 6s", "Ts Jd", Wager{}, Premium, 1.5, 0},
		{"six seven eight pays premium", "6s 7d 8c", "Ts Jd", Wager{}, Premium, 1.5, 0},
		{"surrender", "Ts 6d", "Ts 9d", Wager{Surrendered: true}, Surrender, -0.5, 0},
		{"surrender ignores cards", "Ts 6d", "Ts 6d 9c", Wager{Surrendered: true}, Surrender, -0.5, 0},
		{"doubled win", "5s 6d Tc", "Ts 8d", Wager{Doubled: true}, Win, 2, 0},
		{"doubled loss", "5s 6d 2c", "Ts 8d", Wager{Doubled: true}, Loss, -2, 0},
		{"doubled six seven eight", "6s 7d 8c", "Ts Jd", Wager{Doubled: true}, Premium, 3, 0},
		{"insurance pays on dealer blackjack", "Ts 9d", "Ah Kc", Wager{Insured: true}, Loss, -1, 1},
		{"insurance lost", "Ts 9d", "Ah 7c", Wager{Insured: true}, Win, 1, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := table.Settle(deck.MustParseCards(tt.player), deck.MustParseCards(tt.dealer), tt.wager)
			assert.Equal(t, tt.outcome, s.Outcome)
			assert.InDelta(t, tt.units, s.Units, 1e-9)
			assert.InDelta(t, tt.insurance, s.Insurance, 1e-9)
			assert.InDelta(t, tt.units+tt.insurance, s.Net(), 1e-9)
		})
	}
}

func TestSettleClassifiesHands(t *testing.T) {
	s := Default().Settle(deck.MustParseCards("As Kd"), deck.MustParseCards("Ts 6d 9c"), Wager{})
	assert.Equal(t, hand.Blackjack, s.Player)
	assert.Equal(t, hand.Bust, s.Dealer)
}

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 0.0, Normalize(-1), 1e-9)
	assert.InDelta(t, 0.5, Normalize(0), 1e-9)
	assert.InDelta(t, 1.0, Normalize(1), 1e-9)
	assert.InDelta(t, 1.25, Normalize(1.5), 1e-9)
	assert.InDelta(t, 0.25, Normalize(-0.5), 1e-9)
	assert.InDelta(t, -0.5, Normalize(-2), 1e-9)

	assert.Equal(t, 0.0, Clamp(-0.5))
	assert.Equal(t, 0.75, Clamp(0.75))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	bad := Default()
	bad.Premium = 0.5
	assert.ErrorContains(t, bad.Validate(), "premium")

	bad = Default()
	bad.Surrender = 2
	assert.ErrorContains(t, bad.Validate(), "surrender")

	bad = Default()
	bad.DoubleMultiplier = 0
	assert.ErrorContains(t, bad.Validate(), "double multiplier")

	bad = Default()
	bad.Win = 0
	assert.Error(t, bad.Validate())
}
