// Package payout holds the canonical settlement table shared by the search
// rollouts and the round simulator. Amounts are in units of the initial bet.
package payout

import (
	"errors"
	"fmt"

	"github.com/lox/blackjack-mcts/internal/deck"
	"github.com/lox/blackjack-mcts/internal/hand"
)

// Outcome is the result of the main bet.
type Outcome int

const (
	Loss Outcome = iota
	Push
	Win
	Premium
	Surrender
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Loss:
		return "loss"
	case Push:
		return "push"
	case Win:
		return "win"
	case Premium:
		return "premium"
	case Surrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// Table lists payout magnitudes. Losses are stored as positive amounts and
// subtracted during settlement.
type Table struct {
	Win              float64
	Loss             float64
	Premium          float64
	Surrender        float64
	DoubleMultiplier float64
	InsuranceSuccess float64
	InsuranceFail    float64
}

// Default returns the standard table: even money, 3:2 premiums, half back on
// surrender, and an insurance side bet of half the stake paying 2:1.
func Default() Table {
	return Table{
		Win:              1,
		Loss:             1,
		Premium:          1.5,
		Surrender:        0.5,
		DoubleMultiplier: 2,
		InsuranceSuccess: 1,
		InsuranceFail:    0.5,
	}
}

// Validate checks the table for nonsensical amounts.
func (t Table) Validate() error {
	if t.Win <= 0 || t.Loss <= 0 {
		return errors.New("win and loss amounts must be positive")
	}
	if t.Premium < t.Win {
		return fmt.Errorf("premium %.2f must not be below win %.2f", t.Premium, t.Win)
	}
	if t.Surrender < 0 || t.Surrender > t.Loss {
		return fmt.Errorf("surrender %.2f must be between 0 and loss %.2f", t.Surrender, t.Loss)
	}
	if t.DoubleMultiplier < 1 {
		return fmt.Errorf("double multiplier %.2f must be at least 1", t.DoubleMultiplier)
	}
	if t.InsuranceSuccess < 0 || t.InsuranceFail < 0 {
		return errors.New("insurance amounts must not be negative")
	}
	return nil
}

// Wager describes the decisions taken on a hand.
type Wager struct {
	Doubled     bool
	Surrendered bool
	Insured     bool
}

// Settlement is the settled value of one hand.
type Settlement struct {
	Outcome   Outcome
	Units     float64
	Insurance float64
	Player    hand.Kind
	Dealer    hand.Kind
}

// Net returns the main bet and insurance combined.
func (s Settlement) Net() float64 {
	return s.Units + s.Insurance
}

// Settle values a finished hand against the dealer's finished hand.
// A dealer blackjack beats every player hand except another blackjack. The
// premium hands pay ahead of an ordinary comparison, and a player bust loses
// even if the dealer also busts.
func (t Table) Settle(player, dealer []deck.Card, w Wager) Settlement {
	s := Settlement{
		Player: hand.Classify(player),
		Dealer: hand.Classify(dealer),
	}

	if w.Insured {
		if s.Dealer == hand.Blackjack {
			s.Insurance = t.InsuranceSuccess
		} else {
			s.Insurance = -t.InsuranceFail
		}
	}

	if w.Surrendered {
		s.Outcome = Surrender
		s.Units = -t.Surrender
		return s
	}

	stake := 1.0
	if w.Doubled {
		stake = t.DoubleMultiplier
	}

	switch {
	case s.Player == hand.Bust:
		s.Outcome = Loss
	case s.Dealer == hand.Blackjack && s.Player == hand.Blackjack:
		s.Outcome = Push
	case s.Dealer == hand.Blackjack:
		s.Outcome = Loss
	case s.Player.IsPremium():
		s.Outcome = Premium
	case s.Dealer == hand.Bust:
		s.Outcome = Win
	default:
		pt, dt := hand.Total(player), hand.Total(dealer)
		switch {
		case pt > dt:
			s.Outcome = Win
		case pt < dt:
			s.Outcome = Loss
		default:
			s.Outcome = Push
		}
	}

	switch s.Outcome {
	case Win:
		s.Units = t.Win * stake
	case Premium:
		s.Units = t.Premium * stake
	case Loss:
		s.Units = -t.Loss * stake
	}
	return s
}

// Normalize maps a settled amount onto the search value scale, where a loss
// is 0, a push 0.5 and an even-money win 1.
func Normalize(units float64) float64 {
	return (units + 1) / 2
}

// Clamp floors an aggregated search value at zero.
func Clamp(v float64) float64 {
	return max(v, 0)
}
