package strategy

import (
	"github.com/lox/blackjack-mcts/internal/hand"
)

// Basic is a fixed rule-of-thumb strategy. It never counts cards.
type Basic struct{}

// NewBasic creates a basic-strategy advisor.
func NewBasic() *Basic {
	return &Basic{}
}

func (b *Basic) Name() string {
	return "basic"
}

// Insurance is only taken to protect a blackjack.
func (b *Basic) Insurance(v View) bool {
	return v.DealerUp.IsAce() && hand.IsBlackjack(v.Hand)
}

func (b *Basic) DoubleOrSurrender(v View) (bool, bool) {
	if len(v.Hand) != 2 || v.Insured {
		return false, false
	}
	total := hand.Total(v.Hand)
	up := v.DealerUp.Points()

	if total >= 9 && total <= 11 && dealerWeak(up) {
		return true, false
	}
	if total == 16 && up >= 9 {
		return false, true
	}
	if total == 15 && up == 10 {
		return false, true
	}
	return false, false
}

func (b *Basic) Hit(v View) bool {
	total := hand.Total(v.Hand)
	switch {
	case total < 12:
		return true
	case hand.IsSoft(v.Hand):
		return total <= 17
	case total <= 16:
		return !dealerWeak(v.DealerUp.Points())
	default:
		return false
	}
}

func dealerWeak(up int) bool {
	return up >= 2 && up <= 6
}

// Stand never draws and never takes a side bet.
type Stand struct{}

// NewStand creates an always-stand advisor.
func NewStand() *Stand {
	return &Stand{}
}

func (s *Stand) Name() string { return "stand" }

func (s *Stand) Insurance(View) bool { return false }

func (s *Stand) DoubleOrSurrender(View) (bool, bool) { return false, false }

func (s *Stand) Hit(View) bool { return false }
