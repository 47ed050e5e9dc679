package strategy

import (
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-mcts/internal/deck"
	"github.com/lox/blackjack-mcts/internal/mcts"
)

// MCTS answers each question with a fresh tree search. When a search fails
// it falls back to the safest answer: no insurance, neither double nor
// surrender, and stand.
type MCTS struct {
	engine *mcts.Engine
	budget Budget
	logger *log.Logger
}

// NewMCTS creates a search-backed advisor.
func NewMCTS(engine *mcts.Engine, budget Budget, logger *log.Logger) *MCTS {
	return &MCTS{
		engine: engine,
		budget: budget,
		logger: logger.WithPrefix("mcts"),
	}
}

func (m *MCTS) Name() string {
	return "mcts"
}

func (m *MCTS) Insurance(v View) bool {
	if !v.DealerUp.IsAce() || len(v.Hand) != 2 || v.Insured {
		return false
	}
	action, ok := m.decide(v, mcts.PhaseInsurance, false)
	return ok && action == mcts.Insurance
}

func (m *MCTS) DoubleOrSurrender(v View) (bool, bool) {
	if len(v.Hand) != 2 || v.Insured {
		return false, false
	}
	action, ok := m.decide(v, mcts.PhasePlay, false)
	if !ok {
		return false, false
	}
	return action == mcts.Double, action == mcts.Surrender
}

// Hit is asked after DoubleOrSurrender, so the search only weighs hit
// against stand.
func (m *MCTS) Hit(v View) bool {
	action, ok := m.decide(v, mcts.PhasePlay, true)
	return ok && action == mcts.Hit
}

func (m *MCTS) decide(v View, phase mcts.Phase, declined bool) (mcts.Action, bool) {
	action, err := m.engine.Decide(mcts.Request{
		Hand:            v.Hand,
		DealerVisible:   []deck.Card{v.DealerUp},
		KnownPool:       v.KnownPool,
		Iterations:      m.budget.Iterations,
		PlayoutsPerLeaf: m.budget.Playouts,
		Phase:           phase,
		Insured:         v.Insured,
		Declined:        declined,
	})
	if err != nil {
		m.logger.Warn("Search failed, using safest action",
			"phase", phase,
			"hand", deck.FormatCards(v.Hand),
			"dealer", v.DealerUp,
			"error", err)
		return mcts.None, false
	}
	return action, true
}
