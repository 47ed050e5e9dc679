// Package strategy answers the three questions a blackjack round asks a
// player: take insurance, double or surrender, and hit or stand.
package strategy

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-mcts/internal/deck"
	"github.com/lox/blackjack-mcts/internal/mcts"
)

// View is what a player can see when asked for a decision.
type View struct {
	Hand      []deck.Card
	DealerUp  deck.Card
	KnownPool []deck.Card
	Insured   bool
}

// Advisor decides on behalf of a player.
type Advisor interface {
	Name() string
	Insurance(v View) bool
	DoubleOrSurrender(v View) (double, surrender bool)
	Hit(v View) bool
}

// Budget is the search effort spent per question.
type Budget struct {
	Iterations int
	Playouts   int
}

// Names lists the advisors New can build.
var Names = []string{"mcts", "basic", "stand"}

// New builds an advisor by name. The engine is only required for "mcts".
func New(name string, engine *mcts.Engine, budget Budget, logger *log.Logger) (Advisor, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}

	switch name {
	case "mcts":
		if engine == nil {
			return nil, fmt.Errorf("advisor %q requires a search engine", name)
		}
		if budget.Iterations <= 0 || budget.Playouts <= 0 {
			return nil, fmt.Errorf("advisor %q requires a positive budget, got %d iterations and %d playouts",
				name, budget.Iterations, budget.Playouts)
		}
		return NewMCTS(engine, budget, logger), nil
	case "basic":
		return NewBasic(), nil
	case "stand":
		return NewStand(), nil
	default:
		return nil, fmt.Errorf("unknown advisor %q", name)
	}
}
