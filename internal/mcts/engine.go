// Package mcts recommends blackjack decisions with Monte Carlo Tree Search.
//
// Each call to Search builds a fresh tree rooted at the player's hand,
// grows it for the requested number of iterations using UCB1 selection, and
// evaluates leaves by fanning rollouts out over a worker pool. The tree walk
// itself is single threaded; only rollouts run concurrently.
package mcts

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack-mcts/internal/deck"
	"github.com/lox/blackjack-mcts/internal/hand"
	"github.com/lox/blackjack-mcts/internal/payout"
	"github.com/lox/blackjack-mcts/internal/randutil"
	"github.com/lox/blackjack-mcts/internal/workpool"
)

// Request is a single decision to make.
type Request struct {
	Hand            []deck.Card
	DealerVisible   []deck.Card
	KnownPool       []deck.Card
	Iterations      int
	PlayoutsPerLeaf int
	Phase           Phase
	// Insured is set when insurance was taken earlier in the round.
	Insured bool
	// Declined is set once double and surrender have been turned down, so
	// only hit or stand remain.
	Declined bool
}

// ChildStats summarises one root child after a search.
type ChildStats struct {
	Action Action
	Visits int
	Value  float64
	Mean   float64
	// Drawn is the card realised for a Hit child.
	Drawn *deck.Card
}

// Result is the outcome of a search.
type Result struct {
	Action     Action
	Children   []ChildStats
	RootVisits int
	Nodes      int
	Rollouts   int
	Duration   time.Duration
}

// Child returns the statistics for action a, if it was a root child.
func (r *Result) Child(a Action) (ChildStats, bool) {
	for _, c := range r.Children {
		if c.Action == a {
			return c, true
		}
	}
	return ChildStats{}, false
}

// Engine runs searches. It is safe for concurrent use; every search owns
// its tree, worker pool and random source.
type Engine struct {
	exploration float64
	workers     int
	seed        int64
	table       payout.Table
	logger      *log.Logger
	clock       quartz.Clock
	decisions   atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithExploration sets the UCB1 exploration constant.
func WithExploration(c float64) Option {
	return func(e *Engine) { e.exploration = c }
}

// WithWorkers sets the rollout worker count. Zero uses workpool.DefaultSize.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithSeed fixes the base seed. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithPayoutTable replaces the default payout table.
func WithPayoutTable(t payout.Table) Option {
	return func(e *Engine) { e.table = t }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the clock used for timing and clock-derived seeds.
func WithClock(c quartz.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		exploration: DefaultExploration,
		table:       payout.Default(),
		clock:       quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	if e.seed == 0 {
		e.seed = e.clock.Now().UnixNano()
	}
	if e.workers <= 0 {
		e.workers = workpool.DefaultSize()
	}
	return e
}

// Exploration returns the UCB1 exploration constant.
func (e *Engine) Exploration() float64 {
	return e.exploration
}

// Decide returns the recommended action for the request.
func (e *Engine) Decide(req Request) (Action, error) {
	res, err := e.Search(req)
	if err != nil {
		return None, err
	}
	return res.Action, nil
}

// Search runs the full search and returns the per-action statistics.
func (e *Engine) Search(req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	start := e.clock.Now()
	decision := e.decisions.Add(1)
	rng := randutil.New(randutil.Derive(e.seed, decision))

	history := History{Phase: req.Phase}
	if req.Phase == PhasePlay {
		history.Insured = req.Insured
		history.Declined = req.Declined
	}
	dealerShowsAce := req.DealerVisible[0].IsAce()
	tree := NewTree(req.Hand, req.KnownPool, history, dealerShowsAce, e.exploration, rng)

	pool := workpool.New(min(e.workers, req.PlayoutsPerLeaf))
	defer pool.Close()

	rollouts := 0
	for range req.Iterations {
		target := tree.Select()
		if tree.Node(target).Visits > 0 {
			if children := tree.Expand(target); len(children) > 0 {
				target = children[0]
			}
		}

		l := leafOf(tree.Node(target), req.DealerVisible)
		shares := splitRollouts(req.PlayoutsPerLeaf, pool.Size())
		seeds := randutil.Split(rng, len(shares))
		futures := make([]*workpool.Future[rolloutResult], len(shares))
		for i, n := range shares {
			futures[i] = workpool.Submit(pool, func() (rolloutResult, error) {
				return rolloutTask(l, e.table, seeds[i], n), nil
			})
		}
		results, err := workpool.AwaitAll(futures)
		if err != nil {
			return nil, fmt.Errorf("playout failed: %w", err)
		}

		var sum float64
		var count int
		for _, r := range results {
			sum += r.sum
			count += r.count
		}
		rollouts += count
		tree.Backpropagate(target, payout.Clamp(sum/float64(count)))
	}

	best, err := tree.BestChild()
	if err != nil {
		return nil, err
	}
	action := tree.Node(best).Action
	if !tree.Legal(tree.Root()).Has(action) {
		return nil, fmt.Errorf("search chose illegal action %s", action)
	}

	root := tree.Node(tree.Root())
	res := &Result{
		Action:     action,
		RootVisits: root.Visits,
		Nodes:      tree.Len(),
		Rollouts:   rollouts,
		Duration:   e.clock.Since(start),
	}
	for _, c := range root.Children {
		n := tree.Node(c)
		stats := ChildStats{Action: n.Action, Visits: n.Visits, Value: n.Value, Mean: n.Mean()}
		if n.Action == Hit {
			drawn := n.Hand[len(n.Hand)-1]
			stats.Drawn = &drawn
		}
		res.Children = append(res.Children, stats)
	}

	e.logger.Debug("Decision made",
		"action", action,
		"phase", req.Phase,
		"hand", deck.FormatCards(req.Hand),
		"dealer", deck.FormatCards(req.DealerVisible),
		"iterations", req.Iterations,
		"rollouts", rollouts,
		"nodes", res.Nodes,
		"duration", res.Duration)

	return res, nil
}

func validate(req Request) error {
	switch {
	case req.Iterations <= 0:
		return &RequestError{Field: "iterations", Reason: fmt.Sprintf("must be positive, got %d", req.Iterations)}
	case req.PlayoutsPerLeaf <= 0:
		return &RequestError{Field: "playouts", Reason: fmt.Sprintf("must be positive, got %d", req.PlayoutsPerLeaf)}
	case len(req.DealerVisible) == 0:
		return &RequestError{Field: "dealer", Reason: "must show at least one card"}
	case len(req.Hand) == 0:
		return &RequestError{Field: "hand", Reason: "must not be empty"}
	case hand.IsBust(req.Hand):
		return &RequestError{Field: "hand", Reason: fmt.Sprintf("is already bust at %d", hand.Total(req.Hand))}
	case req.Phase != PhasePlay && req.Phase != PhaseInsurance:
		return &RequestError{Field: "phase", Reason: fmt.Sprintf("unknown phase %d", req.Phase)}
	}

	if req.Phase == PhaseInsurance {
		switch {
		case !req.DealerVisible[0].IsAce():
			return &RequestError{Field: "phase", Reason: "insurance requires the dealer to show an ace"}
		case len(req.Hand) != 2:
			return &RequestError{Field: "phase", Reason: "insurance is only offered on the initial two cards"}
		case req.Insured:
			return &RequestError{Field: "phase", Reason: "insurance has already been taken"}
		}
	}
	return nil
}
