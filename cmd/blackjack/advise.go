package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjack-mcts/internal/deck"
	"github.com/lox/blackjack-mcts/internal/hand"
	"github.com/lox/blackjack-mcts/internal/mcts"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	actionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// AdviseCmd runs one search and prints the per-action statistics.
type AdviseCmd struct {
	Hand       string `arg:"" help:"Player cards, e.g. 'As 7d'"`
	Dealer     string `short:"d" required:"" help:"Dealer visible card(s), e.g. '9c'"`
	Pool       string `help:"Unseen cards to search over; defaults to the shoe minus every visible card"`
	Seen       string `help:"Other cards already dealt, removed from the default pool"`
	Decks      int    `help:"Packs in the shoe used for the default pool" default:"4"`
	Phase      string `help:"Question to answer" enum:"play,insurance" default:"play"`
	Insured    bool   `help:"Insurance was already taken this round"`
	Declined   bool   `help:"Double and surrender were already turned down"`
	Iterations int    `short:"i" help:"Search iterations (default from config)"`
	Playouts   int    `short:"p" help:"Rollouts per evaluated leaf (default from config)"`
	Workers    int    `help:"Rollout workers (default from config)"`
	Seed       *int64 `help:"Random seed for reproducible results"`
}

func (cmd *AdviseCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	playerHand, err := deck.ParseCards(cmd.Hand)
	if err != nil {
		return fmt.Errorf("parsing hand: %w", err)
	}
	dealer, err := deck.ParseCards(cmd.Dealer)
	if err != nil {
		return fmt.Errorf("parsing dealer cards: %w", err)
	}
	pool, err := cmd.knownPool(playerHand, dealer)
	if err != nil {
		return err
	}
	phase, _ := mcts.ParsePhase(cmd.Phase)

	opts := cfg.EngineOptions(logger)
	if cmd.Workers > 0 {
		opts = append(opts, mcts.WithWorkers(cmd.Workers))
	}
	if cmd.Seed != nil {
		opts = append(opts, mcts.WithSeed(*cmd.Seed))
	}
	budget := cfg.Budget()
	if cmd.Iterations > 0 {
		budget.Iterations = cmd.Iterations
	}
	if cmd.Playouts > 0 {
		budget.Playouts = cmd.Playouts
	}

	engine := mcts.NewEngine(opts...)
	res, err := engine.Search(mcts.Request{
		Hand:            playerHand,
		DealerVisible:   dealer,
		KnownPool:       pool,
		Iterations:      budget.Iterations,
		PlayoutsPerLeaf: budget.Playouts,
		Phase:           phase,
		Insured:         cmd.Insured,
		Declined:        cmd.Declined,
	})
	if err != nil {
		return err
	}

	displayResult(g, playerHand, dealer, len(pool), res)
	return nil
}

func (cmd *AdviseCmd) knownPool(playerHand, dealer []deck.Card) ([]deck.Card, error) {
	if cmd.Pool != "" {
		pool, err := deck.ParseCards(cmd.Pool)
		if err != nil {
			return nil, fmt.Errorf("parsing pool: %w", err)
		}
		return pool, nil
	}

	seen, err := deck.ParseCards(cmd.Seen)
	if err != nil {
		return nil, fmt.Errorf("parsing seen cards: %w", err)
	}
	visible := append(append(append([]deck.Card(nil), playerHand...), dealer...), seen...)
	pool, err := deck.Without(deck.FullShoe(cmd.Decks), visible...)
	if err != nil {
		return nil, fmt.Errorf("building pool from %d decks: %w", cmd.Decks, err)
	}
	return pool, nil
}

func displayResult(g *Globals, playerHand, dealer []deck.Card, poolSize int, res *mcts.Result) {
	out := g.out()

	softness := "hard"
	if hand.IsSoft(playerHand) {
		softness = "soft"
	}
	fmt.Fprintf(out, "%s %s %s\n", headerStyle.Render("hand  "), handStyle.Render(deck.FormatCards(playerHand)),
		dimStyle.Render(fmt.Sprintf("(%s %d)", softness, hand.Total(playerHand))))
	fmt.Fprintf(out, "%s %s\n", headerStyle.Render("dealer"), handStyle.Render(deck.FormatCards(dealer)))
	fmt.Fprintf(out, "%s %s\n\n", headerStyle.Render("advice"), actionStyle.Render(res.Action.String()))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("action"),
		headerStyle.Render("visits"),
		headerStyle.Render("share"),
		headerStyle.Render("value"),
		headerStyle.Render("drawn"))

	total := 0
	for _, c := range res.Children {
		total += c.Visits
	}
	for _, c := range res.Children {
		share := 0.0
		if total > 0 {
			share = float64(c.Visits) / float64(total) * 100
		}
		drawn := "."
		if c.Drawn != nil {
			drawn = c.Drawn.String()
		}
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%.4f\t%s\n", c.Action, c.Visits, share, c.Mean, drawn)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d iterations, %d rollouts, %d nodes, %d unseen cards in %s",
		res.RootVisits, res.Rollouts, res.Nodes, poolSize, res.Duration)))
}
