package simulator

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/blackjack-mcts/internal/deck"
	"github.com/lox/blackjack-mcts/internal/hand"
	"github.com/lox/blackjack-mcts/internal/payout"
	"github.com/lox/blackjack-mcts/internal/randutil"
	"github.com/lox/blackjack-mcts/internal/statistics"
	"github.com/lox/blackjack-mcts/internal/strategy"
	"github.com/shopspring/decimal"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Decks   int
	Bet     decimal.Decimal
	Seed    int64
	Hero    strategy.Advisor
	Villain strategy.Advisor
	Table   payout.Table
	Logger  *log.Logger
	Clock   quartz.Clock
}

// Validate checks the configuration before a run.
func (c Config) Validate() error {
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if c.Decks <= 0 {
		return fmt.Errorf("decks must be positive, got %d", c.Decks)
	}
	if !c.Bet.IsPositive() {
		return fmt.Errorf("bet must be positive, got %s", c.Bet)
	}
	if c.Hero == nil || c.Villain == nil {
		return errors.New("both hero and villain advisors are required")
	}
	return c.Table.Validate()
}

// Seat accumulates one advisor's results.
type Seat struct {
	Name       string                 `yaml:"name"`
	Stats      *statistics.Statistics `yaml:"-"`
	Profit     decimal.Decimal        `yaml:"profit"`
	Rounds     int                    `yaml:"rounds"`
	Mean       float64                `yaml:"mean_units"`
	StdDev     float64                `yaml:"stddev_units"`
	CILow      float64                `yaml:"ci95_low"`
	CIHigh     float64                `yaml:"ci95_high"`
	WinRate    float64                `yaml:"win_rate"`
	Wins       int                    `yaml:"wins"`
	Premiums   int                    `yaml:"premiums"`
	Losses     int                    `yaml:"losses"`
	Pushes     int                    `yaml:"pushes"`
	Doubles    int                    `yaml:"doubles"`
	Surrenders int                    `yaml:"surrenders"`
	Insured    int                    `yaml:"insured"`
}

func newSeat(name string) *Seat {
	return &Seat{Name: name, Stats: &statistics.Statistics{}}
}

func (s *Seat) summarize() {
	st := s.Stats
	s.Rounds = st.Rounds
	s.Mean = st.Mean()
	s.StdDev = st.StdDev()
	s.CILow, s.CIHigh = st.ConfidenceInterval95()
	s.WinRate = st.WinRate()
	s.Wins = st.Wins
	s.Premiums = st.Premiums
	s.Losses = st.Losses
	s.Pushes = st.Pushes
	s.Doubles = st.Doubles
	s.Surrenders = st.Surrenders
	s.Insured = st.Insured
}

// Report is the outcome of a simulation.
type Report struct {
	Rounds       int    `yaml:"rounds"`
	Decks        int    `yaml:"decks"`
	Seed         int64  `yaml:"seed"`
	Bet          string `yaml:"bet"`
	Hero         *Seat  `yaml:"hero"`
	Villain      *Seat  `yaml:"villain"`
	HeroAhead    int    `yaml:"hero_ahead"`
	VillainAhead int    `yaml:"villain_ahead"`
	Level        int    `yaml:"level"`
	Duration     string `yaml:"duration"`
}

// HeroWinRate returns the share of decided rounds in which the hero finished
// ahead of the villain.
func (r *Report) HeroWinRate() float64 {
	decided := r.HeroAhead + r.VillainAhead
	if decided == 0 {
		return 0
	}
	return float64(r.HeroAhead) / float64(decided)
}

// Simulator plays duplicate heads-up rounds: each round's shoe is dealt
// identically to the hero and the villain, so only their decisions differ.
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{config: config}
}

// Run executes the simulation and returns the report
func (s *Simulator) Run() (*Report, error) {
	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	start := s.config.Clock.Now()
	hero := newSeat(s.config.Hero.Name())
	villain := newSeat(s.config.Villain.Name())
	report := &Report{
		Rounds:  s.config.Rounds,
		Decks:   s.config.Decks,
		Seed:    s.config.Seed,
		Bet:     s.config.Bet.String(),
		Hero:    hero,
		Villain: villain,
	}

	for round := 0; round < s.config.Rounds; round++ {
		roundSeed := s.config.Seed + int64(round)
		deal := newDeal(deck.NewShoe(s.config.Decks, randutil.New(roundSeed)))

		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}

		heroResult := s.playSeat(s.config.Hero, deal, roundSeed)
		villainResult := s.playSeat(s.config.Villain, deal, roundSeed)

		hero.Stats.Add(heroResult)
		villain.Stats.Add(villainResult)
		hero.Profit = hero.Profit.Add(s.config.Bet.Mul(decimal.NewFromFloat(heroResult.NetUnits)))
		villain.Profit = villain.Profit.Add(s.config.Bet.Mul(decimal.NewFromFloat(villainResult.NetUnits)))

		switch {
		case heroResult.NetUnits > villainResult.NetUnits:
			report.HeroAhead++
		case heroResult.NetUnits < villainResult.NetUnits:
			report.VillainAhead++
		default:
			report.Level++
		}

		s.config.Logger.Debug("Round finished",
			"round", id,
			"seed", roundSeed,
			"player", deck.FormatCards(deal.player),
			"dealer_up", deal.dealerUp,
			"hero_units", heroResult.NetUnits,
			"villain_units", villainResult.NetUnits)

		if (round+1)%1000 == 0 {
			s.config.Logger.Info("Simulation progress",
				"rounds", round+1,
				"hero_mean", hero.Stats.Mean(),
				"villain_mean", villain.Stats.Mean())
		}
	}

	for _, seat := range []*Seat{hero, villain} {
		if err := seat.Stats.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed for %s: %w", seat.Name, err)
		}
		seat.summarize()
	}
	report.Duration = s.config.Clock.Since(start).Round(time.Millisecond).String()

	return report, nil
}

// deal is the opening of a round shared by both seats.
type deal struct {
	player     []deck.Card
	dealerUp   deck.Card
	dealerHole deck.Card
	rest       []deck.Card
}

func newDeal(shoe *deck.Deck) deal {
	cards := shoe.DealN(4)
	return deal{
		player:     []deck.Card{cards[0], cards[2]},
		dealerUp:   cards[1],
		dealerHole: cards[3],
		rest:       shoe.Remaining(),
	}
}

// playSeat runs one seat through insurance, double or surrender, hits and
// the dealer's draw, then settles the hand.
func (s *Simulator) playSeat(advisor strategy.Advisor, d deal, seed int64) statistics.RoundResult {
	shoe := append([]deck.Card(nil), d.rest...)
	player := append([]deck.Card(nil), d.player...)
	draw := func() (deck.Card, bool) {
		if len(shoe) == 0 {
			return deck.Card{}, false
		}
		c := shoe[0]
		shoe = shoe[1:]
		return c, true
	}
	view := func(insured bool) strategy.View {
		known := make([]deck.Card, 0, len(shoe)+1)
		known = append(known, shoe...)
		known = append(known, d.dealerHole)
		return strategy.View{Hand: player, DealerUp: d.dealerUp, KnownPool: known, Insured: insured}
	}

	var wager payout.Wager
	if d.dealerUp.IsAce() {
		wager.Insured = advisor.Insurance(view(false))
	}

	wager.Doubled, wager.Surrendered = advisor.DoubleOrSurrender(view(wager.Insured))
	switch {
	case wager.Surrendered:
		wager.Doubled = false
	case wager.Doubled:
		if c, ok := draw(); ok {
			player = append(player, c)
		}
	default:
		for hand.Total(player) < 21 && len(player) < 5 && len(shoe) > 0 && advisor.Hit(view(wager.Insured)) {
			c, _ := draw()
			player = append(player, c)
		}
	}

	dealer := []deck.Card{d.dealerUp, d.dealerHole}
	for hand.DealerShouldHit(dealer) {
		c, ok := draw()
		if !ok {
			break
		}
		dealer = append(dealer, c)
	}

	settled := s.config.Table.Settle(player, dealer, wager)
	s.config.Logger.Debug("Seat settled",
		"advisor", advisor.Name(),
		"player", deck.FormatCards(player),
		"dealer", deck.FormatCards(dealer),
		"outcome", settled.Outcome,
		"units", settled.Net())

	return statistics.RoundResult{
		NetUnits:       settled.Net(),
		MainUnits:      settled.Units,
		InsuranceUnits: settled.Insurance,
		Outcome:        settled.Outcome,
		Seed:           seed,
		Doubled:        wager.Doubled,
		Insured:        wager.Insured,
	}
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, report *Report) {
	fmt.Fprintf(w, "\n=== FINAL RESULTS: %s vs %s ===\n", report.Hero.Name, report.Villain.Name)
	fmt.Fprintf(w, "Rounds played: %d (%d decks, seed %d, bet %s)\n", report.Rounds, report.Decks, report.Seed, report.Bet)
	fmt.Fprintf(w, "Duration: %s\n", report.Duration)

	for _, seat := range []*Seat{report.Hero, report.Villain} {
		st := seat.Stats
		fmt.Fprintf(w, "\n=== %s ===\n", seat.Name)
		fmt.Fprintf(w, "Profit: %s\n", seat.Profit.StringFixed(2))
		fmt.Fprintf(w, "Mean: %.4f units/round\n", seat.Mean)
		fmt.Fprintf(w, "Median: %.4f units/round\n", st.Median())
		fmt.Fprintf(w, "Std Dev: %.4f units\n", seat.StdDev)
		fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/round\n", seat.CILow, seat.CIHigh)
		fmt.Fprintf(w, "Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n",
			st.Percentile(0.05), st.Percentile(0.25), st.Percentile(0.75), st.Percentile(0.95))
		fmt.Fprintf(w, "Outcomes: %d win, %d premium, %d push, %d loss, %d surrender\n",
			seat.Wins, seat.Premiums, seat.Pushes, seat.Losses, seat.Surrenders)
		fmt.Fprintf(w, "Decisions: %d doubled (%.2f units), %d insured (%.2f units)\n",
			seat.Doubles, st.DoubleUnits, seat.Insured, st.InsuranceUnits)
	}

	fmt.Fprintf(w, "\n=== HEAD TO HEAD ===\n")
	fmt.Fprintf(w, "%s ahead: %d, %s ahead: %d, level: %d\n",
		report.Hero.Name, report.HeroAhead, report.Villain.Name, report.VillainAhead, report.Level)
	fmt.Fprintf(w, "%s win rate: %.1f%%\n", report.Hero.Name, report.HeroWinRate()*100)
}
