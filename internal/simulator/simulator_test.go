package simulator

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack-mcts/internal/deck"
	"github.com/lox/blackjack-mcts/internal/hand"
	"github.com/lox/blackjack-mcts/internal/mcts"
	"github.com/lox/blackjack-mcts/internal/payout"
	"github.com/lox/blackjack-mcts/internal/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testConfig(t *testing.T, hero, villain strategy.Advisor, rounds int) Config {
	t.Helper()
	return Config{
		Rounds:  rounds,
		Decks:   deck.DefaultDecks,
		Bet:     decimal.NewFromInt(1000),
		Seed:    12345,
		Hero:    hero,
		Villain: villain,
		Table:   payout.Default(),
		Logger:  quietLogger(),
		Clock:   quartz.NewMock(t),
	}
}

// recorder hits until told otherwise and keeps every view it was shown.
type recorder struct {
	hitBelow int
	views    []strategy.View
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) Insurance(v strategy.View) bool {
	r.views = append(r.views, v)
	return false
}

func (r *recorder) DoubleOrSurrender(v strategy.View) (bool, bool) {
	r.views = append(r.views, v)
	return false, false
}

func (r *recorder) Hit(v strategy.View) bool {
	r.views = append(r.views, v)
	return hand.Total(v.Hand) < r.hitBelow
}

func TestRunDuplicateIdenticalAdvisors(t *testing.T) {
	sim := New(testConfig(t, strategy.NewStand(), strategy.NewStand(), 50))
	report, err := sim.Run()
	require.NoError(t, err)

	assert.Equal(t, 50, report.Rounds)
	assert.Equal(t, 50, report.Level, "identical advisors see identical rounds")
	assert.Zero(t, report.HeroAhead)
	assert.Zero(t, report.VillainAhead)
	assert.True(t, report.Hero.Profit.Equal(report.Villain.Profit))
	assert.Equal(t, report.Hero.Mean, report.Villain.Mean)
	assert.Equal(t, 50, report.Hero.Stats.Rounds)
}

func TestRunBasicVersusStand(t *testing.T) {
	sim := New(testConfig(t, strategy.NewBasic(), strategy.NewStand(), 400))
	report, err := sim.Run()
	require.NoError(t, err)

	require.NoError(t, report.Hero.Stats.Validate())
	require.NoError(t, report.Villain.Stats.Validate())
	assert.Equal(t, 400, report.HeroAhead+report.VillainAhead+report.Level)
	assert.Zero(t, report.Villain.Doubles, "stand never doubles")
	assert.Positive(t, report.Hero.Doubles)

	expected := decimal.NewFromInt(1000).Mul(decimal.NewFromFloat(report.Hero.Stats.SumUnits))
	assert.True(t, expected.Equal(report.Hero.Profit), "profit %s vs %s", report.Hero.Profit, expected)
}

func TestRunIsReproducible(t *testing.T) {
	a, err := New(testConfig(t, strategy.NewBasic(), strategy.NewStand(), 100)).Run()
	require.NoError(t, err)
	b, err := New(testConfig(t, strategy.NewBasic(), strategy.NewStand(), 100)).Run()
	require.NoError(t, err)

	assert.Equal(t, a.Hero.Stats.Values, b.Hero.Stats.Values)
	assert.Equal(t, a.HeroAhead, b.HeroAhead)
	assert.True(t, a.Hero.Profit.Equal(b.Hero.Profit))
}

func TestRunWithSearchAdvisor(t *testing.T) {
	engine := mcts.NewEngine(
		mcts.WithSeed(1),
		mcts.WithWorkers(2),
		mcts.WithLogger(quietLogger()),
		mcts.WithClock(quartz.NewMock(t)),
	)
	hero, err := strategy.New("mcts", engine, strategy.Budget{Iterations: 40, Playouts: 4}, quietLogger())
	require.NoError(t, err)

	report, err := New(testConfig(t, hero, strategy.NewBasic(), 10)).Run()
	require.NoError(t, err)
	assert.Equal(t, "mcts", report.Hero.Name)
	assert.Equal(t, 10, report.Hero.Rounds)
}

func TestPlaySeat(t *testing.T) {
	sim := New(testConfig(t, strategy.NewStand(), strategy.NewStand(), 1))

	d := deal{
		player:     deck.MustParseCards("Ts 2d"),
		dealerUp:   deck.MustParseCards("9c")[0],
		dealerHole: deck.MustParseCards("8h")[0],
		rest:       deck.MustParseCards("3s 4s 5s Ks"),
	}

	t.Run("hits until satisfied and exposes the hole card as unseen", func(t *testing.T) {
		r := &recorder{hitBelow: 17}
		result := sim.playSeat(r, d, 7)

		// 12 + 3 + 4 = 19 against a dealer 17
		assert.Equal(t, payout.Win, result.Outcome)
		assert.InDelta(t, 1.0, result.NetUnits, 1e-9)
		assert.Equal(t, int64(7), result.Seed)

		require.NotEmpty(t, r.views)
		first := r.views[0]
		assert.Contains(t, first.KnownPool, d.dealerHole)
		assert.Len(t, first.KnownPool, len(d.rest)+1)
		assert.Len(t, d.rest, 4, "the shared deal is not consumed")
	})

	t.Run("stand", func(t *testing.T) {
		result := sim.playSeat(strategy.NewStand(), d, 7)
		// dealer 17, player 12
		assert.Equal(t, payout.Loss, result.Outcome)
	})

	t.Run("insurance is only asked against an ace", func(t *testing.T) {
		r := &recorder{}
		sim.playSeat(r, d, 7)
		assert.Len(t, r.views, 2, "double-or-surrender and one hit question")
	})
}

func TestConfigValidate(t *testing.T) {
	base := testConfig(t, strategy.NewStand(), strategy.NewStand(), 10)
	require.NoError(t, base.Validate())

	tests := []struct {
		name string
		edit func(c *Config)
		msg  string
	}{
		{"rounds", func(c *Config) { c.Rounds = 0 }, "rounds must be positive"},
		{"decks", func(c *Config) { c.Decks = 0 }, "decks must be positive"},
		{"bet", func(c *Config) { c.Bet = decimal.Zero }, "bet must be positive"},
		{"advisor", func(c *Config) { c.Villain = nil }, "advisors are required"},
		{"table", func(c *Config) { c.Table = payout.Table{} }, "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.edit(&c)
			assert.ErrorContains(t, c.Validate(), tt.msg)

			_, err := New(c).Run()
			assert.ErrorContains(t, err, "invalid simulation config")
		})
	}
}

func TestPrintSummary(t *testing.T) {
	report, err := New(testConfig(t, strategy.NewBasic(), strategy.NewStand(), 20)).Run()
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "=== FINAL RESULTS: basic vs stand ===")
	assert.Contains(t, out, "Rounds played: 20")
	assert.Contains(t, out, "=== HEAD TO HEAD ===")
	assert.Contains(t, out, "Profit:")
}
