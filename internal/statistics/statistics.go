package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack-mcts/internal/payout"
)

// RoundResult represents the outcome of a single blackjack round for one seat
type RoundResult struct {
	NetUnits       float64 // Main bet plus insurance, in initial bets
	MainUnits      float64 // Main bet only
	InsuranceUnits float64 // Insurance side bet only
	Outcome        payout.Outcome
	Seed           int64 // Shoe seed for this round (for replay)
	Doubled        bool
	Insured        bool
}

// Statistics tracks blackjack simulation results
type Statistics struct {
	Rounds    int
	SumUnits  float64
	SumUnits2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all values for median/percentile calculation

	// Outcome counts, one per round
	Wins       int
	Losses     int
	Pushes     int
	Premiums   int
	Surrenders int

	// Decision analytics
	Doubles        int
	DoubleUnits    float64 // Main-bet units from doubled rounds
	Insured        int
	InsuranceUnits float64 // Side-bet units
	MainUnits      float64 // Main-bet units
	AllUnits       float64 // Total units for sanity check
}

// Mean returns the arithmetic mean of all results in units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumUnits2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.NetUnits
	s.Rounds++
	s.SumUnits += net
	s.SumUnits2 += net * net
	s.Values = append(s.Values, net)

	switch result.Outcome {
	case payout.Win:
		s.Wins++
	case payout.Loss:
		s.Losses++
	case payout.Push:
		s.Pushes++
	case payout.Premium:
		s.Premiums++
	case payout.Surrender:
		s.Surrenders++
	}

	if result.Doubled {
		s.Doubles++
		s.DoubleUnits += result.MainUnits
	}
	if result.Insured {
		s.Insured++
	}
	s.InsuranceUnits += result.InsuranceUnits
	s.MainUnits += result.MainUnits
	s.AllUnits += net
}

// WinRate returns the share of rounds won outright or at the premium rate
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins+s.Premiums) / float64(s.Rounds)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllUnits-s.MainUnits-s.InsuranceUnits) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllUnits=%.6f, MainUnits=%.6f, InsuranceUnits=%.6f",
			s.AllUnits, s.MainUnits, s.InsuranceUnits)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	outcomes := s.Wins + s.Losses + s.Pushes + s.Premiums + s.Surrenders
	if outcomes != s.Rounds {
		return fmt.Errorf("outcome total (%d) does not match rounds count (%d)", outcomes, s.Rounds)
	}

	if s.Doubles+s.Surrenders > s.Rounds {
		return fmt.Errorf("doubles (%d) and surrenders (%d) exceed rounds (%d)", s.Doubles, s.Surrenders, s.Rounds)
	}

	return nil
}
