package calculation

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/d-chambers/simplefire/internal/domain"
)

// MonteCarloConfig controls the growth-variance exploration.
type MonteCarloConfig struct {
	Simulations      int
	Seed             int64
	GrowthStdDevPct  decimal.Decimal // standard deviation of the growth rate, percent
	MinGrowthPercent decimal.Decimal // floor applied to sampled growth rates
}

// DefaultMonteCarloConfig mirrors common planning assumptions: 1000 runs
// with a 2-point growth standard deviation.
func DefaultMonteCarloConfig(seed int64) MonteCarloConfig {
	return MonteCarloConfig{
		Simulations:      1000,
		Seed:             seed,
		GrowthStdDevPct:  decimal.NewFromInt(2),
		MinGrowthPercent: decimal.Zero,
	}
}

// MonteCarloRun is a single simulation outcome.
type MonteCarloRun struct {
	SimulationID   int
	GrowthPercent  decimal.Decimal
	Retired        bool
	RetirementYear int
	FinalNetWorth  decimal.Decimal
}

// MonteCarloResult aggregates all simulation outcomes.
type MonteCarloResult struct {
	Simulations     int
	SuccessRate     decimal.Decimal // fraction of runs that retire within the horizon
	RetirementYears PercentileYears // over successful runs only
	Runs            []MonteCarloRun
}

// PercentileYears holds retirement-year percentiles.
type PercentileYears struct {
	P10, P25, P50, P75, P90 int
}

// RunMonteCarlo explores growth-rate variance by running independent
// simulations concurrently. Every simulation builds its own strategy from
// the immutable plan, so no account state is shared between runs.
func RunMonteCarlo(plan domain.Plan, cfg MonteCarloConfig) (*MonteCarloResult, error) {
	if cfg.Simulations <= 0 {
		return nil, fmt.Errorf("simulation count must be positive, got %d", cfg.Simulations)
	}
	// Validate the base plan once before fanning out.
	if _, err := NewTaxEvasionStrategy(plan); err != nil {
		return nil, err
	}

	// Sample all growth rates up front from a single seeded source so the
	// run is reproducible regardless of goroutine scheduling.
	rng := rand.New(rand.NewSource(cfg.Seed))
	stdDev := cfg.GrowthStdDevPct.InexactFloat64()
	base := plan.InvestmentGrowthPercent.InexactFloat64()
	growths := make([]decimal.Decimal, cfg.Simulations)
	for i := range growths {
		sampled := decimal.NewFromFloat(base + rng.NormFloat64()*stdDev)
		growths[i] = decimal.Max(sampled, cfg.MinGrowthPercent)
	}

	runs := make([]MonteCarloRun, cfg.Simulations)
	errs := make([]error, cfg.Simulations)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Simulations; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			scenario := plan
			scenario.InvestmentGrowthPercent = growths[id]
			strategy, err := NewTaxEvasionStrategy(scenario)
			if err != nil {
				errs[id] = err
				return
			}
			result, err := strategy.StartFire()
			if err != nil {
				errs[id] = err
				return
			}
			runs[id] = MonteCarloRun{
				SimulationID:   id,
				GrowthPercent:  growths[id],
				Retired:        result.Retired,
				RetirementYear: result.RetirementYear,
				FinalNetWorth:  result.FinalNetWorth(),
			}
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	successes := 0
	var retirementYears []int
	for _, run := range runs {
		if run.Retired {
			successes++
			retirementYears = append(retirementYears, run.RetirementYear)
		}
	}
	sort.Ints(retirementYears)

	result := &MonteCarloResult{
		Simulations: cfg.Simulations,
		SuccessRate: decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(cfg.Simulations))),
		Runs:        runs,
	}
	if len(retirementYears) > 0 {
		result.RetirementYears = PercentileYears{
			P10: percentileInt(retirementYears, 10),
			P25: percentileInt(retirementYears, 25),
			P50: percentileInt(retirementYears, 50),
			P75: percentileInt(retirementYears, 75),
			P90: percentileInt(retirementYears, 90),
		}
	}
	return result, nil
}

func percentileInt(sorted []int, pct int) int {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted) - 1) * pct / 100
	return sorted[idx]
}
