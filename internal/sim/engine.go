// Package sim implements the Monte Carlo grading engine and the
// deterministic random source it draws from.
package sim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"pricing-grader/internal/model"
)

// Engine evaluates pricing policies by Monte Carlo simulation over the
// deterministic draw tables of one RNG bank.
type Engine struct {
	cfg     model.SimConfig
	version string
	bank    *RNGBank
}

// NewEngine validates the configuration and binds the engine to the bank for
// (version, cfg.Seed). Configuration errors are fatal to the instance: no
// simulation work starts with an invalid config.
func NewEngine(cfg model.SimConfig, version string, banks *BankCache) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if banks == nil {
		return nil, errors.New("bank cache is nil")
	}
	return &Engine{
		cfg:     cfg,
		version: version,
		bank:    banks.Bank(version, cfg.Seed),
	}, nil
}

// Config returns the engine's immutable configuration.
func (e *Engine) Config() model.SimConfig { return e.cfg }

// RunSimulation runs cfg.Trials independent trials of the policy and reduces
// them to aggregate statistics. Trial 0 is retained as the sample trial.
// Fails fast on a policy/config dimension mismatch, before any trial runs.
func (e *Engine) RunSimulation(policy model.PolicyMatrix) (*model.SimulationResults, error) {
	if policy.I != e.cfg.I || policy.T != e.cfg.T {
		return nil, fmt.Errorf("policy dimensions (%dx%d) don't match config (%dx%d)",
			policy.I, policy.T, e.cfg.I, e.cfg.T)
	}

	draws, err := e.bank.Draws(e.cfg.Trials, e.cfg.T)
	if err != nil {
		return nil, err
	}

	outcomes := make([]trialOutcome, e.cfg.Trials)
	for i := range outcomes {
		outcomes[i] = runTrial(policy, e.cfg, draws[i])
	}

	return &model.SimulationResults{
		Config:         e.cfg,
		Policy:         policy,
		Aggregates:     e.aggregate(outcomes),
		SampleTrial:    buildSampleTrial(outcomes[0], e.cfg),
		PriceHistogram: soldPriceCounts(outcomes),
		SalesByPeriod:  salesByPeriod(outcomes, e.cfg.T),
	}, nil
}

// CalculateRegret measures how far the policy's simulated average revenue
// falls short of the optimal expected revenue, clamped at zero. It re-runs
// the full simulation; regret is deliberately not cached against a prior run.
func (e *Engine) CalculateRegret(policy model.PolicyMatrix, optimalRevenue float64) (float64, error) {
	results, err := e.RunSimulation(policy)
	if err != nil {
		return 0, err
	}
	return math.Max(0, optimalRevenue-results.Aggregates.AvgRevenue), nil
}

func (e *Engine) aggregate(outcomes []trialOutcome) model.Aggregates {
	revenues := make([]float64, len(outcomes))
	sales := make([]float64, len(outcomes))
	for i, out := range outcomes {
		revenues[i] = out.revenue
		sales[i] = float64(out.sales)
	}

	avgRevenue := stat.Mean(revenues, nil)
	stdRevenue := populationStd(revenues, avgRevenue)
	fillRate := stat.Mean(sales, nil) / float64(e.cfg.I)

	// Sales-weighted average price over every sold (trial, period) pair.
	var priceSum float64
	var priceCount int
	for _, out := range outcomes {
		for t, sold := range out.sold {
			if sold {
				priceSum += float64(out.prices[t])
				priceCount++
			}
		}
	}
	avgPrice := 0.0
	if priceCount > 0 {
		avgPrice = priceSum / float64(priceCount)
	}

	// Last-minute share: sales in the trailing window divided by the
	// period-slots examined in that window, across all trials. The
	// denominator counts slots, not sales.
	var lastMinuteSales, windowSlots int
	for _, out := range outcomes {
		for t := e.cfg.T - e.cfg.LastMinuteK; t < e.cfg.T; t++ {
			windowSlots++
			if out.sold[t] {
				lastMinuteSales++
			}
		}
	}
	lastMinuteShare := 0.0
	if windowSlots > 0 {
		lastMinuteShare = float64(lastMinuteSales) / float64(windowSlots)
	}

	return model.Aggregates{
		AvgRevenue:      avgRevenue,
		StdRevenue:      stdRevenue,
		FillRate:        fillRate,
		AvgPrice:        avgPrice,
		LastMinuteShare: lastMinuteShare,
		PriceMix:        soldPriceCounts(outcomes),
	}
}

// populationStd is the population (not sample) standard deviation.
func populationStd(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// soldPriceCounts counts sold units per price label across all trials.
func soldPriceCounts(outcomes []trialOutcome) map[string]int {
	counts := make(map[string]int, len(model.PriceLabels))
	for _, label := range model.PriceLabels {
		counts[label] = 0
	}
	for _, out := range outcomes {
		for t, sold := range out.sold {
			if sold {
				counts[model.PriceLabel(out.prices[t])]++
			}
		}
	}
	return counts
}

func salesByPeriod(outcomes []trialOutcome, periods int) []int {
	byPeriod := make([]int, periods)
	for _, out := range outcomes {
		for t := 0; t < periods; t++ {
			if out.sold[t] {
				byPeriod[t]++
			}
		}
	}
	return byPeriod
}

// buildSampleTrial renders one trial as an ordered list of per-period steps.
// Periods are 1-based for presentation; remaining capacity is reported after
// the period's outcome.
func buildSampleTrial(out trialOutcome, cfg model.SimConfig) model.SampleTrial {
	steps := make([]model.TrialStep, 0, cfg.T)
	remaining := cfg.I
	for t := 0; t < cfg.T; t++ {
		if out.sold[t] {
			remaining--
		}
		steps = append(steps, model.TrialStep{
			Period:            t + 1,
			RemainingCapacity: remaining,
			Price:             out.prices[t],
			Sold:              out.sold[t],
			Revenue:           out.revenues[t],
		})
	}
	return model.SampleTrial{
		TrialID:      0,
		Steps:        steps,
		TotalRevenue: out.revenue,
	}
}
