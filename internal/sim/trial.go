package sim

import "pricing-grader/internal/model"

// trialOutcome is the per-trial record consumed by aggregation. The first
// trial is additionally retained as the sample trajectory for presentation.
type trialOutcome struct {
	prices   []int
	sold     []bool
	revenues []float64

	remaining int
	revenue   float64
	sales     int
}

// runTrial plays one probabilistic sell-down trajectory of a policy against
// one row of uniform draws. Pure function of its inputs: trials are mutually
// independent given the draw table.
func runTrial(policy model.PolicyMatrix, cfg model.SimConfig, draws []float64) trialOutcome {
	out := trialOutcome{
		prices:    make([]int, 0, cfg.T),
		sold:      make([]bool, 0, cfg.T),
		revenues:  make([]float64, 0, cfg.T),
		remaining: cfg.I,
	}

	for t := 0; t < cfg.T; t++ {
		if out.remaining <= 0 {
			// Sold out: no decision point, nothing can sell.
			out.prices = append(out.prices, 0)
			out.sold = append(out.sold, false)
			out.revenues = append(out.revenues, 0)
			continue
		}

		// The row lookup is by capacity currently remaining, not by
		// the original capacity.
		price := policy.PriceAt(out.remaining, t)
		sold := draws[t] < model.SaleProbability(price)

		out.prices = append(out.prices, price)
		out.sold = append(out.sold, sold)

		if sold {
			out.remaining--
			out.revenue += float64(price)
			out.sales++
			out.revenues = append(out.revenues, float64(price))
		} else {
			out.revenues = append(out.revenues, 0)
		}
	}

	return out
}
