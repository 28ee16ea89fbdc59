// Package benchmark computes the provably optimal pricing policy for a
// configuration by backward induction. Its optimal expected revenue is the
// figure simulated policies are scored against (regret).
package benchmark

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"pricing-grader/internal/model"
)

// Benchmark solves the finite-horizon dynamic program for one configuration.
// It has exactly two states: unsolved (freshly constructed) and solved (after
// the first Solve). Solve is idempotent and has no random dependence, so it
// always produces identical output for an identical configuration.
type Benchmark struct {
	cfg model.SimConfig

	solved bool

	// value[c][t] is the optimal expected continuation revenue with c units
	// remaining at the start of period t. Dimensions (I+1)×(T+1); the
	// boundaries value[·][T] and value[0][·] stay zero.
	value [][]float64

	// policy[c][t] is the price attaining value[c][t], for c in 1..I and
	// t in 0..T-1.
	policy [][]int
}

// New validates the configuration and returns an unsolved benchmark.
func New(cfg model.SimConfig) (*Benchmark, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid benchmark config: %w", err)
	}
	return &Benchmark{cfg: cfg}, nil
}

// Solve runs backward induction and returns the optimal expected revenue
// from the initial state (full capacity, period 0) together with the optimal
// policy matrix, row-indexed by remaining capacity like any other policy.
func (b *Benchmark) Solve() (float64, model.PolicyMatrix) {
	b.ensureSolved()
	return b.value[b.cfg.I][0], b.extractPolicy()
}

// Value returns value(capacity, period), solving first if needed.
func (b *Benchmark) Value(capacity, period int) float64 {
	b.ensureSolved()
	return b.value[capacity][period]
}

// OptimalPrice returns the optimal price at (capacity, period) for
// capacity >= 1 and period < T.
func (b *Benchmark) OptimalPrice(capacity, period int) int {
	b.ensureSolved()
	return b.policy[capacity][period]
}

func (b *Benchmark) ensureSolved() {
	if b.solved {
		return
	}
	b.induct()
	b.solved = true
}

func (b *Benchmark) induct() {
	capI, periods := b.cfg.I, b.cfg.T

	b.value = make([][]float64, capI+1)
	b.policy = make([][]int, capI+1)
	for c := 0; c <= capI; c++ {
		b.value[c] = make([]float64, periods+1)
		b.policy[c] = make([]int, periods)
	}

	// value(·, T) = 0 and value(0, ·) = 0 hold from zero initialization;
	// capacity 0 is not a decision point.
	for t := periods - 1; t >= 0; t-- {
		for c := 1; c <= capI; c++ {
			best := math.Inf(-1)
			bestPrice := 0
			for _, price := range model.Prices {
				// Ties resolve to the first price in canonical
				// order; strict greater-than preserves that.
				if ev := b.expectedValue(c, t, price); ev > best {
					best = ev
					bestPrice = price
				}
			}
			b.value[c][t] = best
			b.policy[c][t] = bestPrice
		}
	}
}

// expectedValue prices one state-action pair: the immediate expected revenue
// plus the expected continuation from period t+1. The continuation terms are
// zero at the horizon because value[·][T] is zero.
func (b *Benchmark) expectedValue(capacity, period, price int) float64 {
	p := model.SaleProbability(price)
	immediate := p * float64(price)
	continuation := p*b.value[capacity-1][period+1] + (1-p)*b.value[capacity][period+1]
	return immediate + continuation
}

func (b *Benchmark) extractPolicy() model.PolicyMatrix {
	matrix := make([][]int, b.cfg.I)
	for c := 1; c <= b.cfg.I; c++ {
		row := make([]int, b.cfg.T)
		copy(row, b.policy[c])
		matrix[c-1] = row
	}
	return model.PolicyMatrix{Matrix: matrix, I: b.cfg.I, T: b.cfg.T}
}

// StructureAnalysis summarizes the shape of the solved optimal policy.
type StructureAnalysis struct {
	// CapacityMonotonic reports that, for every fixed period, the optimal
	// price never rises as remaining capacity grows.
	CapacityMonotonic bool `json:"capacity_monotonic"`
	// TimeMonotonic reports that, for every fixed capacity, the optimal
	// price never rises as the period advances.
	TimeMonotonic     bool           `json:"time_monotonic"`
	PriceDistribution map[string]int `json:"price_distribution"`
	Summary           string         `json:"summary"`
}

// AnalyzeStructure scans the solved policy exhaustively for the two
// monotonicity properties and computes the price-usage distribution.
func (b *Benchmark) AnalyzeStructure() StructureAnalysis {
	b.ensureSolved()

	dist := make(map[string]int, len(model.PriceLabels))
	for _, label := range model.PriceLabels {
		dist[label] = 0
	}
	for c := 1; c <= b.cfg.I; c++ {
		for t := 0; t < b.cfg.T; t++ {
			dist[model.PriceLabel(b.policy[c][t])]++
		}
	}

	capacityMonotonic := true
	for t := 0; t < b.cfg.T && capacityMonotonic; t++ {
		for c := 1; c < b.cfg.I; c++ {
			if b.policy[c+1][t] > b.policy[c][t] {
				capacityMonotonic = false
				break
			}
		}
	}

	timeMonotonic := true
	for c := 1; c <= b.cfg.I && timeMonotonic; c++ {
		for t := 0; t < b.cfg.T-1; t++ {
			if b.policy[c][t+1] > b.policy[c][t] {
				timeMonotonic = false
				break
			}
		}
	}

	return StructureAnalysis{
		CapacityMonotonic: capacityMonotonic,
		TimeMonotonic:     timeMonotonic,
		PriceDistribution: dist,
		Summary:           distributionSummary(dist, b.cfg.I*b.cfg.T),
	}
}

func distributionSummary(dist map[string]int, total int) string {
	labels := make([]string, 0, len(dist))
	for label := range dist {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labelRank(labels[i]) < labelRank(labels[j])
	})

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		share := 0.0
		if total > 0 {
			share = float64(dist[label]) / float64(total)
		}
		parts = append(parts, fmt.Sprintf("%s %.1f%%", label, share*100))
	}
	return "Price distribution: " + strings.Join(parts, ", ")
}

func labelRank(label string) int {
	for i, l := range model.PriceLabels {
		if l == label {
			return i
		}
	}
	return len(model.PriceLabels)
}

// PolicyDiff is one cell where a submitted policy disagrees with the optimal
// policy. Capacity is 1-based, period 0-based, matching the state space.
type PolicyDiff struct {
	Capacity     int `json:"capacity"`
	Period       int `json:"period"`
	OptimalPrice int `json:"optimal_price"`
	PolicyPrice  int `json:"policy_price"`
}

// CompareWithPolicy reports every (capacity, period) cell where the given
// policy's price differs from the optimal price.
func (b *Benchmark) CompareWithPolicy(policy model.PolicyMatrix) ([]PolicyDiff, error) {
	if policy.I != b.cfg.I || policy.T != b.cfg.T {
		return nil, fmt.Errorf("policy dimensions (%dx%d) don't match config (%dx%d)",
			policy.I, policy.T, b.cfg.I, b.cfg.T)
	}
	b.ensureSolved()

	var diffs []PolicyDiff
	for c := 1; c <= b.cfg.I; c++ {
		for t := 0; t < b.cfg.T; t++ {
			if policy.PriceAt(c, t) != b.policy[c][t] {
				diffs = append(diffs, PolicyDiff{
					Capacity:     c,
					Period:       t,
					OptimalPrice: b.policy[c][t],
					PolicyPrice:  policy.PriceAt(c, t),
				})
			}
		}
	}
	return diffs, nil
}
