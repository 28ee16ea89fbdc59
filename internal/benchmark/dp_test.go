package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricing-grader/internal/model"
)

func benchConfig(i, t int) model.SimConfig {
	return model.SimConfig{I: i, T: t, Trials: 100, Seed: 42, LastMinuteK: 1}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(model.SimConfig{I: 0, T: 5, Trials: 100, LastMinuteK: 1})
	assert.Error(t, err)
}

func TestSolve_SinglePeriodSingleUnit(t *testing.T) {
	// One unit, one period: the expected revenues are 27000 (LOW),
	// 32000 (MED), 20000 (HIGH), so MED wins outright.
	bench, err := New(benchConfig(1, 1))
	require.NoError(t, err)

	optimal, policy := bench.Solve()
	assert.InDelta(t, 32000.0, optimal, 1e-9)
	require.Equal(t, [][]int{{model.PriceMed}}, policy.Matrix)
}

func TestSolve_TwoPeriodsScarcityRaisesPrice(t *testing.T) {
	// With one unit and two periods the continuation value makes holding
	// out worthwhile: HIGH at t=0 yields 20000 + 0.6*32000 = 39200,
	// beating MED's 32000 + 0.2*32000 = 38400.
	bench, err := New(benchConfig(1, 2))
	require.NoError(t, err)

	optimal, policy := bench.Solve()
	assert.InDelta(t, 39200.0, optimal, 1e-9)
	assert.Equal(t, model.PriceHigh, policy.Matrix[0][0])
	assert.Equal(t, model.PriceMed, policy.Matrix[0][1])
}

func TestValue_BoundaryConditions(t *testing.T) {
	bench, err := New(benchConfig(4, 6))
	require.NoError(t, err)

	for tt := 0; tt <= 6; tt++ {
		assert.Zero(t, bench.Value(0, tt), "value(0,%d)", tt)
	}
	for c := 0; c <= 4; c++ {
		assert.Zero(t, bench.Value(c, 6), "value(%d,T)", c)
	}
}

func TestValue_NonDecreasingInCapacity(t *testing.T) {
	bench, err := New(benchConfig(5, 8))
	require.NoError(t, err)

	for tt := 0; tt < 8; tt++ {
		for c := 0; c < 5; c++ {
			assert.LessOrEqual(t, bench.Value(c, tt), bench.Value(c+1, tt),
				"value(%d,%d) > value(%d,%d)", c, tt, c+1, tt)
		}
	}
}

func TestValue_NonIncreasingInTime(t *testing.T) {
	bench, err := New(benchConfig(5, 8))
	require.NoError(t, err)

	for c := 1; c <= 5; c++ {
		for tt := 0; tt < 8; tt++ {
			assert.GreaterOrEqual(t, bench.Value(c, tt), bench.Value(c, tt+1))
		}
	}
}

func TestSolve_Idempotent(t *testing.T) {
	bench, err := New(benchConfig(4, 7))
	require.NoError(t, err)

	v1, p1 := bench.Solve()
	v2, p2 := bench.Solve()
	assert.Equal(t, v1, v2)
	require.Equal(t, p1, p2)

	// A second instance with the same config agrees exactly: no random
	// dependence anywhere.
	other, err := New(benchConfig(4, 7))
	require.NoError(t, err)
	v3, p3 := other.Solve()
	assert.Equal(t, v1, v3)
	require.Equal(t, p1, p3)
}

func TestOptimalPrice_MatchesExtractedPolicy(t *testing.T) {
	bench, err := New(benchConfig(3, 5))
	require.NoError(t, err)

	_, policy := bench.Solve()
	for c := 1; c <= 3; c++ {
		for tt := 0; tt < 5; tt++ {
			assert.Equal(t, policy.PriceAt(c, tt), bench.OptimalPrice(c, tt))
		}
	}
}

func TestAnalyzeStructure(t *testing.T) {
	bench, err := New(benchConfig(7, 15))
	require.NoError(t, err)

	structure := bench.AnalyzeStructure()

	total := 0
	for _, label := range model.PriceLabels {
		n, ok := structure.PriceDistribution[label]
		require.True(t, ok, "missing label %s", label)
		total += n
	}
	assert.Equal(t, 7*15, total)
	assert.Contains(t, structure.Summary, "Price distribution:")

	// The optimal policy for this demand model prices higher when scarce
	// and later, so both monotonicity properties hold.
	assert.True(t, structure.CapacityMonotonic)
	assert.True(t, structure.TimeMonotonic)
}

func TestCompareWithPolicy(t *testing.T) {
	bench, err := New(benchConfig(2, 3))
	require.NoError(t, err)
	_, optimal := bench.Solve()

	diffs, err := bench.CompareWithPolicy(optimal)
	require.NoError(t, err)
	assert.Empty(t, diffs)

	// Perturb one cell and expect exactly that diff back.
	perturbed := optimal
	perturbed.Matrix = make([][]int, len(optimal.Matrix))
	for i, row := range optimal.Matrix {
		perturbed.Matrix[i] = append([]int(nil), row...)
	}
	orig := perturbed.Matrix[1][2]
	replacement := model.PriceLow
	if orig == model.PriceLow {
		replacement = model.PriceHigh
	}
	perturbed.Matrix[1][2] = replacement

	diffs, err = bench.CompareWithPolicy(perturbed)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, 2, diffs[0].Capacity)
	assert.Equal(t, 2, diffs[0].Period)
	assert.Equal(t, orig, diffs[0].OptimalPrice)
	assert.Equal(t, replacement, diffs[0].PolicyPrice)
}

func TestCompareWithPolicy_DimensionMismatch(t *testing.T) {
	bench, err := New(benchConfig(2, 3))
	require.NoError(t, err)

	_, err = bench.CompareWithPolicy(model.UniformPolicy(3, 3, model.PriceLow))
	assert.Error(t, err)
}
