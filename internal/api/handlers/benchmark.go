package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pricing-grader/internal/api/models"
	"pricing-grader/internal/benchmark"
)

// GetBenchmark handles GET /api/v1/benchmark: the optimal policy for the
// locked assignment dimensions, for instructor diagnostics. The DP solve is
// cheap at assignment scale, so the result is recomputed per request.
func (h *Handler) GetBenchmark(c *gin.Context) {
	bench, err := benchmark.New(h.Cfg.DefaultSimConfig())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Error("BENCHMARK_ERROR", err.Error()))
		return
	}

	optimal, policy := bench.Solve()
	c.JSON(http.StatusOK, models.BenchmarkResponse{
		OptimalRevenue: optimal,
		OptimalPolicy:  policy,
		Structure:      bench.AnalyzeStructure(),
	})
}
