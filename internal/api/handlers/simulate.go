package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pricing-grader/internal/api/models"
	"pricing-grader/internal/benchmark"
	"pricing-grader/internal/csvio"
	"pricing-grader/internal/model"
	"pricing-grader/internal/sim"
)

// Simulate handles POST /api/v1/simulate: parse and normalize the uploaded
// CSV, run the Monte Carlo engine against the assignment's deterministic
// draws, and attach regret when the DP benchmark is available.
func (h *Handler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("INVALID_REQUEST", err.Error()))
		return
	}

	cfg, err := h.simConfigFromRequest(req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("INVALID_CONFIG", err.Error()))
		return
	}

	parsed := csvio.ParseCSV(req.CSVContent)
	if !parsed.Valid {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorDetail{
			Code:    "INVALID_CSV",
			Message: "CSV validation failed",
			Details: map[string]any{"errors": parsed.Errors},
		}})
		return
	}
	if parsed.I != h.Cfg.LockI || parsed.T != h.Cfg.LockT {
		c.JSON(http.StatusBadRequest, models.Error("DIMENSION_MISMATCH",
			fmt.Sprintf("strategy must be I=%d, T=%d, got I=%d, T=%d",
				h.Cfg.LockI, h.Cfg.LockT, parsed.I, parsed.T)))
		return
	}

	policy, err := csvio.Normalize(parsed)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("INVALID_POLICY", err.Error()))
		return
	}

	engine, err := sim.NewEngine(cfg, h.Cfg.AssignmentVersion, h.Banks)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("INVALID_CONFIG", err.Error()))
		return
	}

	results, err := engine.RunSimulation(policy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Error("SIMULATION_ERROR", err.Error()))
		return
	}

	// A benchmark failure means "regret unavailable", never a failed
	// simulation: the results still go back with regret unset.
	if bench, err := benchmark.New(cfg); err != nil {
		h.Log.WithError(err).Warn("DP benchmark unavailable")
	} else {
		optimal, _ := bench.Solve()
		if regret, err := engine.CalculateRegret(policy, optimal); err != nil {
			h.Log.WithError(err).Warn("regret calculation failed")
		} else {
			results.Aggregates.Regret = &regret
		}
	}

	c.JSON(http.StatusOK, results)
}

// ValidateCSV handles POST /api/v1/validate-csv: report parse errors without
// running a simulation.
func (h *Handler) ValidateCSV(c *gin.Context) {
	var req models.ValidateCSVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("INVALID_REQUEST", err.Error()))
		return
	}

	parsed := csvio.ParseCSV(req.CSVContent)
	resp := models.ValidateCSVResponse{Valid: parsed.Valid, Errors: parsed.Errors}
	if parsed.I > 0 {
		resp.Dimensions = &models.Dimensions{I: parsed.I, T: parsed.T}
	}

	if parsed.Valid && (parsed.I != h.Cfg.LockI || parsed.T != h.Cfg.LockT) {
		resp.Valid = false
		resp.Errors = append(resp.Errors, csvio.ValidationError{
			Message: fmt.Sprintf("dimensions must be I=%d, T=%d, got I=%d, T=%d",
				h.Cfg.LockI, h.Cfg.LockT, parsed.I, parsed.T),
		})
	}

	if !resp.Valid {
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	preview := parsed.Matrix
	if len(preview) > 3 {
		preview = preview[:3]
	}
	resp.MatrixPreview = preview
	c.JSON(http.StatusOK, resp)
}

// simConfigFromRequest overlays a request's overrides on the assignment
// defaults, rejecting anything outside the locked bounds.
func (h *Handler) simConfigFromRequest(req *models.SimConfigRequest) (model.SimConfig, error) {
	cfg := h.Cfg.DefaultSimConfig()
	if req == nil {
		return cfg, nil
	}

	if req.I != 0 || req.T != 0 {
		if req.I != h.Cfg.LockI || req.T != h.Cfg.LockT {
			return cfg, fmt.Errorf("configuration dimensions must be I=%d, T=%d", h.Cfg.LockI, h.Cfg.LockT)
		}
	}
	if req.Trials != 0 {
		if req.Trials < model.MinTrials || req.Trials > h.Cfg.MaxTrials {
			return cfg, fmt.Errorf("trials must be between %d and %d", model.MinTrials, h.Cfg.MaxTrials)
		}
		cfg.Trials = req.Trials
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if req.LastMinuteK != 0 {
		if req.LastMinuteK < 1 || req.LastMinuteK > model.MaxLastMinuteK || req.LastMinuteK > cfg.T {
			return cfg, fmt.Errorf("last_minute_k must be between 1 and %d and not exceed T", model.MaxLastMinuteK)
		}
		cfg.LastMinuteK = req.LastMinuteK
	}
	return cfg, nil
}
