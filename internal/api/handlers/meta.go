package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pricing-grader/internal/api/models"
	"pricing-grader/internal/csvio"
	"pricing-grader/internal/model"
)

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetConfig handles GET /api/v1/config: the assignment identity and the
// fixed price/probability mapping the frontend renders.
func (h *Handler) GetConfig(c *gin.Context) {
	mapping := make(map[string]int, len(model.Prices))
	probabilities := make(map[string]float64, len(model.Prices))
	for _, price := range model.Prices {
		label := model.PriceLabel(price)
		mapping[label] = price
		probabilities[label] = model.SaleProbability(price)
	}

	c.JSON(http.StatusOK, models.ConfigResponse{
		AssignmentVersion: h.Cfg.AssignmentVersion,
		LockedDimensions:  models.Dimensions{I: h.Cfg.LockI, T: h.Cfg.LockT},
		MaxTrials:         h.Cfg.MaxTrials,
		RNGSeed:           h.Cfg.RNGSeed,
		PriceMapping:      mapping,
		SaleProbabilities: probabilities,
	})
}

// GetTemplate handles GET /api/v1/template?i=&t=. Dimensions default to the
// locked assignment dimensions and must match them when given.
func (h *Handler) GetTemplate(c *gin.Context) {
	capI, err := queryInt(c, "i", h.Cfg.LockI)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("INVALID_REQUEST", err.Error()))
		return
	}
	periodsT, err := queryInt(c, "t", h.Cfg.LockT)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Error("INVALID_REQUEST", err.Error()))
		return
	}

	if capI != h.Cfg.LockI || periodsT != h.Cfg.LockT {
		c.JSON(http.StatusBadRequest, models.Error("DIMENSION_MISMATCH",
			fmt.Sprintf("dimensions must be I=%d, T=%d", h.Cfg.LockI, h.Cfg.LockT)))
		return
	}

	c.JSON(http.StatusOK, models.TemplateResponse{
		Template:   csvio.Template(capI, periodsT),
		Dimensions: models.Dimensions{I: capI, T: periodsT},
		ValidValues: []string{
			"LOW", "MED", "HIGH", "30", "40", "50", "$30", "$40", "$50",
		},
	})
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer", name)
	}
	return n, nil
}
