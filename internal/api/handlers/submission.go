package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pricing-grader/internal/analysis"
	"pricing-grader/internal/api/models"
	"pricing-grader/internal/csvio"
	"pricing-grader/internal/storage"
)

// Submit handles POST /api/v1/submissions: persist a graded run together
// with the student's philosophy and the reconstructed CSV.
func (h *Handler) Submit(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("INVALID_REQUEST", err.Error()))
		return
	}

	cfg := req.Results.Config
	if cfg.I != h.Cfg.LockI || cfg.T != h.Cfg.LockT {
		c.JSON(http.StatusBadRequest, models.Error("DIMENSION_MISMATCH",
			fmt.Sprintf("submission dimensions must be I=%d, T=%d", h.Cfg.LockI, h.Cfg.LockT)))
		return
	}

	student, err := h.DB.GetOrCreateStudent(req.StudentEmail, req.StudentName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Error("STORAGE_ERROR", err.Error()))
		return
	}
	version, err := h.DB.GetOrCreateAssignmentVersion(
		h.Cfg.AssignmentVersion, h.Cfg.RNGSeed, h.Cfg.LockI, h.Cfg.LockT)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Error("STORAGE_ERROR", err.Error()))
		return
	}

	// The CSV is reconstructed from the normalized policy; losing the file
	// is not worth failing the submission over.
	csvPath := ""
	if h.Files != nil {
		path, err := h.Files.StoreCSV(csvio.RenderPolicy(req.Results.Policy))
		if err != nil {
			h.Log.WithError(err).Warn("storing submission CSV failed")
		} else {
			csvPath = path
		}
	}

	sub, err := h.DB.CreateSubmission(storage.NewSubmission{
		StudentID:           student.ID,
		AssignmentVersionID: version.ID,
		Config:              cfg,
		Philosophy:          req.Philosophy,
		CSVPath:             csvPath,
		Policy:              req.Results.Policy,
		Aggregates:          req.Results.Aggregates,
		SampleTrial:         req.Results.SampleTrial,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Error("STORAGE_ERROR", err.Error()))
		return
	}

	c.JSON(http.StatusOK, models.SubmitResponse{
		SubmissionID: sub.ID,
		Message:      "Strategy submitted successfully for grading",
	})
}

// GetSubmission handles GET /api/v1/submissions/:id.
func (h *Handler) GetSubmission(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, models.Error("INVALID_ID", "invalid submission ID format"))
		return
	}

	rec, err := h.DB.GetSubmission(id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.Error("NOT_FOUND", "submission not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Error("STORAGE_ERROR", err.Error()))
		return
	}

	c.JSON(http.StatusOK, submissionDetails(rec))
}

// ListSubmissions handles GET /api/v1/submissions (instructor use).
func (h *Handler) ListSubmissions(c *gin.Context) {
	recs, err := h.DB.ListSubmissions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Error("STORAGE_ERROR", err.Error()))
		return
	}

	details := make([]models.SubmissionDetails, 0, len(recs))
	for _, rec := range recs {
		details = append(details, submissionDetails(rec))
	}
	c.JSON(http.StatusOK, gin.H{"submissions": details})
}

// Leaderboard handles GET /api/v1/leaderboard: submissions ranked by regret.
func (h *Handler) Leaderboard(c *gin.Context) {
	recs, err := h.DB.ListSubmissions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Error("STORAGE_ERROR", err.Error()))
		return
	}

	entries, err := analysis.RankSubmissions(recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Error("STORAGE_ERROR", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func submissionDetails(rec storage.SubmissionRecord) models.SubmissionDetails {
	return models.SubmissionDetails{
		SubmissionID: rec.ID,
		StudentEmail: rec.StudentEmail,
		StudentName:  rec.StudentName,
		CreatedAt:    rec.CreatedAt,
		Config:       models.Dimensions{I: rec.I, T: rec.T},
		Trials:       rec.Trials,
		Seed:         rec.Seed,
		Aggregates:   json.RawMessage(rec.AggregatesJSON),
		Philosophy:   rec.Philosophy,
		CSVPath:      rec.CSVPath.String,
	}
}
