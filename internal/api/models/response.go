package models

import (
	"encoding/json"

	"pricing-grader/internal/csvio"
)

// ErrorResponse is the error envelope every handler uses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error builds a plain error envelope.
func Error(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// Dimensions is an (I, T) pair.
type Dimensions struct {
	I int `json:"I"`
	T int `json:"T"`
}

// ValidateCSVResponse reports parse/validation results for an upload.
type ValidateCSVResponse struct {
	Valid         bool                    `json:"valid"`
	Errors        []csvio.ValidationError `json:"errors,omitempty"`
	Dimensions    *Dimensions             `json:"dimensions,omitempty"`
	MatrixPreview [][]string              `json:"matrix_preview,omitempty"`
}

// ConfigResponse describes the active assignment to the frontend.
type ConfigResponse struct {
	AssignmentVersion string             `json:"assignment_version"`
	LockedDimensions  Dimensions         `json:"locked_dimensions"`
	MaxTrials         int                `json:"max_trials"`
	RNGSeed           int64              `json:"rng_seed"`
	PriceMapping      map[string]int     `json:"price_mapping"`
	SaleProbabilities map[string]float64 `json:"sale_probabilities"`
}

// TemplateResponse carries a blank strategy CSV.
type TemplateResponse struct {
	Template    string     `json:"template"`
	Dimensions  Dimensions `json:"dimensions"`
	ValidValues []string   `json:"valid_values"`
}

// SubmitResponse acknowledges a stored submission.
type SubmitResponse struct {
	SubmissionID string `json:"submission_id"`
	Message      string `json:"message"`
}

// SubmissionDetails is one stored submission for retrieval endpoints.
type SubmissionDetails struct {
	SubmissionID string          `json:"submission_id"`
	StudentEmail string          `json:"student_email"`
	StudentName  string          `json:"student_name"`
	CreatedAt    string          `json:"created_at"`
	Config       Dimensions      `json:"config"`
	Trials       int             `json:"trials"`
	Seed         int64           `json:"seed"`
	Aggregates   json.RawMessage `json:"aggregates"`
	Philosophy   string          `json:"philosophy"`
	CSVPath      string          `json:"csv_path,omitempty"`
}

// BenchmarkResponse is the DP benchmark surface exposed for diagnostics.
type BenchmarkResponse struct {
	OptimalRevenue float64 `json:"optimal_revenue"`
	OptimalPolicy  any     `json:"optimal_policy"`
	Structure      any     `json:"structure"`
}
