package models

import "pricing-grader/internal/model"

// SimulateRequest is the body for POST /api/v1/simulate.
type SimulateRequest struct {
	CSVContent string            `json:"csv_content" binding:"required"`
	Config     *SimConfigRequest `json:"config,omitempty"`
	Philosophy string            `json:"philosophy,omitempty"`
}

// SimConfigRequest is an optional configuration override. Dimensions must
// match the locked assignment dimensions; the server seed is used when none
// is given.
type SimConfigRequest struct {
	I           int    `json:"I"`
	T           int    `json:"T"`
	Trials      int    `json:"trials"`
	Seed        *int64 `json:"seed,omitempty"`
	LastMinuteK int    `json:"last_minute_k"`
}

// ValidateCSVRequest is the body for POST /api/v1/validate-csv.
type ValidateCSVRequest struct {
	CSVContent string `json:"csv_content" binding:"required"`
}

// SubmitRequest is the body for POST /api/v1/submissions.
type SubmitRequest struct {
	Results      model.SimulationResults `json:"simulation_results" binding:"required"`
	Philosophy   string                  `json:"philosophy" binding:"required,min=10,max=1000"`
	StudentEmail string                  `json:"student_email" binding:"required,email"`
	StudentName  string                  `json:"student_name" binding:"required"`
}
