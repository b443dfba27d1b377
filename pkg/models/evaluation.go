package models

import "time"

// CreateEvaluationRequest is the body of POST /api/evaluations.
type CreateEvaluationRequest struct {
	RunID           string   `json:"run_id"`
	NodeExecutionID *string  `json:"node_execution_id,omitempty"`
	Evaluator       string   `json:"evaluator"`
	Score           *float64 `json:"score,omitempty"`
	Label           *string  `json:"label,omitempty"`
	Comment         *string  `json:"comment,omitempty"`
	IsAutomated     bool     `json:"is_automated"`
}

// EvaluationResponse is returned by the evaluation create/list endpoints.
type EvaluationResponse struct {
	ID              string    `json:"id"`
	RunID           string    `json:"run_id"`
	NodeExecutionID string    `json:"node_execution_id,omitempty"`
	Evaluator       string    `json:"evaluator"`
	Score           *float64  `json:"score,omitempty"`
	Label           string    `json:"label,omitempty"`
	Comment         string    `json:"comment,omitempty"`
	IsAutomated     bool      `json:"is_automated"`
	CreatedAt       time.Time `json:"created_at"`
}

// EvaluationListResponse is returned by GET /api/runs/{id}/evaluations.
type EvaluationListResponse struct {
	Evaluations []EvaluationResponse `json:"evaluations"`
}
