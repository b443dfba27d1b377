package services

import (
	"context"
	"fmt"

	"github.com/agentdeck/agentdeck/ent"
	"github.com/agentdeck/agentdeck/ent/evaluation"
	"github.com/agentdeck/agentdeck/ent/nodeexecution"
	"github.com/agentdeck/agentdeck/ent/run"
	"github.com/agentdeck/agentdeck/pkg/models"
	"github.com/google/uuid"
)

// EvaluationService implements creation and listing of Evaluation rows
// (spec.md §3, §6).
type EvaluationService struct {
	client *ent.Client
}

// NewEvaluationService constructs an EvaluationService over an Ent client.
func NewEvaluationService(client *ent.Client) *EvaluationService {
	return &EvaluationService{client: client}
}

// CreateEvaluation attaches an evaluation to a run (and optionally a
// specific node execution within it).
func (s *EvaluationService) CreateEvaluation(ctx context.Context, req models.CreateEvaluationRequest) (*models.EvaluationResponse, error) {
	if req.RunID == "" {
		return nil, NewValidationError("run_id", "is required")
	}
	if req.Evaluator == "" {
		return nil, NewValidationError("evaluator", "is required")
	}

	exists, err := s.client.Run.Query().Where(run.IDEQ(req.RunID)).Exist(ctx)
	if err != nil {
		return nil, fmt.Errorf("check run existence: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	if req.NodeExecutionID != nil {
		nodeExists, err := s.client.NodeExecution.Query().
			Where(nodeexecution.IDEQ(*req.NodeExecutionID), nodeexecution.RunIDEQ(req.RunID)).
			Exist(ctx)
		if err != nil {
			return nil, fmt.Errorf("check node execution existence: %w", err)
		}
		if !nodeExists {
			return nil, ErrNotFound
		}
	}

	create := s.client.Evaluation.Create().
		SetID(uuid.New().String()).
		SetRunID(req.RunID).
		SetEvaluator(req.Evaluator).
		SetIsAutomated(req.IsAutomated)
	if req.NodeExecutionID != nil {
		create.SetNodeExecutionID(*req.NodeExecutionID)
	}
	if req.Score != nil {
		create.SetScore(*req.Score)
	}
	if req.Label != nil {
		create.SetLabel(*req.Label)
	}
	if req.Comment != nil {
		create.SetComment(*req.Comment)
	}

	e, err := create.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("insert evaluation: %w", err)
	}

	resp := toEvaluationResponse(e)
	return &resp, nil
}

// ListEvaluations returns every evaluation attached to a run, newest first.
func (s *EvaluationService) ListEvaluations(ctx context.Context, runID string) (*models.EvaluationListResponse, error) {
	exists, err := s.client.Run.Query().Where(run.IDEQ(runID)).Exist(ctx)
	if err != nil {
		return nil, fmt.Errorf("check run existence: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	evals, err := s.client.Evaluation.Query().
		Where(evaluation.RunIDEQ(runID)).
		Order(ent.Desc(evaluation.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}

	out := make([]models.EvaluationResponse, 0, len(evals))
	for _, e := range evals {
		out = append(out, toEvaluationResponse(e))
	}

	return &models.EvaluationListResponse{Evaluations: out}, nil
}

func toEvaluationResponse(e *ent.Evaluation) models.EvaluationResponse {
	resp := models.EvaluationResponse{
		ID:          e.ID,
		RunID:       e.RunID,
		Evaluator:   e.Evaluator,
		Score:       e.Score,
		IsAutomated: e.IsAutomated,
		CreatedAt:   e.CreatedAt,
	}
	if e.NodeExecutionID != nil {
		resp.NodeExecutionID = *e.NodeExecutionID
	}
	if e.Label != nil {
		resp.Label = *e.Label
	}
	if e.Comment != nil {
		resp.Comment = *e.Comment
	}
	return resp
}
