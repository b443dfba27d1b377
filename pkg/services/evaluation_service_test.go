package services_test

import (
	"context"
	"testing"

	tdb "github.com/agentdeck/agentdeck/test/database"

	"github.com/agentdeck/agentdeck/pkg/models"
	"github.com/agentdeck/agentdeck/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluationService_CreateAndList(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	ingest := services.NewIngestionService(client.Client)
	evals := services.NewEvaluationService(client.Client)

	_, err := ingest.IngestTrace(ctx, models.IngestTraceRequest{
		RunID:  "run-eval",
		Status: "completed",
		Nodes:  []models.IngestNode{{NodeKey: "n", Status: "completed"}},
	})
	require.NoError(t, err)

	resp, err := evals.CreateEvaluation(ctx, models.CreateEvaluationRequest{
		RunID:       "run-eval",
		Evaluator:   "human:alice",
		Score:       ptr(0.9),
		IsAutomated: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "run-eval", resp.RunID)

	list, err := evals.ListEvaluations(ctx, "run-eval")
	require.NoError(t, err)
	assert.Len(t, list.Evaluations, 1)
}

func TestEvaluationService_CreateEvaluation_UnknownRun(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	evals := services.NewEvaluationService(client.Client)

	_, err := evals.CreateEvaluation(ctx, models.CreateEvaluationRequest{
		RunID:     "missing",
		Evaluator: "human:alice",
	})
	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestEvaluationService_CreateEvaluation_UnknownNodeExecution(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	ingest := services.NewIngestionService(client.Client)
	evals := services.NewEvaluationService(client.Client)

	_, err := ingest.IngestTrace(ctx, models.IngestTraceRequest{
		RunID:  "run-eval-node",
		Status: "completed",
		Nodes:  []models.IngestNode{{NodeKey: "n", Status: "completed"}},
	})
	require.NoError(t, err)

	_, err = evals.CreateEvaluation(ctx, models.CreateEvaluationRequest{
		RunID:           "run-eval-node",
		Evaluator:       "human:alice",
		NodeExecutionID: ptr("missing-node"),
	})
	require.ErrorIs(t, err, services.ErrNotFound)
}
