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

func ptr[T any](v T) *T { return &v }

func TestIngestionService_IngestTrace_BasicRoundTrip(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	svc := services.NewIngestionService(client.Client)

	req := models.IngestTraceRequest{
		RunID:     "run-basic",
		Framework: ptr("langgraph"),
		Status:    "completed",
		Nodes: []models.IngestNode{
			{
				NodeKey: "plan",
				Status:  "completed",
				StateIn: map[string]any{"step": float64(0)},
				StateOut: map[string]any{"step": float64(1)},
				Messages: []models.IngestMessage{
					{Role: "user", Content: ptr("hello")},
					{Role: "assistant", Content: ptr("hi"), TotalTokens: ptr(int64(10)), LatencyMs: ptr(int64(100))},
				},
			},
		},
		Edges: []models.IngestEdge{
			{FromNode: "plan", ToNode: "act"},
		},
	}

	resp, err := svc.IngestTrace(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "ingested", resp.Status)
	assert.Equal(t, "run-basic", resp.RunID)
	assert.Equal(t, 1, resp.NodeCount)
	assert.Equal(t, 1, resp.EdgeCount)
	assert.Equal(t, int64(10), resp.TotalTokens)
	assert.Equal(t, int64(100), resp.TotalLatencyMs)

	run, err := client.Run.Get(ctx, "run-basic")
	require.NoError(t, err)
	assert.Equal(t, "completed", run.Status.String())
	assert.NotNil(t, run.EndedAt)
}

func TestIngestionService_IngestTrace_IdempotentReplace(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	svc := services.NewIngestionService(client.Client)

	first := models.IngestTraceRequest{
		RunID:  "run-dup",
		Status: "completed",
		Nodes: []models.IngestNode{
			{NodeKey: "a", Status: "completed"},
			{NodeKey: "b", Status: "completed"},
		},
	}
	_, err := svc.IngestTrace(ctx, first)
	require.NoError(t, err)

	second := models.IngestTraceRequest{
		RunID:  "run-dup",
		Status: "completed",
		Nodes: []models.IngestNode{
			{NodeKey: "only", Status: "completed"},
		},
	}
	resp, err := svc.IngestTrace(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NodeCount)

	nodes, err := client.NodeExecution.Query().All(ctx)
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.Equal(t, "only", nodes[0].NodeKey)
}

func TestIngestionService_IngestTrace_RejectsBadRole(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	svc := services.NewIngestionService(client.Client)

	req := models.IngestTraceRequest{
		RunID: "run-bad",
		Nodes: []models.IngestNode{
			{
				NodeKey: "n",
				Messages: []models.IngestMessage{
					{Role: "narrator"},
				},
			},
		},
	}

	_, err := svc.IngestTrace(ctx, req)
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}
