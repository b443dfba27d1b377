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

func TestRunService_ListAndDetail(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	ingest := services.NewIngestionService(client.Client)
	runs := services.NewRunService(client.Client)

	_, err := ingest.IngestTrace(ctx, models.IngestTraceRequest{
		RunID:     "run-x",
		Framework: ptr("custom"),
		GraphID:   ptr("graph-x"),
		Status:    "completed",
		Nodes: []models.IngestNode{
			{NodeKey: "start", Status: "completed", Messages: []models.IngestMessage{{Role: "user"}}},
			{NodeKey: "end", Status: "completed"},
		},
		Edges: []models.IngestEdge{{FromNode: "start", ToNode: "end"}},
	})
	require.NoError(t, err)

	list, err := runs.ListRuns(ctx, services.RunListFilter{Framework: "custom"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalCount)
	assert.Equal(t, "run-x", list.Runs[0].RunID)

	byGraph, err := runs.ListRuns(ctx, services.RunListFilter{GraphID: "graph-x"})
	require.NoError(t, err)
	assert.Equal(t, 1, byGraph.TotalCount)

	noMatch, err := runs.ListRuns(ctx, services.RunListFilter{GraphID: "graph-other"})
	require.NoError(t, err)
	assert.Equal(t, 0, noMatch.TotalCount)

	detail, err := runs.GetRun(ctx, "run-x")
	require.NoError(t, err)
	assert.Len(t, detail.Nodes, 2)

	graph, err := runs.GetGraph(ctx, "run-x")
	require.NoError(t, err)
	assert.Len(t, graph.Edges, 1)

	nodeID := detail.Nodes[0].ID
	node, err := runs.GetNode(ctx, "run-x", nodeID)
	require.NoError(t, err)
	assert.Equal(t, "start", node.NodeKey)
	assert.Len(t, node.Messages, 1)
}

func TestRunService_GetRun_NotFound(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	runs := services.NewRunService(client.Client)

	_, err := runs.GetRun(ctx, "missing")
	require.ErrorIs(t, err, services.ErrNotFound)
}
