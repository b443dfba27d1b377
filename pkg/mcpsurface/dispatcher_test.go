package mcpsurface

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentdeck/agentdeck/pkg/models"
	"github.com/agentdeck/agentdeck/pkg/services"
	tdb "github.com/agentdeck/agentdeck/test/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	client := tdb.NewTestClient(t)
	return NewDispatcher(services.NewIngestionService(client.Client), services.NewRunService(client.Client))
}

func TestDispatcher_Initialize(t *testing.T) {
	d := newTestDispatcher(t)
	resp, ok := d.Handle(context.Background(), Request{JSONRPC: "2.0", ID: float64(1), Method: "initialize"})
	require.True(t, ok)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ProtocolVersion, result["protocolVersion"])
}

func TestDispatcher_NotificationsInitialized_NoResponse(t *testing.T) {
	d := newTestDispatcher(t)
	resp, ok := d.Handle(context.Background(), Request{JSONRPC: "2.0", Method: "notifications/initialized"})
	assert.False(t, ok)
	assert.Nil(t, resp)
}

func TestDispatcher_UnknownMethod(t *testing.T) {
	d := newTestDispatcher(t)
	resp, ok := d.Handle(context.Background(), Request{JSONRPC: "2.0", ID: float64(2), Method: "bogus"})
	require.True(t, ok)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestDispatcher_ToolsList(t *testing.T) {
	d := newTestDispatcher(t)
	resp, ok := d.Handle(context.Background(), Request{JSONRPC: "2.0", ID: float64(3), Method: "tools/list"})
	require.True(t, ok)
	result := resp.Result.(map[string]any)
	tools := result["tools"].([]ToolDescriptor)
	assert.Len(t, tools, 3)
}

func TestDispatcher_ToolsCall_IngestTraceThenGetRun(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	ingestParams, err := json.Marshal(map[string]any{
		"name": "ingest_trace",
		"arguments": map[string]any{
			"run_id": "mcp-run-1",
			"status": "completed",
			"nodes": []map[string]any{
				{"node_key": "plan"},
			},
		},
	})
	require.NoError(t, err)

	resp, ok := d.Handle(ctx, Request{JSONRPC: "2.0", ID: float64(4), Method: "tools/call", Params: ingestParams})
	require.True(t, ok)
	require.Nil(t, resp.Error)
	callResult := resp.Result.(*ToolCallResult)
	require.Len(t, callResult.Content, 1)
	assert.Equal(t, "text", callResult.Content[0].Type)

	var ingestResp models.IngestTraceResponse
	require.NoError(t, json.Unmarshal([]byte(callResult.Content[0].Text), &ingestResp))
	assert.Equal(t, "ingested", ingestResp.Status)
	assert.Equal(t, "mcp-run-1", ingestResp.RunID)
	assert.Equal(t, 1, ingestResp.NodeCount)
	assert.Equal(t, 0, ingestResp.EdgeCount)

	getParams, err := json.Marshal(map[string]any{
		"name":      "get_run",
		"arguments": map[string]any{"run_id": "mcp-run-1"},
	})
	require.NoError(t, err)

	resp, ok = d.Handle(ctx, Request{JSONRPC: "2.0", ID: float64(5), Method: "tools/call", Params: getParams})
	require.True(t, ok)
	require.Nil(t, resp.Error)
}

func TestDispatcher_ToolsCall_UnknownTool(t *testing.T) {
	d := newTestDispatcher(t)
	params, err := json.Marshal(map[string]any{"name": "delete_everything", "arguments": map[string]any{}})
	require.NoError(t, err)

	resp, ok := d.Handle(context.Background(), Request{JSONRPC: "2.0", ID: float64(6), Method: "tools/call", Params: params})
	require.True(t, ok)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestDispatcher_ToolsCall_GetRunMissingRunID(t *testing.T) {
	d := newTestDispatcher(t)
	params, err := json.Marshal(map[string]any{"name": "get_run", "arguments": map[string]any{}})
	require.NoError(t, err)

	resp, ok := d.Handle(context.Background(), Request{JSONRPC: "2.0", ID: float64(7), Method: "tools/call", Params: params})
	require.True(t, ok)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestDispatcher_ToolsCall_GetRunNotFound(t *testing.T) {
	d := newTestDispatcher(t)
	params, err := json.Marshal(map[string]any{"name": "get_run", "arguments": map[string]any{"run_id": "missing"}})
	require.NoError(t, err)

	resp, ok := d.Handle(context.Background(), Request{JSONRPC: "2.0", ID: float64(8), Method: "tools/call", Params: params})
	require.True(t, ok)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternalError, resp.Error.Code)
}
