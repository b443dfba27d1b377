package mcpsurface

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentdeck/agentdeck/pkg/models"
	"github.com/agentdeck/agentdeck/pkg/services"
)

// Dispatcher routes JSON-RPC requests to the ingestion and query services.
type Dispatcher struct {
	ingestion *services.IngestionService
	runs      *services.RunService
}

// NewDispatcher wires a Dispatcher over the given services.
func NewDispatcher(ingestion *services.IngestionService, runs *services.RunService) *Dispatcher {
	return &Dispatcher{ingestion: ingestion, runs: runs}
}

// Handle processes one decoded request. The returned bool reports whether a
// response should be written; it is false for notifications (spec.md §4.5).
func (d *Dispatcher) Handle(ctx context.Context, req Request) (*Response, bool) {
	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": ServerName, "version": ServerVersion},
		}), true

	case "notifications/initialized":
		return nil, false

	case "tools/list":
		return resultResponse(req.ID, map[string]any{"tools": toolDescriptors()}), true

	case "tools/call":
		return d.handleToolCall(ctx, req), true

	default:
		return errorResponse(req.ID, CodeMethodNotFound, "Method not found"), true
	}
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (d *Dispatcher) handleToolCall(ctx context.Context, req Request) *Response {
	var params toolCallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeInvalidParams, "invalid params: "+err.Error())
		}
	}

	var (
		result any
		err    error
	)
	switch params.Name {
	case "ingest_trace":
		result, err = d.callIngestTrace(ctx, params.Arguments)
	case "list_runs":
		result, err = d.callListRuns(ctx, params.Arguments)
	case "get_run":
		result, err = d.callGetRun(ctx, params.Arguments)
	default:
		return errorResponse(req.ID, CodeInvalidParams, "Unknown tool: "+params.Name)
	}

	if err != nil {
		if services.IsValidationError(err) {
			return errorResponse(req.ID, CodeInvalidParams, err.Error())
		}
		return errorResponse(req.ID, CodeInternalError, err.Error())
	}

	content, err := textResult(result)
	if err != nil {
		return errorResponse(req.ID, CodeInternalError, err.Error())
	}
	return resultResponse(req.ID, content)
}

func (d *Dispatcher) callIngestTrace(ctx context.Context, args json.RawMessage) (any, error) {
	var req models.IngestTraceRequest
	if len(args) > 0 {
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, services.NewValidationError("arguments", err.Error())
		}
	}
	if req.Framework == nil {
		framework := "langgraph"
		req.Framework = &framework
	}
	return d.ingestion.IngestTrace(ctx, req)
}

type listRunsArgs struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (d *Dispatcher) callListRuns(ctx context.Context, args json.RawMessage) (any, error) {
	parsed := listRunsArgs{Limit: 50, Offset: 0}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return nil, services.NewValidationError("arguments", err.Error())
		}
	}
	return d.runs.ListRuns(ctx, services.RunListFilter{Limit: parsed.Limit, Offset: parsed.Offset})
}

type getRunArgs struct {
	RunID string `json:"run_id"`
}

func (d *Dispatcher) callGetRun(ctx context.Context, args json.RawMessage) (any, error) {
	var parsed getRunArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return nil, services.NewValidationError("arguments", err.Error())
		}
	}
	if parsed.RunID == "" {
		return nil, services.NewValidationError("run_id", "run_id is required")
	}
	run, err := d.runs.GetRun(ctx, parsed.RunID)
	if err != nil {
		return nil, fmt.Errorf("get_run %s: %w", parsed.RunID, err)
	}
	return run, nil
}
