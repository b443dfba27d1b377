// Package models contains request/response models and business domain types.
package models

// IngestTraceRequest is the body of POST /api/traces (spec.md §4.1, §6).
type IngestTraceRequest struct {
	RunID        string              `json:"run_id"`
	GraphID      *string             `json:"graph_id,omitempty"`
	GraphVersion *string             `json:"graph_version,omitempty"`
	Framework    *string             `json:"framework,omitempty"`
	AgentID      *string             `json:"agent_id,omitempty"`
	Status       string              `json:"status"` // "running" | "completed" | "failed"
	StartedAt    *string             `json:"started_at,omitempty"`
	EndedAt      *string             `json:"ended_at,omitempty"`
	InputState   map[string]any      `json:"input_state,omitempty"`
	OutputState  map[string]any      `json:"output_state,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	Error        *string             `json:"error,omitempty"`
	Nodes        []IngestNode        `json:"nodes"`
	Edges        []IngestEdge        `json:"edges,omitempty"`
}

// IngestNode is one node_execution within an ingested trace.
type IngestNode struct {
	NodeKey   string         `json:"node_key"`
	NodeType  *string        `json:"node_type,omitempty"`
	Order     *int           `json:"order,omitempty"`
	Status    string         `json:"status"`
	StartedAt *string        `json:"started_at,omitempty"`
	EndedAt   *string        `json:"ended_at,omitempty"`
	StateIn   map[string]any `json:"state_in,omitempty"`
	StateOut  map[string]any `json:"state_out,omitempty"`
	LatencyMs *int64         `json:"latency_ms,omitempty"`
	Error     *string        `json:"error,omitempty"`
	Messages  []IngestMessage `json:"messages,omitempty"`
}

// IngestMessage is one message within an ingested node execution.
type IngestMessage struct {
	Order        int            `json:"order"`
	Role         string         `json:"role"` // system | user | assistant | tool
	Content      *string        `json:"content,omitempty"`
	Model        *string        `json:"model,omitempty"`
	Provider     *string        `json:"provider,omitempty"`
	InputTokens  *int64         `json:"input_tokens,omitempty"`
	OutputTokens *int64         `json:"output_tokens,omitempty"`
	TotalTokens  *int64         `json:"total_tokens,omitempty"`
	Cost         *float64       `json:"cost,omitempty"`
	LatencyMs    *int64         `json:"latency_ms,omitempty"`
	ToolCalls    []any          `json:"tool_calls,omitempty"`
	ToolResults  []any          `json:"tool_results,omitempty"`
	RawRequest   map[string]any `json:"raw_request,omitempty"`
	RawResponse  map[string]any `json:"raw_response,omitempty"`
}

// IngestEdge is one recorded transition between node_keys within a run.
type IngestEdge struct {
	FromNode       string  `json:"from_node"`
	ToNode         string  `json:"to_node"`
	ConditionLabel *string `json:"condition_label,omitempty"`
	Order          *int    `json:"order,omitempty"`
}

// IngestTraceResponse confirms ingestion and reports per-run aggregates.
type IngestTraceResponse struct {
	Status          string  `json:"status"`
	RunID           string  `json:"run_id"`
	NodeCount       int     `json:"node_count"`
	EdgeCount       int     `json:"edge_count"`
	TotalTokens     int64   `json:"total_tokens"`
	TotalCost       float64 `json:"total_cost"`
	TotalLatencyMs  int64   `json:"total_latency_ms"`
}
