package models

import "time"

// RunSummary is the list-view projection of a Run (GET /api/runs).
type RunSummary struct {
	RunID          string    `json:"run_id"`
	GraphID        string    `json:"graph_id,omitempty"`
	Framework      string    `json:"framework,omitempty"`
	AgentID        string    `json:"agent_id,omitempty"`
	Status         string    `json:"status"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	TotalTokens    int64     `json:"total_tokens"`
	TotalCost      float64   `json:"total_cost"`
	TotalLatencyMs int64     `json:"total_latency_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// RunListResponse is returned by GET /api/runs.
type RunListResponse struct {
	Runs       []RunSummary `json:"runs"`
	TotalCount int          `json:"total_count"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
}

// RunDetail is the full-detail projection of a Run (GET /api/runs/{id}).
type RunDetail struct {
	RunSummary
	GraphVersion string         `json:"graph_version,omitempty"`
	InputState   map[string]any `json:"input_state,omitempty"`
	OutputState  map[string]any `json:"output_state,omitempty"`
	Error        string         `json:"error,omitempty"`
	Nodes        []NodeSummary  `json:"nodes"`
}

// NodeSummary is a node_execution's list-view projection within a RunDetail.
type NodeSummary struct {
	ID         string     `json:"id"`
	NodeKey    string     `json:"node_key"`
	NodeType   string     `json:"node_type,omitempty"`
	Order      int        `json:"order"`
	Status     string     `json:"status"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	LatencyMs  int64      `json:"latency_ms"`
	Error      string     `json:"error,omitempty"`
	MessageCount int      `json:"message_count"`
}

// GraphNode is one node as rendered in the run's execution graph.
type GraphNode struct {
	NodeKey  string `json:"node_key"`
	NodeType string `json:"node_type,omitempty"`
	Order    int    `json:"order"`
	Status   string `json:"status"`
}

// GraphEdge is one edge as rendered in the run's execution graph.
type GraphEdge struct {
	FromNode       string `json:"from_node"`
	ToNode         string `json:"to_node"`
	ConditionLabel string `json:"condition_label,omitempty"`
	Order          int    `json:"order"`
}

// GraphResponse is returned by GET /api/runs/{id}/graph.
type GraphResponse struct {
	RunID string      `json:"run_id"`
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// MessageDetail is a single message within a NodeDetail.
type MessageDetail struct {
	ID           string         `json:"id"`
	Order        int            `json:"order"`
	Role         string         `json:"role"`
	Content      string         `json:"content,omitempty"`
	Model        string         `json:"model,omitempty"`
	Provider     string         `json:"provider,omitempty"`
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

// NodeDetail is returned by GET /api/runs/{id}/nodes/{nid}.
type NodeDetail struct {
	NodeSummary
	StateIn    map[string]any  `json:"state_in,omitempty"`
	StateOut   map[string]any  `json:"state_out,omitempty"`
	StateDiff  map[string]any  `json:"state_diff,omitempty"`
	Messages   []MessageDetail `json:"messages"`
}
