package mcpsurface

// toolDescriptors is the tools/list payload (spec.md §4.5); schemas mirror
// the reference server's ingest_trace/list_runs/get_run input shapes.
func toolDescriptors() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Name:        "ingest_trace",
			Description: "Ingest a complete agentic workflow trace for observability",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"run_id":        map[string]any{"type": "string", "description": "Unique identifier for this run (auto-generated if not provided)"},
					"graph_id":      map[string]any{"type": "string", "description": "Identifier for the graph/workflow definition"},
					"graph_version": map[string]any{"type": "string", "description": "Version of the graph"},
					"framework":     map[string]any{"type": "string", "default": "langgraph", "description": "Framework name (langgraph, autogen, etc)"},
					"agent_id":      map[string]any{"type": "string", "description": "Optional agent identifier"},
					"status":        map[string]any{"type": "string", "enum": []string{"running", "completed", "failed"}, "default": "completed"},
					"input_state":   map[string]any{"type": "object", "description": "Initial state passed to the workflow"},
					"output_state":  map[string]any{"type": "object", "description": "Final state from the workflow"},
					"nodes": map[string]any{
						"type":        "array",
						"description": "List of node executions in order",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"node_key":  map[string]any{"type": "string", "description": "Name/key of the node"},
								"node_type": map[string]any{"type": "string", "description": "Type of node (llm, tool, router, etc)"},
								"state_in":  map[string]any{"type": "object", "description": "State entering this node"},
								"state_out": map[string]any{"type": "object", "description": "State exiting this node"},
								"error":     map[string]any{"type": "string", "description": "Error message if node failed"},
								"messages": map[string]any{
									"type": "array",
									"items": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"role":          map[string]any{"type": "string", "enum": []string{"system", "user", "assistant", "tool"}},
											"content":       map[string]any{"type": "string"},
											"model":         map[string]any{"type": "string"},
											"provider":      map[string]any{"type": "string"},
											"input_tokens":  map[string]any{"type": "integer"},
											"output_tokens": map[string]any{"type": "integer"},
											"total_tokens":  map[string]any{"type": "integer"},
											"cost":          map[string]any{"type": "number"},
											"latency_ms":    map[string]any{"type": "integer"},
											"tool_calls":    map[string]any{"type": "array"},
											"tool_results":  map[string]any{"type": "array"},
										},
									},
								},
							},
							"required": []string{"node_key"},
						},
					},
					"edges": map[string]any{
						"type":        "array",
						"description": "Transitions between nodes",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"from_node":       map[string]any{"type": "string"},
								"to_node":         map[string]any{"type": "string"},
								"condition_label": map[string]any{"type": "string"},
							},
							"required": []string{"from_node", "to_node"},
						},
					},
					"error":        map[string]any{"type": "string", "description": "Overall workflow error"},
					"tags":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"run_metadata": map[string]any{"type": "object", "description": "Additional metadata (accepted but not stored)"},
				},
				"required": []string{"nodes"},
			},
		},
		{
			Name:        "list_runs",
			Description: "List recent workflow runs",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit":  map[string]any{"type": "integer", "default": 50, "description": "Max runs to return"},
					"offset": map[string]any{"type": "integer", "default": 0},
				},
			},
		},
		{
			Name:        "get_run",
			Description: "Get detailed information about a specific workflow run",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"run_id": map[string]any{"type": "string", "description": "The run ID to retrieve"},
				},
				"required": []string{"run_id"},
			},
		},
	}
}
