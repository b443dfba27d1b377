package services

import (
	"context"
	"fmt"
	"time"

	"github.com/agentdeck/agentdeck/ent"
	"github.com/agentdeck/agentdeck/ent/message"
	"github.com/agentdeck/agentdeck/ent/nodeexecution"
	"github.com/agentdeck/agentdeck/ent/run"
	"github.com/agentdeck/agentdeck/pkg/models"
	"github.com/google/uuid"
)

// IngestionService implements the Ingestion Engine (spec.md §4.1): a
// transactional, idempotent-replace persister for agent execution traces.
type IngestionService struct {
	client *ent.Client
}

// NewIngestionService constructs an IngestionService over an Ent client.
func NewIngestionService(client *ent.Client) *IngestionService {
	return &IngestionService{client: client}
}

// IngestTrace validates and persists one trace payload, replacing any
// prior run with the same id within the same transaction (idempotent
// replacement, not a merge — preserves I1 against re-submission).
func (s *IngestionService) IngestTrace(ctx context.Context, req models.IngestTraceRequest) (*models.IngestTraceResponse, error) {
	if err := validateIngestRequest(req); err != nil {
		return nil, err
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	tx, err := s.client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Step 2: idempotent replacement of any existing run with this id.
	if _, err := tx.Run.Delete().Where(run.IDEQ(runID)).Exec(ctx); err != nil {
		return nil, fmt.Errorf("replace existing run: %w", err)
	}

	status := req.Status
	if status == "" {
		status = "completed"
	}

	startedAt, err := parseOptionalTime(req.StartedAt)
	if err != nil {
		return nil, NewValidationError("started_at", err.Error())
	}
	endedAt, err := parseOptionalTime(req.EndedAt)
	if err != nil {
		return nil, NewValidationError("ended_at", err.Error())
	}

	runCreate := tx.Run.Create().
		SetID(runID).
		SetStatus(run.Status(status))
	if req.GraphID != nil {
		runCreate.SetGraphID(*req.GraphID)
	}
	if req.GraphVersion != nil {
		runCreate.SetGraphVersion(*req.GraphVersion)
	}
	if req.Framework != nil {
		runCreate.SetFramework(*req.Framework)
	}
	if req.AgentID != nil {
		runCreate.SetAgentID(*req.AgentID)
	}
	if startedAt != nil {
		runCreate.SetStartedAt(*startedAt)
	}
	if req.InputState != nil {
		runCreate.SetInputState(req.InputState)
	}
	if req.OutputState != nil {
		runCreate.SetOutputState(req.OutputState)
	}
	if req.Tags != nil {
		runCreate.SetTags(req.Tags)
	}
	if req.Error != nil {
		runCreate.SetError(*req.Error)
	}

	if _, err := runCreate.Save(ctx); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	var runTokens, runLatency int64
	var runCostF float64

	for idx, node := range req.Nodes {
		order := idx
		if node.Order != nil {
			order = *node.Order
		}

		nodeStatus := node.Status
		if node.Error != nil {
			nodeStatus = "failed"
		} else if nodeStatus == "" {
			nodeStatus = "completed"
		}

		nodeStartedAt, err := parseOptionalTime(node.StartedAt)
		if err != nil {
			return nil, NewValidationError("nodes.started_at", err.Error())
		}
		nodeEndedAt, err := parseOptionalTime(node.EndedAt)
		if err != nil {
			return nil, NewValidationError("nodes.ended_at", err.Error())
		}

		nodeID := uuid.New().String()
		nodeCreate := tx.NodeExecution.Create().
			SetID(nodeID).
			SetRunID(runID).
			SetNodeKey(node.NodeKey).
			SetOrder(order).
			SetStatus(nodeexecution.Status(nodeStatus))
		if node.NodeType != nil {
			nodeCreate.SetNodeType(*node.NodeType)
		}
		if nodeStartedAt != nil {
			nodeCreate.SetStartedAt(*nodeStartedAt)
		}
		if nodeEndedAt != nil {
			nodeCreate.SetEndedAt(*nodeEndedAt)
		}
		if node.StateIn != nil {
			nodeCreate.SetStateIn(node.StateIn)
		}
		if node.StateOut != nil {
			nodeCreate.SetStateOut(node.StateOut)
		}
		if node.Error != nil {
			nodeCreate.SetError(*node.Error)
		}
		if node.StateIn != nil && node.StateOut != nil {
			nodeCreate.SetStateDiff(ComputeStateDiff(node.StateIn, node.StateOut))
		}

		if _, err := nodeCreate.Save(ctx); err != nil {
			return nil, fmt.Errorf("insert node execution %q: %w", node.NodeKey, err)
		}

		var nodeLatency int64
		for msgIdx, msg := range node.Messages {
			msgCreate := tx.Message.Create().
				SetID(uuid.New().String()).
				SetNodeExecutionID(nodeID).
				SetOrder(msgIdx).
				SetRole(message.Role(msg.Role))
			if msg.Content != nil {
				msgCreate.SetContent(*msg.Content)
			}
			if msg.Model != nil {
				msgCreate.SetModel(*msg.Model)
			}
			if msg.Provider != nil {
				msgCreate.SetProvider(*msg.Provider)
			}
			if msg.InputTokens != nil {
				msgCreate.SetInputTokens(*msg.InputTokens)
			}
			if msg.OutputTokens != nil {
				msgCreate.SetOutputTokens(*msg.OutputTokens)
			}
			if msg.TotalTokens != nil {
				msgCreate.SetTotalTokens(*msg.TotalTokens)
				runTokens += *msg.TotalTokens
			}
			if msg.Cost != nil {
				msgCreate.SetCost(*msg.Cost)
				runCostF += *msg.Cost
			}
			if msg.LatencyMs != nil {
				msgCreate.SetLatencyMs(*msg.LatencyMs)
				nodeLatency += *msg.LatencyMs
			}
			if msg.ToolCalls != nil {
				msgCreate.SetToolCalls(msg.ToolCalls)
			}
			if msg.ToolResults != nil {
				msgCreate.SetToolResults(msg.ToolResults)
			}
			if msg.RawRequest != nil {
				msgCreate.SetRawRequest(msg.RawRequest)
			}
			if msg.RawResponse != nil {
				msgCreate.SetRawResponse(msg.RawResponse)
			}

			if _, err := msgCreate.Save(ctx); err != nil {
				return nil, fmt.Errorf("insert message %d of node %q: %w", msgIdx, node.NodeKey, err)
			}
		}

		runLatency += nodeLatency

		if _, err := tx.NodeExecution.UpdateOneID(nodeID).SetLatencyMs(nodeLatency).Save(ctx); err != nil {
			return nil, fmt.Errorf("patch node execution latency %q: %w", node.NodeKey, err)
		}
	}

	for idx, e := range req.Edges {
		order := idx
		if e.Order != nil {
			order = *e.Order
		}
		edgeCreate := tx.Edge.Create().
			SetID(uuid.New().String()).
			SetRunID(runID).
			SetFromNode(e.FromNode).
			SetToNode(e.ToNode).
			SetOrder(order)
		if e.ConditionLabel != nil {
			edgeCreate.SetConditionLabel(*e.ConditionLabel)
		}
		if _, err := edgeCreate.Save(ctx); err != nil {
			return nil, fmt.Errorf("insert edge %s->%s: %w", e.FromNode, e.ToNode, err)
		}
	}

	runUpdate := tx.Run.UpdateOneID(runID).
		SetTotalTokens(runTokens).
		SetTotalCost(runCostF).
		SetTotalLatencyMs(runLatency)
	if status != "running" {
		if endedAt != nil {
			runUpdate.SetEndedAt(*endedAt)
		} else {
			runUpdate.SetEndedAt(time.Now())
		}
	}
	if _, err := runUpdate.Save(ctx); err != nil {
		return nil, fmt.Errorf("patch run aggregates: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ingest transaction: %w", err)
	}

	return &models.IngestTraceResponse{
		Status:         "ingested",
		RunID:          runID,
		NodeCount:      len(req.Nodes),
		EdgeCount:      len(req.Edges),
		TotalTokens:    runTokens,
		TotalCost:      runCostF,
		TotalLatencyMs: runLatency,
	}, nil
}

func validateIngestRequest(req models.IngestTraceRequest) error {
	if req.Status != "" && req.Status != "running" && req.Status != "completed" && req.Status != "failed" {
		return NewValidationError("status", "must be one of running, completed, failed")
	}
	for i, node := range req.Nodes {
		if node.NodeKey == "" {
			return NewValidationError(fmt.Sprintf("nodes[%d].node_key", i), "is required")
		}
		for j, msg := range node.Messages {
			switch msg.Role {
			case "system", "user", "assistant", "tool":
			default:
				return NewValidationError(fmt.Sprintf("nodes[%d].messages[%d].role", i, j), "must be one of system, user, assistant, tool")
			}
		}
	}
	for i, e := range req.Edges {
		if e.FromNode == "" || e.ToNode == "" {
			return NewValidationError(fmt.Sprintf("edges[%d]", i), "from_node and to_node are required")
		}
	}
	return nil
}

func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", *s, err)
	}
	return &t, nil
}
