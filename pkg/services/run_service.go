package services

import (
	"context"
	"fmt"

	"github.com/agentdeck/agentdeck/ent"
	"github.com/agentdeck/agentdeck/ent/edge"
	"github.com/agentdeck/agentdeck/ent/message"
	"github.com/agentdeck/agentdeck/ent/nodeexecution"
	"github.com/agentdeck/agentdeck/ent/run"
	"github.com/agentdeck/agentdeck/pkg/models"
)

// RunService implements the Query API's run-scoped reads (spec.md §6):
// list, detail, execution graph, and node detail.
type RunService struct {
	client *ent.Client
}

// NewRunService constructs a RunService over an Ent client.
func NewRunService(client *ent.Client) *RunService {
	return &RunService{client: client}
}

// RunListFilter narrows GET /api/runs.
type RunListFilter struct {
	Status    string
	Framework string
	AgentID   string
	GraphID   string
	Limit     int
	Offset    int
}

// ListRuns returns a page of run summaries ordered newest-first.
func (s *RunService) ListRuns(ctx context.Context, filter RunListFilter) (*models.RunListResponse, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := s.client.Run.Query()
	if filter.Status != "" {
		q = q.Where(run.StatusEQ(run.Status(filter.Status)))
	}
	if filter.Framework != "" {
		q = q.Where(run.FrameworkEQ(filter.Framework))
	}
	if filter.AgentID != "" {
		q = q.Where(run.AgentIDEQ(filter.AgentID))
	}
	if filter.GraphID != "" {
		q = q.Where(run.GraphIDEQ(filter.GraphID))
	}

	total, err := q.Clone().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	runs, err := q.Order(ent.Desc(run.FieldCreatedAt)).
		Limit(limit).
		Offset(filter.Offset).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	summaries := make([]models.RunSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, toRunSummary(r))
	}

	return &models.RunListResponse{
		Runs:       summaries,
		TotalCount: total,
		Limit:      limit,
		Offset:     filter.Offset,
	}, nil
}

// GetRun returns the full detail projection of a run, including its nodes.
func (s *RunService) GetRun(ctx context.Context, runID string) (*models.RunDetail, error) {
	r, err := s.client.Run.Get(ctx, runID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	nodes, err := s.client.NodeExecution.Query().
		Where(nodeexecution.RunIDEQ(runID)).
		Order(ent.Asc(nodeexecution.FieldOrder)).
		WithMessages().
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list node executions: %w", err)
	}

	nodeSummaries := make([]models.NodeSummary, 0, len(nodes))
	for _, n := range nodes {
		nodeSummaries = append(nodeSummaries, toNodeSummary(n))
	}

	detail := &models.RunDetail{
		RunSummary:   toRunSummary(r),
		GraphVersion: r.GraphVersion,
		InputState:   r.InputState,
		OutputState:  r.OutputState,
		Nodes:        nodeSummaries,
	}
	if r.Error != nil {
		detail.Error = *r.Error
	}
	return detail, nil
}

// GetGraph returns the run's node/edge execution graph.
func (s *RunService) GetGraph(ctx context.Context, runID string) (*models.GraphResponse, error) {
	exists, err := s.client.Run.Query().Where(run.IDEQ(runID)).Exist(ctx)
	if err != nil {
		return nil, fmt.Errorf("check run existence: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	nodes, err := s.client.NodeExecution.Query().
		Where(nodeexecution.RunIDEQ(runID)).
		Order(ent.Asc(nodeexecution.FieldOrder)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	edges, err := s.client.Edge.Query().
		Where(edge.RunIDEQ(runID)).
		Order(ent.Asc(edge.FieldOrder)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list edges: %w", err)
	}

	graphNodes := make([]models.GraphNode, 0, len(nodes))
	for _, n := range nodes {
		gn := models.GraphNode{
			NodeKey: n.NodeKey,
			Order:   n.Order,
			Status:  n.Status.String(),
		}
		gn.NodeType = n.NodeType
		graphNodes = append(graphNodes, gn)
	}

	graphEdges := make([]models.GraphEdge, 0, len(edges))
	for _, e := range edges {
		ge := models.GraphEdge{
			FromNode: e.FromNode,
			ToNode:   e.ToNode,
			Order:    e.Order,
		}
		if e.ConditionLabel != nil {
			ge.ConditionLabel = *e.ConditionLabel
		}
		graphEdges = append(graphEdges, ge)
	}

	return &models.GraphResponse{
		RunID: runID,
		Nodes: graphNodes,
		Edges: graphEdges,
	}, nil
}

// GetNode returns full detail for one node execution, including messages.
func (s *RunService) GetNode(ctx context.Context, runID, nodeID string) (*models.NodeDetail, error) {
	n, err := s.client.NodeExecution.Query().
		Where(nodeexecution.IDEQ(nodeID), nodeexecution.RunIDEQ(runID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get node execution: %w", err)
	}

	msgs, err := s.client.Message.Query().
		Where(message.NodeExecutionIDEQ(nodeID)).
		Order(ent.Asc(message.FieldOrder)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	msgDetails := make([]models.MessageDetail, 0, len(msgs))
	for _, m := range msgs {
		msgDetails = append(msgDetails, toMessageDetail(m))
	}

	detail := &models.NodeDetail{
		NodeSummary: toNodeSummary(n),
		StateIn:     n.StateIn,
		StateOut:    n.StateOut,
		StateDiff:   n.StateDiff,
		Messages:    msgDetails,
	}
	detail.MessageCount = len(msgDetails)
	return detail, nil
}

func toRunSummary(r *ent.Run) models.RunSummary {
	summary := models.RunSummary{
		RunID:          r.ID,
		Status:         r.Status.String(),
		StartedAt:      r.StartedAt,
		EndedAt:        r.EndedAt,
		Tags:           r.Tags,
		TotalTokens:    r.TotalTokens,
		TotalCost:      r.TotalCost,
		TotalLatencyMs: r.TotalLatencyMs,
		CreatedAt:      r.CreatedAt,
	}
	summary.GraphID = r.GraphID
	summary.Framework = r.Framework
	summary.AgentID = r.AgentID
	return summary
}

func toNodeSummary(n *ent.NodeExecution) models.NodeSummary {
	summary := models.NodeSummary{
		ID:           n.ID,
		NodeKey:      n.NodeKey,
		Order:        n.Order,
		Status:       n.Status.String(),
		StartedAt:    n.StartedAt,
		EndedAt:      n.EndedAt,
		LatencyMs:    n.LatencyMs,
		MessageCount: len(n.Edges.Messages),
	}
	summary.NodeType = n.NodeType
	if n.Error != nil {
		summary.Error = *n.Error
	}
	return summary
}

func toMessageDetail(m *ent.Message) models.MessageDetail {
	detail := models.MessageDetail{
		ID:           m.ID,
		Order:        m.Order,
		Role:         m.Role.String(),
		InputTokens:  m.InputTokens,
		OutputTokens: m.OutputTokens,
		TotalTokens:  m.TotalTokens,
		Cost:         m.Cost,
		LatencyMs:    m.LatencyMs,
		ToolCalls:    m.ToolCalls,
		ToolResults:  m.ToolResults,
		RawRequest:   m.RawRequest,
		RawResponse:  m.RawResponse,
	}
	detail.Content = m.Content
	if m.Model != nil {
		detail.Model = *m.Model
	}
	if m.Provider != nil {
		detail.Provider = *m.Provider
	}
	return detail
}
