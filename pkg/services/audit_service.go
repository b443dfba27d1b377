package services

import (
	"context"
	"fmt"

	"github.com/agentdeck/agentdeck/ent"
	entaudit "github.com/agentdeck/agentdeck/ent/extensionnetworkaudit"
	"github.com/agentdeck/agentdeck/pkg/models"
)

// AuditService implements the sandbox's read-side audit trail endpoints
// (spec.md §6): per-extension and cross-extension paginated listing.
type AuditService struct {
	client *ent.Client
}

// NewAuditService constructs an AuditService over an Ent client.
func NewAuditService(client *ent.Client) *AuditService {
	return &AuditService{client: client}
}

// AuditListFilter narrows an audit listing.
type AuditListFilter struct {
	ExtensionID string // empty means cross-extension (GET /api/audit/all)
	AllowedOnly bool
	BlockedOnly bool
	Limit       int
	Offset      int
}

// List returns a page of audit rows ordered newest-first within the filter.
func (s *AuditService) List(ctx context.Context, filter AuditListFilter) (*models.AuditListResponse, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	q := s.client.ExtensionNetworkAudit.Query()
	if filter.ExtensionID != "" {
		q = q.Where(entaudit.ExtensionIDEQ(filter.ExtensionID))
	}
	if filter.AllowedOnly {
		q = q.Where(entaudit.AllowedEQ(true))
	}
	if filter.BlockedOnly {
		q = q.Where(entaudit.AllowedEQ(false))
	}

	total, err := q.Clone().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count audit rows: %w", err)
	}

	rows, err := q.Order(ent.Desc(entaudit.FieldCreatedAt)).
		Offset(offset).Limit(limit).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list audit rows: %w", err)
	}

	entries := make([]models.AuditEntryResponse, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toAuditEntryResponse(row))
	}

	return &models.AuditListResponse{
		Entries:    entries,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func toAuditEntryResponse(row *ent.ExtensionNetworkAudit) models.AuditEntryResponse {
	resp := models.AuditEntryResponse{
		ID:              row.ID,
		ExtensionID:     row.ExtensionID,
		ExtensionName:   row.ExtensionName,
		TargetURL:       row.TargetURL,
		Method:          row.Method,
		RequestHeaders:  row.RequestHeaders,
		ResponseHeaders: row.ResponseHeaders,
		Allowed:         row.Allowed,
		CreatedAt:       row.CreatedAt,
	}
	if row.RequestBodyHash != nil {
		resp.RequestBodyHash = *row.RequestBodyHash
	}
	if row.RequestBodySize != nil {
		resp.RequestBodySize = row.RequestBodySize
	}
	if row.ResponseStatus != nil {
		resp.ResponseStatus = row.ResponseStatus
	}
	if row.ResponseTimeMs != nil {
		resp.ResponseTimeMs = row.ResponseTimeMs
	}
	if row.ResponseBodyExcerpt != nil {
		resp.ResponseBodyExcerpt = *row.ResponseBodyExcerpt
	}
	if row.ResponseBodySize != nil {
		resp.ResponseBodySize = row.ResponseBodySize
	}
	if row.BlockedReason != nil {
		resp.BlockedReason = *row.BlockedReason
	}
	if row.Error != nil {
		resp.Error = *row.Error
	}
	return resp
}
