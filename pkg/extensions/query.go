package extensions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentdeck/agentdeck/ent"
	entext "github.com/agentdeck/agentdeck/ent/extension"
	"github.com/agentdeck/agentdeck/pkg/models"
	"github.com/agentdeck/agentdeck/pkg/services"
)

// List returns every installed extension ordered by name.
func (m *Manager) List(ctx context.Context) ([]models.ExtensionResponse, error) {
	exts, err := m.client.Extension.Query().Order(ent.Asc(entext.FieldName)).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list extensions: %w", err)
	}
	out := make([]models.ExtensionResponse, 0, len(exts))
	for _, e := range exts {
		out = append(out, toExtensionResponse(e))
	}
	return out, nil
}

// Get returns a single extension by id.
func (m *Manager) Get(ctx context.Context, id string) (*models.ExtensionResponse, error) {
	ext, err := m.client.Extension.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("get extension: %w", err)
	}
	resp := toExtensionResponse(ext)
	return &resp, nil
}

// GetByName resolves an extension id from its unique name.
func (m *Manager) GetByName(ctx context.Context, name string) (*models.ExtensionResponse, error) {
	ext, err := m.client.Extension.Query().Where(entext.NameEQ(name)).Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("resolve extension %q: %w", name, err)
	}
	resp := toExtensionResponse(ext)
	return &resp, nil
}

// Permissions returns id's declared manifest permissions.
func (m *Manager) Permissions(ctx context.Context, id string) (*models.PermissionsResponse, error) {
	ext, err := m.client.Extension.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("get extension: %w", err)
	}
	var manifest models.Manifest
	if raw, err := json.Marshal(ext.Manifest); err == nil {
		_ = json.Unmarshal(raw, &manifest)
	}
	return &models.PermissionsResponse{Name: ext.Name, Permissions: manifest.Permissions}, nil
}

// FrontendManifest returns the UI contribution metadata of every enabled
// extension (spec.md §6 GET /api/extensions/frontend-manifest).
func (m *Manager) FrontendManifest(ctx context.Context) (*models.FrontendManifestResponse, error) {
	exts, err := m.client.Extension.Query().
		Where(entext.StatusEQ(entext.StatusEnabled), entext.HasFrontendEQ(true)).
		Order(ent.Asc(entext.FieldName)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enabled extensions: %w", err)
	}

	entries := make([]models.FrontendManifestEntry, 0, len(exts))
	for _, e := range exts {
		var manifest models.Manifest
		if raw, err := json.Marshal(e.Manifest); err == nil {
			_ = json.Unmarshal(raw, &manifest)
		}
		entries = append(entries, models.FrontendManifestEntry{
			Name:          e.Name,
			Version:       e.Version,
			FrontendEntry: manifest.FrontendEntry,
			Contributes:   manifest.Contributes,
		})
	}
	return &models.FrontendManifestResponse{Extensions: entries}, nil
}
