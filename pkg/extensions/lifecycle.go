package extensions

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agentdeck/agentdeck/ent"
	entext "github.com/agentdeck/agentdeck/ent/extension"
	"github.com/agentdeck/agentdeck/pkg/models"
	"github.com/agentdeck/agentdeck/pkg/services"
	"github.com/google/uuid"
)

// Manager is the Extension Lifecycle Manager (spec.md §4.2): packaging,
// disk placement, in-process mounting, and process-wide state updates.
type Manager struct {
	client         *ent.Client
	mounter        *Mounter
	extensionsRoot string
}

// NewManager constructs a Manager rooted at extensionsRoot (spec.md §6
// env var EXTENSIONS_DIR, default "extensions").
func NewManager(client *ent.Client, mounter *Mounter, extensionsRoot string) (*Manager, error) {
	if err := os.MkdirAll(extensionsRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create extensions root: %w", err)
	}
	return &Manager{client: client, mounter: mounter, extensionsRoot: extensionsRoot}, nil
}

func (m *Manager) installPath(name, version string) string {
	return filepath.Join(m.extensionsRoot, name+"@"+version)
}

// Install extracts zipBytes, validates the manifest, places the package
// on disk at a deterministic path (replacing any prior tree at that
// path), upserts the Extension row, and loads the backend when the
// manifest declares a backend_entry and the extension is enabled (fresh
// installs are created enabled; upgrades keep their status). A failure
// while unpacking or extracting leaves neither filesystem nor DB
// modified. The new tree replaces the prior one before the Extension row
// is written, so if that DB write fails the new tree stays on disk and
// the prior tree is not restored.
func (m *Manager) Install(ctx context.Context, zipBytes []byte) (*models.ExtensionResponse, error) {
	pkg, err := UnpackZip(zipBytes)
	if err != nil {
		return nil, err
	}

	target := m.installPath(pkg.Manifest.Name, pkg.Manifest.Version)
	tmp := target + ".tmp-" + uuid.New().String()

	if err := writeTree(tmp, pkg.Files); err != nil {
		_ = os.RemoveAll(tmp)
		return nil, fmt.Errorf("extract extension: %w", err)
	}

	if err := os.RemoveAll(target); err != nil {
		_ = os.RemoveAll(tmp)
		return nil, fmt.Errorf("clear prior install path: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.RemoveAll(tmp)
		return nil, fmt.Errorf("move extracted package into place: %w", err)
	}

	hasBackend := pkg.Manifest.BackendEntry != ""
	hasFrontend := pkg.Manifest.FrontendEntry != ""

	existing, err := m.client.Extension.Query().Where(entext.NameEQ(pkg.Manifest.Name)).Only(ctx)
	var ext *ent.Extension
	var loadErr error
	switch {
	case ent.IsNotFound(err):
		// Fresh installs come up enabled, with the backend loaded if the
		// manifest declares one (spec.md §4.2 state machine: install ->
		// enabled). A mount failure is surfaced as a diagnostic, not an
		// install failure (spec.md §7 ExtensionLoadError).
		ext, err = m.client.Extension.Create().
			SetID(uuid.New().String()).
			SetName(pkg.Manifest.Name).
			SetVersion(pkg.Manifest.Version).
			SetStatus("enabled").
			SetManifest(pkg.RawManifest).
			SetInstallPath(target).
			SetHasBackend(hasBackend).
			SetHasFrontend(hasFrontend).
			Save(ctx)
		if err != nil {
			return nil, fmt.Errorf("create extension row: %w", err)
		}
		if hasBackend {
			if err := m.LoadBackend(ctx, ext); err != nil {
				slog.Error("failed to load extension backend on install", "extension", ext.Name, "error", err)
				loadErr = err
			}
		}
	case err != nil:
		return nil, fmt.Errorf("query existing extension: %w", err)
	default:
		if m.mounter.IsMounted(existing.Name) {
			m.mounter.Unmount(existing.Name)
		}
		ext, err = m.client.Extension.UpdateOneID(existing.ID).
			SetVersion(pkg.Manifest.Version).
			SetManifest(pkg.RawManifest).
			SetInstallPath(target).
			SetHasBackend(hasBackend).
			SetHasFrontend(hasFrontend).
			Save(ctx)
		if err != nil {
			return nil, fmt.Errorf("update extension row: %w", err)
		}
		if ext.Status == "enabled" && hasBackend {
			if err := m.LoadBackend(ctx, ext); err != nil {
				slog.Error("failed to reload extension backend after upgrade", "extension", ext.Name, "error", err)
				loadErr = err
			}
		}
	}

	resp := toExtensionResponse(ext)
	if loadErr != nil {
		resp.LoadError = loadErr.Error()
	}
	return &resp, nil
}

// Uninstall unloads the backend (if loaded), removes the filesystem
// tree, then deletes the Extension row. Filesystem errors are logged
// but do not prevent DB deletion.
func (m *Manager) Uninstall(ctx context.Context, id string) error {
	ext, err := m.client.Extension.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return services.ErrNotFound
		}
		return fmt.Errorf("get extension: %w", err)
	}

	m.mounter.Unmount(ext.Name)

	if err := os.RemoveAll(ext.InstallPath); err != nil {
		slog.Error("failed to remove extension tree", "extension", ext.Name, "path", ext.InstallPath, "error", err)
	}

	if err := m.client.Extension.DeleteOneID(id).Exec(ctx); err != nil {
		return fmt.Errorf("delete extension row: %w", err)
	}
	return nil
}

// SetStatus toggles an extension between enabled and disabled, loading
// or unloading its backend to match.
func (m *Manager) SetStatus(ctx context.Context, id, status string) (*models.ExtensionResponse, error) {
	if status != "enabled" && status != "disabled" {
		return nil, services.NewValidationError("status", "must be enabled or disabled")
	}

	ext, err := m.client.Extension.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, services.ErrNotFound
		}
		return nil, fmt.Errorf("get extension: %w", err)
	}

	if status == "disabled" {
		m.mounter.Unmount(ext.Name)
	}

	updated, err := m.client.Extension.UpdateOneID(id).SetStatus(entext.Status(status)).Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("update extension status: %w", err)
	}

	if status == "enabled" && updated.HasBackend {
		if err := m.LoadBackend(ctx, updated); err != nil {
			return nil, fmt.Errorf("load backend: %w", err)
		}
	}

	resp := toExtensionResponse(updated)
	return &resp, nil
}

// LoadBackend resolves ext's backend_entry against the compiled-in
// registry and mounts it at /api/extensions/<name>.
func (m *Manager) LoadBackend(ctx context.Context, ext *ent.Extension) error {
	var manifest models.Manifest
	if raw, err := json.Marshal(ext.Manifest); err == nil {
		_ = json.Unmarshal(raw, &manifest)
	}
	if manifest.BackendEntry == "" {
		return nil
	}

	fn, ok := Resolve(manifest.BackendEntry)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBackendNotFound, manifest.BackendEntry)
	}

	return m.mounter.Mount(ext.Name, fn)
}

func writeTree(root string, files map[string][]byte) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}
	for rel, data := range files {
		dest := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func toExtensionResponse(ext *ent.Extension) models.ExtensionResponse {
	var manifest models.Manifest
	if raw, err := json.Marshal(ext.Manifest); err == nil {
		_ = json.Unmarshal(raw, &manifest)
	}

	resp := models.ExtensionResponse{
		ID:          ext.ID,
		Name:        ext.Name,
		Version:     ext.Version,
		Status:      ext.Status.String(),
		Manifest:    manifest,
		InstallPath: ext.InstallPath,
		HasBackend:  ext.HasBackend,
		HasFrontend: ext.HasFrontend,
		CreatedAt:   ext.CreatedAt,
		UpdatedAt:   ext.UpdatedAt,
	}
	if ext.Description != nil {
		resp.Description = *ext.Description
	}
	return resp
}
