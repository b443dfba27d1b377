package models

import "time"

// ContributionEntry is one item within a manifest's contributes.* list,
// e.g. {"id": "foo", "title": "Foo"}.
type ContributionEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Contributes enumerates an extension's UI contribution points.
type Contributes struct {
	SidebarPanels    []ContributionEntry `json:"sidebar_panels,omitempty"`
	DashboardWidgets []ContributionEntry `json:"dashboard_widgets,omitempty"`
	RunActions       []ContributionEntry `json:"run_actions,omitempty"`
	NodeActions      []ContributionEntry `json:"node_actions,omitempty"`
	ContextMenus     []ContributionEntry `json:"context_menus,omitempty"`
	SettingsPanels   []ContributionEntry `json:"settings_panels,omitempty"`
}

// NetworkPermission is one entry of manifest.permissions.network.
type NetworkPermission struct {
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Methods     []string `json:"methods,omitempty"`
}

// Permissions is the declared-permissions block of a manifest.
type Permissions struct {
	Storage bool                `json:"storage"`
	Network []NetworkPermission `json:"network,omitempty"`
}

// Manifest is the parsed form of an extension's manifest.json.
type Manifest struct {
	Name             string      `json:"name"`
	Version          string      `json:"version"`
	Description      string      `json:"description,omitempty"`
	Author           string      `json:"author,omitempty"`
	BackendEntry     string      `json:"backend_entry,omitempty"`
	FrontendEntry    string      `json:"frontend_entry,omitempty"`
	Contributes      Contributes `json:"contributes,omitempty"`
	Permissions      Permissions `json:"permissions,omitempty"`
	ActivationEvents []string    `json:"activation_events,omitempty"`
	Dependencies     []string    `json:"dependencies,omitempty"`
}

// ExtensionResponse is returned by the extension lifecycle endpoints.
type ExtensionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Manifest    Manifest  `json:"manifest"`
	InstallPath string    `json:"install_path"`
	HasBackend  bool      `json:"has_backend"`
	HasFrontend bool      `json:"has_frontend"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LoadError   string    `json:"load_error,omitempty"`
}

// ExtensionListResponse is returned by GET /api/extensions.
type ExtensionListResponse struct {
	Extensions []ExtensionResponse `json:"extensions"`
}

// SetExtensionStatusRequest is the body of the status-toggle endpoint.
type SetExtensionStatusRequest struct {
	Status string `json:"status"` // "enabled" | "disabled"
}

// FrontendManifestEntry describes one enabled extension's UI surface.
type FrontendManifestEntry struct {
	Name          string      `json:"name"`
	Version       string      `json:"version"`
	FrontendEntry string      `json:"frontend_entry,omitempty"`
	Contributes   Contributes `json:"contributes,omitempty"`
}

// FrontendManifestResponse is returned by GET /api/extensions/frontend-manifest.
type FrontendManifestResponse struct {
	Extensions []FrontendManifestEntry `json:"extensions"`
}

// PermissionsResponse is returned by GET /api/extensions/{id}/permissions.
type PermissionsResponse struct {
	Name        string      `json:"name"`
	Permissions Permissions `json:"permissions"`
}

// ExtensionDataEntry is one key/value row of an extension's storage.
type ExtensionDataEntry struct {
	Key       string    `json:"key"`
	Value     any       `json:"value,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetExtensionDataRequest is the body of the extension-data upsert endpoint.
type SetExtensionDataRequest struct {
	Value any `json:"value"`
}

// ExtensionDataListResponse is returned by the extension-data list endpoint.
type ExtensionDataListResponse struct {
	Entries []ExtensionDataEntry `json:"entries"`
}

// AuditEntryResponse is one row of an extension's network audit trail.
type AuditEntryResponse struct {
	ID                  string         `json:"id"`
	ExtensionID         string         `json:"extension_id"`
	ExtensionName       string         `json:"extension_name"`
	TargetURL           string         `json:"target_url"`
	Method              string         `json:"method"`
	RequestHeaders      map[string]any `json:"request_headers,omitempty"`
	RequestBodyHash     string         `json:"request_body_hash,omitempty"`
	RequestBodySize     *int64         `json:"request_body_size,omitempty"`
	ResponseStatus      *int           `json:"response_status,omitempty"`
	ResponseTimeMs      *int64         `json:"response_time_ms,omitempty"`
	ResponseHeaders     map[string]any `json:"response_headers,omitempty"`
	ResponseBodyExcerpt string         `json:"response_body_excerpt,omitempty"`
	ResponseBodySize    *int64         `json:"response_body_size,omitempty"`
	Allowed             bool           `json:"allowed"`
	BlockedReason       string         `json:"blocked_reason,omitempty"`
	Error               string         `json:"error,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
}

// AuditListResponse is returned by the audit list endpoints.
type AuditListResponse struct {
	Entries    []AuditEntryResponse `json:"entries"`
	TotalCount int                  `json:"total_count"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}
