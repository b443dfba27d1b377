package extensions

import (
	"context"
	"testing"

	tdb "github.com/agentdeck/agentdeck/test/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ListGetPermissionsFrontendManifest(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	mgr, err := NewManager(client.Client, NewMounter(), t.TempDir())
	require.NoError(t, err)

	data := zipBytes(t, map[string]string{
		"manifest.json": `{
			"name":"query-demo",
			"version":"1.0.0",
			"frontend_entry":"index.js",
			"permissions":{"storage":true,"network":[{"url":"https://api.ok.com/*","methods":["GET"]}]},
			"contributes":{"sidebar_panels":[{"id":"p1","title":"Panel"}]}
		}`,
		"frontend/index.js": "// noop",
	})

	resp, err := mgr.Install(ctx, data)
	require.NoError(t, err)

	list, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	got, err := mgr.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "query-demo", got.Name)

	byName, err := mgr.GetByName(ctx, "query-demo")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, byName.ID)

	perms, err := mgr.Permissions(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, perms.Permissions.Storage)
	require.Len(t, perms.Permissions.Network, 1)
	assert.Equal(t, "https://api.ok.com/*", perms.Permissions.Network[0].URL)

	_, err = mgr.SetStatus(ctx, resp.ID, "enabled")
	require.NoError(t, err)

	fm, err := mgr.FrontendManifest(ctx)
	require.NoError(t, err)
	require.Len(t, fm.Extensions, 1)
	assert.Equal(t, "query-demo", fm.Extensions[0].Name)
	assert.Equal(t, "index.js", fm.Extensions[0].FrontendEntry)
	require.Len(t, fm.Extensions[0].Contributes.SidebarPanels, 1)
	assert.Equal(t, "p1", fm.Extensions[0].Contributes.SidebarPanels[0].ID)
}
