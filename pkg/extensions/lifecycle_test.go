package extensions

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	echo "github.com/labstack/echo/v5"

	tdb "github.com/agentdeck/agentdeck/test/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestManager_InstallMountUninstall(t *testing.T) {
	unloaded := false
	Register("demo:register", func(router *echo.Group) (func(), error) {
		router.GET("/ping", func(c *echo.Context) error {
			return c.String(200, "pong")
		})
		return func() { unloaded = true }, nil
	})

	client := tdb.NewTestClient(t)
	ctx := context.Background()
	mounter := NewMounter()
	mgr, err := NewManager(client.Client, mounter, t.TempDir())
	require.NoError(t, err)

	data := zipBytes(t, map[string]string{
		"manifest.json":     `{"name":"demo","version":"1.0.0","backend_entry":"demo:register"}`,
		"backend/routes.py": "# noop",
	})

	resp, err := mgr.Install(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, "demo", resp.Name)
	assert.Equal(t, "enabled", resp.Status)
	assert.Empty(t, resp.LoadError)
	assert.True(t, mounter.IsMounted("demo"))

	disabled, err := mgr.SetStatus(ctx, resp.ID, "disabled")
	require.NoError(t, err)
	assert.Equal(t, "disabled", disabled.Status)
	assert.False(t, mounter.IsMounted("demo"))
	assert.True(t, unloaded)

	require.NoError(t, mgr.Uninstall(ctx, resp.ID))

	_, err = client.Extension.Get(ctx, resp.ID)
	assert.Error(t, err)
}

func TestManager_Install_UpgradeWhileEnabledReloadsBackend(t *testing.T) {
	Register("demo2:register", func(router *echo.Group) (func(), error) {
		router.GET("/ping", func(c *echo.Context) error { return c.String(200, "v1") })
		return nil, nil
	})

	client := tdb.NewTestClient(t)
	ctx := context.Background()
	mounter := NewMounter()
	mgr, err := NewManager(client.Client, mounter, t.TempDir())
	require.NoError(t, err)

	v1 := zipBytes(t, map[string]string{
		"manifest.json": `{"name":"demo2","version":"1.0.0","backend_entry":"demo2:register"}`,
	})
	resp, err := mgr.Install(ctx, v1)
	require.NoError(t, err)
	assert.Equal(t, "enabled", resp.Status)
	assert.True(t, mounter.IsMounted("demo2"))

	v2 := zipBytes(t, map[string]string{
		"manifest.json": `{"name":"demo2","version":"2.0.0","backend_entry":"demo2:register"}`,
	})
	upgraded, err := mgr.Install(ctx, v2)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", upgraded.Version)
	assert.Equal(t, "enabled", upgraded.Status)
	assert.True(t, mounter.IsMounted("demo2"))
}

func TestManager_Install_MissingBackendEntry(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	mounter := NewMounter()
	mgr, err := NewManager(client.Client, mounter, t.TempDir())
	require.NoError(t, err)

	data := zipBytes(t, map[string]string{
		"manifest.json": `{"name":"onlyfrontend","version":"1.0.0","frontend_entry":"index.js"}`,
		"frontend/index.js": "// noop",
	})
	resp, err := mgr.Install(ctx, data)
	require.NoError(t, err)
	assert.False(t, resp.HasBackend)
	assert.True(t, resp.HasFrontend)
	assert.Equal(t, "enabled", resp.Status)
}

func TestManager_Install_BackendLoadFailureStillEnables(t *testing.T) {
	client := tdb.NewTestClient(t)
	ctx := context.Background()
	mounter := NewMounter()
	mgr, err := NewManager(client.Client, mounter, t.TempDir())
	require.NoError(t, err)

	data := zipBytes(t, map[string]string{
		"manifest.json": `{"name":"brokenbackend","version":"1.0.0","backend_entry":"no:such-entry"}`,
	})

	resp, err := mgr.Install(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, "enabled", resp.Status)
	assert.NotEmpty(t, resp.LoadError)
	assert.False(t, mounter.IsMounted("brokenbackend"))
}
