package extensions

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/agentdeck/agentdeck/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
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

func TestUnpackZip_RootManifest(t *testing.T) {
	data := buildZip(t, map[string]string{
		"manifest.json":     `{"name":"demo","version":"1.0.0","backend_entry":"routes:register"}`,
		"backend/routes.py": "# noop",
	})

	pkg, err := UnpackZip(data)
	require.NoError(t, err)
	assert.Equal(t, "demo", pkg.Manifest.Name)
	assert.Equal(t, "routes:register", pkg.Manifest.BackendEntry)
	assert.Contains(t, pkg.Files, "backend/routes.py")
}

func TestUnpackZip_SingleRootDir(t *testing.T) {
	data := buildZip(t, map[string]string{
		"demo-1.0.0/manifest.json": `{"name":"demo","version":"1.0.0","frontend_entry":"index.js"}`,
		"demo-1.0.0/frontend/index.js": "// noop",
	})

	pkg, err := UnpackZip(data)
	require.NoError(t, err)
	assert.Equal(t, "demo", pkg.Manifest.Name)
	assert.Contains(t, pkg.Files, "frontend/index.js")
}

func TestUnpackZip_MissingManifest(t *testing.T) {
	data := buildZip(t, map[string]string{"readme.txt": "hi"})
	_, err := UnpackZip(data)
	assert.ErrorIs(t, err, ErrManifestMissing)
}

func TestValidateManifest_RequiresEntryPoint(t *testing.T) {
	err := ValidateManifest(models.Manifest{Name: "demo", Version: "1.0.0"})
	assert.ErrorIs(t, err, ErrNoEntryPoint)

	err = ValidateManifest(models.Manifest{Name: "demo", Version: "1.0.0", BackendEntry: "routes:register"})
	assert.NoError(t, err)
}
