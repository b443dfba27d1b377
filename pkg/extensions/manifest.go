package extensions

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/agentdeck/agentdeck/pkg/models"
)

// ParsedPackage is the result of unpacking and validating an extension zip.
type ParsedPackage struct {
	Manifest   models.Manifest
	RawManifest map[string]any
	Files      map[string][]byte // path relative to the package root → contents
}

// ValidateManifest checks the required-field invariants of an extension
// manifest (spec.md §6): name and version are required, and at least one
// of backend_entry/frontend_entry must be present.
func ValidateManifest(m models.Manifest) error {
	if m.Name == "" {
		return fmt.Errorf("%w: missing required field: name", ErrManifestInvalid)
	}
	if m.Version == "" {
		return fmt.Errorf("%w: missing required field: version", ErrManifestInvalid)
	}
	if m.BackendEntry == "" && m.FrontendEntry == "" {
		return ErrNoEntryPoint
	}
	return nil
}

// UnpackZip extracts an extension zip into memory, locating manifest.json
// either at the archive root or, if the archive has a single top-level
// directory (the common "GitHub zip download" shape), within that
// directory (spec.md §4.2 "Installed layout").
func UnpackZip(zipBytes []byte) (*ParsedPackage, error) {
	r, err := zip.NewReader(readerAt(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidZip, err)
	}

	files := make(map[string][]byte, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		files[f.Name] = data
	}

	root := findPackageRoot(files)

	manifestData, ok := files[path.Join(root, "manifest.json")]
	if !ok {
		return nil, ErrManifestMissing
	}

	var rawManifest map[string]any
	if err := json.Unmarshal(manifestData, &rawManifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}

	var manifest models.Manifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	if err := ValidateManifest(manifest); err != nil {
		return nil, err
	}

	rooted := make(map[string][]byte, len(files))
	for name, data := range files {
		rel := strings.TrimPrefix(name, root+"/")
		if root == "" {
			rel = name
		}
		rooted[rel] = data
	}

	return &ParsedPackage{Manifest: manifest, RawManifest: rawManifest, Files: rooted}, nil
}

// findPackageRoot returns "" if manifest.json sits at the archive root,
// or the single top-level directory name if the archive wraps everything
// in one folder.
func findPackageRoot(files map[string][]byte) string {
	if _, ok := files["manifest.json"]; ok {
		return ""
	}

	roots := map[string]bool{}
	for name := range files {
		parts := strings.SplitN(name, "/", 2)
		if len(parts) == 2 {
			roots[parts[0]] = true
		}
	}
	if len(roots) == 1 {
		for r := range roots {
			return r
		}
	}
	return ""
}

// readerAt adapts a byte slice to io.ReaderAt without an extra copy.
type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func readerAt(b []byte) io.ReaderAt {
	return byteReaderAt(b)
}
