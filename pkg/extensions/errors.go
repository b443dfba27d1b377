package extensions

import "errors"

// Sentinel errors for the lifecycle manager, mirroring original_source's
// manager.py failure strings as typed Go errors.
var (
	ErrManifestMissing    = errors.New("manifest.json not found in extension package")
	ErrManifestInvalid    = errors.New("invalid manifest.json format")
	ErrInvalidZip         = errors.New("invalid zip file")
	ErrNoEntryPoint       = errors.New("extension must declare backend_entry or frontend_entry")
	ErrBackendNotFound    = errors.New("backend entry point not registered")
	ErrUnknownExtension   = errors.New("unknown extension")
)
