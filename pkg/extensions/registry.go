package extensions

import (
	"sync"

	echo "github.com/labstack/echo/v5"
)

// BackendFunc is a compiled-in extension backend entry point. It receives
// a router group already rooted at /api/extensions/<name> and may return
// a cleanup callable, invoked (best-effort) on unload.
type BackendFunc func(router *echo.Group) (cleanup func(), err error)

// Registry resolves "module:function" backend_entry strings (spec.md
// §4.2) to compiled-in Go closures.
//
// Go has no safe runtime equivalent to Python's importlib — manifest.json
// ships source files under backend/ but this implementation does not
// execute them. Instead, extension packages register their entry points
// at build time via a blank import of a package whose init() calls
// Register. The on-disk backend/ tree is still installed (so the
// Extension row's has_backend flag and filesystem layout match the
// spec), but the code that runs is the registered closure, not the
// shipped source.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]BackendFunc
}

var defaultRegistry = &Registry{entries: make(map[string]BackendFunc)}

// Register adds a backend entry point to the default registry. Intended
// to be called from an extension package's init() function.
func Register(entryPoint string, fn BackendFunc) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.entries[entryPoint] = fn
}

// Resolve looks up a registered backend entry point.
func Resolve(entryPoint string) (BackendFunc, bool) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	fn, ok := defaultRegistry.entries[entryPoint]
	return fn, ok
}
