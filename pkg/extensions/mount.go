package extensions

import (
	"net/http"
	"sync"

	echo "github.com/labstack/echo/v5"
)

// Mounter tracks the live, dynamically-mounted backend routers of
// enabled extensions (spec.md §4.2 "Mount / Unmount contract"). Echo's
// router has no native route-removal API, so instead of mutating the
// server's route table directly, every extension request passes through
// one catch-all route that dispatches into a mutex-guarded table —
// attaching/detaching a prefix is then just a map operation, giving the
// same externally-observable behavior (a 404 once unmounted) without
// reaching into echo internals. Grounded on the worker-pool's
// mutex-guarded registry idiom (cancel-function map keyed by id).
type Mounter struct {
	mu       sync.RWMutex
	handlers map[string]echo.HandlerFunc // extension name → mounted handler
	cleanups map[string]func()           // extension name → cleanup callable
}

// NewMounter constructs an empty Mounter.
func NewMounter() *Mounter {
	return &Mounter{
		handlers: make(map[string]echo.HandlerFunc),
		cleanups: make(map[string]func()),
	}
}

// Register installs the dispatch route on e. Call once at server startup.
//
// Only the wildcard form is mounted: extension-contributed backend routes
// always have at least one path segment beyond the extension name (e.g.
// GET /api/extensions/x/ping), so the bare /api/extensions/:name path is
// left free for the lifecycle management API (GET/DELETE/PATCH by id).
func (m *Mounter) Register(e *echo.Echo) {
	e.Any("/api/extensions/:name/*", m.dispatch)
}

func (m *Mounter) dispatch(c *echo.Context) error {
	name := c.Param("name")
	m.mu.RLock()
	handler, ok := m.handlers[name]
	m.mu.RUnlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "extension not mounted: "+name)
	}
	return handler(c)
}

// Mount attaches backendFn's router under /api/extensions/<name>,
// storing the returned cleanup callable (if any) for later Unmount.
func (m *Mounter) Mount(name string, backendFn BackendFunc) error {
	group := echo.New().Group("/api/extensions/" + name)
	cleanup, err := backendFn(group)
	if err != nil {
		return err
	}

	handler := groupHandler(group)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[name] = handler
	if cleanup != nil {
		m.cleanups[name] = cleanup
	}
	return nil
}

// Unmount removes name's dispatch entry and invokes its cleanup callable
// best-effort (panics/errors are swallowed — unload must still succeed).
// Safe to call when name was never mounted.
func (m *Mounter) Unmount(name string) {
	m.mu.Lock()
	cleanup, hadCleanup := m.cleanups[name]
	delete(m.handlers, name)
	delete(m.cleanups, name)
	m.mu.Unlock()

	if hadCleanup {
		func() {
			defer func() { _ = recover() }()
			cleanup()
		}()
	}
}

// IsMounted reports whether name currently has a live backend handler.
func (m *Mounter) IsMounted(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.handlers[name]
	return ok
}

// groupHandler adapts an echo.Group (a set of routes registered against
// its own private echo.Echo) into a single echo.HandlerFunc the Mounter
// can dispatch requests through.
func groupHandler(group *echo.Group) echo.HandlerFunc {
	return func(c *echo.Context) error {
		group.Echo().ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
