// Package api provides the HTTP API server for the observability and
// extension platform (spec.md §6).
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/agentdeck/agentdeck/pkg/database"
	"github.com/agentdeck/agentdeck/pkg/extensions"
	"github.com/agentdeck/agentdeck/pkg/mcpsurface"
	"github.com/agentdeck/agentdeck/pkg/services"
	"github.com/agentdeck/agentdeck/pkg/version"
)

// Server is the HTTP API server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server

	dbClient    *database.Client
	ingestion   *services.IngestionService
	runs        *services.RunService
	evaluations *services.EvaluationService
	audit       *services.AuditService

	extMgr     *extensions.Manager
	extStorage *extensions.Storage
	mounter    *extensions.Mounter

	mcpDispatcher *mcpsurface.Dispatcher
	mcpSSE        *mcpsurface.SSEHandler
}

// NewServer wires every handler group and returns a ready-to-start Server.
func NewServer(
	dbClient *database.Client,
	ingestion *services.IngestionService,
	runs *services.RunService,
	evaluations *services.EvaluationService,
	audit *services.AuditService,
	extMgr *extensions.Manager,
	extStorage *extensions.Storage,
	mounter *extensions.Mounter,
	mcpDispatcher *mcpsurface.Dispatcher,
) *Server {
	e := echo.New()

	s := &Server{
		echo:          e,
		dbClient:      dbClient,
		ingestion:     ingestion,
		runs:          runs,
		evaluations:   evaluations,
		audit:         audit,
		extMgr:        extMgr,
		extStorage:    extStorage,
		mounter:       mounter,
		mcpDispatcher: mcpDispatcher,
		mcpSSE:        mcpsurface.NewSSEHandler(mcpDispatcher),
	}

	s.setupRoutes()
	return s
}

// Echo exposes the underlying router, primarily for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(10 * 1024 * 1024))
	s.echo.Use(securityHeaders())

	s.echo.GET("/api/health", s.healthHandler)

	s.echo.POST("/api/traces", s.ingestTraceHandler)

	s.echo.GET("/api/runs", s.listRunsHandler)
	s.echo.GET("/api/runs/:id", s.getRunHandler)
	s.echo.GET("/api/runs/:id/graph", s.getGraphHandler)
	s.echo.GET("/api/runs/:id/nodes/:nid", s.getNodeHandler)
	s.echo.GET("/api/runs/:id/evaluations", s.listEvaluationsHandler)

	s.echo.POST("/api/evaluations", s.createEvaluationHandler)

	s.echo.GET("/api/extensions", s.listExtensionsHandler)
	s.echo.POST("/api/extensions", s.installExtensionHandler)
	s.echo.GET("/api/extensions/frontend-manifest", s.frontendManifestHandler)
	s.echo.GET("/api/extensions/by-name/:name", s.getExtensionByNameHandler)
	s.echo.GET("/api/extensions/:id", s.getExtensionHandler)
	s.echo.DELETE("/api/extensions/:id", s.uninstallExtensionHandler)
	s.echo.PATCH("/api/extensions/:id", s.setExtensionStatusHandler)
	s.echo.GET("/api/extensions/:id/permissions", s.getPermissionsHandler)
	s.echo.GET("/api/extensions/:id/audit", s.getExtensionAuditHandler)

	s.echo.GET("/api/extensions/:id/data", s.listExtensionDataByIDHandler)
	s.echo.GET("/api/extensions/:id/data/*", s.getExtensionDataByIDHandler)
	s.echo.PUT("/api/extensions/:id/data/*", s.setExtensionDataByIDHandler)
	s.echo.DELETE("/api/extensions/:id/data/*", s.deleteExtensionDataByIDHandler)

	s.echo.GET("/api/extensions/by-name/:name/data", s.listExtensionDataHandler)
	s.echo.GET("/api/extensions/by-name/:name/data/*", s.getExtensionDataHandler)
	s.echo.PUT("/api/extensions/by-name/:name/data/*", s.setExtensionDataHandler)
	s.echo.DELETE("/api/extensions/by-name/:name/data/*", s.deleteExtensionDataHandler)

	s.echo.GET("/api/audit/all", s.getAllAuditHandler)

	mcpGroup := s.echo.Group("/api/mcp")
	s.mcpSSE.Register(mcpGroup)

	s.mounter.Register(s.echo)
}

// Start starts the HTTP server on the given address (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener.
// Used by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// HealthResponse is returned by GET /api/health (spec.md §6).
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) healthHandler(c *echo.Context) error {
	reqCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := database.Health(reqCtx, s.dbClient.DB()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, &HealthResponse{Status: "unhealthy", Version: version.Full()})
	}

	return c.JSON(http.StatusOK, &HealthResponse{Status: "ok", Version: version.Full()})
}
