package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"

	"github.com/agentdeck/agentdeck/pkg/services"
)

// listRunsHandler handles GET /api/runs.
func (s *Server) listRunsHandler(c *echo.Context) error {
	filter := services.RunListFilter{
		Status:    c.QueryParam("status"),
		Framework: c.QueryParam("framework"),
		AgentID:   c.QueryParam("agent_id"),
		GraphID:   c.QueryParam("graph_id"),
		Limit:     parseIntParam(c.QueryParam("limit"), 0),
		Offset:    parseIntParam(c.QueryParam("offset"), 0),
	}

	resp, err := s.runs.ListRuns(c.Request().Context(), filter)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// getRunHandler handles GET /api/runs/:id.
func (s *Server) getRunHandler(c *echo.Context) error {
	resp, err := s.runs.GetRun(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// getGraphHandler handles GET /api/runs/:id/graph.
func (s *Server) getGraphHandler(c *echo.Context) error {
	resp, err := s.runs.GetGraph(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// getNodeHandler handles GET /api/runs/:id/nodes/:nid.
func (s *Server) getNodeHandler(c *echo.Context) error {
	resp, err := s.runs.GetNode(c.Request().Context(), c.Param("id"), c.Param("nid"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// parseIntParam parses raw as an int, returning def if raw is empty or invalid.
func parseIntParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
