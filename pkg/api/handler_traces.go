package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/agentdeck/agentdeck/pkg/models"
)

// ingestTraceHandler handles POST /api/traces.
func (s *Server) ingestTraceHandler(c *echo.Context) error {
	var req models.IngestTraceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := s.ingestion.IngestTrace(c.Request().Context(), req)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, resp)
}
