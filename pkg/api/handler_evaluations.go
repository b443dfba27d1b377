package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/agentdeck/agentdeck/pkg/models"
)

// createEvaluationHandler handles POST /api/evaluations.
func (s *Server) createEvaluationHandler(c *echo.Context) error {
	var req models.CreateEvaluationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := s.evaluations.CreateEvaluation(c.Request().Context(), req)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// listEvaluationsHandler handles GET /api/runs/:id/evaluations.
func (s *Server) listEvaluationsHandler(c *echo.Context) error {
	resp, err := s.evaluations.ListEvaluations(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}
