package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/agentdeck/agentdeck/pkg/services"
)

// getExtensionAuditHandler handles GET /api/extensions/:id/audit.
func (s *Server) getExtensionAuditHandler(c *echo.Context) error {
	filter := services.AuditListFilter{
		ExtensionID: c.Param("id"),
		AllowedOnly: c.QueryParam("allowed_only") == "true",
		BlockedOnly: c.QueryParam("blocked_only") == "true",
		Limit:       parseIntParam(c.QueryParam("limit"), 0),
		Offset:      parseIntParam(c.QueryParam("offset"), 0),
	}

	resp, err := s.audit.List(c.Request().Context(), filter)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// getAllAuditHandler handles GET /api/audit/all, the cross-extension
// audit trail view.
func (s *Server) getAllAuditHandler(c *echo.Context) error {
	filter := services.AuditListFilter{
		AllowedOnly: c.QueryParam("allowed_only") == "true",
		BlockedOnly: c.QueryParam("blocked_only") == "true",
		Limit:       parseIntParam(c.QueryParam("limit"), 0),
		Offset:      parseIntParam(c.QueryParam("offset"), 0),
	}

	resp, err := s.audit.List(c.Request().Context(), filter)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}
