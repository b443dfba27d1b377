package api

import (
	"io"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/agentdeck/agentdeck/pkg/models"
)

// listExtensionsHandler handles GET /api/extensions.
func (s *Server) listExtensionsHandler(c *echo.Context) error {
	list, err := s.extMgr.List(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, &models.ExtensionListResponse{Extensions: list})
}

// installExtensionHandler handles POST /api/extensions. The extension
// package is uploaded as a zip file under the "package" multipart field.
func (s *Server) installExtensionHandler(c *echo.Context) error {
	fileHeader, err := c.FormFile("package")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing package file")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not open uploaded package")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded package")
	}

	resp, err := s.extMgr.Install(c.Request().Context(), data)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// getExtensionHandler handles GET /api/extensions/:id.
func (s *Server) getExtensionHandler(c *echo.Context) error {
	resp, err := s.extMgr.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// getExtensionByNameHandler handles GET /api/extensions/by-name/:name.
func (s *Server) getExtensionByNameHandler(c *echo.Context) error {
	resp, err := s.extMgr.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// uninstallExtensionHandler handles DELETE /api/extensions/:id.
func (s *Server) uninstallExtensionHandler(c *echo.Context) error {
	if err := s.extMgr.Uninstall(c.Request().Context(), c.Param("id")); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// setExtensionStatusHandler handles PATCH /api/extensions/:id.
func (s *Server) setExtensionStatusHandler(c *echo.Context) error {
	var req models.SetExtensionStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := s.extMgr.SetStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// getPermissionsHandler handles GET /api/extensions/:id/permissions.
func (s *Server) getPermissionsHandler(c *echo.Context) error {
	resp, err := s.extMgr.Permissions(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// frontendManifestHandler handles GET /api/extensions/frontend-manifest.
func (s *Server) frontendManifestHandler(c *echo.Context) error {
	resp, err := s.extMgr.FrontendManifest(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, resp)
}
