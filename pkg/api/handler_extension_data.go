package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/agentdeck/agentdeck/pkg/models"
)

// extensionNameByID resolves the :id path param to the extension's name,
// so id- and name-addressed storage routes can share one code path
// (spec.md §6 documents both GET/PUT/DELETE forms).
func (s *Server) extensionNameByID(c *echo.Context) (string, error) {
	ext, err := s.extMgr.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return "", mapServiceError(err)
	}
	return ext.Name, nil
}

// listExtensionDataHandler handles GET /api/extensions/by-name/:name/data.
func (s *Server) listExtensionDataHandler(c *echo.Context) error {
	return s.listExtensionDataByName(c, c.Param("name"))
}

// listExtensionDataByIDHandler handles GET /api/extensions/:id/data.
func (s *Server) listExtensionDataByIDHandler(c *echo.Context) error {
	name, err := s.extensionNameByID(c)
	if err != nil {
		return err
	}
	return s.listExtensionDataByName(c, name)
}

func (s *Server) listExtensionDataByName(c *echo.Context, name string) error {
	prefix := c.QueryParam("prefix")

	entries, err := s.extStorage.GetAll(c.Request().Context(), name, prefix)
	if err != nil {
		return mapServiceError(err)
	}

	resp := models.ExtensionDataListResponse{Entries: make([]models.ExtensionDataEntry, 0, len(entries))}
	for key, value := range entries {
		resp.Entries = append(resp.Entries, models.ExtensionDataEntry{Key: key, Value: value})
	}
	return c.JSON(http.StatusOK, &resp)
}

// getExtensionDataHandler handles GET /api/extensions/by-name/:name/data/*.
func (s *Server) getExtensionDataHandler(c *echo.Context) error {
	return s.getExtensionDataByName(c, c.Param("name"))
}

// getExtensionDataByIDHandler handles GET /api/extensions/:id/data/*.
func (s *Server) getExtensionDataByIDHandler(c *echo.Context) error {
	name, err := s.extensionNameByID(c)
	if err != nil {
		return err
	}
	return s.getExtensionDataByName(c, name)
}

func (s *Server) getExtensionDataByName(c *echo.Context, name string) error {
	key := c.Param("*")

	value, err := s.extStorage.Get(c.Request().Context(), name, key)
	if err != nil {
		return mapServiceError(err)
	}
	if value == nil {
		return echo.NewHTTPError(http.StatusNotFound, "key not found: "+key)
	}
	return c.JSON(http.StatusOK, &models.ExtensionDataEntry{Key: key, Value: value})
}

// setExtensionDataHandler handles PUT /api/extensions/by-name/:name/data/*.
func (s *Server) setExtensionDataHandler(c *echo.Context) error {
	return s.setExtensionDataByName(c, c.Param("name"))
}

// setExtensionDataByIDHandler handles PUT /api/extensions/:id/data/*.
func (s *Server) setExtensionDataByIDHandler(c *echo.Context) error {
	name, err := s.extensionNameByID(c)
	if err != nil {
		return err
	}
	return s.setExtensionDataByName(c, name)
}

func (s *Server) setExtensionDataByName(c *echo.Context, name string) error {
	key := c.Param("*")

	var req models.SetExtensionDataRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := s.extStorage.Set(c.Request().Context(), name, key, req.Value); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, &models.ExtensionDataEntry{Key: key, Value: req.Value})
}

// deleteExtensionDataHandler handles DELETE /api/extensions/by-name/:name/data/*.
func (s *Server) deleteExtensionDataHandler(c *echo.Context) error {
	return s.deleteExtensionDataByName(c, c.Param("name"))
}

// deleteExtensionDataByIDHandler handles DELETE /api/extensions/:id/data/*.
func (s *Server) deleteExtensionDataByIDHandler(c *echo.Context) error {
	name, err := s.extensionNameByID(c)
	if err != nil {
		return err
	}
	return s.deleteExtensionDataByName(c, name)
}

func (s *Server) deleteExtensionDataByName(c *echo.Context, name string) error {
	key := c.Param("*")

	deleted, err := s.extStorage.Delete(c.Request().Context(), name, key)
	if err != nil {
		return mapServiceError(err)
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "key not found: "+key)
	}
	return c.NoContent(http.StatusNoContent)
}
