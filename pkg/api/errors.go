package api

import (
	"errors"
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/agentdeck/agentdeck/pkg/extensions"
	"github.com/agentdeck/agentdeck/pkg/services"
)

// mapServiceError maps service-layer and extension-layer errors to HTTP
// error responses (spec.md §7).
func mapServiceError(err error) *echo.HTTPError {
	var validErr *services.ValidationError
	if errors.As(err, &validErr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, validErr.Error())
	}
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "resource not found")
	}
	if errors.Is(err, services.ErrAlreadyExists) {
		return echo.NewHTTPError(http.StatusConflict, "resource already exists")
	}
	if errors.Is(err, services.ErrConflict) || errors.Is(err, services.ErrConcurrentModification) {
		return echo.NewHTTPError(http.StatusConflict, "conflicting concurrent operation")
	}
	if errors.Is(err, services.ErrInvalidInput) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if errors.Is(err, services.ErrPermissionDenied) {
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	}

	var permErr *extensions.PermissionDeniedError
	if errors.As(err, &permErr) {
		return echo.NewHTTPError(http.StatusForbidden, permErr.Error())
	}
	if errors.Is(err, extensions.ErrUnknownExtension) {
		return echo.NewHTTPError(http.StatusNotFound, "extension not found")
	}
	if errors.Is(err, extensions.ErrManifestMissing) || errors.Is(err, extensions.ErrManifestInvalid) ||
		errors.Is(err, extensions.ErrNoEntryPoint) || errors.Is(err, extensions.ErrInvalidZip) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	slog.Error("unexpected service error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
