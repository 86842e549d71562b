package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shiftops/core/internal/application/services"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// CatalogHandler handles catalog template requests.
type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         *logger.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService *services.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// CreateTemplate creates a catalog task template.
func (h *CatalogHandler) CreateTemplate(c echo.Context) error {
	var req ports.CreateCatalogTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.catalogService.CreateTemplate(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create catalog template failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTemplate returns a catalog template by ID.
func (h *CatalogHandler) GetTemplate(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid catalog task ID")
	}

	task, err := h.catalogService.GetTemplate(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// ListActiveTemplates lists templates valid now, or at the instant in the
// optional "at" parameter (RFC 3339).
func (h *CatalogHandler) ListActiveTemplates(c echo.Context) error {
	at := time.Now()
	if v := c.QueryParam("at"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid at parameter")
		}
		at = parsed
	}

	tasks, err := h.catalogService.ListActiveTemplates(c.Request().Context(), at)
	if err != nil {
		h.logger.Errorw("List catalog templates failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve catalog")
	}

	return c.JSON(http.StatusOK, tasks)
}

// DeactivateTemplate retires a catalog template.
func (h *CatalogHandler) DeactivateTemplate(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid catalog task ID")
	}

	task, err := h.catalogService.DeactivateTemplate(c.Request().Context(), id)
	if err != nil {
		h.logger.Errorw("Deactivate catalog template failed", "error", err, "catalog_task_id", id)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// GetExpectedMinutes sums the active templates' effort budget per shift.
func (h *CatalogHandler) GetExpectedMinutes(c echo.Context) error {
	total, err := h.catalogService.ExpectedShiftMinutes(c.Request().Context(), time.Now())
	if err != nil {
		h.logger.Errorw("Expected minutes failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute expected minutes")
	}

	return c.JSON(http.StatusOK, map[string]int{"expected_minutes": total})
}
