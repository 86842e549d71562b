package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shiftops/core/internal/application/services"
	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// ShiftHandler handles shift lifecycle requests.
type ShiftHandler struct {
	shiftService *services.ShiftService
	logger       *logger.Logger
}

// NewShiftHandler creates a new shift handler.
func NewShiftHandler(shiftService *services.ShiftService, logger *logger.Logger) *ShiftHandler {
	return &ShiftHandler{
		shiftService: shiftService,
		logger:       logger,
	}
}

// CreateShift creates a shift, optionally submitting it straight into review.
func (h *ShiftHandler) CreateShift(c echo.Context) error {
	var req ports.CreateShiftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	shift, err := h.shiftService.CreateShift(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create shift failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, shift)
}

// GetShift returns a shift by ID.
func (h *ShiftHandler) GetShift(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid shift ID")
	}

	shift, err := h.shiftService.GetShift(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, shift)
}

// ListShifts lists shifts with optional filters.
func (h *ShiftHandler) ListShifts(c echo.Context) error {
	filter := ports.ShiftFilter{Limit: 50}

	if v := c.QueryParam("user_id"); v != "" {
		userID, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid user_id parameter")
		}
		filter.UserID = &userID
	}
	if v := c.QueryParam("store_id"); v != "" {
		storeID, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid store_id parameter")
		}
		filter.StoreID = &storeID
	}
	if v := c.QueryParam("status"); v != "" {
		status := entities.ShiftStatus(v)
		if !status.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status parameter")
		}
		filter.Status = &status
	}
	if v := c.QueryParam("from"); v != "" {
		filter.DateFrom = &v
	}
	if v := c.QueryParam("to"); v != "" {
		filter.DateTo = &v
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
		}
		filter.Limit = limit
	}
	if v := c.QueryParam("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid offset parameter")
		}
		filter.Offset = offset
	}

	shifts, err := h.shiftService.ListShifts(c.Request().Context(), filter)
	if err != nil {
		h.logger.Errorw("List shifts failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve shifts")
	}

	return c.JSON(http.StatusOK, PaginatedResponse[*entities.Shift]{
		Data:   shifts,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// UpdateShift edits an editable shift in place.
func (h *ShiftHandler) UpdateShift(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid shift ID")
	}

	var req ports.UpdateShiftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	shift, err := h.shiftService.UpdateShift(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Errorw("Update shift failed", "error", err, "shift_id", id)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, shift)
}

// SubmitShift moves a shift into the review queue.
func (h *ShiftHandler) SubmitShift(c echo.Context) error {
	return h.simpleTransition(c, h.shiftService.SubmitShift)
}

// ApproveShift approves a pending shift.
func (h *ShiftHandler) ApproveShift(c echo.Context) error {
	return h.reviewerTransition(c, h.shiftService.ApproveShift)
}

// RejectShift rejects a pending shift with a reason.
func (h *ShiftHandler) RejectShift(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid shift ID")
	}

	var req ports.RejectShiftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	shift, err := h.shiftService.RejectShift(c.Request().Context(), id, getUserIDFromContext(c), req.Reason)
	if err != nil {
		h.logger.Errorw("Reject shift failed", "error", err, "shift_id", id)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, shift)
}

// RequestChanges records a change request against an approved shift.
func (h *ShiftHandler) RequestChanges(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid shift ID")
	}

	var req ports.RequestShiftChangesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	shift, err := h.shiftService.RequestChanges(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Errorw("Request shift changes failed", "error", err, "shift_id", id)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, shift)
}

// ApproveChanges merges a pending change request into the shift.
func (h *ShiftHandler) ApproveChanges(c echo.Context) error {
	return h.reviewerTransition(c, h.shiftService.ApproveChanges)
}

// RejectChanges discards a pending change request.
func (h *ShiftHandler) RejectChanges(c echo.Context) error {
	return h.reviewerTransition(c, h.shiftService.RejectChanges)
}

// RequestDeletion asks for an approved shift to be removed.
func (h *ShiftHandler) RequestDeletion(c echo.Context) error {
	return h.simpleTransition(c, h.shiftService.RequestDeletion)
}

// ConfirmDeletion confirms a pending deletion request.
func (h *ShiftHandler) ConfirmDeletion(c echo.Context) error {
	return h.reviewerTransition(c, h.shiftService.ConfirmDeletion)
}

// CompleteShift marks an approved shift as worked.
func (h *ShiftHandler) CompleteShift(c echo.Context) error {
	return h.simpleTransition(c, h.shiftService.CompleteShift)
}

// PurgeShift hides a deleted shift permanently.
func (h *ShiftHandler) PurgeShift(c echo.Context) error {
	return h.reviewerTransition(c, h.shiftService.PurgeShift)
}

// GetStatusConfig returns the display metadata for one shift status.
func (h *ShiftHandler) GetStatusConfig(c echo.Context) error {
	status := entities.ShiftStatus(c.Param("status"))
	cfg, err := h.shiftService.StatusConfig(status)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *ShiftHandler) simpleTransition(c echo.Context, op func(ctx context.Context, id int) (*entities.Shift, error)) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid shift ID")
	}

	shift, err := op(c.Request().Context(), id)
	if err != nil {
		h.logger.Errorw("Shift transition failed", "error", err, "shift_id", id)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, shift)
}

func (h *ShiftHandler) reviewerTransition(c echo.Context, op func(ctx context.Context, id int, managerID uuid.UUID) (*entities.Shift, error)) error {
	id, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid shift ID")
	}

	shift, err := op(c.Request().Context(), id, getUserIDFromContext(c))
	if err != nil {
		h.logger.Errorw("Shift review action failed", "error", err, "shift_id", id)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, shift)
}
