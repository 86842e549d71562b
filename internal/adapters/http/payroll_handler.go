package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shiftops/core/internal/application/services"
	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/infrastructure/logger"
)

// PayrollHandler handles wage report requests.
type PayrollHandler struct {
	payrollService *services.PayrollService
	logger         *logger.Logger
}

// NewPayrollHandler creates a new payroll handler.
func NewPayrollHandler(payrollService *services.PayrollService, logger *logger.Logger) *PayrollHandler {
	return &PayrollHandler{
		payrollService: payrollService,
		logger:         logger,
	}
}

// GetReport builds a user's payroll report over a date range.
func (h *PayrollHandler) GetReport(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if from == "" || to == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "from and to parameters are required")
	}

	report, err := h.payrollService.Report(c.Request().Context(), userID, from, to)
	if err != nil {
		h.logger.Errorw("Payroll report failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, report)
}

// previewRequest is the wage preview payload.
type previewRequest struct {
	StartTime  string                   `json:"start_time" validate:"required"`
	EndTime    string                   `json:"end_time" validate:"required"`
	Classes    []entities.ClassTimeSlot `json:"classes"`
	HourlyWage float64                  `json:"hourly_wage"`
}

// PreviewWage decomposes and prices a candidate time range without saving.
func (h *PayrollHandler) PreviewWage(c echo.Context) error {
	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	line, err := h.payrollService.Preview(req.StartTime, req.EndTime, req.Classes, req.HourlyWage)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, line)
}

// PerformanceHandler handles performance aggregation requests.
type PerformanceHandler struct {
	performanceService *services.PerformanceService
	logger             *logger.Logger
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(performanceService *services.PerformanceService, logger *logger.Logger) *PerformanceHandler {
	return &PerformanceHandler{
		performanceService: performanceService,
		logger:             logger,
	}
}

// GetUserPerformance returns a user's aggregated performance summary.
func (h *PerformanceHandler) GetUserPerformance(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	perf, err := h.performanceService.GetUserPerformance(c.Request().Context(), userID)
	if err != nil {
		h.logger.Errorw("Get user performance failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, perf)
}
