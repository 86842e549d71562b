package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shiftops/core/internal/application/services"
	"github.com/shiftops/core/internal/domain/entities"
	"github.com/shiftops/core/internal/infrastructure/logger"
	"github.com/shiftops/core/internal/ports"
)

// AuthHandler handles authentication requests.
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles user login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Login failed", "email", req.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, response)
}

// UserHandler handles staff account requests.
type UserHandler struct {
	userService *services.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *services.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// CreateUser handles user creation.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req ports.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.CreateUser(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create user failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

// GetCurrentUser returns the authenticated user's profile.
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// GetUser returns a user by ID.
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateUser updates a user's profile.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	var req ports.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), userID, req)
	if err != nil {
		h.logger.Errorw("Update user failed", "error", err, "user_id", userID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, user)
}

// ListStoreUsers lists the users attached to a store.
func (h *UserHandler) ListStoreUsers(c echo.Context) error {
	storeID, err := intParam(c, "storeId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid store ID")
	}

	users, err := h.userService.ListStoreUsers(c.Request().Context(), storeID)
	if err != nil {
		h.logger.Errorw("List store users failed", "error", err, "store_id", storeID)
		return domainError(err)
	}

	return c.JSON(http.StatusOK, users)
}

// StoreHandler handles location requests.
type StoreHandler struct {
	storeService *services.StoreService
	logger       *logger.Logger
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(storeService *services.StoreService, logger *logger.Logger) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
		logger:       logger,
	}
}

// CreateStore registers a new location.
func (h *StoreHandler) CreateStore(c echo.Context) error {
	var req ports.CreateStoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	store, err := h.storeService.CreateStore(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Create store failed", "error", err)
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, store)
}

// GetStore returns a store by ID.
func (h *StoreHandler) GetStore(c echo.Context) error {
	storeID, err := intParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid store ID")
	}

	store, err := h.storeService.GetStore(c.Request().Context(), storeID)
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusOK, store)
}

// ListStores lists all stores.
func (h *StoreHandler) ListStores(c echo.Context) error {
	stores, err := h.storeService.ListStores(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List stores failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve stores")
	}

	return c.JSON(http.StatusOK, stores)
}

// Utility functions and helper types

// domainError maps domain sentinel errors onto HTTP status codes. Unknown
// errors stay opaque 500s so internals never leak.
func domainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, entities.ErrShiftNotFound),
		errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrMemoNotFound),
		errors.Is(err, entities.ErrCatalogTaskNotFound),
		errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrStoreNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrValidation),
		errors.Is(err, entities.ErrNoChangeRequest),
		errors.Is(err, entities.ErrMissingActor):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

func getUserIDFromContext(c echo.Context) uuid.UUID {
	claims, ok := c.Get(claimsContextKey).(*ports.Claims)
	if !ok {
		return uuid.Nil
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil
	}
	return userID
}

func getActorFromContext(c echo.Context) entities.Actor {
	claims, ok := c.Get(claimsContextKey).(*ports.Claims)
	if !ok {
		return entities.Actor{}
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return entities.Actor{}
	}
	return entities.Actor{ID: userID, Name: claims.DisplayName}
}

func intParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type PaginatedResponse[T any] struct {
	Data   []T `json:"data"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
