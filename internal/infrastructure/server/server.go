package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/shiftops/core/internal/adapters/http"
	"github.com/shiftops/core/internal/adapters/realtime"
	"github.com/shiftops/core/internal/adapters/repository"
	"github.com/shiftops/core/internal/application/services"
	"github.com/shiftops/core/internal/infrastructure/config"
	"github.com/shiftops/core/internal/infrastructure/database"
	"github.com/shiftops/core/internal/infrastructure/logger"
)

// Server represents the HTTP server.
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB
	rdb    *redis.Client
}

// CustomValidator wraps the validator.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance with the full dependency graph wired.
func New(cfg *config.Config, db *database.DB, rdb *redis.Client, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Repositories
	userRepo := repository.NewUserRepository(db.DB)
	storeRepo := repository.NewStoreRepository(db.DB)
	shiftRepo := repository.NewShiftRepository(db.DB)
	taskRepo := repository.NewBoardTaskRepository(db.DB)
	catalogRepo := repository.NewCatalogRepository(db.DB)
	perfRepo := repository.NewPerformanceRepository(db.DB)

	// Change feed
	notifier := realtime.NewNotifier(rdb, appLogger)
	feed := realtime.NewFeed(rdb, taskRepo, appLogger)

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWT, appLogger)
	userService := services.NewUserService(userRepo, storeRepo, appLogger)
	storeService := services.NewStoreService(storeRepo, appLogger)
	shiftService := services.NewShiftService(shiftRepo, userRepo, storeRepo, appLogger)
	boardService := services.NewBoardService(taskRepo, userRepo, feed, notifier, appLogger)
	catalogService := services.NewCatalogService(catalogRepo, appLogger)
	payrollService := services.NewPayrollService(shiftRepo, userRepo, cfg.Payroll, appLogger)
	performanceService := services.NewPerformanceService(perfRepo, userRepo, appLogger)

	// Handlers
	authHandler := httpHandlers.NewAuthHandler(authService, appLogger)
	userHandler := httpHandlers.NewUserHandler(userService, appLogger)
	storeHandler := httpHandlers.NewStoreHandler(storeService, appLogger)
	shiftHandler := httpHandlers.NewShiftHandler(shiftService, appLogger)
	boardHandler := httpHandlers.NewBoardHandler(boardService, appLogger)
	catalogHandler := httpHandlers.NewCatalogHandler(catalogService, appLogger)
	payrollHandler := httpHandlers.NewPayrollHandler(payrollService, appLogger)
	performanceHandler := httpHandlers.NewPerformanceHandler(performanceService, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
		rdb:    rdb,
	}

	server.setupMiddleware()
	server.setupRoutes(authHandler, userHandler, storeHandler, shiftHandler, boardHandler, catalogHandler, payrollHandler, performanceHandler, authService)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	s.echo.Use(middleware.RequestID())
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes(
	authHandler *httpHandlers.AuthHandler,
	userHandler *httpHandlers.UserHandler,
	storeHandler *httpHandlers.StoreHandler,
	shiftHandler *httpHandlers.ShiftHandler,
	boardHandler *httpHandlers.BoardHandler,
	catalogHandler *httpHandlers.CatalogHandler,
	payrollHandler *httpHandlers.PayrollHandler,
	performanceHandler *httpHandlers.PerformanceHandler,
	authService *services.AuthService,
) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	v1 := s.echo.Group("/api/v1")
	auth := httpHandlers.AuthMiddleware(authService)

	// Auth routes (public)
	v1.POST("/auth/login", authHandler.Login)

	// User routes
	userGroup := v1.Group("/users", auth)
	userGroup.GET("/me", userHandler.GetCurrentUser)
	userGroup.POST("", userHandler.CreateUser)
	userGroup.GET("/:id", userHandler.GetUser)
	userGroup.PUT("/:id", userHandler.UpdateUser)
	userGroup.GET("/:userId/payroll", payrollHandler.GetReport)
	userGroup.GET("/:userId/performance", performanceHandler.GetUserPerformance)

	// Store routes
	storeGroup := v1.Group("/stores", auth)
	storeGroup.GET("", storeHandler.ListStores)
	storeGroup.POST("", storeHandler.CreateStore)
	storeGroup.GET("/:id", storeHandler.GetStore)
	storeGroup.GET("/:storeId/users", userHandler.ListStoreUsers)
	storeGroup.GET("/:storeId/board", boardHandler.ListBoard)
	storeGroup.GET("/:storeId/board/stream", boardHandler.StreamBoard)

	// Shift routes
	shiftGroup := v1.Group("/shifts", auth)
	shiftGroup.GET("", shiftHandler.ListShifts)
	shiftGroup.POST("", shiftHandler.CreateShift)
	shiftGroup.GET("/statuses/:status", shiftHandler.GetStatusConfig)
	shiftGroup.GET("/:id", shiftHandler.GetShift)
	shiftGroup.PUT("/:id", shiftHandler.UpdateShift)
	shiftGroup.POST("/:id/submit", shiftHandler.SubmitShift)
	shiftGroup.POST("/:id/approve", shiftHandler.ApproveShift)
	shiftGroup.POST("/:id/reject", shiftHandler.RejectShift)
	shiftGroup.POST("/:id/changes", shiftHandler.RequestChanges)
	shiftGroup.POST("/:id/changes/approve", shiftHandler.ApproveChanges)
	shiftGroup.POST("/:id/changes/reject", shiftHandler.RejectChanges)
	shiftGroup.POST("/:id/deletion", shiftHandler.RequestDeletion)
	shiftGroup.POST("/:id/deletion/confirm", shiftHandler.ConfirmDeletion)
	shiftGroup.POST("/:id/complete", shiftHandler.CompleteShift)
	shiftGroup.POST("/:id/purge", shiftHandler.PurgeShift)

	// Board task routes
	taskGroup := v1.Group("/tasks", auth)
	taskGroup.POST("", boardHandler.CreateTask)
	taskGroup.GET("/:id", boardHandler.GetTask)
	taskGroup.PUT("/:id", boardHandler.UpdateTask)
	taskGroup.DELETE("/:id", boardHandler.DeleteTask)
	taskGroup.PUT("/:id/status", boardHandler.SetTaskStatus)
	taskGroup.GET("/:id/memos", boardHandler.ListMemos)
	taskGroup.POST("/:id/memos", boardHandler.AddMemo)
	taskGroup.GET("/:id/memos/stream", boardHandler.StreamMemos)

	// Catalog routes
	catalogGroup := v1.Group("/catalog", auth)
	catalogGroup.GET("", catalogHandler.ListActiveTemplates)
	catalogGroup.POST("", catalogHandler.CreateTemplate)
	catalogGroup.GET("/expected-minutes", catalogHandler.GetExpectedMinutes)
	catalogGroup.GET("/:id", catalogHandler.GetTemplate)
	catalogGroup.DELETE("/:id", catalogHandler.DeactivateTemplate)

	// Payroll preview (no stored shift involved)
	v1.POST("/payroll/preview", payrollHandler.PreviewWage, auth)
}

// setupMetrics configures Prometheus metrics.
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		status = "error"
		checks["redis"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["redis"] = map[string]interface{}{"status": "ok"}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server.
func (s *Server) Start(address string) error {
	// Only the read timeout is set. A write timeout would cut off the SSE
	// stream endpoints.
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout

	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors.
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if ve, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": ve.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
