// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "promptvault/docs" // swagger docs
	"promptvault/internal/assist"
	"promptvault/internal/cache"
	"promptvault/internal/config"
	"promptvault/internal/database"
	"promptvault/internal/featureflags"
	"promptvault/internal/middleware"
	"promptvault/internal/models"
	"promptvault/internal/observability"
	"promptvault/internal/repository"
	"promptvault/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultAllowedOrigins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager
	stopTracing    func(context.Context) error

	userService     *service.UserService
	promptService   *service.PromptService
	feedbackService *service.FeedbackService
	settingService  *service.SettingService
	assistService   *assist.Service
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The bootstrap layer (or a test) owns connecting the database and Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server: config and database are required")
	}
	cache.SetClient(redisClient)

	userRepo := repository.NewUserRepository(db)
	promptRepo := repository.NewPromptRepository(db, cfg.PromptsCacheTTL())
	interactionRepo := repository.NewInteractionRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	s.userService = service.NewUserService(userRepo)
	s.promptService = service.NewPromptService(promptRepo, interactionRepo, s.userService.IsAdmin)
	s.feedbackService = service.NewFeedbackService(feedbackRepo)
	s.settingService = service.NewSettingService(settingRepo, s.userService.IsAdmin)

	s.assistService = assist.NewService(assist.NewGenerator(assist.Config{
		APIKey:  cfg.AssistAPIKey,
		BaseURL: cfg.AssistBaseURL,
		Model:   cfg.AssistModel,
		Timeout: cfg.AssistTimeout(),
	}))
	if s.assistService.Enabled() {
		s.promptService.WithDescriber(s.assistService, cfg.AssistTimeout())
	}

	return s, nil
}

// SetTracingShutdown registers the tracer flush run during Shutdown.
func (s *Server) SetTracingShutdown(fn func(context.Context) error) {
	s.stopTracing = fn
}

// NewApp builds the fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "PromptVault API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler turns errors that escape a handler into the JSON envelope.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return models.RespondWithError(c, fe.Code, &models.AppError{
			Code:    httpStatusCode(fe.Code),
			Message: fe.Message,
		})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagates request id, user id and trace id into the request context.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses
	// still carry the headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = defaultAllowedOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				&models.AppError{Code: "RATE_LIMITED", Message: "Too many requests, please try again later."})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/health", s.HealthCheck)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "PromptVault Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/catalog", s.GetCatalog)

	authRequired := middleware.AuthRequired(s.config.JWTSecret)
	optionalAuth := middleware.OptionalAuth(s.config.JWTSecret)
	adminRequired := s.AdminRequired()

	api.Post("/register", s.Register)
	api.Post("/login", s.Login)

	users := api.Group("/users")
	users.Get("/", s.GetUsers)
	// /profile is registered before /:username so it is never read as a username.
	users.Put("/profile", authRequired, s.UpdateProfile)
	users.Post("/:username/promote", authRequired, adminRequired, s.PromoteUser)
	users.Post("/:username/demote", authRequired, adminRequired, s.DemoteUser)
	users.Delete("/:username", authRequired, adminRequired, s.DeleteUser)
	users.Get("/:username", s.GetUserProfile)

	prompts := api.Group("/prompts")
	prompts.Get("/", optionalAuth, s.GetPrompts)
	prompts.Post("/", authRequired, middleware.RateLimit(s.redis, 20, 10*time.Minute, "create_prompt"), s.CreatePrompt)
	prompts.Post("/:id/view", optionalAuth, s.RecordView)
	prompts.Post("/:id/copy", optionalAuth, s.RecordCopy)
	prompts.Post("/:id/rate", authRequired, s.RatePrompt)
	prompts.Post("/:id/favorite", authRequired, s.ToggleFavorite)
	prompts.Get("/:id", optionalAuth, s.GetPrompt)
	prompts.Put("/:id", authRequired, s.UpdatePrompt)
	prompts.Delete("/:id", authRequired, s.DeletePrompt)

	feedback := api.Group("/feedback")
	feedback.Post("/", optionalAuth, middleware.RateLimit(s.redis, 5, 10*time.Minute, "feedback"), s.SubmitFeedback)
	feedback.Get("/", authRequired, adminRequired, s.GetFeedback)
	feedback.Put("/:id/read", authRequired, adminRequired, s.MarkFeedbackRead)
	feedback.Delete("/:id", authRequired, adminRequired, s.DeleteFeedback)

	settings := api.Group("/settings")
	settings.Get("/", s.GetSettings)
	settings.Get("/:key", s.GetSetting)
	settings.Put("/:key", authRequired, adminRequired, s.PutSetting)

	assistGroup := api.Group("/assist", authRequired, s.FeatureRequired(featureflags.Assist))
	assistGroup.Post("/optimize", s.OptimizePrompt)
	assistGroup.Post("/describe", s.DescribePrompt)

	admin := api.Group("/admin", authRequired, adminRequired)
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// HealthCheck handles GET /api/health
// @Summary API health
// @Tags health
// @Produce json
// @Success 200 {object} object{ok=bool}
// @Router /health [get]
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		admin, err := s.userService.IsAdmin(c.UserContext(), userID)
		if err != nil {
			return s.respondServiceError(c, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// FeatureRequired hides a route (404) from users the flag is not enabled for.
func (s *Server) FeatureRequired(flag string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := middleware.UserID(c)
		if s.featureFlags == nil || !s.featureFlags.Enabled(flag, userID) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Feature", flag))
		}
		return c.Next()
	}
}

// Start builds the app and serves it until Shutdown.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown drains HTTP traffic, waits for background jobs, flushes the tracer
// and closes the database and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	log := middleware.Logger

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.promptService.Wait(ctx); err != nil {
		log.Warn("background jobs did not finish before shutdown", slog.String("error", err.Error()))
	}

	if s.stopTracing != nil {
		if err := s.stopTracing(ctx); err != nil {
			log.Error("error flushing tracer", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	log.Info("Server shutdown complete")
	return nil
}
