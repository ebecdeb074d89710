// Package server wires the HTTP surface: middleware, routes and handlers.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/images"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config *config.Config
	db     *gorm.DB
	cache  *cache.Store
	posts  *service.PostService
	prom   *fiberprometheus.FiberPrometheus
}

// NewServer creates a server instance with all dependencies connected.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	store := cache.New(cfg.RedisURL, time.Duration(cfg.CacheTTLSec)*time.Second)

	var uploader images.Uploader
	if cfg.ImageHostKey != "" {
		uploader = images.NewClient(cfg.ImageHostURL, cfg.ImageHostKey)
	}

	repo := repository.NewPostRepository(db, store)

	return &Server{
		config: cfg,
		db:     db,
		cache:  store,
		posts:  service.NewPostService(repo, uploader),
		prom:   middleware.InitMetrics("inkwell"),
	}, nil
}

// NewServerWithDeps builds a server around pre-wired dependencies. Used by
// tests; skips metrics registration so parallel apps do not collide on the
// default Prometheus registry.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, store *cache.Store, posts *service.PostService) *Server {
	return &Server{
		config: cfg,
		db:     db,
		cache:  store,
		posts:  posts,
	}
}

// Shutdown releases the server's external resources.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing cache: %w", err))
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing database: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	// Request ID for log correlation
	app.Use(requestid.New())

	// Tracing runs before the context middleware so the trace ID local is
	// populated when the request context is built.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.prom != nil {
		s.prom.RegisterAt(app, "/metrics")
		app.Use(middleware.MetricsMiddleware(s.prom))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.Liveness)
	app.Get("/health/ready", s.HealthCheck)

	api := app.Group("/api")

	api.Get("/health", s.HealthCheck)

	// The old generic form endpoint: POST creates, everything else is 405.
	api.Post("/", middleware.RateLimit(s.cache.Client(), 10, time.Minute, "legacy_create"), s.CreateLegacyEntry)
	api.All("/", s.MethodNotAllowed)

	// Navbar search stays at its historical path, separate from /posts.
	api.Get("/search-posts", middleware.RateLimit(s.cache.Client(), 30, time.Minute, "search"), s.SearchPosts)

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", middleware.RateLimit(s.cache.Client(), 10, 5*time.Minute, "create_post"), s.CreatePost)
	// Specific routes before the generic /:id
	posts.Get("/categories", s.GetCategories)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	api.Post("/images/upload", middleware.RateLimit(s.cache.Client(), 10, 5*time.Minute, "upload_image"), s.UploadImage)
}

// statusFor maps application error codes to HTTP statuses.
func statusFor(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "VALIDATION_ERROR":
			return fiber.StatusBadRequest
		case "CONFLICT":
			return fiber.StatusConflict
		case "METHOD_NOT_ALLOWED":
			return fiber.StatusMethodNotAllowed
		case "UPLOAD_FAILED":
			return fiber.StatusBadGateway
		}
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "handler error",
			"path", c.Path(), "error", err.Error())
	}
	return models.RespondWithError(c, status, err)
}

// parseID reads the :id parameter. Parsing is lenient: a non-numeric id is
// indistinguishable from a missing post, so callers map failures to their
// operation's not-found message.
func parseID(c *fiber.Ctx, notFoundMessage string) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, models.NewNotFoundError(notFoundMessage)
	}
	return uint(id), nil
}
