package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Liveness handles GET /health/live. It only proves the process is serving.
func (s *Server) Liveness(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

// HealthCheck handles GET /health/ready and GET /api/health, reporting
// dependency status.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unavailable"
	} else if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if rdb := s.cache.Client(); rdb == nil {
		redisStatus = "unavailable"
	} else if err := rdb.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().Unix(),
	})
}
