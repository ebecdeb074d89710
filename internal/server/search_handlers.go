package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchPosts handles GET /api/search-posts?query=...
//
// The endpoint is intentionally permissive about origins: it predates the
// CORS middleware configuration and external widgets still call it directly.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	c.Set("Access-Control-Allow-Origin", "*")

	query := c.Query("query")
	if query == "" {
		// This branch keeps the historical shape: an empty result array
		// alongside the error, not a null data field.
		msg := "Query parameter is missing"
		return c.Status(fiber.StatusBadRequest).JSON(models.APIResponse{
			Data:  []models.SearchResult{},
			Error: &msg,
			Code:  "VALIDATION_ERROR",
		})
	}

	results, err := s.posts.SearchPosts(c.UserContext(), query)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, results)
}
