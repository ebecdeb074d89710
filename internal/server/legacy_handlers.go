package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateLegacyEntry handles POST /api, the old generic form endpoint. It
// accepts the flat {title, tags, description, imgUrl} body and enforces
// title uniqueness, which the newer /api/posts endpoint does not.
func (s *Server) CreateLegacyEntry(c *fiber.Ctx) error {
	var req service.LegacyEntryInput
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.posts.CreateLegacyEntry(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, post)
}

// MethodNotAllowed rejects every verb other than POST on the legacy endpoint.
func (s *Server) MethodNotAllowed(c *fiber.Ctx) error {
	c.Set("Allow", fiber.MethodPost)
	return models.RespondWithError(c, fiber.StatusMethodNotAllowed,
		models.NewMethodNotAllowedError("Method not allowed"))
}
