package server

import (
	"io"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// maxUploadBytes caps what we forward to the image host.
const maxUploadBytes = 10 << 20

// UploadImage handles POST /api/images/upload. The image arrives as a
// multipart file field and the response carries the hosted URL, so the admin
// form can upload ahead of submitting the post itself.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	header, err := c.FormFile("image")
	if err != nil {
		return respondError(c, models.NewValidationError("Image file is missing"))
	}
	if header.Size > maxUploadBytes {
		return respondError(c, models.NewValidationError("Image file is too large"))
	}

	file, err := header.Open()
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	url, err := s.posts.UploadImage(c.UserContext(), header.Filename, content)
	if err != nil {
		return respondError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{"url": url})
}
