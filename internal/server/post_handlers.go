package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts?category=&page=&page_size=
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.posts.ListPosts(c.UserContext(), service.ListPostsInput{
		Category: c.Query("category"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, page)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "Blog not found")
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.posts.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, post)
}

type createPostRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       *string `json:"image"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.posts.CreatePost(c.UserContext(), service.CreatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, post)
}

type updatePostRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "Blog not found for update")
	if err != nil {
		return respondError(c, err)
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.posts.UpdatePost(c.UserContext(), id, service.UpdatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Image:       req.Image,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/:id and returns the deleted snapshot.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "Blog not found for deletion")
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.posts.DeletePost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, post)
}

// GetCategories handles GET /api/posts/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.posts.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, categories)
}
