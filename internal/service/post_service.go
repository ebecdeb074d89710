// Package service implements the application's business rules on top of the
// repository and the image host.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inkwell/internal/excerpt"
	"inkwell/internal/images"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize mirrors the listing grid; the compact variant uses 3.
	DefaultPageSize = 6
	MaxPageSize     = 24

	// SearchLimit bounds the navbar dropdown.
	SearchLimit = 20

	MinTitleLen       = 2
	MaxDescriptionLen = 5000
)

// PostService owns validation, image-upload orchestration, pagination math
// and soft not-found mapping for posts.
type PostService struct {
	repo     repository.PostRepository
	uploader images.Uploader
}

// NewPostService wires a PostService. uploader may be nil when no image host
// is configured; creates with image payloads then fail cleanly.
func NewPostService(repo repository.PostRepository, uploader images.Uploader) *PostService {
	return &PostService{repo: repo, uploader: uploader}
}

// CreatePostInput carries the admin form fields. Image may be a plain URL or
// a data: URI captured from the form's local preview.
type CreatePostInput struct {
	Title       string
	Description string
	Category    string
	Image       *string
}

// UpdatePostInput is a partial update; nil fields are untouched.
type UpdatePostInput struct {
	Title       *string
	Description *string
	Category    *string
	Image       *string
}

// ListPostsInput selects one page of the (optionally filtered) listing.
type ListPostsInput struct {
	Category string
	Page     int
	PageSize int
}

func validateTitle(title string) error {
	if len(strings.TrimSpace(title)) < MinTitleLen {
		return models.NewValidationError("Title must be at least 2 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > MaxDescriptionLen {
		return models.NewValidationError(
			fmt.Sprintf("Description must be at most %d characters", MaxDescriptionLen))
	}
	return nil
}

// resolveImage turns the input image into a hosted URL. A data: URI is
// uploaded first; any upload failure aborts the whole create so no row ends
// up referencing an image that was never hosted.
func (s *PostService) resolveImage(ctx context.Context, image *string) (*string, error) {
	if image == nil || *image == "" {
		return nil, nil
	}
	if !strings.HasPrefix(*image, "data:") {
		return image, nil
	}

	_, content, err := images.ParseDataURI(*image)
	if err != nil {
		return nil, models.NewValidationError("Invalid image payload")
	}
	if s.uploader == nil {
		return nil, models.NewUploadError(errors.New("no image host configured"))
	}
	url, err := s.uploader.Upload(ctx, images.UploadInput{Content: content})
	if err != nil {
		return nil, models.NewUploadError(err)
	}
	return &url, nil
}

// CreatePost validates, uploads the image if any, and inserts the post.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}

	image, err := s.resolveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Image:       image,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// GetPost fetches one post by id; a missing row is the soft "Blog not found".
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog not found")
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// ListPosts returns one page of posts with the filter applied and the page
// index clamped to [1, ceil(total/pageSize)]. Each post carries an excerpt.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*models.PostPage, error) {
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total, err := s.repo.Count(ctx, in.Category)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	// Clamp to [1, totalPages]; an empty result set always reports page 1.
	page := in.Page
	if page < 1 || totalPages == 0 {
		page = 1
	} else if page > totalPages {
		page = totalPages
	}

	posts := []*models.Post{}
	if total > 0 {
		posts, err = s.repo.List(ctx, repository.ListFilter{
			Category: in.Category,
			Limit:    pageSize,
			Offset:   (page - 1) * pageSize,
		})
		if err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	for _, p := range posts {
		p.Excerpt = excerpt.FromMarkdown(p.Description, excerpt.DefaultWordLimit)
	}

	return &models.PostPage{
		Posts:      posts,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// SearchPosts maps matching posts to the minimal shape the search UI renders.
// A query matching nothing is an empty result, not an error.
func (s *PostService) SearchPosts(ctx context.Context, query string) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Query parameter is missing")
	}

	posts, err := s.repo.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	results := make([]models.SearchResult, 0, len(posts))
	for _, p := range posts {
		results = append(results, models.SearchResult{
			ID:    p.ID,
			Title: p.Title,
			URL:   fmt.Sprintf("/post/%d", p.ID),
			Image: p.Image,
		})
	}
	return results, nil
}

// UpdatePost applies a partial update; created_at is never touched.
func (s *PostService) UpdatePost(ctx context.Context, id uint, in UpdatePostInput) (*models.Post, error) {
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		if err := validateDescription(*in.Description); err != nil {
			return nil, err
		}
	}

	image := in.Image
	if in.Image != nil {
		resolved, err := s.resolveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		image = resolved
	}

	post, err := s.repo.Update(ctx, id, repository.PostChanges{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Image:       image,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog not found for update")
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// DeletePost removes the post and returns the deleted snapshot. Deleting the
// same id twice yields the not-found error on the second call.
func (s *PostService) DeletePost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog not found for deletion")
		}
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// Categories lists the distinct non-empty categories across all posts.
func (s *PostService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// LegacyEntryInput matches the old generic form endpoint's JSON body.
type LegacyEntryInput struct {
	Title       string `json:"title"`
	Tags        string `json:"tags"`
	Description string `json:"description"`
	ImgURL      string `json:"imgUrl"`
}

// CreateLegacyEntry implements the old generic form endpoint: title is
// required and must be unique; tags become the category as-is.
func (s *PostService) CreateLegacyEntry(ctx context.Context, in LegacyEntryInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}

	exists, err := s.repo.TitleExists(ctx, in.Title)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if exists {
		return nil, models.NewConflictError("Title must be unique")
	}

	var image *string
	if in.ImgURL != "" {
		image = &in.ImgURL
	}

	post := &models.Post{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Tags,
		Image:       image,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// UploadImage proxies a raw image to the hosting service.
func (s *PostService) UploadImage(ctx context.Context, name string, content []byte) (string, error) {
	if s.uploader == nil {
		return "", models.NewUploadError(errors.New("no image host configured"))
	}
	url, err := s.uploader.Upload(ctx, images.UploadInput{Name: name, Content: content})
	if err != nil {
		return "", models.NewUploadError(err)
	}
	return url, nil
}
