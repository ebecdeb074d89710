// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ListFilter narrows and pages a post listing. An empty Category means no
// category restriction ("All").
type ListFilter struct {
	Category string
	Limit    int
	Offset   int
}

// PostChanges is a partial update; nil fields are left untouched.
type PostChanges struct {
	Title       *string
	Description *string
	Image       *string
	Category    *string
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Post, error)
	Count(ctx context.Context, category string) (int64, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Post, error)
	Update(ctx context.Context, id uint, changes PostChanges) (*models.Post, error)
	Delete(ctx context.Context, id uint) (*models.Post, error)
	Categories(ctx context.Context) ([]string, error)
	TitleExists(ctx context.Context, title string) (bool, error)
}

// postRepository implements PostRepository.
type postRepository struct {
	db    *gorm.DB
	cache *cache.Store
	now   func() int64
}

// NewPostRepository creates a new post repository. The cache store may be a
// no-op handle; it is never nil-dereferenced.
func NewPostRepository(db *gorm.DB, store *cache.Store) PostRepository {
	return &postRepository{
		db:    db,
		cache: store,
		now:   func() int64 { return time.Now().Unix() },
	}
}

// Create stamps both timestamps with the same current second and inserts the row.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	now := r.now()
	post.CreatedAt = now
	post.UpdatedAt = now
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		r.cache.InvalidatePostsList(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.cache.Aside(ctx, cache.PostKey(id), &post, r.cache.TTL(), func() error {
		return r.db.WithContext(ctx).First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns posts newest-first. The original store relied on insertion
// order; an explicit ORDER BY makes the ordering a guarantee instead of an
// accident.
func (r *postRepository) List(ctx context.Context, filter ListFilter) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	q = q.Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, category string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Search matches a case-insensitive substring over title and description.
func (r *postRepository) Search(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	pattern := "%" + strings.ToLower(query) + "%"
	q := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Update applies the non-nil changes and refreshes updated_at. created_at is
// never rewritten.
func (r *postRepository) Update(ctx context.Context, id uint, changes PostChanges) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}

	if changes.Title != nil {
		post.Title = *changes.Title
	}
	if changes.Description != nil {
		post.Description = *changes.Description
	}
	if changes.Image != nil {
		post.Image = changes.Image
	}
	if changes.Category != nil {
		post.Category = *changes.Category
	}
	post.UpdatedAt = r.now()

	if err := r.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, err
	}
	r.cache.InvalidatePost(ctx, id)
	r.cache.InvalidatePostsList(ctx)
	return &post, nil
}

// Delete removes the row and returns the deleted snapshot. Deleting a missing
// id yields gorm.ErrRecordNotFound, so a second delete of the same id fails
// the same way a delete of a never-existing id does.
func (r *postRepository) Delete(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return nil, err
	}
	r.cache.InvalidatePost(ctx, id)
	r.cache.InvalidatePostsList(ctx)
	return &post, nil
}

// Categories returns the distinct non-empty category values across all posts.
func (r *postRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Distinct("category").
		Where("category <> ''").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *postRepository) TitleExists(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("title = ?", title).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
