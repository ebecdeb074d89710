// Package seed populates the database with realistic development data.
package seed

import (
	"fmt"
	"log"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var categories = []string{
	"Tech", "Life", "Travel", "Books", "Food",
}

// Seeder populates the database with generated posts.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes all posts.
func (s *Seeder) ClearAll() error {
	log.Println("🧹 Clearing existing data...")
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}
	return nil
}

// SeedPosts creates n posts spread over the past year, newest last so the
// listing order is easy to eyeball in development.
func (s *Seeder) SeedPosts(n int) ([]*models.Post, error) {
	log.Printf("🌱 Seeding %d posts...", n)

	now := time.Now()
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		createdAt := now.AddDate(0, 0, -(n - i)).Unix()

		post := &models.Post{
			Title:       gofakeit.Sentence(gofakeit.Number(3, 7)),
			Description: markdownBody(),
			Category:    categories[gofakeit.Number(0, len(categories)-1)],
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		}
		if gofakeit.Bool() {
			url := fmt.Sprintf("https://picsum.photos/seed/%s/800/400", uuid.NewString())
			post.Image = &url
		}

		if err := s.db.Create(post).Error; err != nil {
			return nil, fmt.Errorf("failed to create post %d: %w", i, err)
		}
		posts = append(posts, post)
	}

	log.Printf("✓ Created %d posts", len(posts))
	return posts, nil
}

// markdownBody builds a few paragraphs with light markdown so excerpts have
// something to strip.
func markdownBody() string {
	return fmt.Sprintf("# %s\n\n%s\n\nSome **%s** thoughts on *%s*.\n\n%s",
		gofakeit.Sentence(4),
		gofakeit.Paragraph(1, 4, 12, " "),
		gofakeit.BuzzWord(),
		gofakeit.HackerNoun(),
		gofakeit.Paragraph(1, 3, 10, " "),
	)
}
