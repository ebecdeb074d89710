// Package models contains data structures for the application's domain models.
package models

// Post is a single blog entry. Timestamps are Unix seconds stamped by the
// store layer: CreatedAt once on insert, UpdatedAt on every write.
type Post struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Image       *string `gorm:"type:varchar(5000)" json:"image"`
	Category    string  `gorm:"type:varchar(255);index" json:"category"`
	// Auto-time tracking is disabled: the store layer stamps both fields
	// from its own clock, and GORM must not overwrite them on Save.
	CreatedAt int64 `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
	// AuthorID exists in the schema but no write path populates it; there is
	// no account system.
	AuthorID *uint `json:"authorId,omitempty"`

	// Excerpt is not persisted; derived from Description for list responses.
	Excerpt string `gorm:"-" json:"excerpt,omitempty"`
}

// PostPage is one page of posts together with the pagination math callers
// need to render controls.
type PostPage struct {
	Posts      []*Post `json:"posts"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// SearchResult is the minimal shape the navbar search UI renders.
type SearchResult struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Image *string `json:"image,omitempty"`
}
