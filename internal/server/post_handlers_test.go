package server

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostEndpoint(t *testing.T) {
	t.Run("Valid creation stamps equal timestamps", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)

		post := createTestPost(t, app, "First Post", "hello world", "Tech")
		assert.NotZero(t, post.ID)
		assert.Equal(t, "First Post", post.Title)
		assert.Equal(t, post.CreatedAt, post.UpdatedAt)
		assert.NotZero(t, post.CreatedAt)
	})

	t.Run("Short title rejected", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)

		resp, env := doJSON(t, app, fiber.MethodPost, "/api/posts", fiber.Map{"title": "x"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Code)
	})

	t.Run("Malformed body rejected", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)

		resp, _ := doJSON(t, app, fiber.MethodPost, "/api/posts", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetPostEndpoint(t *testing.T) {
	t.Run("Existing post", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		created := createTestPost(t, app, "Readable", "body text", "")

		resp, env := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/posts/%d", created.ID), nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		got := decodePost(t, env)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Readable", got.Title)
	})

	t.Run("Missing post returns the soft message", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)

		resp, env := doJSON(t, app, fiber.MethodGet, "/api/posts/999", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Blog not found", *env.Error)
	})

	t.Run("Non-numeric id behaves like a missing post", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)

		resp, env := doJSON(t, app, fiber.MethodGet, "/api/posts/abc", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Blog not found", *env.Error)
	})
}

func TestListPostsEndpoint(t *testing.T) {
	seed := func(t *testing.T, app *fiber.App) {
		for i := 1; i <= 8; i++ {
			category := "Tech"
			if i%2 == 0 {
				category = "Life"
			}
			createTestPost(t, app, fmt.Sprintf("Post %02d", i), strings.Repeat("word ", 40), category)
		}
	}

	t.Run("Default page holds six posts with excerpts", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		seed(t, app)

		resp, env := doJSON(t, app, fiber.MethodGet, "/api/posts", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var page models.PostPage
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, int64(8), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		assert.Len(t, page.Posts, 6)
		assert.True(t, strings.HasSuffix(page.Posts[0].Excerpt, "..."))
	})

	t.Run("Second page holds the remainder", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		seed(t, app)

		_, env := doJSON(t, app, fiber.MethodGet, "/api/posts?page=2", nil)
		var page models.PostPage
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, 2, page.Page)
		assert.Len(t, page.Posts, 2)
	})

	t.Run("Category filter narrows the set", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		seed(t, app)

		_, env := doJSON(t, app, fiber.MethodGet, "/api/posts?category=Life", nil)
		var page models.PostPage
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, int64(4), page.Total)
		for _, p := range page.Posts {
			assert.Equal(t, "Life", p.Category)
		}
	})

	t.Run("Overshooting page clamps to the last one", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		seed(t, app)

		_, env := doJSON(t, app, fiber.MethodGet, "/api/posts?page=50", nil)
		var page models.PostPage
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, 2, page.Page)
		assert.Len(t, page.Posts, 2)
	})

	t.Run("Newest posts come first", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		seed(t, app)

		_, env := doJSON(t, app, fiber.MethodGet, "/api/posts?page_size=8", nil)
		var page models.PostPage
		require.NoError(t, json.Unmarshal(env.Data, &page))
		require.Len(t, page.Posts, 8)
		assert.Equal(t, "Post 08", page.Posts[0].Title)
		assert.Equal(t, "Post 01", page.Posts[7].Title)
	})

	t.Run("Empty store yields an empty page", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)

		_, env := doJSON(t, app, fiber.MethodGet, "/api/posts", nil)
		var page models.PostPage
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, int64(0), page.Total)
		assert.Empty(t, page.Posts)
	})
}

func TestUpdatePostEndpoint(t *testing.T) {
	t.Run("Title change keeps created_at", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		created := createTestPost(t, app, "Before", "body", "Tech")

		resp, env := doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/api/posts/%d", created.ID),
			fiber.Map{"title": "After"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		got := decodePost(t, env)
		assert.Equal(t, "After", got.Title)
		assert.Equal(t, "body", got.Description)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
	})

	t.Run("Missing post returns the update message", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)

		resp, env := doJSON(t, app, fiber.MethodPut, "/api/posts/42", fiber.Map{"title": "whatever"})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Blog not found for update", *env.Error)
	})
}

func TestDeletePostEndpoint(t *testing.T) {
	t.Run("Returns the deleted snapshot and frees the id", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		created := createTestPost(t, app, "Doomed", "body", "Tech")

		resp, env := doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/api/posts/%d", created.ID), nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		got := decodePost(t, env)
		assert.Equal(t, "Doomed", got.Title)

		resp, env = doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/api/posts/%d", created.ID), nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Blog not found for deletion", *env.Error)
	})
}

func TestGetCategoriesEndpoint(t *testing.T) {
	t.Run("Distinct non-empty categories, sorted", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		createTestPost(t, app, "One", "body", "Tech")
		createTestPost(t, app, "Two", "body", "Life")
		createTestPost(t, app, "Three", "body", "Tech")
		createTestPost(t, app, "Four", "body", "")

		resp, env := doJSON(t, app, fiber.MethodGet, "/api/posts/categories", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var categories []string
		require.NoError(t, json.Unmarshal(env.Data, &categories))
		assert.Equal(t, []string{"Life", "Tech"}, categories)
	})

	t.Run("Empty store yields an empty list", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)

		_, env := doJSON(t, app, fiber.MethodGet, "/api/posts/categories", nil)
		var categories []string
		require.NoError(t, json.Unmarshal(env.Data, &categories))
		assert.Empty(t, categories)
	})
}
