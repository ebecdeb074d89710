package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/images"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Post{}))
	return db
}

// setupTestServer wires a full server against SQLite with caching disabled.
func setupTestServer(t *testing.T, uploader images.Uploader) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	store := cache.NewWithClient(nil, 0)
	repo := repository.NewPostRepository(db, store)
	svc := service.NewPostService(repo, uploader)

	srv := NewServerWithDeps(&config.Config{Port: "8080", Env: "test"}, db, store, svc)
	app := fiber.New()
	srv.SetupRoutes(app)
	return app, db
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
	Code  string          `json:"code"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && json.Valid(raw) {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}

func decodePost(t *testing.T, env envelope) models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, json.Unmarshal(env.Data, &post))
	return post
}

func createTestPost(t *testing.T, app *fiber.App, title, description, category string) models.Post {
	t.Helper()
	resp, env := doJSON(t, app, fiber.MethodPost, "/api/posts", fiber.Map{
		"title":       title,
		"description": description,
		"category":    category,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decodePost(t, env)
}
