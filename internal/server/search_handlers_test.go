package server

import (
	"encoding/json"
	"fmt"
	"testing"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPostsEndpoint(t *testing.T) {
	t.Run("Missing query is a 400 with the exact message", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)

		resp, env := doJSON(t, app, fiber.MethodGet, "/api/search-posts", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Query parameter is missing", *env.Error)
		// The data field is an empty array on this branch, not null.
		assert.JSONEq(t, "[]", string(env.Data))
	})

	t.Run("Any origin may call the endpoint", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)

		resp, _ := doJSON(t, app, fiber.MethodGet, "/api/search-posts?query=x", nil)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("Case-insensitive substring match over title and body", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		createTestPost(t, app, "Understanding Go Generics", "type parameters explained", "Tech")
		createTestPost(t, app, "Holiday Notes", "we talked about GENERICS over dinner", "Life")
		createTestPost(t, app, "Unrelated", "nothing to see", "Life")

		resp, env := doJSON(t, app, fiber.MethodGet, "/api/search-posts?query=generics", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var results []models.SearchResult
		require.NoError(t, json.Unmarshal(env.Data, &results))
		require.Len(t, results, 2)
		for _, r := range results {
			assert.Equal(t, fmt.Sprintf("/post/%d", r.ID), r.URL)
		}
	})

	t.Run("No matches is an empty data array, not an error", func(t *testing.T) {
		app, _ := setupTestServer(t, nil)
		createTestPost(t, app, "Something", "body", "")

		resp, env := doJSON(t, app, fiber.MethodGet, "/api/search-posts?query=zzzzz", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Nil(t, env.Error)

		var results []models.SearchResult
		require.NoError(t, json.Unmarshal(env.Data, &results))
		assert.Empty(t, results)
	})
}
